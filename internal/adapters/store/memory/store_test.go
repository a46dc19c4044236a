package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hostel-management/hostel-service/internal/adapters/store/memory"
	"github.com/hostel-management/hostel-service/internal/core/domain"
	"github.com/hostel-management/hostel-service/internal/mocks"
)

// stepClock returns a time one minute later on every call.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Minute)
	return c.now
}

func newTestStore(t *testing.T, opts ...memory.Option) *memory.Store {
	t.Helper()
	clock := &stepClock{now: time.Date(2026, time.October, 1, 9, 0, 0, 0, time.UTC)}
	s := memory.New(append([]memory.Option{memory.WithClock(clock.Now)}, opts...)...)
	s.SeedDemoUsers()
	return s
}

func mustCreateStudent(t *testing.T, s *memory.Store, name, email string) domain.User {
	t.Helper()
	u, err := s.CreateStudent(context.Background(), domain.NewStudent{Name: name, Email: email, StudentID: "ST-" + name})
	if err != nil {
		t.Fatalf("CreateStudent(%s): %v", name, err)
	}
	return u
}

func mustCreateRoom(t *testing.T, s *memory.Store, number string, capacity int) domain.Room {
	t.Helper()
	r, err := s.CreateRoom(context.Background(), domain.NewRoom{RoomNumber: number, Capacity: capacity, Floor: 1, Type: domain.RoomDouble})
	if err != nil {
		t.Fatalf("CreateRoom(%s): %v", number, err)
	}
	return r
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantRole domain.Role
		wantErr  error
	}{
		{name: "admin_credentials", email: "admin@hostel.com", password: "password123", wantRole: domain.RoleAdmin},
		{name: "warden_credentials", email: "warden@hostel.com", password: "password123", wantRole: domain.RoleWarden},
		{name: "wrong_password", email: "admin@hostel.com", password: "nope", wantErr: domain.ErrAuth},
		{name: "unknown_email", email: "ghost@hostel.com", password: "password123", wantErr: domain.ErrAuth},
	}

	s := newTestStore(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := s.Login(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if u.Role != tt.wantRole {
				t.Errorf("expected role %s, got %s", tt.wantRole, u.Role)
			}
			if u.Password != "password123" {
				t.Errorf("expected stored password to be returned to the caller")
			}
		})
	}
}

func TestCreateStudent_OpensOnePendingFee(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	names := []string{"alice", "bob", "carol"}
	for _, n := range names {
		u := mustCreateStudent(t, s, n, n+"@hostel.com")

		if u.Password != domain.DefaultPassword {
			t.Errorf("expected default password, got %q", u.Password)
		}
		if !u.IsCheckedIn {
			t.Errorf("new students start checked in")
		}
		if u.Avatar == "" {
			t.Errorf("expected a generated avatar")
		}

		fees, err := s.ListFees(ctx, u.ID)
		if err != nil {
			t.Fatalf("ListFees: %v", err)
		}
		if len(fees) != 1 {
			t.Fatalf("expected exactly one fee for %s, got %d", n, len(fees))
		}
		if fees[0].Status != domain.FeePending {
			t.Errorf("expected Pending fee, got %s", fees[0].Status)
		}
		if fees[0].Amount != domain.DefaultMonthlyFee {
			t.Errorf("expected amount %d, got %v", domain.DefaultMonthlyFee, fees[0].Amount)
		}
		if fees[0].Month != "October 2026" {
			t.Errorf("expected month October 2026, got %q", fees[0].Month)
		}
	}

	notes, _ := s.ListNotifications(ctx, domain.RoleWarden)
	if len(notes) != len(names) {
		t.Fatalf("expected %d New Student notifications, got %d", len(names), len(notes))
	}
	if notes[0].Title != domain.TitleNewStudent || notes[0].Message != "carol joined the hostel." {
		t.Errorf("unexpected newest notification %+v", notes[0])
	}
}

func TestCreateStudent_Validation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateStudent(ctx, domain.NewStudent{Email: "x@hostel.com"}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation for missing name, got %v", err)
	}
	mustCreateStudent(t, s, "dup", "dup@hostel.com")
	if _, err := s.CreateStudent(ctx, domain.NewStudent{Name: "dup2", Email: "DUP@hostel.com"}); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected ErrConflict for duplicate email, got %v", err)
	}
}

func TestRegister(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	chef, err := s.Register(ctx, domain.NewUser{Name: "Sous Chef", Email: "sous@hostel.com", Password: "secret", Role: domain.RoleKitchen})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if chef.StudentProfile != nil {
		t.Errorf("staff accounts carry no student profile")
	}
	if _, err := s.Login(ctx, "sous@hostel.com", "secret"); err != nil {
		t.Errorf("expected registered user to log in: %v", err)
	}

	student, err := s.Register(ctx, domain.NewUser{Name: "Reg Student", Email: "reg@hostel.com", Password: "pw", Role: domain.RoleStudent})
	if err != nil {
		t.Fatalf("Register student: %v", err)
	}
	fees, _ := s.ListFees(ctx, student.ID)
	if len(fees) != 1 {
		t.Errorf("registered student should get an opening fee, got %d", len(fees))
	}

	if _, err := s.Register(ctx, domain.NewUser{Name: "A", Email: "admin@hostel.com", Password: "x", Role: domain.RoleAdmin}); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
	if _, err := s.Register(ctx, domain.NewUser{Name: "A", Email: "a@hostel.com", Password: "x", Role: "JANITOR"}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation for unknown role, got %v", err)
	}
}

func TestAssignStudent_MovesBetweenRooms(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sid := mustCreateStudent(t, s, "mover", "mover@hostel.com").ID
	r1 := mustCreateRoom(t, s, "101", 2)
	r2 := mustCreateRoom(t, s, "102", 2)

	if _, err := s.AssignStudent(ctx, r1.ID, sid); err != nil {
		t.Fatalf("first assign: %v", err)
	}
	got, err := s.AssignStudent(ctx, r2.ID, sid)
	if err != nil {
		t.Fatalf("second assign: %v", err)
	}
	if !got.HasOccupant(sid) {
		t.Errorf("expected %s in room 102", sid)
	}

	rooms, _ := s.ListRooms(ctx)
	for _, r := range rooms {
		switch r.ID {
		case r1.ID:
			if r.HasOccupant(sid) {
				t.Errorf("student still listed in room 101")
			}
		case r2.ID:
			if len(r.Occupants) != 1 {
				t.Errorf("expected one occupant in 102, got %v", r.Occupants)
			}
		}
	}

	u, _ := s.GetUser(ctx, sid)
	if u.RoomNumber != "102" {
		t.Errorf("expected roomNumber 102, got %q", u.RoomNumber)
	}
}

func TestAssignStudent_Rejections(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := mustCreateStudent(t, s, "a", "a@hostel.com").ID
	b := mustCreateStudent(t, s, "b", "b@hostel.com").ID
	single := mustCreateRoom(t, s, "103", 1)
	if _, err := s.AssignStudent(ctx, single.ID, a); err != nil {
		t.Fatalf("assign: %v", err)
	}

	tests := []struct {
		name      string
		roomID    string
		studentID string
		wantErr   error
	}{
		{name: "room_full", roomID: single.ID, studentID: b, wantErr: domain.ErrValidation},
		{name: "unknown_room", roomID: "missing", studentID: b, wantErr: domain.ErrNotFound},
		{name: "unknown_student", roomID: single.ID, studentID: "missing", wantErr: domain.ErrNotFound},
		{name: "staff_is_not_a_student", roomID: single.ID, studentID: "u1", wantErr: domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.AssignStudent(ctx, tt.roomID, tt.studentID); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	t.Run("reassigning_current_occupant_fits", func(t *testing.T) {
		if _, err := s.AssignStudent(ctx, single.ID, a); err != nil {
			t.Fatalf("expected re-assignment to the same full room to succeed: %v", err)
		}
	})

	rooms, _ := s.ListRooms(ctx)
	if len(rooms[0].Occupants) != 1 || rooms[0].Occupants[0] != a {
		t.Errorf("failed assignments must leave occupants unchanged, got %v", rooms[0].Occupants)
	}
	ub, _ := s.GetUser(ctx, b)
	if ub.RoomNumber != "" {
		t.Errorf("rejected student should keep an empty room number, got %q", ub.RoomNumber)
	}
}

func TestDeleteStudent_Cascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	victim := mustCreateStudent(t, s, "victim", "victim@hostel.com")
	other := mustCreateStudent(t, s, "other", "other@hostel.com")
	room := mustCreateRoom(t, s, "201", 4)

	for _, u := range []domain.User{victim, other} {
		if _, err := s.AssignStudent(ctx, room.ID, u.ID); err != nil {
			t.Fatal(err)
		}
		if _, err := s.CreateComplaint(ctx, domain.NewComplaint{Category: domain.CategoryInternet, Description: "slow"}, u); err != nil {
			t.Fatal(err)
		}
		if _, err := s.CreateOrder(ctx, domain.NewOrder{Items: []string{"Pancakes"}, PickupTime: "08:30"}, u); err != nil {
			t.Fatal(err)
		}
		if _, err := s.LogMovement(ctx, u.ID, domain.CheckOut, "home"); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.DeleteStudent(ctx, victim.ID); err != nil {
		t.Fatalf("DeleteStudent: %v", err)
	}

	if _, err := s.GetUser(ctx, victim.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected user to be gone, got %v", err)
	}
	rooms, _ := s.ListRooms(ctx)
	if rooms[0].HasOccupant(victim.ID) || !rooms[0].HasOccupant(other.ID) {
		t.Errorf("unexpected occupants after delete: %v", rooms[0].Occupants)
	}

	complaints, _ := s.ListComplaints(ctx, "")
	orders, _ := s.ListOrders(ctx, "")
	fees, _ := s.ListFees(ctx, "")
	logs, _ := s.ListMovementLogs(ctx)
	for _, c := range complaints {
		if c.StudentID == victim.ID {
			t.Errorf("complaint %s survived", c.ID)
		}
	}
	for _, o := range orders {
		if o.StudentID == victim.ID {
			t.Errorf("order %s survived", o.ID)
		}
	}
	for _, f := range fees {
		if f.StudentID == victim.ID {
			t.Errorf("fee %s survived", f.ID)
		}
	}
	for _, l := range logs {
		if l.StudentID == victim.ID {
			t.Errorf("movement log %s survived", l.ID)
		}
	}
	if len(complaints) != 1 || len(orders) != 1 || len(fees) != 1 || len(logs) != 1 {
		t.Errorf("records of other students must remain: %d %d %d %d", len(complaints), len(orders), len(fees), len(logs))
	}

	notes, _ := s.ListNotifications(ctx, domain.RoleAdmin)
	if notes[0].Title != domain.TitleStudentRemoved {
		t.Errorf("expected Student Removed notification, got %q", notes[0].Title)
	}

	if err := s.DeleteStudent(ctx, victim.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
	if err := s.DeleteStudent(ctx, "u1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for a staff id, got %v", err)
	}
}

func TestLogMovement_CheckOutThenIn(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sid := mustCreateStudent(t, s, "walker", "walker@hostel.com").ID

	out, err := s.LogMovement(ctx, sid, domain.CheckOut, "weekend at home")
	if err != nil {
		t.Fatal(err)
	}
	u, _ := s.GetUser(ctx, sid)
	if u.IsCheckedIn {
		t.Errorf("expected checked out")
	}

	in, err := s.LogMovement(ctx, sid, domain.CheckIn, "")
	if err != nil {
		t.Fatal(err)
	}
	u, _ = s.GetUser(ctx, sid)
	if !u.IsCheckedIn {
		t.Errorf("expected checked in")
	}

	logs, _ := s.ListMovementLogs(ctx)
	if len(logs) != 2 {
		t.Fatalf("expected 2 logs, got %d", len(logs))
	}
	if logs[0].ID != in.ID || logs[1].ID != out.ID {
		t.Errorf("expected newest first, got %s then %s", logs[0].Type, logs[1].Type)
	}
	if !logs[0].Timestamp.After(logs[1].Timestamp) {
		t.Errorf("timestamps not in reverse chronological order")
	}

	notes, _ := s.ListNotifications(ctx, domain.RoleWarden)
	if notes[0].Title != domain.TitleCheckIn || notes[0].Message != "walker: No reason provided" {
		t.Errorf("unexpected check-in notification %+v", notes[0])
	}
	if notes[1].Title != domain.TitleCheckOut || notes[1].Message != "walker: weekend at home" {
		t.Errorf("unexpected check-out notification %+v", notes[1])
	}

	if _, err := s.LogMovement(ctx, sid, "WANDER", ""); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation for unknown type, got %v", err)
	}
	if _, err := s.LogMovement(ctx, "ghost", domain.CheckIn, ""); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestOrderLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	student := mustCreateStudent(t, s, "hungry", "hungry@hostel.com")

	order, err := s.CreateOrder(ctx, domain.NewOrder{Items: []string{"Pancakes"}, PickupTime: "08:30"}, student)
	if err != nil {
		t.Fatal(err)
	}
	if order.Status != domain.OrderPending {
		t.Fatalf("expected Pending, got %s", order.Status)
	}

	for _, next := range []domain.OrderStatus{domain.OrderPreparing, domain.OrderReady, domain.OrderCollected} {
		got, err := s.UpdateOrderStatus(ctx, order.ID, next)
		if err != nil {
			t.Fatalf("advance to %s: %v", next, err)
		}
		if got.Status != next {
			t.Errorf("expected %s, got %s", next, got.Status)
		}
	}

	if _, err := s.UpdateOrderStatus(ctx, order.ID, domain.OrderPending); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected backwards move to be rejected, got %v", err)
	}
	if _, err := s.UpdateOrderStatus(ctx, order.ID, domain.OrderCollected); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected repeating Collected to be rejected, got %v", err)
	}

	fresh, err := s.CreateOrder(ctx, domain.NewOrder{Items: []string{"Tea"}, PickupTime: "09:00"}, student)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.UpdateOrderStatus(ctx, fresh.ID, domain.OrderCollected); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected Pending -> Collected to be rejected, got %v", err)
	}
	if _, err := s.UpdateOrderStatus(ctx, "missing", domain.OrderReady); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.CreateOrder(ctx, domain.NewOrder{PickupTime: "08:30"}, student); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation for empty items, got %v", err)
	}
}

func TestCreateComplaint_PrependsAndNotifiesStaff(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	student := mustCreateStudent(t, s, "leaky", "leaky@hostel.com")

	first, _ := s.CreateComplaint(ctx, domain.NewComplaint{Category: domain.CategoryCleaning, Description: "dust"}, student)
	before, _ := s.ListNotifications(ctx, domain.RoleAdmin)

	c, err := s.CreateComplaint(ctx, domain.NewComplaint{Category: domain.CategoryPlumbing, Description: "leak"}, student)
	if err != nil {
		t.Fatal(err)
	}
	if c.Status != domain.ComplaintPending || c.Date != "2026-10-01" {
		t.Errorf("unexpected complaint %+v", c)
	}

	list, _ := s.ListComplaints(ctx, "")
	if list[0].ID != c.ID || list[1].ID != first.ID {
		t.Errorf("expected most recent complaint first")
	}

	after, _ := s.ListNotifications(ctx, domain.RoleAdmin)
	if len(after) != len(before)+1 {
		t.Fatalf("expected exactly one new notification, got %d", len(after)-len(before))
	}
	n := after[0]
	if n.Title != domain.TitleNewComplaint || n.Message != "leaky: Plumbing" {
		t.Errorf("unexpected notification %+v", n)
	}
	if len(n.TargetRole) != 2 || n.TargetRole[0] != domain.RoleAdmin || n.TargetRole[1] != domain.RoleWarden {
		t.Errorf("expected targets [ADMIN WARDEN], got %v", n.TargetRole)
	}
	kitchen, _ := s.ListNotifications(ctx, domain.RoleKitchen)
	if len(kitchen) != 0 {
		t.Errorf("kitchen should not see complaint notifications")
	}

	if _, err := s.CreateComplaint(ctx, domain.NewComplaint{Category: "Noise"}, student); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation for unknown category, got %v", err)
	}
}

func TestComplaintStatusAndDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	student := mustCreateStudent(t, s, "c", "c@hostel.com")
	c, _ := s.CreateComplaint(ctx, domain.NewComplaint{Category: domain.CategoryElectricity}, student)

	got, err := s.UpdateComplaintStatus(ctx, c.ID, domain.ComplaintInProgress)
	if err != nil || got.Status != domain.ComplaintInProgress {
		t.Fatalf("update status: %v %+v", err, got)
	}
	if _, err := s.UpdateComplaintStatus(ctx, c.ID, "Closed"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
	if err := s.DeleteComplaint(ctx, c.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteComplaint(ctx, c.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.UpdateComplaintStatus(ctx, c.ID, domain.ComplaintResolved); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFeeWorkflow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	student := mustCreateStudent(t, s, "payer", "payer@hostel.com")
	fees, _ := s.ListFees(ctx, student.ID)
	fee := fees[0]

	if _, err := s.ApproveFee(ctx, fee.ID); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("approving a pending fee must fail, got %v", err)
	}
	if _, err := s.SubmitFeeProof(ctx, fee.ID, ""); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation for empty transaction id, got %v", err)
	}

	submitted, err := s.SubmitFeeProof(ctx, fee.ID, "TX-42")
	if err != nil {
		t.Fatal(err)
	}
	if submitted.Status != domain.FeeSubmitted || submitted.TransactionID != "TX-42" || submitted.SubmissionDate == nil {
		t.Errorf("unexpected submitted fee %+v", submitted)
	}
	if _, err := s.SubmitFeeProof(ctx, fee.ID, "TX-43"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("resubmitting must fail, got %v", err)
	}

	adminNotes, _ := s.ListNotifications(ctx, domain.RoleAdmin)
	if adminNotes[0].Title != domain.TitleFeePaid || adminNotes[0].Message != "payer paid fee. Ref: TX-42" {
		t.Errorf("unexpected fee notification %+v", adminNotes[0])
	}
	wardenNotes, _ := s.ListNotifications(ctx, domain.RoleWarden)
	for _, n := range wardenNotes {
		if n.Title == domain.TitleFeePaid {
			t.Errorf("fee notifications target ADMIN only")
		}
	}

	countBefore := len(adminNotes)
	paid, err := s.ApproveFee(ctx, fee.ID)
	if err != nil || paid.Status != domain.FeePaid {
		t.Fatalf("approve: %v %+v", err, paid)
	}
	adminNotes, _ = s.ListNotifications(ctx, domain.RoleAdmin)
	if len(adminNotes) != countBefore {
		t.Errorf("approval must not emit a notification")
	}

	if err := s.DeleteFee(ctx, fee.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ApproveFee(ctx, fee.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestNotifications_ReadDeleteAndLimit(t *testing.T) {
	s := newTestStore(t, memory.WithNotificationLimit(3))
	ctx := context.Background()

	for _, n := range []string{"n1", "n2", "n3", "n4", "n5"} {
		mustCreateStudent(t, s, n, n+"@hostel.com")
	}
	notes, _ := s.ListNotifications(ctx, domain.RoleAdmin)
	if len(notes) != 3 {
		t.Fatalf("expected cap of 3, got %d", len(notes))
	}
	if notes[0].Message != "n5 joined the hostel." || notes[2].Message != "n3 joined the hostel." {
		t.Errorf("expected the oldest notifications to be dropped, got %q..%q", notes[0].Message, notes[2].Message)
	}

	read, err := s.MarkNotificationRead(ctx, notes[1].ID)
	if err != nil || !read.IsRead {
		t.Fatalf("mark read: %v %+v", err, read)
	}
	if err := s.DeleteNotification(ctx, notes[0].ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.MarkNotificationRead(ctx, notes[0].ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.ListNotifications(ctx, "GUEST"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation for unknown role, got %v", err)
	}
}

func TestWeeklyMenu_Replace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	menu, _ := s.WeeklyMenu(ctx)
	if menu.Monday.Breakfast != "Eggs & Toast" {
		t.Errorf("expected default menu, got %+v", menu.Monday)
	}

	menu.Friday = domain.DailyMenu{Breakfast: "Cereal", Lunch: "Wraps", Dinner: "Fish"}
	if _, err := s.UpdateWeeklyMenu(ctx, menu); err != nil {
		t.Fatal(err)
	}
	got, _ := s.WeeklyMenu(ctx)
	if got != menu {
		t.Errorf("expected full replace, got %+v", got)
	}
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	student := mustCreateStudent(t, s, "copy", "copy@hostel.com")
	room := mustCreateRoom(t, s, "301", 2)
	_, _ = s.AssignStudent(ctx, room.ID, student.ID)

	rooms, _ := s.ListRooms(ctx)
	rooms[0].Occupants[0] = "tampered"
	students, _ := s.ListStudents(ctx)
	students[0].RoomNumber = "tampered"

	rooms, _ = s.ListRooms(ctx)
	if rooms[0].Occupants[0] != student.ID {
		t.Errorf("room occupants leaked to caller")
	}
	u, _ := s.GetUser(ctx, student.ID)
	if u.RoomNumber != "301" {
		t.Errorf("student profile leaked to caller")
	}
}

func TestLatency_HonoursContext(t *testing.T) {
	s := newTestStore(t, memory.WithLatency(time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := s.ListRooms(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Errorf("cancellation did not interrupt the simulated delay")
	}
}

func TestLatency_DelaysCalls(t *testing.T) {
	s := newTestStore(t, memory.WithLatency(30*time.Millisecond))

	start := time.Now()
	if _, err := s.ListRooms(context.Background()); err != nil {
		t.Fatal(err)
	}
	if time.Since(start) < 30*time.Millisecond {
		t.Errorf("expected the call to be delayed")
	}
}

func TestPublisher_ReceivesEmittedNotifications(t *testing.T) {
	pub := mocks.NewMockNotificationPublisher()
	s := newTestStore(t, memory.WithPublisher(pub))
	ctx := context.Background()

	student := mustCreateStudent(t, s, "pub", "pub@hostel.com")
	if _, err := s.CreateOrder(ctx, domain.NewOrder{Items: []string{"Toast"}, PickupTime: "07:30"}, student); err != nil {
		t.Fatal(err)
	}

	events := pub.Events()
	if len(events) != 1 {
		t.Fatalf("expected only the New Student event, got %d", len(events))
	}
	if events[0].Title != domain.TitleNewStudent {
		t.Errorf("unexpected event %+v", events[0])
	}

	pub.PublishError = errors.New("broker down")
	if _, err := s.CreateComplaint(ctx, domain.NewComplaint{Category: domain.CategoryOther}, student); err != nil {
		t.Errorf("publish failures must not fail the mutation: %v", err)
	}
	if pub.Calls() != 2 {
		t.Errorf("expected 2 publish attempts, got %d", pub.Calls())
	}
}

func TestCommitHook(t *testing.T) {
	var commits int
	s := newTestStore(t, memory.WithCommitHook(func(context.Context) error {
		commits++
		return nil
	}))
	ctx := context.Background()

	mustCreateRoom(t, s, "401", 1)
	if _, err := s.CreateRoom(ctx, domain.NewRoom{RoomNumber: "401", Capacity: 1}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if _, err := s.ListRooms(ctx); err != nil {
		t.Fatal(err)
	}
	if commits != 1 {
		t.Errorf("expected the hook to run for successful mutations only, ran %d times", commits)
	}

	pub := mocks.NewMockNotificationPublisher()
	failing := newTestStore(t, memory.WithPublisher(pub), memory.WithCommitHook(func(context.Context) error {
		return errors.New("disk full")
	}))
	if _, err := failing.CreateStudent(ctx, domain.NewStudent{Name: "Hook", Email: "hook@hostel.com", StudentID: "ST-H"}); err != nil {
		t.Fatalf("a failing hook must not fail the mutation: %v", err)
	}
	students, err := failing.ListStudents(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(students) != 1 {
		t.Errorf("expected the student to stay in memory, got %d", len(students))
	}
	if pub.Calls() != 1 {
		t.Errorf("expected the notification to be published, got %d calls", pub.Calls())
	}
}

func TestExportImportState(t *testing.T) {
	src := newTestStore(t)
	ctx := context.Background()
	student := mustCreateStudent(t, src, "snap", "snap@hostel.com")
	room := mustCreateRoom(t, src, "501", 2)
	_, _ = src.AssignStudent(ctx, room.ID, student.ID)

	dst := memory.New()
	dst.ImportState(src.ExportState())

	got, err := dst.Login(ctx, "snap@hostel.com", domain.DefaultPassword)
	if err != nil {
		t.Fatalf("imported student cannot log in: %v", err)
	}
	if got.RoomNumber != "501" || got.StudentID != "ST-snap" {
		t.Errorf("student profile not restored: %+v", got.StudentProfile)
	}
	fees, _ := dst.ListFees(ctx, student.ID)
	if len(fees) != 1 {
		t.Errorf("expected fee to be restored")
	}
}

func TestSeedDemoUsers_Idempotent(t *testing.T) {
	s := memory.New()
	if added := s.SeedDemoUsers(); added != len(memory.DemoUsers) {
		t.Errorf("expected %d seeded users, got %d", len(memory.DemoUsers), added)
	}
	if added := s.SeedDemoUsers(); added != 0 {
		t.Errorf("expected no users on reseed, got %d", added)
	}
	students, _ := s.ListStudents(context.Background())
	if len(students) != 0 {
		t.Errorf("demo seed contains no students")
	}
}

func TestConcurrentMutations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	student := mustCreateStudent(t, s, "busy", "busy@hostel.com")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.CreateOrder(ctx, domain.NewOrder{Items: []string{"Tea"}, PickupTime: "16:00"}, student)
			_, _ = s.ListOrders(ctx, student.ID)
		}()
	}
	wg.Wait()

	orders, _ := s.ListOrders(ctx, student.ID)
	if len(orders) != 50 {
		t.Errorf("expected 50 orders, got %d", len(orders))
	}
}
