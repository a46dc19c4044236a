package blob

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/hostel-management/hostel-service/internal/core/ports"
)

func TestMemoryStore_PutGetDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	info, err := s.Put(ctx, "avatars/u1/a.png", "image/png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if info.Size != 9 || info.ContentType != "image/png" {
		t.Errorf("unexpected info %+v", info)
	}

	// Overwrite replaces the content.
	if _, err := s.Put(ctx, "avatars/u1/a.png", "image/png", strings.NewReader("new")); err != nil {
		t.Fatal(err)
	}
	_, rc, err := s.Get(ctx, "avatars/u1/a.png")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	body, _ := io.ReadAll(rc)
	rc.Close()
	if string(body) != "new" {
		t.Errorf("body = %q, want new", body)
	}

	if err := s.Delete(ctx, "avatars/u1/a.png"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.Get(ctx, "avatars/u1/a.png"); !errors.Is(err, ports.ErrBlobNotFound) {
		t.Errorf("expected ErrBlobNotFound, got %v", err)
	}
	if s.Driver() != DriverMemory {
		t.Errorf("Driver() = %q", s.Driver())
	}
}
