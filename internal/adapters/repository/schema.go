package repository

// schema creates every table the store needs. Student-owned rows cascade
// when the student is deleted, and each outbox insert raises a NOTIFY on
// outbox_channel carrying the event id.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	seq               BIGSERIAL,
	id                TEXT PRIMARY KEY,
	name              TEXT NOT NULL,
	email             TEXT NOT NULL,
	password          TEXT NOT NULL,
	role              TEXT NOT NULL,
	avatar            TEXT NOT NULL DEFAULT '',
	student_id        TEXT NOT NULL DEFAULT '',
	room_number       TEXT NOT NULL DEFAULT '',
	contact_number    TEXT NOT NULL DEFAULT '',
	emergency_contact TEXT NOT NULL DEFAULT '',
	cnic              TEXT NOT NULL DEFAULT '',
	address           TEXT NOT NULL DEFAULT '',
	purpose_of_stay   TEXT NOT NULL DEFAULT '',
	is_checked_in     BOOLEAN NOT NULL DEFAULT FALSE,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (LOWER(email));

CREATE TABLE IF NOT EXISTS rooms (
	seq         BIGSERIAL,
	id          TEXT PRIMARY KEY,
	room_number TEXT NOT NULL UNIQUE,
	capacity    INTEGER NOT NULL CHECK (capacity > 0),
	floor       INTEGER NOT NULL DEFAULT 0,
	type        TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS room_occupants (
	seq        BIGSERIAL,
	room_id    TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
	student_id TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS complaints (
	seq          BIGSERIAL,
	id           TEXT PRIMARY KEY,
	student_id   TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	student_name TEXT NOT NULL,
	category     TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	date         TEXT NOT NULL,
	status       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS meal_orders (
	seq                  BIGSERIAL,
	id                   TEXT PRIMARY KEY,
	student_id           TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	student_name         TEXT NOT NULL,
	items                TEXT[] NOT NULL,
	date                 TEXT NOT NULL,
	pickup_time          TEXT NOT NULL,
	status               TEXT NOT NULL,
	special_instructions TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS notifications (
	seq          BIGSERIAL,
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	message      TEXT NOT NULL,
	timestamp    TIMESTAMPTZ NOT NULL,
	is_read      BOOLEAN NOT NULL DEFAULT FALSE,
	target_roles TEXT[] NOT NULL
);

CREATE TABLE IF NOT EXISTS movement_logs (
	seq          BIGSERIAL,
	id           TEXT PRIMARY KEY,
	student_id   TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	student_name TEXT NOT NULL,
	type         TEXT NOT NULL,
	reason       TEXT NOT NULL DEFAULT '',
	timestamp    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS fees (
	seq             BIGSERIAL,
	id              TEXT PRIMARY KEY,
	student_id      TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	student_name    TEXT NOT NULL,
	amount          DOUBLE PRECISION NOT NULL,
	month           TEXT NOT NULL,
	status          TEXT NOT NULL,
	submission_date TIMESTAMPTZ,
	transaction_id  TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS weekly_menu (
	id      INTEGER PRIMARY KEY CHECK (id = 1),
	payload JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS outbox_events (
	id           TEXT PRIMARY KEY,
	event_type   TEXT NOT NULL,
	payload      JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	processed_at TIMESTAMPTZ
);

CREATE OR REPLACE FUNCTION notify_outbox_event() RETURNS trigger AS $$
BEGIN
	PERFORM pg_notify('outbox_channel', NEW.id);
	RETURN NEW;
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS outbox_events_notify ON outbox_events;
CREATE TRIGGER outbox_events_notify
	AFTER INSERT ON outbox_events
	FOR EACH ROW EXECUTE FUNCTION notify_outbox_event();
`
