package migration

// All returns the embedded migration set in version order.
//
// parent_booking_id carries no foreign key: the anchor row and its children
// are reconciled independently, and the series fetch is keyed by the parent
// id rather than enforced by the engine.
func All() []Migration {
	return []Migration{
		{
			Version:     "001",
			Description: "bookings and link tables",
			SQL: `
CREATE TABLE bookings (
	id TEXT PRIMARY KEY,
	company_id TEXT NOT NULL,
	customer_id TEXT NOT NULL,
	parent_booking_id TEXT,
	recurrence_rule TEXT,
	recurrence_count INTEGER NOT NULL DEFAULT 1,
	start_date TEXT NOT NULL,
	end_date TEXT NOT NULL,
	price REAL NOT NULL DEFAULT 0,
	duration_minutes INTEGER NOT NULL DEFAULT 0,
	service_id TEXT NOT NULL,
	cleaner_pay_rate REAL NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	CHECK (recurrence_count >= 0)
);

CREATE INDEX idx_bookings_parent ON bookings(parent_booking_id);
CREATE INDEX idx_bookings_company ON bookings(company_id);

CREATE TABLE booking_addons (
	booking_id TEXT NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
	addon_id TEXT NOT NULL,
	price_at_time REAL NOT NULL DEFAULT 0,
	quantity INTEGER NOT NULL DEFAULT 1,
	PRIMARY KEY (booking_id, addon_id)
);

CREATE TABLE booking_assignments (
	booking_id TEXT NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
	member_id TEXT NOT NULL,
	pay_rate REAL NOT NULL DEFAULT 0,
	status TEXT NOT NULL DEFAULT 'assigned',
	PRIMARY KEY (booking_id, member_id)
);
`,
		},
		{
			Version:     "002",
			Description: "catalog tables",
			SQL: `
CREATE TABLE services (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	price REAL NOT NULL DEFAULT 0,
	duration_minutes INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE addons (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	price REAL NOT NULL DEFAULT 0
);

CREATE TABLE team_members (
	id TEXT PRIMARY KEY,
	display_name TEXT NOT NULL,
	pay_rate REAL NOT NULL DEFAULT 0
);

CREATE TABLE availability_rules (
	member_id TEXT NOT NULL REFERENCES team_members(id) ON DELETE CASCADE,
	weekday INTEGER NOT NULL CHECK (weekday BETWEEN 0 AND 6),
	start_time TEXT NOT NULL,
	end_time TEXT NOT NULL,
	available INTEGER NOT NULL DEFAULT 1,
	PRIMARY KEY (member_id, weekday)
);
`,
		},
	}
}
