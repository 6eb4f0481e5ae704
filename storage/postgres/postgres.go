// Package postgres persists the hospital management data in PostgreSQL via
// pgx. Each repository satisfies the corresponding domain Repo interface so
// the server cannot tell it apart from the in-memory implementations.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

// DB is the subset of pgxpool.Pool the repositories use. pgxmock satisfies
// it in tests.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Connect opens a connection pool and verifies it with a ping.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "[postgres.Connect] pgxpool.New")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "[postgres.Connect] ping")
	}
	return pool, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            BIGSERIAL PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	email         TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	first_name    TEXT NOT NULL DEFAULT '',
	last_name     TEXT NOT NULL DEFAULT '',
	role          TEXT NOT NULL,
	date_joined   TIMESTAMPTZ NOT NULL DEFAULT now(),
	last_login    TIMESTAMPTZ,
	blocked       BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS patients (
	id                         BIGSERIAL PRIMARY KEY,
	patient_display_id         TEXT NOT NULL DEFAULT '',
	first_name                 TEXT NOT NULL,
	last_name                  TEXT NOT NULL,
	date_of_birth              TEXT NOT NULL,
	gender                     TEXT NOT NULL,
	blood_group                TEXT NOT NULL DEFAULT '',
	email                      TEXT NOT NULL DEFAULT '',
	phone                      TEXT NOT NULL DEFAULT '',
	address                    TEXT NOT NULL DEFAULT '',
	city                       TEXT NOT NULL DEFAULT '',
	state                      TEXT NOT NULL DEFAULT '',
	zip_code                   TEXT NOT NULL DEFAULT '',
	emergency_contact_name     TEXT NOT NULL DEFAULT '',
	emergency_contact_phone    TEXT NOT NULL DEFAULT '',
	emergency_contact_relation TEXT NOT NULL DEFAULT '',
	allergies                  TEXT NOT NULL DEFAULT '',
	chronic_conditions         TEXT NOT NULL DEFAULT '',
	current_medications        TEXT NOT NULL DEFAULT '',
	user_id                    BIGINT NOT NULL DEFAULT 0,
	assigned_nurse             BIGINT NOT NULL DEFAULT 0,
	registered_date            TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at                 TIMESTAMPTZ NOT NULL DEFAULT now(),
	is_active                  BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS appointments (
	id                     BIGSERIAL PRIMARY KEY,
	appointment_display_id TEXT NOT NULL DEFAULT '',
	patient_id             BIGINT NOT NULL,
	doctor_id              BIGINT NOT NULL,
	appointment_date       TEXT NOT NULL,
	appointment_time       TEXT NOT NULL,
	duration               INT NOT NULL DEFAULT 30,
	appointment_type       TEXT NOT NULL DEFAULT 'consultation',
	status                 TEXT NOT NULL DEFAULT 'scheduled',
	reason                 TEXT NOT NULL DEFAULT '',
	notes                  TEXT NOT NULL DEFAULT '',
	assigned_nurse         BIGINT NOT NULL DEFAULT 0,
	created_by             BIGINT NOT NULL DEFAULT 0,
	created_at             TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at             TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT appointments_doctor_slot UNIQUE (doctor_id, appointment_date, appointment_time)
);

CREATE TABLE IF NOT EXISTS medical_records (
	id                BIGSERIAL PRIMARY KEY,
	patient_id        BIGINT NOT NULL,
	doctor_id         BIGINT NOT NULL DEFAULT 0,
	visit_date        TIMESTAMPTZ NOT NULL,
	diagnosis         TEXT NOT NULL,
	symptoms          TEXT NOT NULL,
	prescription      TEXT NOT NULL DEFAULT '',
	lab_results       TEXT NOT NULL DEFAULT '',
	notes             TEXT NOT NULL DEFAULT '',
	blood_pressure    TEXT NOT NULL DEFAULT '',
	temperature       DOUBLE PRECISION,
	heart_rate        INT,
	respiratory_rate  INT,
	oxygen_saturation INT,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS nurse_tasks (
	id             BIGSERIAL PRIMARY KEY,
	nurse_id       BIGINT NOT NULL,
	patient_id     BIGINT NOT NULL,
	title          TEXT NOT NULL,
	scheduled_time TEXT NOT NULL,
	completed      BOOLEAN NOT NULL DEFAULT FALSE,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS refresh_tokens (
	token   TEXT PRIMARY KEY,
	user_id BIGINT NOT NULL UNIQUE,
	iat     TIMESTAMPTZ NOT NULL
);
`

// Migrate creates the schema. Statements are idempotent so this runs on
// every start.
func Migrate(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return errors.Wrap(err, "[postgres.Migrate] create schema")
	}
	return nil
}

// isUniqueViolation reports whether the error is a unique constraint breach
// on the named constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505" && pgErr.ConstraintName == constraint
}
