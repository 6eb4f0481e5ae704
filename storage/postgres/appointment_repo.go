package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jrsteele09/go-hms/appointments"
	interrors "github.com/jrsteele09/go-hms/internal/errors"
	"github.com/pkg/errors"
)

type AppointmentRepo struct {
	db DB
}

var _ appointments.Repo = (*AppointmentRepo)(nil)

func NewAppointmentRepo(db DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

const appointmentColumns = `id, appointment_display_id, patient_id, doctor_id, appointment_date,
	appointment_time, duration, appointment_type, status, reason, notes,
	assigned_nurse, created_by, created_at, updated_at`

func (r *AppointmentRepo) Upsert(appointment *appointments.Appointment) error {
	ctx := context.Background()
	if appointment.Duration == 0 {
		appointment.Duration = appointments.DefaultDurationMinutes
	}
	if appointment.Type == "" {
		appointment.Type = appointments.TypeConsultation
	}
	if appointment.Status == "" {
		appointment.Status = appointments.StatusScheduled
	}

	if appointment.ID == 0 {
		err := r.db.QueryRow(ctx, `
			INSERT INTO appointments (patient_id, doctor_id, appointment_date, appointment_time,
				duration, appointment_type, status, reason, notes, assigned_nurse, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id, created_at, updated_at`,
			appointment.PatientID, appointment.DoctorID, appointment.Date, appointment.Time,
			appointment.Duration, string(appointment.Type), string(appointment.Status),
			appointment.Reason, appointment.Notes, appointment.AssignedNurse, appointment.CreatedBy,
		).Scan(&appointment.ID, &appointment.CreatedAt, &appointment.UpdatedAt)
		if isUniqueViolation(err, "appointments_doctor_slot") {
			return interrors.ErrAppointmentConflict
		}
		if err != nil {
			return errors.Wrap(err, "[AppointmentRepo.Upsert] insert")
		}

		appointment.AppointmentID = appointments.FormatAppointmentID(appointment.ID)
		_, err = r.db.Exec(ctx, `UPDATE appointments SET appointment_display_id = $2 WHERE id = $1`,
			appointment.ID, appointment.AppointmentID)
		return errors.Wrap(err, "[AppointmentRepo.Upsert] set display id")
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE appointments SET patient_id = $2, doctor_id = $3, appointment_date = $4,
			appointment_time = $5, duration = $6, appointment_type = $7, status = $8,
			reason = $9, notes = $10, assigned_nurse = $11, updated_at = now()
		WHERE id = $1`,
		appointment.ID, appointment.PatientID, appointment.DoctorID, appointment.Date,
		appointment.Time, appointment.Duration, string(appointment.Type), string(appointment.Status),
		appointment.Reason, appointment.Notes, appointment.AssignedNurse,
	)
	if isUniqueViolation(err, "appointments_doctor_slot") {
		return interrors.ErrAppointmentConflict
	}
	if err != nil {
		return errors.Wrap(err, "[AppointmentRepo.Upsert] update")
	}
	if tag.RowsAffected() == 0 {
		return interrors.ErrAppointmentNotFound
	}
	return nil
}

func (r *AppointmentRepo) Delete(id int64) error {
	tag, err := r.db.Exec(context.Background(), `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "[AppointmentRepo.Delete] exec")
	}
	if tag.RowsAffected() == 0 {
		return interrors.ErrAppointmentNotFound
	}
	return nil
}

func (r *AppointmentRepo) Get(id int64) (*appointments.Appointment, error) {
	row := r.db.QueryRow(context.Background(),
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id)
	return scanAppointment(row)
}

func (r *AppointmentRepo) List(offset, limit int) ([]*appointments.Appointment, int, error) {
	ctx := context.Background()
	if limit <= 0 {
		limit = 100
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM appointments`).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "[AppointmentRepo.List] count")
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+appointmentColumns+` FROM appointments
		ORDER BY appointment_date, appointment_time OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		return nil, 0, errors.Wrap(err, "[AppointmentRepo.List] query")
	}
	defer rows.Close()

	listed, err := scanAppointments(rows)
	if err != nil {
		return nil, 0, err
	}
	return listed, total, nil
}

func (r *AppointmentRepo) ListByDate(date string) ([]*appointments.Appointment, error) {
	return r.query(`WHERE appointment_date = $1`, date)
}

func (r *AppointmentRepo) ListUpcoming(fromDate string) ([]*appointments.Appointment, error) {
	return r.query(`WHERE appointment_date >= $1 AND status IN ('scheduled', 'confirmed')`, fromDate)
}

func (r *AppointmentRepo) ListByPatient(patientID int64) ([]*appointments.Appointment, error) {
	return r.query(`WHERE patient_id = $1`, patientID)
}

func (r *AppointmentRepo) ListByDoctor(doctorID int64) ([]*appointments.Appointment, error) {
	return r.query(`WHERE doctor_id = $1`, doctorID)
}

func (r *AppointmentRepo) SetStatus(id int64, status appointments.Status) error {
	tag, err := r.db.Exec(context.Background(),
		`UPDATE appointments SET status = $2, updated_at = now() WHERE id = $1`,
		id, string(status))
	if err != nil {
		return errors.Wrap(err, "[AppointmentRepo.SetStatus] exec")
	}
	if tag.RowsAffected() == 0 {
		return interrors.ErrAppointmentNotFound
	}
	return nil
}

func (r *AppointmentRepo) query(where string, arg any) ([]*appointments.Appointment, error) {
	rows, err := r.db.Query(context.Background(),
		`SELECT `+appointmentColumns+` FROM appointments `+where+
			` ORDER BY appointment_date, appointment_time`, arg)
	if err != nil {
		return nil, errors.Wrap(err, "[AppointmentRepo.query] query")
	}
	defer rows.Close()
	return scanAppointments(rows)
}

func scanAppointment(row pgx.Row) (*appointments.Appointment, error) {
	var a appointments.Appointment
	var appointmentType, status string
	err := row.Scan(&a.ID, &a.AppointmentID, &a.PatientID, &a.DoctorID, &a.Date, &a.Time,
		&a.Duration, &appointmentType, &status, &a.Reason, &a.Notes,
		&a.AssignedNurse, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, interrors.ErrAppointmentNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[scanAppointment] scan")
	}
	a.Type = appointments.Type(appointmentType)
	a.Status = appointments.Status(status)
	return &a, nil
}

func scanAppointments(rows pgx.Rows) ([]*appointments.Appointment, error) {
	listed := make([]*appointments.Appointment, 0)
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		listed = append(listed, appointment)
	}
	return listed, errors.Wrap(rows.Err(), "[scanAppointments] rows")
}
