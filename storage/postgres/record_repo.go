package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	interrors "github.com/jrsteele09/go-hms/internal/errors"
	"github.com/jrsteele09/go-hms/records"
	"github.com/pkg/errors"
)

type RecordRepo struct {
	db DB
}

var _ records.Repo = (*RecordRepo)(nil)

func NewRecordRepo(db DB) *RecordRepo {
	return &RecordRepo{db: db}
}

const recordColumns = `id, patient_id, doctor_id, visit_date, diagnosis, symptoms, prescription,
	lab_results, notes, blood_pressure, temperature, heart_rate, respiratory_rate,
	oxygen_saturation, created_at, updated_at`

func (r *RecordRepo) Upsert(record *records.MedicalRecord) error {
	ctx := context.Background()

	if record.ID == 0 {
		err := r.db.QueryRow(ctx, `
			INSERT INTO medical_records (patient_id, doctor_id, visit_date, diagnosis, symptoms,
				prescription, lab_results, notes, blood_pressure, temperature, heart_rate,
				respiratory_rate, oxygen_saturation)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			RETURNING id, created_at, updated_at`,
			record.PatientID, record.DoctorID, record.VisitDate, record.Diagnosis, record.Symptoms,
			record.Prescription, record.LabResults, record.Notes, record.BloodPressure,
			record.Temperature, record.HeartRate, record.RespiratoryRate, record.OxygenSaturation,
		).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
		return errors.Wrap(err, "[RecordRepo.Upsert] insert")
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE medical_records SET patient_id = $2, doctor_id = $3, visit_date = $4,
			diagnosis = $5, symptoms = $6, prescription = $7, lab_results = $8, notes = $9,
			blood_pressure = $10, temperature = $11, heart_rate = $12, respiratory_rate = $13,
			oxygen_saturation = $14, updated_at = now()
		WHERE id = $1`,
		record.ID, record.PatientID, record.DoctorID, record.VisitDate, record.Diagnosis,
		record.Symptoms, record.Prescription, record.LabResults, record.Notes, record.BloodPressure,
		record.Temperature, record.HeartRate, record.RespiratoryRate, record.OxygenSaturation,
	)
	if err != nil {
		return errors.Wrap(err, "[RecordRepo.Upsert] update")
	}
	if tag.RowsAffected() == 0 {
		return interrors.ErrRecordNotFound
	}
	return nil
}

func (r *RecordRepo) Delete(id int64) error {
	tag, err := r.db.Exec(context.Background(), `DELETE FROM medical_records WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "[RecordRepo.Delete] exec")
	}
	if tag.RowsAffected() == 0 {
		return interrors.ErrRecordNotFound
	}
	return nil
}

func (r *RecordRepo) Get(id int64) (*records.MedicalRecord, error) {
	row := r.db.QueryRow(context.Background(),
		`SELECT `+recordColumns+` FROM medical_records WHERE id = $1`, id)
	return scanRecord(row)
}

func (r *RecordRepo) List(offset, limit int) ([]*records.MedicalRecord, int, error) {
	ctx := context.Background()
	if limit <= 0 {
		limit = 100
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM medical_records`).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "[RecordRepo.List] count")
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+recordColumns+` FROM medical_records ORDER BY visit_date DESC OFFSET $1 LIMIT $2`,
		offset, limit)
	if err != nil {
		return nil, 0, errors.Wrap(err, "[RecordRepo.List] query")
	}
	defer rows.Close()

	listed, err := scanRecords(rows)
	if err != nil {
		return nil, 0, err
	}
	return listed, total, nil
}

func (r *RecordRepo) ListByPatient(patientID int64) ([]*records.MedicalRecord, error) {
	rows, err := r.db.Query(context.Background(),
		`SELECT `+recordColumns+` FROM medical_records WHERE patient_id = $1 ORDER BY visit_date DESC`,
		patientID)
	if err != nil {
		return nil, errors.Wrap(err, "[RecordRepo.ListByPatient] query")
	}
	defer rows.Close()
	return scanRecords(rows)
}

func scanRecord(row pgx.Row) (*records.MedicalRecord, error) {
	var record records.MedicalRecord
	err := row.Scan(&record.ID, &record.PatientID, &record.DoctorID, &record.VisitDate,
		&record.Diagnosis, &record.Symptoms, &record.Prescription, &record.LabResults,
		&record.Notes, &record.BloodPressure, &record.Temperature, &record.HeartRate,
		&record.RespiratoryRate, &record.OxygenSaturation, &record.CreatedAt, &record.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, interrors.ErrRecordNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[scanRecord] scan")
	}
	return &record, nil
}

func scanRecords(rows pgx.Rows) ([]*records.MedicalRecord, error) {
	listed := make([]*records.MedicalRecord, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		listed = append(listed, record)
	}
	return listed, errors.Wrap(rows.Err(), "[scanRecords] rows")
}
