package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	interrors "github.com/jrsteele09/go-hms/internal/errors"
	"github.com/jrsteele09/go-hms/patients"
	"github.com/pkg/errors"
)

type PatientRepo struct {
	db DB
}

var _ patients.Repo = (*PatientRepo)(nil)

func NewPatientRepo(db DB) *PatientRepo {
	return &PatientRepo{db: db}
}

const patientColumns = `id, patient_display_id, first_name, last_name, date_of_birth, gender, blood_group,
	email, phone, address, city, state, zip_code,
	emergency_contact_name, emergency_contact_phone, emergency_contact_relation,
	allergies, chronic_conditions, current_medications,
	user_id, assigned_nurse, registered_date, updated_at, is_active`

func (r *PatientRepo) Upsert(patient *patients.Patient) error {
	ctx := context.Background()

	if patient.ID == 0 {
		// The display ID reuses the row ID so it stays sequential
		err := r.db.QueryRow(ctx, `
			INSERT INTO patients (first_name, last_name, date_of_birth, gender, blood_group,
				email, phone, address, city, state, zip_code,
				emergency_contact_name, emergency_contact_phone, emergency_contact_relation,
				allergies, chronic_conditions, current_medications,
				user_id, assigned_nurse, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
			RETURNING id, registered_date, updated_at`,
			patient.FirstName, patient.LastName, patient.DateOfBirth, string(patient.Gender), patient.BloodGroup,
			patient.Email, patient.Phone, patient.Address, patient.City, patient.State, patient.ZipCode,
			patient.EmergencyContactName, patient.EmergencyContactPhone, patient.EmergencyContactRelation,
			patient.Allergies, patient.ChronicConditions, patient.CurrentMedications,
			patient.UserID, patient.AssignedNurse, patient.IsActive,
		).Scan(&patient.ID, &patient.RegisteredDate, &patient.UpdatedAt)
		if err != nil {
			return errors.Wrap(err, "[PatientRepo.Upsert] insert")
		}

		patient.PatientID = patients.FormatPatientID(patient.ID)
		_, err = r.db.Exec(ctx, `UPDATE patients SET patient_display_id = $2 WHERE id = $1`,
			patient.ID, patient.PatientID)
		return errors.Wrap(err, "[PatientRepo.Upsert] set display id")
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE patients SET first_name = $2, last_name = $3, date_of_birth = $4, gender = $5,
			blood_group = $6, email = $7, phone = $8, address = $9, city = $10, state = $11,
			zip_code = $12, emergency_contact_name = $13, emergency_contact_phone = $14,
			emergency_contact_relation = $15, allergies = $16, chronic_conditions = $17,
			current_medications = $18, user_id = $19, assigned_nurse = $20, is_active = $21,
			updated_at = now()
		WHERE id = $1`,
		patient.ID, patient.FirstName, patient.LastName, patient.DateOfBirth, string(patient.Gender),
		patient.BloodGroup, patient.Email, patient.Phone, patient.Address, patient.City, patient.State,
		patient.ZipCode, patient.EmergencyContactName, patient.EmergencyContactPhone,
		patient.EmergencyContactRelation, patient.Allergies, patient.ChronicConditions,
		patient.CurrentMedications, patient.UserID, patient.AssignedNurse, patient.IsActive,
	)
	if err != nil {
		return errors.Wrap(err, "[PatientRepo.Upsert] update")
	}
	if tag.RowsAffected() == 0 {
		return interrors.ErrPatientNotFound
	}
	return nil
}

func (r *PatientRepo) Delete(id int64) error {
	tag, err := r.db.Exec(context.Background(), `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "[PatientRepo.Delete] exec")
	}
	if tag.RowsAffected() == 0 {
		return interrors.ErrPatientNotFound
	}
	return nil
}

func (r *PatientRepo) Get(id int64) (*patients.Patient, error) {
	row := r.db.QueryRow(context.Background(),
		`SELECT `+patientColumns+` FROM patients WHERE id = $1`, id)
	return scanPatient(row)
}

func (r *PatientRepo) List(search string, offset, limit int) ([]*patients.Patient, int, error) {
	ctx := context.Background()
	if limit <= 0 {
		limit = 100
	}
	needle := "%" + search + "%"

	var total int
	err := r.db.QueryRow(ctx, `
		SELECT count(*) FROM patients
		WHERE $1 = '' OR first_name ILIKE $2 OR last_name ILIKE $2
			OR first_name || ' ' || last_name ILIKE $2
			OR email ILIKE $2 OR patient_display_id ILIKE $2`,
		search, needle).Scan(&total)
	if err != nil {
		return nil, 0, errors.Wrap(err, "[PatientRepo.List] count")
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+patientColumns+` FROM patients
		WHERE $1 = '' OR first_name ILIKE $2 OR last_name ILIKE $2
			OR first_name || ' ' || last_name ILIKE $2
			OR email ILIKE $2 OR patient_display_id ILIKE $2
		ORDER BY registered_date DESC
		OFFSET $3 LIMIT $4`,
		search, needle, offset, limit)
	if err != nil {
		return nil, 0, errors.Wrap(err, "[PatientRepo.List] query")
	}
	defer rows.Close()

	listed, err := scanPatients(rows)
	if err != nil {
		return nil, 0, err
	}
	return listed, total, nil
}

func (r *PatientRepo) ListByNurse(nurseID int64) ([]*patients.Patient, error) {
	rows, err := r.db.Query(context.Background(),
		`SELECT `+patientColumns+` FROM patients WHERE assigned_nurse = $1 ORDER BY registered_date DESC`,
		nurseID)
	if err != nil {
		return nil, errors.Wrap(err, "[PatientRepo.ListByNurse] query")
	}
	defer rows.Close()
	return scanPatients(rows)
}

func (r *PatientRepo) AssignNurse(patientID, nurseID int64) error {
	tag, err := r.db.Exec(context.Background(),
		`UPDATE patients SET assigned_nurse = $2, updated_at = now() WHERE id = $1`,
		patientID, nurseID)
	if err != nil {
		return errors.Wrap(err, "[PatientRepo.AssignNurse] exec")
	}
	if tag.RowsAffected() == 0 {
		return interrors.ErrPatientNotFound
	}
	return nil
}

func scanPatient(row pgx.Row) (*patients.Patient, error) {
	var p patients.Patient
	var gender string
	err := row.Scan(&p.ID, &p.PatientID, &p.FirstName, &p.LastName, &p.DateOfBirth, &gender, &p.BloodGroup,
		&p.Email, &p.Phone, &p.Address, &p.City, &p.State, &p.ZipCode,
		&p.EmergencyContactName, &p.EmergencyContactPhone, &p.EmergencyContactRelation,
		&p.Allergies, &p.ChronicConditions, &p.CurrentMedications,
		&p.UserID, &p.AssignedNurse, &p.RegisteredDate, &p.UpdatedAt, &p.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, interrors.ErrPatientNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[scanPatient] scan")
	}
	p.Gender = patients.Gender(gender)
	return &p, nil
}

func scanPatients(rows pgx.Rows) ([]*patients.Patient, error) {
	listed := make([]*patients.Patient, 0)
	for rows.Next() {
		patient, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		listed = append(listed, patient)
	}
	return listed, errors.Wrap(rows.Err(), "[scanPatients] rows")
}
