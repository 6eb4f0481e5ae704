package records

import "time"

// MedicalRecord captures a single patient visit: clinical findings plus the
// vitals taken during the encounter. Optional vitals are pointers so absent
// measurements stay out of the JSON payload.
type MedicalRecord struct {
	ID        int64 `json:"id"`
	PatientID int64 `json:"patient"`
	DoctorID  int64 `json:"doctor,omitempty"`

	VisitDate    time.Time `json:"visit_date"`
	Diagnosis    string    `json:"diagnosis"`
	Symptoms     string    `json:"symptoms"`
	Prescription string    `json:"prescription,omitempty"`
	LabResults   string    `json:"lab_results,omitempty"`
	Notes        string    `json:"notes,omitempty"`

	// Vitals
	BloodPressure    string   `json:"blood_pressure,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
	HeartRate        *int     `json:"heart_rate,omitempty"`
	RespiratoryRate  *int     `json:"respiratory_rate,omitempty"`
	OxygenSaturation *int     `json:"oxygen_saturation,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Repo interface {
	Upsert(record *MedicalRecord) error
	Delete(id int64) error
	Get(id int64) (*MedicalRecord, error)
	// List returns records ordered by visit date, newest first.
	List(offset, limit int) ([]*MedicalRecord, int, error)
	ListByPatient(patientID int64) ([]*MedicalRecord, error)
}
