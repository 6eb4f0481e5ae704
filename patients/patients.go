package patients

import (
	"fmt"
	"time"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// BloodGroups lists the accepted blood group tags.
var BloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

type Patient struct {
	ID int64 `json:"id"`

	// Basic information
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth"` // YYYY-MM-DD
	Gender      Gender `json:"gender"`
	BloodGroup  string `json:"blood_group"`

	// Contact information
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`

	// Emergency contact
	EmergencyContactName     string `json:"emergency_contact_name"`
	EmergencyContactPhone    string `json:"emergency_contact_phone"`
	EmergencyContactRelation string `json:"emergency_contact_relation"`

	// Medical information
	Allergies          string `json:"allergies,omitempty"`
	ChronicConditions  string `json:"chronic_conditions,omitempty"`
	CurrentMedications string `json:"current_medications,omitempty"`

	// System fields
	PatientID      string    `json:"patient_id"` // Display ID, PAT-000001
	UserID         int64     `json:"user_id,omitempty"`
	AssignedNurse  int64     `json:"assigned_nurse,omitempty"`
	RegisteredDate time.Time `json:"registered_date"`
	UpdatedAt      time.Time `json:"updated_at"`
	IsActive       bool      `json:"is_active"`
}

func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Age derives the patient's age in whole years from the date of birth.
// Returns 0 when the stored date does not parse.
func (p *Patient) Age(now time.Time) int {
	dob, err := time.Parse("2006-01-02", p.DateOfBirth)
	if err != nil {
		return 0
	}
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// FormatPatientID renders the sequential display identifier, PAT-000001.
func FormatPatientID(seq int64) string {
	return fmt.Sprintf("PAT-%06d", seq)
}
