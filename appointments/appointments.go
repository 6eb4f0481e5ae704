package appointments

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
)

type Type string

const (
	TypeConsultation Type = "consultation"
	TypeFollowUp     Type = "follow_up"
	TypeCheckUp      Type = "check_up"
	TypeEmergency    Type = "emergency"
	TypeVaccination  Type = "vaccination"
	TypeLabTest      Type = "lab_test"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	DefaultDurationMinutes = 30
)

type Appointment struct {
	ID            int64  `json:"id"`
	AppointmentID string `json:"appointment_id"` // Display ID, APT-000001

	PatientID int64 `json:"patient"`
	DoctorID  int64 `json:"doctor"`

	Date     string `json:"appointment_date"` // YYYY-MM-DD
	Time     string `json:"appointment_time"` // HH:MM
	Duration int    `json:"duration"`         // Minutes

	Type   Type   `json:"appointment_type"`
	Status Status `json:"status"`

	Reason string `json:"reason"`
	Notes  string `json:"notes,omitempty"`

	AssignedNurse int64     `json:"assigned_nurse,omitempty"`
	CreatedBy     int64     `json:"created_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsUpcoming reports whether the appointment is in the future and still in a
// bookable state.
func (a *Appointment) IsUpcoming(now time.Time) bool {
	at, err := time.ParseInLocation(DateLayout+" "+TimeLayout, a.Date+" "+a.Time, now.Location())
	if err != nil {
		return false
	}
	if !at.After(now) {
		return false
	}
	return a.Status == StatusScheduled || a.Status == StatusConfirmed
}

// FormatAppointmentID renders the sequential display identifier, APT-000001.
func FormatAppointmentID(seq int64) string {
	return fmt.Sprintf("APT-%06d", seq)
}

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

func (t Type) Valid() bool {
	switch t {
	case TypeConsultation, TypeFollowUp, TypeCheckUp, TypeEmergency, TypeVaccination, TypeLabTest:
		return true
	}
	return false
}
