package nursetasks

import "time"

// Task is a unit of ward work assigned to a nurse for a patient.
type Task struct {
	ID            int64     `json:"id"`
	NurseID       int64     `json:"nurse"`
	PatientID     int64     `json:"patient"`
	Title         string    `json:"title"`
	ScheduledTime string    `json:"scheduled_time"` // HH:MM
	Completed     bool      `json:"completed"`
	CreatedAt     time.Time `json:"created_at"`
}

type Repo interface {
	Upsert(task *Task) error
	Delete(id int64) error
	Get(id int64) (*Task, error)
	// List returns tasks ordered by scheduled time.
	List(offset, limit int) ([]*Task, int, error)
	ListByNurse(nurseID int64) ([]*Task, error)
	SetCompleted(id int64, completed bool) error
}
