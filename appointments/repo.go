package appointments

type Repo interface {
	// Upsert stores the appointment. Creating or moving an appointment into a
	// slot already held by the same doctor at the same date and time returns
	// ErrAppointmentConflict.
	Upsert(appointment *Appointment) error
	Delete(id int64) error
	Get(id int64) (*Appointment, error)
	// List returns appointments ordered by date then time.
	List(offset, limit int) ([]*Appointment, int, error)
	ListByDate(date string) ([]*Appointment, error)
	// ListUpcoming returns scheduled or confirmed appointments on or after the
	// given date.
	ListUpcoming(fromDate string) ([]*Appointment, error)
	ListByPatient(patientID int64) ([]*Appointment, error)
	ListByDoctor(doctorID int64) ([]*Appointment, error)
	SetStatus(id int64, status Status) error
}
