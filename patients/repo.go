package patients

type Repo interface {
	Upsert(patient *Patient) error
	Delete(id int64) error
	Get(id int64) (*Patient, error)
	// List returns patients ordered by registration date, newest first.
	// A non-empty search matches name, email or display ID, case-insensitive.
	List(search string, offset, limit int) ([]*Patient, int, error)
	ListByNurse(nurseID int64) ([]*Patient, error)
	AssignNurse(patientID, nurseID int64) error
}
