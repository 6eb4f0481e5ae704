package patients

import (
	"sort"
	"strings"
	"sync"
	"time"

	interrors "github.com/jrsteele09/go-hms/internal/errors"
)

var _ Repo = (*InMemoryRepo)(nil)

type InMemoryRepo struct {
	patients map[int64]*Patient
	nextID   int64
	nextSeq  int64
	lock     sync.RWMutex
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		patients: make(map[int64]*Patient),
		nextID:   1,
		nextSeq:  1,
	}
}

func (r *InMemoryRepo) Upsert(patient *Patient) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	now := time.Now()
	if patient.ID == 0 {
		patient.ID = r.nextID
		r.nextID++
		patient.RegisteredDate = now
		patient.IsActive = true
	}
	if patient.PatientID == "" {
		patient.PatientID = FormatPatientID(r.nextSeq)
		r.nextSeq++
	}
	patient.UpdatedAt = now

	copied := *patient
	r.patients[patient.ID] = &copied
	return nil
}

func (r *InMemoryRepo) Delete(id int64) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.patients[id]; !ok {
		return interrors.ErrPatientNotFound
	}
	delete(r.patients, id)
	return nil
}

func (r *InMemoryRepo) Get(id int64) (*Patient, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	patient, ok := r.patients[id]
	if !ok {
		return nil, interrors.ErrPatientNotFound
	}
	copied := *patient
	return &copied, nil
}

func (r *InMemoryRepo) List(search string, offset, limit int) ([]*Patient, int, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	matched := make([]*Patient, 0, len(r.patients))
	needle := strings.ToLower(strings.TrimSpace(search))
	for _, patient := range r.patients {
		if needle != "" && !patientMatches(patient, needle) {
			continue
		}
		copied := *patient
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].RegisteredDate.After(matched[j].RegisteredDate)
	})

	total := len(matched)
	if offset >= total {
		return []*Patient{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return matched[offset:end], total, nil
}

func (r *InMemoryRepo) ListByNurse(nurseID int64) ([]*Patient, error) {
	all, _, err := r.List("", 0, 0)
	if err != nil {
		return nil, err
	}
	assigned := make([]*Patient, 0)
	for _, patient := range all {
		if patient.AssignedNurse == nurseID {
			assigned = append(assigned, patient)
		}
	}
	return assigned, nil
}

func (r *InMemoryRepo) AssignNurse(patientID, nurseID int64) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	patient, ok := r.patients[patientID]
	if !ok {
		return interrors.ErrPatientNotFound
	}
	patient.AssignedNurse = nurseID
	patient.UpdatedAt = time.Now()
	return nil
}

func patientMatches(p *Patient, needle string) bool {
	haystacks := []string{p.FirstName, p.LastName, p.FullName(), p.Email, p.PatientID}
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}
