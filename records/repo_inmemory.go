package records

import (
	"sort"
	"sync"
	"time"

	interrors "github.com/jrsteele09/go-hms/internal/errors"
)

var _ Repo = (*InMemoryRepo)(nil)

type InMemoryRepo struct {
	records map[int64]*MedicalRecord
	nextID  int64
	lock    sync.RWMutex
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		records: make(map[int64]*MedicalRecord),
		nextID:  1,
	}
}

func (r *InMemoryRepo) Upsert(record *MedicalRecord) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	now := time.Now()
	if record.ID == 0 {
		record.ID = r.nextID
		r.nextID++
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	copied := *record
	r.records[record.ID] = &copied
	return nil
}

func (r *InMemoryRepo) Delete(id int64) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.records[id]; !ok {
		return interrors.ErrRecordNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *InMemoryRepo) Get(id int64) (*MedicalRecord, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	record, ok := r.records[id]
	if !ok {
		return nil, interrors.ErrRecordNotFound
	}
	copied := *record
	return &copied, nil
}

func (r *InMemoryRepo) List(offset, limit int) ([]*MedicalRecord, int, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	all := make([]*MedicalRecord, 0, len(r.records))
	for _, record := range r.records {
		copied := *record
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].VisitDate.After(all[j].VisitDate) })

	total := len(all)
	if offset >= total {
		return []*MedicalRecord{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], total, nil
}

func (r *InMemoryRepo) ListByPatient(patientID int64) ([]*MedicalRecord, error) {
	all, _, err := r.List(0, 0)
	if err != nil {
		return nil, err
	}
	matched := make([]*MedicalRecord, 0)
	for _, record := range all {
		if record.PatientID == patientID {
			matched = append(matched, record)
		}
	}
	return matched, nil
}
