package appointments

import (
	"fmt"
	"sort"
	"sync"
	"time"

	interrors "github.com/jrsteele09/go-hms/internal/errors"
)

var _ Repo = (*InMemoryRepo)(nil)

type InMemoryRepo struct {
	appointments map[int64]*Appointment
	slots        map[string]int64 // doctor/date/time -> appointment ID
	nextID       int64
	nextSeq      int64
	lock         sync.RWMutex
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		appointments: make(map[int64]*Appointment),
		slots:        make(map[string]int64),
		nextID:       1,
		nextSeq:      1,
	}
}

func slotKey(doctorID int64, date, t string) string {
	return fmt.Sprintf("%d/%s/%s", doctorID, date, t)
}

func (r *InMemoryRepo) Upsert(appointment *Appointment) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	key := slotKey(appointment.DoctorID, appointment.Date, appointment.Time)
	if holder, taken := r.slots[key]; taken && holder != appointment.ID {
		return interrors.ErrAppointmentConflict
	}

	now := time.Now()
	if appointment.ID == 0 {
		appointment.ID = r.nextID
		r.nextID++
		appointment.CreatedAt = now
	} else if existing, ok := r.appointments[appointment.ID]; ok {
		delete(r.slots, slotKey(existing.DoctorID, existing.Date, existing.Time))
	}
	if appointment.AppointmentID == "" {
		appointment.AppointmentID = FormatAppointmentID(r.nextSeq)
		r.nextSeq++
	}
	if appointment.Duration == 0 {
		appointment.Duration = DefaultDurationMinutes
	}
	if appointment.Status == "" {
		appointment.Status = StatusScheduled
	}
	if appointment.Type == "" {
		appointment.Type = TypeConsultation
	}
	appointment.UpdatedAt = now

	copied := *appointment
	r.appointments[appointment.ID] = &copied
	r.slots[key] = appointment.ID
	return nil
}

func (r *InMemoryRepo) Delete(id int64) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	appointment, ok := r.appointments[id]
	if !ok {
		return interrors.ErrAppointmentNotFound
	}
	delete(r.slots, slotKey(appointment.DoctorID, appointment.Date, appointment.Time))
	delete(r.appointments, id)
	return nil
}

func (r *InMemoryRepo) Get(id int64) (*Appointment, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	appointment, ok := r.appointments[id]
	if !ok {
		return nil, interrors.ErrAppointmentNotFound
	}
	copied := *appointment
	return &copied, nil
}

func (r *InMemoryRepo) List(offset, limit int) ([]*Appointment, int, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	all := r.sortedLocked(func(*Appointment) bool { return true })

	total := len(all)
	if offset >= total {
		return []*Appointment{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], total, nil
}

func (r *InMemoryRepo) ListByDate(date string) ([]*Appointment, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.sortedLocked(func(a *Appointment) bool { return a.Date == date }), nil
}

func (r *InMemoryRepo) ListUpcoming(fromDate string) ([]*Appointment, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	// ISO dates compare correctly as strings
	return r.sortedLocked(func(a *Appointment) bool {
		return a.Date >= fromDate && (a.Status == StatusScheduled || a.Status == StatusConfirmed)
	}), nil
}

func (r *InMemoryRepo) ListByPatient(patientID int64) ([]*Appointment, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.sortedLocked(func(a *Appointment) bool { return a.PatientID == patientID }), nil
}

func (r *InMemoryRepo) ListByDoctor(doctorID int64) ([]*Appointment, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.sortedLocked(func(a *Appointment) bool { return a.DoctorID == doctorID }), nil
}

func (r *InMemoryRepo) SetStatus(id int64, status Status) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	appointment, ok := r.appointments[id]
	if !ok {
		return interrors.ErrAppointmentNotFound
	}
	appointment.Status = status
	appointment.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryRepo) sortedLocked(match func(*Appointment) bool) []*Appointment {
	matched := make([]*Appointment, 0, len(r.appointments))
	for _, appointment := range r.appointments {
		if !match(appointment) {
			continue
		}
		copied := *appointment
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Date != matched[j].Date {
			return matched[i].Date < matched[j].Date
		}
		return matched[i].Time < matched[j].Time
	})
	return matched
}
