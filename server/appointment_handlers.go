package server

import (
	"net/http"
	"time"

	"github.com/jrsteele09/go-hms/appointments"
)

type appointmentPayload struct {
	PatientID int64 `json:"patient" validate:"required"`
	DoctorID  int64 `json:"doctor" validate:"required"`

	Date     string `json:"appointment_date" validate:"required,datetime=2006-01-02"`
	Time     string `json:"appointment_time" validate:"required,datetime=15:04"`
	Duration int    `json:"duration" validate:"omitempty,min=5,max=480"`

	Type   appointments.Type   `json:"appointment_type" validate:"omitempty,oneof=consultation follow_up check_up emergency vaccination lab_test"`
	Status appointments.Status `json:"status" validate:"omitempty,oneof=scheduled confirmed in_progress completed cancelled no_show"`

	Reason string `json:"reason" validate:"required"`
	Notes  string `json:"notes"`

	AssignedNurse int64 `json:"assigned_nurse"`
}

func (p *appointmentPayload) apply(appointment *appointments.Appointment) {
	appointment.PatientID = p.PatientID
	appointment.DoctorID = p.DoctorID
	appointment.Date = p.Date
	appointment.Time = p.Time
	appointment.Duration = p.Duration
	appointment.Type = p.Type
	appointment.Status = p.Status
	appointment.Reason = p.Reason
	appointment.Notes = p.Notes
	appointment.AssignedNurse = p.AssignedNurse
}

func (s *Server) AppointmentsListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, offset, limit := pageParams(r)
		results, count, err := s.repos.Appointments.List(offset, limit)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, paginate(r, count, page, limit, results))
	}
}

// AppointmentCreateHandler books an appointment. A slot the doctor already
// holds at that date and time is rejected with the conflict detail.
func (s *Server) AppointmentCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload appointmentPayload
		if !s.decodeAndValidate(w, r, &payload) {
			return
		}
		if _, err := s.repos.Patients.Get(payload.PatientID); err != nil {
			writeDomainError(w, err)
			return
		}

		appointment := &appointments.Appointment{}
		payload.apply(appointment)
		if identity := IdentityFromContext(r.Context()); identity != nil {
			appointment.CreatedBy = identity.ID
		}
		if err := s.repos.Appointments.Upsert(appointment); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, appointment)
	}
}

func (s *Server) AppointmentGetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, http.StatusNotFound, "Not found.")
			return
		}
		appointment, err := s.repos.Appointments.Get(id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, appointment)
	}
}

func (s *Server) AppointmentUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, http.StatusNotFound, "Not found.")
			return
		}
		appointment, err := s.repos.Appointments.Get(id)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		var payload appointmentPayload
		if !s.decodeAndValidate(w, r, &payload) {
			return
		}
		payload.apply(appointment)
		if err := s.repos.Appointments.Upsert(appointment); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, appointment)
	}
}

func (s *Server) AppointmentDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, http.StatusNotFound, "Not found.")
			return
		}
		if err := s.repos.Appointments.Delete(id); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// AppointmentsTodayHandler returns today's appointments as a bare array.
func (s *Server) AppointmentsTodayHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		today := time.Now().Format(appointments.DateLayout)
		results, err := s.repos.Appointments.ListByDate(today)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, results)
	}
}

// AppointmentsUpcomingHandler returns scheduled or confirmed appointments
// from today onwards as a bare array.
func (s *Server) AppointmentsUpcomingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		today := time.Now().Format(appointments.DateLayout)
		results, err := s.repos.Appointments.ListUpcoming(today)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, results)
	}
}

func (s *Server) AppointmentConfirmHandler() http.HandlerFunc {
	return s.setStatusHandler(appointments.StatusConfirmed)
}

func (s *Server) AppointmentCancelHandler() http.HandlerFunc {
	return s.setStatusHandler(appointments.StatusCancelled)
}

func (s *Server) setStatusHandler(status appointments.Status) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, http.StatusNotFound, "Not found.")
			return
		}
		if err := s.repos.Appointments.SetStatus(id, status); err != nil {
			writeDomainError(w, err)
			return
		}
		appointment, err := s.repos.Appointments.Get(id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, appointment)
	}
}
