package server

import (
	"net/http"

	"github.com/jrsteele09/go-hms/patients"
)

type patientPayload struct {
	FirstName   string          `json:"first_name" validate:"required"`
	LastName    string          `json:"last_name" validate:"required"`
	DateOfBirth string          `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Gender      patients.Gender `json:"gender" validate:"required,oneof=male female other"`
	BloodGroup  string          `json:"blood_group" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`

	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`

	EmergencyContactName     string `json:"emergency_contact_name"`
	EmergencyContactPhone    string `json:"emergency_contact_phone"`
	EmergencyContactRelation string `json:"emergency_contact_relation"`

	Allergies          string `json:"allergies"`
	ChronicConditions  string `json:"chronic_conditions"`
	CurrentMedications string `json:"current_medications"`

	AssignedNurse int64 `json:"assigned_nurse"`
}

func (p *patientPayload) apply(patient *patients.Patient) {
	patient.FirstName = p.FirstName
	patient.LastName = p.LastName
	patient.DateOfBirth = p.DateOfBirth
	patient.Gender = p.Gender
	patient.BloodGroup = p.BloodGroup
	patient.Email = p.Email
	patient.Phone = p.Phone
	patient.Address = p.Address
	patient.City = p.City
	patient.State = p.State
	patient.ZipCode = p.ZipCode
	patient.EmergencyContactName = p.EmergencyContactName
	patient.EmergencyContactPhone = p.EmergencyContactPhone
	patient.EmergencyContactRelation = p.EmergencyContactRelation
	patient.Allergies = p.Allergies
	patient.ChronicConditions = p.ChronicConditions
	patient.CurrentMedications = p.CurrentMedications
	patient.AssignedNurse = p.AssignedNurse
}

// PatientsListHandler lists patients newest first, optionally filtered by
// the ?search= parameter which matches name, email or display ID.
func (s *Server) PatientsListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, offset, limit := pageParams(r)
		results, count, err := s.repos.Patients.List(r.URL.Query().Get("search"), offset, limit)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, paginate(r, count, page, limit, results))
	}
}

func (s *Server) PatientCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload patientPayload
		if !s.decodeAndValidate(w, r, &payload) {
			return
		}

		patient := &patients.Patient{IsActive: true}
		payload.apply(patient)
		if err := s.repos.Patients.Upsert(patient); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, patient)
	}
}

func (s *Server) PatientGetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, http.StatusNotFound, "Not found.")
			return
		}
		patient, err := s.repos.Patients.Get(id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, patient)
	}
}

func (s *Server) PatientUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, http.StatusNotFound, "Not found.")
			return
		}
		patient, err := s.repos.Patients.Get(id)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		var payload patientPayload
		if !s.decodeAndValidate(w, r, &payload) {
			return
		}
		payload.apply(patient)
		if err := s.repos.Patients.Upsert(patient); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, patient)
	}
}

func (s *Server) PatientDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, http.StatusNotFound, "Not found.")
			return
		}
		if err := s.repos.Patients.Delete(id); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// PatientRecordsHandler returns the patient's medical history as a bare
// array, newest visit first.
func (s *Server) PatientRecordsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, http.StatusNotFound, "Not found.")
			return
		}
		if _, err := s.repos.Patients.Get(id); err != nil {
			writeDomainError(w, err)
			return
		}
		history, err := s.repos.Records.ListByPatient(id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, history)
	}
}

// PatientAppointmentsHandler returns the patient's appointments as a bare
// array ordered by date then time.
func (s *Server) PatientAppointmentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, http.StatusNotFound, "Not found.")
			return
		}
		if _, err := s.repos.Patients.Get(id); err != nil {
			writeDomainError(w, err)
			return
		}
		booked, err := s.repos.Appointments.ListByPatient(id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, booked)
	}
}

func (s *Server) PatientAssignNurseHandler() http.HandlerFunc {
	type assignRequest struct {
		Nurse int64 `json:"nurse" validate:"required"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, http.StatusNotFound, "Not found.")
			return
		}
		var req assignRequest
		if !s.decodeAndValidate(w, r, &req) {
			return
		}
		if err := s.repos.Patients.AssignNurse(id, req.Nurse); err != nil {
			writeDomainError(w, err)
			return
		}
		patient, err := s.repos.Patients.Get(id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, patient)
	}
}
