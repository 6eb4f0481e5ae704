package server

import (
	"net/http"
	"time"

	"github.com/jrsteele09/go-hms/records"
)

type recordPayload struct {
	PatientID int64 `json:"patient" validate:"required"`
	DoctorID  int64 `json:"doctor"`

	VisitDate    time.Time `json:"visit_date" validate:"required"`
	Diagnosis    string    `json:"diagnosis" validate:"required"`
	Symptoms     string    `json:"symptoms" validate:"required"`
	Prescription string    `json:"prescription"`
	LabResults   string    `json:"lab_results"`
	Notes        string    `json:"notes"`

	BloodPressure    string   `json:"blood_pressure"`
	Temperature      *float64 `json:"temperature"`
	HeartRate        *int     `json:"heart_rate"`
	RespiratoryRate  *int     `json:"respiratory_rate"`
	OxygenSaturation *int     `json:"oxygen_saturation"`
}

func (p *recordPayload) apply(record *records.MedicalRecord) {
	record.PatientID = p.PatientID
	record.DoctorID = p.DoctorID
	record.VisitDate = p.VisitDate
	record.Diagnosis = p.Diagnosis
	record.Symptoms = p.Symptoms
	record.Prescription = p.Prescription
	record.LabResults = p.LabResults
	record.Notes = p.Notes
	record.BloodPressure = p.BloodPressure
	record.Temperature = p.Temperature
	record.HeartRate = p.HeartRate
	record.RespiratoryRate = p.RespiratoryRate
	record.OxygenSaturation = p.OxygenSaturation
}

func (s *Server) RecordsListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, offset, limit := pageParams(r)
		results, count, err := s.repos.Records.List(offset, limit)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, paginate(r, count, page, limit, results))
	}
}

func (s *Server) RecordCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload recordPayload
		if !s.decodeAndValidate(w, r, &payload) {
			return
		}
		if _, err := s.repos.Patients.Get(payload.PatientID); err != nil {
			writeDomainError(w, err)
			return
		}

		record := &records.MedicalRecord{}
		payload.apply(record)
		if record.DoctorID == 0 {
			if identity := IdentityFromContext(r.Context()); identity != nil {
				record.DoctorID = identity.ID
			}
		}
		if err := s.repos.Records.Upsert(record); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, record)
	}
}

func (s *Server) RecordGetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, http.StatusNotFound, "Not found.")
			return
		}
		record, err := s.repos.Records.Get(id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, record)
	}
}

func (s *Server) RecordUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, http.StatusNotFound, "Not found.")
			return
		}
		record, err := s.repos.Records.Get(id)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		var payload recordPayload
		if !s.decodeAndValidate(w, r, &payload) {
			return
		}
		payload.apply(record)
		if err := s.repos.Records.Upsert(record); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, record)
	}
}

func (s *Server) RecordDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, http.StatusNotFound, "Not found.")
			return
		}
		if err := s.repos.Records.Delete(id); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
