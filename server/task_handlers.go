package server

import (
	"net/http"

	"github.com/jrsteele09/go-hms/nursetasks"
)

type taskPayload struct {
	NurseID       int64  `json:"nurse" validate:"required"`
	PatientID     int64  `json:"patient" validate:"required"`
	Title         string `json:"title" validate:"required"`
	ScheduledTime string `json:"scheduled_time" validate:"required,datetime=15:04"`
}

func (s *Server) TasksListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, offset, limit := pageParams(r)
		results, count, err := s.repos.Tasks.List(offset, limit)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, paginate(r, count, page, limit, results))
	}
}

func (s *Server) TaskCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload taskPayload
		if !s.decodeAndValidate(w, r, &payload) {
			return
		}
		if _, err := s.repos.Patients.Get(payload.PatientID); err != nil {
			writeDomainError(w, err)
			return
		}

		task := &nursetasks.Task{
			NurseID:       payload.NurseID,
			PatientID:     payload.PatientID,
			Title:         payload.Title,
			ScheduledTime: payload.ScheduledTime,
		}
		if err := s.repos.Tasks.Upsert(task); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, task)
	}
}

// MyTasksHandler returns the calling nurse's own tasks as a bare array.
// Route middleware has already guaranteed the caller holds the nurse role.
func (s *Server) MyTasksHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := IdentityFromContext(r.Context())
		if identity == nil {
			writeError(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}
		tasks, err := s.repos.Tasks.ListByNurse(identity.ID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tasks)
	}
}

// TaskPatchHandler applies a partial update. Only the completed flag is
// mutable after creation.
func (s *Server) TaskPatchHandler() http.HandlerFunc {
	type patchRequest struct {
		Completed *bool `json:"completed"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, http.StatusNotFound, "Not found.")
			return
		}
		var req patchRequest
		if err := s.decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Completed != nil {
			if err := s.repos.Tasks.SetCompleted(id, *req.Completed); err != nil {
				writeDomainError(w, err)
				return
			}
		}
		task, err := s.repos.Tasks.Get(id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, task)
	}
}

func (s *Server) TaskDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, http.StatusNotFound, "Not found.")
			return
		}
		if err := s.repos.Tasks.Delete(id); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
