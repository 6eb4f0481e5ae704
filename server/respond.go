package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	interrors "github.com/jrsteele09/go-hms/internal/errors"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError responds with the service's error shape: {"detail": "..."}.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeFieldErrors responds with field-keyed validation messages.
func writeFieldErrors(w http.ResponseWriter, fields map[string][]string) {
	writeJSON(w, http.StatusBadRequest, fields)
}

// writeDomainError maps a domain error onto the HTTP surface.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case interrors.Is(err, interrors.ErrUserNotFound),
		interrors.Is(err, interrors.ErrPatientNotFound),
		interrors.Is(err, interrors.ErrAppointmentNotFound),
		interrors.Is(err, interrors.ErrRecordNotFound),
		interrors.Is(err, interrors.ErrTaskNotFound),
		interrors.Is(err, interrors.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found.")
	case interrors.Is(err, interrors.ErrAppointmentConflict):
		writeError(w, http.StatusBadRequest, err.Error())
	case interrors.Is(err, interrors.ErrForbidden):
		writeError(w, http.StatusForbidden, "You do not have permission to perform this action.")
	case interrors.Is(err, interrors.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeBody decodes a JSON request body without validation, for handlers
// where the body is optional.
func (s *Server) decodeBody(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}

// decodeAndValidate decodes a JSON request body into target and runs the
// struct validators. On failure it writes the error response and returns
// false; the handler should just return.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := s.validate.Struct(target); err != nil {
		var validationErrors validator.ValidationErrors
		if interrors.As(err, &validationErrors) {
			fields := map[string][]string{}
			for _, fieldError := range validationErrors {
				name := strings.ToLower(fieldError.Field())
				fields[name] = append(fields[name], validationMessage(fieldError))
			}
			writeFieldErrors(w, fields)
			return false
		}
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func validationMessage(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "oneof":
		return fmt.Sprintf("Value must be one of: %s.", fieldError.Param())
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", fieldError.Param())
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fieldError.Param())
	case "datetime":
		return fmt.Sprintf("Value must match the format %s.", fieldError.Param())
	default:
		return "This value is invalid."
	}
}

// pathID extracts the numeric {id} path value.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// pageParams reads DRF style ?page= and ?page_size= query parameters and
// converts them to an offset and limit.
func pageParams(r *http.Request) (page, offset, limit int) {
	page = 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}
	limit = defaultPageSize
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= maxPageSize {
			limit = parsed
		}
	}
	return page, (page - 1) * limit, limit
}

// paginated is the envelope returned by the main collection endpoints.
// Custom actions and sub-collections return bare arrays instead; the client
// normalizes both shapes.
type paginated struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

func paginate(r *http.Request, count, page, limit int, results any) paginated {
	envelope := paginated{Count: count, Results: results}
	if page*limit < count {
		next := fmt.Sprintf("%s?page=%d", r.URL.Path, page+1)
		envelope.Next = &next
	}
	if page > 1 {
		previous := fmt.Sprintf("%s?page=%d", r.URL.Path, page-1)
		envelope.Previous = &previous
	}
	return envelope
}
