package server

import (
	"net/http"

	"github.com/jrsteele09/go-hms/internal/utils"
	"github.com/jrsteele09/go-hms/users"
)

type createUserRequest struct {
	Username  string `json:"username" validate:"required,min=3"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Role      string `json:"role" validate:"required"`
}

// UsersListHandler lists accounts, optionally filtered by ?role=.
func (s *Server) UsersListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if roleParam := r.URL.Query().Get("role"); roleParam != "" {
			role, err := users.ParseRole(roleParam)
			if err != nil {
				writeError(w, http.StatusBadRequest, "Unknown role")
				return
			}
			matched, err := s.repos.Users.ListByRole(role)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, identitiesOf(matched))
			return
		}

		_, offset, limit := pageParams(r)
		listed, err := s.repos.Users.List(offset, limit)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, identitiesOf(listed))
	}
}

// UserCreateHandler registers a staff or patient account.
func (s *Server) UserCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createUserRequest
		if !s.decodeAndValidate(w, r, &req) {
			return
		}

		role, err := users.ParseRole(req.Role)
		if err != nil {
			writeFieldErrors(w, map[string][]string{"role": {"Unknown role."}})
			return
		}

		user, ok := s.createAccount(w, req, role)
		if !ok {
			return
		}
		writeJSON(w, http.StatusCreated, user.Identity())
	}
}

// createAccount applies the account rules shared by admin creation and
// patient signup. On failure the error response has been written and ok is
// false.
func (s *Server) createAccount(w http.ResponseWriter, req createUserRequest, role users.Role) (*users.User, bool) {
	if err := users.ValidatePasswordStrength(req.Password); err != nil {
		writeFieldErrors(w, map[string][]string{"password": {err.Error()}})
		return nil, false
	}
	if existing, err := s.repos.Users.GetByUsername(req.Username); err == nil && existing != nil {
		writeFieldErrors(w, map[string][]string{"username": {"A user with that username already exists."}})
		return nil, false
	}

	passwordHash, err := users.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return nil, false
	}

	user := &users.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         role,
	}
	if err := s.repos.Users.Upsert(user); err != nil {
		writeDomainError(w, err)
		return nil, false
	}
	return user, true
}

// UserBlockHandler blocks or unblocks an account. A blocked user's tokens
// stop working on the next request regardless of their expiry.
func (s *Server) UserBlockHandler() http.HandlerFunc {
	type blockRequest struct {
		Blocked *bool `json:"blocked" validate:"required"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.PathValue("username")
		var req blockRequest
		if !s.decodeAndValidate(w, r, &req) {
			return
		}
		if err := s.repos.Users.SetBlocked(username, utils.Value(req.Blocked)); err != nil {
			writeDomainError(w, err)
			return
		}
		user, err := s.repos.Users.GetByUsername(username)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user.Identity())
	}
}

// UserDeleteHandler removes an account.
func (s *Server) UserDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.repos.Users.Delete(r.PathValue("username")); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func identitiesOf(list []*users.User) []*users.Identity {
	identities := make([]*users.Identity, 0, len(list))
	for _, user := range list {
		identities = append(identities, user.Identity())
	}
	return identities
}
