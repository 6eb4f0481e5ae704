package server

import (
	"net/http"

	"github.com/jrsteele09/go-hms/internal/metrics"
	"github.com/jrsteele09/go-hms/patients"
	"github.com/jrsteele09/go-hms/users"
)

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenPairResponse struct {
	Access  string          `json:"access"`
	Refresh string          `json:"refresh"`
	User    *users.Identity `json:"user,omitempty"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// LoginHandler exchanges a username and password for a token pair and the
// caller's identity. Invalid credentials and blocked accounts produce the
// same response so the endpoint does not reveal which accounts exist.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !s.decodeAndValidate(w, r, &req) {
			return
		}

		user, err := s.repos.Users.GetByUsername(req.Username)
		if err != nil || user == nil || user.Blocked || !users.CheckPasswordHash(req.Password, user.PasswordHash) {
			metrics.ObserveLogin("failure")
			writeError(w, http.StatusBadRequest, "Invalid credentials")
			return
		}

		accessToken, err := s.tokens.CreateAccessToken(user)
		if err != nil {
			s.logger.Error().Err(err).Str("username", user.Username).Msg("issue access token")
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		refreshToken, err := s.refreshTokens.Create(user.ID)
		if err != nil {
			s.logger.Error().Err(err).Str("username", user.Username).Msg("issue refresh token")
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		if err := s.repos.Users.SetLastLogin(user.Username); err != nil {
			s.logger.Warn().Err(err).Str("username", user.Username).Msg("record last login")
		}

		metrics.ObserveLogin("success")
		writeJSON(w, http.StatusOK, tokenPairResponse{
			Access:  accessToken,
			Refresh: refreshToken,
			User:    user.Identity(),
		})
	}
}

// RefreshHandler rotates a refresh token: the presented token is consumed
// and a fresh pair is issued. A replayed token fails because the first
// exchange already deleted it.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		if !s.decodeAndValidate(w, r, &req) {
			return
		}

		userID, err := s.refreshTokens.Consume(req.Refresh)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Token is invalid or expired")
			return
		}

		user, err := s.repos.Users.GetByID(userID)
		if err != nil || user == nil || user.Blocked {
			writeError(w, http.StatusUnauthorized, "Token is invalid or expired")
			return
		}

		accessToken, err := s.tokens.CreateAccessToken(user)
		if err != nil {
			s.logger.Error().Err(err).Str("username", user.Username).Msg("issue access token")
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		refreshToken, err := s.refreshTokens.Create(user.ID)
		if err != nil {
			s.logger.Error().Err(err).Str("username", user.Username).Msg("issue refresh token")
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, tokenPairResponse{Access: accessToken, Refresh: refreshToken})
	}
}

// LogoutHandler revokes the caller's access token and invalidates the
// presented refresh token.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		// Body is optional on logout; a missing refresh token still revokes
		// the access token
		_ = s.decodeBody(r, &req)

		if rawToken, ok := r.Context().Value(ContextKeyAccessToken).(string); ok {
			if err := s.tokens.RevokeAccessToken(rawToken); err != nil {
				s.logger.Warn().Err(err).Msg("revoke access token")
			}
		}
		if req.Refresh != "" {
			s.refreshTokens.Invalidate(req.Refresh)
		}

		writeJSON(w, http.StatusOK, map[string]string{"detail": "Logged out"})
	}
}

type signupRequest struct {
	Username  string `json:"username" validate:"required,min=3"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

// SignupHandler registers a patient account without authentication. The
// role is pinned to patient so self-registration can never create staff.
// A patient chart is opened alongside the account, linked through UserID,
// so the new patient is immediately visible to clinical staff.
func (s *Server) SignupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signupRequest
		if !s.decodeAndValidate(w, r, &req) {
			return
		}

		user, ok := s.createAccount(w, createUserRequest{
			Username:  req.Username,
			Email:     req.Email,
			Password:  req.Password,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		}, users.RolePatient)
		if !ok {
			return
		}

		patient := &patients.Patient{
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
			UserID:    user.ID,
			IsActive:  true,
		}
		if err := s.repos.Patients.Upsert(patient); err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, user.Identity())
	}
}

// ProfileHandler returns the authenticated caller's identity.
func (s *Server) ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := IdentityFromContext(r.Context())
		if identity == nil {
			writeError(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}
		writeJSON(w, http.StatusOK, identity)
	}
}
