package server

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/jrsteele09/go-hms/users"
	"github.com/pkg/errors"
)

// InitialiseSystem creates the default admin user on first start so a fresh
// deployment can be logged into. Returns without touching anything when an
// admin already exists.
func (s *Server) InitialiseSystem(_ context.Context) error {
	adminUsername := s.config.GetAdminUsername()

	existing, err := s.repos.Users.GetByUsername(adminUsername)
	if err == nil && existing != nil && existing.Role == users.RoleAdmin {
		return nil
	}

	generatedPassword := s.config.GetAdminPassword()
	if generatedPassword == "" {
		passwordBytes := make([]byte, 16)
		if _, err := rand.Read(passwordBytes); err != nil {
			return errors.Wrap(err, "[Server InitialiseSystem] failed to generate password")
		}
		generatedPassword = base64.URLEncoding.EncodeToString(passwordBytes)
	}

	passwordHash, err := users.HashPassword(generatedPassword)
	if err != nil {
		return errors.Wrap(err, "[Server InitialiseSystem] failed to hash password")
	}

	admin := &users.User{
		Username:     adminUsername,
		Email:        adminUsername + "@localhost",
		PasswordHash: passwordHash,
		FirstName:    "System",
		LastName:     "Administrator",
		Role:         users.RoleAdmin,
		DateJoined:   time.Now(),
	}
	if err := s.repos.Users.Upsert(admin); err != nil {
		return errors.Wrap(err, "[Server InitialiseSystem] failed to create admin user")
	}

	s.logger.Info().
		Str("username", adminUsername).
		Str("password", generatedPassword).
		Msg("created default admin user, change the password after first login")
	return nil
}
