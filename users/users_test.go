package users_test

import (
	"testing"

	"github.com/jrsteele09/go-hms/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, role := range users.AllRoles {
		parsed, err := users.ParseRole(string(role))
		require.NoError(t, err)
		require.Equal(t, role, parsed)
	}

	_, err := users.ParseRole("superhero")
	require.Error(t, err)

	// Case-sensitive exact match
	_, err = users.ParseRole("Doctor")
	require.Error(t, err)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := users.HashPassword("Secret123")
	require.NoError(t, err)

	assert.True(t, users.CheckPasswordHash("Secret123", hash))
	assert.False(t, users.CheckPasswordHash("secret123", hash))
	assert.False(t, users.CheckPasswordHash("", hash))
}

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "Abcdef12", false},
		{"too short", "Ab1", true},
		{"no uppercase", "abcdef12", true},
		{"no lowercase", "ABCDEF12", true},
		{"no number", "Abcdefgh", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := users.ValidatePasswordStrength(tt.password)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestIdentityProjection(t *testing.T) {
	user := &users.User{
		ID:           7,
		Username:     "dr.smith",
		Email:        "dr.smith@example.com",
		PasswordHash: "never-exposed",
		FirstName:    "Jane",
		LastName:     "Smith",
		Role:         users.RoleDoctor,
	}

	identity := user.Identity()
	require.Equal(t, int64(7), identity.ID)
	require.Equal(t, "dr.smith", identity.Username)
	require.Equal(t, users.RoleDoctor, identity.Role)
	require.Equal(t, "Jane Smith", identity.FullName())
}
