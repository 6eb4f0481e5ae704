package users

import (
	"fmt"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// Role classifies a user's permission class. The tags travel on the wire in
// the identity payload's "role" field and comparisons are case-sensitive
// exact-match, so these constants are the single source of the vocabulary.
type Role string

const (
	RoleDoctor       Role = "doctor"
	RoleNurse        Role = "nurse"
	RolePatient      Role = "patient"
	RoleReceptionist Role = "receptionist"
	RoleAdmin        Role = "admin"
)

// AllRoles lists every known role tag.
var AllRoles = []Role{RoleDoctor, RoleNurse, RolePatient, RoleReceptionist, RoleAdmin}

// ParseRole validates a raw role tag. Unknown tags are rejected rather than
// passed through so a new role has to be added here explicitly.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleDoctor:
		return RoleDoctor, nil
	case RoleNurse:
		return RoleNurse, nil
	case RolePatient:
		return RolePatient, nil
	case RoleReceptionist:
		return RoleReceptionist, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("unknown role %q", raw)
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

type User struct {
	ID           int64     `json:"id"`                    // Unique identifier for the user
	Username     string    `json:"username"`              // Unique username
	Email        string    `json:"email,omitempty"`       // User's email address
	PasswordHash string    `json:"-"`                     // Hashed version of the user's password - never serialize
	FirstName    string    `json:"first_name,omitempty"`  // First name of the user
	LastName     string    `json:"last_name,omitempty"`   // Last name of the user
	Role         Role      `json:"role"`                  // Permission class (doctor, nurse, patient, receptionist, admin)
	DateJoined   time.Time `json:"date_joined,omitempty"` // Date and time when the user registered
	LastLogin    time.Time `json:"last_login,omitempty"`  // Last time the user logged in
	Blocked      bool      `json:"-"`                     // Blocked, has the user been blocked from logging in
}

// Identity is the public projection of a User, returned by the login and
// profile endpoints and held client-side as the authenticated identity.
type Identity struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Role      Role   `json:"role"`
}

// Identity returns the wire representation of the user.
func (u *User) Identity() *Identity {
	return &Identity{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
	}
}

func (i *Identity) FullName() string {
	return i.FirstName + " " + i.LastName
}

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
