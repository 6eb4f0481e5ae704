package token

import (
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-hms/users"
	"github.com/pkg/errors"
)

// TokenIntrospection represents the metadata of an access token.
// The 'active' field indicates the state of the token - if it's false, other
// fields may not be populated.
type TokenIntrospection struct {
	Active   bool       `json:"active"`
	Sub      *string    `json:"sub,omitempty"`      // User's unique ID
	Username string     `json:"username,omitempty"` // Username claim
	Role     users.Role `json:"role,omitempty"`     // Role claim
	Aud      *string    `json:"aud,omitempty"`      // Audience
	Exp      *int64     `json:"exp,omitempty"`      // Expiration
	Iat      *int64     `json:"iat,omitempty"`      // Issued at time
	Iss      *string    `json:"iss,omitempty"`      // Issuer of the token
}

// Manager creates and introspects the service's JWT access tokens.
type Manager struct {
	signer            Signer
	issuer            string
	audience          string
	revokedCache      RevokedTokenCache
	accessTokenExpiry time.Duration
	nowFunc           func() time.Time
}

type ManagerOption func(*Manager)

func WithAccessTokenExpiry(expiry time.Duration) ManagerOption {
	return func(m *Manager) {
		m.accessTokenExpiry = expiry
	}
}

func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

func WithIssuer(issuer string) ManagerOption {
	return func(m *Manager) {
		m.issuer = issuer
	}
}

func WithAudience(audience string) ManagerOption {
	return func(m *Manager) {
		m.audience = audience
	}
}

func WithRevokedTokenCache(cache RevokedTokenCache) ManagerOption {
	return func(m *Manager) {
		m.revokedCache = cache
	}
}

func New(signer Signer, options ...ManagerOption) *Manager {
	m := &Manager{
		signer:       signer,
		revokedCache: NewInMemoryRevokedTokenCache(), // Default implementation
	}

	for _, opt := range options {
		opt(m)
	}

	if m.accessTokenExpiry == 0 {
		m.accessTokenExpiry = time.Hour
	}
	if m.nowFunc == nil {
		m.nowFunc = time.Now
	}
	return m
}

// AccessTokenExpiry returns the configured access token lifetime.
func (m *Manager) AccessTokenExpiry() time.Duration {
	return m.accessTokenExpiry
}

// CreateAccessToken issues a signed bearer token for the user. The role claim
// is what the resource middleware gates on.
func (m *Manager) CreateAccessToken(user *users.User) (string, error) {
	claims := jwt.MapClaims{
		"iss":      m.issuer,                                           // The issuer of the token
		"aud":      m.audience,                                         // The audience for which the token is intended
		"sub":      strconv.FormatInt(user.ID, 10),                     // The subject, the user's unique ID
		"username": user.Username,                                      // Username for display and lookups
		"role":     string(user.Role),                                  // Permission class
		"iat":      int64(m.nowFunc().Unix()),                          // Issued At: the time at which the token was issued
		"exp":      int64(m.nowFunc().Add(m.accessTokenExpiry).Unix()), // Expiry: when the token will expire
		"jti":      uuid.New().String(),                                // Unique token ID for revocation
	}

	signed, err := m.signer.Sign(claims)
	if err != nil {
		return "", errors.Wrap(err, "[Manager.CreateAccessToken] Sign")
	}
	return signed, nil
}

// Introspection validates a raw token and returns its metadata. An expired,
// revoked, malformed or empty token yields Active=false, never an error the
// caller has to branch on separately.
func (m *Manager) Introspection(rawToken string) (*TokenIntrospection, error) {
	if strings.TrimSpace(rawToken) == "" {
		return &TokenIntrospection{Active: false}, nil
	}

	parsed, err := jwt.Parse(rawToken, m.signer.GetVerificationKey)
	if err != nil || !parsed.Valid {
		return &TokenIntrospection{Active: false}, err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return &TokenIntrospection{Active: false}, errors.New("error extracting claims from token")
	}

	iss, _ := claims["iss"].(string)
	sub, _ := claims["sub"].(string)
	aud, _ := claims["aud"].(string)
	username, _ := claims["username"].(string)
	roleRaw, _ := claims["role"].(string)
	iat, _ := claims["iat"].(float64)
	exp, _ := claims["exp"].(float64)
	jti, _ := claims["jti"].(string)

	iatInt := int64(iat)
	expInt := int64(exp)

	active := true
	if m.nowFunc().Unix() > expInt {
		active = false
	}

	// Check if token has been revoked
	if jti != "" && m.revokedCache.IsRevoked(jti) {
		active = false
	}

	return &TokenIntrospection{
		Active:   active,
		Sub:      &sub,
		Username: username,
		Role:     users.Role(roleRaw),
		Aud:      &aud,
		Exp:      &expInt,
		Iat:      &iatInt,
		Iss:      &iss,
	}, nil
}

// RevokeAccessToken revokes an access token by its jti.
func (m *Manager) RevokeAccessToken(rawToken string) error {
	parsed, err := jwt.Parse(rawToken, m.signer.GetVerificationKey)
	if err != nil || !parsed.Valid {
		return errors.Wrap(err, "[Manager.RevokeAccessToken] invalid token")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return errors.New("[Manager.RevokeAccessToken] error extracting claims from token")
	}

	jti, ok := claims["jti"].(string)
	if !ok || jti == "" {
		return errors.New("[Manager.RevokeAccessToken] token missing jti claim")
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return errors.New("[Manager.RevokeAccessToken] token missing exp claim")
	}

	return m.revokedCache.Add(jti, time.Unix(int64(exp), 0))
}

// CleanupRevokedTokens removes expired tokens from the revocation cache.
func (m *Manager) CleanupRevokedTokens() {
	if m.revokedCache != nil {
		m.revokedCache.Cleanup()
	}
}
