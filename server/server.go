// Package server exposes the hospital management REST API: authentication
// and profile endpoints plus the patient, appointment, medical record and
// nurse task resources.
package server

import (
	"context"
	"net/http"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jrsteele09/go-hms/appointments"
	"github.com/jrsteele09/go-hms/internal/config"
	"github.com/jrsteele09/go-hms/nursetasks"
	"github.com/jrsteele09/go-hms/patients"
	"github.com/jrsteele09/go-hms/records"
	"github.com/jrsteele09/go-hms/token"
	"github.com/jrsteele09/go-hms/token/refresh"
	"github.com/jrsteele09/go-hms/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Repos bundles the storage interfaces the server operates on. Callers wire
// in-memory, Postgres or Redis backed implementations as the deployment
// requires.
type Repos struct {
	Users         users.Repo
	Patients      patients.Repo
	Appointments  appointments.Repo
	Records       records.Repo
	Tasks         nursetasks.Repo
	RefreshTokens refresh.Repo
}

type Server struct {
	env           string // Environment (e.g., "DEV", "PROD")
	mux           *http.ServeMux
	routes        []string
	config        config.Config
	repos         Repos
	tokens        *token.Manager
	refreshTokens *refresh.Manager
	validate      *validator.Validate
	logger        zerolog.Logger
}

func New(cfg config.Config, repos Repos) (*Server, error) {
	signer := token.NewHMACSigner(cfg.GetSigningSecret())

	s := &Server{
		mux:    http.NewServeMux(),
		config: cfg,
		repos:  repos,
		tokens: token.New(signer,
			token.WithIssuer(cfg.GetIssuer()),
			token.WithAudience(cfg.GetAudience()),
			token.WithAccessTokenExpiry(cfg.GetAccessTokenExpiry()),
		),
		refreshTokens: refresh.NewManager(repos.RefreshTokens, cfg.GetRefreshTokenLength(), cfg.GetRefreshTokenExpiry()),
		validate:      newValidator(),
		logger:        zerolog.New(os.Stdout).With().Timestamp().Str("component", "server").Logger(),
	}
	s.env = cfg.GetEnv()

	// Bootstrap: ensure a default admin user exists
	if err := s.InitialiseSystem(context.Background()); err != nil {
		return nil, errors.Wrap(err, "[Server New] failed to initialise the system")
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

// newValidator builds the request validator. Field names in error payloads
// come from the json tags so clients see wire names, not Go names.
func newValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return validate
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			s.logger.Info().Str("method", parts[0]).Str("path", parts[1]).Msg("route")
		} else {
			s.logger.Info().Str("path", parts[0]).Msg("route")
		}
	}
}
