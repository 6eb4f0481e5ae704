package guard_test

import (
	"testing"

	"github.com/jrsteele09/go-hms/client/guard"
	"github.com/jrsteele09/go-hms/client/session"
	"github.com/jrsteele09/go-hms/users"
	"github.com/stretchr/testify/require"
)

func authenticatedAs(role users.Role) session.Session {
	return session.Session{
		Status:   session.StatusAuthenticated,
		Identity: &users.Identity{ID: 1, Username: "someone", Role: role},
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name         string
		session      session.Session
		allowedRoles []users.Role
		want         guard.Decision
	}{
		{
			name:         "restoring waits regardless of requirements",
			session:      session.Session{Status: session.StatusRestoring},
			allowedRoles: []users.Role{users.RoleAdmin},
			want:         guard.DecisionWait,
		},
		{
			name:         "restoring waits even for unrestricted routes",
			session:      session.Session{Status: session.StatusRestoring},
			allowedRoles: nil,
			want:         guard.DecisionWait,
		},
		{
			name:         "anonymous redirects to login",
			session:      session.Session{Status: session.StatusAnonymous},
			allowedRoles: nil,
			want:         guard.DecisionRedirectLogin,
		},
		{
			name:         "anonymous redirects to login on restricted route",
			session:      session.Session{Status: session.StatusAnonymous},
			allowedRoles: []users.Role{users.RoleNurse},
			want:         guard.DecisionRedirectLogin,
		},
		{
			name:         "authenticated renders unrestricted route",
			session:      authenticatedAs(users.RolePatient),
			allowedRoles: nil,
			want:         guard.DecisionRender,
		},
		{
			name:         "matching role renders",
			session:      authenticatedAs(users.RoleDoctor),
			allowedRoles: []users.Role{users.RoleDoctor, users.RoleNurse},
			want:         guard.DecisionRender,
		},
		{
			name:         "non-matching role redirects home",
			session:      authenticatedAs(users.RoleReceptionist),
			allowedRoles: []users.Role{users.RoleDoctor, users.RoleNurse},
			want:         guard.DecisionRedirectHome,
		},
		{
			name:         "admin gets no implicit access",
			session:      authenticatedAs(users.RoleAdmin),
			allowedRoles: []users.Role{users.RoleNurse},
			want:         guard.DecisionRedirectHome,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, guard.Evaluate(tc.session, tc.allowedRoles))
		})
	}
}

func TestEvaluateIsPure(t *testing.T) {
	s := authenticatedAs(users.RoleNurse)
	allowed := []users.Role{users.RoleNurse}

	first := guard.Evaluate(s, allowed)
	second := guard.Evaluate(s, allowed)
	require.Equal(t, first, second)
	require.Equal(t, guard.DecisionRender, first)
}

func TestZeroDecisionWaits(t *testing.T) {
	var d guard.Decision
	require.Equal(t, guard.DecisionWait, d)
	require.Equal(t, "wait", d.String())
}
