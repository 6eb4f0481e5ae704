// Package guard decides what to do with a navigation attempt given the
// current session and a route's role requirements. Evaluate is a pure
// function of its inputs; it performs no I/O and holds no state, so the
// same session and requirement always yield the same decision.
package guard

import (
	"slices"

	"github.com/jrsteele09/go-hms/client/session"
	"github.com/jrsteele09/go-hms/users"
)

// Decision is the guard's verdict for a navigation attempt. The zero value
// is DecisionWait so an unevaluated guard never renders protected content.
type Decision int

const (
	// DecisionWait means the session is still being restored; show nothing
	// protected and re-evaluate when the session settles.
	DecisionWait Decision = iota

	// DecisionRender admits the navigation.
	DecisionRender

	// DecisionRedirectLogin sends an unauthenticated visitor to the login
	// screen.
	DecisionRedirectLogin

	// DecisionRedirectHome sends an authenticated user whose role does not
	// satisfy the route back to the landing screen.
	DecisionRedirectHome
)

func (d Decision) String() string {
	switch d {
	case DecisionWait:
		return "wait"
	case DecisionRender:
		return "render"
	case DecisionRedirectLogin:
		return "redirect-login"
	case DecisionRedirectHome:
		return "redirect-home"
	default:
		return "unknown"
	}
}

// Evaluate resolves a navigation attempt against a route that admits the
// given roles. An empty allowedRoles slice means any authenticated user
// may enter. Role comparison is exact; there is no hierarchy where one
// role implies another.
func Evaluate(s session.Session, allowedRoles []users.Role) Decision {
	switch s.Status {
	case session.StatusRestoring:
		return DecisionWait
	case session.StatusAnonymous:
		return DecisionRedirectLogin
	case session.StatusAuthenticated:
		if s.Identity == nil {
			// An authenticated session always carries an identity; treat
			// a broken snapshot as not signed in rather than admitting it.
			return DecisionRedirectLogin
		}
		if len(allowedRoles) == 0 {
			return DecisionRender
		}
		if slices.Contains(allowedRoles, s.Identity.Role) {
			return DecisionRender
		}
		return DecisionRedirectHome
	default:
		return DecisionWait
	}
}
