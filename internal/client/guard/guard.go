// Package guard decides whether a protected view may render for the current
// session. The decision is a pure function of (session snapshot, required
// role, requested path); it performs no I/O.
package guard

import "github.com/technoheaven/portal-client/internal/client/session"

// Role is the minimum privilege a view requires.
type Role int

const (
	RoleAnyone Role = iota
	RoleAuthenticated
	RoleStaff
)

// Outcome is the guard's verdict.
type Outcome int

const (
	// OutcomeRender lets the view render.
	OutcomeRender Outcome = iota

	// OutcomeWait renders a neutral waiting view while the session is still
	// resolving. Redirecting here would bounce signed-in users to the
	// sign-in page on every reload.
	OutcomeWait

	// OutcomeRedirect sends the user elsewhere.
	OutcomeRedirect
)

const (
	SignInPath    = "/signin"
	DashboardPath = "/dashboard"
)

// Decision carries the verdict. For redirects to sign-in, From preserves
// the originally requested path for a post-login bounce-back.
type Decision struct {
	Outcome Outcome
	Target  string
	From    string
}

// Decide gates a view that requires the given role. The cached user seen
// during loading is advisory and never grants a protected render.
func Decide(snap session.Snapshot, required Role, requestedPath string) Decision {
	if required == RoleAnyone {
		return Decision{Outcome: OutcomeRender}
	}

	switch snap.State {
	case session.StateUninitialized, session.StateLoading:
		return Decision{Outcome: OutcomeWait}
	}

	if !snap.IsAuthenticated() {
		return Decision{Outcome: OutcomeRedirect, Target: SignInPath, From: requestedPath}
	}

	if required == RoleStaff && !snap.User.IsStaff {
		return Decision{Outcome: OutcomeRedirect, Target: DashboardPath}
	}

	return Decision{Outcome: OutcomeRender}
}
