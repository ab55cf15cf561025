// Package gate decides which screen a user may reach given an
// authentication/profile/lockout snapshot.  Evaluate is a pure
// function of its input: it performs no I/O, never fails, and
// evaluating the same snapshot twice yields the same decision.  The
// caller (handler, or whatever event source refreshes the snapshot)
// owns fetching the inputs; the gate only decides.
package gate

import "strings"

// RouteClass classifies the destination a user is trying to reach.
// The gate never sees concrete paths, only classes.
type RouteClass int

const (
	RouteRoot RouteClass = iota
	RouteLogin
	RouteSignup
	RouteAuthCallback
	RouteOnboarding
	RouteLocked
	RouteAppeal
	RouteApp // any protected application route (tasks, settings, ...)
)

// RedirectTarget names the screen a Redirect decision points at.
type RedirectTarget string

const (
	TargetLogin           RedirectTarget = "login"
	TargetOnboardingEntry RedirectTarget = "onboarding-entry"
	TargetHome            RedirectTarget = "home"
	TargetLockedScreen    RedirectTarget = "locked-screen"
)

// Action is the decision kind.
type Action int

const (
	Allow Action = iota
	Redirect
)

// Decision is the gate's verdict for one snapshot.  Target is set
// only when Action is Redirect.
type Decision struct {
	Action Action
	Target RedirectTarget
}

// ProfileState is the slice of the profile the gate interprets.  A
// nil *ProfileState in the snapshot means the profile is still being
// resolved.
type ProfileState struct {
	OnboardingCompleted bool
}

// Snapshot is the full input to one gate evaluation.
type Snapshot struct {
	Authenticated bool
	Profile       *ProfileState // nil while resolving
	Locked        bool
	Route         RouteClass
}

// allow and redirect build the two decision shapes.
func allow() Decision                    { return Decision{Action: Allow} }
func redirect(t RedirectTarget) Decision { return Decision{Action: Redirect, Target: t} }

// public reports whether a route is reachable without authentication.
func public(r RouteClass) bool {
	return r == RouteRoot || r == RouteLogin || r == RouteSignup || r == RouteAuthCallback
}

// Evaluate resolves the reachable screen for one snapshot.
//
// Branch order:
//  1. Unauthenticated users may only reach public routes; everything
//     else redirects to login.  Lockout never overrides this branch.
//  2. While the profile is unresolved the gate stays neutral and
//     allows, so a user mid-login is never bounced back into login.
//  3. A future lockout horizon redirects every route except the
//     locked screen and the appeal/status screen to the locked screen.
//  4. Users who have not completed onboarding may only reach
//     onboarding routes; everything else redirects to onboarding.
//  5. Onboarded users are pushed home from entry routes (root, login,
//     signup, onboarding) and allowed everywhere else.
func Evaluate(s Snapshot) Decision {
	if !s.Authenticated {
		if public(s.Route) {
			return allow()
		}
		return redirect(TargetLogin)
	}
	if s.Profile == nil {
		// Profile resolution in flight: no redirect decision yet.
		return allow()
	}
	if s.Locked && s.Route != RouteLocked && s.Route != RouteAppeal {
		return redirect(TargetLockedScreen)
	}
	if !s.Profile.OnboardingCompleted {
		if s.Route == RouteOnboarding {
			return allow()
		}
		return redirect(TargetOnboardingEntry)
	}
	switch s.Route {
	case RouteOnboarding, RouteLogin, RouteSignup, RouteRoot:
		return redirect(TargetHome)
	}
	return allow()
}

// ParseRoute maps a route-class name from the wire to its RouteClass.
// Unknown names classify as RouteApp, the generic protected route,
// which is the conservative choice: it is the class with the fewest
// allowances.
func ParseRoute(name string) RouteClass {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "root", "":
		return RouteRoot
	case "login":
		return RouteLogin
	case "signup":
		return RouteSignup
	case "auth-callback", "callback":
		return RouteAuthCallback
	case "onboarding":
		return RouteOnboarding
	case "locked", "locked-screen":
		return RouteLocked
	case "appeal", "status":
		return RouteAppeal
	default:
		return RouteApp
	}
}
