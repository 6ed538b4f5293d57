// Package route derives the single view the client shows from the session
// and the onboarding gate, and reconciles requested paths against it.
package route

import (
	"fmt"
	"path"
	"strings"

	"github.com/budgetup/budgetup/internal/client/onboarding"
)

// View is the screen the client shows.
type View int

const (
	ViewChecking View = iota
	ViewLanding
	ViewOnboarding
	ViewDashboard
)

// Canonical paths.
const (
	PathLanding    = "/"
	PathOnboarding = "/onboarding"
	PathDashboard  = "/dashboard"
)

func (v View) String() string {
	switch v {
	case ViewChecking:
		return "checking"
	case ViewLanding:
		return "landing"
	case ViewOnboarding:
		return "onboarding"
	case ViewDashboard:
		return "dashboard"
	default:
		return fmt.Sprintf("View(%d)", int(v))
	}
}

// Path is the canonical path of v. ViewChecking has none.
func (v View) Path() string {
	switch v {
	case ViewLanding:
		return PathLanding
	case ViewOnboarding:
		return PathOnboarding
	case ViewDashboard:
		return PathDashboard
	default:
		return ""
	}
}

// SessionSignal is the part of the session the view depends on.
type SessionSignal struct {
	IsLoggedIn bool
	Loading    bool
}

// Resolve maps the two signals to exactly one view.
func Resolve(s SessionSignal, gate onboarding.Status) View {
	switch {
	case s.Loading:
		return ViewChecking
	case !s.IsLoggedIn:
		return ViewLanding
	case gate == onboarding.StatusOnboarding:
		return ViewOnboarding
	case gate == onboarding.StatusDashboard:
		return ViewDashboard
	default:
		return ViewChecking
	}
}

// Reconcile returns where a request for requested should end up while view
// is current. redirect is false when requested already is that place. While
// checking nothing is rendered and no redirect happens.
func Reconcile(requested string, view View) (target string, redirect bool) {
	canonical := view.Path()
	if canonical == "" {
		return "", false
	}
	return canonical, normalize(requested) != canonical
}

func normalize(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
