// Package onboarding decides whether a freshly authenticated user still has
// to complete onboarding.
package onboarding

import (
	"context"
	"fmt"

	"github.com/budgetup/budgetup/internal/client/client"
	"github.com/budgetup/budgetup/internal/client/models"
	"github.com/budgetup/budgetup/internal/logging"
)

// Status is the gate's answer.
type Status int

const (
	StatusChecking Status = iota
	StatusOnboarding
	StatusDashboard
)

func (s Status) String() string {
	switch s {
	case StatusChecking:
		return "checking"
	case StatusOnboarding:
		return "onboarding"
	case StatusDashboard:
		return "dashboard"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result is the outcome of one check. Err is set when the check failed
// open; Status is StatusOnboarding in that case.
type Result struct {
	Status Status
	Err    error
}

type Gate struct {
	client client.Client
	logger logging.Logger
}

func NewGate(c client.Client, logger logging.Logger) *Gate {
	return &Gate{client: c, logger: logger.With("component", "onboarding")}
}

// Check asks the server whether the user behind token needs onboarding.
// Any failure routes to onboarding.
func (g *Gate) Check(ctx context.Context, token string) Result {
	st, err := g.client.OnboardingStatus(ctx, token)
	if err != nil {
		g.logger.Warn(ctx, "onboarding status check failed, assuming onboarding", "error", err)
		return Result{Status: StatusOnboarding, Err: err}
	}
	if st == nil {
		g.logger.Warn(ctx, "onboarding status missing, assuming onboarding")
		return Result{Status: StatusOnboarding, Err: client.ErrInvalidResponse}
	}
	if st.NeedsOnboarding {
		return Result{Status: StatusOnboarding}
	}
	return Result{Status: StatusDashboard}
}

// Complete submits the onboarding profile. Callers move on to the dashboard
// whatever the outcome; the error is for reporting only.
func (g *Gate) Complete(ctx context.Context, token string, profile models.OnboardingProfile) error {
	if err := g.client.CompleteOnboarding(ctx, token, profile); err != nil {
		g.logger.Warn(ctx, "onboarding completion failed", "error", err)
		return fmt.Errorf("complete onboarding: %w", err)
	}
	g.logger.Info(ctx, "onboarding completed")
	return nil
}
