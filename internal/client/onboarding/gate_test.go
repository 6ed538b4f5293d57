package onboarding

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/budgetup/budgetup/internal/client/client"
	"github.com/budgetup/budgetup/internal/client/client/clienttest"
	"github.com/budgetup/budgetup/internal/client/models"
	"github.com/budgetup/budgetup/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	cases := []struct {
		name    string
		res     *models.OnboardingStatus
		err     error
		want    Status
		wantErr bool
	}{
		{"needs onboarding", &models.OnboardingStatus{NeedsOnboarding: true}, nil, StatusOnboarding, false},
		{"onboarded", &models.OnboardingStatus{NeedsOnboarding: false, IsOnboarded: true}, nil, StatusDashboard, false},
		{"network failure", nil, client.ErrUnavailable, StatusOnboarding, true},
		{"server error", nil, &client.APIError{Status: 500}, StatusOnboarding, true},
		{"unauthorized", nil, &client.APIError{Status: 401}, StatusOnboarding, true},
		{"empty body", nil, nil, StatusOnboarding, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fc := &clienttest.Fake{OnboardingStatusRes: tc.res, OnboardingStatusErr: tc.err}
			g := NewGate(fc, logging.Nop())

			got := g.Check(context.Background(), "tok1")
			assert.Equal(t, tc.want, got.Status)
			assert.Equal(t, tc.wantErr, got.Err != nil)
			assert.Equal(t, "tok1", fc.LastToken)
			assert.Equal(t, 1, fc.CallCount("OnboardingStatus"))
		})
	}
}

func TestCheck_FailureIsLoggedAtWarn(t *testing.T) {
	var buf bytes.Buffer
	fc := &clienttest.Fake{OnboardingStatusErr: client.ErrUnavailable}
	g := NewGate(fc, logging.NewText(&buf, slog.LevelWarn))

	g.Check(context.Background(), "tok1")
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "assuming onboarding")
}

func TestComplete(t *testing.T) {
	fc := &clienttest.Fake{}
	g := NewGate(fc, logging.Nop())
	profile := models.OnboardingProfile{FullName: "Ann", Currency: "USD", FinancialGoals: []string{"save"}}

	require.NoError(t, g.Complete(context.Background(), "tok1", profile))
	assert.Equal(t, "tok1", fc.LastToken)
	assert.Equal(t, profile, fc.LastProfile)

	fc.CompleteOnboardingErr = errors.New("boom")
	err := g.Complete(context.Background(), "tok1", profile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "complete onboarding")
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "checking", StatusChecking.String())
	assert.Equal(t, "onboarding", StatusOnboarding.String())
	assert.Equal(t, "dashboard", StatusDashboard.String())
	assert.Equal(t, "Status(7)", Status(7).String())
}
