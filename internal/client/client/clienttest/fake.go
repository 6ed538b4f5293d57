// Package clienttest provides an in-memory client.Client for tests.
package clienttest

import (
	"context"
	"sync"

	"github.com/budgetup/budgetup/internal/client/client"
	"github.com/budgetup/budgetup/internal/client/models"
)

var _ client.Client = (*Fake)(nil)

// Fake records every call and answers with the preset results.
// Hook, when set, runs before each method returns and may block.
type Fake struct {
	mu    sync.Mutex
	calls []string

	Hook func(method string)

	PasswordLoginRes  *models.AuthResult
	PasswordLoginErr  error
	PasswordSignupRes *models.AuthResult
	PasswordSignupErr error
	GoogleLoginRes    *models.AuthResult
	GoogleLoginErr    error

	SendLoginCodeErr    error
	SendSignupCodeErr   error
	VerifyLoginCodeRes  *models.AuthResult
	VerifyLoginCodeErr  error
	VerifySignupCodeRes *models.AuthResult
	VerifySignupCodeErr error
	SetPasswordErr      error

	OnboardingStatusRes   *models.OnboardingStatus
	OnboardingStatusErr   error
	CompleteOnboardingErr error
	ProfileRes            *models.User
	ProfileErr            error

	PingErr error

	LastName        string
	LastEmail       string
	LastPassword    string
	LastIDToken     string
	LastDisplayName string
	LastCode        string
	LastToken       string
	LastProfile     models.OnboardingProfile
}

func (f *Fake) record(method string) {
	f.mu.Lock()
	f.calls = append(f.calls, method)
	f.mu.Unlock()
}

func (f *Fake) done(method string) {
	if f.Hook != nil {
		f.Hook(method)
	}
}

// Calls returns the method names in call order.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// CallCount returns how many times method was called.
func (f *Fake) CallCount(method string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == method {
			n++
		}
	}
	return n
}

func (f *Fake) PasswordLogin(ctx context.Context, email, password string) (*models.AuthResult, error) {
	f.record("PasswordLogin")
	f.mu.Lock()
	f.LastEmail, f.LastPassword = email, password
	f.mu.Unlock()
	defer f.done("PasswordLogin")
	return f.PasswordLoginRes, f.PasswordLoginErr
}

func (f *Fake) PasswordSignup(ctx context.Context, name, email, password string) (*models.AuthResult, error) {
	f.record("PasswordSignup")
	f.mu.Lock()
	f.LastName, f.LastEmail, f.LastPassword = name, email, password
	f.mu.Unlock()
	defer f.done("PasswordSignup")
	return f.PasswordSignupRes, f.PasswordSignupErr
}

func (f *Fake) GoogleLogin(ctx context.Context, idToken string) (*models.AuthResult, error) {
	f.record("GoogleLogin")
	f.mu.Lock()
	f.LastIDToken = idToken
	f.mu.Unlock()
	defer f.done("GoogleLogin")
	return f.GoogleLoginRes, f.GoogleLoginErr
}

func (f *Fake) SendLoginCode(ctx context.Context, email string) error {
	f.record("SendLoginCode")
	f.mu.Lock()
	f.LastEmail = email
	f.mu.Unlock()
	defer f.done("SendLoginCode")
	return f.SendLoginCodeErr
}

func (f *Fake) SendSignupCode(ctx context.Context, email, displayName string) error {
	f.record("SendSignupCode")
	f.mu.Lock()
	f.LastEmail, f.LastDisplayName = email, displayName
	f.mu.Unlock()
	defer f.done("SendSignupCode")
	return f.SendSignupCodeErr
}

func (f *Fake) VerifyLoginCode(ctx context.Context, email, code string) (*models.AuthResult, error) {
	f.record("VerifyLoginCode")
	f.mu.Lock()
	f.LastEmail, f.LastCode = email, code
	f.mu.Unlock()
	defer f.done("VerifyLoginCode")
	return f.VerifyLoginCodeRes, f.VerifyLoginCodeErr
}

func (f *Fake) VerifySignupCode(ctx context.Context, email, code string) (*models.AuthResult, error) {
	f.record("VerifySignupCode")
	f.mu.Lock()
	f.LastEmail, f.LastCode = email, code
	f.mu.Unlock()
	defer f.done("VerifySignupCode")
	return f.VerifySignupCodeRes, f.VerifySignupCodeErr
}

func (f *Fake) SetPassword(ctx context.Context, email, password string) error {
	f.record("SetPassword")
	f.mu.Lock()
	f.LastEmail, f.LastPassword = email, password
	f.mu.Unlock()
	defer f.done("SetPassword")
	return f.SetPasswordErr
}

func (f *Fake) OnboardingStatus(ctx context.Context, token string) (*models.OnboardingStatus, error) {
	f.record("OnboardingStatus")
	f.mu.Lock()
	f.LastToken = token
	f.mu.Unlock()
	defer f.done("OnboardingStatus")
	return f.OnboardingStatusRes, f.OnboardingStatusErr
}

func (f *Fake) CompleteOnboarding(ctx context.Context, token string, profile models.OnboardingProfile) error {
	f.record("CompleteOnboarding")
	f.mu.Lock()
	f.LastToken, f.LastProfile = token, profile
	f.mu.Unlock()
	defer f.done("CompleteOnboarding")
	return f.CompleteOnboardingErr
}

func (f *Fake) Profile(ctx context.Context, token string) (*models.User, error) {
	f.record("Profile")
	f.mu.Lock()
	f.LastToken = token
	f.mu.Unlock()
	defer f.done("Profile")
	return f.ProfileRes, f.ProfileErr
}

func (f *Fake) Ping(ctx context.Context) error {
	f.record("Ping")
	defer f.done("Ping")
	return f.PingErr
}
