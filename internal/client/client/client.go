package client

import (
	"context"

	"github.com/budgetup/budgetup/internal/client/models"
)

// Client is the remote API as seen by the client services.
type Client interface {
	PasswordLogin(ctx context.Context, email, password string) (*models.AuthResult, error)
	PasswordSignup(ctx context.Context, name, email, password string) (*models.AuthResult, error)
	GoogleLogin(ctx context.Context, idToken string) (*models.AuthResult, error)

	SendLoginCode(ctx context.Context, email string) error
	SendSignupCode(ctx context.Context, email, displayName string) error
	VerifyLoginCode(ctx context.Context, email, code string) (*models.AuthResult, error)
	VerifySignupCode(ctx context.Context, email, code string) (*models.AuthResult, error)
	SetPassword(ctx context.Context, email, password string) error

	OnboardingStatus(ctx context.Context, token string) (*models.OnboardingStatus, error)
	CompleteOnboarding(ctx context.Context, token string, profile models.OnboardingProfile) error
	Profile(ctx context.Context, token string) (*models.User, error)

	Ping(ctx context.Context) error
}
