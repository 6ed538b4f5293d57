// Package google verifies Google Sign-In ID tokens.
package google

import (
	"context"
	"fmt"
	"strings"

	"github.com/budgetup/budgetup/internal/mockapi/domain"
	"google.golang.org/api/idtoken"
)

// Payload holds the verified claims extracted from a Google ID token.
type Payload struct {
	Sub           string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// Verifier turns an ID token into a verified identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Payload, error)
}

// IDTokenVerifier verifies tokens against Google's keys for one client id.
type IDTokenVerifier struct {
	clientID string
}

func NewIDTokenVerifier(clientID string) *IDTokenVerifier {
	return &IDTokenVerifier{clientID: clientID}
}

// Verify validates the token signature, expiry and audience.
// Failures wrap domain.ErrUnauthorized.
func (v *IDTokenVerifier) Verify(ctx context.Context, token string) (*Payload, error) {
	p, err := idtoken.Validate(ctx, token, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("invalid google token: %w", domain.ErrUnauthorized)
	}
	return payloadFromClaims(p.Subject, p.Claims)
}

func payloadFromClaims(sub string, claims map[string]any) (*Payload, error) {
	email, _ := claims["email"].(string)
	if email == "" {
		return nil, fmt.Errorf("google token has no email: %w", domain.ErrUnauthorized)
	}
	verified, _ := claims["email_verified"].(bool)
	name, _ := claims["name"].(string)
	picture, _ := claims["picture"].(string)
	return &Payload{
		Sub:           sub,
		Email:         email,
		EmailVerified: verified,
		Name:          name,
		Picture:       picture,
	}, nil
}

// DevVerifier accepts any non-empty token without contacting Google. A token
// of the form "dev:<email>" signs in as that address; anything else maps to
// the fixed development account.
type DevVerifier struct{}

const (
	DevEmail   = "google@example.com"
	DevName    = "Google User"
	DevPicture = "https://via.placeholder.com/150"
)

func (DevVerifier) Verify(_ context.Context, token string) (*Payload, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("empty google token: %w", domain.ErrUnauthorized)
	}
	email := DevEmail
	if rest, ok := strings.CutPrefix(token, "dev:"); ok && strings.Contains(rest, "@") {
		email = rest
	}
	return payloadFromClaims("dev-"+email, map[string]any{
		"email":          email,
		"email_verified": true,
		"name":           DevName,
		"picture":        DevPicture,
	})
}

// NewVerifier returns the idtoken verifier for a configured client id, or the
// development verifier when none is set.
func NewVerifier(clientID string) Verifier {
	if clientID == "" {
		return DevVerifier{}
	}
	return NewIDTokenVerifier(clientID)
}
