package users

import (
	"context"
	"testing"
	"time"

	"github.com/budgetup/budgetup/internal/logging"
	"github.com/budgetup/budgetup/internal/mockapi/auth"
	"github.com/budgetup/budgetup/internal/mockapi/config"
	"github.com/budgetup/budgetup/internal/mockapi/domain"
	"github.com/budgetup/budgetup/internal/mockapi/google"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return NewService(NewMemoryRepository(), google.DevVerifier{}, cfg, logging.Nop())
}

// pendingCodeFor reads the code that was "emailed".
func (s *Service) pendingCodeFor(t *testing.T, purpose Purpose, email string) string {
	t.Helper()
	s.codes.mu.Lock()
	defer s.codes.mu.Unlock()
	p, ok := s.codes.pending[codeKey{purpose, normalizeEmail(email)}]
	require.True(t, ok, "no %s code for %s", purpose, email)
	return p.code
}

func assertDomainError(t *testing.T, err error, kind error, msg string) {
	t.Helper()
	require.ErrorIs(t, err, kind)
	assert.EqualError(t, err, msg)
}

func TestService_PasswordSignupThenLogin(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	sess, err := s.PasswordSignup(ctx, "Ann", "ann@example.com", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, sess.Token)
	assert.Equal(t, ProviderLocal, sess.User.Provider)

	userID, err := auth.GetUserIDFromToken(sess.Token, s.jwtSecret)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, userID)

	sess, err = s.PasswordLogin(ctx, "ANN@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", sess.User.Name)

	_, err = s.PasswordLogin(ctx, "ann@example.com", "wrong")
	assertDomainError(t, err, domain.ErrUnauthorized, MsgInvalidCredentials)

	_, err = s.PasswordLogin(ctx, "nobody@example.com", "secret1")
	assertDomainError(t, err, domain.ErrUnauthorized, MsgInvalidCredentials)

	_, err = s.PasswordSignup(ctx, "Ann", "ann@example.com", "secret2")
	assertDomainError(t, err, domain.ErrConflict, MsgEmailRegistered)
}

func TestService_GoogleLoginCreatesOnce(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	first, err := s.GoogleLogin(ctx, "dev:g@example.com")
	require.NoError(t, err)
	assert.Equal(t, ProviderGoogle, first.User.Provider)
	assert.Equal(t, google.DevName, first.User.Name)
	assert.False(t, first.User.HasPassword())

	second, err := s.GoogleLogin(ctx, "dev:g@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)

	_, err = s.GoogleLogin(ctx, "")
	assertDomainError(t, err, domain.ErrUnauthorized, MsgInvalidGoogleToken)
}

func TestService_EmailSignupFlow(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	require.NoError(t, s.SendSignupCode(ctx, "new@example.com", ""))
	code := s.pendingCodeFor(t, PurposeSignup, "new@example.com")

	_, err := s.VerifySignupCode(ctx, "new@example.com", "bad")
	assertDomainError(t, err, domain.ErrBadRequest, MsgInvalidCode)

	res, err := s.VerifySignupCode(ctx, "new@example.com", code)
	require.NoError(t, err)
	assert.True(t, res.RequiresPasswordSetup)
	assert.Nil(t, res.Session)

	u, err := s.repo.GetByEmail(ctx, "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, "new", u.Name, "display name defaults to the local part")
	assert.Equal(t, ProviderEmail, u.Provider)

	require.NoError(t, s.SetPassword(ctx, "new@example.com", "Str0ng!pw"))
	err = s.SetPassword(ctx, "new@example.com", "Other1!pw")
	assertDomainError(t, err, domain.ErrUnauthorized, MsgSetupNotAllowed)

	sess, err := s.PasswordLogin(ctx, "new@example.com", "Str0ng!pw")
	require.NoError(t, err)
	assert.Equal(t, u.ID, sess.User.ID)

	err = s.SendSignupCode(ctx, "new@example.com", "x")
	assertDomainError(t, err, domain.ErrConflict, MsgEmailRegistered)
}

func TestService_EmailLoginFlow(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	err := s.SendLoginCode(ctx, "ghost@example.com")
	assertDomainError(t, err, domain.ErrNotFound, MsgNoAccount)

	_, err = s.PasswordSignup(ctx, "Pat", "pat@example.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, s.SendLoginCode(ctx, "pat@example.com"))
	res, err := s.VerifyLoginCode(ctx, "pat@example.com", s.pendingCodeFor(t, PurposeLogin, "pat@example.com"))
	require.NoError(t, err)
	assert.False(t, res.RequiresPasswordSetup)
	require.NotNil(t, res.Session)
	assert.NotEmpty(t, res.Session.Token)
}

func TestService_EmailLoginWithoutPasswordAsksForSetup(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	_, err := s.GoogleLogin(ctx, "dev:g@example.com")
	require.NoError(t, err)

	require.NoError(t, s.SendLoginCode(ctx, "g@example.com"))
	res, err := s.VerifyLoginCode(ctx, "g@example.com", s.pendingCodeFor(t, PurposeLogin, "g@example.com"))
	require.NoError(t, err)
	assert.True(t, res.RequiresPasswordSetup)

	require.NoError(t, s.SetPassword(ctx, "g@example.com", "Str0ng!pw"))
	_, err = s.PasswordLogin(ctx, "g@example.com", "Str0ng!pw")
	require.NoError(t, err)
}

func TestService_AuthenticateAndOnboarding(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	sess, err := s.PasswordSignup(ctx, "Ann", "ann@example.com", "secret1")
	require.NoError(t, err)

	u, err := s.Authenticate(ctx, sess.Token)
	require.NoError(t, err)
	assert.False(t, u.IsOnboarded)

	_, err = s.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	expired, err := auth.GenerateToken(u.ID, s.jwtSecret, -time.Second)
	require.NoError(t, err)
	_, err = s.Authenticate(ctx, expired)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	orphan, err := auth.GenerateToken("gone", s.jwtSecret, time.Hour)
	require.NoError(t, err)
	_, err = s.Authenticate(ctx, orphan)
	assertDomainError(t, err, domain.ErrUnauthorized, MsgUserNotFound)

	done, err := s.CompleteOnboarding(ctx, u.ID, Profile{FullName: "Ann Lee", Currency: "EUR", FinancialGoals: []string{"save"}})
	require.NoError(t, err)
	assert.True(t, done.IsOnboarded)
	assert.Equal(t, "Ann Lee", done.Name)

	got, err := s.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.IsOnboarded)
	assert.Equal(t, "EUR", got.Profile.Currency)

	_, err = s.CompleteOnboarding(ctx, "gone", Profile{})
	assertDomainError(t, err, domain.ErrNotFound, MsgUserNotFound)
}
