package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/budgetup/budgetup/internal/common"
	"github.com/budgetup/budgetup/internal/logging"
	"github.com/budgetup/budgetup/internal/mockapi/auth"
	"github.com/budgetup/budgetup/internal/mockapi/config"
	"github.com/budgetup/budgetup/internal/mockapi/domain"
	"github.com/budgetup/budgetup/internal/mockapi/google"
	"golang.org/x/crypto/bcrypt"
)

// Messages returned to API callers.
const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgEmailRegistered    = "Email is already registered!"
	MsgNoAccount          = "No account found with this email"
	MsgInvalidCode        = "Invalid or expired verification code"
	MsgInvalidGoogleToken = "Invalid Google token"
	MsgUserNotFound       = "User not found"
	MsgSetupNotAllowed    = "Verify your email before setting a password"
)

// Session is a freshly issued bearer token and its owner.
type Session struct {
	Token string
	User  *User
}

// VerifyResult is the outcome of a verified email code: either a session, or
// a request to choose a password first.
type VerifyResult struct {
	Session               *Session
	RequiresPasswordSetup bool
}

type Service struct {
	repo          Repository
	codes         *CodeStore
	verifier      google.Verifier
	jwtSecret     []byte
	tokenValidity time.Duration
	logger        logging.Logger
}

func NewService(repo Repository, verifier google.Verifier, cfg *config.Config, logger logging.Logger) *Service {
	return &Service{
		repo:          repo,
		codes:         NewCodeStore(cfg.CodeValidityDuration),
		verifier:      verifier,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
		logger:        logger.With("component", "users"),
	}
}

func (s *Service) issue(user *User) (*Session, error) {
	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user}, nil
}

// PasswordLogin checks email and password. Unknown accounts, accounts
// without a password and wrong passwords fail the same way.
func (s *Service) PasswordLogin(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Errorf(domain.ErrUnauthorized, MsgInvalidCredentials)
		}
		return nil, err
	}
	if !user.HasPassword() || bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, domain.Errorf(domain.ErrUnauthorized, MsgInvalidCredentials)
	}
	return s.issue(user)
}

// PasswordSignup creates a local account and signs it in.
func (s *Service) PasswordSignup(ctx context.Context, name, email, password string) (*Session, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user, err := s.repo.Create(ctx, &User{
		Name:         name,
		Email:        email,
		Provider:     ProviderLocal,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.Errorf(domain.ErrConflict, MsgEmailRegistered)
		}
		return nil, err
	}
	s.logger.Info(ctx, "user registered", "user_id", user.ID, "provider", user.Provider)
	return s.issue(user)
}

// GoogleLogin verifies idToken and signs in the matching account, creating
// it on first use.
func (s *Service) GoogleLogin(ctx context.Context, idToken string) (*Session, error) {
	p, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		s.logger.Warn(ctx, "google token rejected", "error", err)
		return nil, domain.Errorf(domain.ErrUnauthorized, MsgInvalidGoogleToken)
	}

	user, err := s.repo.GetByEmail(ctx, p.Email)
	switch {
	case err == nil:
		if p.Picture != "" && p.Picture != user.Picture {
			user.Picture = p.Picture
			if err := s.repo.Update(ctx, user); err != nil {
				return nil, err
			}
		}
	case errors.Is(err, domain.ErrNotFound):
		user, err = s.repo.Create(ctx, &User{
			Name:     p.Name,
			Email:    p.Email,
			Picture:  p.Picture,
			Provider: ProviderGoogle,
			Profile:  Profile{FullName: p.Name},
		})
		if err != nil {
			return nil, err
		}
		s.logger.Info(ctx, "user registered", "user_id", user.ID, "provider", user.Provider)
	default:
		return nil, err
	}
	return s.issue(user)
}

// SendLoginCode mails a login code to an existing account. Delivery is a
// log line.
func (s *Service) SendLoginCode(ctx context.Context, email string) error {
	if _, err := s.repo.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Errorf(domain.ErrNotFound, MsgNoAccount)
		}
		return err
	}
	return s.sendCode(ctx, PurposeLogin, email, "")
}

// SendSignupCode mails a signup code to an address that has no account yet.
func (s *Service) SendSignupCode(ctx context.Context, email, displayName string) error {
	_, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return domain.Errorf(domain.ErrConflict, MsgEmailRegistered)
	case !errors.Is(err, domain.ErrNotFound):
		return err
	}
	if displayName == "" {
		displayName = common.LocalPart(email)
	}
	return s.sendCode(ctx, PurposeSignup, email, displayName)
}

func (s *Service) sendCode(ctx context.Context, purpose Purpose, email, displayName string) error {
	code, err := s.codes.Issue(purpose, email, displayName)
	if err != nil {
		return err
	}
	s.logger.Info(ctx, "verification code sent", "purpose", purpose, "email", email, "code", code)
	return nil
}

// VerifyLoginCode exchanges a login code for a session. Accounts without a
// password are asked to set one first.
func (s *Service) VerifyLoginCode(ctx context.Context, email, code string) (*VerifyResult, error) {
	if _, ok := s.codes.Consume(PurposeLogin, email, code); !ok {
		return nil, domain.Errorf(domain.ErrBadRequest, MsgInvalidCode)
	}
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Errorf(domain.ErrNotFound, MsgNoAccount)
		}
		return nil, err
	}
	if !user.HasPassword() {
		s.codes.GrantPasswordSetup(email)
		return &VerifyResult{RequiresPasswordSetup: true}, nil
	}
	sess, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	return &VerifyResult{Session: sess}, nil
}

// VerifySignupCode creates the account for a verified address. New accounts
// always choose a password next.
func (s *Service) VerifySignupCode(ctx context.Context, email, code string) (*VerifyResult, error) {
	displayName, ok := s.codes.Consume(PurposeSignup, email, code)
	if !ok {
		return nil, domain.Errorf(domain.ErrBadRequest, MsgInvalidCode)
	}
	user, err := s.repo.Create(ctx, &User{
		Name:     displayName,
		Email:    email,
		Provider: ProviderEmail,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.Errorf(domain.ErrConflict, MsgEmailRegistered)
		}
		return nil, err
	}
	s.logger.Info(ctx, "user registered", "user_id", user.ID, "provider", user.Provider)
	s.codes.GrantPasswordSetup(email)
	return &VerifyResult{RequiresPasswordSetup: true}, nil
}

// SetPassword stores a password for an address that has just verified a
// code without having one.
func (s *Service) SetPassword(ctx context.Context, email, password string) error {
	if !s.codes.TakePasswordSetup(email) {
		return domain.Errorf(domain.ErrUnauthorized, MsgSetupNotAllowed)
	}
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Errorf(domain.ErrNotFound, MsgUserNotFound)
		}
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hash
	return s.repo.Update(ctx, user)
}

// Authenticate resolves a bearer token to its user.
func (s *Service) Authenticate(ctx context.Context, token string) (*User, error) {
	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Errorf(domain.ErrUnauthorized, MsgUserNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) Get(ctx context.Context, userID string) (*User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Errorf(domain.ErrNotFound, MsgUserNotFound)
		}
		return nil, err
	}
	return user, nil
}

// CompleteOnboarding stores the questionnaire and marks the user onboarded.
// A non-empty full name also becomes the display name.
func (s *Service) CompleteOnboarding(ctx context.Context, userID string, p Profile) (*User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Profile = p
	if p.FullName != "" {
		user.Name = p.FullName
	}
	user.IsOnboarded = true
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "onboarding completed", "user_id", user.ID)
	return user, nil
}
