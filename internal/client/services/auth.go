// Package services contains application services for the BudgetUp client.
// This file defines the credential service: password login and signup,
// Google sign-in, logout and the liveness probe.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/budgetup/budgetup/internal/client/client"
	"github.com/budgetup/budgetup/internal/client/models"
	"github.com/budgetup/budgetup/internal/logging"
)

// Messages shown to the user.
const (
	MsgEnterName          = "Please enter your name"
	MsgEnterEmail         = "Please enter your email"
	MsgInvalidEmail       = "Please enter a valid email"
	MsgEnterYourPassword  = "Please enter your password"
	MsgEnterPassword      = "Please enter a password"
	MsgPasswordTooShort   = "Password must be at least 6 characters"
	MsgPasswordMismatch   = "Passwords do not match"
	MsgLoginFailed        = "Invalid email or password"
	MsgSignupFailed       = "Registration failed. Please try again."
	MsgInvalidResponse    = "Invalid response from server"
	MsgGoogleFailed       = "Google login failed. Please try again."
	MsgGoogleServerFailed = "Authentication failed on the server. Please try again."
)

// MinSignupPasswordLen is counted in characters, not bytes.
const MinSignupPasswordLen = 6

// ErrSignupNeedsLogin is returned when signup succeeded but the server did
// not start a session; the user should log in.
var ErrSignupNeedsLogin = errors.New("account created, please log in")

// FieldError is a local validation failure. No request was sent.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Message }

// AuthError is a failed credential exchange. Message is what the user sees.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// LoginForm is the password login input.
type LoginForm struct {
	Email    string
	Password string
}

// SignupForm is the password signup input.
type SignupForm struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// Session is the part of the session store the credential flow writes to.
type Session interface {
	Login(ctx context.Context, token string, user models.User) error
	Logout(ctx context.Context) error
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - PasswordLogin / PasswordSignup: validate locally, then exchange
//     credentials and start a session.
//   - GoogleLogin: exchange a Google ID token for a session.
//   - Logout: end the session.
//   - Ping: check server liveness.
//
// onSuccess, when non-nil, runs once after the session is stored.
type AuthService interface {
	PasswordLogin(ctx context.Context, form LoginForm, onSuccess func()) error
	PasswordSignup(ctx context.Context, form SignupForm, onSuccess func()) error
	GoogleLogin(ctx context.Context, idToken string, onSuccess func()) error
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
}

// Auth is the AuthService backed by a remote Client and the session store.
type Auth struct {
	client  client.Client
	session Session
	logger  logging.Logger
}

// NewAuthService constructs an AuthService bound to the given API client and session.
func NewAuthService(c client.Client, s Session, logger logging.Logger) *Auth {
	return &Auth{client: c, session: s, logger: logger.With("component", "auth")}
}

// ValidateLogin checks a login form the way the login screen does.
func ValidateLogin(form LoginForm) *FieldError {
	if fe := validateEmail(form.Email); fe != nil {
		return fe
	}
	if form.Password == "" {
		return &FieldError{Field: "password", Message: MsgEnterYourPassword}
	}
	return nil
}

// ValidateSignup checks a signup form the way the signup screen does.
func ValidateSignup(form SignupForm) *FieldError {
	if strings.TrimSpace(form.Name) == "" {
		return &FieldError{Field: "name", Message: MsgEnterName}
	}
	if fe := validateEmail(form.Email); fe != nil {
		return fe
	}
	switch {
	case form.Password == "":
		return &FieldError{Field: "password", Message: MsgEnterPassword}
	case utf8.RuneCountInString(form.Password) < MinSignupPasswordLen:
		return &FieldError{Field: "password", Message: MsgPasswordTooShort}
	case form.Password != form.ConfirmPassword:
		return &FieldError{Field: "confirmPassword", Message: MsgPasswordMismatch}
	}
	return nil
}

func validateEmail(email string) *FieldError {
	email = strings.TrimSpace(email)
	if email == "" {
		return &FieldError{Field: "email", Message: MsgEnterEmail}
	}
	if !strings.Contains(email, "@") {
		return &FieldError{Field: "email", Message: MsgInvalidEmail}
	}
	return nil
}

// PasswordLogin validates the form, exchanges the credentials and stores
// the session.
func (a *Auth) PasswordLogin(ctx context.Context, form LoginForm, onSuccess func()) error {
	if fe := ValidateLogin(form); fe != nil {
		return fe
	}

	res, err := a.client.PasswordLogin(ctx, strings.TrimSpace(form.Email), form.Password)
	if err != nil {
		a.logger.Warn(ctx, "password login failed", "error", err)
		return &AuthError{Message: client.UserMessage(err, MsgLoginFailed), Err: err}
	}
	if !res.Complete() {
		return &AuthError{Message: MsgInvalidResponse, Err: client.ErrInvalidResponse}
	}
	return a.startSession(ctx, res, onSuccess)
}

// PasswordSignup validates the form and registers the account. When the
// server answers without a session, ErrSignupNeedsLogin is returned.
func (a *Auth) PasswordSignup(ctx context.Context, form SignupForm, onSuccess func()) error {
	if fe := ValidateSignup(form); fe != nil {
		return fe
	}

	res, err := a.client.PasswordSignup(ctx,
		strings.TrimSpace(form.Name), strings.TrimSpace(form.Email), form.Password)
	if err != nil {
		a.logger.Warn(ctx, "password signup failed", "error", err)
		return &AuthError{Message: client.UserMessage(err, MsgSignupFailed), Err: err}
	}
	if !res.Complete() {
		a.logger.Info(ctx, "signup returned no session")
		return ErrSignupNeedsLogin
	}
	return a.startSession(ctx, res, onSuccess)
}

// GoogleLogin exchanges an ID token issued by Google for a session.
func (a *Auth) GoogleLogin(ctx context.Context, idToken string, onSuccess func()) error {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return &FieldError{Field: "idToken", Message: MsgGoogleFailed}
	}

	res, err := a.client.GoogleLogin(ctx, idToken)
	if err != nil {
		a.logger.Warn(ctx, "google login failed", "error", err)
		return &AuthError{Message: MsgGoogleServerFailed, Err: err}
	}
	if !res.Complete() {
		return &AuthError{Message: MsgInvalidResponse, Err: client.ErrInvalidResponse}
	}
	return a.startSession(ctx, res, onSuccess)
}

func (a *Auth) startSession(ctx context.Context, res *models.AuthResult, onSuccess func()) error {
	if err := a.session.Login(ctx, res.Token, *res.User); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	a.logger.Debug(ctx, "credential exchange complete", "user_id", res.User.ID)
	if onSuccess != nil {
		onSuccess()
	}
	return nil
}

// Logout ends the current session.
func (a *Auth) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Ping proxies a liveness check to the underlying client.
func (a *Auth) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}
