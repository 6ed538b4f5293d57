package cli

import (
	"context"
	"errors"

	"github.com/budgetup/budgetup/internal/client/models"
	"github.com/budgetup/budgetup/internal/client/services"
	"github.com/budgetup/budgetup/internal/client/wizard"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for email and password and starts a session.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}

	form := services.LoginForm{Email: email, Password: password}
	err = a.auth.PasswordLogin(ctx, form, func() { a.println("Login successful!") })
	return a.report(err)
}

// Signup prompts for the account details and registers. When the server
// creates the account without a session the user is sent to Login.
func (a *App) Signup(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter your name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	confirm, err := getPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		return err
	}

	form := services.SignupForm{
		Name:            name,
		Email:           email,
		Password:        password,
		ConfirmPassword: confirm,
	}
	err = a.auth.PasswordSignup(ctx, form, func() { a.println("Account created successfully!") })
	if errors.Is(err, services.ErrSignupNeedsLogin) {
		a.println("Account created. Please log in.")
		return a.Login(ctx)
	}
	return a.report(err)
}

// Google exchanges a Google ID token, pasted by the user, for a session.
func (a *App) Google(ctx context.Context) error {
	idToken, err := getSimpleText(a.reader, "Paste Google ID token", a.out)
	if err != nil {
		return err
	}
	err = a.auth.GoogleLogin(ctx, idToken, func() { a.println("Login successful!") })
	return a.report(err)
}

func (a *App) EmailLogin(ctx context.Context) error {
	return a.runWizard(ctx, wizard.FlowLogin)
}

func (a *App) EmailSignup(ctx context.Context) error {
	return a.runWizard(ctx, wizard.FlowSignup)
}

// Logout ends the session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		a.logger.Error(ctx, "logout failed", "error", err)
		return err
	}
	a.println("Logged out.")
	return nil
}

// report prints the user-facing text of a credential error.
func (a *App) report(err error) error {
	if err == nil {
		return nil
	}
	var (
		fe *services.FieldError
		ae *services.AuthError
	)
	switch {
	case errors.As(err, &fe):
		a.println(fe.Message)
	case errors.As(err, &ae):
		a.println(ae.Message)
	default:
		a.println("Error:", err.Error())
	}
	return err
}

// runWizard drives the email verification flow until it finishes or the
// user cancels. Typing "back" returns to the email step; "cancel" quits.
func (a *App) runWizard(ctx context.Context, flow wizard.Flow) error {
	var result *models.AuthResult
	wz := wizard.New(a.client, flow, func(res models.AuthResult) { result = &res }, a.logger)
	defer wz.Dismiss()

	a.println("Type 'back' to go back or 'cancel' to stop.")
	for !wz.Snapshot().Closed {
		var err error
		switch wz.Mode() {
		case wizard.ModeEmail:
			err = a.wizardStep(ctx, wz, "Enter email", wz.SetEmail, wz.SubmitEmail)
		case wizard.ModeVerify:
			prompt := "Enter the verification code sent to " + wz.Snapshot().Email
			err = a.wizardStep(ctx, wz, prompt, wz.SetCode, wz.SubmitCode)
		case wizard.ModePassword:
			err = a.wizardPassword(ctx, wz)
		}

		var se *wizard.StepError
		switch {
		case err == nil:
		case errors.As(err, &se):
			a.println(se.Message)
		case errors.Is(err, errCancelled):
			a.println("Cancelled.")
			return nil
		default:
			return err
		}
	}

	if result == nil {
		return nil
	}
	if err := a.store.Login(ctx, result.Token, *result.User); err != nil {
		a.logger.Error(ctx, "store session", "error", err)
		return err
	}
	a.println("Login successful!")
	return nil
}

var errCancelled = errors.New("cancelled")

func (a *App) wizardStep(ctx context.Context, wz *wizard.Wizard, prompt string, set func(string), submit func(context.Context) error) error {
	in, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	switch in {
	case "cancel":
		return errCancelled
	case "back":
		wz.Back()
		return nil
	}
	set(in)
	return submit(ctx)
}

func (a *App) wizardPassword(ctx context.Context, wz *wizard.Wizard) error {
	a.println("Choose a password with:")
	for _, r := range wz.Snapshot().Requirements.Rules() {
		a.printf("  - %s\n", r.Label)
	}
	pw, err := getPassword(a.reader, "New password ('back' or 'cancel' to leave)", a.out)
	if err != nil {
		return err
	}

	switch pw {
	case "cancel":
		return errCancelled
	case "back":
		wz.Back()
		return nil
	}

	req := wz.SetPassword(pw)
	if !req.AllMet() {
		for _, r := range req.Rules() {
			mark := "x"
			if r.Met {
				mark = "ok"
			}
			a.printf("  [%s] %s\n", mark, r.Label)
		}
	}
	return wz.SubmitPassword(ctx)
}
