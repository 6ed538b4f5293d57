package transport

import (
	"context"
	"net/http"

	"github.com/budgetup/budgetup/internal/logging"
	"github.com/budgetup/budgetup/internal/mockapi/users"
	"github.com/budgetup/budgetup/internal/mockapi/validate"
)

// UserService is what the handlers need from the account layer.
type UserService interface {
	Authenticator
	PasswordLogin(ctx context.Context, email, password string) (*users.Session, error)
	PasswordSignup(ctx context.Context, name, email, password string) (*users.Session, error)
	GoogleLogin(ctx context.Context, idToken string) (*users.Session, error)
	SendLoginCode(ctx context.Context, email string) error
	SendSignupCode(ctx context.Context, email, displayName string) error
	VerifyLoginCode(ctx context.Context, email, code string) (*users.VerifyResult, error)
	VerifySignupCode(ctx context.Context, email, code string) (*users.VerifyResult, error)
	SetPassword(ctx context.Context, email, password string) error
	CompleteOnboarding(ctx context.Context, userID string, p users.Profile) (*users.User, error)
}

var _ UserService = (*users.Service)(nil)

// Field-level messages for rejected request bodies.
var (
	loginMessages = map[string]string{
		"Email":    "Please enter a valid email",
		"Password": "Please enter your password",
	}
	signupMessages = map[string]string{
		"Name":     "Please enter your name",
		"Email":    "Please enter a valid email",
		"Password": "Password must be at least 6 characters",
	}
	codeMessages = map[string]string{
		"Email": "Please enter a valid email",
		"Code":  "Please enter the verification code",
	}
	setPasswordMessages = map[string]string{
		"Email":    "Please enter a valid email",
		"Password": "Password must be at least 8 characters",
	}
)

type Handler struct {
	svc    UserService
	logger logging.Logger
}

func NewHandler(svc UserService, logger logging.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// bind decodes and validates the body into v. On failure it writes a 400
// naming the first bad field and returns false.
func (h *Handler) bind(w http.ResponseWriter, r *http.Request, v any, messages map[string]string) bool {
	if err := decode(w, r, v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := validate.Struct(v); err != nil {
		h.logger.Debug(r.Context(), "request rejected", "path", r.URL.Path, "error", err)
		msg := err.Error()
		if fields := validate.Fields(v); len(fields) > 0 {
			if m, ok := messages[fields[0]]; ok {
				msg = m
			}
		}
		writeError(w, http.StatusBadRequest, msg)
		return false
	}
	return true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Debug(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	writeDomainError(w, err)
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "ok"})
}

func (h *Handler) PasswordLogin(w http.ResponseWriter, r *http.Request) {
	var req passwordLoginRequest
	if !h.bind(w, r, &req, loginMessages) {
		return
	}
	sess, err := h.svc.PasswordLogin(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authEnvelope("Login successful!", sess))
}

func (h *Handler) PasswordSignup(w http.ResponseWriter, r *http.Request) {
	var req passwordSignupRequest
	if !h.bind(w, r, &req, signupMessages) {
		return
	}
	sess, err := h.svc.PasswordSignup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authEnvelope("User registered successfully!", sess))
}

func (h *Handler) Google(w http.ResponseWriter, r *http.Request) {
	var req googleRequest
	if err := decode(w, r, &req); err != nil || req.IDToken == "" {
		writeError(w, http.StatusBadRequest, "ID token is required")
		return
	}
	sess, err := h.svc.GoogleLogin(r.Context(), req.IDToken)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authEnvelope("Google auth successful!", sess))
}

func (h *Handler) SendLoginCode(w http.ResponseWriter, r *http.Request) {
	var req sendCodeRequest
	if !h.bind(w, r, &req, codeMessages) {
		return
	}
	if err := h.svc.SendLoginCode(r.Context(), req.Email); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Verification code sent"})
}

func (h *Handler) SendSignupCode(w http.ResponseWriter, r *http.Request) {
	var req sendCodeRequest
	if !h.bind(w, r, &req, codeMessages) {
		return
	}
	if err := h.svc.SendSignupCode(r.Context(), req.Email, req.DisplayName); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Verification code sent"})
}

func (h *Handler) VerifyLoginCode(w http.ResponseWriter, r *http.Request) {
	h.verify(w, r, h.svc.VerifyLoginCode)
}

func (h *Handler) VerifySignupCode(w http.ResponseWriter, r *http.Request) {
	h.verify(w, r, h.svc.VerifySignupCode)
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request, fn func(context.Context, string, string) (*users.VerifyResult, error)) {
	var req verifyCodeRequest
	if !h.bind(w, r, &req, codeMessages) {
		return
	}
	res, err := fn(r.Context(), req.Email, req.Code)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if res.RequiresPasswordSetup {
		writeJSON(w, http.StatusOK, AuthEnvelope{RequiresPasswordSetup: true})
		return
	}
	writeJSON(w, http.StatusOK, authEnvelope("Login successful!", res.Session))
}

func (h *Handler) SetPassword(w http.ResponseWriter, r *http.Request) {
	var req setPasswordRequest
	if !h.bind(w, r, &req, setPasswordMessages) {
		return
	}
	if err := h.svc.SetPassword(r.Context(), req.Email, req.Password); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Password set successfully!"})
}

func (h *Handler) OnboardingStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, OnboardingStatusEnvelope{
		NeedsOnboarding: !user.IsOnboarded,
		IsOnboarded:     user.IsOnboarded,
	})
}

func (h *Handler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req onboardingRequest
	if !h.bind(w, r, &req, nil) {
		return
	}
	updated, err := h.svc.CompleteOnboarding(r.Context(), user.ID, users.Profile{
		FullName:        req.FullName,
		Country:         req.Country,
		Flag:            req.Flag,
		Currency:        req.Currency,
		Occupation:      req.Occupation,
		MonthlyIncome:   req.MonthlyIncome,
		PocketMoney:     req.PocketMoney,
		IncomeFrequency: req.IncomeFrequency,
		FinancialGoals:  req.FinancialGoals,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, OnboardingEnvelope{Message: "Onboarding completed successfully!", User: toUserDTO(updated)})
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}
