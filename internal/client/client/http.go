package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/budgetup/budgetup/internal/client/models"
	"github.com/budgetup/budgetup/internal/common"
	"github.com/google/uuid"
)

// API paths.
const (
	PathPasswordLogin      = "/auth/password/login"
	PathPasswordSignup     = "/auth/password/signup"
	PathGoogle             = "/auth/google"
	PathSendLoginCode      = "/auth/email/send-login-code"
	PathEmailSignup        = "/auth/email/signup"
	PathVerifyLoginCode    = "/auth/email/verify-login-code"
	PathVerifySignupCode   = "/auth/email/verify-signup-code"
	PathSetPassword        = "/auth/password/set-password"
	PathOnboardingStatus   = "/api/user/onboarding/status"
	PathOnboardingComplete = "/api/user/onboarding"
	PathProfile            = "/api/user/profile"
	PathHealth             = "/health"
)

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
}

// NewHTTPClient returns a client for the API rooted at baseURL. A zero
// timeout leaves requests bounded only by their context.
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api url %q: scheme must be http or https", baseURL)
	}
	return &HTTPClient{baseURL: u, http: &http.Client{Timeout: timeout}}, nil
}

func (c *HTTPClient) PasswordLogin(ctx context.Context, email, password string) (*models.AuthResult, error) {
	var out models.AuthResult
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, PathPasswordLogin, "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) PasswordSignup(ctx context.Context, name, email, password string) (*models.AuthResult, error) {
	var out models.AuthResult
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, PathPasswordSignup, "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GoogleLogin(ctx context.Context, idToken string) (*models.AuthResult, error) {
	var out models.AuthResult
	if err := c.do(ctx, http.MethodPost, PathGoogle, "", map[string]string{"idToken": idToken}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) SendLoginCode(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, PathSendLoginCode, "", map[string]string{"email": email}, nil)
}

func (c *HTTPClient) SendSignupCode(ctx context.Context, email, displayName string) error {
	body := map[string]string{"email": email, "displayName": displayName}
	return c.do(ctx, http.MethodPost, PathEmailSignup, "", body, nil)
}

func (c *HTTPClient) VerifyLoginCode(ctx context.Context, email, code string) (*models.AuthResult, error) {
	return c.verify(ctx, PathVerifyLoginCode, email, code)
}

func (c *HTTPClient) VerifySignupCode(ctx context.Context, email, code string) (*models.AuthResult, error) {
	return c.verify(ctx, PathVerifySignupCode, email, code)
}

func (c *HTTPClient) verify(ctx context.Context, path, email, code string) (*models.AuthResult, error) {
	var out models.AuthResult
	if err := c.do(ctx, http.MethodPost, path, "", map[string]string{"email": email, "code": code}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) SetPassword(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	return c.do(ctx, http.MethodPost, PathSetPassword, "", body, nil)
}

func (c *HTTPClient) OnboardingStatus(ctx context.Context, token string) (*models.OnboardingStatus, error) {
	var out models.OnboardingStatus
	if err := c.do(ctx, http.MethodGet, PathOnboardingStatus, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CompleteOnboarding(ctx context.Context, token string, profile models.OnboardingProfile) error {
	return c.do(ctx, http.MethodPost, PathOnboardingComplete, token, profile, nil)
}

func (c *HTTPClient) Profile(ctx context.Context, token string) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, PathProfile, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, PathHealth, "", nil, nil)
}

// do sends one JSON request. in is encoded as the body when non-nil; out, when
// non-nil, receives the decoded 2xx body.
func (c *HTTPClient) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(common.RequestIDHeader, uuid.NewString())
	if token != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrInvalidResponse, method, path, err)
	}
	return nil
}

// decodeError reads the {"message": ...} or {"error": ...} body the API uses
// for failures.
func decodeError(resp *http.Response) error {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	_ = json.Unmarshal(raw, &body)

	msg := body.Message
	if msg == "" {
		msg = body.Error
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}
