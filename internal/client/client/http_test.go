package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/budgetup/budgetup/internal/client/models"
	"github.com/budgetup/budgetup/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*************
 * Fake API
 *************/

type captured struct {
	Method    string
	Path      string
	Auth      string
	RequestID string
	Body      map[string]any
}

type fakeAPI struct {
	mu     sync.Mutex
	last   captured
	calls  int
	status int
	reply  any
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	f.last = captured{
		Method:    r.Method,
		Path:      r.URL.Path,
		Auth:      r.Header.Get(common.AuthorizationHeader),
		RequestID: r.Header.Get(common.RequestIDHeader),
	}
	if r.Body != nil {
		var body map[string]any
		if json.NewDecoder(r.Body).Decode(&body) == nil {
			f.last.Body = body
		}
	}

	status := f.status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	switch v := f.reply.(type) {
	case nil:
	case string:
		_, _ = w.Write([]byte(v))
	default:
		_ = json.NewEncoder(w).Encode(v)
	}
}

func newTestClient(t *testing.T, api *fakeAPI) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	c, err := NewHTTPClient(srv.URL+"/", time.Second)
	require.NoError(t, err)
	return c
}

/*************
 * Construction
 *************/

func TestNewHTTPClient_RejectsBadURL(t *testing.T) {
	_, err := NewHTTPClient("ftp://example.com", time.Second)
	require.Error(t, err)

	_, err = NewHTTPClient("://nope", time.Second)
	require.Error(t, err)
}

/*************
 * Credential endpoints
 *************/

func TestPasswordLogin_Success(t *testing.T) {
	api := &fakeAPI{reply: map[string]any{
		"token": "tok1",
		"user":  map[string]any{"id": "u1", "email": "a@b.com", "name": "A"},
	}}
	c := newTestClient(t, api)

	res, err := c.PasswordLogin(context.Background(), "a@b.com", "secret1")
	require.NoError(t, err)
	require.True(t, res.Complete())
	assert.Equal(t, "tok1", res.Token)
	assert.Equal(t, "u1", res.User.ID)

	assert.Equal(t, http.MethodPost, api.last.Method)
	assert.Equal(t, PathPasswordLogin, api.last.Path)
	assert.Equal(t, "a@b.com", api.last.Body["email"])
	assert.Equal(t, "secret1", api.last.Body["password"])
	assert.NotEmpty(t, api.last.RequestID)
	assert.Empty(t, api.last.Auth)
}

func TestPasswordSignup_SendsName(t *testing.T) {
	api := &fakeAPI{status: http.StatusCreated, reply: map[string]any{"message": "created"}}
	c := newTestClient(t, api)

	res, err := c.PasswordSignup(context.Background(), "Ann", "a@b.com", "secret1")
	require.NoError(t, err)
	assert.False(t, res.Complete())
	assert.Equal(t, "created", res.Message)
	assert.Equal(t, PathPasswordSignup, api.last.Path)
	assert.Equal(t, "Ann", api.last.Body["name"])
}

func TestGoogleLogin_SendsIDToken(t *testing.T) {
	api := &fakeAPI{reply: map[string]any{"token": "g", "user": map[string]any{"id": "u2"}}}
	c := newTestClient(t, api)

	res, err := c.GoogleLogin(context.Background(), "id-token")
	require.NoError(t, err)
	assert.Equal(t, "g", res.Token)
	assert.Equal(t, PathGoogle, api.last.Path)
	assert.Equal(t, "id-token", api.last.Body["idToken"])
}

func TestEmailCodeEndpoints(t *testing.T) {
	api := &fakeAPI{}
	c := newTestClient(t, api)
	ctx := context.Background()

	require.NoError(t, c.SendLoginCode(ctx, "a@b.com"))
	assert.Equal(t, PathSendLoginCode, api.last.Path)
	assert.Equal(t, "a@b.com", api.last.Body["email"])

	require.NoError(t, c.SendSignupCode(ctx, "ann@b.com", "ann"))
	assert.Equal(t, PathEmailSignup, api.last.Path)
	assert.Equal(t, "ann", api.last.Body["displayName"])

	require.NoError(t, c.SetPassword(ctx, "a@b.com", "Abcdef1!"))
	assert.Equal(t, PathSetPassword, api.last.Path)
	assert.Equal(t, "Abcdef1!", api.last.Body["password"])
}

func TestVerifyCode_RequiresPasswordSetup(t *testing.T) {
	api := &fakeAPI{reply: map[string]any{"requiresPasswordSetup": true}}
	c := newTestClient(t, api)

	res, err := c.VerifySignupCode(context.Background(), "a@b.com", "123456")
	require.NoError(t, err)
	assert.True(t, res.RequiresPasswordSetup)
	assert.Empty(t, res.Token)
	assert.Equal(t, PathVerifySignupCode, api.last.Path)
	assert.Equal(t, "123456", api.last.Body["code"])

	_, err = c.VerifyLoginCode(context.Background(), "a@b.com", "654321")
	require.NoError(t, err)
	assert.Equal(t, PathVerifyLoginCode, api.last.Path)
}

/*************
 * Onboarding endpoints
 *************/

func TestOnboardingStatus_SendsBearer(t *testing.T) {
	api := &fakeAPI{reply: map[string]any{"needsOnboarding": true}}
	c := newTestClient(t, api)

	st, err := c.OnboardingStatus(context.Background(), "tok1")
	require.NoError(t, err)
	assert.True(t, st.NeedsOnboarding)
	assert.Equal(t, http.MethodGet, api.last.Method)
	assert.Equal(t, PathOnboardingStatus, api.last.Path)
	assert.Equal(t, "Bearer tok1", api.last.Auth)
}

func TestCompleteOnboarding_PostsProfile(t *testing.T) {
	api := &fakeAPI{}
	c := newTestClient(t, api)

	err := c.CompleteOnboarding(context.Background(), "tok1", models.OnboardingProfile{
		FullName: "Ann", Currency: "EUR", MonthlyIncome: 1200,
	})
	require.NoError(t, err)
	assert.Equal(t, PathOnboardingComplete, api.last.Path)
	assert.Equal(t, "Bearer tok1", api.last.Auth)
	assert.Equal(t, "Ann", api.last.Body["fullName"])
	assert.Equal(t, float64(1200), api.last.Body["monthlyIncome"])
}

func TestProfile_DecodesUser(t *testing.T) {
	api := &fakeAPI{reply: map[string]any{
		"id": "u1", "name": "Ann", "email": "a@b.com", "authProvider": "email",
		"hasSetPassword": true, "isOnboarded": true,
	}}
	c := newTestClient(t, api)

	u, err := c.Profile(context.Background(), "tok1")
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, api.last.Method)
	assert.Equal(t, PathProfile, api.last.Path)
	assert.Equal(t, "Bearer tok1", api.last.Auth)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, models.ProviderEmail, u.AuthProvider)
	require.NotNil(t, u.HasSetPassword)
	assert.True(t, *u.HasSetPassword)
}

/*************
 * Error mapping
 *************/

func TestErrors_ServerMessage(t *testing.T) {
	cases := []struct {
		name   string
		status int
		reply  any
		unauth bool
		msg    string
	}{
		{"message field", http.StatusBadRequest, map[string]any{"message": "Email taken"}, false, "Email taken"},
		{"error field", http.StatusUnauthorized, map[string]any{"error": "Invalid credentials"}, true, "Invalid credentials"},
		{"forbidden", http.StatusForbidden, map[string]any{}, true, ""},
		{"html body", http.StatusInternalServerError, "<html>oops</html>", false, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := &fakeAPI{status: tc.status, reply: tc.reply}
			c := newTestClient(t, api)

			_, err := c.PasswordLogin(context.Background(), "a@b.com", "x")
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, tc.msg, apiErr.Message)
			assert.Equal(t, tc.unauth, errors.Is(err, ErrUnauthorized))

			want := tc.msg
			if want == "" {
				want = "fallback"
			}
			assert.Equal(t, want, UserMessage(err, "fallback"))
		})
	}
}

func TestErrors_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewHTTPClient(url, time.Second)
	require.NoError(t, err)

	err = c.Ping(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, "fallback", UserMessage(err, "fallback"))
}

func TestErrors_MalformedSuccessBody(t *testing.T) {
	api := &fakeAPI{reply: "not json"}
	c := newTestClient(t, api)

	_, err := c.GoogleLogin(context.Background(), "x")
	require.ErrorIs(t, err, ErrInvalidResponse)
}

func TestErrors_ContextCanceled(t *testing.T) {
	api := &fakeAPI{}
	c := newTestClient(t, api)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Ping(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestUserMessage_NilAndPlain(t *testing.T) {
	assert.Equal(t, "fb", UserMessage(nil, "fb"))
	assert.Equal(t, "fb", UserMessage(errors.New("boom"), "fb"))
	assert.Equal(t, "fb", UserMessage(&APIError{Status: 500}, "fb"))
}
