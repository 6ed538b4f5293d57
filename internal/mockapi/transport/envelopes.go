package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/budgetup/budgetup/internal/mockapi/domain"
	"github.com/budgetup/budgetup/internal/mockapi/users"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// MessageEnvelope is the body of plain acknowledgements and of every error.
type MessageEnvelope struct {
	Message string `json:"message"`
}

// UserDTO is the user record as the client stores it.
type UserDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name,omitempty"`
	Email          string `json:"email"`
	Picture        string `json:"picture,omitempty"`
	AuthProvider   string `json:"authProvider"`
	HasSetPassword bool   `json:"hasSetPassword"`
	IsOnboarded    bool   `json:"isOnboarded"`
}

// AuthEnvelope answers every credential exchange. Verify-code endpoints may
// answer with only RequiresPasswordSetup.
type AuthEnvelope struct {
	Message               string   `json:"message,omitempty"`
	Token                 string   `json:"token,omitempty"`
	User                  *UserDTO `json:"user,omitempty"`
	RequiresPasswordSetup bool     `json:"requiresPasswordSetup,omitempty"`
}

type OnboardingStatusEnvelope struct {
	NeedsOnboarding bool `json:"needsOnboarding"`
	IsOnboarded     bool `json:"isOnboarded"`
}

type OnboardingEnvelope struct {
	Message string   `json:"message"`
	User    *UserDTO `json:"user"`
}

func toUserDTO(u *users.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Picture:        u.Picture,
		AuthProvider:   string(u.Provider),
		HasSetPassword: u.HasPassword(),
		IsOnboarded:    u.IsOnboarded,
	}
}

func authEnvelope(msg string, s *users.Session) AuthEnvelope {
	return AuthEnvelope{Message: msg, Token: s.Token, User: toUserDTO(s.User)}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Message: msg})
}

// writeDomainError maps service errors to a status. Domain errors keep their
// message; anything else is an opaque 500.
func writeDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	}

	var de *domain.Error
	if errors.As(err, &de) {
		writeError(w, status, de.Message)
		return
	}
	writeError(w, status, http.StatusText(status))
}

// decode reads a JSON body into v.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}
