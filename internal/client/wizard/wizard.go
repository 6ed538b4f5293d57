// Package wizard implements the email verification flow: request a code,
// verify it, and set a first password when the account has none.
//
// A Wizard is safe for concurrent use. Every submit runs at most one remote
// call chain at a time; a response that arrives after the wizard moved to
// another step, or was dismissed, is discarded with ErrStale.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/budgetup/budgetup/internal/client/client"
	"github.com/budgetup/budgetup/internal/client/models"
	"github.com/budgetup/budgetup/internal/common"
	"github.com/budgetup/budgetup/internal/logging"
)

// Mode is the step the wizard is on.
type Mode int

const (
	ModeEmail Mode = iota
	ModeVerify
	ModePassword
)

func (m Mode) String() string {
	switch m {
	case ModeEmail:
		return "email"
	case ModeVerify:
		return "verify"
	case ModePassword:
		return "password"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Flow selects the login or signup endpoints.
type Flow int

const (
	FlowLogin Flow = iota
	FlowSignup
)

func (f Flow) String() string {
	if f == FlowSignup {
		return "signup"
	}
	return "login"
}

// Messages shown to the user.
const (
	MsgEnterEmail         = "Please enter your email"
	MsgEnterCode          = "Please enter the verification code"
	MsgEnterPassword      = "Please enter a password"
	MsgMeetRequirements   = "Please meet all password requirements"
	MsgSendCodeFailed     = "Failed to send verification code"
	MsgInvalidCode        = "Invalid verification code"
	MsgSetPasswordFailed  = "Failed to set password"
	MsgLoginAfterPassword = "Login failed after setting password"
	MsgInvalidResponse    = "Invalid response from server"
)

var (
	ErrBusy      = errors.New("a request is already in flight")
	ErrStale     = errors.New("response arrived for a step no longer shown")
	ErrWrongMode = errors.New("action not available in the current step")
	ErrClosed    = errors.New("wizard is closed")
)

// StepError is a failure shown inline on the current step. Err is nil for
// local guard failures.
type StepError struct {
	Message string
	Err     error
}

func (e *StepError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Snapshot is what a host renders.
type Snapshot struct {
	Flow         Flow
	Mode         Mode
	Email        string
	Code         string
	Requirements Requirements
	Loading      bool
	Error        string
	Closed       bool
}

type Wizard struct {
	client    client.Client
	flow      Flow
	onSuccess func(models.AuthResult)
	logger    logging.Logger

	mu       sync.Mutex
	mode     Mode
	email    string
	code     string
	password string
	req      Requirements
	loading  bool
	errMsg   string
	epoch    uint64
	closed   bool
}

// New returns a wizard on the email step. onSuccess receives the final
// authentication payload exactly once; the host starts the session.
func New(c client.Client, flow Flow, onSuccess func(models.AuthResult), logger logging.Logger) *Wizard {
	return &Wizard{
		client:    c,
		flow:      flow,
		onSuccess: onSuccess,
		logger:    logger.With("component", "wizard", "flow", flow.String()),
	}
}

func (w *Wizard) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Snapshot{
		Flow:         w.flow,
		Mode:         w.mode,
		Email:        w.email,
		Code:         w.code,
		Requirements: w.req,
		Loading:      w.loading,
		Error:        w.errMsg,
		Closed:       w.closed,
	}
}

func (w *Wizard) Mode() Mode {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mode
}

func (w *Wizard) Loading() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loading
}

func (w *Wizard) SetEmail(email string) {
	w.mu.Lock()
	w.email = email
	w.mu.Unlock()
}

func (w *Wizard) SetCode(code string) {
	w.mu.Lock()
	w.code = code
	w.mu.Unlock()
}

// SetPassword stores the candidate and returns its requirement report.
func (w *Wizard) SetPassword(pwd string) Requirements {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.password = pwd
	w.req = Evaluate(pwd)
	return w.req
}

// CanSubmitPassword reports whether the password step's submit is enabled.
func (w *Wizard) CanSubmitPassword() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mode == ModePassword && !w.loading && !w.closed && w.req.AllMet()
}

// Back returns to the email step. It is a no-op on the email step.
func (w *Wizard) Back() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || w.mode == ModeEmail {
		return
	}
	w.code, w.password, w.req = "", "", Requirements{}
	w.setModeLocked(ModeEmail)
}

// Dismiss closes the wizard. In-flight responses are discarded.
func (w *Wizard) Dismiss() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	w.password = ""
	w.epoch++
	w.loading = false
}

// SubmitEmail asks the server to send a code to the entered email.
func (w *Wizard) SubmitEmail(ctx context.Context) error {
	w.mu.Lock()
	if err := w.beginLocked(ModeEmail); err != nil {
		w.mu.Unlock()
		return err
	}
	email := strings.TrimSpace(w.email)
	if email == "" {
		defer w.mu.Unlock()
		return w.guardLocked(MsgEnterEmail)
	}
	epoch := w.startLocked()
	w.mu.Unlock()

	var err error
	if w.flow == FlowSignup {
		err = w.client.SendSignupCode(ctx, email, common.LocalPart(email))
	} else {
		err = w.client.SendLoginCode(ctx, email)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.epoch != epoch {
		return ErrStale
	}
	w.loading = false
	if err != nil {
		return w.failLocked(ctx, err, MsgSendCodeFailed)
	}
	w.email = email
	w.setModeLocked(ModeVerify)
	return nil
}

// SubmitCode verifies the entered code. The wizard either moves to the
// password step or finishes.
func (w *Wizard) SubmitCode(ctx context.Context) error {
	w.mu.Lock()
	if err := w.beginLocked(ModeVerify); err != nil {
		w.mu.Unlock()
		return err
	}
	code := strings.TrimSpace(w.code)
	if code == "" {
		defer w.mu.Unlock()
		return w.guardLocked(MsgEnterCode)
	}
	email := w.email
	epoch := w.startLocked()
	w.mu.Unlock()

	var (
		res *models.AuthResult
		err error
	)
	if w.flow == FlowSignup {
		res, err = w.client.VerifySignupCode(ctx, email, code)
	} else {
		res, err = w.client.VerifyLoginCode(ctx, email, code)
	}

	w.mu.Lock()
	if w.epoch != epoch {
		w.mu.Unlock()
		return ErrStale
	}
	w.loading = false
	if err != nil {
		defer w.mu.Unlock()
		return w.failLocked(ctx, err, MsgInvalidCode)
	}
	if res != nil && res.RequiresPasswordSetup {
		defer w.mu.Unlock()
		w.setModeLocked(ModePassword)
		return nil
	}
	if !res.Complete() {
		defer w.mu.Unlock()
		return w.failLocked(ctx, client.ErrInvalidResponse, MsgInvalidResponse)
	}
	return w.finishLocked(*res)
}

// SubmitPassword sets the first password, then logs in with it.
func (w *Wizard) SubmitPassword(ctx context.Context) error {
	w.mu.Lock()
	if err := w.beginLocked(ModePassword); err != nil {
		w.mu.Unlock()
		return err
	}
	if w.password == "" {
		defer w.mu.Unlock()
		return w.guardLocked(MsgEnterPassword)
	}
	if !w.req.AllMet() {
		defer w.mu.Unlock()
		return w.guardLocked(MsgMeetRequirements)
	}
	email, pwd := w.email, w.password
	epoch := w.startLocked()
	w.mu.Unlock()

	if err := w.client.SetPassword(ctx, email, pwd); err != nil {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.epoch != epoch {
			return ErrStale
		}
		w.loading = false
		return w.failLocked(ctx, err, MsgSetPasswordFailed)
	}
	if w.isStale(epoch) {
		return ErrStale
	}

	res, err := w.client.PasswordLogin(ctx, email, pwd)

	w.mu.Lock()
	if w.epoch != epoch {
		w.mu.Unlock()
		return ErrStale
	}
	w.loading = false
	if err != nil {
		defer w.mu.Unlock()
		return w.failLocked(ctx, err, MsgLoginAfterPassword)
	}
	if !res.Complete() {
		defer w.mu.Unlock()
		return w.failLocked(ctx, client.ErrInvalidResponse, MsgInvalidResponse)
	}
	return w.finishLocked(*res)
}

func (w *Wizard) beginLocked(mode Mode) error {
	switch {
	case w.closed:
		return ErrClosed
	case w.mode != mode:
		return ErrWrongMode
	case w.loading:
		return ErrBusy
	}
	return nil
}

func (w *Wizard) guardLocked(msg string) error {
	w.errMsg = msg
	return &StepError{Message: msg}
}

func (w *Wizard) startLocked() uint64 {
	w.loading = true
	w.errMsg = ""
	return w.epoch
}

func (w *Wizard) isStale(epoch uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.epoch != epoch
}

func (w *Wizard) setModeLocked(m Mode) {
	w.mode = m
	w.errMsg = ""
	w.loading = false
	w.epoch++
}

// failLocked records a remote failure. The step does not change.
func (w *Wizard) failLocked(ctx context.Context, err error, fallback string) error {
	msg := client.UserMessage(err, fallback)
	if errors.Is(err, client.ErrUnavailable) {
		msg = client.NetworkErrorMessage
	}
	w.errMsg = msg
	w.logger.Warn(ctx, "step failed", "mode", w.mode.String(), "error", err)
	return &StepError{Message: msg, Err: err}
}

// finishLocked closes the wizard, releases the lock and hands res to the host.
func (w *Wizard) finishLocked(res models.AuthResult) error {
	w.closed = true
	w.password = ""
	w.epoch++
	cb := w.onSuccess
	w.mu.Unlock()

	if cb != nil {
		cb(res)
	}
	return nil
}
