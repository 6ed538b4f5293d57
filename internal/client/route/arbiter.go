package route

import (
	"context"
	"sync"

	"github.com/budgetup/budgetup/internal/client/onboarding"
	"github.com/budgetup/budgetup/internal/client/session"
	"github.com/budgetup/budgetup/internal/logging"
)

// SessionSource is the session store as seen by the arbiter.
type SessionSource interface {
	State() session.State
	Subscribe(fn func(session.State)) (unsubscribe func())
}

// Checker runs one onboarding status check.
type Checker interface {
	Check(ctx context.Context, token string) onboarding.Result
}

// Arbiter keeps the current View in step with the session store. The gate
// runs once for every transition into a logged-in session; a check started
// for an older session never overwrites a newer one.
type Arbiter struct {
	gate   Checker
	logger logging.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	unsub  func()

	mu       sync.Mutex
	notifyMu sync.Mutex
	signal   SessionSignal
	token    string
	status   onboarding.Status
	gen      uint64
	view     View
	settled  chan struct{}

	nextID    int
	listeners map[int]func(View)
}

// NewArbiter subscribes to src and evaluates its current state.
func NewArbiter(src SessionSource, gate Checker, logger logging.Logger) *Arbiter {
	ctx, cancel := context.WithCancel(context.Background())
	a := &Arbiter{
		gate:      gate,
		logger:    logger.With("component", "route"),
		ctx:       ctx,
		cancel:    cancel,
		signal:    SessionSignal{Loading: true},
		view:      ViewChecking,
		settled:   make(chan struct{}),
		listeners: make(map[int]func(View)),
	}
	a.unsub = src.Subscribe(a.apply)
	a.apply(src.State())
	return a
}

// View returns the current view.
func (a *Arbiter) View() View {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.view
}

// OnChange registers fn to be called with every new view.
func (a *Arbiter) OnChange(fn func(View)) (unsubscribe func()) {
	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.listeners[id] = fn
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		delete(a.listeners, id)
		a.mu.Unlock()
	}
}

// Wait blocks until the view is no longer ViewChecking.
func (a *Arbiter) Wait(ctx context.Context) (View, error) {
	for {
		a.mu.Lock()
		v, ch := a.view, a.settled
		a.mu.Unlock()
		if v != ViewChecking {
			return v, nil
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return ViewChecking, ctx.Err()
		}
	}
}

// MarkOnboarded moves a logged-in user to the dashboard. Any check still
// in flight is discarded.
func (a *Arbiter) MarkOnboarded() {
	a.mu.Lock()
	if !a.signal.IsLoggedIn {
		a.mu.Unlock()
		return
	}
	a.gen++
	a.status = onboarding.StatusDashboard
	a.commitLocked()
}

// Close stops listening to the session and waits for in-flight checks.
func (a *Arbiter) Close() {
	a.unsub()
	a.cancel()
	a.wg.Wait()
}

func (a *Arbiter) apply(st session.State) {
	a.mu.Lock()
	a.signal = SessionSignal{IsLoggedIn: st.IsLoggedIn, Loading: st.Loading}

	switch {
	case st.Loading:
	case !st.IsLoggedIn:
		if a.token != "" {
			a.gen++
		}
		a.token = ""
		a.status = onboarding.StatusChecking
	case st.Token != a.token:
		a.gen++
		a.token = st.Token
		a.status = onboarding.StatusChecking
		a.startCheckLocked(st.Token, a.gen)
	}
	a.commitLocked()
}

func (a *Arbiter) startCheckLocked(token string, gen uint64) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		res := a.gate.Check(a.ctx, token)

		a.mu.Lock()
		if gen != a.gen {
			a.mu.Unlock()
			a.logger.Debug(a.ctx, "discarding onboarding result for previous session")
			return
		}
		a.status = res.Status
		a.commitLocked()
	}()
}

// commitLocked recomputes the view, releases a.mu and notifies listeners
// when the view changed.
func (a *Arbiter) commitLocked() {
	next := Resolve(a.signal, a.status)
	if next == a.view {
		a.mu.Unlock()
		return
	}
	a.view = next
	if next == ViewChecking {
		a.settled = make(chan struct{})
	} else {
		select {
		case <-a.settled:
		default:
			close(a.settled)
		}
	}
	fns := make([]func(View), 0, len(a.listeners))
	for _, fn := range a.listeners {
		fns = append(fns, fn)
	}
	a.notifyMu.Lock()
	a.mu.Unlock()

	defer a.notifyMu.Unlock()
	a.logger.Debug(a.ctx, "view changed", "view", next.String())
	for _, fn := range fns {
		fn(next)
	}
}
