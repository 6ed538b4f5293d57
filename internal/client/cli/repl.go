package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/budgetup/budgetup/internal/client/route"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	view(ctx context.Context) route.View
	Login(ctx context.Context) error
	Signup(ctx context.Context) error
	Google(ctx context.Context) error
	EmailLogin(ctx context.Context) error
	EmailSignup(ctx context.Context) error
	Onboard(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Refresh(ctx context.Context) error
	Status(ctx context.Context) error
	Logout(ctx context.Context) error
	Open(ctx context.Context, path string) error
}

// commands lists what each view accepts besides help, open and exit.
var commands = map[route.View][]string{
	route.ViewLanding:    {"login", "signup", "google", "email-login", "email-signup"},
	route.ViewOnboarding: {"onboard", "whoami", "refresh", "logout"},
	route.ViewDashboard:  {"whoami", "refresh", "status", "logout"},
}

func allowed(v route.View, cmd string) bool {
	for _, c := range commands[v] {
		if c == cmd {
			return true
		}
	}
	return false
}

// runREPL starts a simple read–eval–print loop for the BudgetUp CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The accepted commands depend on the current
// view:
//
//	landing:    login, signup, google, email-login, email-signup
//	onboarding: onboard, whoami, refresh, logout
//	dashboard:  whoami, refresh, status, logout
//	any view:   help, open <path>, exit | quit
//
// Errors returned by command handlers are ignored here; handlers print the
// user-facing message themselves. The loop exits on EOF or exit/quit.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		v := a.view(ctx)
		printlnFn(fmt.Sprintf("budgetup %s%s> ", v, statusFn()))

		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			printlnFn("Available commands:", strings.Join(append(append([]string{}, commands[v]...), "open <path>", "exit"), ", "))
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		case "open":
			if len(parts) < 2 {
				printlnFn("Usage: open <path>")
				continue
			}
			_ = a.Open(ctx, parts[1])
			continue
		}

		if !allowed(v, cmd) {
			if v == route.ViewChecking {
				printlnFn("Still checking your session, try again.")
			} else {
				printlnFn("Unknown command:", cmd)
			}
			continue
		}

		switch cmd {
		case "login":
			_ = a.Login(ctx)
		case "signup":
			_ = a.Signup(ctx)
		case "google":
			_ = a.Google(ctx)
		case "email-login":
			_ = a.EmailLogin(ctx)
		case "email-signup":
			_ = a.EmailSignup(ctx)
		case "onboard":
			_ = a.Onboard(ctx)
		case "whoami":
			_ = a.WhoAmI(ctx)
		case "refresh":
			_ = a.Refresh(ctx)
		case "status":
			_ = a.Status(ctx)
		case "logout":
			_ = a.Logout(ctx)
		}
	}
}

func (a *App) getStatus() string {
	s := ""
	if st := a.store.State(); st.User != nil {
		s = st.User.Email + " "
	}
	if m := a.Mode(); m != "" {
		s += string(m)
	}
	s = strings.TrimSpace(s)
	if s != "" {
		s = fmt.Sprintf(" (%s)", s)
	}
	return s
}

// Run shows the current view, starts the reachability watcher and runs the
// REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.println("Welcome to BudgetUp (type 'help' for commands)")
	a.checkOnline(ctx)

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}
