package cli

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/budgetup/budgetup/internal/client/route"
	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	v route.View

	calls []string
	paths []string
}

func (f *fakeExec) view(context.Context) route.View { return f.v }

func (f *fakeExec) record(name string) error {
	f.calls = append(f.calls, name)
	return nil
}

func (f *fakeExec) Login(context.Context) error {
	f.v = route.ViewDashboard
	return f.record("login")
}
func (f *fakeExec) Signup(context.Context) error {
	f.v = route.ViewOnboarding
	return f.record("signup")
}
func (f *fakeExec) Google(context.Context) error      { return f.record("google") }
func (f *fakeExec) EmailLogin(context.Context) error  { return f.record("email-login") }
func (f *fakeExec) EmailSignup(context.Context) error { return f.record("email-signup") }
func (f *fakeExec) Onboard(context.Context) error {
	f.v = route.ViewDashboard
	return f.record("onboard")
}
func (f *fakeExec) WhoAmI(context.Context) error  { return f.record("whoami") }
func (f *fakeExec) Refresh(context.Context) error { return f.record("refresh") }
func (f *fakeExec) Status(context.Context) error  { return f.record("status") }
func (f *fakeExec) Logout(context.Context) error {
	f.v = route.ViewLanding
	return f.record("logout")
}
func (f *fakeExec) Open(_ context.Context, path string) error {
	f.paths = append(f.paths, path)
	return f.record("open")
}

func capturePrint(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_CommandsFollowView(t *testing.T) {
	out := capturePrint(t)

	input := strings.Join([]string{
		"whoami", // not on landing
		"signup",
		"login", // not on onboarding
		"refresh",
		"onboard",
		"status",
		"",
		"logout",
		"email-login",
		"exit",
		"login", // never reached
	}, "\n")

	exec := &fakeExec{v: route.ViewLanding}
	runREPL(context.Background(), exec, func() string { return "" }, rdr(input))

	assert.Equal(t, []string{"signup", "refresh", "onboard", "status", "logout", "email-login"}, exec.calls)
	assert.Contains(t, *out, "Unknown command: whoami")
	assert.Contains(t, *out, "Unknown command: login")
	assert.Contains(t, *out, "Bye!")
	assert.Contains(t, *out, "budgetup landing> ")
	assert.Contains(t, *out, "budgetup onboarding> ")
}

func TestRunREPL_HelpListsViewCommands(t *testing.T) {
	out := capturePrint(t)

	exec := &fakeExec{v: route.ViewDashboard}
	runREPL(context.Background(), exec, func() string { return " (s)" }, rdr("help\nquit\n"))

	assert.Contains(t, *out, "Available commands: whoami, refresh, status, logout, open <path>, exit")
	assert.Contains(t, *out, "budgetup dashboard (s)> ")
	assert.Empty(t, exec.calls)
	assert.Equal(t, []string{"whoami", "refresh", "status", "logout"}, commands[route.ViewDashboard])
}

func TestRunREPL_OpenAndUsage(t *testing.T) {
	out := capturePrint(t)

	exec := &fakeExec{v: route.ViewLanding}
	runREPL(context.Background(), exec, func() string { return "" }, rdr("open\nopen /dashboard\n"))

	assert.Contains(t, *out, "Usage: open <path>")
	assert.Equal(t, []string{"/dashboard"}, exec.paths)
}

func TestRunREPL_CheckingBlocksCommands(t *testing.T) {
	out := capturePrint(t)

	exec := &fakeExec{v: route.ViewChecking}
	runREPL(context.Background(), exec, func() string { return "" }, rdr("login\n"))

	assert.Empty(t, exec.calls)
	assert.Contains(t, *out, "Still checking your session, try again.")
}
