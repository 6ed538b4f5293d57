// Package cli provides the interactive BudgetUp command-line client.
//
// It wires configuration, the persisted session, the API client and an
// interactive REPL whose commands follow the current view: landing (sign in
// or sign up), onboarding (complete the profile) or dashboard.
//
// Key features:
//   - Password login and signup, Google ID-token login
//   - Email verification flow with first-time password setup
//   - Onboarding profile submission
//   - Path reconciliation against the current view (open <path>)
//   - Background API reachability watcher
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
