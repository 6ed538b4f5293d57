// Package client talks to the BudgetUp REST API.
//
// # Overview
//
// Client is the transport-agnostic contract the client services depend on:
// password login and signup, Google sign-in, the email-code endpoints, the
// first-time password endpoint, and the onboarding status/complete pair.
// HTTPClient implements it over net/http with JSON bodies.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable. Non-2xx responses become *APIError
// carrying the status and the server's message; 401 and 403 also match
// ErrUnauthorized through errors.Is. UserMessage turns any of these into the
// text shown to the user.
//
// All operations accept a context.Context and honour cancellation.
package client
