// Package common contains constants and small helpers shared by the client
// and the mock API.
package common

const (
	// TokenKey and CurrentUserKey name the two persisted session entries.
	// They are always written and removed together.
	TokenKey       = "token"
	CurrentUserKey = "currentUser"

	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "
	RequestIDHeader     = "X-Request-ID"
)
