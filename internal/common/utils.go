package common

import "strings"

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	return token, token != ""
}

// LocalPart returns the part of an email address before the '@', or the
// whole string when there is none.
func LocalPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
