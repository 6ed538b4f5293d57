// Package models holds the client-side data shapes exchanged with the
// BudgetUp API and persisted in the local session store.
package models

// AuthProvider records how an account was created.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "local"
	ProviderGoogle AuthProvider = "google"
	ProviderEmail  AuthProvider = "email"
)

// User is the identity record held next to the bearer token.
type User struct {
	ID             string       `json:"id"`
	Name           string       `json:"name,omitempty"`
	Email          string       `json:"email,omitempty"`
	Picture        string       `json:"picture,omitempty"`
	AuthProvider   AuthProvider `json:"authProvider,omitempty"`
	HasSetPassword *bool        `json:"hasSetPassword,omitempty"`
}

// Valid reports whether u is well-formed enough to back a session.
func (u *User) Valid() bool {
	return u != nil && u.ID != ""
}

// Clone returns a deep copy of u.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.HasSetPassword != nil {
		v := *u.HasSetPassword
		c.HasSetPassword = &v
	}
	return &c
}

// UserPatch is a partial profile update. Nil fields are left untouched.
type UserPatch struct {
	Name           *string
	Email          *string
	Picture        *string
	AuthProvider   *AuthProvider
	HasSetPassword *bool
}

// Apply returns a copy of u with the non-nil fields of p merged in.
// The id is never changed.
func (u User) Apply(p UserPatch) User {
	out := *u.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Email != nil {
		out.Email = *p.Email
	}
	if p.Picture != nil {
		out.Picture = *p.Picture
	}
	if p.AuthProvider != nil {
		out.AuthProvider = *p.AuthProvider
	}
	if p.HasSetPassword != nil {
		v := *p.HasSetPassword
		out.HasSetPassword = &v
	}
	return out
}

// PatchFrom builds the patch that brings a stored user in line with a fresh
// server record. Empty fields in u are left out so they never blank the
// stored values.
func PatchFrom(u User) UserPatch {
	var p UserPatch
	if u.Name != "" {
		p.Name = &u.Name
	}
	if u.Email != "" {
		p.Email = &u.Email
	}
	if u.Picture != "" {
		p.Picture = &u.Picture
	}
	if u.AuthProvider != "" {
		p.AuthProvider = &u.AuthProvider
	}
	if u.HasSetPassword != nil {
		v := *u.HasSetPassword
		p.HasSetPassword = &v
	}
	return p
}
