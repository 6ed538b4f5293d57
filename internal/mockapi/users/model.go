// Package users is the mock API's account store together with the
// credential exchanges that issue bearer tokens.
package users

import "time"

type Provider string

const (
	ProviderLocal  Provider = "local"
	ProviderGoogle Provider = "google"
	ProviderEmail  Provider = "email"
)

// Profile is the onboarding questionnaire.
type Profile struct {
	FullName        string
	Country         string
	Flag            string
	Currency        string
	Occupation      string
	MonthlyIncome   float64
	PocketMoney     float64
	IncomeFrequency string
	FinancialGoals  []string
}

type User struct {
	ID           string
	Name         string
	Email        string
	Picture      string
	Provider     Provider
	PasswordHash []byte
	IsOnboarded  bool
	Profile      Profile
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the account can use password login.
func (u *User) HasPassword() bool {
	return len(u.PasswordHash) > 0
}

func (u *User) clone() *User {
	c := *u
	c.PasswordHash = append([]byte(nil), u.PasswordHash...)
	c.Profile.FinancialGoals = append([]string(nil), u.Profile.FinancialGoals...)
	return &c
}
