package models

// AuthResult is the body returned by every credential exchange endpoint.
// Verify-code endpoints may instead answer with RequiresPasswordSetup.
type AuthResult struct {
	Token                 string `json:"token,omitempty"`
	User                  *User  `json:"user,omitempty"`
	RequiresPasswordSetup bool   `json:"requiresPasswordSetup,omitempty"`
	Message               string `json:"message,omitempty"`
}

// Complete reports whether r carries both halves of a session.
func (r *AuthResult) Complete() bool {
	return r != nil && r.Token != "" && r.User.Valid()
}

// OnboardingStatus is the body of GET /api/user/onboarding/status.
type OnboardingStatus struct {
	NeedsOnboarding bool `json:"needsOnboarding"`
	IsOnboarded     bool `json:"isOnboarded,omitempty"`
}

// OnboardingProfile is the form submitted when onboarding completes.
type OnboardingProfile struct {
	FullName        string   `json:"fullName,omitempty"`
	Country         string   `json:"country,omitempty"`
	Flag            string   `json:"flag,omitempty"`
	Currency        string   `json:"currency,omitempty"`
	Occupation      string   `json:"occupation,omitempty"`
	MonthlyIncome   float64  `json:"monthlyIncome"`
	PocketMoney     float64  `json:"pocketMoney"`
	IncomeFrequency string   `json:"incomeFrequency,omitempty"`
	FinancialGoals  []string `json:"financialGoals"`
}
