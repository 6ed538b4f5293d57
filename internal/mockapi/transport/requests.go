package transport

type passwordLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type passwordSignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type googleRequest struct {
	IDToken string `json:"idToken"`
}

type sendCodeRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"displayName"`
}

type verifyCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

type setPasswordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type onboardingRequest struct {
	FullName        string   `json:"fullName" validate:"omitempty,max=200"`
	Country         string   `json:"country"`
	Flag            string   `json:"flag"`
	Currency        string   `json:"currency" validate:"omitempty,max=10"`
	Occupation      string   `json:"occupation"`
	MonthlyIncome   float64  `json:"monthlyIncome" validate:"gte=0"`
	PocketMoney     float64  `json:"pocketMoney" validate:"gte=0"`
	IncomeFrequency string   `json:"incomeFrequency"`
	FinancialGoals  []string `json:"financialGoals" validate:"dive,required"`
}
