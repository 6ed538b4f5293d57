package cli

import (
	"context"
	"strconv"

	"github.com/budgetup/budgetup/internal/client/models"
)

// Onboard collects the onboarding profile, submits it and moves to the
// dashboard. A failed submission is reported but does not hold the user
// back.
func (a *App) Onboard(ctx context.Context) error {
	st := a.store.State()
	if !st.IsLoggedIn {
		a.println("Please log in first.")
		return nil
	}

	defaultName := ""
	if st.User != nil {
		defaultName = st.User.Name
	}

	var p models.OnboardingProfile
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Full name", &p.FullName},
		{"Country", &p.Country},
		{"Currency (e.g. USD)", &p.Currency},
		{"Occupation", &p.Occupation},
		{"Income frequency (monthly, weekly, ...)", &p.IncomeFrequency},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	if p.FullName == "" {
		p.FullName = defaultName
	}

	var err error
	if p.MonthlyIncome, err = a.readAmount("Monthly income"); err != nil {
		return err
	}
	if p.PocketMoney, err = a.readAmount("Pocket money"); err != nil {
		return err
	}
	if p.FinancialGoals, err = GetMultiline(a.reader, "Financial goals, one per line", a.out); err != nil {
		return err
	}
	if p.FinancialGoals == nil {
		p.FinancialGoals = []string{}
	}

	if err := a.gate.Complete(ctx, st.Token, p); err != nil {
		a.println("Could not save your profile; continuing to the dashboard.")
	}
	a.arbiter.MarkOnboarded()
	a.println("Welcome to your dashboard!")
	return nil
}

// readAmount prompts until a non-negative number (or nothing, meaning 0)
// is entered.
func (a *App) readAmount(prompt string) (float64, error) {
	for {
		v, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return 0, err
		}
		if v == "" {
			return 0, nil
		}
		n, perr := strconv.ParseFloat(v, 64)
		if perr == nil && n >= 0 {
			return n, nil
		}
		a.println("Please enter a non-negative number.")
	}
}
