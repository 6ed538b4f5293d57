package cli

import (
	"context"

	"github.com/budgetup/budgetup/internal/client/client"
	"github.com/budgetup/budgetup/internal/client/models"
	"github.com/budgetup/budgetup/internal/client/route"
)

// MsgProfileFailed is shown when the profile cannot be reloaded.
const MsgProfileFailed = "Failed to load profile"

// WhoAmI prints the logged-in user.
func (a *App) WhoAmI(ctx context.Context) error {
	st := a.store.State()
	if !st.IsLoggedIn || st.User == nil {
		a.println("Not logged in.")
		return nil
	}
	u := st.User
	a.printf("id:       %s\n", u.ID)
	a.printf("name:     %s\n", u.Name)
	a.printf("email:    %s\n", u.Email)
	if u.AuthProvider != "" {
		a.printf("provider: %s\n", u.AuthProvider)
	}
	return nil
}

// Refresh reloads the user's profile from the API and merges it into the
// session. The token is kept.
func (a *App) Refresh(ctx context.Context) error {
	st := a.store.State()
	if !st.IsLoggedIn {
		a.println("Not logged in.")
		return nil
	}

	u, err := a.client.Profile(ctx, st.Token)
	if err != nil {
		a.logger.Warn(ctx, "profile refresh failed", "error", err)
		a.println(client.UserMessage(err, MsgProfileFailed))
		return err
	}
	if u.ID != st.User.ID {
		a.logger.Warn(ctx, "profile belongs to another user", "user_id", st.User.ID, "profile_id", u.ID)
		a.println(MsgProfileFailed)
		return client.ErrInvalidResponse
	}
	if err := a.store.UpdateUser(ctx, models.PatchFrom(*u)); err != nil {
		a.logger.Error(ctx, "error saving profile", "error", err)
		a.println(MsgProfileFailed)
		return err
	}

	a.println("Profile updated.")
	return a.WhoAmI(ctx)
}

// Status prints the API reachability and the current view.
func (a *App) Status(ctx context.Context) error {
	a.checkOnline(ctx)
	a.printf("api:  %s (%s)\n", a.config.APIURL, a.Mode())
	a.printf("view: %s\n", a.view(ctx))
	return nil
}

// Open reconciles a requested path against the current view.
func (a *App) Open(ctx context.Context, path string) error {
	v := a.view(ctx)
	target, redirect := route.Reconcile(path, v)
	switch {
	case target == "":
		a.println("Still checking your session, try again.")
	case redirect:
		a.printf("Redirected to %s\n", target)
	default:
		a.printf("Showing %s\n", target)
	}
	return nil
}
