// Package guard implements navigation guards over the session manager's
// observable state. Guards only decide; performing the redirect is the
// caller's job.
package guard

import (
	"context"

	"github.com/vkarpova/atlasinfo/internal/models"
)

// Routes guards redirect to.
const (
	LoginRoute = "/auth/login"
	HomeRoute  = "/home"
)

// Decision is the outcome of a guard check.
type Decision struct {
	Allowed bool
	// RedirectTo is the route to send the caller to when not allowed.
	RedirectTo string
}

func allow() Decision            { return Decision{Allowed: true} }
func deny(route string) Decision { return Decision{RedirectTo: route} }

// SessionSource is the slice of the session manager the guards consume.
type SessionSource interface {
	Subscribe() (<-chan models.SessionState, func())
}

// await blocks for the first state emission. Subscriptions always yield the
// current value immediately, so this returns promptly once the session
// layer is up.
func await(ctx context.Context, src SessionSource) (models.SessionState, bool) {
	ch, cancel := src.Subscribe()
	defer cancel()

	// A dead context always denies, even when a state is already queued.
	if ctx.Err() != nil {
		return models.Anonymous(), false
	}

	select {
	case st, ok := <-ch:
		if !ok {
			return models.Anonymous(), false
		}
		return st, true
	case <-ctx.Done():
		return models.Anonymous(), false
	}
}

// Auth admits authenticated, non-blocked sessions; everything else is sent
// to the login route.
func Auth(ctx context.Context, src SessionSource) Decision {
	st, ok := await(ctx, src)
	if !ok || !st.IsAuthenticated || st.CurrentUser == nil {
		return deny(LoginRoute)
	}
	if st.CurrentUser.IsBlocked {
		// A session snapshot can carry a blocked flag even though login
		// refuses blocked users; treated as unauthenticated.
		return deny(LoginRoute)
	}
	return allow()
}

// Admin additionally requires the admin role; authenticated non-admins are
// sent home rather than to the login page.
func Admin(ctx context.Context, src SessionSource) Decision {
	st, ok := await(ctx, src)
	if !ok || !st.IsAuthenticated || st.CurrentUser == nil {
		return deny(LoginRoute)
	}
	if st.CurrentUser.IsBlocked {
		return deny(LoginRoute)
	}
	if st.CurrentUser.Role != models.RoleAdmin {
		return deny(HomeRoute)
	}
	return allow()
}
