package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vkarpova/atlasinfo/internal/adminui"
	"github.com/vkarpova/atlasinfo/internal/guard"
)

// runProgram is a test seam around the Bubble Tea runtime.
var runProgram = func(model tea.Model) error {
	_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

// requireAdmin checks the admin guard and reports the redirect the front
// end would perform. Returns false when the command must not run.
func (a *App) requireAdmin(ctx context.Context) bool {
	d := guard.Admin(ctx, a.manager)
	if !d.Allowed {
		if d.RedirectTo == guard.HomeRoute {
			printlnFn("Admin access required (redirect: " + d.RedirectTo + ")")
		} else {
			printlnFn("Please log in first (redirect: " + d.RedirectTo + ")")
		}
		return false
	}
	return true
}

// Users prints all user accounts, passwords never included.
func (a *App) Users(ctx context.Context) error {
	if !a.requireAdmin(ctx) {
		return nil
	}

	for _, u := range a.manager.ListUsers(ctx) {
		status := "active"
		if u.IsBlocked {
			status = "blocked"
		}
		printlnFn(fmt.Sprintf("%-16s %-28s %-6s %s", u.Username, u.Email, u.Role, status))
	}
	return nil
}

// Admin opens the interactive user-management panel.
func (a *App) Admin(ctx context.Context) error {
	if !a.requireAdmin(ctx) {
		return nil
	}

	adminName := ""
	if u := a.manager.CurrentUser(); u != nil {
		adminName = u.Username
	}
	if err := runProgram(adminui.New(ctx, a.manager, adminName)); err != nil {
		a.log.Warn(ctx, "admin panel failed", "error", err)
		return err
	}
	return nil
}
