package cli

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkarpova/atlasinfo/internal/session"
)

func TestUsersRequiresAdmin(t *testing.T) {
	silencePrintln(t)
	app := newTestApp(t)
	ctx := context.Background()

	// Anonymous: denied.
	require.NoError(t, app.Users(ctx))

	restore := stubInputs(t, []string{"dave", "dave@example.com"}, []byte("pw"))
	require.NoError(t, app.Register(ctx))
	restore()
	restore = stubInputs(t, []string{"dave"}, []byte("pw"))
	require.NoError(t, app.Login(ctx))
	restore()

	// Standard role: still denied, and the admin panel must not start.
	origRun := runProgram
	started := false
	runProgram = func(tea.Model) error { started = true; return nil }
	t.Cleanup(func() { runProgram = origRun })

	require.NoError(t, app.Admin(ctx))
	assert.False(t, started, "non-admin must not reach the panel")
}

func TestAdminPanelStartsForAdmin(t *testing.T) {
	silencePrintln(t)
	app := newTestApp(t)
	ctx := context.Background()

	app.manager.EnsureAdminBootstrap(ctx)
	restore := stubInputs(t, []string{session.BootstrapAdminUsername}, []byte(session.BootstrapAdminPassword))
	defer restore()
	require.NoError(t, app.Login(ctx))

	origRun := runProgram
	started := false
	runProgram = func(tea.Model) error { started = true; return nil }
	t.Cleanup(func() { runProgram = origRun })

	require.NoError(t, app.Admin(ctx))
	assert.True(t, started)
	require.NoError(t, app.Users(ctx))
}
