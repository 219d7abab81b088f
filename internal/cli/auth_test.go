package cli

import (
	"bufio"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkarpova/atlasinfo/internal/logging"
	"github.com/vkarpova/atlasinfo/internal/models"
	"github.com/vkarpova/atlasinfo/internal/session"
	"github.com/vkarpova/atlasinfo/internal/store"
)

func stubInputs(t *testing.T, answers []string, password []byte) func() {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	i := 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		a := answers[i]
		i++
		return a, nil
	}
	getPassword = func(_ io.Writer) ([]byte, error) { return append([]byte(nil), password...), nil }
	return func() {
		getSimpleText = origST
		getPassword = origGP
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	mgr := session.NewManager(store.NewMemory(), nil, logging.NewNopLogger(), session.Options{
		SimulatedLatency:  -1,
		DisableAutoLogout: true,
	})
	t.Cleanup(mgr.Close)
	return &App{manager: mgr, log: logging.NewNopLogger()}
}

func silencePrintln(t *testing.T) {
	t.Helper()
	orig := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = orig })
}

func TestRegisterThenLogin(t *testing.T) {
	silencePrintln(t)
	app := newTestApp(t)
	ctx := context.Background()

	restore := stubInputs(t, []string{"alice", "alice@example.com"}, []byte("s3cret"))
	require.NoError(t, app.Register(ctx))
	restore()

	assert.False(t, app.isLoggedIn(), "registration must not authenticate")

	restore = stubInputs(t, []string{"alice"}, []byte("s3cret"))
	defer restore()
	require.NoError(t, app.Login(ctx))
	assert.True(t, app.isLoggedIn())
	assert.Equal(t, "alice", app.manager.CurrentUser().Username)
}

func TestLoginInvalidCredentials(t *testing.T) {
	silencePrintln(t)
	app := newTestApp(t)

	restore := stubInputs(t, []string{"nobody"}, []byte("wrong"))
	defer restore()

	err := app.Login(context.Background())
	assert.ErrorIs(t, err, session.ErrInvalidCredentials)
	assert.False(t, app.isLoggedIn())
}

func TestRegisterDuplicateUsername(t *testing.T) {
	silencePrintln(t)
	app := newTestApp(t)
	ctx := context.Background()

	restore := stubInputs(t, []string{"bob", "bob@example.com"}, []byte("pw"))
	require.NoError(t, app.Register(ctx))
	restore()

	restore = stubInputs(t, []string{"bob", "other@example.com"}, []byte("pw"))
	defer restore()
	assert.ErrorIs(t, app.Register(ctx), session.ErrDuplicateUsername)
}

func TestLogoutClearsSession(t *testing.T) {
	silencePrintln(t)
	app := newTestApp(t)
	ctx := context.Background()

	app.manager.EnsureAdminBootstrap(ctx)
	restore := stubInputs(t, []string{session.BootstrapAdminUsername}, []byte(session.BootstrapAdminPassword))
	defer restore()
	require.NoError(t, app.Login(ctx))
	require.True(t, app.isAdmin())

	require.NoError(t, app.Logout(ctx))
	assert.False(t, app.isLoggedIn())
	assert.Equal(t, models.Anonymous(), app.manager.CurrentState())
}
