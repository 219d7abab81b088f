package cli

import (
	"bufio"
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/vkarpova/atlasinfo/internal/broadcast"
	"github.com/vkarpova/atlasinfo/internal/catalog/countries"
	"github.com/vkarpova/atlasinfo/internal/catalog/creatures"
	"github.com/vkarpova/atlasinfo/internal/catalog/weather"
	"github.com/vkarpova/atlasinfo/internal/config"
	"github.com/vkarpova/atlasinfo/internal/logging"
	"github.com/vkarpova/atlasinfo/internal/session"
	"github.com/vkarpova/atlasinfo/internal/store"
)

// App wires the session manager, the catalog clients and the REPL together.
type App struct {
	config    *config.Config
	kv        *store.SQLite
	channel   broadcast.Channel
	manager   *session.Manager
	countries *countries.Client
	weather   *weather.Client
	creatures *creatures.Client
	reader    *bufio.Reader
	log       logging.Logger
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	log, err := newLogger(c.LogBackend)
	if err != nil {
		return nil, err
	}

	kv, err := store.OpenSQLite(ctx, c.StoreDSN)
	if err != nil {
		log.Error(ctx, "error initializing store", "error", err)
		return nil, err
	}

	channel := broadcast.NewStoreChannel(kv, log, broadcast.StoreChannelOptions{
		PollInterval: c.BroadcastPollInterval,
		Linger:       c.BroadcastLinger,
	})

	manager := session.NewManager(kv, channel, log, session.Options{
		InactivityTimeout: c.InactivityTimeout,
		ActivityThrottle:  c.ActivityThrottle,
		SimulatedLatency:  c.SimulatedLatency,
	})
	manager.EnsureAdminBootstrap(ctx)

	hc := &http.Client{Timeout: 20 * time.Second}

	return &App{
		config:    c,
		kv:        kv,
		channel:   channel,
		manager:   manager,
		countries: countries.New(c.CountriesBaseURL, hc),
		weather:   weather.New(c.WeatherBaseURL, c.WeatherAPIKey, hc),
		creatures: creatures.New(c.CreaturesBaseURL, hc),
		reader:    bufio.NewReader(os.Stdin),
		log:       log,
	}, nil
}

// Run starts the REPL and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

// Close shuts the session manager down and releases the store.
func (a *App) Close() {
	a.manager.Close()
	_ = a.channel.Close()
	if err := a.kv.Close(); err != nil {
		a.log.Warn(context.Background(), "error closing store", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.manager.IsAuthenticated()
}

func (a *App) isAdmin() bool {
	return a.manager.IsAdmin()
}

// touch reports one keyboard interaction to the inactivity watchdog. Every
// entered command counts as activity.
func (a *App) touch() {
	a.manager.Signal(session.Activity{Kind: session.ActivityKeyPress})
}

func newLogger(backend string) (logging.Logger, error) {
	if backend == "zap" {
		zl, err := zap.NewProduction()
		if err != nil {
			return nil, err
		}
		return logging.NewZapLogger(zl), nil
	}
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))), nil
}
