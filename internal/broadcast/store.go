package broadcast

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vkarpova/atlasinfo/internal/logging"
	"github.com/vkarpova/atlasinfo/internal/store"
)

const (
	// DefaultPollInterval is how often the marker key is checked.
	DefaultPollInterval = 50 * time.Millisecond
	// DefaultLinger is how long a published marker stays in the store
	// before the writer removes it.
	DefaultLinger = 100 * time.Millisecond
)

// StoreChannel implements Channel on top of a shared KV store.
type StoreChannel struct {
	kv   store.KV
	log  logging.Logger
	poll time.Duration
	// linger keeps the marker visible long enough for sibling pollers.
	linger time.Duration

	// publishing suppresses self-notification while our own marker is live.
	publishing atomic.Bool

	notify chan struct{}
	done   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

// StoreChannelOptions tune the watcher; zero values fall back to defaults.
type StoreChannelOptions struct {
	PollInterval time.Duration
	Linger       time.Duration
}

// NewStoreChannel starts watching the logout marker key in kv.
func NewStoreChannel(kv store.KV, log logging.Logger, opts StoreChannelOptions) *StoreChannel {
	if log == nil {
		log = logging.NewNopLogger()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Linger <= 0 {
		opts.Linger = DefaultLinger
	}

	c := &StoreChannel{
		kv:     kv,
		log:    log,
		poll:   opts.PollInterval,
		linger: opts.Linger,
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}

	c.wg.Add(1)
	go c.watch()

	return c
}

// Publish writes the marker, waits out the linger, and removes it again.
// The removal runs in the background; Publish itself does not block.
func (c *StoreChannel) Publish(ctx context.Context) error {
	c.publishing.Store(true)

	if err := c.kv.Set(ctx, store.KeyLogout, []byte(store.LogoutMarker)); err != nil {
		c.publishing.Store(false)
		return err
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		select {
		case <-time.After(c.linger):
		case <-c.done:
		}
		// Best effort: a leftover marker is cleaned up by the next publisher.
		if err := c.kv.Delete(context.Background(), store.KeyLogout); err != nil {
			c.log.Warn(context.Background(), "failed to remove logout marker", "error", err)
		}
		c.publishing.Store(false)
	}()

	return nil
}

func (c *StoreChannel) Notifications() <-chan struct{} {
	return c.notify
}

// Close stops the watcher. Safe to call more than once.
func (c *StoreChannel) Close() error {
	c.once.Do(func() {
		close(c.done)
	})
	c.wg.Wait()
	return nil
}

// watch polls the marker key and emits one notification per observed marker.
// A marker must disappear before a new one is reported again.
func (c *StoreChannel) watch() {
	defer c.wg.Done()
	defer close(c.notify)

	ticker := time.NewTicker(c.poll)
	defer ticker.Stop()

	seen := false
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
		}

		v, err := c.kv.Get(context.Background(), store.KeyLogout)
		if err != nil {
			c.log.Warn(context.Background(), "logout marker poll failed", "error", err)
			continue
		}

		present := string(v) == store.LogoutMarker
		switch {
		case present && !seen:
			seen = true
			if c.publishing.Load() {
				continue // our own marker
			}
			select {
			case c.notify <- struct{}{}:
			default:
				// a pending notification already covers this marker
			}
		case !present && seen:
			seen = false
		}
	}
}
