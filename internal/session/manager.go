// Package session implements the client-side session manager: login,
// registration, logout with cross-context propagation, inactivity timeout,
// role checks and user administration, all backed by a shared persistent
// key-value store.
//
// There is no server. Authentication happens entirely against locally
// stored user records and is not a security boundary; the point of the
// package is the session lifecycle, not credential protection.
package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vkarpova/atlasinfo/internal/broadcast"
	"github.com/vkarpova/atlasinfo/internal/logging"
	"github.com/vkarpova/atlasinfo/internal/models"
	"github.com/vkarpova/atlasinfo/internal/store"
)

// Fixed accounts and values, identical to the system being replaced.
const (
	BootstrapAdminUsername = "admin"
	BootstrapAdminPassword = "admin123"
	BootstrapAdminEmail    = "admin@example.com"

	// RecoveryPassword is what ResetPassword sets the target account to.
	RecoveryPassword = "password123"
)

// Options tune the manager. Zero values fall back to the defaults below.
type Options struct {
	// InactivityTimeout ends an authenticated session after this long
	// without a qualifying activity signal.
	InactivityTimeout time.Duration
	// ActivityThrottle limits how often low-priority signals re-arm the
	// countdown.
	ActivityThrottle time.Duration
	// SimulatedLatency delays completion of login, register, password reset
	// and block toggle, standing in for a backend round trip. Negative
	// means no delay.
	SimulatedLatency time.Duration
	// DisableAutoLogout switches the inactivity watchdog off.
	DisableAutoLogout bool
}

const (
	DefaultInactivityTimeout = 30 * time.Second
	DefaultActivityThrottle  = 2 * time.Second
	DefaultSimulatedLatency  = 500 * time.Millisecond
)

func (o *Options) applyDefaults() {
	if o.InactivityTimeout <= 0 {
		o.InactivityTimeout = DefaultInactivityTimeout
	}
	if o.ActivityThrottle <= 0 {
		o.ActivityThrottle = DefaultActivityThrottle
	}
	if o.SimulatedLatency == 0 {
		o.SimulatedLatency = DefaultSimulatedLatency
	}
}

// Manager owns the session state machine: Anonymous <-> Authenticated.
//
// The store and the broadcast channel are both optional (nil). Without a
// store the manager degrades to an empty user list and an anonymous,
// non-persistent session; without a channel, logout simply stays local.
type Manager struct {
	kv   store.KV
	bc   broadcast.Channel
	log  logging.Logger
	opts Options

	state *observable
	wd    *watchdog

	// usersMu serializes read-modify-write cycles on the stored user list
	// within this context. Against writers in other contexts, stores that
	// implement txKV run each cycle in a transaction; plain stores can
	// still race and that is accepted.
	usersMu sync.Mutex

	wg   sync.WaitGroup
	done chan struct{}
	once sync.Once
}

// NewManager restores any persisted session from kv and starts observing
// the broadcast channel. Call Close when done.
func NewManager(kv store.KV, bc broadcast.Channel, log logging.Logger, opts Options) *Manager {
	if log == nil {
		log = logging.NewNopLogger()
	}
	opts.applyDefaults()

	m := &Manager{
		kv:   kv,
		bc:   bc,
		log:  log,
		opts: opts,
		done: make(chan struct{}),
	}

	initial := m.restoreState(context.Background())
	m.state = newObservable(initial)
	m.wd = newWatchdog(opts.InactivityTimeout, opts.ActivityThrottle, opts.DisableAutoLogout, m.autoLogout)
	if initial.IsAuthenticated {
		m.wd.setActive(true)
	}

	if bc != nil {
		m.wg.Add(1)
		go m.watchBroadcast()
	}

	return m
}

// Close stops the watchdog, the broadcast observer and all subscriptions.
// It does not close the injected store or channel.
func (m *Manager) Close() {
	m.once.Do(func() {
		close(m.done)
	})
	m.wd.setActive(false)
	m.wg.Wait()
	m.state.close()
}

// Subscribe returns a channel that immediately yields the current session
// state and then every transition, in order. The cancel function releases
// the subscription and closes the channel.
func (m *Manager) Subscribe() (<-chan models.SessionState, func()) {
	return m.state.subscribe()
}

// CurrentState returns the live session state.
func (m *Manager) CurrentState() models.SessionState {
	return m.state.get()
}

// CurrentUser returns the authenticated user snapshot, or nil.
func (m *Manager) CurrentUser() *models.PublicUser {
	return m.state.get().CurrentUser
}

// IsAuthenticated reports whether a session is active.
func (m *Manager) IsAuthenticated() bool {
	return m.state.get().IsAuthenticated
}

// IsAdmin reports whether the current session belongs to an admin user.
func (m *Manager) IsAdmin() bool {
	u := m.state.get().CurrentUser
	return u != nil && u.Role == models.RoleAdmin
}

// Signal reports a user-interaction signal to the inactivity watchdog.
func (m *Manager) Signal(a Activity) {
	m.wd.signal(a)
}

// LoginResult is the single-shot outcome of Login.
type LoginResult struct {
	User  models.PublicUser
	Token string
	Err   error
}

// Login authenticates against the stored user records. The result arrives
// on the returned channel after the simulated latency; the channel is
// buffered, so the caller may discard it.
//
// Unknown username, wrong password and a blocked account all fail with
// ErrInvalidCredentials.
func (m *Manager) Login(ctx context.Context, creds models.Credentials) <-chan LoginResult {
	ch := make(chan LoginResult, 1)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer close(ch)
		m.simulateLatency()

		users := m.loadUsers(ctx)
		var found *models.User
		for i := range users {
			u := &users[i]
			if u.Username == creds.Username && u.Password == creds.Password && !u.IsBlocked {
				found = u
				break
			}
		}
		if found == nil {
			ch <- LoginResult{Err: ErrInvalidCredentials}
			return
		}

		token, err := issueToken(*found, time.Now())
		if err != nil {
			ch <- LoginResult{Err: err}
			return
		}

		pub := found.Public()
		st := models.SessionState{
			IsAuthenticated: true,
			CurrentUser:     &pub,
			Token:           token,
		}
		m.state.set(st)
		m.persistState(ctx, st)
		m.wd.setActive(true)

		m.log.Info(ctx, "login successful", "user", pub.Username, "role", pub.Role)
		ch <- LoginResult{User: pub, Token: token}
	}()
	return ch
}

// RegisterResult is the single-shot outcome of Register.
type RegisterResult struct {
	User models.PublicUser
	Err  error
}

// Register creates a new standard-role, unblocked user record. It does not
// authenticate the new user. Username collisions are reported before email
// collisions.
func (m *Manager) Register(ctx context.Context, req models.RegisterRequest) <-chan RegisterResult {
	ch := make(chan RegisterResult, 1)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer close(ch)
		m.simulateLatency()

		var res RegisterResult
		m.updateUsers(ctx, func(users []models.User) ([]models.User, bool) {
			for _, u := range users {
				if u.Username == req.Username {
					res = RegisterResult{Err: ErrDuplicateUsername}
					return nil, false
				}
			}
			for _, u := range users {
				if u.Email == req.Email {
					res = RegisterResult{Err: ErrDuplicateEmail}
					return nil, false
				}
			}

			now := time.Now()
			user := models.User{
				ID:        uuid.NewString(),
				Username:  req.Username,
				Email:     req.Email,
				Password:  req.Password,
				Role:      models.RoleUser,
				IsBlocked: false,
				CreatedAt: now,
				UpdatedAt: now,
			}
			res = RegisterResult{User: user.Public()}
			return append(users, user), true
		})

		if res.Err == nil {
			m.log.Info(ctx, "user registered", "user", res.User.Username)
		}
		ch <- res
	}()
	return ch
}

// Logout clears the session. With syncTabs, the logout is broadcast so
// sibling contexts sharing the store log out as well. Logout never fails;
// store trouble degrades to a local-only logout.
func (m *Manager) Logout(ctx context.Context, syncTabs bool) {
	m.wd.setActive(false)
	m.state.set(models.Anonymous())

	if m.kv != nil {
		if err := m.kv.Delete(ctx, store.KeyAuthData); err != nil {
			m.log.Warn(ctx, "failed to clear persisted session", "error", err)
		}
	}

	if syncTabs && m.bc != nil {
		if err := m.bc.Publish(ctx); err != nil {
			m.log.Warn(ctx, "failed to broadcast logout", "error", err)
		}
	}

	m.log.Info(ctx, "logged out", "syncTabs", syncTabs)
}

// ResetPasswordResult is the single-shot outcome of ResetPassword.
type ResetPasswordResult struct {
	Err error
}

// ResetPassword sets the target user's password to the fixed recovery value
// and bumps its updated timestamp. An active session of that user is left
// untouched.
func (m *Manager) ResetPassword(ctx context.Context, userID string) <-chan ResetPasswordResult {
	ch := make(chan ResetPasswordResult, 1)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer close(ch)
		m.simulateLatency()

		res := ResetPasswordResult{Err: ErrUserNotFound}
		m.updateUsers(ctx, func(users []models.User) ([]models.User, bool) {
			for i := range users {
				if users[i].ID == userID {
					users[i].Password = RecoveryPassword
					users[i].UpdatedAt = time.Now()
					m.log.Info(ctx, "password reset", "user", users[i].Username)
					res = ResetPasswordResult{}
					return users, true
				}
			}
			return nil, false
		})
		ch <- res
	}()
	return ch
}

// ToggleBlockResult is the single-shot outcome of ToggleBlock.
type ToggleBlockResult struct {
	User models.PublicUser
	Err  error
}

// ToggleBlock flips the blocked flag of the target user and returns the
// updated record. An already-active session of that user is not terminated.
func (m *Manager) ToggleBlock(ctx context.Context, userID string) <-chan ToggleBlockResult {
	ch := make(chan ToggleBlockResult, 1)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer close(ch)
		m.simulateLatency()

		res := ToggleBlockResult{Err: ErrUserNotFound}
		m.updateUsers(ctx, func(users []models.User) ([]models.User, bool) {
			for i := range users {
				if users[i].ID == userID {
					users[i].IsBlocked = !users[i].IsBlocked
					users[i].UpdatedAt = time.Now()
					m.log.Info(ctx, "block toggled", "user", users[i].Username, "blocked", users[i].IsBlocked)
					res = ToggleBlockResult{User: users[i].Public()}
					return users, true
				}
			}
			return nil, false
		})
		ch <- res
	}()
	return ch
}

// EnsureAdminBootstrap guarantees that one admin account exists. Idempotent:
// when any stored user already has the admin role it does nothing.
func (m *Manager) EnsureAdminBootstrap(ctx context.Context) {
	m.updateUsers(ctx, func(users []models.User) ([]models.User, bool) {
		for _, u := range users {
			if u.Role == models.RoleAdmin {
				return nil, false
			}
		}

		now := time.Now()
		admin := models.User{
			ID:        uuid.NewString(),
			Username:  BootstrapAdminUsername,
			Email:     BootstrapAdminEmail,
			Password:  BootstrapAdminPassword,
			Role:      models.RoleAdmin,
			CreatedAt: now,
			UpdatedAt: now,
		}
		m.log.Info(ctx, "bootstrap admin created", "user", admin.Username)
		return append(users, admin), true
	})
}

// ListUsers returns all stored users, password redacted, in storage order.
// An unavailable store yields an empty list.
func (m *Manager) ListUsers(ctx context.Context) []models.PublicUser {
	users := m.loadUsers(ctx)
	out := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out
}

// autoLogout is the watchdog expiry path: same effect as an explicit
// logout, broadcast included.
func (m *Manager) autoLogout() {
	ctx := context.Background()
	m.log.Info(ctx, "auto logout after inactivity", "timeout", m.opts.InactivityTimeout)
	m.Logout(ctx, true)
}

func (m *Manager) watchBroadcast() {
	defer m.wg.Done()
	for {
		select {
		case <-m.done:
			return
		case _, ok := <-m.bc.Notifications():
			if !ok {
				return
			}
			// A sibling context logged out: follow locally without
			// re-broadcasting, or the marker would bounce forever.
			m.Logout(context.Background(), false)
		}
	}
}

func (m *Manager) simulateLatency() {
	if m.opts.SimulatedLatency > 0 {
		time.Sleep(m.opts.SimulatedLatency)
	}
}

// restoreState loads the persisted session, if any. Unreadable or
// inconsistent data clears the key and falls back to anonymous.
func (m *Manager) restoreState(ctx context.Context) models.SessionState {
	if m.kv == nil {
		return models.Anonymous()
	}

	v, err := m.kv.Get(ctx, store.KeyAuthData)
	if err != nil {
		m.log.Warn(ctx, "failed to read persisted session", "error", err)
		return models.Anonymous()
	}
	if v == nil {
		return models.Anonymous()
	}

	var st models.SessionState
	if err := json.Unmarshal(v, &st); err != nil {
		m.log.Warn(ctx, "corrupt persisted session, clearing", "error", err)
		_ = m.kv.Delete(ctx, store.KeyAuthData)
		return models.Anonymous()
	}

	if st.IsAuthenticated && (st.CurrentUser == nil || st.Token == "") {
		m.log.Warn(ctx, "inconsistent persisted session, clearing")
		_ = m.kv.Delete(ctx, store.KeyAuthData)
		return models.Anonymous()
	}

	return st
}

func (m *Manager) persistState(ctx context.Context, st models.SessionState) {
	if m.kv == nil {
		return
	}
	data, err := json.Marshal(st)
	if err != nil {
		m.log.Warn(ctx, "failed to encode session", "error", err)
		return
	}
	if err := m.kv.Set(ctx, store.KeyAuthData, data); err != nil {
		m.log.Warn(ctx, "failed to persist session", "error", err)
	}
}

// txKV is satisfied by stores that can run several operations in one
// transaction (see store.SQLite.InTx).
type txKV interface {
	InTx(ctx context.Context, fn func(kv store.KV) error) error
}

// updateUsers runs fn against the stored user list and, when fn reports a
// change, writes the result back. On stores implementing txKV the whole
// cycle runs in one transaction; usersMu additionally serializes cycles
// within this process.
func (m *Manager) updateUsers(ctx context.Context, fn func(users []models.User) ([]models.User, bool)) {
	m.usersMu.Lock()
	defer m.usersMu.Unlock()

	cycle := func(kv store.KV) {
		users := m.loadUsersFrom(ctx, kv)
		if updated, changed := fn(users); changed {
			m.saveUsersTo(ctx, kv, updated)
		}
	}

	if tkv, ok := m.kv.(txKV); ok {
		err := tkv.InTx(ctx, func(kv store.KV) error {
			cycle(kv)
			return nil
		})
		if err != nil {
			m.log.Warn(ctx, "user list transaction failed", "error", err)
		}
		return
	}
	cycle(m.kv)
}

// loadUsers reads the stored user list, degrading to empty when the store
// is missing, unreadable or corrupt.
func (m *Manager) loadUsers(ctx context.Context) []models.User {
	return m.loadUsersFrom(ctx, m.kv)
}

func (m *Manager) loadUsersFrom(ctx context.Context, kv store.KV) []models.User {
	if kv == nil {
		return nil
	}
	v, err := kv.Get(ctx, store.KeyUsers)
	if err != nil {
		m.log.Warn(ctx, "failed to read users", "error", err)
		return nil
	}
	if v == nil {
		return nil
	}
	var users []models.User
	if err := json.Unmarshal(v, &users); err != nil {
		m.log.Warn(ctx, "corrupt user list", "error", err)
		return nil
	}
	return users
}

func (m *Manager) saveUsersTo(ctx context.Context, kv store.KV, users []models.User) {
	if kv == nil {
		return
	}
	data, err := json.Marshal(users)
	if err != nil {
		m.log.Warn(ctx, "failed to encode users", "error", err)
		return
	}
	if err := kv.Set(ctx, store.KeyUsers, data); err != nil {
		m.log.Warn(ctx, "failed to save users", "error", err)
	}
}
