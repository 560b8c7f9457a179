package session

import (
	"encoding/json"
	"errors"
	"strconv"
	"sync"

	"github.com/adspay/console/credstore"
)

// Manager owns the in-memory session tuple and keeps it in lockstep with
// the credential store. It is wired explicitly into the scheduler, the
// gateway transport and the route guard instead of living as a package
// singleton, so all of them share one view of the session.
type Manager struct {
	store *credstore.Store

	mu       sync.RWMutex
	current  Snapshot
	watchers []func(Snapshot)
}

func NewManager(store *credstore.Store) *Manager {
	return &Manager{store: store}
}

// Hydrate loads the session tuple from the credential store. It is
// best-effort: missing or corrupt entries read back as absent, so a damaged
// store degrades to a logged-out console rather than a failed start. A
// token pair is only adopted when the access token is present, keeping the
// authenticated-iff-access-token invariant.
func (m *Manager) Hydrate() {
	access, ok := m.store.Get(KeyAccessToken)
	if !ok {
		return
	}
	snap := Snapshot{AccessToken: access}
	if refresh, ok := m.store.Get(KeyRefreshToken); ok {
		snap.RefreshToken = refresh
	}
	if raw, ok := m.store.Get(KeyUser); ok {
		var user User
		if err := json.Unmarshal([]byte(raw), &user); err == nil {
			snap.User = &user
		}
	}
	if raw, ok := m.store.Get(KeyExpiresAt); ok {
		if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
			snap.ExpiresAt = ms
		}
	}

	m.mu.Lock()
	m.current = snap
	m.mu.Unlock()
	m.notify(snap)
}

// SetAuth replaces the whole session tuple: all four values are persisted
// through the credential store, then the in-memory tuple is swapped and
// watchers are notified. There is never a partially-updated tuple in
// memory; the sequential durable writes form one logical transaction.
func (m *Manager) SetAuth(user *User, accessToken, refreshToken string, expiresAt int64) error {
	var errs []error
	errs = append(errs, m.store.Set(KeyAccessToken, accessToken))
	errs = append(errs, m.store.Set(KeyRefreshToken, refreshToken))
	userJSON, err := json.Marshal(user)
	if err != nil {
		errs = append(errs, err)
	} else {
		errs = append(errs, m.store.Set(KeyUser, string(userJSON)))
	}
	errs = append(errs, m.store.Set(KeyExpiresAt, strconv.FormatInt(expiresAt, 10)))

	snap := Snapshot{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}
	m.mu.Lock()
	m.current = snap
	m.mu.Unlock()
	m.notify(snap)

	return errors.Join(errs...)
}

// ClearAuth nulls the tuple and removes all four durable entries.
func (m *Manager) ClearAuth() error {
	errs := []error{
		m.store.Remove(KeyAccessToken),
		m.store.Remove(KeyRefreshToken),
		m.store.Remove(KeyUser),
		m.store.Remove(KeyExpiresAt),
	}

	m.mu.Lock()
	m.current = Snapshot{}
	m.mu.Unlock()
	m.notify(Snapshot{})

	return errors.Join(errs...)
}

// State returns the current tuple. It is the synchronous accessor used by
// the gateway transport and the scheduler.
func (m *Manager) State() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Watch registers fn to be called after every tuple change. Callbacks run
// outside the manager's lock, so a watcher may call back into the manager.
func (m *Manager) Watch(fn func(Snapshot)) {
	m.mu.Lock()
	m.watchers = append(m.watchers, fn)
	m.mu.Unlock()
}

func (m *Manager) notify(snap Snapshot) {
	m.mu.RLock()
	watchers := make([]func(Snapshot), len(m.watchers))
	copy(watchers, m.watchers)
	m.mu.RUnlock()
	for _, fn := range watchers {
		fn(snap)
	}
}
