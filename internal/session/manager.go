// Copyright (c) 2025 Forcedlogin
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	apperr "forcedlogin/cli/internal/errors"
	"forcedlogin/cli/internal/network"
)

// ClientFactory builds a provider bound to an authority.
type ClientFactory func(authority Authority, integratedAuth bool) (Provider, error)

// Options selects the authority strategy for Configure.
type Options struct {
	Authority      Authority
	IntegratedAuth bool
}

// Observer receives session events. It runs synchronously inside the operation
// that changed state and must not call Login, Logout, SilentLogin,
// GetAccessToken or Configure.
type Observer func(Event)

// Manager orchestrates login, silent refresh, expiry checks and logout.
type Manager struct {
	newClient ClientFactory
	network   network.Checker
	now       func() time.Time

	// opMu serializes every operation that may reach the provider.
	opMu    sync.Mutex
	refresh singleflight.Group

	mu         sync.RWMutex
	client     Provider
	integrated bool
	authority  Authority
	observers  []observerEntry
	nextID     int

	store TokenStore
}

type observerEntry struct {
	id int
	fn Observer
}

// ManagerOption customizes a Manager.
type ManagerOption func(*Manager)

// WithClock replaces time.Now for expiry checks.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// NewManager returns an unconfigured Manager. Configure must run before Login.
func NewManager(factory ClientFactory, checker network.Checker, opts ...ManagerOption) *Manager {
	m := &Manager{
		newClient: factory,
		network:   checker,
		now:       time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Subscribe registers an observer and returns a function that removes it.
func (m *Manager) Subscribe(fn Observer) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := m.nextID
	m.observers = append(m.observers, observerEntry{id: id, fn: fn})
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, o := range m.observers {
			if o.id == id {
				m.observers = append(m.observers[:i:i], m.observers[i+1:]...)
				return
			}
		}
	}
}

func (m *Manager) notify(e Event) {
	m.mu.RLock()
	observers := make([]observerEntry, len(m.observers))
	copy(observers, m.observers)
	m.mu.RUnlock()

	logrus.WithField("event", e.String()).Debug("session event")
	for _, o := range observers {
		o.fn(e)
	}
}

// Configure binds a new provider client. Reconfiguring drops any current session.
func (m *Manager) Configure(opts Options) error {
	if err := opts.Authority.Validate(); err != nil {
		return err
	}
	client, err := m.newClient(opts.Authority, opts.IntegratedAuth)
	if err != nil {
		return apperr.Wrap(apperr.InvalidConfig, "creating identity client", err)
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.mu.Lock()
	m.client = client
	m.integrated = opts.IntegratedAuth
	m.authority = opts.Authority
	m.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"authority":       opts.Authority.String(),
		"integrated_auth": opts.IntegratedAuth,
	}).Debug("session configured")

	if m.store.Clear() {
		m.notify(LoggedOut)
	}
	return nil
}

func (m *Manager) provider() (Provider, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.client, m.integrated
}

// Authority returns the audience of the current configuration.
func (m *Manager) Authority() Authority {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.authority
}

// IsLoggedIn reports whether a session is present.
func (m *Manager) IsLoggedIn() bool {
	_, ok := m.store.Get()
	return ok
}

// AccountDisplayName returns the signed-in account's username, or "".
func (m *Manager) AccountDisplayName() string {
	s, ok := m.store.Get()
	if !ok {
		return ""
	}
	return s.Username
}

// Login runs interactive sign-in for the first known account.
func (m *Manager) Login(ctx context.Context) LoginOutcome {
	if !m.network.Available() {
		logrus.WithField("kind", apperr.NoNetwork).Info("interactive login skipped")
		return LoginOutcome{Result: LoginNoNetwork}
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()

	client, integrated := m.provider()
	if client == nil {
		logrus.WithError(apperr.New(apperr.NotConfigured, "login before configure")).Error("login failed")
		return LoginOutcome{Result: LoginUnknownError}
	}

	accounts, err := client.Accounts(ctx)
	if err != nil {
		logrus.WithError(err).Warn("listing accounts for login")
		return LoginOutcome{Result: LoginUnknownError}
	}
	var hint *Account
	if len(accounts) > 0 {
		hint = &accounts[0]
	}

	grant, err := client.AcquireInteractive(ctx, Scopes, hint)
	if err != nil {
		if apperr.Is(err, apperr.CancelledByUser) {
			logrus.Debug("interactive login cancelled")
			return LoginOutcome{Result: LoginCancelledByUser}
		}
		logrus.WithError(err).Warn("interactive login failed")
		return LoginOutcome{Result: LoginUnknownError}
	}

	s := m.newSession(grant, integrated)
	m.store.Set(s)
	logrus.WithFields(logrus.Fields{
		"session_id": s.ID,
		"expires_on": s.ExpiresOn,
	}).Info("logged in")
	m.notify(LoggedIn)
	return LoginOutcome{Result: LoginSucceeded, Session: &s}
}

// Logout forgets the provider account when one is known and always drops the
// local session. Provider failures are logged, never returned.
func (m *Manager) Logout(ctx context.Context) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if client, _ := m.provider(); client != nil {
		accounts, err := client.Accounts(ctx)
		switch {
		case err != nil:
			logrus.WithError(err).Warn("listing accounts for logout")
		case len(accounts) > 0:
			if err := client.RemoveAccount(ctx, accounts[0]); err != nil {
				// TODO: decide with product whether a failed account removal should fail logout.
				logrus.WithError(err).Warn("removing provider account")
			}
		}
	}

	m.store.Clear()
	logrus.Info("logged out")
	m.notify(LoggedOut)
}

// GetAccessToken returns a usable access token, refreshing silently when the
// current one has expired. An unrefreshable session is logged out and "" returned.
// Without a session it only tries a silent login; LoggedOut is not raised.
func (m *Manager) GetAccessToken(ctx context.Context) string {
	if s, ok := m.store.Get(); ok && !s.Expired(m.now()) {
		return s.AccessToken
	}

	v, _, _ := m.refresh.Do("refresh", func() (any, error) {
		m.opMu.Lock()
		defer m.opMu.Unlock()

		// Another operation may have refreshed while we waited.
		if s, ok := m.store.Get(); ok && !s.Expired(m.now()) {
			return s.AccessToken, nil
		}
		if m.silentLogin(ctx) {
			s, _ := m.store.Get()
			return s.AccessToken, nil
		}

		if m.store.Clear() {
			logrus.Info("session expired and could not be refreshed")
			m.notify(LoggedOut)
		}
		return "", nil
	})
	return v.(string)
}

// SilentLogin tries to obtain a session without prompting the user.
// It never raises LoggedIn.
func (m *Manager) SilentLogin(ctx context.Context) bool {
	m.opMu.Lock()
	defer m.opMu.Unlock()
	return m.silentLogin(ctx)
}

func (m *Manager) silentLogin(ctx context.Context) bool {
	if !m.network.Available() {
		logrus.WithField("kind", apperr.NoNetwork).Debug("silent login skipped")
		return false
	}
	client, integrated := m.provider()
	if client == nil {
		return false
	}

	var (
		grant Grant
		err   error
	)
	if integrated {
		grant, err = client.AcquireIntegrated(ctx, Scopes)
	} else {
		var accounts []Account
		accounts, err = client.Accounts(ctx)
		if err == nil && len(accounts) == 0 {
			err = apperr.New(apperr.UIRequired, "no cached account")
		}
		if err == nil {
			grant, err = client.AcquireSilent(ctx, Scopes, accounts[0])
		}
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"kind":       apperr.KindOf(err),
			"integrated": integrated,
		}).WithError(err).Debug("silent login failed")
		return false
	}

	s := m.newSession(grant, integrated)
	m.store.Set(s)
	logrus.WithFields(logrus.Fields{
		"session_id": s.ID,
		"expires_on": s.ExpiresOn,
	}).Debug("session refreshed silently")
	return true
}

func (m *Manager) newSession(g Grant, integrated bool) Session {
	return Session{
		ID:             uuid.NewString(),
		AccessToken:    g.AccessToken,
		ExpiresOn:      g.ExpiresOn,
		AccountID:      g.Account.ID,
		Username:       g.Account.Username,
		IntegratedAuth: integrated,
	}
}
