package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "forcedlogin/cli/internal/errors"
	"forcedlogin/cli/internal/network"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// fakeProvider records every call and answers from canned results.
type fakeProvider struct {
	mu sync.Mutex

	accounts    []Account
	accountsErr error

	interactive    Grant
	interactiveErr error
	silent         Grant
	silentErr      error
	integrated     Grant
	integratedErr  error
	removeErr      error

	calls          []string
	removed        []Account
	interactiveFor *Account
}

func (f *fakeProvider) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeProvider) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeProvider) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeProvider) Accounts(ctx context.Context) ([]Account, error) {
	f.record("accounts")
	return f.accounts, f.accountsErr
}

func (f *fakeProvider) AcquireInteractive(ctx context.Context, scopes []string, account *Account) (Grant, error) {
	f.record("interactive")
	f.interactiveFor = account
	return f.interactive, f.interactiveErr
}

func (f *fakeProvider) AcquireSilent(ctx context.Context, scopes []string, account Account) (Grant, error) {
	f.record("silent")
	return f.silent, f.silentErr
}

func (f *fakeProvider) AcquireIntegrated(ctx context.Context, scopes []string) (Grant, error) {
	f.record("integrated")
	return f.integrated, f.integratedErr
}

func (f *fakeProvider) RemoveAccount(ctx context.Context, account Account) error {
	f.record("remove")
	f.removed = append(f.removed, account)
	return f.removeErr
}

// eventLog counts observer notifications.
type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) observe(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) count(e Event) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, got := range l.events {
		if got == e {
			n++
		}
	}
	return n
}

type fixture struct {
	provider *fakeProvider
	online   bool
	now      time.Time
	events   *eventLog
	manager  *Manager
}

func newFixture(t *testing.T, integrated bool) *fixture {
	t.Helper()
	f := &fixture{
		provider: &fakeProvider{},
		online:   true,
		now:      testNow,
		events:   &eventLog{},
	}
	factory := func(Authority, bool) (Provider, error) { return f.provider, nil }
	f.manager = NewManager(factory,
		network.CheckerFunc(func() bool { return f.online }),
		WithClock(func() time.Time { return f.now }))
	require.NoError(t, f.manager.Configure(Options{Authority: Authority{Kind: MultiOrg}, IntegratedAuth: integrated}))
	f.manager.Subscribe(f.events.observe)
	return f
}

func grant(token string, expires time.Time) Grant {
	return Grant{
		AccessToken: token,
		ExpiresOn:   expires,
		Account:     Account{ID: "home-1", Username: "adele@contoso.com"},
	}
}

func (f *fixture) loggedIn(t *testing.T, token string, expires time.Time) {
	t.Helper()
	f.provider.interactive = grant(token, expires)
	out := f.manager.Login(context.Background())
	require.Equal(t, LoginSucceeded, out.Result)
	f.provider.calls = nil
	f.events.events = nil
}

func TestGetAccessTokenValidSessionMakesNoProviderCall(t *testing.T) {
	f := newFixture(t, false)
	f.loggedIn(t, "token-1", testNow.Add(time.Hour))

	for i := 0; i < 3; i++ {
		f.now = testNow.Add(time.Duration(i) * 10 * time.Minute)
		assert.Equal(t, "token-1", f.manager.GetAccessToken(context.Background()))
	}
	assert.Zero(t, f.provider.total())
	assert.Empty(t, f.events.events)
}

func TestGetAccessTokenRefreshesExpiredSession(t *testing.T) {
	f := newFixture(t, false)
	f.loggedIn(t, "token-1", testNow.Add(time.Minute))
	f.now = testNow.Add(time.Minute)
	f.provider.accounts = []Account{{ID: "home-1", Username: "adele@contoso.com"}}
	f.provider.silent = grant("token-2", testNow.Add(2*time.Hour))

	assert.Equal(t, "token-2", f.manager.GetAccessToken(context.Background()))
	assert.Equal(t, 1, f.provider.count("silent"))
	assert.True(t, f.manager.IsLoggedIn())
	assert.Zero(t, f.events.count(LoggedIn))
	assert.Zero(t, f.events.count(LoggedOut))
}

func TestGetAccessTokenExpiredAndUnrefreshable(t *testing.T) {
	f := newFixture(t, false)
	f.loggedIn(t, "token-1", testNow.Add(-time.Second))
	f.provider.accounts = []Account{{ID: "home-1"}}
	f.provider.silentErr = apperr.New(apperr.UIRequired, "refresh token expired")

	assert.Equal(t, "", f.manager.GetAccessToken(context.Background()))
	assert.False(t, f.manager.IsLoggedIn())
	assert.Equal(t, "", f.manager.AccountDisplayName())
	assert.Equal(t, 1, f.events.count(LoggedOut))
}

func TestGetAccessTokenWithoutSessionTriesSilentLogin(t *testing.T) {
	f := newFixture(t, false)
	f.provider.accounts = []Account{{ID: "home-1", Username: "adele@contoso.com"}}
	f.provider.silent = grant("token-9", testNow.Add(time.Hour))

	assert.Equal(t, "token-9", f.manager.GetAccessToken(context.Background()))
	assert.Equal(t, "adele@contoso.com", f.manager.AccountDisplayName())
	assert.Zero(t, f.events.count(LoggedIn))
}

func TestGetAccessTokenWithoutSessionAndNoRefreshStaysQuiet(t *testing.T) {
	f := newFixture(t, false)
	f.online = false

	assert.Equal(t, "", f.manager.GetAccessToken(context.Background()))
	assert.Zero(t, f.provider.total())
	assert.Zero(t, f.events.count(LoggedOut))

	f.online = true
	f.provider.accounts = []Account{{ID: "home-1"}}
	f.provider.silentErr = apperr.New(apperr.UIRequired, "no refresh token")

	assert.Equal(t, "", f.manager.GetAccessToken(context.Background()))
	assert.Equal(t, 1, f.provider.count("silent"))
	assert.Empty(t, f.events.events)
}

func TestSilentLoginOfflineLogsNoNetwork(t *testing.T) {
	hook := test.NewGlobal()
	level := logrus.GetLevel()
	logrus.SetLevel(logrus.DebugLevel)
	t.Cleanup(func() { logrus.SetLevel(level); hook.Reset() })

	f := newFixture(t, false)
	f.online = false

	assert.False(t, f.manager.SilentLogin(context.Background()))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, apperr.NoNetwork, hook.LastEntry().Data["kind"])
}

func TestGetAccessTokenConcurrentCallersShareRefresh(t *testing.T) {
	f := newFixture(t, false)
	f.provider.accounts = []Account{{ID: "home-1"}}
	f.provider.silent = grant("token-3", testNow.Add(time.Hour))

	var wg sync.WaitGroup
	tokens := make([]string, 8)
	for i := range tokens {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i] = f.manager.GetAccessToken(context.Background())
		}(i)
	}
	wg.Wait()

	for _, tok := range tokens {
		assert.Equal(t, "token-3", tok)
	}
	assert.Equal(t, 1, f.provider.count("silent"))
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name      string
		online    bool
		accounts  []Account
		err       error
		want      LoginResult
		wantCalls int
	}{
		{name: "success", online: true, want: LoginSucceeded, wantCalls: 2},
		{name: "offline", online: false, want: LoginNoNetwork, wantCalls: 0},
		{name: "cancelled", online: true, err: apperr.New(apperr.CancelledByUser, "closed browser"), want: LoginCancelledByUser, wantCalls: 2},
		{name: "other failure", online: true, err: errors.New("boom"), want: LoginUnknownError, wantCalls: 2},
		{name: "ui required is unknown at login", online: true, err: apperr.New(apperr.UIRequired, "x"), want: LoginUnknownError, wantCalls: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, false)
			f.online = tt.online
			f.provider.interactive = grant("token-1", testNow.Add(time.Hour))
			f.provider.interactiveErr = tt.err

			out := f.manager.Login(context.Background())

			assert.Equal(t, tt.want, out.Result)
			assert.Equal(t, tt.wantCalls, f.provider.total())
			if tt.want == LoginSucceeded {
				require.NotNil(t, out.Session)
				assert.Equal(t, "token-1", out.Session.AccessToken)
				assert.NotEmpty(t, out.Session.ID)
				assert.True(t, f.manager.IsLoggedIn())
				assert.Equal(t, 1, f.events.count(LoggedIn))
			} else {
				assert.Nil(t, out.Session)
				assert.False(t, f.manager.IsLoggedIn())
				assert.Zero(t, f.events.count(LoggedIn))
			}
		})
	}
}

func TestLoginUsesFirstAccountAsHint(t *testing.T) {
	f := newFixture(t, false)
	f.provider.accounts = []Account{{ID: "a", Username: "first@contoso.com"}, {ID: "b"}}
	f.provider.interactive = grant("token-1", testNow.Add(time.Hour))

	f.manager.Login(context.Background())

	require.NotNil(t, f.provider.interactiveFor)
	assert.Equal(t, "first@contoso.com", f.provider.interactiveFor.Username)
}

func TestLoginFailureKeepsExistingSession(t *testing.T) {
	f := newFixture(t, false)
	f.loggedIn(t, "token-1", testNow.Add(time.Hour))
	f.provider.interactiveErr = errors.New("boom")

	assert.Equal(t, LoginUnknownError, f.manager.Login(context.Background()).Result)
	assert.Equal(t, "token-1", f.manager.GetAccessToken(context.Background()))
}

func TestLoginBeforeConfigure(t *testing.T) {
	m := NewManager(nil, network.CheckerFunc(func() bool { return true }))
	assert.Equal(t, LoginUnknownError, m.Login(context.Background()).Result)
	assert.False(t, m.SilentLogin(context.Background()))
}

func TestInteractiveLoginVersusSilentRefreshEvents(t *testing.T) {
	f := newFixture(t, false)
	f.provider.interactive = grant("token-1", testNow.Add(time.Hour))
	f.provider.accounts = []Account{{ID: "home-1"}}
	f.provider.silent = grant("token-2", testNow.Add(time.Hour))

	require.Equal(t, LoginSucceeded, f.manager.Login(context.Background()).Result)
	for i := 0; i < 5; i++ {
		require.True(t, f.manager.SilentLogin(context.Background()))
	}

	assert.Equal(t, 1, f.events.count(LoggedIn))
	assert.Equal(t, 5, f.provider.count("silent"))
	assert.Equal(t, "token-2", f.manager.GetAccessToken(context.Background()))
}

func TestSilentLoginOfflineMakesNoProviderCall(t *testing.T) {
	for _, integrated := range []bool{false, true} {
		f := newFixture(t, integrated)
		f.online = false

		assert.False(t, f.manager.SilentLogin(context.Background()))
		assert.Zero(t, f.provider.total())
	}
}

func TestSilentLoginStrategies(t *testing.T) {
	t.Run("integrated uses no account", func(t *testing.T) {
		f := newFixture(t, true)
		f.provider.integrated = grant("iwa-token", testNow.Add(time.Hour))

		require.True(t, f.manager.SilentLogin(context.Background()))
		assert.Equal(t, 1, f.provider.count("integrated"))
		assert.Zero(t, f.provider.count("accounts"))
		assert.Zero(t, f.provider.count("silent"))

		s, ok := f.manager.store.Get()
		require.True(t, ok)
		assert.True(t, s.IntegratedAuth)
	})

	t.Run("account bound without accounts", func(t *testing.T) {
		f := newFixture(t, false)

		assert.False(t, f.manager.SilentLogin(context.Background()))
		assert.Equal(t, 1, f.provider.count("accounts"))
		assert.Zero(t, f.provider.count("silent"))
	})

	t.Run("ui required and other errors both fail", func(t *testing.T) {
		for _, err := range []error{apperr.New(apperr.UIRequired, "x"), errors.New("boom")} {
			f := newFixture(t, false)
			f.provider.accounts = []Account{{ID: "home-1"}}
			f.provider.silentErr = err
			assert.False(t, f.manager.SilentLogin(context.Background()))
			assert.False(t, f.manager.IsLoggedIn())
		}
	})
}

func TestLogout(t *testing.T) {
	f := newFixture(t, false)
	f.loggedIn(t, "token-1", testNow.Add(time.Hour))
	f.provider.accounts = []Account{{ID: "home-1", Username: "adele@contoso.com"}}

	f.manager.Logout(context.Background())

	assert.False(t, f.manager.IsLoggedIn())
	assert.Equal(t, 1, f.events.count(LoggedOut))
	require.Len(t, f.provider.removed, 1)
	assert.Equal(t, "home-1", f.provider.removed[0].ID)
}

func TestLogoutWhenAlreadyLoggedOut(t *testing.T) {
	f := newFixture(t, false)

	f.manager.Logout(context.Background())

	assert.Equal(t, 1, f.events.count(LoggedOut))
	assert.Zero(t, f.provider.count("remove"))
	assert.False(t, f.manager.IsLoggedIn())
}

func TestLogoutSwallowsProviderErrors(t *testing.T) {
	t.Run("remove fails", func(t *testing.T) {
		f := newFixture(t, false)
		f.loggedIn(t, "token-1", testNow.Add(time.Hour))
		f.provider.accounts = []Account{{ID: "home-1"}}
		f.provider.removeErr = errors.New("cache locked")

		f.manager.Logout(context.Background())

		assert.False(t, f.manager.IsLoggedIn())
		assert.Equal(t, 1, f.events.count(LoggedOut))
	})

	t.Run("listing fails", func(t *testing.T) {
		f := newFixture(t, false)
		f.loggedIn(t, "token-1", testNow.Add(time.Hour))
		f.provider.accountsErr = errors.New("cache locked")

		f.manager.Logout(context.Background())

		assert.Zero(t, f.provider.count("remove"))
		assert.False(t, f.manager.IsLoggedIn())
		assert.Equal(t, 1, f.events.count(LoggedOut))
	})
}

func TestConfigure(t *testing.T) {
	t.Run("reconfigure logs out", func(t *testing.T) {
		f := newFixture(t, false)
		f.loggedIn(t, "token-1", testNow.Add(time.Hour))

		require.NoError(t, f.manager.Configure(Options{Authority: Authority{Kind: SingleOrg, Tenant: "contoso.com"}}))

		assert.False(t, f.manager.IsLoggedIn())
		assert.Equal(t, 1, f.events.count(LoggedOut))
		assert.Equal(t, SingleOrg, f.manager.Authority().Kind)
	})

	t.Run("invalid authority keeps client", func(t *testing.T) {
		f := newFixture(t, false)
		f.loggedIn(t, "token-1", testNow.Add(time.Hour))

		err := f.manager.Configure(Options{Authority: Authority{Kind: SingleOrg}})

		assert.True(t, apperr.Is(err, apperr.InvalidConfig))
		assert.True(t, f.manager.IsLoggedIn())
		assert.Equal(t, MultiOrg, f.manager.Authority().Kind)
	})

	t.Run("factory failure", func(t *testing.T) {
		m := NewManager(func(Authority, bool) (Provider, error) { return nil, errors.New("bad client id") },
			network.CheckerFunc(func() bool { return true }))

		err := m.Configure(Options{Authority: Authority{Kind: ConsumerAndOrg}})
		assert.True(t, apperr.Is(err, apperr.InvalidConfig))
	})
}

func TestSubscribeUnsubscribe(t *testing.T) {
	f := newFixture(t, false)
	second := &eventLog{}
	unsubscribe := f.manager.Subscribe(second.observe)

	f.manager.Logout(context.Background())
	unsubscribe()
	f.manager.Logout(context.Background())

	assert.Equal(t, 1, second.count(LoggedOut))
	assert.Equal(t, 2, f.events.count(LoggedOut))
}

func TestObserverMayReadState(t *testing.T) {
	f := newFixture(t, false)
	var seen []bool
	f.manager.Subscribe(func(Event) { seen = append(seen, f.manager.IsLoggedIn()) })
	f.provider.interactive = grant("token-1", testNow.Add(time.Hour))

	f.manager.Login(context.Background())
	f.manager.Logout(context.Background())

	assert.Equal(t, []bool{true, false}, seen)
}
