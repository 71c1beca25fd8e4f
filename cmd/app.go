// Copyright (c) 2025 Forcedlogin
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"forcedlogin/cli/internal/cache"
	"forcedlogin/cli/internal/config"
	"forcedlogin/cli/internal/graph"
	"forcedlogin/cli/internal/imaging"
	"forcedlogin/cli/internal/keychain"
	"forcedlogin/cli/internal/network"
	"forcedlogin/cli/internal/profile"
	"forcedlogin/cli/internal/provider"
	"forcedlogin/cli/internal/session"
)

// application is everything a command needs, built once per invocation.
type application struct {
	keys     *keychain.Manager
	sessions *session.Manager
	store    cache.Store
	profiles *profile.Service
	prompt   *signInPrompt

	closers []func() error
}

// newApplication wires the session manager, profile service and their
// collaborators from c. Keychain and cache failures degrade to in-memory
// storage so read-only commands keep working.
func newApplication(c config.Config) (*application, error) {
	authority, err := session.ParseAuthority(c.Authority, c.Tenant)
	if err != nil {
		return nil, err
	}

	app := &application{prompt: newSignInPrompt()}

	var tokenCache provider.TokenCacheStore
	if km, err := keychain.NewManager(); err == nil {
		app.keys = km
		tokenCache = km
	} else {
		logrus.WithError(err).Warn("OS keychain unavailable, sign-in will not persist")
	}

	factory := func(a session.Authority, integrated bool) (session.Provider, error) {
		p, err := provider.New(provider.Config{
			ClientID:       c.ClientID,
			Authority:      a,
			IntegratedAuth: integrated,
			RedirectURI:    c.RedirectURI,
			Cache:          tokenCache,
			OpenURL:        app.prompt.open,
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	app.sessions = session.NewManager(factory, network.Interfaces{})

	if bolt, err := cache.OpenDefault(); err == nil {
		app.store = bolt
		app.closers = append(app.closers, bolt.Close)
	} else {
		logrus.WithError(err).Warn("profile cache unavailable, using memory")
		app.store = cache.NewMemory()
	}

	app.profiles = profile.NewService(app.sessions, graph.New(), app.store, imaging.Resolver{})
	unsubscribe := app.sessions.Subscribe(app.profiles.OnSessionEvent)
	app.closers = append(app.closers, func() error { unsubscribe(); return nil })

	if err := app.sessions.Configure(session.Options{Authority: authority, IntegratedAuth: c.IntegratedAuth}); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// restore signs the user in silently from the persisted provider cache.
func (a *application) restore(ctx context.Context) bool {
	return a.sessions.SilentLogin(ctx)
}

// Close releases the cache database and observer registration.
func (a *application) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logrus.WithError(err).Debug("closing application")
		}
	}
}

func printNotLoggedIn() {
	fmt.Println("🔒 You're not logged in yet!")
	fmt.Println("   Run 'forcedlogin login' to get started.")
}
