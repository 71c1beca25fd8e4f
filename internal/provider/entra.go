// Copyright (c) 2025 Forcedlogin
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package provider implements the identity provider capability on Microsoft Entra ID.
// Account enumeration, interactive, silent and account removal go through the MSAL Go
// public client; integrated authentication uses the azidentity default credential chain,
// which picks up the credential the operating environment already holds.
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/AzureAD/microsoft-authentication-library-for-go/apps/public"
	"github.com/sirupsen/logrus"

	apperr "forcedlogin/cli/internal/errors"
	"forcedlogin/cli/internal/session"
)

// GraphDefaultScope is requested by the integrated flow, whose credentials only
// understand resource scopes.
const GraphDefaultScope = "https://graph.microsoft.com/.default"

// Config configures an Entra client.
type Config struct {
	ClientID       string
	Authority      session.Authority
	IntegratedAuth bool
	RedirectURI    string
	// Cache persists MSAL's token cache; nil keeps it in memory only.
	Cache TokenCacheStore
	// OpenURL is called with the sign-in URL; nil lets MSAL open the default browser.
	OpenURL func(url string) error
}

// publicClient is the subset of public.Client used here.
type publicClient interface {
	Accounts(ctx context.Context) ([]public.Account, error)
	AcquireTokenInteractive(ctx context.Context, scopes []string, opts ...public.AcquireInteractiveOption) (public.AuthResult, error)
	AcquireTokenSilent(ctx context.Context, scopes []string, opts ...public.AcquireSilentOption) (public.AuthResult, error)
	RemoveAccount(ctx context.Context, account public.Account) error
}

// Entra implements session.Provider.
type Entra struct {
	app         publicClient
	cred        azcore.TokenCredential
	redirectURI string
	openURL     func(url string) error
}

var _ session.Provider = (*Entra)(nil)

// New builds an Entra client for cfg.
func New(cfg Config) (*Entra, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("client id is required; run 'forcedlogin config set client_id <id>'")
	}

	opts := []public.Option{public.WithAuthority(cfg.Authority.URL())}
	if cfg.Cache != nil {
		opts = append(opts, public.WithCache(&tokenCache{store: cfg.Cache}))
	}
	app, err := public.New(cfg.ClientID, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating public client: %w", err)
	}

	e := &Entra{app: app, redirectURI: cfg.RedirectURI, openURL: cfg.OpenURL}
	if cfg.IntegratedAuth {
		credOpts := &azidentity.DefaultAzureCredentialOptions{}
		if cfg.Authority.Kind == session.SingleOrg {
			credOpts.TenantID = cfg.Authority.Tenant
		}
		cred, err := azidentity.NewDefaultAzureCredential(credOpts)
		if err != nil {
			return nil, fmt.Errorf("creating integrated credential: %w", err)
		}
		e.cred = cred
	}
	return e, nil
}

// Accounts lists the accounts in the token cache.
func (e *Entra) Accounts(ctx context.Context) ([]session.Account, error) {
	accounts, err := e.app.Accounts(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.Unknown, "listing accounts", err)
	}
	out := make([]session.Account, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccount(a))
	}
	return out, nil
}

// AcquireInteractive signs in through the system browser.
func (e *Entra) AcquireInteractive(ctx context.Context, scopes []string, account *session.Account) (session.Grant, error) {
	var opts []public.AcquireInteractiveOption
	if e.redirectURI != "" {
		opts = append(opts, public.WithRedirectURI(e.redirectURI))
	}
	if account != nil && account.Username != "" {
		opts = append(opts, public.WithLoginHint(account.Username))
	}
	if e.openURL != nil {
		opts = append(opts, public.WithOpenURL(e.openURL))
	}

	res, err := e.app.AcquireTokenInteractive(ctx, scopes, opts...)
	if err != nil {
		return session.Grant{}, classifyInteractive(err)
	}
	return toGrant(res), nil
}

// AcquireSilent redeems the cached refresh token for account.
func (e *Entra) AcquireSilent(ctx context.Context, scopes []string, account session.Account) (session.Grant, error) {
	a, ok, err := e.find(ctx, account.ID)
	if err != nil {
		return session.Grant{}, err
	}
	if !ok {
		return session.Grant{}, apperr.New(apperr.UIRequired, "account not in token cache")
	}

	res, err := e.app.AcquireTokenSilent(ctx, scopes, public.WithSilentAccount(a))
	if err != nil {
		return session.Grant{}, classifySilent(err)
	}
	return toGrant(res), nil
}

// AcquireIntegrated obtains a token from the environment's existing credential.
func (e *Entra) AcquireIntegrated(ctx context.Context, scopes []string) (session.Grant, error) {
	if e.cred == nil {
		return session.Grant{}, apperr.New(apperr.UIRequired, "integrated authentication is not enabled")
	}

	tok, err := e.cred.GetToken(ctx, policy.TokenRequestOptions{Scopes: resourceScopes(scopes)})
	if err != nil {
		return session.Grant{}, classifyIntegrated(err)
	}

	account, err := accountFromClaims(tok.Token)
	if err != nil {
		logrus.WithError(err).Debug("integrated token carries no readable claims")
	}
	return session.Grant{AccessToken: tok.Token, ExpiresOn: tok.ExpiresOn, Account: account}, nil
}

// RemoveAccount deletes account from the token cache. An unknown account is not an error.
func (e *Entra) RemoveAccount(ctx context.Context, account session.Account) error {
	a, ok, err := e.find(ctx, account.ID)
	if err != nil || !ok {
		return err
	}
	if err := e.app.RemoveAccount(ctx, a); err != nil {
		return apperr.Wrap(apperr.Unknown, "removing account", err)
	}
	return nil
}

func (e *Entra) find(ctx context.Context, id string) (public.Account, bool, error) {
	accounts, err := e.app.Accounts(ctx)
	if err != nil {
		return public.Account{}, false, apperr.Wrap(apperr.Unknown, "listing accounts", err)
	}
	for _, a := range accounts {
		if a.HomeAccountID == id {
			return a, true, nil
		}
	}
	return public.Account{}, false, nil
}

// resourceScopes maps bare delegated Graph scopes such as "User.Read" to the
// Graph resource scope. Fully qualified scopes pass through.
func resourceScopes(scopes []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, s := range scopes {
		if !strings.HasPrefix(s, "https://") && !strings.HasPrefix(s, "api://") {
			s = GraphDefaultScope
		}
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		out = []string{GraphDefaultScope}
	}
	return out
}

func toAccount(a public.Account) session.Account {
	return session.Account{ID: a.HomeAccountID, Username: a.PreferredUsername}
}

func toGrant(res public.AuthResult) session.Grant {
	return session.Grant{
		AccessToken: res.AccessToken,
		ExpiresOn:   res.ExpiresOn,
		Account:     toAccount(res.Account),
	}
}
