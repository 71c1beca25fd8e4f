package provider

import (
	"context"

	"github.com/AzureAD/microsoft-authentication-library-for-go/apps/cache"
	"github.com/sirupsen/logrus"
)

// TokenCacheStore persists MSAL's serialized token cache.
// keychain.Manager implements it.
type TokenCacheStore interface {
	LoadTokenCache() ([]byte, error)
	SaveTokenCache(data []byte) error
}

// tokenCache adapts a TokenCacheStore to MSAL's cache.ExportReplace.
type tokenCache struct {
	store TokenCacheStore
}

var _ cache.ExportReplace = (*tokenCache)(nil)

// Replace loads the persisted cache before MSAL reads it. An unreadable store
// degrades to an empty in-memory cache.
func (c *tokenCache) Replace(ctx context.Context, u cache.Unmarshaler, _ cache.ReplaceHints) error {
	data, err := c.store.LoadTokenCache()
	if err != nil {
		logrus.WithError(err).Warn("reading token cache from keychain")
		return nil
	}
	if len(data) == 0 {
		return nil
	}
	return u.Unmarshal(data)
}

// Export persists the cache after MSAL changed it.
func (c *tokenCache) Export(ctx context.Context, m cache.Marshaler, _ cache.ExportHints) error {
	data, err := m.Marshal()
	if err != nil {
		return err
	}
	if err := c.store.SaveTokenCache(data); err != nil {
		logrus.WithError(err).Warn("writing token cache to keychain")
	}
	return nil
}
