// Copyright (c) 2025 Forcedlogin
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides thread-safe OS keychain operations for forcedlogin.
// The identity provider library keeps its token cache (accounts and refresh tokens)
// as one serialized blob; this package persists that blob in the OS credential store
// so silent sign-in works across invocations.
//
// macOS Keychain, Windows Credential Manager and the Linux Secret Service are
// supported, with pass as a fallback where installed.
package keychain

import (
	"errors"
	"runtime"
	"sync"

	"github.com/99designs/keyring"
)

// Manager provides thread-safe operations for the OS keychain.
type Manager struct {
	mu   sync.RWMutex
	ring keyring.Keyring
}

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "forcedlogin"

// Keys used for storing secrets in the OS keychain.
const (
	KeyTokenCache = "msal_token_cache"
)

// NewManager creates a new keychain manager with the OS keyring initialized.
func NewManager() (*Manager, error) {
	ring, err := openRing()
	if err != nil {
		return nil, err
	}
	return NewManagerWithRing(ring), nil
}

// NewManagerWithRing wraps an already opened keyring.
func NewManagerWithRing(ring keyring.Keyring) *Manager {
	return &Manager{ring: ring}
}

// openRing opens the OS keyring using native platform backends only.
// The encrypted file backend is never used.
func openRing() (keyring.Keyring, error) {
	var allowedBackends []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		allowedBackends = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		allowedBackends = []keyring.BackendType{keyring.WinCredBackend}
	case "linux", "freebsd", "openbsd":
		allowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.PassBackend,
		}
	default:
		return nil, errors.New("secure storage not supported on this OS")
	}

	cfg := keyring.Config{
		ServiceName:     ServiceName,
		AllowedBackends: allowedBackends,
		PassPrefix:      ServiceName,
		// Hint prefixes where supported to minimize namespace collisions
		WinCredPrefix:            ServiceName,
		KeychainTrustApplication: true,
	}

	return keyring.Open(cfg)
}

// SaveTokenCache stores the serialized provider token cache.
// This method is thread-safe.
func (m *Manager) SaveTokenCache(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(data) == 0 {
		return m.remove(KeyTokenCache)
	}
	return m.ring.Set(keyring.Item{
		Key:         KeyTokenCache,
		Data:        data,
		Label:       "forcedlogin token cache",
		Description: "Microsoft identity token cache",
	})
}

// LoadTokenCache retrieves the serialized provider token cache.
// A missing entry yields nil data and no error.
// This method is thread-safe.
func (m *Manager) LoadTokenCache() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	it, err := m.ring.Get(KeyTokenCache)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return it.Data, nil
}

// ClearAuth removes all auth-related secrets from the keychain.
// This method is thread-safe.
func (m *Manager) ClearAuth() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remove(KeyTokenCache)
}

func (m *Manager) remove(key string) error {
	if err := m.ring.Remove(key); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return err
	}
	return nil
}
