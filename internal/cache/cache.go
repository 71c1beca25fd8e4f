// Package cache provides the local key/value blob store behind the profile cache.
package cache

// Store persists opaque values by key. Get returns nil, nil for a missing key
// and Delete of a missing key is not an error.
type Store interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
}
