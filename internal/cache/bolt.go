package cache

import (
	"fmt"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"forcedlogin/cli/internal/xdg"
)

// FileName is the database file created in the state directory.
const FileName = "profile.db"

var bucket = []byte("profile")

// Bolt implements Store on a bbolt database with a single bucket.
type Bolt struct {
	db *bbolt.DB
}

var _ Store = (*Bolt)(nil)

// NewBolt returns a Store backed by db.
func NewBolt(db *bbolt.DB) *Bolt {
	return &Bolt{db: db}
}

// NewBoltFromFile opens (or creates) the database at path.
func NewBoltFromFile(path string) (*Bolt, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}
	return NewBolt(db), nil
}

// OpenDefault opens profile.db in the XDG state directory.
func OpenDefault() (*Bolt, error) {
	dir, err := xdg.StateDir()
	if err != nil {
		return nil, err
	}
	return NewBoltFromFile(filepath.Join(dir, FileName))
}

// Close closes the underlying database.
func (b *Bolt) Close() error {
	return b.db.Close()
}

func (b *Bolt) Get(key string) ([]byte, error) {
	var out []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		bk := tx.Bucket(bucket)
		if bk == nil {
			return nil
		}
		// Values are only valid inside the transaction.
		if v := bk.Get([]byte(key)); v != nil {
			out = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return out, nil
}

func (b *Bolt) Put(key string, value []byte) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		bk, err := tx.CreateBucketIfNotExists(bucket)
		if err != nil {
			return err
		}
		return bk.Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func (b *Bolt) Delete(key string) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		bk := tx.Bucket(bucket)
		if bk == nil {
			return nil
		}
		return bk.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}
