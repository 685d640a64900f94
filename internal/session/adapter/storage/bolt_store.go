// Package storage persists the bearer token between process runs. The slot
// is a single key in an embedded BoltDB file; absence of the key means there
// is no session to resume.
package storage

import (
	"os"
	"path/filepath"
	"time"

	"corpsuite/internal/session/domain/client"

	bolt "go.etcd.io/bbolt"
)

var (
	sessionBucket = []byte("session")
	tokenKey      = []byte("token")
)

// BoltTokenStore is a TokenStore backed by a BoltDB file.
type BoltTokenStore struct {
	db *bolt.DB
}

// OpenBolt opens (or creates) the token store at path and ensures the
// session bucket exists.
func OpenBolt(path string) (*BoltTokenStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &BoltTokenStore{db: db}, nil
}

var _ client.TokenStore = (*BoltTokenStore)(nil)

// Load returns the persisted token, or "" when the slot is empty.
func (s *BoltTokenStore) Load() (string, error) {
	var token string
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(sessionBucket).Get(tokenKey); v != nil {
			token = string(v)
		}
		return nil
	})
	return token, err
}

// Save writes the token to the slot, replacing any previous value.
func (s *BoltTokenStore) Save(token string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionBucket).Put(tokenKey, []byte(token))
	})
}

// Clear empties the slot. Clearing an empty slot is a no-op.
func (s *BoltTokenStore) Clear() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionBucket).Delete(tokenKey)
	})
}

// Close releases the underlying database file.
func (s *BoltTokenStore) Close() error {
	return s.db.Close()
}
