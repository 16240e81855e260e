package session

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"
)

// BoltDB bucket names
var bucketSessions = []byte("sessions")

// BoltStore is a bbolt-backed session store. Sessions survive a server
// restart; bbolt serializes writes internally, so no extra locking is
// needed here.
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore opens (or creates) the bbolt database at dbPath and
// prepares the sessions bucket. The returned store must be closed by the
// caller.
func NewBoltStore(dbPath string) (*BoltStore, error) {
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketSessions); err != nil {
			return fmt.Errorf("failed to create sessions bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ensure BoltStore implements the Store interface
var _ Store = (*BoltStore)(nil)

// Save implements Store.Save
func (s *BoltStore) Save(_ context.Context, sess *Session) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSessions)
		if bucket == nil {
			return fmt.Errorf("sessions bucket not found")
		}

		data, err := json.Marshal(sess)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}

		if err := bucket.Put([]byte(sess.Token), data); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}

		return nil
	})
}

// Get implements Store.Get
func (s *BoltStore) Get(_ context.Context, token string) (*Session, error) {
	var sess *Session

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSessions)
		if bucket == nil {
			return fmt.Errorf("sessions bucket not found")
		}

		data := bucket.Get([]byte(token))
		if data == nil {
			return ErrSessionNotFound
		}

		sess = &Session{}
		if err := json.Unmarshal(data, sess); err != nil {
			return fmt.Errorf("failed to unmarshal session: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return sess, nil
}

// Delete implements Store.Delete
func (s *BoltStore) Delete(_ context.Context, token string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSessions)
		if bucket == nil {
			return fmt.Errorf("sessions bucket not found")
		}

		// Deleting a missing key is a no-op in bbolt, which matches the
		// idempotent Delete contract.
		if err := bucket.Delete([]byte(token)); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}

		return nil
	})
}
