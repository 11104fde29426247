// Package bbolt implements the ports.MessageCache interface using bbolt
// (embedded B+ tree). Entries live in a single "messages" bucket keyed by
// content hash. Writes are transactional: a crash mid-write cannot corrupt
// previously committed data.
package bbolt

import (
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/corey/jsgettext/internal/ports"
)

var bucketMessages = []byte("messages")

// Store implements ports.MessageCache backed by bbolt.
type Store struct {
	db *bolt.DB
}

var _ ports.MessageCache = (*Store)(nil)

// NewStore opens (or creates) a bbolt database at the given path. A second
// process holding the file lock makes this fail after one second rather than
// hang.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get retrieves the messages cached under key.
// An entry written by an older encoding is reported as a miss.
func (s *Store) Get(key string) ([]ports.Message, bool, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketMessages)
		if b == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if data == nil {
		return nil, false, nil
	}

	msgs, err := decodeMessages(data)
	if errors.Is(err, errStaleFormat) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", key, err)
	}
	return msgs, true, nil
}

// Put stores messages under key, replacing any previous entry.
func (s *Store) Put(key string, msgs []ports.Message) error {
	if key == "" {
		return fmt.Errorf("empty cache key")
	}
	data, err := encodeMessages(msgs)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketMessages)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), data)
	})
}

// Purge removes every cached entry.
// Idempotent: purging an empty store is not an error.
func (s *Store) Purge() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketMessages); err == bolt.ErrBucketNotFound {
			return nil // idempotent
		} else {
			return err
		}
	})
}

// Len returns the number of cached entries.
func (s *Store) Len() (int, error) {
	n := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		if b := tx.Bucket(bucketMessages); b != nil {
			n = b.Stats().KeyN
		}
		return nil
	})
	return n, err
}
