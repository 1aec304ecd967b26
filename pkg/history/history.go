// Package history keeps a persistent log of check file runs in
// a bbolt database.
package history

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

const runsBucket = "runs"

// Status values of an Entry.
const (
	StatusPassed  = "passed"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Entry represents a single check file run in the history.
type Entry struct {
	ID        uint64        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	RunID     string        `json:"run_id"`
	File      string        `json:"file"`
	Source    string        `json:"source,omitempty"`
	Status    string        `json:"status"`
	Duration  time.Duration `json:"duration"`
	Message   string        `json:"message,omitempty"`
}

// Query selects entries from the history. Zero values match
// everything.
type Query struct {
	File   string
	Status string
	// Limit caps the number of entries returned, newest first.
	Limit int
}

func (q Query) matches(e Entry) bool {
	if q.File != "" && e.File != q.File {
		return false
	}
	if q.Status != "" && e.Status != q.Status {
		return false
	}
	return true
}

// Store records and queries run history.
type Store interface {
	Append(e Entry) (Entry, error)
	List(q Query) ([]Entry, error)
	Close() error
}

// BoltStore is a bbolt-backed implementation of Store.
type BoltStore struct {
	db *bolt.DB
	mu sync.RWMutex
}

// Open creates or opens the history database at path.
func Open(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(runsBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init history bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// Append stores e under the next sequence number and returns it
// with ID set. A zero Timestamp is set to now.
func (s *BoltStore) Append(e Entry) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(runsBucket))
		id, err := b.NextSequence()
		if err != nil {
			return err
		}
		e.ID = id
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal history entry: %w", err)
		}
		return b.Put(itob(id), data)
	})
	if err != nil {
		return Entry{}, err
	}
	return e, nil
}

// List returns the entries matching q, newest first.
func (s *BoltStore) List(q Query) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(runsBucket)).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf(
					"unmarshal history entry %d: %w",
					binary.BigEndian.Uint64(k), err,
				)
			}
			if !q.matches(e) {
				continue
			}
			entries = append(entries, e)
			if q.Limit > 0 && len(entries) == q.Limit {
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Close releases the database file lock.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
