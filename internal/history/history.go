// Package history keeps summaries of received responses in a bbolt database.
package history

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/json-iterator/go"
	bolt "go.etcd.io/bbolt"
)

const entriesBucket = "responses"

// Entry is a summary of a single exchange.
type Entry struct {
	Time     time.Time `json:"time" yaml:"time"`
	Method   string    `json:"method" yaml:"method"`
	URL      string    `json:"url" yaml:"url"`
	Code     uint16    `json:"code,omitempty" yaml:"code,omitempty"`
	BodySize int       `json:"body_size" yaml:"body_size"`
	Error    string    `json:"error,omitempty" yaml:"error,omitempty"`
}

type Store struct {
	db *bolt.DB
}

// Open opens the database at the path, creating it with all the missing directories
// if needed.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}

	if err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(entriesBucket))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

// Append stores the entry. Entries are keyed by a sequence number, so they are listed
// in the order of insertion.
func (s *Store) Append(entry Entry) error {
	value, err := json.ConfigCompatibleWithStandardLibrary.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(entriesBucket))
		if bucket == nil {
			return fmt.Errorf("history bucket missing")
		}

		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}

		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)

		return bucket.Put(key, value)
	})
}

// List returns at most limit latest entries, oldest first. Non-positive limit means
// no limit.
func (s *Store) List(limit int) (entries []Entry, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(entriesBucket))
		if bucket == nil {
			return fmt.Errorf("history bucket missing")
		}

		cursor := bucket.Cursor()
		for k, v := cursor.Last(); k != nil; k, v = cursor.Prev() {
			if limit > 0 && len(entries) >= limit {
				break
			}

			var entry Entry
			if err := json.ConfigCompatibleWithStandardLibrary.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("decode entry %x: %w", k, err)
			}

			entries = append(entries, entry)
		}

		return nil
	})

	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	return entries, err
}
