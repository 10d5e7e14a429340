// internal/store/store.go
package store

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
	bolt "go.etcd.io/bbolt"

	"github.com/tamzrod/bot-status/internal/status"
)

// HistoryLimit is the number of command history entries kept on disk.
const HistoryLimit = 100

const commandsBucket = "commands"

// ErrReadOnly is returned by writes on a store opened read-only.
var ErrReadOnly = errors.New("store: read-only")

// commandRecord is the on-disk form of one history entry.
type commandRecord struct {
	Name string `cbor:"name"`
	At   int64  `cbor:"at"` // unix nanoseconds
}

// Store is the on-disk status storage of the device process.
// Namespaces map to bbolt buckets.
// A read-only Store over a missing file has no db and reads as empty.
type Store struct {
	db       *bolt.DB
	readOnly bool
}

// Options controls how the database file is opened.
type Options struct {
	ReadOnly bool
	Timeout  time.Duration
}

// Open opens (or creates) the database at path.
func Open(path string, opts Options) (*Store, error) {
	if path == "" {
		return nil, errors.New("store: path required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Second
	}

	if opts.ReadOnly {
		// bbolt cannot initialize a new file read-only; never synced is a normal state.
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return &Store{readOnly: true}, nil
		}
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{
		Timeout:  opts.Timeout,
		ReadOnly: opts.ReadOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}

	return &Store{db: db, readOnly: opts.ReadOnly}, nil
}

// Close closes the database file.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Fetch returns the value stored under namespace/key.
// A missing namespace or key returns nil, nil.
func (s *Store) Fetch(namespace, key string) ([]byte, error) {
	var out []byte
	if s.empty() {
		return nil, nil
	}

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(namespace))
		if b == nil {
			return nil
		}
		v := b.Get([]byte(key))
		if v == nil {
			return nil
		}
		// v is only valid inside the transaction.
		out = append([]byte{}, v...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: fetch %s/%s: %w", namespace, key, err)
	}

	return out, nil
}

// Put stores value under namespace/key, creating the namespace if needed.
func (s *Store) Put(namespace, key string, value []byte) error {
	if s.readOnly {
		return ErrReadOnly
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(namespace))
		if err != nil {
			return err
		}
		return b.Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("store: put %s/%s: %w", namespace, key, err)
	}
	return nil
}

// MarkSynced records t as the last time the cache matched the device.
func (s *Store) MarkSynced(t time.Time) error {
	return s.Put(status.SyncNamespace, status.SyncKey, []byte(t.UTC().Format(time.RFC3339Nano)))
}

// AppendCommand adds c to the command history, dropping the oldest
// entries beyond HistoryLimit.
func (s *Store) AppendCommand(c status.Command) error {
	if s.readOnly {
		return ErrReadOnly
	}
	raw, err := cbor.Marshal(commandRecord{Name: c.Name, At: c.At.UnixNano()})
	if err != nil {
		return fmt.Errorf("store: encode command: %w", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(commandsBucket))
		if err != nil {
			return err
		}

		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		if err := b.Put(seqKey(seq), raw); err != nil {
			return err
		}

		// prune oldest
		cur := b.Cursor()
		n := 0
		for k, _ := cur.First(); k != nil; k, _ = cur.Next() {
			n++
		}
		for k, _ := cur.First(); k != nil && n > HistoryLimit; k, _ = cur.First() {
			if err := cur.Delete(); err != nil {
				return err
			}
			n--
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("store: append command: %w", err)
	}
	return nil
}

// Recent returns up to limit history entries, newest first.
// limit <= 0 returns the whole history.
func (s *Store) Recent(limit int) ([]status.Command, error) {
	out := make([]status.Command, 0)
	if s.empty() {
		return out, nil
	}

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(commandsBucket))
		if b == nil {
			return nil
		}

		c := b.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(out) >= limit {
				break
			}
			var rec commandRecord
			if err := cbor.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("decode command %d: %w", binary.BigEndian.Uint64(k), err)
			}
			out = append(out, status.Command{Name: rec.Name, At: time.Unix(0, rec.At).UTC()})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: recent commands: %w", err)
	}

	return out, nil
}

func (s *Store) empty() bool {
	return s.readOnly && s.db == nil
}

// seqKey encodes seq so that byte order matches insertion order.
func seqKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}
