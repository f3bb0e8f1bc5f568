// Package app serves the supervisor's status dashboard: a JSON status
// endpoint, a websocket push channel and a persisted event log.
package app

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/bitdog-io/restraining-bolt/internal/model"
)

var eventsBucket = []byte("events")

// EventStore persists hazard and mode events to a bbolt file, keyed by
// nanosecond timestamp so iteration order is chronological.
type EventStore struct {
	db *bbolt.DB
}

// OpenEventStore opens (or creates) the event log at path.
func OpenEventStore(path string) (*EventStore, error) {
	db, err := bbolt.Open(path, 0o666, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("[app] open event store: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, berr := tx.CreateBucketIfNotExists(eventsBucket)
		return berr
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("[app] create bucket: %w", err)
	}
	return &EventStore{db: db}, nil
}

// Append records one event.
func (s *EventStore) Append(ev model.Event) error {
	if ev.UnixNano == 0 {
		ev.UnixNano = time.Now().UnixNano()
	}
	val, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, uint64(ev.UnixNano))
		return tx.Bucket(eventsBucket).Put(key, val)
	})
}

// Recent returns up to n events, newest first.
func (s *EventStore) Recent(n int) ([]model.Event, error) {
	var out []model.Event
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(eventsBucket).Cursor()
		for k, v := c.Last(); k != nil && len(out) < n; k, v = c.Prev() {
			var ev model.Event
			if err := json.Unmarshal(v, &ev); err != nil {
				continue
			}
			out = append(out, ev)
		}
		return nil
	})
	return out, err
}

// Prune drops events older than the retention window. Scheduled daily.
func (s *EventStore) Prune(retention time.Duration) error {
	cutoff := time.Now().Add(-retention).UnixNano()
	return s.db.Update(func(tx *bbolt.Tx) error {
		c := tx.Bucket(eventsBucket).Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			if int64(binary.BigEndian.Uint64(k)) >= cutoff {
				break
			}
			if err := c.Delete(); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close closes the underlying database.
func (s *EventStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
