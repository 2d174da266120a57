// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package store keeps ordered lists of records in a bbolt file.
package store

import (
	"encoding/binary"
	"time"

	"github.com/juju/errors"
	"github.com/juju/loggo"
	jsoniter "github.com/json-iterator/go"
	bolt "go.etcd.io/bbolt"
)

var logger = loggo.GetLogger("skelethon.internal.store")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Record is a single stored value.
type Record = map[string]any

// Store is a bbolt backed record store. Each named list lives in a bucket
// of its own, keyed by position.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the store at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Annotatef(err, "opening store %q", path)
	}
	logger.Debugf("opened store %q", path)
	return &Store{db: db}, nil
}

// Close releases the underlying file.
func (s *Store) Close() error {
	return errors.Trace(s.db.Close())
}

// SaveRecords replaces the list called name with records.
func (s *Store) SaveRecords(name string, records []Record) error {
	if name == "" {
		return errors.NotValidf("empty list name")
	}
	values := make([][]byte, len(records))
	for i, record := range records {
		data, err := json.Marshal(record)
		if err != nil {
			return errors.Annotatef(err, "encoding record %d of %q", i, name)
		}
		values[i] = data
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket([]byte(name)) != nil {
			if err := tx.DeleteBucket([]byte(name)); err != nil {
				return err
			}
		}
		b, err := tx.CreateBucket([]byte(name))
		if err != nil {
			return err
		}
		for _, value := range values {
			seq, err := b.NextSequence()
			if err != nil {
				return err
			}
			if err := b.Put(marshalSeq(seq), value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.Annotatef(err, "saving %q", name)
	}
	logger.Tracef("saved %d records to %q", len(records), name)
	return nil
}

// LoadRecords returns the list called name, in the order it was saved.
// A list that was never saved is empty.
func (s *Store) LoadRecords(name string) ([]Record, error) {
	var records []Record
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(name))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var record Record
			if err := json.Unmarshal(v, &record); err != nil {
				return errors.Annotatef(err, "decoding record %d", unmarshalSeq(k))
			}
			records = append(records, record)
			return nil
		})
	})
	if err != nil {
		return nil, errors.Annotatef(err, "loading %q", name)
	}
	return records, nil
}

// Lists returns the names of the saved lists.
func (s *Store) Lists() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
			names = append(names, string(name))
			return nil
		})
	})
	return names, errors.Trace(err)
}

func marshalSeq(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}

func unmarshalSeq(key []byte) uint64 {
	return binary.BigEndian.Uint64(key)
}
