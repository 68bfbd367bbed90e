// Package store keeps a history of run reports in an embedded badger database.
// Values are zstd-compressed JSON documents keyed by report id.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/klauspost/compress/zstd"
	"github.com/sirupsen/logrus"

	"StegoLab/pkg/report"
)

const keyPrefix = "report:"

var ErrNotFound = errors.New("report not found")

// Options selects where the database lives
type Options struct {
	Path     string
	InMemory bool
	Logger   *logrus.Logger
}

// Store persists reports. It is safe for concurrent use.
type Store struct {
	db  *badger.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
	log *logrus.Logger
}

// Open opens or creates the database described by opts
func Open(opts Options) (*Store, error) {
	log := opts.Logger
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	if !opts.InMemory && opts.Path == "" {
		return nil, errors.New("store path is empty")
	}

	bopts := badger.DefaultOptions(opts.Path).WithLogger(log)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true).WithLogger(log)
	}
	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("error opening history store: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		db.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &Store{db: db, enc: enc, dec: dec, log: log}, nil
}

// Close flushes and closes the database
func (s *Store) Close() error {
	s.dec.Close()
	if err := s.enc.Close(); err != nil {
		s.log.WithError(err).Warn("failed to close zstd encoder")
	}
	return s.db.Close()
}

// Save stores r under its report id, replacing any earlier copy
func (s *Store) Save(r *report.Report) error {
	if r == nil || r.Meta.ReportID == "" {
		return errors.New("report has no id")
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	compressed := s.enc.EncodeAll(data, nil)

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(r.Meta.ReportID), compressed)
	})
	if err != nil {
		return fmt.Errorf("failed to save report %s: %w", r.Meta.ReportID, err)
	}
	s.log.WithFields(logrus.Fields{
		"id":    r.Meta.ReportID,
		"bytes": len(compressed),
	}).Debug("report saved")
	return nil
}

// Get loads the report with the given id
func (s *Store) Get(id string) (*report.Report, error) {
	var r *report.Report
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			r, err = s.decode(val)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// List returns every stored report, oldest first
func (s *Store) List() ([]*report.Report, error) {
	var reports []*report.Report
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				r, err := s.decode(val)
				if err != nil {
					return fmt.Errorf("corrupt entry %s: %w", item.Key(), err)
				}
				reports = append(reports, r)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(reports, func(i, j int) bool {
		if reports[i].Meta.GeneratedAtUTC != reports[j].Meta.GeneratedAtUTC {
			return reports[i].Meta.GeneratedAtUTC < reports[j].Meta.GeneratedAtUTC
		}
		return reports[i].Meta.ReportID < reports[j].Meta.ReportID
	})
	return reports, nil
}

// Delete removes a report. Deleting a missing id is not an error.
func (s *Store) Delete(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(id))
	})
}

func (s *Store) decode(val []byte) (*report.Report, error) {
	data, err := s.dec.DecodeAll(val, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress report: %w", err)
	}
	var r report.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return &r, nil
}

func key(id string) []byte {
	return []byte(keyPrefix + id)
}
