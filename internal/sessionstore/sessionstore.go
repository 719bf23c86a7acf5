// Package sessionstore persists an analyst's progress: every confirmed
// key span survives restarts, and the merged spans decode a little more
// of every ciphertext each session.
package sessionstore

import (
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/shirou/gopsutil/disk"
	"github.com/sirupsen/logrus"
)

var log *logrus.Logger

// ErrInsufficientDisk is returned when the session directory's volume
// is below the configured free-space threshold.
var ErrInsufficientDisk = errors.New("insufficient free disk space")

const spanPrefix = "span:"

// StoreConfig configures the session store.
type StoreConfig struct {
	// Path is the session directory. Created if missing.
	Path string
	// MinimumFreeMB refuses to open the store when the volume has less
	// free space. 0 disables the check.
	MinimumFreeMB uint64
	// Logger is optional; a default logger is used when nil.
	Logger *logrus.Logger
}

// Store holds confirmed key spans in a badger database under the
// session directory.
type Store struct {
	config StoreConfig
	db     *badger.DB
}

// SpanRecord is one confirmed key span as stored. Ciphertext and Crib
// record how the span was obtained; Offset and Key are what decoding
// needs.
type SpanRecord struct {
	Offset     int    `cbor:"1,keyasint"`
	Key        []byte `cbor:"2,keyasint"`
	Ciphertext int    `cbor:"3,keyasint"`
	Crib       []byte `cbor:"4,keyasint"`
	Confirmed  int64  `cbor:"5,keyasint"`
}

// New opens (or creates) the session store at config.Path.
func New(config StoreConfig) (*Store, error) {
	if config.Logger == nil {
		config.Logger = logrus.New()
	}
	log = config.Logger

	if err := os.MkdirAll(config.Path, 0o755); err != nil {
		return nil, fmt.Errorf("creating session dir: %w", err)
	}
	if err := checkFreeSpace(config.Path, config.MinimumFreeMB); err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(config.Path)
	opts.Logger = nil
	// Sessions hold a handful of tiny records; keep the value log small.
	opts.ValueLogFileSize = 1 << 24
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}
	return &Store{config: config, db: db}, nil
}

func checkFreeSpace(path string, minimumMB uint64) error {
	if minimumMB == 0 {
		return nil
	}
	usage, err := disk.Usage(path)
	if err != nil {
		return fmt.Errorf("checking disk usage: %w", err)
	}
	freeMB := usage.Free / (1 << 20)
	if freeMB < minimumMB {
		return fmt.Errorf("%w: %d MB free, %d MB required", ErrInsufficientDisk, freeMB, minimumMB)
	}
	log.WithFields(logrus.Fields{
		"path":   path,
		"freeMB": freeMB,
	}).Debug("session store disk check passed")
	return nil
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func spanKey(offset, length int) []byte {
	// Fixed-width decimal so badger's lexicographic iteration yields
	// ascending offsets.
	return []byte(fmt.Sprintf("%s%08d:%04d", spanPrefix, offset, length))
}

// SaveSpan stores one confirmed span, overwriting a previous record
// with the same offset and length.
func (s *Store) SaveSpan(rec SpanRecord) error {
	data, err := cbor.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding span record: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(spanKey(rec.Offset, len(rec.Key)), data)
	})
	if err != nil {
		return fmt.Errorf("writing span record: %w", err)
	}
	log.WithFields(logrus.Fields{
		"offset": rec.Offset,
		"length": len(rec.Key),
	}).Info("key span saved")
	return nil
}

// DeleteSpan removes a span by its offset and length. Deleting a span
// that does not exist is not an error.
func (s *Store) DeleteSpan(offset, length int) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(spanKey(offset, length))
	})
	if err != nil {
		return fmt.Errorf("deleting span record: %w", err)
	}
	return nil
}

// Spans returns all stored spans, ascending by offset then length.
func (s *Store) Spans() ([]SpanRecord, error) {
	var out []SpanRecord
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte(spanPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var rec SpanRecord
				if err := cbor.Unmarshal(val, &rec); err != nil {
					return fmt.Errorf("decoding span record: %w", err)
				}
				out = append(out, rec)
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
	return out, nil
}

// KeyMask merges all stored spans into a key buffer of messageLen
// bytes plus a coverage mask. Overlapping spans agree on correct
// confirmations; if they disagree, the later (higher offset key) span
// wins, which the analyst sees immediately in the decode output.
func (s *Store) KeyMask(messageLen int) ([]byte, []bool, error) {
	spans, err := s.Spans()
	if err != nil {
		return nil, nil, err
	}
	key := make([]byte, messageLen)
	known := make([]bool, messageLen)
	for _, rec := range spans {
		for i, b := range rec.Key {
			pos := rec.Offset + i
			if pos < 0 || pos >= messageLen {
				return nil, nil, fmt.Errorf("stored span [%d,%d) outside %d-byte message",
					rec.Offset, rec.Offset+len(rec.Key), messageLen)
			}
			key[pos] = b
			known[pos] = true
		}
	}
	return key, known, nil
}
