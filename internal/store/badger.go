package store

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/flightworks/derive/internal/signal"
)

// Config holds configuration for a BadgerDB-backed container.
type Config struct {
	// Path is the directory for BadgerDB files. Ignored when InMemory is
	// true.
	Path string
	// InMemory enables in-memory mode (no disk persistence), for testing.
	InMemory bool
	// SyncWrites enables synchronous writes for durability.
	SyncWrites bool
	// Logger receives BadgerDB's own log output. Nil disables it.
	Logger *slog.Logger
}

// DefaultConfig returns production defaults: durable synchronous writes.
func DefaultConfig(path string) Config {
	return Config{Path: path, SyncWrites: true}
}

// InMemoryConfig returns a configuration for tests: no disk I/O.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// Badger is a Container persisted in an embedded BadgerDB.
//
// Key layout:
//
//	flight/<id>/chan/<name>  gob-encoded signal
//	flight/<id>/meta/dur     8-byte big-endian float64 duration
type Badger struct {
	db *badger.DB
}

// OpenBadger opens (creating if needed) a BadgerDB container.
func OpenBadger(cfg Config) (*Badger, error) {
	opts := badger.DefaultOptions(cfg.Path).
		WithInMemory(cfg.InMemory).
		WithSyncWrites(cfg.SyncWrites)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening flight container at %q: %w", cfg.Path, err)
	}
	return &Badger{db: db}, nil
}

// Close releases the underlying database.
func (b *Badger) Close() error {
	return b.db.Close()
}

func chanKey(flightID, name string) []byte {
	return []byte("flight/" + flightID + "/chan/" + name)
}

func chanPrefix(flightID string) []byte {
	return []byte("flight/" + flightID + "/chan/")
}

func durKey(flightID string) []byte {
	return []byte("flight/" + flightID + "/meta/dur")
}

// AddFlight registers a flight with its duration in seconds.
func (b *Badger) AddFlight(flightID string, duration float64) error {
	buf := make([]byte, 8)
	bits := math.Float64bits(duration)
	for i := 0; i < 8; i++ {
		buf[i] = byte(bits >> (56 - 8*i))
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(durKey(flightID), buf)
	})
}

// ListChannelNames implements Container.
func (b *Badger) ListChannelNames(flightID string) ([]string, error) {
	prefix := chanPrefix(flightID)
	var names []string
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			names = append(names, strings.TrimPrefix(key, string(prefix)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// Channel implements Container.
func (b *Badger) Channel(flightID, name string) (*signal.Signal, error) {
	var s *signal.Signal
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(chanKey(flightID, name))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			s = new(signal.Signal)
			return gob.NewDecoder(bytes.NewReader(val)).Decode(s)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("channel %q of flight %q: %w", name, flightID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Channels implements Container.
func (b *Badger) Channels(flightID string, names []string) (map[string]*signal.Signal, error) {
	out := make(map[string]*signal.Signal, len(names))
	for _, name := range names {
		s, err := b.Channel(flightID, name)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out[name] = s
	}
	return out, nil
}

// SetChannel implements Container.
func (b *Badger) SetChannel(flightID string, s *signal.Signal) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return fmt.Errorf("encoding channel %q: %w", s.Name, err)
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(chanKey(flightID, s.Name), buf.Bytes())
	})
}

// Duration implements Container.
func (b *Badger) Duration(flightID string) (float64, error) {
	var d float64
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(durKey(flightID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val) != 8 {
				return fmt.Errorf("corrupt duration value for flight %q", flightID)
			}
			var bits uint64
			for i := 0; i < 8; i++ {
				bits = bits<<8 | uint64(val[i])
			}
			d = math.Float64frombits(bits)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, fmt.Errorf("flight %q: %w", flightID, ErrNotFound)
	}
	return d, err
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
