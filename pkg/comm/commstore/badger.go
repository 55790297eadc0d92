package commstore

import (
	"context"
	"errors"
	"fmt"
	"log"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/haivivi/botcomm/pkg/comm"
)

// Badger is a Store implementation backed by BadgerDB v4.
type Badger struct {
	db *badger.DB
}

var _ Store = (*Badger)(nil)

// BadgerOptions configures the BadgerDB store.
type BadgerOptions struct {
	// Dir is the directory for BadgerDB data files. Required unless
	// InMemory is set.
	Dir string

	// InMemory runs BadgerDB in memory-only mode (no disk persistence).
	// Useful for testing with a real badger engine.
	InMemory bool

	// Logger sets the badger logger. If nil, a quiet default is used.
	Logger badger.Logger
}

// NewBadger creates a new BadgerDB-backed Store.
func NewBadger(opts BadgerOptions) (*Badger, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("commstore: BadgerOptions.Dir is required for on-disk mode")
	}
	dbOpts := badger.DefaultOptions(opts.Dir)
	if opts.InMemory {
		dbOpts = dbOpts.WithInMemory(true)
	}
	if opts.Logger != nil {
		dbOpts = dbOpts.WithLogger(opts.Logger)
	} else {
		dbOpts = dbOpts.WithLogger(quietLogger{})
	}
	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}
	return &Badger{db: db}, nil
}

func (b *Badger) LoadConfig(_ context.Context, publicID string) (*comm.CommConfig, error) {
	var cfg comm.CommConfig
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(configKey(publicID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return msgpack.Unmarshal(val, &cfg)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, comm.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("commstore: load config %s: %w", publicID, err)
	}
	return &cfg, nil
}

func (b *Badger) LoadHistory(_ context.Context, commID string) ([]comm.ChatMessage, error) {
	var msgs []comm.ChatMessage
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(historyKey(commID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return msgpack.Unmarshal(val, &msgs)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("commstore: load history %s: %w", commID, err)
	}
	return msgs, nil
}

func (b *Badger) SaveConfig(_ context.Context, cfg *comm.CommConfig) error {
	val, err := msgpack.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("commstore: encode config: %w", err)
	}
	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(configKey(cfg.PublicID), val)
	})
	if err != nil {
		return fmt.Errorf("commstore: save config %s: %w", cfg.PublicID, err)
	}
	return nil
}

// AppendMessages appends one turn to the stored history in a single badger
// transaction: either every message lands or none does.
func (b *Badger) AppendMessages(_ context.Context, msgs []comm.ChatMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	commID := msgs[0].CommID
	err := b.db.Update(func(txn *badger.Txn) error {
		var history []comm.ChatMessage
		item, err := txn.Get(historyKey(commID))
		if err == nil {
			err = item.Value(func(val []byte) error {
				return msgpack.Unmarshal(val, &history)
			})
		}
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		history = append(history, msgs...)
		val, err := msgpack.Marshal(history)
		if err != nil {
			return err
		}
		return txn.Set(historyKey(commID), val)
	})
	if err != nil {
		return fmt.Errorf("commstore: append messages %s: %w", commID, err)
	}
	return nil
}

func (b *Badger) Configs(_ context.Context) ([]*comm.CommConfig, error) {
	var cfgs []*comm.CommConfig
	prefix := []byte(configPrefix)
	err := b.db.View(func(txn *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.Prefix = prefix
		it := txn.NewIterator(iterOpts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var cfg comm.CommConfig
			err := it.Item().Value(func(val []byte) error {
				return msgpack.Unmarshal(val, &cfg)
			})
			if err != nil {
				return err
			}
			cfgs = append(cfgs, &cfg)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("commstore: list configs: %w", err)
	}
	return cfgs, nil
}

func (b *Badger) Close() error {
	return b.db.Close()
}

// quietLogger wraps the standard log package for badger, suppressing debug
// and info level messages.
type quietLogger struct{}

func (quietLogger) Errorf(f string, v ...interface{}) { log.Printf("[badger] ERROR: "+f, v...) }
func (quietLogger) Warningf(f string, v ...interface{}) {
	log.Printf("[badger] WARN: "+f, v...)
}
func (quietLogger) Infof(string, ...interface{})  {}
func (quietLogger) Debugf(string, ...interface{}) {}
