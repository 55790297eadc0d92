// Package commstore persists communication configurations and chat history
// for the hub. Values are msgpack-encoded; the camelCase JSON used on the
// wire never reaches storage.
//
// The package includes a BadgerDB-backed implementation for production use
// and an in-memory implementation for testing.
package commstore

import (
	"context"

	"github.com/haivivi/botcomm/pkg/comm"
)

// Key layout. Config entries are keyed by public ID because that is what
// connections present; history entries are keyed by the internal ID so a
// config re-key cannot orphan a conversation.
const (
	configPrefix  = "config:"
	historyPrefix = "history:"
)

// Store is the full storage surface: the hub's comm.Store plus the
// enumeration used by operator tooling.
type Store interface {
	comm.Store

	// Configs returns all stored configurations in unspecified order.
	Configs(ctx context.Context) ([]*comm.CommConfig, error)

	// Close releases any resources held by the store.
	Close() error
}

func configKey(publicID string) []byte {
	return []byte(configPrefix + publicID)
}

func historyKey(commID string) []byte {
	return []byte(historyPrefix + commID)
}
