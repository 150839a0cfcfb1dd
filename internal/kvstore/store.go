package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Fixed keys of the persisted collections.
const (
	KeyUsers   = "dashboard_users"
	KeySales   = "dashboard_sales"
	KeySession = "dashboard_auth"
)

// ErrKeyNotFound is returned when no value is stored under a key.
var ErrKeyNotFound = errors.New("key not found")

// ErrEmptyKey is returned when trying to store a value under an empty key.
var ErrEmptyKey = errors.New("empty key")

// Store is the key-value storage every collection is persisted into.
// Values are whole snapshots: Set always replaces what was there.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open returns the store selected by driver ("memory" or "sqlite").
func Open(driver, path string) (Store, error) {
	switch driver {
	case "memory":
		return NewMemoryStore(), nil
	case "sqlite", "":
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

// GetJSON decodes the value under key into dst. It reports false, with no
// error, when the key is absent.
func GetJSON(ctx context.Context, s Store, key string, dst any) (bool, error) {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON serializes v and overwrites the value under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
