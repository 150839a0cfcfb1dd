package sales

import (
	"context"
	"errors"

	"sales_dashboard/internal/kvstore"
)

// ErrNotFound is returned when a sale with the given ID is not found.
var ErrNotFound = errors.New("sale not found")

// ErrInvalidInput is returned when a sale violates its field constraints.
var ErrInvalidInput = errors.New("invalid sale")

// Storage persists the whole sales collection at once.
type Storage interface {
	Load(ctx context.Context) ([]Sale, error)
	Save(ctx context.Context, sales []Sale) error
}

// SnapshotStorage keeps the collection as one JSON array in a key-value store.
type SnapshotStorage struct {
	kv kvstore.Store
}

// NewSnapshotStorage stores sales under kvstore.KeySales.
func NewSnapshotStorage(kv kvstore.Store) *SnapshotStorage {
	return &SnapshotStorage{kv: kv}
}

// Load returns an empty collection when nothing has been saved yet.
func (s *SnapshotStorage) Load(ctx context.Context) ([]Sale, error) {
	var sales []Sale
	if _, err := kvstore.GetJSON(ctx, s.kv, kvstore.KeySales, &sales); err != nil {
		return nil, err
	}
	if sales == nil {
		sales = []Sale{}
	}
	return sales, nil
}

func (s *SnapshotStorage) Save(ctx context.Context, sales []Sale) error {
	return kvstore.SetJSON(ctx, s.kv, kvstore.KeySales, sales)
}

// LocalStorage provides an in-memory implementation for storing sales.
type LocalStorage struct {
	sales []Sale
	saves int
}

// NewLocalStorage instantiates a new LocalStorage with an empty collection.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{
		sales: []Sale{},
	}
}

func (l *LocalStorage) Load(_ context.Context) ([]Sale, error) {
	return append([]Sale(nil), l.sales...), nil
}

func (l *LocalStorage) Save(_ context.Context, sales []Sale) error {
	l.sales = append([]Sale(nil), sales...)
	l.saves++
	return nil
}

// Saves reports how many snapshots have been written.
func (l *LocalStorage) Saves() int {
	return l.saves
}
