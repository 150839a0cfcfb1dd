package sales

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sales_dashboard/internal/metrics"
)

// Ledger holds the sales collection in memory and writes the whole
// collection back to its Storage after every mutation.
type Ledger struct {
	mu      sync.RWMutex
	storage Storage
	logger  *zap.Logger
	sales   []Sale
	now     func() time.Time
}

// NewLedger loads the persisted sales once and returns a ready ledger.
func NewLedger(ctx context.Context, storage Storage, logger *zap.Logger) (*Ledger, error) {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}

	loaded, err := storage.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sales: %w", err)
	}

	return &Ledger{
		storage: storage,
		logger:  logger,
		sales:   loaded,
		now:     time.Now,
	}, nil
}

// RecordSale appends a new sale with a fresh id and the current time.
func (l *Ledger) RecordSale(ctx context.Context, in SaleInput) (Sale, error) {
	sale, err := NewSale("sale-"+uuid.NewString(), in, l.now())
	if err != nil {
		l.logger.Warn("rejected sale", zap.String("user_id", in.OwnerID), zap.Error(err))
		return Sale{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	next := append(slices.Clone(l.sales), sale)
	if err := l.storage.Save(ctx, next); err != nil {
		l.logger.Error("failed to save sale", zap.String("sale_id", sale.ID), zap.Error(err))
		return Sale{}, fmt.Errorf("failed to save sale: %w", err)
	}
	l.sales = next

	metrics.SalesRecordedTotal.Inc()
	metrics.SalesValueRecordedTotal.Add(sale.Total())
	l.logger.Info("sale recorded",
		zap.String("sale_id", sale.ID),
		zap.String("user_id", sale.UserID),
		zap.String("item", sale.Item),
		zap.Float64("total", sale.Total()),
	)
	return sale, nil
}

// SetPaymentStatus overwrites the paid flag of the first sale with saleID.
func (l *Ledger) SetPaymentStatus(ctx context.Context, saleID string, isPaid bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := slices.IndexFunc(l.sales, func(s Sale) bool { return s.ID == saleID })
	if idx == -1 {
		return ErrNotFound
	}

	next := slices.Clone(l.sales)
	next[idx].IsPaid = isPaid
	if err := l.storage.Save(ctx, next); err != nil {
		l.logger.Error("failed to update sale", zap.String("sale_id", saleID), zap.Error(err))
		return fmt.Errorf("failed to update sale: %w", err)
	}
	l.sales = next

	metrics.PaymentStatusUpdatesTotal.WithLabelValues(metrics.PaidLabel(isPaid)).Inc()
	l.logger.Info("payment status updated", zap.String("sale_id", saleID), zap.Bool("is_paid", isPaid))
	return nil
}

// SalesForOwner returns the sales recorded by ownerID in insertion order.
func (l *Ledger) SalesForOwner(ownerID string) []Sale {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Sale, 0)
	for _, s := range l.sales {
		if s.UserID == ownerID {
			out = append(out, s)
		}
	}
	return out
}

// All returns every sale in insertion order.
func (l *Ledger) All() []Sale {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append(make([]Sale, 0, len(l.sales)), l.sales...)
}

// Get returns the sale with id, or ErrNotFound.
func (l *Ledger) Get(id string) (Sale, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, s := range l.sales {
		if s.ID == id {
			return s, nil
		}
	}
	return Sale{}, ErrNotFound
}

// SortNewestFirst returns a copy of sales ordered by timestamp, most recent
// first. Sales with equal timestamps keep their relative order.
func SortNewestFirst(sales []Sale) []Sale {
	out := slices.Clone(sales)
	slices.SortStableFunc(out, func(a, b Sale) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return out
}
