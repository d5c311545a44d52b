package port

import (
	"context"

	"shopkeep/internal/domain"
)

type ItemStore interface {
	// List returns items, most recently created first.
	List(ctx context.Context) ([]domain.Item, error)
	// Get reports ok=false when the id does not exist.
	Get(ctx context.Context, id string) (domain.Item, bool, error)
	// Create validates in, assigns id and default image, and stores the item.
	Create(ctx context.Context, in domain.NewItem) (domain.Item, error)
	// Delete is a no-op for unknown ids and never touches the ledger.
	Delete(ctx context.Context, id string) error
}

type SaleLedger interface {
	// List returns sales, most recent first.
	List(ctx context.Context) ([]domain.Sale, error)
}

// StockTx is the view of both stores available inside one unit of work.
type StockTx interface {
	// DecrementStock subtracts qty only when at least qty units remain.
	// It returns false, with no change, when the item is missing or short.
	DecrementStock(ctx context.Context, itemID string, qty int) (bool, error)
	GetItem(ctx context.Context, id string) (domain.Item, bool, error)
	// AppendSale assigns id and date and records the sale.
	AppendSale(ctx context.Context, sale domain.Sale) (domain.Sale, error)
}

type Inventory interface {
	// WithTx runs fn as one atomic unit: every change made through tx is kept
	// if fn returns nil and discarded otherwise.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx StockTx) error) error
	// Snapshot reads items and sales at one point in time: every sale it
	// returns is matched by its stock decrement and vice versa.
	Snapshot(ctx context.Context) ([]domain.Item, []domain.Sale, error)
}
