package repos

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"shopkeep/internal/domain"
	"shopkeep/internal/port"
)

// InventoryRepo runs the sell unit of work across items and sales in one
// database transaction.
type InventoryRepo struct{ db *sqlx.DB }

func NewInventoryRepo(db *sqlx.DB) *InventoryRepo { return &InventoryRepo{db: db} }

func (r *InventoryRepo) WithTx(ctx context.Context, fn func(context.Context, port.StockTx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("repos: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(ctx, &stockTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("repos: commit tx: %w", err)
	}
	return nil
}

// Snapshot lists items and sales inside one read-only transaction. SQLite
// runs on a single connection, so its default transaction already excludes
// concurrent writers.
func (r *InventoryRepo) Snapshot(ctx context.Context) ([]domain.Item, []domain.Sale, error) {
	opts := &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead}
	if r.db.DriverName() == "sqlite" {
		opts = nil
	}
	tx, err := r.db.BeginTxx(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("repos: begin snapshot: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	items, err := listItems(ctx, tx)
	if err != nil {
		return nil, nil, err
	}
	sales, err := listSales(ctx, tx)
	if err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("repos: commit snapshot: %w", err)
	}
	return items, sales, nil
}

type stockTx struct{ tx *sqlx.Tx }

// DecrementStock atomically subtracts qty units if enough stock exists. The
// conditional update also takes the row lock on backends that have one.
func (s *stockTx) DecrementStock(ctx context.Context, itemID string, qty int) (bool, error) {
	res, err := s.tx.ExecContext(ctx, s.tx.Rebind(`
		UPDATE items
		SET quantity = quantity - ?
		WHERE id = ? AND quantity >= ?
	`), qty, itemID, qty)
	if err != nil {
		return false, fmt.Errorf("repos: decrement stock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("repos: decrement stock: %w", err)
	}
	return n == 1, nil
}

func (s *stockTx) GetItem(ctx context.Context, id string) (domain.Item, bool, error) {
	return getItem(ctx, s.tx, id)
}

func (s *stockTx) AppendSale(ctx context.Context, sale domain.Sale) (domain.Sale, error) {
	return appendSale(ctx, s.tx, sale)
}
