package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"shopkeep/internal/domain"
)

type SaleRepo struct{ db *sqlx.DB }

func NewSaleRepo(db *sqlx.DB) *SaleRepo { return &SaleRepo{db: db} }

type saleRow struct {
	ID           string          `db:"id"`
	ItemID       string          `db:"item_id"`
	ItemName     string          `db:"item_name"`
	Quantity     int             `db:"quantity"`
	PricePerItem decimal.Decimal `db:"price_per_item"`
	TotalPrice   decimal.Decimal `db:"total_price"`
	Date         string          `db:"date"`
}

// List returns the ledger, most recent sale first.
func (r *SaleRepo) List(ctx context.Context) ([]domain.Sale, error) {
	return listSales(ctx, r.db)
}

func listSales(ctx context.Context, q sqlx.QueryerContext) ([]domain.Sale, error) {
	var rows []saleRow
	if err := sqlx.SelectContext(ctx, q, &rows, `
		SELECT id, item_id, item_name, quantity, price_per_item, total_price, date
		FROM sales
		ORDER BY date DESC, id DESC
	`); err != nil {
		return nil, fmt.Errorf("repos: list sales: %w", err)
	}
	out := make([]domain.Sale, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Sale{
			ID:           row.ID,
			ItemID:       row.ItemID,
			ItemName:     row.ItemName,
			Quantity:     row.Quantity,
			PricePerItem: row.PricePerItem,
			TotalPrice:   row.TotalPrice,
			Date:         parseTS(row.Date),
		})
	}
	return out, nil
}

// appendSale is only reachable through InventoryRepo.WithTx.
func appendSale(ctx context.Context, tx *sqlx.Tx, s domain.Sale) (domain.Sale, error) {
	s.ID = uuid.Must(uuid.NewV7()).String()
	s.Date = time.Now().UTC()
	_, err := tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO sales(id, item_id, item_name, quantity, price_per_item, total_price, date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), s.ID, s.ItemID, s.ItemName, s.Quantity, s.PricePerItem, s.TotalPrice, formatTS(s.Date))
	if err != nil {
		return domain.Sale{}, fmt.Errorf("repos: insert sale: %w", err)
	}
	return s, nil
}
