package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"shopkeep/internal/domain"
	"shopkeep/internal/validate"
)

type ItemRepo struct{ db *sqlx.DB }

func NewItemRepo(db *sqlx.DB) *ItemRepo { return &ItemRepo{db: db} }

type itemRow struct {
	ID                string          `db:"id"`
	Name              string          `db:"name"`
	Description       string          `db:"description"`
	PurchasePrice     decimal.Decimal `db:"purchase_price"`
	SellingPrice      decimal.Decimal `db:"selling_price"`
	Quantity          int             `db:"quantity"`
	LowStockThreshold int             `db:"low_stock_threshold"`
	ImageURL          string          `db:"image_url"`
	ImageHint         string          `db:"image_hint"`
	CreatedAt         string          `db:"created_at"`
}

func (r itemRow) item() domain.Item {
	return domain.Item{
		ID:                r.ID,
		Name:              r.Name,
		Description:       r.Description,
		PurchasePrice:     r.PurchasePrice,
		SellingPrice:      r.SellingPrice,
		Quantity:          r.Quantity,
		LowStockThreshold: r.LowStockThreshold,
		ImageURL:          r.ImageURL,
		ImageHint:         r.ImageHint,
		CreatedAt:         parseTS(r.CreatedAt),
	}
}

const itemColumns = `id, name, description, purchase_price, selling_price, quantity,
	low_stock_threshold, image_url, image_hint, created_at`

// List returns all items, newest first.
func (r *ItemRepo) List(ctx context.Context) ([]domain.Item, error) {
	return listItems(ctx, r.db)
}

func listItems(ctx context.Context, q sqlx.QueryerContext) ([]domain.Item, error) {
	var rows []itemRow
	if err := sqlx.SelectContext(ctx, q, &rows, `
		SELECT `+itemColumns+`
		FROM items
		ORDER BY created_at DESC, id DESC
	`); err != nil {
		return nil, fmt.Errorf("repos: list items: %w", err)
	}
	out := make([]domain.Item, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.item())
	}
	return out, nil
}

// Get reports ok=false (and no error) when id is unknown.
func (r *ItemRepo) Get(ctx context.Context, id string) (domain.Item, bool, error) {
	return getItem(ctx, r.db, id)
}

func getItem(ctx context.Context, q sqlx.QueryerContext, id string) (domain.Item, bool, error) {
	var row itemRow
	err := sqlx.GetContext(ctx, q, &row, bind(q, `SELECT `+itemColumns+` FROM items WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Item{}, false, nil
	}
	if err != nil {
		return domain.Item{}, false, fmt.Errorf("repos: get item: %w", err)
	}
	return row.item(), true, nil
}

// Create validates in again before writing; callers are expected to have
// validated already.
func (r *ItemRepo) Create(ctx context.Context, in domain.NewItem) (domain.Item, error) {
	if verr := validate.Item(&in); verr != nil {
		return domain.Item{}, verr
	}
	it := domain.Item{
		ID:                domain.NewItemID(),
		Name:              in.Name,
		Description:       in.Description,
		PurchasePrice:     in.PurchasePrice,
		SellingPrice:      in.SellingPrice,
		Quantity:          in.Quantity,
		LowStockThreshold: in.LowStockThreshold,
		ImageURL:          domain.DefaultImageURL(in.Name),
		ImageHint:         domain.DefaultImageHint,
		CreatedAt:         time.Now().UTC(),
	}
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO items(`+itemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), it.ID, it.Name, it.Description, it.PurchasePrice, it.SellingPrice, it.Quantity,
		it.LowStockThreshold, it.ImageURL, it.ImageHint, formatTS(it.CreatedAt))
	if err != nil {
		return domain.Item{}, fmt.Errorf("repos: insert item: %w", err)
	}
	return it, nil
}

// Delete removes the item. Unknown ids are not an error. Sales are kept.
func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM items WHERE id = ?`), id); err != nil {
		return fmt.Errorf("repos: delete item: %w", err)
	}
	return nil
}
