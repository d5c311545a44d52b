// Package memory is a process-local store satisfying the same ports as the
// SQL repos. It backs tests and SQL-less runs.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"shopkeep/internal/domain"
	"shopkeep/internal/port"
	"shopkeep/internal/validate"
)

type Store struct {
	mu    sync.RWMutex
	items []domain.Item // newest first
	sales []domain.Sale // newest first
}

func NewStore() *Store { return &Store{} }

func (s *Store) Items() *ItemStore     { return &ItemStore{s: s} }
func (s *Store) Sales() *SaleLedger    { return &SaleLedger{s: s} }
func (s *Store) Inventory() *Inventory { return &Inventory{s: s} }

func (s *Store) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

type ItemStore struct{ s *Store }

func (r *ItemStore) List(ctx context.Context) ([]domain.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Item, len(r.s.items))
	copy(out, r.s.items)
	return out, nil
}

func (r *ItemStore) Get(ctx context.Context, id string) (domain.Item, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if i := r.s.indexOf(id); i >= 0 {
		return r.s.items[i], true, nil
	}
	return domain.Item{}, false, nil
}

func (r *ItemStore) Create(ctx context.Context, in domain.NewItem) (domain.Item, error) {
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
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.items = append([]domain.Item{it}, r.s.items...)
	return it, nil
}

func (r *ItemStore) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if i := r.s.indexOf(id); i >= 0 {
		r.s.items = append(r.s.items[:i:i], r.s.items[i+1:]...)
	}
	return nil
}

type SaleLedger struct{ s *Store }

func (l *SaleLedger) List(ctx context.Context) ([]domain.Sale, error) {
	l.s.mu.RLock()
	defer l.s.mu.RUnlock()
	out := make([]domain.Sale, len(l.s.sales))
	copy(out, l.s.sales)
	return out, nil
}

// Inventory serializes every unit of work behind the store's write lock and
// undoes its changes when the unit fails.
type Inventory struct{ s *Store }

func (inv *Inventory) WithTx(ctx context.Context, fn func(context.Context, port.StockTx) error) error {
	inv.s.mu.Lock()
	defer inv.s.mu.Unlock()

	tx := &stockTx{s: inv.s}
	if err := fn(ctx, tx); err != nil {
		for i := len(tx.undo) - 1; i >= 0; i-- {
			tx.undo[i]()
		}
		return err
	}
	return nil
}

// Snapshot copies both slices under one read lock.
func (inv *Inventory) Snapshot(ctx context.Context) ([]domain.Item, []domain.Sale, error) {
	inv.s.mu.RLock()
	defer inv.s.mu.RUnlock()
	items := make([]domain.Item, len(inv.s.items))
	copy(items, inv.s.items)
	sales := make([]domain.Sale, len(inv.s.sales))
	copy(sales, inv.s.sales)
	return items, sales, nil
}

type stockTx struct {
	s    *Store
	undo []func()
}

func (tx *stockTx) DecrementStock(ctx context.Context, itemID string, qty int) (bool, error) {
	i := tx.s.indexOf(itemID)
	if i < 0 || tx.s.items[i].Quantity < qty {
		return false, nil
	}
	tx.s.items[i].Quantity -= qty
	tx.undo = append(tx.undo, func() {
		if j := tx.s.indexOf(itemID); j >= 0 {
			tx.s.items[j].Quantity += qty
		}
	})
	return true, nil
}

func (tx *stockTx) GetItem(ctx context.Context, id string) (domain.Item, bool, error) {
	if i := tx.s.indexOf(id); i >= 0 {
		return tx.s.items[i], true, nil
	}
	return domain.Item{}, false, nil
}

func (tx *stockTx) AppendSale(ctx context.Context, sale domain.Sale) (domain.Sale, error) {
	if err := ctx.Err(); err != nil {
		return domain.Sale{}, err
	}
	sale.ID = uuid.Must(uuid.NewV7()).String()
	sale.Date = time.Now().UTC()
	tx.s.sales = append([]domain.Sale{sale}, tx.s.sales...)
	tx.undo = append(tx.undo, func() { tx.s.sales = tx.s.sales[1:] })
	return sale, nil
}

var (
	_ port.ItemStore  = (*ItemStore)(nil)
	_ port.SaleLedger = (*SaleLedger)(nil)
	_ port.Inventory  = (*Inventory)(nil)
)
