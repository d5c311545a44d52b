package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"shopkeep/internal/domain"
	"shopkeep/internal/port"
	"shopkeep/internal/repos"
	"shopkeep/internal/repos/memory"
)

type backend struct {
	name  string
	items port.ItemStore
	sales port.SaleLedger
	inv   port.Inventory
}

func memoryBackend(t *testing.T) backend {
	t.Helper()
	s := memory.NewStore()
	return backend{name: "memory", items: s.Items(), sales: s.Sales(), inv: s.Inventory()}
}

func sqliteBackend(t *testing.T) backend {
	t.Helper()
	db, err := repos.OpenDB("sqlite", ":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return backend{
		name:  "sqlite",
		items: repos.NewItemRepo(db),
		sales: repos.NewSaleRepo(db),
		inv:   repos.NewInventoryRepo(db),
	}
}

// eachBackend runs fn against every store implementation.
func eachBackend(t *testing.T, fn func(t *testing.T, b backend)) {
	for _, mk := range []func(*testing.T) backend{memoryBackend, sqliteBackend} {
		b := mk(t)
		t.Run(b.name, func(t *testing.T) { fn(t, b) })
	}
}

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func widget(qty int) domain.NewItem {
	return domain.NewItem{
		Name:              "Widget",
		Description:       "A small widget",
		PurchasePrice:     money("4.00"),
		SellingPrice:      money("10.00"),
		Quantity:          qty,
		LowStockThreshold: 2,
	}
}

func mustCreate(t *testing.T, b backend, in domain.NewItem) domain.Item {
	t.Helper()
	it, err := b.items.Create(context.Background(), in)
	require.NoError(t, err)
	return it
}

func mustGet(t *testing.T, b backend, id string) domain.Item {
	t.Helper()
	it, ok, err := b.items.Get(context.Background(), id)
	require.NoError(t, err)
	require.True(t, ok, "item %s should exist", id)
	return it
}

func mustSales(t *testing.T, b backend) []domain.Sale {
	t.Helper()
	sales, err := b.sales.List(context.Background())
	require.NoError(t, err)
	return sales
}

func requireMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, money(want).Equal(got), "want %s, got %s", want, got)
}

var errLedgerDown = errors.New("ledger down")

// brokenLedger lets the decrement through and fails the append, so the
// surrounding unit of work has to roll back.
type brokenLedger struct{ port.Inventory }

func (b brokenLedger) WithTx(ctx context.Context, fn func(context.Context, port.StockTx) error) error {
	return b.Inventory.WithTx(ctx, func(ctx context.Context, tx port.StockTx) error {
		return fn(ctx, failingAppend{tx})
	})
}

type failingAppend struct{ port.StockTx }

func (failingAppend) AppendSale(context.Context, domain.Sale) (domain.Sale, error) {
	return domain.Sale{}, errLedgerDown
}
