package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"shopkeep/internal/domain"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sale(itemID, name string, qty int, price string) domain.Sale {
	return domain.NewSale(domain.Item{ID: itemID, Name: name, SellingPrice: dec(price)}, qty)
}

func TestSummarizeEmpty(t *testing.T) {
	sum := Summarize(nil, nil)
	require.True(t, sum.TotalRevenue.IsZero())
	require.Zero(t, sum.TotalUnitsSold)
	require.Nil(t, sum.TopSeller)
	require.Equal(t, "none", sum.TopSellerName())
	require.Zero(t, sum.LowStockCount)
}

func TestSummarizeTotalsAndLowStock(t *testing.T) {
	items := []domain.Item{
		{ID: "a", Name: "Widget", Quantity: 1, LowStockThreshold: 2},
		{ID: "b", Name: "Gadget", Quantity: 9, LowStockThreshold: 2},
		{ID: "c", Name: "Gizmo", Quantity: 0, LowStockThreshold: 0},
	}
	sales := []domain.Sale{
		sale("a", "Widget", 4, "10"),
		sale("b", "Gadget", 1, "2.50"),
		sale("b", "Gadget", 2, "2.50"),
	}
	sum := Summarize(items, sales)
	require.True(t, dec("47.50").Equal(sum.TotalRevenue), sum.TotalRevenue.String())
	require.Equal(t, 7, sum.TotalUnitsSold)
	require.Equal(t, 2, sum.LowStockCount)
	require.Len(t, sum.LowStockItems, 2)
	require.Equal(t, 2, sum.ItemsInStock)
	require.NotNil(t, sum.TopSeller)
	require.Equal(t, "a", sum.TopSeller.ItemID)
	require.Equal(t, 4, sum.TopSeller.Units)
}

func TestSummarizeTieGoesToFirstInLedgerOrder(t *testing.T) {
	sales := []domain.Sale{
		sale("b", "Gadget", 3, "1"),
		sale("a", "Widget", 2, "1"),
		sale("a", "Widget", 1, "1"),
	}
	sum := Summarize(nil, sales)
	require.Equal(t, "b", sum.TopSeller.ItemID)
	require.Equal(t, 3, sum.TopSeller.Units)
}

func TestSummarizeDeletedItemStillCounts(t *testing.T) {
	sales := []domain.Sale{sale("gone", "Old Lamp", 5, "3")}
	sum := Summarize([]domain.Item{{ID: "x", Name: "Live", Quantity: 10, LowStockThreshold: 1}}, sales)
	require.True(t, dec("15").Equal(sum.TotalRevenue))
	require.Equal(t, 5, sum.TotalUnitsSold)
	require.Equal(t, "Old Lamp", sum.TopSellerName())
	require.False(t, sum.TopSeller.Live)
	require.Zero(t, sum.LowStockCount)
}

func TestSummarizeUsesLiveNameAndDoesNotMutate(t *testing.T) {
	items := []domain.Item{{ID: "a", Name: "Renamed", Quantity: 3, LowStockThreshold: 1}}
	sales := []domain.Sale{sale("a", "Original", 2, "4")}
	itemsBefore := append([]domain.Item(nil), items...)
	salesBefore := append([]domain.Sale(nil), sales...)

	first := Summarize(items, sales)
	second := Summarize(items, sales)

	require.Equal(t, "Renamed", first.TopSellerName())
	require.True(t, first.TotalRevenue.Equal(second.TotalRevenue))
	require.Equal(t, first.TotalUnitsSold, second.TotalUnitsSold)
	require.Equal(t, itemsBefore, items)
	require.Equal(t, salesBefore, sales)
}

func TestSalesData(t *testing.T) {
	require.Equal(t, "", SalesData(nil))
	sales := []domain.Sale{sale("a", "ItemA", 10, "1"), sale("b", "ItemB", 5, "1"), sale("a", "ItemA", 3, "1")}
	require.Equal(t, "ItemA:10, ItemB:5, ItemA:3", SalesData(sales))
}
