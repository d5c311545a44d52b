// Package report derives the sales summary from item and ledger snapshots.
// Everything here is a pure function of its inputs.
package report

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"shopkeep/internal/domain"
)

type TopSeller struct {
	ItemID string
	Name   string
	Units  int
	// Live is false when the item has since been deleted; Name then comes
	// from the ledger snapshot.
	Live bool
}

type Summary struct {
	TotalRevenue   decimal.Decimal
	TotalUnitsSold int
	TopSeller      *TopSeller // nil when there are no sales
	LowStockCount  int
	LowStockItems  []domain.Item
	ItemsInStock   int
}

// TopSellerName is the display value for the summary card.
func (s Summary) TopSellerName() string {
	if s.TopSeller == nil {
		return "none"
	}
	return s.TopSeller.Name
}

// Summarize computes revenue, units, top seller and low stock. Sales whose
// item was deleted still count toward revenue and units.
func Summarize(items []domain.Item, sales []domain.Sale) Summary {
	sum := Summary{TotalRevenue: decimal.Zero}

	units := make(map[string]int, len(sales))
	order := make([]string, 0, len(sales))
	snapshotName := make(map[string]string, len(sales))
	for _, s := range sales {
		sum.TotalRevenue = sum.TotalRevenue.Add(s.TotalPrice)
		sum.TotalUnitsSold += s.Quantity
		if _, seen := units[s.ItemID]; !seen {
			order = append(order, s.ItemID)
			snapshotName[s.ItemID] = s.ItemName
		}
		units[s.ItemID] += s.Quantity
	}

	byID := make(map[string]domain.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
		if it.LowStock() {
			sum.LowStockCount++
			sum.LowStockItems = append(sum.LowStockItems, it)
		}
		if it.Quantity > 0 {
			sum.ItemsInStock++
		}
	}

	// strict > keeps the first item met in ledger order on ties
	for _, id := range order {
		if sum.TopSeller != nil && units[id] <= sum.TopSeller.Units {
			continue
		}
		ts := &TopSeller{ItemID: id, Units: units[id], Name: snapshotName[id]}
		if it, ok := byID[id]; ok {
			ts.Name = it.Name
			ts.Live = true
		}
		sum.TopSeller = ts
	}
	return sum
}

// SalesData encodes the ledger as "name:quantity" pairs joined by ", ", in
// ledger order. An empty ledger gives "".
func SalesData(sales []domain.Sale) string {
	parts := make([]string, 0, len(sales))
	for _, s := range sales {
		parts = append(parts, s.ItemName+":"+strconv.Itoa(s.Quantity))
	}
	return strings.Join(parts, ", ")
}
