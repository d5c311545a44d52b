package domain

import (
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultImageHint is attached to every newly created item.
const DefaultImageHint = "product"

// DefaultImageURL is the placeholder reference given to new items; it points
// at the item image endpoint.
func DefaultImageURL(name string) string {
	return "/api/item-image?name=" + url.QueryEscape(name)
}

// NewItemID returns a time-ordered id, so ids also sort by recency.
func NewItemID() string { return uuid.Must(uuid.NewV7()).String() }

type Item struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	PurchasePrice     decimal.Decimal `json:"purchasePrice"`
	SellingPrice      decimal.Decimal `json:"sellingPrice"`
	Quantity          int             `json:"quantity"`
	LowStockThreshold int             `json:"lowStockThreshold"`
	ImageURL          string          `json:"imageUrl"`
	ImageHint         string          `json:"imageHint"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// LowStock reports quantity <= threshold.
func (i Item) LowStock() bool { return i.Quantity <= i.LowStockThreshold }

// NewItem carries the caller-supplied fields of an item; id and image are
// assigned by the store.
type NewItem struct {
	Name              string          `json:"name" validate:"required"`
	Description       string          `json:"description" validate:"required"`
	PurchasePrice     decimal.Decimal `json:"purchasePrice" validate:"gte=0"`
	SellingPrice      decimal.Decimal `json:"sellingPrice" validate:"gte=0"`
	Quantity          int             `json:"quantity" validate:"gte=0"`
	LowStockThreshold int             `json:"lowStockThreshold" validate:"gte=0"`
}

// Sale is an immutable ledger entry. ItemName and PricePerItem are snapshots
// taken when the sale was recorded.
type Sale struct {
	ID           string          `json:"id"`
	ItemID       string          `json:"itemId"`
	ItemName     string          `json:"itemName"`
	Quantity     int             `json:"quantity"`
	PricePerItem decimal.Decimal `json:"pricePerItem"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`
	Date         time.Time       `json:"date"`
}

// NewSale builds the ledger snapshot for selling qty units of it.
func NewSale(it Item, qty int) Sale {
	return Sale{
		ItemID:       it.ID,
		ItemName:     it.Name,
		Quantity:     qty,
		PricePerItem: it.SellingPrice,
		TotalPrice:   it.SellingPrice.Mul(decimal.NewFromInt(int64(qty))),
	}
}
