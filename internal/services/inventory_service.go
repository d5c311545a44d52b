package services

import (
	"context"
	"errors"
	"fmt"

	"shopkeep/internal/domain"
	"shopkeep/internal/metrics"
	"shopkeep/internal/port"
	"shopkeep/internal/validate"
)

type InventoryService struct {
	Inv     port.Inventory
	Metrics *metrics.Metrics
}

func NewInventoryService(inv port.Inventory, m *metrics.Metrics) *InventoryService {
	return &InventoryService{Inv: inv, Metrics: m}
}

// Sell removes qty units from the item and records the sale in one unit of
// work. Stock is never driven below zero: the decrement only applies when
// enough units remain, and a refusal leaves both stores untouched.
//
// Errors: domain.ErrInvalidArgument (qty < 1), domain.ErrNotFound,
// domain.ErrInsufficientStock, or a wrapped store failure.
func (s *InventoryService) Sell(ctx context.Context, itemID string, qty int) (domain.Sale, error) {
	if qty < 1 {
		return domain.Sale{}, domain.ErrInvalidArgument
	}
	id, ok := validate.ID(itemID)
	if !ok {
		return domain.Sale{}, domain.ErrNotFound
	}

	var sale domain.Sale
	err := s.Inv.WithTx(ctx, func(ctx context.Context, tx port.StockTx) error {
		applied, err := tx.DecrementStock(ctx, id, qty)
		if err != nil {
			return err
		}
		if !applied {
			_, found, err := tx.GetItem(ctx, id)
			switch {
			case err != nil:
				return err
			case !found:
				return domain.ErrNotFound
			default:
				return domain.ErrInsufficientStock
			}
		}

		it, found, err := tx.GetItem(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrNotFound
		}

		sale, err = tx.AppendSale(ctx, domain.NewSale(it, qty))
		return err
	})

	switch {
	case err == nil:
		s.Metrics.SaleRecorded(qty)
		return sale, nil
	case errors.Is(err, domain.ErrInsufficientStock):
		s.Metrics.SaleDeclined()
		return domain.Sale{}, err
	case errors.Is(err, domain.ErrNotFound):
		return domain.Sale{}, err
	default:
		return domain.Sale{}, fmt.Errorf("services: sell %s: %w", id, err)
	}
}
