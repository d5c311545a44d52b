package services

import (
	"context"

	"shopkeep/internal/domain"
	"shopkeep/internal/port"
	"shopkeep/internal/validate"
)

type CatalogService struct {
	Items port.ItemStore
}

func NewCatalogService(items port.ItemStore) *CatalogService {
	return &CatalogService{Items: items}
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Item, error) {
	items, err := s.Items.List(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Item{}
	}
	return items, nil
}

// Get returns domain.ErrNotFound for unknown or malformed ids.
func (s *CatalogService) Get(ctx context.Context, id string) (domain.Item, error) {
	id, ok := validate.ID(id)
	if !ok {
		return domain.Item{}, domain.ErrNotFound
	}
	it, found, err := s.Items.Get(ctx, id)
	if err != nil {
		return domain.Item{}, err
	}
	if !found {
		return domain.Item{}, domain.ErrNotFound
	}
	return it, nil
}

// Add validates in and stores it. Field problems come back as a
// *domain.ValidationError.
func (s *CatalogService) Add(ctx context.Context, in domain.NewItem) (domain.Item, error) {
	if verr := validate.Item(&in); verr != nil {
		return domain.Item{}, verr
	}
	return s.Items.Create(ctx, in)
}

// Delete ignores unknown ids. Recorded sales for the item stay in the ledger.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	id, ok := validate.ID(id)
	if !ok {
		return nil
	}
	return s.Items.Delete(ctx, id)
}
