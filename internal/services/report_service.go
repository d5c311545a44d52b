package services

import (
	"context"

	"shopkeep/internal/domain"
	"shopkeep/internal/port"
	"shopkeep/internal/report"
)

type ReportService struct {
	Inv    port.Inventory
	Ledger port.SaleLedger
}

func NewReportService(inv port.Inventory, sales port.SaleLedger) *ReportService {
	return &ReportService{Inv: inv, Ledger: sales}
}

// Sales returns the ledger, most recent first.
func (s *ReportService) Sales(ctx context.Context) ([]domain.Sale, error) {
	sales, err := s.Ledger.List(ctx)
	if err != nil {
		return nil, err
	}
	if sales == nil {
		sales = []domain.Sale{}
	}
	return sales, nil
}

// Summary aggregates one consistent snapshot of items and sales, so a sale
// recorded concurrently shows up in both the stock and the totals or in
// neither.
func (s *ReportService) Summary(ctx context.Context) (report.Summary, []domain.Sale, error) {
	items, sales, err := s.Inv.Snapshot(ctx)
	if err != nil {
		return report.Summary{}, nil, err
	}
	return report.Summarize(items, sales), sales, nil
}
