package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"shopkeep/internal/metrics"
	"shopkeep/internal/port"
	"shopkeep/internal/report"
	"shopkeep/internal/trends"
)

// EmptyLedgerAnalysis is returned without calling the model when there are
// no sales to look at.
var EmptyLedgerAnalysis = trends.Analysis{
	TrendsAnalysis:   "Not enough sales data to perform analysis.",
	SuggestedActions: "Record more sales to enable this feature.",
}

type TrendsService struct {
	Ledger     port.SaleLedger
	Summarizer trends.Summarizer
	Timeout    time.Duration
	Metrics    *metrics.Metrics

	group singleflight.Group
}

func NewTrendsService(ledger port.SaleLedger, s trends.Summarizer, timeout time.Duration, m *metrics.Metrics) *TrendsService {
	if s == nil {
		s = trends.Unconfigured{}
	}
	return &TrendsService{Ledger: ledger, Summarizer: s, Timeout: timeout, Metrics: m}
}

// Analyze summarizes the current ledger. Every summarizer failure, including
// a timeout, is reported as trends.ErrUnavailable.
func (s *TrendsService) Analyze(ctx context.Context) (trends.Analysis, error) {
	sales, err := s.Ledger.List(ctx)
	if err != nil {
		return trends.Analysis{}, fmt.Errorf("services: trends: %w", err)
	}
	if len(sales) == 0 {
		s.Metrics.Trends("empty")
		return EmptyLedgerAnalysis, nil
	}

	data := report.SalesData(sales)
	// The call is shared by every waiter, so it must outlive whichever
	// request happened to start it; Timeout still bounds it.
	v, err, _ := s.group.Do(data, func() (interface{}, error) {
		cctx := context.WithoutCancel(ctx)
		if s.Timeout > 0 {
			var cancel context.CancelFunc
			cctx, cancel = context.WithTimeout(cctx, s.Timeout)
			defer cancel()
		}
		return s.Summarizer.Analyze(cctx, data)
	})
	if err != nil {
		s.Metrics.Trends("failed")
		if !errors.Is(err, trends.ErrUnavailable) {
			err = fmt.Errorf("%v: %w", err, trends.ErrUnavailable)
		}
		return trends.Analysis{}, err
	}
	s.Metrics.Trends("ok")
	return v.(trends.Analysis), nil
}
