package handlers

import (
	"time"

	"shopkeep/internal/imagesearch"
	"shopkeep/internal/metrics"
	"shopkeep/internal/port"
	"shopkeep/internal/services"
	"shopkeep/internal/trends"
)

// Stores groups the three store views every handler is built on.
type Stores struct {
	Items     port.ItemStore
	Sales     port.SaleLedger
	Inventory port.Inventory
}

type Deps struct {
	InventoryHandler *InventoryHandler
	ReportHandler    *ReportHandler
	APIHandler       *APIHandler
	ImageHandler     *ImageHandler
	Metrics          *metrics.Metrics
}

func NewDeps(st Stores, summarizer trends.Summarizer, trendsTimeout time.Duration, images *imagesearch.Lookup, m *metrics.Metrics) *Deps {
	catalogSvc := services.NewCatalogService(st.Items)
	invSvc := services.NewInventoryService(st.Inventory, m)
	reportSvc := services.NewReportService(st.Inventory, st.Sales)
	trendsSvc := services.NewTrendsService(st.Sales, summarizer, trendsTimeout, m)
	if images == nil {
		images = imagesearch.New(nil, nil, m)
	}

	return &Deps{
		InventoryHandler: &InventoryHandler{Catalog: catalogSvc, Inv: invSvc},
		ReportHandler:    &ReportHandler{ReportSvc: reportSvc, TrendsSvc: trendsSvc},
		APIHandler:       &APIHandler{Catalog: catalogSvc, Inv: invSvc, ReportSvc: reportSvc, TrendsSvc: trendsSvc},
		ImageHandler:     &ImageHandler{Lookup: images},
		Metrics:          m,
	}
}
