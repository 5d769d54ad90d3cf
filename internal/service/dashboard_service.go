package service

import (
	"context"
	"sort"

	"github.com/lojaviva/admin-api-go/internal/domain"
	"github.com/lojaviva/admin-api-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// dashboardListLimit caps the recent-sales and top-products widgets.
const dashboardListLimit = 5

var dashTracer = otel.Tracer("service/dashboard")

// DashboardService assembles the admin home screen snapshot.
type DashboardService struct {
	catalog    port.CatalogStore
	customers  port.CustomerStore
	promotions *PromotionService
	finance    *FinanceService
	logger     *zap.Logger
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(catalog port.CatalogStore, customers port.CustomerStore, promotions *PromotionService, finance *FinanceService, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		catalog:    catalog,
		customers:  customers,
		promotions: promotions,
		finance:    finance,
		logger:     logger,
	}
}

// GetOverview fetches the dashboard widgets concurrently. Any
// failing widget fails the whole overview; the UI shows a single
// retryable error instead of a half-filled screen.
func (s *DashboardService) GetOverview(ctx context.Context, storeID string) (*domain.DashboardOverview, error) {
	ctx, span := dashTracer.Start(ctx, "DashboardService.GetOverview")
	defer span.End()

	overview := &domain.DashboardOverview{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		count, err := s.catalog.CountProducts(gctx, storeID)
		if err != nil {
			return err
		}
		overview.ProductCount = count
		return nil
	})
	g.Go(func() error {
		count, err := s.promotions.CountActive(gctx, storeID)
		if err != nil {
			return err
		}
		overview.ActivePromotions = count
		return nil
	})
	g.Go(func() error {
		count, err := s.customers.CountCustomers(gctx, storeID)
		if err != nil {
			return err
		}
		overview.CustomerCount = count
		return nil
	})
	g.Go(func() error {
		summary, err := s.finance.GetSummary(gctx, storeID, domain.PeriodMonth)
		if err != nil {
			return err
		}
		overview.MonthSummary = *summary
		return nil
	})
	g.Go(func() error {
		sales, err := s.finance.ListTransactions(gctx, storeID, domain.PeriodMonth, domain.TransactionRevenue)
		if err != nil {
			return err
		}
		if len(sales) > dashboardListLimit {
			sales = sales[:dashboardListLimit]
		}
		overview.RecentSales = sales
		return nil
	})
	g.Go(func() error {
		products, err := s.catalog.ListProducts(gctx, storeID)
		if err != nil {
			return err
		}
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].SalesCount > products[j].SalesCount
		})
		if len(products) > dashboardListLimit {
			products = products[:dashboardListLimit]
		}
		overview.TopProducts = products
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("failed to build dashboard overview",
			zap.String("store_id", storeID),
			zap.Error(err),
		)
		return nil, err
	}
	return overview, nil
}
