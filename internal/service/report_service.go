package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"retailpos/internal/apperr"
	"retailpos/internal/dto"
	"retailpos/internal/model"
	"retailpos/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	dashboardCacheKey = "reports:dashboard"
	dashboardCacheTTL = 30 * time.Second
)

type ReportService interface {
	SalesSummary(ctx context.Context, filter dto.ReportFilter) (*dto.SalesSummaryResponse, error)
	TopProducts(ctx context.Context, filter dto.ReportFilter) ([]dto.TopProductResponse, error)
	SalesByPeriod(ctx context.Context, filter dto.ReportFilter) ([]dto.PeriodBucketResponse, error)
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
}

type reportService struct {
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	rdb          *redis.Client // nil disables caching
}

func NewReportService(saleRepo repository.SaleRepository, productRepo repository.ProductRepository, customerRepo repository.CustomerRepository, rdb *redis.Client) ReportService {
	return &reportService{saleRepo: saleRepo, productRepo: productRepo, customerRepo: customerRepo, rdb: rdb}
}

func (s *reportService) SalesSummary(ctx context.Context, filter dto.ReportFilter) (*dto.SalesSummaryResponse, error) {
	start, end, err := resolveRange(filter)
	if err != nil {
		return nil, err
	}

	count, err := s.saleRepo.SalesCount(ctx, start, end)
	if err != nil {
		return nil, err
	}
	revenue, err := s.saleRepo.SalesTotal(ctx, start, end)
	if err != nil {
		return nil, err
	}
	tax, err := s.saleRepo.TaxTotal(ctx, start, end)
	if err != nil {
		return nil, err
	}
	avg, err := s.saleRepo.AverageSale(ctx, start, end)
	if err != nil {
		return nil, err
	}

	return &dto.SalesSummaryResponse{
		TotalSales:    count,
		TotalRevenue:  revenue.Round(2),
		TotalTax:      tax.Round(2),
		AvgSaleAmount: avg.Round(2),
		StartDate:     start,
		EndDate:       end,
	}, nil
}

// TopProducts ranks products sold in the range by total quantity. Ranking is
// done over the loaded sale items rather than in SQL so that products deleted
// since the sale still appear under their snapshotted name.
func (s *reportService) TopProducts(ctx context.Context, filter dto.ReportFilter) ([]dto.TopProductResponse, error) {
	start, end, err := resolveRange(filter)
	if err != nil {
		return nil, err
	}
	sales, err := s.saleRepo.FindByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	type acc struct {
		name     string
		quantity int
		revenue  decimal.Decimal
		times    int
	}
	byProduct := make(map[string]*acc)
	for i := range sales {
		if sales[i].Status != model.SaleCompleted {
			continue
		}
		for _, item := range sales[i].Items {
			key := item.ProductID.String()
			a, ok := byProduct[key]
			if !ok {
				a = &acc{name: item.ProductName, revenue: decimal.Zero}
				byProduct[key] = a
			}
			a.quantity += item.Quantity
			a.revenue = a.revenue.Add(item.TotalPrice)
			a.times++
		}
	}

	out := make([]dto.TopProductResponse, 0, len(byProduct))
	for id, a := range byProduct {
		out = append(out, dto.TopProductResponse{
			ProductID:     id,
			ProductName:   a.name,
			TotalQuantity: a.quantity,
			TotalRevenue:  a.revenue.Round(2),
			TimesSold:     a.times,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalQuantity != out[j].TotalQuantity {
			return out[i].TotalQuantity > out[j].TotalQuantity
		}
		return out[i].TotalRevenue.GreaterThan(out[j].TotalRevenue)
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// SalesByPeriod buckets completed sales by calendar day. Days with no sales
// still appear with zero values so charts render contiguous ranges.
func (s *reportService) SalesByPeriod(ctx context.Context, filter dto.ReportFilter) ([]dto.PeriodBucketResponse, error) {
	start, end, err := resolveRange(filter)
	if err != nil {
		return nil, err
	}
	startDay, _ := time.Parse("2006-01-02", start)
	endDay, _ := time.Parse("2006-01-02", end)
	if endDay.Before(startDay) {
		return nil, apperr.Validationf("end_date must not precede start_date")
	}

	sales, err := s.saleRepo.FindByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]*dto.PeriodBucketResponse)
	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		buckets[key] = &dto.PeriodBucketResponse{Date: key, Revenue: decimal.Zero, Tax: decimal.Zero}
	}
	for i := range sales {
		if sales[i].Status != model.SaleCompleted {
			continue
		}
		key := sales[i].CreatedAt.Format("2006-01-02")
		b, ok := buckets[key]
		if !ok {
			continue
		}
		b.Count++
		b.Revenue = b.Revenue.Add(sales[i].TotalAmount)
		b.Tax = b.Tax.Add(sales[i].TaxAmount)
	}

	out := make([]dto.PeriodBucketResponse, 0, len(buckets))
	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		b := buckets[day.Format("2006-01-02")]
		b.Revenue = b.Revenue.Round(2)
		b.Tax = b.Tax.Round(2)
		out = append(out, *b)
	}
	return out, nil
}

func (s *reportService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, dashboardCacheKey).Bytes(); err == nil {
			var cached dto.DashboardResponse
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	now := time.Now()
	today := now.Format("2006-01-02")
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format("2006-01-02")

	resp := &dto.DashboardResponse{Timestamp: now.Format(time.RFC3339)}

	todaySales, err := s.saleRepo.SalesCount(ctx, today, today)
	if err != nil {
		return nil, err
	}
	todayRevenue, err := s.saleRepo.SalesTotal(ctx, today, today)
	if err != nil {
		return nil, err
	}
	monthRevenue, err := s.saleRepo.SalesTotal(ctx, monthStart, today)
	if err != nil {
		return nil, err
	}
	resp.Today.Sales = todaySales
	resp.Today.Revenue = todayRevenue.Round(2)
	resp.Month.Revenue = monthRevenue.Round(2)

	lowStock, err := s.productRepo.FindLowStock(ctx)
	if err != nil {
		return nil, err
	}
	resp.LowStockCount = len(lowStock)

	if resp.TotalProducts, err = s.productRepo.Count(ctx); err != nil {
		return nil, err
	}
	if resp.TotalCustomers, err = s.customerRepo.Count(ctx); err != nil {
		return nil, err
	}

	recent, err := s.saleRepo.Recent(ctx, 5)
	if err != nil {
		return nil, err
	}
	resp.RecentSales = make([]dto.SaleResponse, 0, len(recent))
	for i := range recent {
		resp.RecentSales = append(resp.RecentSales, *saleToResponse(&recent[i]))
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, dashboardCacheKey, raw, dashboardCacheTTL).Err(); err != nil {
				log.Debug().Err(err).Msg("dashboard cache write failed")
			}
		}
	}
	return resp, nil
}

// resolveRange validates the filter dates and defaults both ends to today.
func resolveRange(filter dto.ReportFilter) (string, string, error) {
	today := time.Now().Format("2006-01-02")
	start, end := filter.StartDate, filter.EndDate
	if start == "" {
		start = today
	}
	if end == "" {
		end = today
	}
	if _, err := time.Parse("2006-01-02", start); err != nil {
		return "", "", apperr.Validationf("start_date must be YYYY-MM-DD")
	}
	if _, err := time.Parse("2006-01-02", end); err != nil {
		return "", "", apperr.Validationf("end_date must be YYYY-MM-DD")
	}
	return start, end, nil
}
