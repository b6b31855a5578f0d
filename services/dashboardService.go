package services

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"pos-api/dtos"
	"pos-api/models"
	"pos-api/store"
)

const chartDays = 7

type DashboardService interface {
	Stats(ctx context.Context, filter string) (models.StatsSummary, error)
	SalesChart(ctx context.Context) ([]models.DailySales, error)
	CategoryChart(ctx context.Context, filter string, metric string) ([]models.CategorySlice, error)
	Overview(ctx context.Context, filter string) (*dtos.DashboardOverview, error)
}

type dashboardService struct {
	store store.ReportStore
	now   Clock
	loc   *time.Location
}

func NewDashboardService(s store.ReportStore, now Clock, loc *time.Location) DashboardService {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &dashboardService{store: s, now: now, loc: loc}
}

func (s *dashboardService) Stats(ctx context.Context, filter string) (models.StatsSummary, error) {
	if filter == "" {
		filter = FilterWeek
	}
	since, err := WindowStart(filter, s.now(), s.loc)
	if err != nil {
		return models.StatsSummary{}, err
	}
	sum, err := s.store.Summarize(ctx, since)
	if err != nil {
		return models.StatsSummary{}, err
	}
	sum.NetProfit = models.RoundMoney(sum.TotalRevenue - sum.TotalExpenses)
	return sum, nil
}

// SalesChart returns one entry per calendar day from six days ago through
// today, oldest first, with empty days reported as zero.
func (s *dashboardService) SalesChart(ctx context.Context) ([]models.DailySales, error) {
	today := startOfDay(s.now(), s.loc)
	from := today.AddDate(0, 0, -(chartDays - 1))
	to := today.AddDate(0, 0, 1)

	byDay, err := s.store.SalesByDay(ctx, from, to, s.loc)
	if err != nil {
		return nil, err
	}

	chart := make([]models.DailySales, 0, chartDays)
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		key := store.DayKey(d, s.loc)
		chart = append(chart, models.DailySales{
			Name:  d.Weekday().String()[:3],
			Date:  key,
			Sales: byDay[key],
		})
	}
	return chart, nil
}

func (s *dashboardService) CategoryChart(ctx context.Context, filter string, metric string) ([]models.CategorySlice, error) {
	if filter == "" {
		filter = FilterMonth
	}
	since, err := WindowStart(filter, s.now(), s.loc)
	if err != nil {
		return nil, err
	}

	m := models.CategoryMetric(strings.ToLower(metric))
	switch m {
	case "":
		m = models.MetricCount
	case models.MetricCount, models.MetricAmount:
	default:
		return nil, models.InvalidArgument("invalid metric %q, use count or amount", metric)
	}

	slices, err := s.store.SalesByCategory(ctx, since, m)
	if err != nil {
		return nil, err
	}
	if slices == nil {
		slices = []models.CategorySlice{}
	}
	return slices, nil
}

// Overview computes the three dashboard widgets concurrently. The category
// chart uses the same filter as the stats.
func (s *dashboardService) Overview(ctx context.Context, filter string) (*dtos.DashboardOverview, error) {
	if filter == "" {
		filter = FilterWeek
	}
	var out dtos.DashboardOverview
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		stats, err := s.Stats(gctx, filter)
		out.Stats = stats
		return err
	})
	g.Go(func() error {
		chart, err := s.SalesChart(gctx)
		out.SalesChart = chart
		return err
	})
	g.Go(func() error {
		categories, err := s.CategoryChart(gctx, filter, "")
		out.Categories = categories
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
