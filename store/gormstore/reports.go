package gormstore

import (
	"context"
	"time"

	"pos-api/models"
	"pos-api/store"
)

type summaryRow struct {
	Revenue    float64
	Expenses   float64
	SalesCount int64
}

func (s *Store) Summarize(ctx context.Context, since time.Time) (models.StatsSummary, error) {
	var row summaryRow
	err := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Select(`COALESCE(SUM(CASE WHEN kind = ? THEN amount ELSE 0 END), 0) AS revenue,
			COALESCE(SUM(CASE WHEN kind = ? THEN amount ELSE 0 END), 0) AS expenses,
			COALESCE(SUM(CASE WHEN kind = ? THEN 1 ELSE 0 END), 0) AS sales_count`,
			models.TransactionSale, models.TransactionExpense, models.TransactionSale).
		Where("created_at >= ?", since).
		Scan(&row).Error
	if err != nil {
		return models.StatsSummary{}, translate(err, "summarize")
	}
	return models.StatsSummary{
		TotalRevenue:    models.RoundMoney(row.Revenue),
		TotalExpenses:   models.RoundMoney(row.Expenses),
		TotalSalesCount: row.SalesCount,
	}, nil
}

// SalesByDay pulls the raw rows and buckets them in Go, so the calendar day
// follows loc on every dialect.
func (s *Store) SalesByDay(ctx context.Context, from, to time.Time, loc *time.Location) (map[string]float64, error) {
	rows := make([]models.Transaction, 0)
	err := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("amount", "created_at").
		Where("kind = ? AND created_at >= ? AND created_at < ?", models.TransactionSale, from, to).
		Find(&rows).Error
	if err != nil {
		return nil, translate(err, "sales by day")
	}
	return store.BucketByDay(rows, loc), nil
}

func (s *Store) SalesByCategory(ctx context.Context, since time.Time, metric models.CategoryMetric) ([]models.CategorySlice, error) {
	value := "COUNT(*)"
	if metric == models.MetricAmount {
		value = "COALESCE(SUM(amount), 0)"
	}

	slices := make([]models.CategorySlice, 0)
	err := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("snapshot_category AS name, "+value+" AS value").
		Where("kind = ? AND created_at >= ?", models.TransactionSale, since).
		Group("snapshot_category").
		Order("snapshot_category").
		Scan(&slices).Error
	if err != nil {
		return nil, translate(err, "sales by category")
	}
	for i := range slices {
		slices[i].Value = models.RoundMoney(slices[i].Value)
	}
	return slices, nil
}

type duesBucketRow struct {
	Bucket      string
	Count       int64
	Outstanding float64
	Collected   float64
}

func (s *Store) DuesStatistics(ctx context.Context, r store.DateRange) (models.DuesStatistics, error) {
	query := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Select(`CASE WHEN amount_paid = 0 THEN ? ELSE ? END AS bucket,
			COUNT(*) AS count,
			COALESCE(SUM(due_amount), 0) AS outstanding,
			COALESCE(SUM(amount_paid), 0) AS collected`,
			models.BucketPending, models.BucketPartial).
		Where("payment_status = ?", models.PaymentDue)
	if r.From != nil {
		query = query.Where("created_at >= ?", *r.From)
	}
	if r.To != nil {
		query = query.Where("created_at < ?", *r.To)
	}

	var rows []duesBucketRow
	if err := query.Group("bucket").Scan(&rows).Error; err != nil {
		return models.DuesStatistics{}, translate(err, "dues statistics")
	}
	return foldDuesBuckets(rows), nil
}

func foldDuesBuckets(rows []duesBucketRow) models.DuesStatistics {
	stats := models.NewDuesStatistics()
	for _, row := range rows {
		stats.AddBucket(row.Bucket, row.Count, row.Outstanding, row.Collected)
	}
	return stats
}
