package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"pos-api/models"
	"pos-api/store"
)

func (s *Store) Summarize(ctx context.Context, since time.Time) (models.StatsSummary, error) {
	var rows []models.StatsSummary
	if err := s.aggregate(ctx, summaryPipeline(since), &rows, "summarize"); err != nil {
		return models.StatsSummary{}, err
	}
	if len(rows) == 0 {
		return models.StatsSummary{}, nil
	}
	sum := rows[0]
	sum.TotalRevenue = models.RoundMoney(sum.TotalRevenue)
	sum.TotalExpenses = models.RoundMoney(sum.TotalExpenses)
	return sum, nil
}

func (s *Store) SalesByDay(ctx context.Context, from, to time.Time, loc *time.Location) (map[string]float64, error) {
	var rows []struct {
		Day   string  `bson:"_id"`
		Sales float64 `bson:"sales"`
	}
	if err := s.aggregate(ctx, salesByDayPipeline(from, to, loc), &rows, "sales by day"); err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(rows))
	for _, r := range rows {
		out[r.Day] = models.RoundMoney(r.Sales)
	}
	return out, nil
}

func (s *Store) SalesByCategory(ctx context.Context, since time.Time, metric models.CategoryMetric) ([]models.CategorySlice, error) {
	rows := make([]models.CategorySlice, 0)
	if err := s.aggregate(ctx, categoryPipeline(since, metric), &rows, "sales by category"); err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Value = models.RoundMoney(rows[i].Value)
	}
	return rows, nil
}

func (s *Store) DuesStatistics(ctx context.Context, r store.DateRange) (models.DuesStatistics, error) {
	var rows []struct {
		Bucket      string  `bson:"_id"`
		Count       int64   `bson:"count"`
		Outstanding float64 `bson:"outstanding"`
		Collected   float64 `bson:"collected"`
	}
	if err := s.aggregate(ctx, duesStatisticsPipeline(r), &rows, "dues statistics"); err != nil {
		return models.DuesStatistics{}, err
	}
	stats := models.NewDuesStatistics()
	for _, row := range rows {
		stats.AddBucket(row.Bucket, row.Count, row.Outstanding, row.Collected)
	}
	return stats, nil
}

func (s *Store) aggregate(ctx context.Context, pipeline bson.A, out interface{}, op string) error {
	cursor, err := s.transactions().Aggregate(ctx, pipeline)
	if err != nil {
		return translate(err, op)
	}
	defer cursor.Close(ctx)
	return translate(cursor.All(ctx, out), op+" decode")
}

// ==================== pipelines ====================

func sumIf(field string, value interface{}, then interface{}) bson.M {
	return bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$" + field, value}}, then, 0}}}
}

func summaryPipeline(since time.Time) bson.A {
	sale, expense := string(models.TransactionSale), string(models.TransactionExpense)
	return bson.A{
		bson.M{"$match": bson.M{"createdAt": bson.M{"$gte": since}}},
		bson.M{"$group": bson.M{
			"_id":             nil,
			"totalRevenue":    sumIf("type", sale, "$amount"),
			"totalExpenses":   sumIf("type", expense, "$amount"),
			"totalSalesCount": sumIf("type", sale, 1),
		}},
	}
}

func salesByDayPipeline(from, to time.Time, loc *time.Location) bson.A {
	return bson.A{
		bson.M{"$match": bson.M{
			"type":      string(models.TransactionSale),
			"createdAt": bson.M{"$gte": from, "$lt": to},
		}},
		bson.M{"$group": bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format":   "%Y-%m-%d",
				"date":     "$createdAt",
				"timezone": timezoneName(loc),
			}},
			"sales": bson.M{"$sum": "$amount"},
		}},
	}
}

// timezoneName gives the server an Olson name. time.Local has none.
func timezoneName(loc *time.Location) string {
	if loc == nil || loc.String() == "Local" {
		return "UTC"
	}
	return loc.String()
}

func categoryPipeline(since time.Time, metric models.CategoryMetric) bson.A {
	var value interface{} = 1
	if metric == models.MetricAmount {
		value = "$amount"
	}
	return bson.A{
		bson.M{"$match": bson.M{
			"type":      string(models.TransactionSale),
			"createdAt": bson.M{"$gte": since},
		}},
		bson.M{"$group": bson.M{
			"_id":   "$productSnapshot.category",
			"value": bson.M{"$sum": value},
		}},
		bson.M{"$project": bson.M{"_id": 0, "name": "$_id", "value": 1}},
		bson.M{"$sort": bson.M{"name": 1}},
	}
}

func duesStatisticsPipeline(r store.DateRange) bson.A {
	match := bson.M{"paymentStatus": string(models.PaymentDue)}
	if r.From != nil || r.To != nil {
		created := bson.M{}
		if r.From != nil {
			created["$gte"] = *r.From
		}
		if r.To != nil {
			created["$lt"] = *r.To
		}
		match["createdAt"] = created
	}
	return bson.A{
		bson.M{"$match": match},
		bson.M{"$group": bson.M{
			"_id": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$amountPaid", 0}},
				models.BucketPending,
				models.BucketPartial,
			}},
			"count":       bson.M{"$sum": 1},
			"outstanding": bson.M{"$sum": "$dueAmount"},
			"collected":   bson.M{"$sum": "$amountPaid"},
		}},
	}
}
