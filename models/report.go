package models

type StatsSummary struct {
	TotalRevenue    float64 `json:"totalRevenue" bson:"totalRevenue"`
	TotalExpenses   float64 `json:"totalExpenses" bson:"totalExpenses"`
	TotalSalesCount int64   `json:"totalSalesCount" bson:"totalSalesCount"`
	NetProfit       float64 `json:"netProfit" bson:"-"`
}

type DailySales struct {
	Name  string  `json:"name"`
	Date  string  `json:"date"`
	Sales float64 `json:"sales"`
}

type CategoryMetric string

const (
	MetricCount  CategoryMetric = "count"
	MetricAmount CategoryMetric = "amount"
)

type CategorySlice struct {
	Name  string  `json:"name" bson:"name"`
	Value float64 `json:"value" bson:"value"`
}

type DuesBucket struct {
	Count  int64   `json:"count"`
	Amount float64 `json:"amount"`
}

const (
	BucketPending = "PENDING"
	BucketPartial = "PARTIAL"
)

type DuesStatistics struct {
	TotalDuesRecords       int64                 `json:"totalDuesRecords"`
	TotalOutstandingAmount float64               `json:"totalOutstandingAmount"`
	TotalCollectedOnDues   float64               `json:"totalCollectedOnDues"`
	StatusBreakdown        map[string]DuesBucket `json:"statusBreakdown"`
}

func NewDuesStatistics() DuesStatistics {
	return DuesStatistics{
		StatusBreakdown: map[string]DuesBucket{
			BucketPending: {},
			BucketPartial: {},
		},
	}
}

// Add folds one DUE transaction into the statistics.
func (s *DuesStatistics) Add(amountPaid, dueAmount float64) {
	s.TotalDuesRecords++
	s.TotalOutstandingAmount = RoundMoney(s.TotalOutstandingAmount + dueAmount)
	s.TotalCollectedOnDues = RoundMoney(s.TotalCollectedOnDues + amountPaid)
	key := BucketPartial
	if amountPaid == 0 {
		key = BucketPending
	}
	b := s.StatusBreakdown[key]
	b.Count++
	b.Amount = RoundMoney(b.Amount + dueAmount)
	s.StatusBreakdown[key] = b
}

// AddBucket folds a pre-aggregated group of DUE transactions.
func (s *DuesStatistics) AddBucket(bucket string, count int64, outstanding, collected float64) {
	s.TotalDuesRecords += count
	s.TotalOutstandingAmount = RoundMoney(s.TotalOutstandingAmount + outstanding)
	s.TotalCollectedOnDues = RoundMoney(s.TotalCollectedOnDues + collected)
	b := s.StatusBreakdown[bucket]
	b.Count += count
	b.Amount = RoundMoney(b.Amount + outstanding)
	s.StatusBreakdown[bucket] = b
}
