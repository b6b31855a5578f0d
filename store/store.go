// Package store defines the persistence contracts of the POS core. Every
// backend (memory, gorm, mongo) must honour the conditional-update semantics
// described on each method; the services rely on them for correctness under
// concurrent requests.
package store

import (
	"context"
	"time"

	"pos-api/models"
)

type Store interface {
	ProductStore
	TransactionStore
	UserStore
	ReportStore

	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

type ProductStore interface {
	CreateProduct(ctx context.Context, p *models.Product) error
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ListProducts(ctx context.Context, q ProductQuery) ([]models.Product, int64, error)
	DeleteProduct(ctx context.Context, id string) error

	// MarkProductSold flips IN_STOCK to OUT_OF_STOCK and hides the product in
	// one conditional write. It returns models.ErrProductNotFound or
	// models.ErrProductSold when the precondition does not hold.
	MarkProductSold(ctx context.Context, id string) error
}

type TransactionStore interface {
	// CommitSale marks the sold product unavailable and writes the transaction
	// with its payment records as one unit. A sale that loses the race for
	// the product writes nothing.
	CommitSale(ctx context.Context, tx *models.Transaction) error
	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	ListTransactions(ctx context.Context, q TransactionQuery) ([]models.Transaction, int64, error)

	ListDues(ctx context.Context, q DuesQuery) ([]models.Transaction, int64, error)
	ListOverdue(ctx context.Context, before time.Time, page Page) ([]models.Transaction, int64, error)

	// ApplyCollection writes the new totals only if the stored version still
	// equals c.ExpectedVersion and the transaction is DUE, then bumps the
	// version and appends c.Payment. It returns models.ErrStaleVersion when
	// another writer got there first.
	ApplyCollection(ctx context.Context, c Collection) error

	// UpdateDueCustomer only touches transactions that are still DUE and
	// returns models.ErrDueNotFound otherwise.
	UpdateDueCustomer(ctx context.Context, id string, u CustomerUpdate) (*models.Transaction, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByStaffID(ctx context.Context, staffID string) (*models.User, error)
}

//go:generate mockgen -destination=mocks/report_store.go -package=mocks pos-api/store ReportStore

type ReportStore interface {
	Summarize(ctx context.Context, since time.Time) (models.StatsSummary, error)
	// SalesByDay sums SALE amounts in [from, to) keyed by calendar day
	// ("2006-01-02") in loc.
	SalesByDay(ctx context.Context, from, to time.Time, loc *time.Location) (map[string]float64, error)
	SalesByCategory(ctx context.Context, since time.Time, metric models.CategoryMetric) ([]models.CategorySlice, error)
	DuesStatistics(ctx context.Context, r DateRange) (models.DuesStatistics, error)
}

type Page struct {
	Page  int
	Limit int
}

func (p Page) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

type ProductSort string

const (
	SortNewest     ProductSort = "newest"
	SortPriceLow   ProductSort = "price_low"
	SortPriceHigh  ProductSort = "price_high"
	SortBestSeller ProductSort = "bestseller"
)

type ProductQuery struct {
	Page
	OnlineOnly  bool
	Search      string
	Category    string
	SubCategory string
	MinPrice    *float64
	MaxPrice    *float64
	Sort        ProductSort
}

type TransactionQuery struct {
	Page
	Since *time.Time
	Type  models.TransactionType
}

type DuesQuery struct {
	Page
	Search string
}

type DateRange struct {
	From *time.Time
	// To is exclusive.
	To *time.Time
}

type Collection struct {
	TransactionID   string
	ExpectedVersion int
	AmountPaid      float64
	DueAmount       float64
	Status          models.PaymentStatus
	Breakdown       models.PaymentBreakdown
	Payment         models.PaymentRecord
	At              time.Time
}

type CustomerUpdate struct {
	Name        *string
	PhoneNumber *string
	DueDate     *time.Time
	At          time.Time
}

func (u CustomerUpdate) Empty() bool {
	return u.Name == nil && u.PhoneNumber == nil && u.DueDate == nil
}
