package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-api/dtos"
	"pos-api/models"
	"pos-api/store"
	"pos-api/store/memory"
)

type duesFixture struct {
	store *memory.Store
	sales TransactionService
	dues  DuesService
}

func newDuesFixture(t *testing.T) *duesFixture {
	t.Helper()
	s := memory.New()
	return &duesFixture{
		store: s,
		sales: NewTransactionService(s, fixedClock(testNow), testLoc),
		dues:  NewDuesService(s, fixedClock(testNow), testLoc),
	}
}

func (f *duesFixture) dueSale(t *testing.T, price, paid float64, dueDate string, customer string) *models.Transaction {
	t.Helper()
	p := seedProduct(t, f.store, "Men", price)
	tx, err := f.sales.RecordSale(context.Background(), staff, dtos.SaleInput{
		ProductID:   p.ID,
		SalePrice:   ptr(price),
		AmountPaid:  ptr(paid),
		PaymentMode: "CASH",
		Customer:    &dtos.CustomerInput{Name: customer, PhoneNumber: "9876543210"},
		DueDate:     dueDate,
	})
	require.NoError(t, err)
	return tx
}

func TestCollectSettlesDue(t *testing.T) {
	ctx := context.Background()
	f := newDuesFixture(t)
	sale := f.dueSale(t, 1000, 400, "2026-03-20", "Asha")

	tx, err := f.dues.Collect(ctx, staff, sale.ID, dtos.CollectInput{Amount: 600, PaymentMode: "ONLINE"})
	require.NoError(t, err)

	assert.Zero(t, tx.DueAmount)
	assert.Equal(t, 1000.0, tx.AmountPaid)
	assert.Equal(t, models.PaymentPaid, tx.PaymentStatus)
	require.Len(t, tx.PaymentTypes, 2)
	assert.Equal(t, models.MethodOnline, tx.PaymentTypes[1].Method)
	assert.Equal(t, 1000.0, tx.PaidTotal())
	assert.Equal(t, models.PaymentBreakdown{Cash: 400, Online: 600}, tx.PaymentBreakdown)
	assert.True(t, tx.Reconciled())

	stored, err := f.store.GetTransaction(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, tx.PaymentStatus, stored.PaymentStatus)
	assert.Equal(t, tx.Version, stored.Version)
	assert.Len(t, stored.PaymentTypes, 2)

	// PAID is one-way
	_, err = f.dues.Collect(ctx, staff, sale.ID, dtos.CollectInput{Amount: 1, PaymentMode: "CASH"})
	assert.ErrorIs(t, err, models.ErrNotDue)
}

func TestCollectPartialThenRest(t *testing.T) {
	ctx := context.Background()
	f := newDuesFixture(t)
	sale := f.dueSale(t, 1000, 0, "2026-03-20", "Asha")

	tx, err := f.dues.Collect(ctx, staff, sale.ID, dtos.CollectInput{Amount: 250.25, PaymentMode: "CASH"})
	require.NoError(t, err)
	assert.Equal(t, 749.75, tx.DueAmount)
	assert.Equal(t, models.PaymentDue, tx.PaymentStatus)

	tx, err = f.dues.Collect(ctx, staff, sale.ID, dtos.CollectInput{Amount: 749.75, PaymentMode: "cash"})
	require.NoError(t, err)
	assert.Zero(t, tx.DueAmount)
	assert.Equal(t, models.PaymentPaid, tx.PaymentStatus)
	assert.Equal(t, 1000.0, tx.PaymentBreakdown.Cash)
	assert.True(t, tx.Reconciled())
}

func TestCollectRejectsOverpayment(t *testing.T) {
	ctx := context.Background()
	f := newDuesFixture(t)
	sale := f.dueSale(t, 1000, 400, "2026-03-20", "Asha")

	_, err := f.dues.Collect(ctx, staff, sale.ID, dtos.CollectInput{Amount: 600.01, PaymentMode: "CASH"})
	require.Error(t, err)
	assert.Equal(t, models.KindInvalidArgument, models.KindOf(err))

	stored, err := f.store.GetTransaction(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, 600.0, stored.DueAmount)
	assert.Equal(t, 400.0, stored.AmountPaid)
	assert.Len(t, stored.PaymentTypes, 1)
	assert.Equal(t, 1, stored.Version)
}

func TestCollectValidation(t *testing.T) {
	ctx := context.Background()
	f := newDuesFixture(t)
	sale := f.dueSale(t, 500, 100, "2026-03-20", "Asha")

	_, err := f.dues.Collect(ctx, staff, sale.ID, dtos.CollectInput{Amount: 0, PaymentMode: "CASH"})
	assert.Equal(t, models.KindInvalidArgument, models.KindOf(err))
	_, err = f.dues.Collect(ctx, staff, sale.ID, dtos.CollectInput{Amount: 10, PaymentMode: "DUES"})
	assert.Equal(t, models.KindInvalidArgument, models.KindOf(err))
	_, err = f.dues.Collect(ctx, staff, "missing", dtos.CollectInput{Amount: 10, PaymentMode: "CASH"})
	assert.Equal(t, models.KindNotFound, models.KindOf(err))
}

func TestConcurrentCollectionsNeverLoseUpdates(t *testing.T) {
	ctx := context.Background()
	f := newDuesFixture(t)
	sale := f.dueSale(t, 1000, 0, "2026-03-20", "Asha")

	const collectors = 4
	var wg sync.WaitGroup
	errs := make([]error, collectors)
	for i := 0; i < collectors; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.dues.Collect(ctx, staff, sale.ID, dtos.CollectInput{Amount: 100, PaymentMode: "CASH"})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, models.ErrStaleVersion)
		}
	}

	stored, err := f.store.GetTransaction(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(succeeded)*100, stored.AmountPaid)
	assert.Equal(t, 1000-float64(succeeded)*100, stored.DueAmount)
	assert.Len(t, stored.PaymentTypes, succeeded)
	assert.Equal(t, stored.AmountPaid, stored.PaidTotal())
	assert.Equal(t, 1+succeeded, stored.Version)
	assert.True(t, stored.Reconciled())
}

func TestCollectOnSplitSaleKeepsPendingMarker(t *testing.T) {
	ctx := context.Background()
	f := newDuesFixture(t)
	p := seedProduct(t, f.store, "Women", 900)
	sale, err := f.sales.RecordSplitSale(ctx, staff, dtos.SaleInput{
		ProductID: p.ID, SalePrice: ptr(900.0), DueDate: "2026-03-31",
		PaymentMethods: []dtos.PaymentMethodInput{
			{Type: "ONLINE", Amount: 300},
			{Type: "DUES", Amount: 600, DuesDetails: &dtos.CustomerInput{Name: "Meera", PhoneNumber: "9123456780"}},
		},
	})
	require.NoError(t, err)

	tx, err := f.dues.Collect(ctx, staff, sale.ID, dtos.CollectInput{Amount: 600, PaymentMode: "CASH"})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, tx.PaymentStatus)
	require.Len(t, tx.PaymentTypes, 3)
	assert.Equal(t, models.RecordPending, tx.PaymentTypes[1].Status)
	assert.Equal(t, 900.0, tx.PaidTotal())
	assert.Equal(t, models.PaymentBreakdown{Cash: 600, Online: 300}, tx.PaymentBreakdown)
}

func TestListGetAndOverdue(t *testing.T) {
	ctx := context.Background()
	f := newDuesFixture(t)
	overdue := f.dueSale(t, 500, 100, "2026-03-01", "Ravi Kumar")
	dueToday := f.dueSale(t, 500, 100, "2026-03-11", "Asha")
	later := f.dueSale(t, 500, 0, "2026-04-01", "Asha")
	paid := f.dueSale(t, 500, 500, "", "Asha")

	items, total, err := f.dues.List(ctx, "ravi", store.Page{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, overdue.ID, items[0].ID)

	_, total, err = f.dues.List(ctx, "", store.Page{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	// regex metacharacters are matched literally
	_, total, err = f.dues.List(ctx, "a.*", store.Page{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)

	items, total, err = f.dues.Overdue(ctx, store.Page{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, overdue.ID, items[0].ID)

	got, err := f.dues.Get(ctx, later.ID)
	require.NoError(t, err)
	assert.Equal(t, later.ID, got.ID)
	_, err = f.dues.Get(ctx, paid.ID)
	assert.ErrorIs(t, err, models.ErrDueNotFound)
	_, err = f.dues.Get(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrDueNotFound)

	_ = dueToday
}

func TestStatistics(t *testing.T) {
	ctx := context.Background()
	f := newDuesFixture(t)
	f.dueSale(t, 1000, 0, "2026-03-20", "Asha")
	f.dueSale(t, 800, 300, "2026-03-20", "Ravi")
	f.dueSale(t, 200, 200, "", "Paid")

	stats, err := f.dues.Statistics(ctx, dtos.DuesStatisticsQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalDuesRecords)
	assert.Equal(t, 1500.0, stats.TotalOutstandingAmount)
	assert.Equal(t, 300.0, stats.TotalCollectedOnDues)
	assert.Equal(t, models.DuesBucket{Count: 1, Amount: 1000}, stats.StatusBreakdown[models.BucketPending])
	assert.Equal(t, models.DuesBucket{Count: 1, Amount: 500}, stats.StatusBreakdown[models.BucketPartial])

	// a date-only end date covers the whole day the sales were made
	stats, err = f.dues.Statistics(ctx, dtos.DuesStatisticsQuery{StartDate: "2026-03-11", EndDate: "2026-03-11"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalDuesRecords)

	stats, err = f.dues.Statistics(ctx, dtos.DuesStatisticsQuery{EndDate: "2026-03-10"})
	require.NoError(t, err)
	assert.Zero(t, stats.TotalDuesRecords)

	_, err = f.dues.Statistics(ctx, dtos.DuesStatisticsQuery{StartDate: "yesterday"})
	assert.Equal(t, models.KindInvalidArgument, models.KindOf(err))
}

func TestUpdateCustomer(t *testing.T) {
	ctx := context.Background()
	f := newDuesFixture(t)
	sale := f.dueSale(t, 500, 100, "2026-03-20", "Asha")

	tx, err := f.dues.UpdateCustomer(ctx, sale.ID, dtos.UpdateCustomerInput{
		PhoneNumber: ptr("9000000001"),
		DueDate:     ptr("2026-04-15"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Asha", tx.Customer.Name)
	assert.Equal(t, "9000000001", tx.Customer.PhoneNumber)
	assert.Equal(t, time.Date(2026, 4, 15, 0, 0, 0, 0, testLoc), *tx.DueDate)

	_, err = f.dues.UpdateCustomer(ctx, sale.ID, dtos.UpdateCustomerInput{PhoneNumber: ptr("12345")})
	assert.Equal(t, models.KindInvalidArgument, models.KindOf(err))
	_, err = f.dues.UpdateCustomer(ctx, sale.ID, dtos.UpdateCustomerInput{})
	assert.Equal(t, models.KindInvalidArgument, models.KindOf(err))

	_, err = f.dues.Collect(ctx, staff, sale.ID, dtos.CollectInput{Amount: 400, PaymentMode: "CASH"})
	require.NoError(t, err)
	_, err = f.dues.UpdateCustomer(ctx, sale.ID, dtos.UpdateCustomerInput{Name: ptr("Late")})
	assert.ErrorIs(t, err, models.ErrDueNotFound)
}
