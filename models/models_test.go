package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmountsEqual(t *testing.T) {
	assert.True(t, AmountsEqual(500, 499.99))
	assert.True(t, AmountsEqual(100.1+200.2, 300.3))
	assert.False(t, AmountsEqual(500, 499.98))
}

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, 0.3, RoundMoney(0.1+0.2))
	assert.Equal(t, 12.35, RoundMoney(12.3456))
	assert.Equal(t, 600.0, RoundMoney(1000-400))
}

func TestValidPhone(t *testing.T) {
	assert.True(t, ValidPhone("9876543210"))
	assert.False(t, ValidPhone("987654321"))
	assert.False(t, ValidPhone("98765432101"))
	assert.False(t, ValidPhone("98765abcde"))
	assert.False(t, Customer{Name: "", PhoneNumber: "9876543210"}.Valid())
}

func TestDeriveStatusAndReconciled(t *testing.T) {
	tx := &Transaction{
		Amount:           1000,
		AmountPaid:       400,
		DueAmount:        600,
		PaymentBreakdown: PaymentBreakdown{Cash: 400, Dues: 600},
	}
	tx.DeriveStatus()
	assert.Equal(t, PaymentDue, tx.PaymentStatus)
	assert.True(t, tx.Reconciled())

	tx.AmountPaid, tx.DueAmount = 1000, 0
	tx.PaymentBreakdown = PaymentBreakdown{Cash: 400, Online: 600}
	tx.DeriveStatus()
	assert.Equal(t, PaymentPaid, tx.PaymentStatus)
	assert.True(t, tx.Reconciled())

	tx.PaymentBreakdown.Online = 500
	assert.False(t, tx.Reconciled())
}

func TestPaidTotalSkipsPending(t *testing.T) {
	tx := &Transaction{PaymentTypes: []PaymentRecord{
		{Method: MethodCash, Amount: 200, Status: RecordPaid},
		{Method: MethodDues, Amount: 300, Status: RecordPending},
		{Method: MethodOnline, Amount: 100.1, Status: RecordPaid},
	}}
	assert.Equal(t, 300.1, tx.PaidTotal())
}

func TestDuesStatisticsBuckets(t *testing.T) {
	stats := NewDuesStatistics()
	stats.Add(0, 500)
	stats.Add(400, 600)
	stats.AddBucket(BucketPartial, 2, 100, 900)

	assert.Equal(t, int64(4), stats.TotalDuesRecords)
	assert.Equal(t, 1200.0, stats.TotalOutstandingAmount)
	assert.Equal(t, 1300.0, stats.TotalCollectedOnDues)
	assert.Equal(t, DuesBucket{Count: 1, Amount: 500}, stats.StatusBreakdown[BucketPending])
	assert.Equal(t, DuesBucket{Count: 3, Amount: 700}, stats.StatusBreakdown[BucketPartial])
}

func TestErrorTaxonomy(t *testing.T) {
	wrapped := fmt.Errorf("sell: %w", ErrProductSold)
	assert.Equal(t, KindConflict, KindOf(wrapped))
	assert.True(t, errors.Is(wrapped, ErrProductSold))
	assert.Equal(t, "product is already sold", PublicMessage(wrapped))

	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, "internal server error", PublicMessage(errors.New("boom")))

	fatal := Fatal(errors.New("commit lost"), "sale %s", "tx-1")
	assert.Equal(t, KindFatal, KindOf(fatal))
	assert.NotContains(t, PublicMessage(fatal), "commit lost")

	assert.True(t, errors.Is(InvalidArgument("x"), InvalidArgument("x")))
	assert.False(t, errors.Is(InvalidArgument("x"), InvalidArgument("y")))
}
