package mongostore

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"pos-api/models"
	"pos-api/store"
)

var liveNow = time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)

// newLiveStore needs POS_TEST_MONGO_URI pointing at a replica set, since
// sales run in a session transaction.
func newLiveStore(t *testing.T) *Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping mongo test in short mode")
	}
	uri := os.Getenv("POS_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("POS_TEST_MONGO_URI not set")
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, client.Ping(ctx, nil))

	name := "pos_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	s := New(client, name)
	require.NoError(t, s.Migrate(ctx))
	t.Cleanup(func() {
		_ = client.Database(name).Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return s
}

func liveProduct(t *testing.T, s *Store) *models.Product {
	t.Helper()
	p := &models.Product{
		ID:          uuid.NewString(),
		Name:        "Denim Jacket",
		Price:       2400,
		Images:      []models.ProductImage{{URL: "https://img.example/d.jpg", PublicID: "products/d"}},
		Category:    "Men",
		SubCategory: "jackets",
		StockStatus: models.InStock,
		IsOnline:    true,
		CreatedAt:   liveNow,
		UpdatedAt:   liveNow,
	}
	require.NoError(t, s.CreateProduct(context.Background(), p))
	return p
}

func liveDueSale(productID string, amount, paid float64) *models.Transaction {
	id := uuid.NewString()
	tx := &models.Transaction{
		ID:               id,
		Type:             models.TransactionSale,
		Amount:           amount,
		AmountPaid:       paid,
		DueAmount:        amount - paid,
		StaffID:          "staff-1",
		ProductID:        &productID,
		ProductSnapshot:  models.ProductSnapshot{Name: "Denim Jacket", Category: "Men"},
		Customer:         models.Customer{Name: "Ravi", PhoneNumber: "9123456780"},
		PaymentBreakdown: models.PaymentBreakdown{Cash: paid, Dues: amount - paid},
		PaymentTypes: []models.PaymentRecord{{
			ID: uuid.NewString(), TransactionID: id, Method: models.MethodCash,
			Amount: paid, Status: models.RecordPaid, CreatedAt: liveNow,
		}},
		Version:   1,
		CreatedAt: liveNow,
		UpdatedAt: liveNow,
	}
	tx.DeriveStatus()
	return tx
}

func TestLiveCommitSaleOutcomes(t *testing.T) {
	ctx := context.Background()
	s := newLiveStore(t)
	p := liveProduct(t, s)

	first := liveDueSale(p.ID, 2400, 400)
	require.NoError(t, s.CommitSale(ctx, first))

	second := liveDueSale(p.ID, 2400, 2400)
	assert.ErrorIs(t, s.CommitSale(ctx, second), models.ErrProductSold)
	_, err := s.GetTransaction(ctx, second.ID)
	assert.ErrorIs(t, err, models.ErrTransactionNotFound)

	missing := liveDueSale(uuid.NewString(), 100, 100)
	assert.ErrorIs(t, s.CommitSale(ctx, missing), models.ErrProductNotFound)
}

func TestLiveApplyCollectionOutcomes(t *testing.T) {
	ctx := context.Background()
	s := newLiveStore(t)
	tx := liveDueSale(liveProduct(t, s).ID, 2400, 400)
	require.NoError(t, s.CommitSale(ctx, tx))

	c := store.Collection{
		TransactionID:   tx.ID,
		ExpectedVersion: 1,
		AmountPaid:      1400,
		DueAmount:       1000,
		Status:          models.PaymentDue,
		Breakdown:       models.PaymentBreakdown{Cash: 1400, Dues: 1000},
		Payment: models.PaymentRecord{
			ID: uuid.NewString(), TransactionID: tx.ID, Method: models.MethodCash,
			Amount: 1000, Status: models.RecordPaid, CreatedAt: liveNow,
		},
		At: liveNow,
	}
	require.NoError(t, s.ApplyCollection(ctx, c))

	got, err := s.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Version)
	assert.Len(t, got.PaymentTypes, 2)

	assert.ErrorIs(t, s.ApplyCollection(ctx, c), models.ErrStaleVersion)
	got, err = s.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Len(t, got.PaymentTypes, 2)

	c.TransactionID = uuid.NewString()
	assert.ErrorIs(t, s.ApplyCollection(ctx, c), models.ErrTransactionNotFound)
}
