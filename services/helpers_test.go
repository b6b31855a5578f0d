package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"pos-api/models"
	"pos-api/store"
	"pos-api/store/memory"
)

var (
	testLoc = time.UTC
	// a Wednesday
	testNow = time.Date(2026, 3, 11, 15, 30, 0, 0, time.UTC)
	staff   = models.Identity{ID: "staff-1", Role: models.RoleStaff, Name: "Anu"}
)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func seedProduct(t *testing.T, s *memory.Store, category string, price float64) *models.Product {
	t.Helper()
	p := &models.Product{
		ID:          uuid.NewString(),
		Name:        "Item " + category,
		Price:       price,
		Images:      []models.ProductImage{{URL: "https://img.example/" + category + ".jpg", PublicID: "img-" + category}},
		Category:    category,
		SubCategory: "tops",
		StockStatus: models.InStock,
		IsOnline:    true,
		CreatedAt:   testNow,
	}
	require.NoError(t, s.CreateProduct(context.Background(), p))
	return p
}

func ptr[T any](v T) *T {
	return &v
}

func storeAll() store.ProductQuery {
	return store.ProductQuery{Page: store.Page{Page: 1, Limit: 1000}}
}
