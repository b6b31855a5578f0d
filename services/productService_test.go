package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-api/dtos"
	"pos-api/models"
	"pos-api/store"
	"pos-api/store/memory"
)

func validProductInput() dtos.CreateProductInput {
	return dtos.CreateProductInput{
		Name:        "Linen Shirt",
		Price:       1299.5,
		Images:      []models.ProductImage{{URL: "https://img.example/a.jpg", PublicID: "a"}},
		Category:    "Men",
		SubCategory: "  Shirts ",
	}
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()
	svc := NewProductService(memory.New(), nil, fixedClock(testNow))

	p, err := svc.Create(ctx, validProductInput())
	require.NoError(t, err)
	assert.Equal(t, "shirts", p.SubCategory)
	assert.Equal(t, models.InStock, p.StockStatus)
	assert.True(t, p.IsOnline)
	assert.Equal(t, testNow, p.CreatedAt)

	hidden := validProductInput()
	hidden.IsOnline = ptr(false)
	p, err = svc.Create(ctx, hidden)
	require.NoError(t, err)
	assert.False(t, p.IsOnline)
}

func TestCreateProductValidation(t *testing.T) {
	tooMany := make([]models.ProductImage, models.MaxProductImages+1)
	for i := range tooMany {
		tooMany[i] = models.ProductImage{URL: "u", PublicID: "p"}
	}

	tests := []struct {
		name   string
		mutate func(*dtos.CreateProductInput)
	}{
		{"blank name", func(in *dtos.CreateProductInput) { in.Name = "  " }},
		{"negative price", func(in *dtos.CreateProductInput) { in.Price = -1 }},
		{"unknown category", func(in *dtos.CreateProductInput) { in.Category = "Pets" }},
		{"blank sub category", func(in *dtos.CreateProductInput) { in.SubCategory = "" }},
		{"no images", func(in *dtos.CreateProductInput) { in.Images = nil }},
		{"too many images", func(in *dtos.CreateProductInput) { in.Images = tooMany }},
		{"image without public id", func(in *dtos.CreateProductInput) { in.Images[0].PublicID = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewProductService(memory.New(), nil, fixedClock(testNow))
			in := validProductInput()
			tt.mutate(&in)
			_, err := svc.Create(context.Background(), in)
			assert.Equal(t, models.KindInvalidArgument, models.KindOf(err))
		})
	}
}

func TestPublicViewHidesSoldProducts(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	svc := NewProductService(s, nil, fixedClock(testNow))

	sold, err := svc.Create(ctx, validProductInput())
	require.NoError(t, err)
	available, err := svc.Create(ctx, validProductInput())
	require.NoError(t, err)
	require.NoError(t, s.MarkProductSold(ctx, sold.ID))

	items, total, err := svc.ListPublic(ctx, store.ProductQuery{Page: store.Page{Page: 1, Limit: 10}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, available.ID, items[0].ID)

	_, total, err = svc.ListAll(ctx, store.ProductQuery{Page: store.Page{Page: 1, Limit: 10}, Sort: "weird"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	_, err = svc.GetPublic(ctx, sold.ID)
	assert.ErrorIs(t, err, models.ErrProductNotFound)
	got, err := svc.Get(ctx, sold.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OutOfStock, got.StockStatus)

	_, _, err = svc.ListPublic(ctx, store.ProductQuery{Page: store.Page{Page: 1, Limit: 10}, MinPrice: ptr(10.0), MaxPrice: ptr(5.0)})
	assert.Equal(t, models.KindInvalidArgument, models.KindOf(err))
}

func TestDeleteProduct(t *testing.T) {
	ctx := context.Background()
	svc := NewProductService(memory.New(), nil, fixedClock(testNow))
	p, err := svc.Create(ctx, validProductInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, p.ID))
	assert.ErrorIs(t, svc.Delete(ctx, p.ID), models.ErrProductNotFound)
}

type fakeImageDeleter struct {
	mu      sync.Mutex
	deleted []string
	fail    map[string]bool
}

func (f *fakeImageDeleter) DeleteImage(_ context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[publicID] {
		return errors.New("storage unavailable")
	}
	f.deleted = append(f.deleted, publicID)
	return nil
}

func TestDeleteProductRemovesImages(t *testing.T) {
	ctx := context.Background()
	images := &fakeImageDeleter{fail: map[string]bool{"products/b": true}}
	svc := NewProductService(memory.New(), images, fixedClock(testNow))

	input := validProductInput()
	input.Images = []models.ProductImage{
		{URL: "https://img.example/a.jpg", PublicID: "products/a"},
		{URL: "https://img.example/b.jpg", PublicID: "products/b"},
		{URL: "https://img.example/c.jpg", PublicID: "products/c"},
	}
	p, err := svc.Create(ctx, input)
	require.NoError(t, err)

	// a failed image delete does not fail the product delete
	require.NoError(t, svc.Delete(ctx, p.ID))
	sort.Strings(images.deleted)
	assert.Equal(t, []string{"products/a", "products/c"}, images.deleted)

	_, err = svc.Get(ctx, p.ID)
	assert.ErrorIs(t, err, models.ErrProductNotFound)

	// an unknown product touches no images
	images.deleted = nil
	assert.ErrorIs(t, svc.Delete(ctx, p.ID), models.ErrProductNotFound)
	assert.Empty(t, images.deleted)
}
