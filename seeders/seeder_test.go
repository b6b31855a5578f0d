package seeders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"pos-api/models"
	"pos-api/store"
	"pos-api/store/memory"
)

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	opts := DefaultOptions()

	require.NoError(t, Seed(ctx, s, opts))
	require.NoError(t, Seed(ctx, s, opts))

	owner, err := s.FindUserByEmail(ctx, opts.OwnerEmail)
	require.NoError(t, err)
	assert.Equal(t, models.RoleOwner, owner.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(owner.Password), []byte(opts.OwnerPassword)))

	staff, err := s.FindUserByStaffID(ctx, opts.StaffID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, staff.Role)

	products, total, err := s.ListProducts(ctx, store.ProductQuery{Page: store.Page{Page: 1, Limit: 100}})
	require.NoError(t, err)
	assert.Equal(t, int64(len(catalogue)), total)
	for _, p := range products {
		assert.True(t, p.IsOnline)
		assert.Equal(t, models.InStock, p.StockStatus)
		assert.True(t, models.ValidCategory(p.Category))
	}
}
