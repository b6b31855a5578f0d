package seeders

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pos-api/models"
	"pos-api/services"
	"pos-api/store"
)

// helper for optional strings
func ptrString(s string) *string {
	return &s
}

type Options struct {
	OwnerEmail    string
	OwnerPassword string
	StaffID       string
	StaffPin      string
}

func DefaultOptions() Options {
	return Options{
		OwnerEmail:    "owner@example.com",
		OwnerPassword: "owner123",
		StaffID:       "STAFF-001",
		StaffPin:      "1234",
	}
}

// Seed creates an owner, one staff member and a small catalogue. Running it
// again leaves existing rows alone.
func Seed(ctx context.Context, s store.Store, opts Options) error {
	if err := seedOwner(ctx, s, opts); err != nil {
		return err
	}
	if err := seedStaff(ctx, s, opts); err != nil {
		return err
	}
	return seedProducts(ctx, s)
}

func seedOwner(ctx context.Context, s store.Store, opts Options) error {
	email := strings.ToLower(opts.OwnerEmail)
	if _, err := s.FindUserByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, models.ErrUserNotFound) {
		return err
	}

	hash, err := services.HashPassword(opts.OwnerPassword)
	if err != nil {
		return err
	}
	owner := &models.User{
		ID:       uuid.NewString(),
		Name:     "Owner",
		Role:     models.RoleOwner,
		Email:    ptrString(email),
		Password: hash,
	}
	if err := ignoreDuplicate(s.CreateUser(ctx, owner)); err != nil {
		return err
	}
	zap.S().Infof("seeded owner %s", email)
	return nil
}

func seedStaff(ctx context.Context, s store.Store, opts Options) error {
	if _, err := s.FindUserByStaffID(ctx, opts.StaffID); err == nil {
		return nil
	} else if !errors.Is(err, models.ErrUserNotFound) {
		return err
	}

	hash, err := services.HashPassword(opts.StaffPin)
	if err != nil {
		return err
	}
	staff := &models.User{
		ID:       uuid.NewString(),
		Name:     "Counter Staff",
		Role:     models.RoleStaff,
		StaffID:  ptrString(opts.StaffID),
		Password: hash,
	}
	if err := ignoreDuplicate(s.CreateUser(ctx, staff)); err != nil {
		return err
	}
	zap.S().Infof("seeded staff %s", opts.StaffID)
	return nil
}

// Stable ids keep reseeding idempotent.
var catalogue = []models.Product{
	{ID: "7d1f0b52-3f0e-4c55-9a51-0c2b6a4d0001", Name: "Linen Shirt", Description: ptrString("Relaxed fit linen shirt"), Price: 1499, Category: "Men", SubCategory: "shirts", IsNewArrival: true},
	{ID: "7d1f0b52-3f0e-4c55-9a51-0c2b6a4d0002", Name: "Denim Jacket", Description: ptrString("Washed blue denim"), Price: 2999, Category: "Men", SubCategory: "jackets", IsBestSeller: true},
	{ID: "7d1f0b52-3f0e-4c55-9a51-0c2b6a4d0003", Name: "Cotton Kurti", Description: ptrString("Block printed cotton"), Price: 899, Category: "Women", SubCategory: "kurtis", IsNewArrival: true},
	{ID: "7d1f0b52-3f0e-4c55-9a51-0c2b6a4d0004", Name: "Silk Saree", Description: ptrString("Handwoven silk saree"), Price: 5499, Category: "Women", SubCategory: "sarees", IsBestSeller: true},
	{ID: "7d1f0b52-3f0e-4c55-9a51-0c2b6a4d0005", Name: "Kids Hoodie", Description: ptrString("Fleece lined hoodie"), Price: 799, Category: "Kids", SubCategory: "hoodies"},
	{ID: "7d1f0b52-3f0e-4c55-9a51-0c2b6a4d0006", Name: "Party Frock", Description: ptrString("Tulle party frock"), Price: 1199, Category: "Kids", SubCategory: "frocks"},
}

func seedProducts(ctx context.Context, s store.Store) error {
	now := time.Now()
	created := 0
	for i := range catalogue {
		p := catalogue[i]
		p.Images = []models.ProductImage{{
			URL:      "https://res.cloudinary.com/demo/image/upload/sample.jpg",
			PublicID: "seed/" + p.SubCategory,
		}}
		p.StockStatus = models.InStock
		p.IsOnline = true
		p.CreatedAt = now
		p.UpdatedAt = now

		err := s.CreateProduct(ctx, &p)
		if errors.Is(err, models.ErrDuplicate) {
			continue
		}
		if err != nil {
			return err
		}
		created++
	}
	zap.S().Infof("seeded %d products", created)
	return nil
}

func ignoreDuplicate(err error) error {
	if errors.Is(err, models.ErrDuplicate) {
		return nil
	}
	return err
}
