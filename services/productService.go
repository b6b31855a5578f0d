package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pos-api/dtos"
	"pos-api/models"
	"pos-api/store"
)

type ProductService interface {
	ListPublic(ctx context.Context, q store.ProductQuery) ([]models.Product, int64, error)
	ListAll(ctx context.Context, q store.ProductQuery) ([]models.Product, int64, error)
	GetPublic(ctx context.Context, id string) (*models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, input dtos.CreateProductInput) (*models.Product, error)
	Delete(ctx context.Context, id string) error
}

type productService struct {
	store  store.ProductStore
	images ImageDeleter
	now    Clock
}

// NewProductService wires the catalogue. images may be nil, in which case
// stored images are left alone on delete.
func NewProductService(s store.ProductStore, images ImageDeleter, now Clock) ProductService {
	if now == nil {
		now = time.Now
	}
	return &productService{store: s, images: images, now: now}
}

func (s *productService) ListPublic(ctx context.Context, q store.ProductQuery) ([]models.Product, int64, error) {
	q.OnlineOnly = true
	return s.list(ctx, q)
}

func (s *productService) ListAll(ctx context.Context, q store.ProductQuery) ([]models.Product, int64, error) {
	return s.list(ctx, q)
}

func (s *productService) list(ctx context.Context, q store.ProductQuery) ([]models.Product, int64, error) {
	switch q.Sort {
	case store.SortNewest, store.SortPriceLow, store.SortPriceHigh, store.SortBestSeller:
	default:
		q.Sort = store.SortNewest
	}
	q.Search = strings.TrimSpace(q.Search)
	q.SubCategory = strings.ToLower(strings.TrimSpace(q.SubCategory))
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return nil, 0, models.InvalidArgument("minPrice cannot exceed maxPrice")
	}
	return s.store.ListProducts(ctx, q)
}

// GetPublic hides sold and offline products from shoppers.
func (s *productService) GetPublic(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsOnline {
		return nil, models.ErrProductNotFound
	}
	return p, nil
}

func (s *productService) Get(ctx context.Context, id string) (*models.Product, error) {
	return s.store.GetProduct(ctx, id)
}

func (s *productService) Create(ctx context.Context, input dtos.CreateProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, models.InvalidArgument("name is required")
	}
	if input.Price < 0 {
		return nil, models.InvalidArgument("price cannot be negative")
	}
	if !models.ValidCategory(input.Category) {
		return nil, models.InvalidArgument("category must be one of %s", strings.Join(models.ProductCategories, ", "))
	}
	subCategory := strings.ToLower(strings.TrimSpace(input.SubCategory))
	if subCategory == "" {
		return nil, models.InvalidArgument("subCategory is required")
	}
	if len(input.Images) == 0 {
		return nil, models.InvalidArgument("at least one product image is required")
	}
	if len(input.Images) > models.MaxProductImages {
		return nil, models.InvalidArgument("a product can have at most %d images", models.MaxProductImages)
	}
	for i, img := range input.Images {
		if strings.TrimSpace(img.URL) == "" || strings.TrimSpace(img.PublicID) == "" {
			return nil, models.InvalidArgument("images[%d] needs both url and publicId", i)
		}
	}

	isOnline := true
	if input.IsOnline != nil {
		isOnline = *input.IsOnline
	}
	now := s.now()
	p := &models.Product{
		ID:           uuid.NewString(),
		Name:         name,
		Description:  input.Description,
		Price:        models.RoundMoney(input.Price),
		Images:       input.Images,
		Category:     input.Category,
		SubCategory:  subCategory,
		StockStatus:  models.InStock,
		IsOnline:     isOnline,
		IsNewArrival: input.IsNewArrival,
		IsBestSeller: input.IsBestSeller,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	zap.L().Info("product created", zap.String("productId", p.ID), zap.String("name", p.Name))
	return p, nil
}

func (s *productService) Delete(ctx context.Context, id string) error {
	p, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return err
	}
	zap.L().Info("product deleted", zap.String("productId", id))
	s.deleteImages(ctx, p)
	return nil
}

// deleteImages is best effort. A leftover image is logged, the delete
// itself already succeeded.
func (s *productService) deleteImages(ctx context.Context, p *models.Product) {
	if s.images == nil {
		return
	}
	var g errgroup.Group
	for _, img := range p.Images {
		publicID := img.PublicID
		if publicID == "" {
			continue
		}
		g.Go(func() error {
			if err := s.images.DeleteImage(ctx, publicID); err != nil {
				zap.L().Warn("product image not deleted",
					zap.String("productId", p.ID), zap.String("publicId", publicID), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()
}
