package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/lojaviva/admin-api-go/internal/domain"
	"github.com/lojaviva/admin-api-go/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var catalogTracer = otel.Tracer("service/catalog")

// CatalogService manages products, collections and their images.
type CatalogService struct {
	store   port.CatalogStore
	objects port.ObjectStore
	cache   port.Cache[[]domain.Product]
	logger  *zap.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(store port.CatalogStore, objects port.ObjectStore, cache port.Cache[[]domain.Product], logger *zap.Logger) *CatalogService {
	return &CatalogService{store: store, objects: objects, cache: cache, logger: logger}
}

// ============================================================
// Products
// ============================================================

// validateProduct enforces the catalog write invariants. A product
// with no accepted payment method cannot be rendered on the
// storefront, so an empty set is rejected here rather than downstream.
func validateProduct(req *domain.SaveProductRequest) error {
	if req.Name == "" {
		return &domain.ErrValidation{Field: "name", Message: "required"}
	}
	if req.Price.IsNegative() {
		return &domain.ErrValidation{Field: "price", Message: "must not be negative"}
	}
	if req.Stock < 0 {
		return &domain.ErrValidation{Field: "stock", Message: "must not be negative"}
	}
	if len(req.PaymentMethods) == 0 {
		return &domain.ErrValidation{Field: "payment_methods", Message: "at least one payment method is required"}
	}
	return nil
}

func (s *CatalogService) ListProducts(ctx context.Context, storeID, collectionID string) ([]domain.Product, error) {
	ctx, span := catalogTracer.Start(ctx, "CatalogService.ListProducts")
	defer span.End()

	if collectionID != "" {
		return s.store.ListProductsByCollection(ctx, storeID, collectionID)
	}

	if cached, ok := s.cache.Get(storeID); ok {
		return cached, nil
	}

	products, err := s.store.ListProducts(ctx, storeID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(storeID, products)
	return products, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, storeID, productID string) (*domain.Product, error) {
	ctx, span := catalogTracer.Start(ctx, "CatalogService.GetProduct")
	defer span.End()

	return s.store.GetProduct(ctx, storeID, productID)
}

func (s *CatalogService) CreateProduct(ctx context.Context, storeID string, req *domain.SaveProductRequest) (*domain.Product, error) {
	ctx, span := catalogTracer.Start(ctx, "CatalogService.CreateProduct")
	defer span.End()

	if err := validateProduct(req); err != nil {
		return nil, err
	}

	product := &domain.Product{
		ID:             uuid.NewString(),
		StoreID:        storeID,
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		CollectionID:   req.CollectionID,
		Stock:          req.Stock,
		Images:         req.Images,
		PaymentMethods: req.PaymentMethods,
		Available:      req.Available,
	}

	created, err := s.store.CreateProduct(ctx, product)
	if err != nil {
		s.logger.Error("failed to create product", zap.String("store_id", storeID), zap.Error(err))
		return nil, err
	}

	s.cache.Delete(storeID)
	s.logger.Info("product created",
		zap.String("store_id", storeID),
		zap.String("product_id", created.ID),
		zap.String("name", created.Name),
	)
	return created, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, storeID, productID string, req *domain.SaveProductRequest) (*domain.Product, error) {
	ctx, span := catalogTracer.Start(ctx, "CatalogService.UpdateProduct")
	defer span.End()

	if err := validateProduct(req); err != nil {
		return nil, err
	}

	updates := map[string]any{
		"name":            req.Name,
		"description":     req.Description,
		"price":           req.Price,
		"stock":           req.Stock,
		"payment_methods": req.PaymentMethods,
		"available":       req.Available,
	}
	if req.CollectionID != "" {
		updates["collection_id"] = req.CollectionID
	}
	if req.Images != nil {
		updates["images"] = req.Images
	}

	updated, err := s.store.UpdateProduct(ctx, storeID, productID, updates)
	if err != nil {
		return nil, err
	}

	s.cache.Delete(storeID)
	return updated, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, storeID, productID string) error {
	ctx, span := catalogTracer.Start(ctx, "CatalogService.DeleteProduct")
	defer span.End()

	if _, err := s.store.GetProduct(ctx, storeID, productID); err != nil {
		return err
	}
	if err := s.store.DeleteProduct(ctx, storeID, productID); err != nil {
		return err
	}
	s.cache.Delete(storeID)
	return nil
}

// UploadProductImage stores the image and appends its public URL to
// the product's image list.
func (s *CatalogService) UploadProductImage(ctx context.Context, storeID, productID, contentType string, data []byte) (*domain.Product, error) {
	ctx, span := catalogTracer.Start(ctx, "CatalogService.UploadProductImage")
	defer span.End()

	if len(data) == 0 {
		return nil, &domain.ErrValidation{Field: "image", Message: "empty upload"}
	}

	product, err := s.store.GetProduct(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("products/%s/%s/%s", storeID, productID, uuid.NewString())
	url, err := s.objects.Upload(ctx, path, contentType, data)
	if err != nil {
		s.logger.Error("failed to upload product image",
			zap.String("product_id", productID),
			zap.Error(err),
		)
		return nil, err
	}

	images := append(product.Images, url)
	updated, err := s.store.UpdateProduct(ctx, storeID, productID, map[string]any{"images": images})
	if err != nil {
		return nil, err
	}
	s.cache.Delete(storeID)
	return updated, nil
}

// RemoveProductImage drops the URL from the product's image list and
// best-effort deletes the stored object.
func (s *CatalogService) RemoveProductImage(ctx context.Context, storeID, productID, imageURL string) (*domain.Product, error) {
	ctx, span := catalogTracer.Start(ctx, "CatalogService.RemoveProductImage")
	defer span.End()

	if imageURL == "" {
		return nil, &domain.ErrValidation{Field: "url", Message: "required"}
	}

	product, err := s.store.GetProduct(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}

	images := make([]string, 0, len(product.Images))
	found := false
	for _, img := range product.Images {
		if img == imageURL {
			found = true
			continue
		}
		images = append(images, img)
	}
	if !found {
		return nil, &domain.ErrNotFound{Resource: "product image", ID: imageURL}
	}

	// Public URLs embed the storage path after the bucket segment.
	if idx := strings.Index(imageURL, "products/"); idx >= 0 {
		if err := s.objects.Remove(ctx, imageURL[idx:]); err != nil {
			s.logger.Warn("failed to remove product image object",
				zap.String("product_id", productID),
				zap.Error(err),
			)
		}
	}

	updated, err := s.store.UpdateProduct(ctx, storeID, productID, map[string]any{"images": images})
	if err != nil {
		return nil, err
	}
	s.cache.Delete(storeID)
	return updated, nil
}

// ============================================================
// Collections
// ============================================================

func (s *CatalogService) ListCollections(ctx context.Context, storeID string) ([]domain.Collection, error) {
	ctx, span := catalogTracer.Start(ctx, "CatalogService.ListCollections")
	defer span.End()

	return s.store.ListCollections(ctx, storeID)
}

func (s *CatalogService) CreateCollection(ctx context.Context, storeID, name string, position int) (*domain.Collection, error) {
	ctx, span := catalogTracer.Start(ctx, "CatalogService.CreateCollection")
	defer span.End()

	if name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "required"}
	}

	collection := &domain.Collection{
		ID:       uuid.NewString(),
		StoreID:  storeID,
		Name:     name,
		Position: position,
	}
	return s.store.CreateCollection(ctx, collection)
}

// DeleteCollection removes a collection; products keep existing but
// lose their grouping on the storefront.
func (s *CatalogService) DeleteCollection(ctx context.Context, storeID, collectionID string) error {
	ctx, span := catalogTracer.Start(ctx, "CatalogService.DeleteCollection")
	defer span.End()

	if err := s.store.DeleteCollection(ctx, storeID, collectionID); err != nil {
		return err
	}
	s.cache.Delete(storeID)
	return nil
}
