package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lojaviva/admin-api-go/internal/domain"
)

// ============================================================
// Catalog store — products and collections
// ============================================================

func (c *Client) ListProducts(ctx context.Context, storeID string) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListProducts")
	defer span.End()

	path := fmt.Sprintf("products?store_id=eq.%s&order=created_at.desc", storeID)
	return c.fetchProducts(ctx, path)
}

func (c *Client) ListProductsByCollection(ctx context.Context, storeID, collectionID string) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListProductsByCollection")
	defer span.End()

	path := fmt.Sprintf("products?store_id=eq.%s&collection_id=eq.%s&order=created_at.desc", storeID, collectionID)
	return c.fetchProducts(ctx, path)
}

func (c *Client) fetchProducts(ctx context.Context, path string) ([]domain.Product, error) {
	body, err := c.getWithRetry(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/products", Err: err}
	}
	if body == nil || string(body) == "[]" {
		return []domain.Product{}, nil
	}

	var rows []domain.Product
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return rows, nil
}

func (c *Client) GetProduct(ctx context.Context, storeID, productID string) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetProduct")
	defer span.End()

	path := fmt.Sprintf("products?store_id=eq.%s&id=eq.%s&limit=1", storeID, productID)
	body, err := c.getWithRetry(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/products", Err: err}
	}

	var rows []domain.Product
	if body != nil {
		if err := json.Unmarshal(body, &rows); err != nil {
			return nil, fmt.Errorf("decode product: %w", err)
		}
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "product", ID: productID}
	}
	return &rows[0], nil
}

func (c *Client) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateProduct")
	defer span.End()

	row := map[string]any{
		"id":              product.ID,
		"store_id":        product.StoreID,
		"name":            product.Name,
		"description":     product.Description,
		"price":           product.Price,
		"stock":           product.Stock,
		"payment_methods": product.PaymentMethods,
		"sales_count":     0,
		"available":       product.Available,
	}
	if product.CollectionID != "" {
		row["collection_id"] = product.CollectionID
	}
	if len(product.Images) > 0 {
		row["images"] = product.Images
	}

	body, err := c.doPost(ctx, "products", row)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/products", Err: err}
	}

	var rows []domain.Product
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode product: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no result from products insert")
	}
	return &rows[0], nil
}

func (c *Client) UpdateProduct(ctx context.Context, storeID, productID string, updates map[string]any) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateProduct")
	defer span.End()

	updates["updated_at"] = time.Now().Format(time.RFC3339)
	path := fmt.Sprintf("products?store_id=eq.%s&id=eq.%s", storeID, productID)
	body, err := c.doPatchReturning(ctx, path, updates)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/products", Err: err}
	}

	var rows []domain.Product
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode product: %w", err)
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "product", ID: productID}
	}
	return &rows[0], nil
}

func (c *Client) DeleteProduct(ctx context.Context, storeID, productID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteProduct")
	defer span.End()

	return c.doDelete(ctx, fmt.Sprintf("products?store_id=eq.%s&id=eq.%s", storeID, productID))
}

// CountProducts returns the catalog size for the dashboard.
func (c *Client) CountProducts(ctx context.Context, storeID string) (int, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CountProducts")
	defer span.End()

	path := fmt.Sprintf("products?store_id=eq.%s&select=id", storeID)
	body, err := c.getWithRetry(ctx, path)
	if err != nil {
		return 0, &domain.ErrExternalService{Service: "supabase/products", Err: err}
	}
	if body == nil {
		return 0, nil
	}

	var ids []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &ids); err != nil {
		return 0, fmt.Errorf("decode product ids: %w", err)
	}
	return len(ids), nil
}

// ============================================================
// Collections
// ============================================================

func (c *Client) ListCollections(ctx context.Context, storeID string) ([]domain.Collection, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListCollections")
	defer span.End()

	path := fmt.Sprintf("collections?store_id=eq.%s&order=position.asc", storeID)
	body, err := c.getWithRetry(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/collections", Err: err}
	}
	if body == nil || string(body) == "[]" {
		return []domain.Collection{}, nil
	}

	var rows []domain.Collection
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode collections: %w", err)
	}
	return rows, nil
}

func (c *Client) CreateCollection(ctx context.Context, collection *domain.Collection) (*domain.Collection, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateCollection")
	defer span.End()

	row := map[string]any{
		"id":       collection.ID,
		"store_id": collection.StoreID,
		"name":     collection.Name,
		"position": collection.Position,
	}

	body, err := c.doPost(ctx, "collections", row)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/collections", Err: err}
	}

	var rows []domain.Collection
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode collection: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no result from collections insert")
	}
	return &rows[0], nil
}

func (c *Client) DeleteCollection(ctx context.Context, storeID, collectionID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteCollection")
	defer span.End()

	return c.doDelete(ctx, fmt.Sprintf("collections?store_id=eq.%s&id=eq.%s", storeID, collectionID))
}
