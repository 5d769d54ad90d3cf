package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lojaviva/admin-api-go/internal/domain"
)

// ============================================================
// Promotion store
// ============================================================

// promotionRow maps the promotions table. Date bounds are nullable;
// nil stays nil so the domain layer can reject malformed records.
type promotionRow struct {
	ID              string    `json:"id"`
	StoreID         string    `json:"store_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	DiscountPercent float64   `json:"discount_percent"`
	StartDate       *string   `json:"start_date"`
	EndDate         *string   `json:"end_date"`
	Active          bool      `json:"active"`
	ProductIDs      []string  `json:"product_ids"`
	ImageURL        string    `json:"image_url"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func parseDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		t, err = time.Parse("2006-01-02", *s)
		if err != nil {
			return nil
		}
	}
	return &t
}

func (r promotionRow) toDomain() domain.Promotion {
	return domain.Promotion{
		ID:              r.ID,
		StoreID:         r.StoreID,
		Title:           r.Title,
		Description:     r.Description,
		DiscountPercent: r.DiscountPercent,
		StartDate:       parseDate(r.StartDate),
		EndDate:         parseDate(r.EndDate),
		Active:          r.Active,
		ProductIDs:      r.ProductIDs,
		ImageURL:        r.ImageURL,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func (c *Client) ListPromotions(ctx context.Context, storeID string) ([]domain.Promotion, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListPromotions")
	defer span.End()

	path := fmt.Sprintf("promotions?store_id=eq.%s&order=created_at.desc", storeID)
	body, err := c.getWithRetry(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/promotions", Err: err}
	}
	if body == nil || string(body) == "[]" {
		return []domain.Promotion{}, nil
	}

	var rows []promotionRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode promotions: %w", err)
	}

	out := make([]domain.Promotion, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (c *Client) GetPromotion(ctx context.Context, storeID, promotionID string) (*domain.Promotion, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetPromotion")
	defer span.End()

	path := fmt.Sprintf("promotions?store_id=eq.%s&id=eq.%s&limit=1", storeID, promotionID)
	body, err := c.getWithRetry(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/promotions", Err: err}
	}

	var rows []promotionRow
	if body != nil {
		if err := json.Unmarshal(body, &rows); err != nil {
			return nil, fmt.Errorf("decode promotion: %w", err)
		}
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "promotion", ID: promotionID}
	}
	p := rows[0].toDomain()
	return &p, nil
}

func (c *Client) CreatePromotion(ctx context.Context, promo *domain.Promotion) (*domain.Promotion, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreatePromotion")
	defer span.End()

	row := map[string]any{
		"id":               promo.ID,
		"store_id":         promo.StoreID,
		"title":            promo.Title,
		"description":      promo.Description,
		"discount_percent": promo.DiscountPercent,
		"active":           promo.Active,
	}
	if promo.StartDate != nil {
		row["start_date"] = promo.StartDate.Format("2006-01-02")
	}
	if promo.EndDate != nil {
		row["end_date"] = promo.EndDate.Format("2006-01-02")
	}
	if len(promo.ProductIDs) > 0 {
		row["product_ids"] = promo.ProductIDs
	}
	if promo.ImageURL != "" {
		row["image_url"] = promo.ImageURL
	}

	body, err := c.doPost(ctx, "promotions", row)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/promotions", Err: err}
	}

	var rows []promotionRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode promotion: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no result from promotions insert")
	}
	created := rows[0].toDomain()
	return &created, nil
}

func (c *Client) UpdatePromotion(ctx context.Context, storeID, promotionID string, updates map[string]any) (*domain.Promotion, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdatePromotion")
	defer span.End()

	updates["updated_at"] = time.Now().Format(time.RFC3339)
	path := fmt.Sprintf("promotions?store_id=eq.%s&id=eq.%s", storeID, promotionID)
	body, err := c.doPatchReturning(ctx, path, updates)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/promotions", Err: err}
	}

	var rows []promotionRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode promotion: %w", err)
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "promotion", ID: promotionID}
	}
	updated := rows[0].toDomain()
	return &updated, nil
}

func (c *Client) DeletePromotion(ctx context.Context, storeID, promotionID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeletePromotion")
	defer span.End()

	return c.doDelete(ctx, fmt.Sprintf("promotions?store_id=eq.%s&id=eq.%s", storeID, promotionID))
}
