package service

import (
	"context"
	"time"

	"github.com/lojaviva/admin-api-go/internal/domain"
	"github.com/lojaviva/admin-api-go/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var promoTracer = otel.Tracer("service/promotion")

// PromotionService manages promotions and their validity windows.
type PromotionService struct {
	store  port.PromotionStore
	logger *zap.Logger
}

// NewPromotionService creates a new promotion service.
func NewPromotionService(store port.PromotionStore, logger *zap.Logger) *PromotionService {
	return &PromotionService{store: store, logger: logger}
}

// PromotionView pairs a promotion with its evaluated validity so the
// admin UI never has to re-derive window state.
type PromotionView struct {
	domain.Promotion
	CurrentlyActive bool `json:"currently_active"`
}

// ListPromotions returns all promotions with evaluated state.
// Records missing date bounds are surfaced as malformed rather than
// silently shown as valid or invalid.
func (s *PromotionService) ListPromotions(ctx context.Context, storeID string) ([]PromotionView, error) {
	ctx, span := promoTracer.Start(ctx, "PromotionService.ListPromotions")
	defer span.End()

	promos, err := s.store.ListPromotions(ctx, storeID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	views := make([]PromotionView, 0, len(promos))
	for i := range promos {
		active, err := promos[i].IsCurrentlyActive(now)
		if err != nil {
			s.logger.Warn("promotion with missing date bounds",
				zap.String("promotion_id", promos[i].ID),
				zap.Error(err),
			)
			return nil, err
		}
		views = append(views, PromotionView{Promotion: promos[i], CurrentlyActive: active})
	}
	return views, nil
}

// CountActive counts promotions that are toggled on and inside their
// window right now. Malformed records are skipped, not counted.
func (s *PromotionService) CountActive(ctx context.Context, storeID string) (int, error) {
	ctx, span := promoTracer.Start(ctx, "PromotionService.CountActive")
	defer span.End()

	promos, err := s.store.ListPromotions(ctx, storeID)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	count := 0
	for i := range promos {
		active, err := promos[i].IsCurrentlyActive(now)
		if err != nil {
			s.logger.Warn("skipping malformed promotion in active count",
				zap.String("promotion_id", promos[i].ID),
			)
			continue
		}
		if active {
			count++
		}
	}
	return count, nil
}

func (s *PromotionService) GetPromotion(ctx context.Context, storeID, promotionID string) (*domain.Promotion, error) {
	ctx, span := promoTracer.Start(ctx, "PromotionService.GetPromotion")
	defer span.End()

	return s.store.GetPromotion(ctx, storeID, promotionID)
}

func (s *PromotionService) CreatePromotion(ctx context.Context, storeID string, req *domain.CreatePromotionRequest) (*domain.Promotion, error) {
	ctx, span := promoTracer.Start(ctx, "PromotionService.CreatePromotion")
	defer span.End()

	if req.Title == "" {
		return nil, &domain.ErrValidation{Field: "title", Message: "required"}
	}
	if req.DiscountPercent <= 0 || req.DiscountPercent > 100 {
		return nil, &domain.ErrValidation{Field: "discount_percent", Message: "must be between 0 and 100"}
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, &domain.ErrValidation{Field: "start_date", Message: "invalid format, use YYYY-MM-DD"}
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, &domain.ErrValidation{Field: "end_date", Message: "invalid format, use YYYY-MM-DD"}
	}
	if !end.After(start) {
		return nil, &domain.ErrValidation{Field: "end_date", Message: "must be after start_date"}
	}

	promo := &domain.Promotion{
		ID:              uuid.NewString(),
		StoreID:         storeID,
		Title:           req.Title,
		Description:     req.Description,
		DiscountPercent: req.DiscountPercent,
		StartDate:       &start,
		EndDate:         &end,
		Active:          req.Active,
		ProductIDs:      req.ProductIDs,
		ImageURL:        req.ImageURL,
	}

	created, err := s.store.CreatePromotion(ctx, promo)
	if err != nil {
		s.logger.Error("failed to create promotion", zap.String("store_id", storeID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("promotion created",
		zap.String("store_id", storeID),
		zap.String("promotion_id", created.ID),
		zap.Float64("discount_percent", created.DiscountPercent),
	)
	return created, nil
}

func (s *PromotionService) UpdatePromotion(ctx context.Context, storeID, promotionID string, req *domain.UpdatePromotionRequest) (*domain.Promotion, error) {
	ctx, span := promoTracer.Start(ctx, "PromotionService.UpdatePromotion")
	defer span.End()

	updates := map[string]any{}
	if req.Title != nil {
		if *req.Title == "" {
			return nil, &domain.ErrValidation{Field: "title", Message: "cannot be empty"}
		}
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.DiscountPercent != nil {
		if *req.DiscountPercent <= 0 || *req.DiscountPercent > 100 {
			return nil, &domain.ErrValidation{Field: "discount_percent", Message: "must be between 0 and 100"}
		}
		updates["discount_percent"] = *req.DiscountPercent
	}
	// Moving either bound re-validates the resulting window against
	// the stored record, so a partial update cannot invert it.
	if req.StartDate != nil || req.EndDate != nil {
		current, err := s.store.GetPromotion(ctx, storeID, promotionID)
		if err != nil {
			return nil, err
		}
		start, end := current.StartDate, current.EndDate
		if req.StartDate != nil {
			parsed, err := time.Parse("2006-01-02", *req.StartDate)
			if err != nil {
				return nil, &domain.ErrValidation{Field: "start_date", Message: "invalid format, use YYYY-MM-DD"}
			}
			start = &parsed
			updates["start_date"] = *req.StartDate
		}
		if req.EndDate != nil {
			parsed, err := time.Parse("2006-01-02", *req.EndDate)
			if err != nil {
				return nil, &domain.ErrValidation{Field: "end_date", Message: "invalid format, use YYYY-MM-DD"}
			}
			end = &parsed
			updates["end_date"] = *req.EndDate
		}
		if start != nil && end != nil && !end.After(*start) {
			return nil, &domain.ErrValidation{Field: "end_date", Message: "must be after start_date"}
		}
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if req.ProductIDs != nil {
		updates["product_ids"] = *req.ProductIDs
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if len(updates) == 0 {
		return nil, &domain.ErrValidation{Field: "body", Message: "no fields to update"}
	}

	return s.store.UpdatePromotion(ctx, storeID, promotionID, updates)
}

// TogglePromotion flips the active flag without touching the window.
func (s *PromotionService) TogglePromotion(ctx context.Context, storeID, promotionID string) (*domain.Promotion, error) {
	ctx, span := promoTracer.Start(ctx, "PromotionService.TogglePromotion")
	defer span.End()

	promo, err := s.store.GetPromotion(ctx, storeID, promotionID)
	if err != nil {
		return nil, err
	}

	return s.store.UpdatePromotion(ctx, storeID, promotionID, map[string]any{"active": !promo.Active})
}

func (s *PromotionService) DeletePromotion(ctx context.Context, storeID, promotionID string) error {
	ctx, span := promoTracer.Start(ctx, "PromotionService.DeletePromotion")
	defer span.End()

	if _, err := s.store.GetPromotion(ctx, storeID, promotionID); err != nil {
		return err
	}
	return s.store.DeletePromotion(ctx, storeID, promotionID)
}
