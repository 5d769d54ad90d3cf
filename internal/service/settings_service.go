package service

import (
	"context"
	"fmt"
	"regexp"

	"github.com/lojaviva/admin-api-go/internal/domain"
	"github.com/lojaviva/admin-api-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var settingsTracer = otel.Tracer("service/settings")

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// SettingsService manages storefront appearance and contact data.
type SettingsService struct {
	store   port.SettingsStore
	objects port.ObjectStore
	logger  *zap.Logger
}

// NewSettingsService creates a new settings service.
func NewSettingsService(store port.SettingsStore, objects port.ObjectStore, logger *zap.Logger) *SettingsService {
	return &SettingsService{store: store, objects: objects, logger: logger}
}

func (s *SettingsService) GetSettings(ctx context.Context, storeID string) (*domain.StoreSettings, error) {
	ctx, span := settingsTracer.Start(ctx, "SettingsService.GetSettings")
	defer span.End()

	return s.store.GetSettings(ctx, storeID)
}

func (s *SettingsService) UpdateSettings(ctx context.Context, storeID string, req *domain.UpdateSettingsRequest) (*domain.StoreSettings, error) {
	ctx, span := settingsTracer.Start(ctx, "SettingsService.UpdateSettings")
	defer span.End()

	updates := map[string]any{}
	if req.StoreName != nil {
		if *req.StoreName == "" {
			return nil, &domain.ErrValidation{Field: "store_name", Message: "cannot be empty"}
		}
		updates["store_name"] = *req.StoreName
	}
	if req.PrimaryColor != nil {
		if !hexColorRe.MatchString(*req.PrimaryColor) {
			return nil, &domain.ErrValidation{Field: "primary_color", Message: "must be a hex color like #1a2b3c"}
		}
		updates["primary_color"] = *req.PrimaryColor
	}
	if req.SecondaryColor != nil {
		if !hexColorRe.MatchString(*req.SecondaryColor) {
			return nil, &domain.ErrValidation{Field: "secondary_color", Message: "must be a hex color like #1a2b3c"}
		}
		updates["secondary_color"] = *req.SecondaryColor
	}
	if req.AccentColor != nil {
		if !hexColorRe.MatchString(*req.AccentColor) {
			return nil, &domain.ErrValidation{Field: "accent_color", Message: "must be a hex color like #1a2b3c"}
		}
		updates["accent_color"] = *req.AccentColor
	}
	if req.LogoURL != nil {
		updates["logo_url"] = *req.LogoURL
	}
	if req.BannerURL != nil {
		updates["banner_url"] = *req.BannerURL
	}
	if req.WhatsApp != nil {
		updates["whatsapp"] = *req.WhatsApp
	}
	if req.Instagram != nil {
		updates["instagram"] = *req.Instagram
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.AboutUs != nil {
		updates["about_us"] = *req.AboutUs
	}
	if len(updates) == 0 {
		return nil, &domain.ErrValidation{Field: "body", Message: "no fields to update"}
	}

	updated, err := s.store.UpdateSettings(ctx, storeID, updates)
	if err != nil {
		return nil, err
	}

	s.logger.Info("store settings updated",
		zap.String("store_id", storeID),
		zap.Int("fields", len(updates)),
	)
	return updated, nil
}

// UploadImage stores a logo or banner image and points the settings
// record at its public URL. kind selects which slot to update.
func (s *SettingsService) UploadImage(ctx context.Context, storeID, kind, contentType string, data []byte) (*domain.StoreSettings, error) {
	ctx, span := settingsTracer.Start(ctx, "SettingsService.UploadImage")
	defer span.End()

	if kind != "logo" && kind != "banner" {
		return nil, &domain.ErrValidation{Field: "kind", Message: "must be logo or banner"}
	}
	if len(data) == 0 {
		return nil, &domain.ErrValidation{Field: "image", Message: "empty upload"}
	}

	path := fmt.Sprintf("settings/%s/%s", storeID, kind)
	url, err := s.objects.Upload(ctx, path, contentType, data)
	if err != nil {
		s.logger.Error("failed to upload settings image",
			zap.String("store_id", storeID),
			zap.String("kind", kind),
			zap.Error(err),
		)
		return nil, err
	}

	column := "logo_url"
	if kind == "banner" {
		column = "banner_url"
	}
	return s.store.UpdateSettings(ctx, storeID, map[string]any{column: url})
}

// RemoveImage deletes the stored logo or banner and clears its URL.
func (s *SettingsService) RemoveImage(ctx context.Context, storeID, kind string) (*domain.StoreSettings, error) {
	ctx, span := settingsTracer.Start(ctx, "SettingsService.RemoveImage")
	defer span.End()

	if kind != "logo" && kind != "banner" {
		return nil, &domain.ErrValidation{Field: "kind", Message: "must be logo or banner"}
	}

	path := fmt.Sprintf("settings/%s/%s", storeID, kind)
	if err := s.objects.Remove(ctx, path); err != nil {
		s.logger.Warn("failed to remove settings image",
			zap.String("store_id", storeID),
			zap.String("kind", kind),
			zap.Error(err),
		)
	}

	column := "logo_url"
	if kind == "banner" {
		column = "banner_url"
	}
	return s.store.UpdateSettings(ctx, storeID, map[string]any{column: ""})
}
