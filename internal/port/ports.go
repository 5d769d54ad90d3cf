// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/lojaviva/admin-api-go/internal/domain"
)

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}

// CatalogStore defines data operations for products and collections.
// Implemented by the Supabase adapter (or any other persistence layer).
type CatalogStore interface {
	ListProducts(ctx context.Context, storeID string) ([]domain.Product, error)
	ListProductsByCollection(ctx context.Context, storeID, collectionID string) ([]domain.Product, error)
	GetProduct(ctx context.Context, storeID, productID string) (*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, storeID, productID string, updates map[string]any) (*domain.Product, error)
	DeleteProduct(ctx context.Context, storeID, productID string) error
	CountProducts(ctx context.Context, storeID string) (int, error)

	ListCollections(ctx context.Context, storeID string) ([]domain.Collection, error)
	CreateCollection(ctx context.Context, collection *domain.Collection) (*domain.Collection, error)
	DeleteCollection(ctx context.Context, storeID, collectionID string) error
}

// FinanceStore defines data operations for transactions and bank accounts.
type FinanceStore interface {
	ListTransactions(ctx context.Context, storeID string, filter domain.TransactionFilter) ([]domain.Transaction, error)
	GetTransaction(ctx context.Context, storeID, transactionID string) (*domain.Transaction, error)
	CreateTransaction(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, storeID, transactionID string, updates map[string]any) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, storeID, transactionID string) error

	ListBankAccounts(ctx context.Context, storeID string) ([]domain.BankAccount, error)
	CreateBankAccount(ctx context.Context, account *domain.BankAccount) (*domain.BankAccount, error)
	UpdateBankAccount(ctx context.Context, storeID, accountID string, updates map[string]any) (*domain.BankAccount, error)
	DeleteBankAccount(ctx context.Context, storeID, accountID string) error
}

// PromotionStore defines data operations for promotions.
type PromotionStore interface {
	ListPromotions(ctx context.Context, storeID string) ([]domain.Promotion, error)
	GetPromotion(ctx context.Context, storeID, promotionID string) (*domain.Promotion, error)
	CreatePromotion(ctx context.Context, promo *domain.Promotion) (*domain.Promotion, error)
	UpdatePromotion(ctx context.Context, storeID, promotionID string, updates map[string]any) (*domain.Promotion, error)
	DeletePromotion(ctx context.Context, storeID, promotionID string) error
}

// NotificationStore defines data operations for notifications and their
// delivery records.
type NotificationStore interface {
	ListNotifications(ctx context.Context, storeID string) ([]domain.Notification, error)
	GetNotification(ctx context.Context, storeID, notificationID string) (*domain.Notification, error)
	CreateNotification(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	UpdateNotification(ctx context.Context, notificationID string, updates map[string]any) error
	ListDueNotifications(ctx context.Context, now string) ([]domain.Notification, error)

	// ClaimNotification transitions a notification from scheduled to
	// sending only if it is still scheduled. It reports false when
	// another worker won the claim.
	ClaimNotification(ctx context.Context, notificationID string) (bool, error)

	// CancelNotification transitions a notification from scheduled to
	// cancelled with the same conditional guard. It reports false when
	// the notification already left the scheduled state.
	CancelNotification(ctx context.Context, notificationID string) (bool, error)

	CreateRecipients(ctx context.Context, recipients []domain.NotificationRecipient) error
	ListRecipients(ctx context.Context, notificationID string) ([]domain.NotificationRecipient, error)
}

// CustomerStore resolves notification audiences and customer counts.
type CustomerStore interface {
	// ResolveAudience returns the customers matching a notification
	// target: all, recent (created in the last 30 days) or active.
	ResolveAudience(ctx context.Context, storeID string, target domain.NotificationTarget) ([]domain.Customer, error)
	CountCustomers(ctx context.Context, storeID string) (int, error)
	ListDeviceTokens(ctx context.Context, customerIDs []string) ([]domain.DeviceToken, error)
	UpsertDeviceToken(ctx context.Context, token *domain.DeviceToken) (*domain.DeviceToken, error)
}

// SettingsStore defines data operations for storefront settings.
type SettingsStore interface {
	GetSettings(ctx context.Context, storeID string) (*domain.StoreSettings, error)
	UpdateSettings(ctx context.Context, storeID string, updates map[string]any) (*domain.StoreSettings, error)
}

// ObjectStore uploads and removes storefront images.
type ObjectStore interface {
	Upload(ctx context.Context, path, contentType string, data []byte) (string, error)
	Remove(ctx context.Context, path string) error
}

// PushSender delivers a push message to a set of device tokens.
type PushSender interface {
	Send(ctx context.Context, tokens []string, title, body string) error
}
