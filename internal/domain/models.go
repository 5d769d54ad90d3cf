package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================
// Transactions
// ============================================================

// TransactionType discriminates money in from money out.
type TransactionType string

const (
	TransactionRevenue TransactionType = "receita"
	TransactionExpense TransactionType = "despesa"
)

// Transaction is a single financial entry recorded by the store
// operator, either a sale (receita) or a cost (despesa).
type Transaction struct {
	ID            string          `json:"id"`
	StoreID       string          `json:"store_id"`
	Description   string          `json:"description"`
	Type          TransactionType `json:"type"`
	PaymentMethod string          `json:"payment_method"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Notes         string          `json:"notes,omitempty"`
	Date          time.Time       `json:"date"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// FinancialSummary aggregates a set of transactions.
type FinancialSummary struct {
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Balance      decimal.Decimal `json:"balance"`
	Count        int             `json:"count"`
}

// CreateTransactionRequest is the payload for POST /v1/stores/{storeId}/transactions.
type CreateTransactionRequest struct {
	Description   string          `json:"description"`
	Type          TransactionType `json:"type"`
	PaymentMethod string          `json:"payment_method"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Notes         string          `json:"notes,omitempty"`
	Date          string          `json:"date"` // YYYY-MM-DD
}

// UpdateTransactionRequest carries partial updates; nil fields are
// left untouched.
type UpdateTransactionRequest struct {
	Description   *string          `json:"description,omitempty"`
	Type          *TransactionType `json:"type,omitempty"`
	PaymentMethod *string          `json:"payment_method,omitempty"`
	Category      *string          `json:"category,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
	Date          *string          `json:"date,omitempty"`
}

// TransactionFilter narrows listings by a resolved date range and kind.
type TransactionFilter struct {
	Range DateRange
	Type  TransactionType // empty means both
}

// ============================================================
// Promotions
// ============================================================

// Promotion is a time-bound discount the operator can toggle on and
// off independently of its window.
type Promotion struct {
	ID              string     `json:"id"`
	StoreID         string     `json:"store_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	DiscountPercent float64    `json:"discount_percent"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	Active          bool       `json:"active"`
	ProductIDs      []string   `json:"product_ids"`
	ImageURL        string     `json:"image_url,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// CreatePromotionRequest is the payload for POST /v1/stores/{storeId}/promotions.
type CreatePromotionRequest struct {
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	DiscountPercent float64  `json:"discount_percent"`
	StartDate       string   `json:"start_date"` // YYYY-MM-DD
	EndDate         string   `json:"end_date"`   // YYYY-MM-DD
	Active          bool     `json:"active"`
	ProductIDs      []string `json:"product_ids,omitempty"`
	ImageURL        string   `json:"image_url,omitempty"`
}

// UpdatePromotionRequest carries partial updates.
type UpdatePromotionRequest struct {
	Title           *string   `json:"title,omitempty"`
	Description     *string   `json:"description,omitempty"`
	DiscountPercent *float64  `json:"discount_percent,omitempty"`
	StartDate       *string   `json:"start_date,omitempty"`
	EndDate         *string   `json:"end_date,omitempty"`
	Active          *bool     `json:"active,omitempty"`
	ProductIDs      *[]string `json:"product_ids,omitempty"`
	ImageURL        *string   `json:"image_url,omitempty"`
}

// ============================================================
// Bank Accounts
// ============================================================

// BankAccount holds the store's payment integration details. The
// gateway credentials are stored as opaque config; the API never
// calls the gateway itself.
type BankAccount struct {
	ID               string    `json:"id"`
	StoreID          string    `json:"store_id"`
	BankName         string    `json:"bank_name"`
	AccountType      string    `json:"account_type"` // corrente, poupanca, pagamento
	Agency           string    `json:"agency"`
	AccountNumber    string    `json:"account_number"`
	PixKey           string    `json:"pix_key,omitempty"`
	APIKey           string    `json:"api_key,omitempty"`
	APISecret        string    `json:"api_secret,omitempty"`
	WebhookURL       string    `json:"webhook_url,omitempty"`
	Environment      string    `json:"environment"` // sandbox, production
	Active           bool      `json:"active"`
	AutoConciliation bool      `json:"auto_conciliation"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// SaveBankAccountRequest creates or replaces a bank account.
type SaveBankAccountRequest struct {
	BankName         string `json:"bank_name"`
	AccountType      string `json:"account_type"`
	Agency           string `json:"agency"`
	AccountNumber    string `json:"account_number"`
	PixKey           string `json:"pix_key,omitempty"`
	APIKey           string `json:"api_key,omitempty"`
	APISecret        string `json:"api_secret,omitempty"`
	WebhookURL       string `json:"webhook_url,omitempty"`
	Environment      string `json:"environment"`
	Active           bool   `json:"active"`
	AutoConciliation bool   `json:"auto_conciliation"`
}

// ============================================================
// Notifications
// ============================================================

// NotificationStatus tracks a notification through its lifecycle.
type NotificationStatus string

const (
	NotificationScheduled NotificationStatus = "scheduled"
	// NotificationSending is the transient claimed state between the
	// atomic claim and the final sent/failed transition.
	NotificationSending NotificationStatus = "sending"
	NotificationSent      NotificationStatus = "sent"
	NotificationCancelled NotificationStatus = "cancelled"
	NotificationFailed    NotificationStatus = "failed"
)

// NotificationTarget selects the audience of a notification.
type NotificationTarget string

const (
	TargetAll    NotificationTarget = "all"
	TargetRecent NotificationTarget = "recent"
	TargetActive NotificationTarget = "active"
)

// Notification is a push message to a customer audience, sent
// immediately or scheduled for later dispatch.
type Notification struct {
	ID              string             `json:"id"`
	StoreID         string             `json:"store_id"`
	Title           string             `json:"title"`
	Body            string             `json:"body"`
	Target          NotificationTarget `json:"target"`
	Status          NotificationStatus `json:"status"`
	ScheduledFor    *time.Time         `json:"scheduled_for,omitempty"`
	SentAt          *time.Time         `json:"sent_at,omitempty"`
	RecipientsCount int                `json:"recipients_count"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// NotificationRecipient records one customer delivery of a sent
// notification.
type NotificationRecipient struct {
	ID             string    `json:"id"`
	NotificationID string    `json:"notification_id"`
	CustomerID     string    `json:"customer_id"`
	DeviceToken    string    `json:"device_token,omitempty"`
	DeliveredAt    time.Time `json:"delivered_at"`
}

// SendNotificationRequest creates a notification. A non-empty
// ScheduledFor defers dispatch to the scheduler sweep.
type SendNotificationRequest struct {
	Title        string             `json:"title"`
	Body         string             `json:"body"`
	Target       NotificationTarget `json:"target"`
	ScheduledFor string             `json:"scheduled_for,omitempty"` // RFC 3339
}

// ============================================================
// Catalog
// ============================================================

// Product is a catalog item. PaymentMethods must never be empty;
// the write boundary rejects products without one.
type Product struct {
	ID             string          `json:"id"`
	StoreID        string          `json:"store_id"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Price          decimal.Decimal `json:"price"`
	CollectionID   string          `json:"collection_id,omitempty"`
	Stock          int             `json:"stock"`
	Images         []string        `json:"images,omitempty"`
	PaymentMethods []string        `json:"payment_methods"`
	SalesCount     int             `json:"sales_count"`
	Available      bool            `json:"available"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Collection groups products for storefront display.
type Collection struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"store_id"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// SaveProductRequest creates or updates a product.
type SaveProductRequest struct {
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Price          decimal.Decimal `json:"price"`
	CollectionID   string          `json:"collection_id,omitempty"`
	Stock          int             `json:"stock"`
	Images         []string        `json:"images,omitempty"`
	PaymentMethods []string        `json:"payment_methods"`
	Available      bool            `json:"available"`
}

// ============================================================
// Customers & Devices
// ============================================================

// Customer is a storefront buyer known to the store.
type Customer struct {
	ID          string     `json:"id"`
	StoreID     string     `json:"store_id"`
	Name        string     `json:"name"`
	Email       string     `json:"email,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Active      bool       `json:"active"`
	LastOrderAt *time.Time `json:"last_order_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// DeviceToken is a push registration for a customer device.
type DeviceToken struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	Token      string    `json:"token"`
	Platform   string    `json:"platform"` // web, android, ios
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// RegisterDeviceRequest upserts a device token for a customer.
type RegisterDeviceRequest struct {
	CustomerID string `json:"customer_id"`
	Token      string `json:"token"`
	Platform   string `json:"platform"`
}

// ============================================================
// Store Settings
// ============================================================

// StoreSettings holds storefront appearance and contact data.
type StoreSettings struct {
	StoreID        string    `json:"store_id"`
	StoreName      string    `json:"store_name"`
	PrimaryColor   string    `json:"primary_color"`
	SecondaryColor string    `json:"secondary_color"`
	AccentColor    string    `json:"accent_color,omitempty"`
	LogoURL        string    `json:"logo_url,omitempty"`
	BannerURL      string    `json:"banner_url,omitempty"`
	WhatsApp       string    `json:"whatsapp,omitempty"`
	Instagram      string    `json:"instagram,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Email          string    `json:"email,omitempty"`
	Address        string    `json:"address,omitempty"`
	AboutUs        string    `json:"about_us,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UpdateSettingsRequest carries partial settings updates.
type UpdateSettingsRequest struct {
	StoreName      *string `json:"store_name,omitempty"`
	PrimaryColor   *string `json:"primary_color,omitempty"`
	SecondaryColor *string `json:"secondary_color,omitempty"`
	AccentColor    *string `json:"accent_color,omitempty"`
	LogoURL        *string `json:"logo_url,omitempty"`
	BannerURL      *string `json:"banner_url,omitempty"`
	WhatsApp       *string `json:"whatsapp,omitempty"`
	Instagram      *string `json:"instagram,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	Email          *string `json:"email,omitempty"`
	Address        *string `json:"address,omitempty"`
	AboutUs        *string `json:"about_us,omitempty"`
}

// ============================================================
// Dashboard
// ============================================================

// DashboardOverview is the aggregate snapshot behind the admin home
// screen.
type DashboardOverview struct {
	ProductCount     int              `json:"product_count"`
	ActivePromotions int              `json:"active_promotions"`
	CustomerCount    int              `json:"customer_count"`
	MonthSummary     FinancialSummary `json:"month_summary"`
	RecentSales      []Transaction    `json:"recent_sales"`
	TopProducts      []Product        `json:"top_products"`
}
