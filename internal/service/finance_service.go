// Package service provides the business logic layer (use cases) for
// the storefront admin: catalog, finance, promotions, notifications,
// settings and the dashboard overview.
package service

import (
	"context"
	"time"

	"github.com/lojaviva/admin-api-go/internal/domain"
	"github.com/lojaviva/admin-api-go/internal/infra/observability"
	"github.com/lojaviva/admin-api-go/internal/port"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var financeTracer = otel.Tracer("service/finance")

// FinanceService orchestrates transactions, summaries and bank
// accounts via the Supabase store.
type FinanceService struct {
	store   port.FinanceStore
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewFinanceService creates a new finance service.
func NewFinanceService(store port.FinanceStore, metrics *observability.Metrics, logger *zap.Logger) *FinanceService {
	return &FinanceService{store: store, metrics: metrics, logger: logger}
}

// ============================================================
// Aggregation
// ============================================================

// SummarizeTransactions folds a transaction set into revenue, expense
// and balance totals. Decimal arithmetic keeps currency sums exact.
// An empty input yields all zeros.
func SummarizeTransactions(txs []domain.Transaction) domain.FinancialSummary {
	revenue := decimal.Zero
	expense := decimal.Zero

	for _, tx := range txs {
		switch tx.Type {
		case domain.TransactionRevenue:
			revenue = revenue.Add(tx.Amount)
		case domain.TransactionExpense:
			expense = expense.Add(tx.Amount)
		}
	}

	return domain.FinancialSummary{
		TotalRevenue: revenue,
		TotalExpense: expense,
		Balance:      revenue.Sub(expense),
		Count:        len(txs),
	}
}

// ============================================================
// Transactions
// ============================================================

// ListTransactions resolves the period into a date range and fetches
// matching transactions most-recent-first.
func (s *FinanceService) ListTransactions(ctx context.Context, storeID string, period domain.Period, txType domain.TransactionType) ([]domain.Transaction, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.ListTransactions")
	defer span.End()

	if period == "" {
		period = domain.PeriodAll
	}
	dr, err := domain.ResolveDateRange(period, time.Now())
	if err != nil {
		return nil, err
	}

	return s.store.ListTransactions(ctx, storeID, domain.TransactionFilter{Range: dr, Type: txType})
}

// GetSummary aggregates the transactions of a period.
func (s *FinanceService) GetSummary(ctx context.Context, storeID string, period domain.Period) (*domain.FinancialSummary, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.GetSummary")
	defer span.End()

	txs, err := s.ListTransactions(ctx, storeID, period, "")
	if err != nil {
		return nil, err
	}

	summary := SummarizeTransactions(txs)
	return &summary, nil
}

func (s *FinanceService) GetTransaction(ctx context.Context, storeID, transactionID string) (*domain.Transaction, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.GetTransaction")
	defer span.End()

	return s.store.GetTransaction(ctx, storeID, transactionID)
}

var paymentMethods = map[string]bool{
	"pix": true, "cartao": true, "boleto": true,
	"dinheiro": true, "transferencia": true, "outro": true,
}

func (s *FinanceService) CreateTransaction(ctx context.Context, storeID string, req *domain.CreateTransactionRequest) (*domain.Transaction, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.CreateTransaction")
	defer span.End()

	if req.Description == "" {
		return nil, &domain.ErrValidation{Field: "description", Message: "required"}
	}
	if req.Type != domain.TransactionRevenue && req.Type != domain.TransactionExpense {
		return nil, &domain.ErrValidation{Field: "type", Message: "must be receita or despesa"}
	}
	if !paymentMethods[req.PaymentMethod] {
		return nil, &domain.ErrValidation{Field: "payment_method", Message: "must be pix, cartao, boleto, dinheiro, transferencia or outro"}
	}
	if !req.Amount.IsPositive() {
		return nil, &domain.ErrValidation{Field: "amount", Message: "must be positive"}
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, &domain.ErrValidation{Field: "date", Message: "invalid format, use YYYY-MM-DD"}
	}

	tx := &domain.Transaction{
		ID:            uuid.NewString(),
		StoreID:       storeID,
		Description:   req.Description,
		Type:          req.Type,
		PaymentMethod: req.PaymentMethod,
		Category:      req.Category,
		Amount:        req.Amount,
		Notes:         req.Notes,
		Date:          date,
	}

	created, err := s.store.CreateTransaction(ctx, tx)
	if err != nil {
		s.logger.Error("failed to create transaction", zap.String("store_id", storeID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("transaction created",
		zap.String("store_id", storeID),
		zap.String("transaction_id", created.ID),
		zap.String("type", string(created.Type)),
		zap.String("amount", created.Amount.String()),
	)

	return created, nil
}

func (s *FinanceService) UpdateTransaction(ctx context.Context, storeID, transactionID string, req *domain.UpdateTransactionRequest) (*domain.Transaction, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.UpdateTransaction")
	defer span.End()

	updates := map[string]any{}
	if req.Description != nil {
		if *req.Description == "" {
			return nil, &domain.ErrValidation{Field: "description", Message: "cannot be empty"}
		}
		updates["description"] = *req.Description
	}
	if req.Type != nil {
		if *req.Type != domain.TransactionRevenue && *req.Type != domain.TransactionExpense {
			return nil, &domain.ErrValidation{Field: "type", Message: "must be receita or despesa"}
		}
		updates["type"] = string(*req.Type)
	}
	if req.PaymentMethod != nil {
		if !paymentMethods[*req.PaymentMethod] {
			return nil, &domain.ErrValidation{Field: "payment_method", Message: "must be pix, cartao, boleto, dinheiro, transferencia or outro"}
		}
		updates["payment_method"] = *req.PaymentMethod
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, &domain.ErrValidation{Field: "amount", Message: "must be positive"}
		}
		updates["amount"] = *req.Amount
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.Date != nil {
		if _, err := time.Parse("2006-01-02", *req.Date); err != nil {
			return nil, &domain.ErrValidation{Field: "date", Message: "invalid format, use YYYY-MM-DD"}
		}
		updates["date"] = *req.Date
	}
	if len(updates) == 0 {
		return nil, &domain.ErrValidation{Field: "body", Message: "no fields to update"}
	}

	return s.store.UpdateTransaction(ctx, storeID, transactionID, updates)
}

func (s *FinanceService) DeleteTransaction(ctx context.Context, storeID, transactionID string) error {
	ctx, span := financeTracer.Start(ctx, "FinanceService.DeleteTransaction")
	defer span.End()

	if _, err := s.store.GetTransaction(ctx, storeID, transactionID); err != nil {
		return err
	}
	return s.store.DeleteTransaction(ctx, storeID, transactionID)
}

// ============================================================
// Bank accounts
// ============================================================

var (
	accountTypes = map[string]bool{"corrente": true, "poupanca": true, "pagamento": true}
	environments = map[string]bool{"sandbox": true, "production": true}
)

func validateBankAccount(req *domain.SaveBankAccountRequest) error {
	if req.BankName == "" {
		return &domain.ErrValidation{Field: "bank_name", Message: "required"}
	}
	if req.AccountNumber == "" {
		return &domain.ErrValidation{Field: "account_number", Message: "required"}
	}
	if !accountTypes[req.AccountType] {
		return &domain.ErrValidation{Field: "account_type", Message: "must be corrente, poupanca or pagamento"}
	}
	if !environments[req.Environment] {
		return &domain.ErrValidation{Field: "environment", Message: "must be sandbox or production"}
	}
	return nil
}

// maskPixKey hides the middle of the key on list output. Gateway
// credentials are never returned by list at all.
func maskPixKey(key string) string {
	if len(key) <= 4 {
		return key
	}
	return key[:2] + "****" + key[len(key)-2:]
}

// ListBankAccounts returns the configured accounts with the pix key
// masked and the gateway secrets stripped.
func (s *FinanceService) ListBankAccounts(ctx context.Context, storeID string) ([]domain.BankAccount, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.ListBankAccounts")
	defer span.End()

	accounts, err := s.store.ListBankAccounts(ctx, storeID)
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		accounts[i].PixKey = maskPixKey(accounts[i].PixKey)
		accounts[i].APIKey = ""
		accounts[i].APISecret = ""
	}
	return accounts, nil
}

func (s *FinanceService) CreateBankAccount(ctx context.Context, storeID string, req *domain.SaveBankAccountRequest) (*domain.BankAccount, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.CreateBankAccount")
	defer span.End()

	if err := validateBankAccount(req); err != nil {
		return nil, err
	}

	account := &domain.BankAccount{
		ID:               uuid.NewString(),
		StoreID:          storeID,
		BankName:         req.BankName,
		AccountType:      req.AccountType,
		Agency:           req.Agency,
		AccountNumber:    req.AccountNumber,
		PixKey:           req.PixKey,
		APIKey:           req.APIKey,
		APISecret:        req.APISecret,
		WebhookURL:       req.WebhookURL,
		Environment:      req.Environment,
		Active:           req.Active,
		AutoConciliation: req.AutoConciliation,
	}

	created, err := s.store.CreateBankAccount(ctx, account)
	if err != nil {
		s.logger.Error("failed to create bank account", zap.String("store_id", storeID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("bank account created",
		zap.String("store_id", storeID),
		zap.String("account_id", created.ID),
	)
	return created, nil
}

func (s *FinanceService) UpdateBankAccount(ctx context.Context, storeID, accountID string, req *domain.SaveBankAccountRequest) (*domain.BankAccount, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.UpdateBankAccount")
	defer span.End()

	if err := validateBankAccount(req); err != nil {
		return nil, err
	}

	updates := map[string]any{
		"bank_name":         req.BankName,
		"account_type":      req.AccountType,
		"agency":            req.Agency,
		"account_number":    req.AccountNumber,
		"pix_key":           req.PixKey,
		"api_key":           req.APIKey,
		"api_secret":        req.APISecret,
		"webhook_url":       req.WebhookURL,
		"environment":       req.Environment,
		"active":            req.Active,
		"auto_conciliation": req.AutoConciliation,
	}
	return s.store.UpdateBankAccount(ctx, storeID, accountID, updates)
}

func (s *FinanceService) DeleteBankAccount(ctx context.Context, storeID, accountID string) error {
	ctx, span := financeTracer.Start(ctx, "FinanceService.DeleteBankAccount")
	defer span.End()

	return s.store.DeleteBankAccount(ctx, storeID, accountID)
}
