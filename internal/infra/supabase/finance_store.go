package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/lojaviva/admin-api-go/internal/domain"

	"github.com/shopspring/decimal"
)

// ============================================================
// Finance store — transactions and bank accounts
// ============================================================

// transactionRow maps the transactions table. Dates come back either
// as plain dates or full timestamps depending on the column.
type transactionRow struct {
	ID            string          `json:"id"`
	StoreID       string          `json:"store_id"`
	Description   string          `json:"description"`
	Type          string          `json:"type"`
	PaymentMethod string          `json:"payment_method"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Notes         string          `json:"notes"`
	Date          string          `json:"date"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (r transactionRow) toDomain() domain.Transaction {
	d, _ := time.Parse(time.RFC3339, r.Date)
	if d.IsZero() {
		d, _ = time.Parse("2006-01-02", r.Date)
	}
	return domain.Transaction{
		ID:            r.ID,
		StoreID:       r.StoreID,
		Description:   r.Description,
		Type:          domain.TransactionType(r.Type),
		PaymentMethod: r.PaymentMethod,
		Category:      r.Category,
		Amount:        r.Amount,
		Notes:         r.Notes,
		Date:          d,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// ListTransactions fetches transactions most-recent-first, optionally
// bounded by a resolved date range and kind.
func (c *Client) ListTransactions(ctx context.Context, storeID string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListTransactions")
	defer span.End()

	path := fmt.Sprintf("transactions?store_id=eq.%s&order=date.desc", storeID)
	if filter.Range.Start != nil {
		path += "&date=gte." + url.QueryEscape(filter.Range.Start.Format(time.RFC3339))
	}
	if filter.Range.End != nil {
		path += "&date=lte." + url.QueryEscape(filter.Range.End.Format(time.RFC3339))
	}
	if filter.Type != "" {
		path += "&type=eq." + string(filter.Type)
	}

	body, err := c.getWithRetry(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/transactions", Err: err}
	}
	if body == nil || string(body) == "[]" {
		return []domain.Transaction{}, nil
	}

	var rows []transactionRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}

	out := make([]domain.Transaction, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (c *Client) GetTransaction(ctx context.Context, storeID, transactionID string) (*domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetTransaction")
	defer span.End()

	path := fmt.Sprintf("transactions?store_id=eq.%s&id=eq.%s&limit=1", storeID, transactionID)
	body, err := c.getWithRetry(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/transactions", Err: err}
	}

	var rows []transactionRow
	if body != nil {
		if err := json.Unmarshal(body, &rows); err != nil {
			return nil, fmt.Errorf("decode transaction: %w", err)
		}
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "transaction", ID: transactionID}
	}
	tx := rows[0].toDomain()
	return &tx, nil
}

func (c *Client) CreateTransaction(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateTransaction")
	defer span.End()

	row := map[string]any{
		"id":             tx.ID,
		"store_id":       tx.StoreID,
		"description":    tx.Description,
		"type":           string(tx.Type),
		"payment_method": tx.PaymentMethod,
		"category":       tx.Category,
		"amount":         tx.Amount,
		"date":           tx.Date.Format("2006-01-02"),
	}
	if tx.Notes != "" {
		row["notes"] = tx.Notes
	}

	body, err := c.doPost(ctx, "transactions", row)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/transactions", Err: err}
	}

	var rows []transactionRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no result from transactions insert")
	}
	created := rows[0].toDomain()
	return &created, nil
}

func (c *Client) UpdateTransaction(ctx context.Context, storeID, transactionID string, updates map[string]any) (*domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateTransaction")
	defer span.End()

	updates["updated_at"] = time.Now().Format(time.RFC3339)
	path := fmt.Sprintf("transactions?store_id=eq.%s&id=eq.%s", storeID, transactionID)
	body, err := c.doPatchReturning(ctx, path, updates)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/transactions", Err: err}
	}

	var rows []transactionRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "transaction", ID: transactionID}
	}
	updated := rows[0].toDomain()
	return &updated, nil
}

func (c *Client) DeleteTransaction(ctx context.Context, storeID, transactionID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteTransaction")
	defer span.End()

	return c.doDelete(ctx, fmt.Sprintf("transactions?store_id=eq.%s&id=eq.%s", storeID, transactionID))
}

// ============================================================
// Bank accounts
// ============================================================

func (c *Client) ListBankAccounts(ctx context.Context, storeID string) ([]domain.BankAccount, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListBankAccounts")
	defer span.End()

	path := fmt.Sprintf("bank_accounts?store_id=eq.%s&order=created_at.asc", storeID)
	body, err := c.getWithRetry(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/bank_accounts", Err: err}
	}
	if body == nil || string(body) == "[]" {
		return []domain.BankAccount{}, nil
	}

	var rows []domain.BankAccount
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode bank_accounts: %w", err)
	}
	return rows, nil
}

func (c *Client) CreateBankAccount(ctx context.Context, account *domain.BankAccount) (*domain.BankAccount, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateBankAccount")
	defer span.End()

	row := map[string]any{
		"id":                account.ID,
		"store_id":          account.StoreID,
		"bank_name":         account.BankName,
		"account_type":      account.AccountType,
		"agency":            account.Agency,
		"account_number":    account.AccountNumber,
		"environment":       account.Environment,
		"active":            account.Active,
		"auto_conciliation": account.AutoConciliation,
	}
	if account.PixKey != "" {
		row["pix_key"] = account.PixKey
	}
	if account.APIKey != "" {
		row["api_key"] = account.APIKey
	}
	if account.APISecret != "" {
		row["api_secret"] = account.APISecret
	}
	if account.WebhookURL != "" {
		row["webhook_url"] = account.WebhookURL
	}

	body, err := c.doPost(ctx, "bank_accounts", row)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/bank_accounts", Err: err}
	}

	var rows []domain.BankAccount
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode bank_account: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no result from bank_accounts insert")
	}
	return &rows[0], nil
}

func (c *Client) UpdateBankAccount(ctx context.Context, storeID, accountID string, updates map[string]any) (*domain.BankAccount, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateBankAccount")
	defer span.End()

	updates["updated_at"] = time.Now().Format(time.RFC3339)
	path := fmt.Sprintf("bank_accounts?store_id=eq.%s&id=eq.%s", storeID, accountID)
	body, err := c.doPatchReturning(ctx, path, updates)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/bank_accounts", Err: err}
	}

	var rows []domain.BankAccount
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode bank_account: %w", err)
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "bank_account", ID: accountID}
	}
	return &rows[0], nil
}

func (c *Client) DeleteBankAccount(ctx context.Context, storeID, accountID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteBankAccount")
	defer span.End()

	return c.doDelete(ctx, fmt.Sprintf("bank_accounts?store_id=eq.%s&id=eq.%s", storeID, accountID))
}
