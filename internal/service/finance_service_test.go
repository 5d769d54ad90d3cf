package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/lojaviva/admin-api-go/internal/domain"
	"github.com/lojaviva/admin-api-go/internal/service"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSummarizeTransactions_Empty(t *testing.T) {
	summary := service.SummarizeTransactions(nil)

	if !summary.TotalRevenue.IsZero() {
		t.Errorf("revenue = %s, want 0", summary.TotalRevenue)
	}
	if !summary.TotalExpense.IsZero() {
		t.Errorf("expense = %s, want 0", summary.TotalExpense)
	}
	if !summary.Balance.IsZero() {
		t.Errorf("balance = %s, want 0", summary.Balance)
	}
	if summary.Count != 0 {
		t.Errorf("count = %d, want 0", summary.Count)
	}
}

func TestSummarizeTransactions_RevenueAndExpense(t *testing.T) {
	txs := []domain.Transaction{
		{Type: domain.TransactionRevenue, Amount: dec("100")},
		{Type: domain.TransactionExpense, Amount: dec("40")},
	}

	summary := service.SummarizeTransactions(txs)

	if !summary.TotalRevenue.Equal(dec("100")) {
		t.Errorf("revenue = %s, want 100", summary.TotalRevenue)
	}
	if !summary.TotalExpense.Equal(dec("40")) {
		t.Errorf("expense = %s, want 40", summary.TotalExpense)
	}
	if !summary.Balance.Equal(dec("60")) {
		t.Errorf("balance = %s, want 60", summary.Balance)
	}
	if summary.Count != 2 {
		t.Errorf("count = %d, want 2", summary.Count)
	}
}

func TestSummarizeTransactions_ExactDecimalSums(t *testing.T) {
	// 0.1 added ten times drifts under float64; decimal must not.
	txs := make([]domain.Transaction, 10)
	for i := range txs {
		txs[i] = domain.Transaction{Type: domain.TransactionRevenue, Amount: dec("0.1")}
	}

	summary := service.SummarizeTransactions(txs)
	if !summary.TotalRevenue.Equal(dec("1")) {
		t.Errorf("revenue = %s, want exactly 1", summary.TotalRevenue)
	}
}

func TestSummarizeTransactions_Additive(t *testing.T) {
	a := []domain.Transaction{
		{Type: domain.TransactionRevenue, Amount: dec("150.25")},
		{Type: domain.TransactionExpense, Amount: dec("33.10")},
	}
	b := []domain.Transaction{
		{Type: domain.TransactionRevenue, Amount: dec("9.99")},
		{Type: domain.TransactionExpense, Amount: dec("120.00")},
		{Type: domain.TransactionExpense, Amount: dec("0.01")},
	}

	combined := service.SummarizeTransactions(append(append([]domain.Transaction{}, a...), b...))
	sa := service.SummarizeTransactions(a)
	sb := service.SummarizeTransactions(b)

	if !combined.TotalRevenue.Equal(sa.TotalRevenue.Add(sb.TotalRevenue)) {
		t.Errorf("revenue not additive: %s vs %s", combined.TotalRevenue, sa.TotalRevenue.Add(sb.TotalRevenue))
	}
	if !combined.TotalExpense.Equal(sa.TotalExpense.Add(sb.TotalExpense)) {
		t.Errorf("expense not additive: %s vs %s", combined.TotalExpense, sa.TotalExpense.Add(sb.TotalExpense))
	}
	if !combined.Balance.Equal(sa.Balance.Add(sb.Balance)) {
		t.Errorf("balance not additive: %s vs %s", combined.Balance, sa.Balance.Add(sb.Balance))
	}
	if combined.Count != sa.Count+sb.Count {
		t.Errorf("count not additive: %d vs %d", combined.Count, sa.Count+sb.Count)
	}
}

func TestCreateTransaction(t *testing.T) {
	store := newFakeFinanceStore()
	svc := newFinanceService(store)

	created, err := svc.CreateTransaction(context.Background(), "loja-1", &domain.CreateTransactionRequest{
		Description:   "Venda balcão",
		Type:          domain.TransactionRevenue,
		PaymentMethod: "pix",
		Amount:        dec("75.50"),
		Date:          "2026-08-15",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == "" {
		t.Error("expected generated id")
	}
	if created.Date.Format("2006-01-02") != "2026-08-15" {
		t.Errorf("date = %s, want 2026-08-15", created.Date.Format("2006-01-02"))
	}
}

func TestCreateTransactionRejectsUnknownPaymentMethod(t *testing.T) {
	store := newFakeFinanceStore()
	svc := newFinanceService(store)

	_, err := svc.CreateTransaction(context.Background(), "loja-1", &domain.CreateTransactionRequest{
		Description:   "Venda",
		Type:          domain.TransactionRevenue,
		PaymentMethod: "cheque",
		Amount:        dec("10"),
		Date:          "2026-08-15",
	})

	var verr *domain.ErrValidation
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Field != "payment_method" {
		t.Errorf("field = %q, want payment_method", verr.Field)
	}
}

func TestSummarizeTransactions_IgnoresUnknownType(t *testing.T) {
	txs := []domain.Transaction{
		{Type: domain.TransactionRevenue, Amount: dec("50")},
		{Type: domain.TransactionType("transferencia"), Amount: dec("999")},
	}

	summary := service.SummarizeTransactions(txs)
	if !summary.TotalRevenue.Equal(dec("50")) {
		t.Errorf("revenue = %s, want 50", summary.TotalRevenue)
	}
	if !summary.TotalExpense.IsZero() {
		t.Errorf("expense = %s, want 0", summary.TotalExpense)
	}
}
