package service_test

import (
	"bytes"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/lojaviva/admin-api-go/internal/domain"
	"github.com/lojaviva/admin-api-go/internal/service"
)

func TestBuildTransactionReport_Empty(t *testing.T) {
	_, err := service.BuildTransactionReport(nil)
	var empty *domain.ErrEmptyExport
	if !errors.As(err, &empty) {
		t.Fatalf("expected ErrEmptyExport, got %v", err)
	}
}

func TestBuildTransactionReport_HeaderAndRow(t *testing.T) {
	txs := []domain.Transaction{
		{
			Description:   "Venda balcão",
			Type:          domain.TransactionRevenue,
			PaymentMethod: "pix",
			Category:      "vendas",
			Amount:        dec("150.50"),
			Notes:         "pedido 42",
			Date:          time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		},
	}

	report, err := service.BuildTransactionReport(txs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := bytes.Split(bytes.TrimRight(report, "\n"), []byte("\n"))
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	wantHeader := "Data,Descrição,Tipo,Método de Pagamento,Categoria,Valor,Observações"
	if string(lines[0]) != wantHeader {
		t.Errorf("header = %q, want %q", lines[0], wantHeader)
	}
	wantRow := `"15/03/2024","Venda balcão","Receita","PIX","vendas","150.5","pedido 42"`
	if string(lines[1]) != wantRow {
		t.Errorf("row = %q, want %q", lines[1], wantRow)
	}
}

func TestBuildTransactionReport_RoundTripWithQuotesAndCommas(t *testing.T) {
	txs := []domain.Transaction{
		{
			Description:   `Cliente disse "ótimo", voltou depois`,
			Type:          domain.TransactionRevenue,
			PaymentMethod: "dinheiro",
			Category:      "vendas",
			Amount:        dec("10"),
			Notes:         `obs: 1,5kg de café; aspas "duplas"`,
			Date:          time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			Description:   "Compra insumos, fornecedor A",
			Type:          domain.TransactionExpense,
			PaymentMethod: "boleto",
			Category:      "insumos",
			Amount:        dec("75.90"),
			Date:          time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		},
	}

	report, err := service.BuildTransactionReport(txs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(report)).ReadAll()
	if err != nil {
		t.Fatalf("report does not parse as CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}

	if records[1][1] != txs[0].Description {
		t.Errorf("description = %q, want %q", records[1][1], txs[0].Description)
	}
	if records[1][6] != txs[0].Notes {
		t.Errorf("notes = %q, want %q", records[1][6], txs[0].Notes)
	}
	if records[2][1] != txs[1].Description {
		t.Errorf("description = %q, want %q", records[2][1], txs[1].Description)
	}
}

func TestBuildTransactionReport_AmountUnsigned(t *testing.T) {
	txs := []domain.Transaction{
		{
			Description:   "Estorno",
			Type:          domain.TransactionExpense,
			PaymentMethod: "cartao",
			Amount:        dec("-25.00"),
			Date:          time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	report, err := service.BuildTransactionReport(txs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(report)).ReadAll()
	if err != nil {
		t.Fatalf("report does not parse as CSV: %v", err)
	}
	if records[1][5] != "25" {
		t.Errorf("amount = %q, want unsigned %q", records[1][5], "25")
	}
}

func TestBuildTransactionReport_LabelsAndPlaceholders(t *testing.T) {
	txs := []domain.Transaction{
		{
			Description:   "Repasse",
			Type:          domain.TransactionRevenue,
			PaymentMethod: "transferencia",
			Amount:        dec("300"),
			Date:          time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			Description:   "Ajuste",
			Type:          domain.TransactionExpense,
			PaymentMethod: "outro",
			Amount:        dec("12.30"),
			Date:          time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC),
		},
	}

	report, err := service.BuildTransactionReport(txs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(report)).ReadAll()
	if err != nil {
		t.Fatalf("report does not parse as CSV: %v", err)
	}
	if records[1][3] != "Transferência" {
		t.Errorf("payment method = %q, want Transferência", records[1][3])
	}
	if records[2][3] != "Outro" {
		t.Errorf("payment method = %q, want Outro", records[2][3])
	}
	if records[1][4] != "-" {
		t.Errorf("empty category = %q, want -", records[1][4])
	}
	if records[1][6] != "-" {
		t.Errorf("empty notes = %q, want -", records[1][6])
	}
}

func TestReportFilename(t *testing.T) {
	now := time.Unix(1710500000, 0)
	got := service.ReportFilename(now)
	want := "relatorio_financeiro_1710500000.csv"
	if got != want {
		t.Errorf("filename = %q, want %q", got, want)
	}
}
