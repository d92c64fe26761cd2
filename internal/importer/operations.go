// Package importer parses operation uploads in the broker's CSV layout.
package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"opcoes/internal/models"
)

// operationRow mirrors the broker export header. Every column is read as a
// string so required-field checks can tell "missing" from "zero".
type operationRow struct {
	Ativo          string `csv:"ativo"`
	Tipo           string `csv:"tipo"`
	PM             string `csv:"pm"`
	Alta           string `csv:"alta"`
	Quantidade     string `csv:"quantidade"`
	Premio         string `csv:"premio"`
	TaxaColeta     string `csv:"taxaColeta"`
	CustoExercicio string `csv:"custoExercicio"`
	Corretagem     string `csv:"corretagem"`
	DataEntrada    string `csv:"dataEntrada"`
	DataSaida      string `csv:"dataSaida"`
	Status         string `csv:"status"`
}

// RowError describes why one CSV row was rejected. Row is the 1-based line
// number in the uploaded file, counting the header as line 1.
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Message)
}

var dateLayouts = []string{"2006-01-02", "02/01/2006"}

func parseDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// parseRow converts one CSV row into a TradingOperation, collecting every
// problem it finds instead of stopping at the first.
func parseRow(row *operationRow, line int) (*models.TradingOperation, []RowError) {
	var errs []RowError

	required := []struct {
		field string
		value string
	}{
		{"ativo", row.Ativo},
		{"tipo", row.Tipo},
		{"pm", row.PM},
		{"quantidade", row.Quantidade},
		{"premio", row.Premio},
		{"dataEntrada", row.DataEntrada},
		{"status", row.Status},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, RowError{Row: line, Field: r.field, Message: "required field is missing"})
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	num := func(field, value string) decimal.Decimal {
		if strings.TrimSpace(value) == "" {
			return decimal.Zero
		}
		d, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			errs = append(errs, RowError{Row: line, Field: field, Message: "invalid number"})
			return decimal.Zero
		}
		return d
	}

	op := &models.TradingOperation{
		Symbol:       strings.TrimSpace(row.Ativo),
		Type:         strings.TrimSpace(row.Tipo),
		AveragePrice: num("pm", row.PM),
		ExitPrice:    num("alta", row.Alta),
		Quantity:     num("quantidade", row.Quantidade),
		Premium:      num("premio", row.Premio),
		Status:       strings.TrimSpace(row.Status),
	}

	fees := num("taxaColeta", row.TaxaColeta).
		Add(num("custoExercicio", row.CustoExercicio)).
		Add(num("corretagem", row.Corretagem))
	op.Fees = fees

	entry, err := parseDate(strings.TrimSpace(row.DataEntrada))
	if err != nil {
		errs = append(errs, RowError{Row: line, Field: "dataEntrada", Message: "invalid date"})
	} else {
		op.EntryDate = entry
	}

	if strings.TrimSpace(row.DataSaida) != "" {
		exit, err := parseDate(strings.TrimSpace(row.DataSaida))
		if err != nil {
			errs = append(errs, RowError{Row: line, Field: "dataSaida", Message: "invalid date"})
		} else {
			op.ExitDate = &exit
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	// Realized result locked in at import time; never recomputed live.
	op.Result = op.ExitPrice.Sub(op.AveragePrice).Mul(op.Quantity).
		Add(op.Premium).
		Sub(fees)

	return op, nil
}

// ParseOperations parses a broker CSV export. Rows missing required fields
// are rejected individually with line-numbered errors; valid rows are
// returned regardless.
func ParseOperations(data string) ([]models.TradingOperation, []RowError) {
	var rows []*operationRow
	if err := gocsv.UnmarshalString(data, &rows); err != nil {
		return nil, []RowError{{Row: 1, Field: "header", Message: err.Error()}}
	}

	var ops []models.TradingOperation
	var rejected []RowError
	for i, row := range rows {
		// Header is line 1; first data row is line 2.
		op, errs := parseRow(row, i+2)
		if len(errs) > 0 {
			rejected = append(rejected, errs...)
			continue
		}
		ops = append(ops, *op)
	}
	return ops, rejected
}
