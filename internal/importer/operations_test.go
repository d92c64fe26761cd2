package importer

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

const csvHeader = "ativo,tipo,pm,alta,quantidade,premio,taxaColeta,custoExercicio,corretagem,dataEntrada,dataSaida,status\n"

func TestParseOperationsValidRow(t *testing.T) {
	data := csvHeader +
		"PETR4,call,10,15,100,200,5,0,10,2025-03-01,2025-03-20,closed\n"

	ops, rejected := ParseOperations(data)

	if len(rejected) != 0 {
		t.Fatalf("expected no rejections, got %v", rejected)
	}
	if len(ops) != 1 {
		t.Fatalf("expected 1 operation, got %d", len(ops))
	}

	op := ops[0]
	if op.Symbol != "PETR4" {
		t.Errorf("expected symbol PETR4, got %s", op.Symbol)
	}
	// (15 - 10) x 100 + 200 - 15 = 685
	if want := decimal.NewFromInt(685); !op.Result.Equal(want) {
		t.Errorf("expected result %s, got %s", want, op.Result)
	}
	if op.EntryDate.Format("2006-01-02") != "2025-03-01" {
		t.Errorf("expected entry date 2025-03-01, got %s", op.EntryDate)
	}
	if op.ExitDate == nil {
		t.Error("expected exit date to be set")
	}
}

func TestParseOperationsBrazilianDateFormat(t *testing.T) {
	data := csvHeader +
		"PETR4,call,10,15,100,200,,,,01/03/2025,,open\n"

	ops, rejected := ParseOperations(data)

	if len(rejected) != 0 {
		t.Fatalf("expected no rejections, got %v", rejected)
	}
	if ops[0].EntryDate.Format("2006-01-02") != "2025-03-01" {
		t.Errorf("expected entry date 2025-03-01, got %s", ops[0].EntryDate)
	}
}

func TestParseOperationsRejectsMissingEntryDate(t *testing.T) {
	data := csvHeader +
		"PETR4,call,10,15,100,200,,,,2025-03-01,,open\n" +
		"VALE3,put,20,25,50,100,,,,,,open\n"

	ops, rejected := ParseOperations(data)

	// The valid row still imports.
	if len(ops) != 1 {
		t.Fatalf("expected 1 imported operation, got %d", len(ops))
	}
	if len(rejected) != 1 {
		t.Fatalf("expected 1 rejection, got %d: %v", len(rejected), rejected)
	}

	// Header is line 1, so the second data row is line 3.
	if rejected[0].Row != 3 {
		t.Errorf("expected row 3, got %d", rejected[0].Row)
	}
	if rejected[0].Field != "dataEntrada" {
		t.Errorf("expected dataEntrada field, got %s", rejected[0].Field)
	}
	if !strings.Contains(rejected[0].Error(), "row 3") || !strings.Contains(rejected[0].Error(), "dataEntrada") {
		t.Errorf("error should name row and field: %s", rejected[0].Error())
	}
}

func TestParseOperationsCollectsAllMissingFields(t *testing.T) {
	data := csvHeader +
		",,,,,,,,,,,\n"

	ops, rejected := ParseOperations(data)

	if len(ops) != 0 {
		t.Fatalf("expected no imports, got %d", len(ops))
	}
	// ativo, tipo, pm, quantidade, premio, dataEntrada, status all missing.
	if len(rejected) != 7 {
		t.Fatalf("expected 7 rejections, got %d: %v", len(rejected), rejected)
	}
	for _, re := range rejected {
		if re.Row != 2 {
			t.Errorf("expected row 2, got %d", re.Row)
		}
	}
}

func TestParseOperationsRejectsInvalidNumber(t *testing.T) {
	data := csvHeader +
		"PETR4,call,abc,15,100,200,,,,2025-03-01,,open\n"

	ops, rejected := ParseOperations(data)

	if len(ops) != 0 {
		t.Fatalf("expected no imports, got %d", len(ops))
	}
	if len(rejected) != 1 || rejected[0].Field != "pm" {
		t.Fatalf("expected pm rejection, got %v", rejected)
	}
}

func TestParseOperationsRejectsInvalidDate(t *testing.T) {
	data := csvHeader +
		"PETR4,call,10,15,100,200,,,,not-a-date,,open\n"

	_, rejected := ParseOperations(data)

	if len(rejected) != 1 || rejected[0].Field != "dataEntrada" {
		t.Fatalf("expected dataEntrada rejection, got %v", rejected)
	}
}

func TestParseOperationsBadHeader(t *testing.T) {
	_, rejected := ParseOperations("")

	if len(rejected) != 1 || rejected[0].Row != 1 {
		t.Fatalf("expected header rejection on line 1, got %v", rejected)
	}
}
