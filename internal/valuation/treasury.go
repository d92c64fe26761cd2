package valuation

import (
	"sort"

	"github.com/shopspring/decimal"

	"opcoes/internal/models"
)

// stockGuaranteeRate is the share of long-stock value inside active
// structures the broker accepts as guarantee.
var stockGuaranteeRate = decimal.NewFromFloat(0.60)

// TreasurySummary is the composed balance view over the cash-flow ledger,
// custody assets, and active structures.
type TreasurySummary struct {
	CurrentBalance   decimal.Decimal `json:"current_balance"`
	StockValue       decimal.Decimal `json:"stock_value"`
	FixedIncomeValue decimal.Decimal `json:"fixed_income_value"`
	OptionsValue     decimal.Decimal `json:"options_value"`
	FuturesValue     decimal.Decimal `json:"futures_value"`

	// TotalNocional sums absolute leg notional over active structures only.
	TotalNocional decimal.Decimal `json:"total_nocional"`

	// TotalInvested sums absolute custody values. Active structures are
	// excluded: their effect is already reflected in custody once
	// activated, so counting them here would double count.
	TotalInvested decimal.Decimal `json:"total_invested"`

	// TotalBalance is net worth: current balance plus all custody values.
	TotalBalance decimal.Decimal `json:"total_balance"`

	GuaranteeUsed      decimal.Decimal `json:"guarantee_used"`
	GuaranteeAvailable decimal.Decimal `json:"guarantee_available"`
}

// SortEntries orders ledger entries chronologically, breaking date ties by
// creation time and then id so the order is deterministic.
func SortEntries(entries []models.CashFlowEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.Before(entries[j].CreatedAt)
		}
		return entries[i].ID < entries[j].ID
	})
}

// RunningBalances recomputes every entry's balance as the prefix sum of
// amounts in chronological order. The input slice is sorted in place and
// returned. Reordering the input never changes the final balance, only
// intermediate values.
func RunningBalances(entries []models.CashFlowEntry) []models.CashFlowEntry {
	SortEntries(entries)
	balance := decimal.Zero
	for i := range entries {
		balance = balance.Add(entries[i].Amount)
		entries[i].Balance = balance
	}
	return entries
}

// Summarize composes the treasury view from the three input collections.
// It is a pure, order-independent reduction: entries may arrive in any
// order, and only structures with active status contribute.
func Summarize(entries []models.CashFlowEntry, assets []models.Asset, structures []models.Structure) TreasurySummary {
	s := TreasurySummary{
		CurrentBalance:   decimal.Zero,
		StockValue:       decimal.Zero,
		FixedIncomeValue: decimal.Zero,
		OptionsValue:     decimal.Zero,
		FuturesValue:     decimal.Zero,
		TotalNocional:    decimal.Zero,
		GuaranteeUsed:    decimal.Zero,
	}

	if len(entries) > 0 {
		sorted := make([]models.CashFlowEntry, len(entries))
		copy(sorted, entries)
		SortEntries(sorted)
		s.CurrentBalance = sorted[len(sorted)-1].Balance
	}

	guaranteeFromAssets := decimal.Zero
	for i := range assets {
		value := assets[i].MarketValue()
		switch assets[i].Type {
		case models.AssetTypeStock:
			s.StockValue = s.StockValue.Add(value)
		case models.AssetTypeFixedIncome:
			s.FixedIncomeValue = s.FixedIncomeValue.Add(value)
		case models.AssetTypeOptions:
			s.OptionsValue = s.OptionsValue.Add(value)
		case models.AssetTypeFutures:
			s.FuturesValue = s.FuturesValue.Add(value)
		}
		guaranteeFromAssets = guaranteeFromAssets.Add(value.Mul(assets[i].GuaranteeReleased))
	}

	structureStockGuarantee := decimal.Zero
	for i := range structures {
		if structures[i].Status != models.StructureStatusActive {
			continue
		}
		s.TotalNocional = s.TotalNocional.Add(NotionalExposure(structures[i].Legs))
		s.GuaranteeUsed = s.GuaranteeUsed.Add(MarginInUse(structures[i].Legs))

		for j := range structures[i].Legs {
			leg := &structures[i].Legs[j]
			if leg.Kind == models.LegKindStock && leg.Side == models.LegSideLong {
				structureStockGuarantee = structureStockGuarantee.Add(
					leg.EntryPrice.Mul(leg.Quantity).Mul(stockGuaranteeRate))
			}
		}
	}

	s.TotalInvested = s.FixedIncomeValue.Abs().
		Add(s.StockValue.Abs()).
		Add(s.OptionsValue.Abs()).
		Add(s.FuturesValue.Abs())

	custodyTotal := s.StockValue.Add(s.FixedIncomeValue).Add(s.OptionsValue).Add(s.FuturesValue)
	s.TotalBalance = s.CurrentBalance.Add(custodyTotal)

	available := guaranteeFromAssets.
		Add(structureStockGuarantee).
		Add(decimal.Max(decimal.Zero, s.CurrentBalance)).
		Sub(s.GuaranteeUsed)
	s.GuaranteeAvailable = decimal.Max(decimal.Zero, available)

	return s
}
