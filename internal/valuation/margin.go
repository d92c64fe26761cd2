// Package valuation contains the pure calculation functions behind the
// dashboard: margin requirements, notional exposure, roll cost/profit,
// exercise payoff, and treasury balance composition. Everything here is a
// stateless reduction over stored rows; nothing is cached or incremental.
package valuation

import (
	"github.com/shopspring/decimal"

	"opcoes/internal/models"
)

// Default margin percentages for short legs without a custom override.
var (
	defaultOptionMargin = decimal.NewFromFloat(0.15)
	defaultStockMargin  = decimal.NewFromInt(1)
)

// marginBase returns the price a short leg's margin is computed against:
// strike for options, entry price for stock, spot for futures.
func marginBase(leg *models.OptionLeg) decimal.Decimal {
	switch leg.Kind {
	case models.LegKindStock:
		return leg.EntryPrice
	case models.LegKindFuture:
		return leg.SpotPrice
	default:
		return leg.Strike
	}
}

// marginRate returns the margin percentage for a short leg.
func marginRate(leg *models.OptionLeg) decimal.Decimal {
	if leg.MarginPct != nil {
		return *leg.MarginPct
	}
	if leg.Kind == models.LegKindStock {
		return defaultStockMargin
	}
	return defaultOptionMargin
}

// MarginInUse computes the capital set aside as collateral for the short
// legs of a structure. Long legs contribute nothing and there is no
// netting between long and short positions.
func MarginInUse(legs models.LegList) decimal.Decimal {
	total := decimal.Zero
	for i := range legs {
		leg := &legs[i]
		if leg.Side != models.LegSideShort {
			continue
		}
		total = total.Add(marginBase(leg).Mul(leg.Quantity).Mul(marginRate(leg)))
	}
	return total
}

// LegNotional returns the absolute market value of exposure one leg
// represents: entry price for stock, strike for options, spot for futures,
// each times quantity.
func LegNotional(leg *models.OptionLeg) decimal.Decimal {
	var base decimal.Decimal
	switch leg.Kind {
	case models.LegKindStock:
		base = leg.EntryPrice
	case models.LegKindFuture:
		base = leg.SpotPrice
	default:
		base = leg.Strike
	}
	return base.Mul(leg.Quantity).Abs()
}

// NotionalExposure sums the absolute notional of every leg. All terms are
// absolute values, so the result is monotone in any leg's quantity or
// price magnitude.
func NotionalExposure(legs models.LegList) decimal.Decimal {
	total := decimal.Zero
	for i := range legs {
		total = total.Add(LegNotional(&legs[i]))
	}
	return total
}
