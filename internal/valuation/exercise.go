package valuation

import (
	"github.com/shopspring/decimal"

	"opcoes/internal/models"
)

// ExerciseOutcome is the computed result of exercising the selected
// option legs of a structure.
type ExerciseOutcome struct {
	Legs        []models.ExercisedLeg `json:"legs"`
	TotalCost   decimal.Decimal       `json:"total_cost"`
	TotalResult decimal.Decimal       `json:"total_result"`
}

// intrinsic returns the gross exercise payoff of one option leg at the
// given underlying price, before fees:
//
//	call long   max(0, S-K) x q     put long   max(0, K-S) x q
//	call short -max(0, S-K) x q     put short -max(0, K-S) x q
func intrinsic(leg *models.OptionLeg, exercisePrice decimal.Decimal) decimal.Decimal {
	var gross decimal.Decimal
	switch leg.Kind {
	case models.LegKindCall:
		gross = decimal.Max(decimal.Zero, exercisePrice.Sub(leg.Strike))
	case models.LegKindPut:
		gross = decimal.Max(decimal.Zero, leg.Strike.Sub(exercisePrice))
	default:
		return decimal.Zero
	}
	gross = gross.Mul(leg.Quantity)
	if leg.Side == models.LegSideShort {
		gross = gross.Neg()
	}
	return gross
}

// ComputeExercise computes the payoff of exercising the selected call/put
// legs at the given underlying price. The fee per leg is strike x qty x
// feeRate, subtracted from the leg's payoff. Non-option legs and legs not
// in the selection contribute nothing.
func ComputeExercise(legs models.LegList, selected map[string]bool, exercisePrice, feeRate decimal.Decimal) ExerciseOutcome {
	out := ExerciseOutcome{TotalCost: decimal.Zero, TotalResult: decimal.Zero}

	for i := range legs {
		leg := &legs[i]
		if !selected[leg.ID] || !leg.Kind.IsOption() {
			continue
		}

		fee := leg.Strike.Mul(leg.Quantity).Mul(feeRate)
		result := intrinsic(leg, exercisePrice).Sub(fee)

		out.Legs = append(out.Legs, models.ExercisedLeg{
			LegID:         leg.ID,
			Symbol:        leg.Symbol,
			Kind:          leg.Kind,
			Side:          leg.Side,
			Strike:        leg.Strike,
			Quantity:      leg.Quantity,
			ExercisePrice: exercisePrice,
			Cost:          fee,
			Result:        result,
		})
		out.TotalCost = out.TotalCost.Add(fee)
		out.TotalResult = out.TotalResult.Add(result)
	}

	return out
}
