package valuation

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"opcoes/internal/models"
)

// RollAction is the per-leg decision when rolling a structure.
type RollAction string

const (
	RollActionRoll RollAction = "roll"
	RollActionKeep RollAction = "keep"
)

// RollDecision carries the user input for one leg of a roll: whether the
// leg is rolled or kept, the exit price used to close it, and the
// replacement leg data when rolled.
type RollDecision struct {
	LegID         string          `json:"leg_id"`
	Action        RollAction      `json:"action"`
	ExitPrice     decimal.Decimal `json:"exit_price"`
	NewStrike     decimal.Decimal `json:"new_strike"`
	NewPremium    decimal.Decimal `json:"new_premium"`
	NewExpiration *time.Time      `json:"new_expiration,omitempty"`
}

// RollSummary is the computed outcome of a roll before commit.
type RollSummary struct {
	RealizedProfit decimal.Decimal `json:"realized_profit"`
	RepurchaseCost decimal.Decimal `json:"repurchase_cost"`
	TotalCost      decimal.Decimal `json:"total_cost"`
}

// FieldError is one structured validation failure, keyed by the leg and
// field it concerns.
type FieldError struct {
	LegID   string `json:"leg_id,omitempty"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors aggregates every problem found before a commit is
// attempted, one line per missing field per leg.
type ValidationErrors []FieldError

// Error implements the error interface.
func (v ValidationErrors) Error() string {
	lines := make([]string, len(v))
	for i, fe := range v {
		if fe.LegID != "" {
			lines[i] = fmt.Sprintf("leg %s: %s: %s", fe.LegID, fe.Field, fe.Message)
		} else {
			lines[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
		}
	}
	return strings.Join(lines, "; ")
}

// ValidateRoll checks that at least one leg is marked to roll and that
// every rolled leg has complete replacement data. All problems are
// collected before returning; a nil result means the roll may commit.
func ValidateRoll(legs models.LegList, decisions []RollDecision) ValidationErrors {
	var errs ValidationErrors

	rolled := 0
	for _, d := range decisions {
		if d.Action != RollActionRoll {
			continue
		}
		rolled++

		if legs.FindByID(d.LegID) == nil {
			errs = append(errs, FieldError{LegID: d.LegID, Field: "leg_id", Message: "leg not found in structure"})
			continue
		}
		if !d.NewStrike.IsPositive() {
			errs = append(errs, FieldError{LegID: d.LegID, Field: "new_strike", Message: "new strike must be greater than zero"})
		}
		if !d.NewPremium.IsPositive() {
			errs = append(errs, FieldError{LegID: d.LegID, Field: "new_premium", Message: "new premium must be greater than zero"})
		}
		if d.NewExpiration == nil {
			errs = append(errs, FieldError{LegID: d.LegID, Field: "new_expiration", Message: "new expiration is required"})
		}
	}

	if rolled == 0 {
		errs = append(errs, FieldError{Field: "decisions", Message: "at least one leg must be marked to roll"})
	}

	return errs
}

// ComputeRoll computes realized profit, repurchase cost, and total roll
// cost for the rolled legs.
//
// Realized profit per rolled leg: long (exit - premium) x qty, short
// (premium - exit) x qty. Repurchase cost counts short legs being closed
// at exit x qty. Total cost = brokerage + repurchase + repurchase x
// emolument rate.
func ComputeRoll(legs models.LegList, decisions []RollDecision, brokerage, emolumentRate decimal.Decimal) RollSummary {
	profit := decimal.Zero
	repurchase := decimal.Zero

	for _, d := range decisions {
		if d.Action != RollActionRoll {
			continue
		}
		leg := legs.FindByID(d.LegID)
		if leg == nil {
			continue
		}

		if leg.Side == models.LegSideLong {
			profit = profit.Add(d.ExitPrice.Sub(leg.Premium).Mul(leg.Quantity))
		} else {
			profit = profit.Add(leg.Premium.Sub(d.ExitPrice).Mul(leg.Quantity))
			repurchase = repurchase.Add(d.ExitPrice.Mul(leg.Quantity))
		}
	}

	total := brokerage.Add(repurchase).Add(repurchase.Mul(emolumentRate))
	return RollSummary{
		RealizedProfit: profit,
		RepurchaseCost: repurchase,
		TotalCost:      total,
	}
}

// ReplaceLegs builds the structure's legs after a roll: rolled legs are
// replaced by id with the decision's new strike/premium/expiration, kept
// legs pass through unchanged.
func ReplaceLegs(legs models.LegList, decisions []RollDecision) models.LegList {
	byID := make(map[string]*RollDecision, len(decisions))
	for i := range decisions {
		if decisions[i].Action == RollActionRoll {
			byID[decisions[i].LegID] = &decisions[i]
		}
	}

	next := make(models.LegList, 0, len(legs))
	for _, leg := range legs {
		if d, ok := byID[leg.ID]; ok {
			leg.Strike = d.NewStrike
			leg.Premium = d.NewPremium
			leg.Expiration = d.NewExpiration
		}
		next = append(next, leg)
	}
	return next
}
