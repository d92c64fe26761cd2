// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("leg_kind", validateLegKind)
		_ = v.RegisterValidation("leg_side", validateLegSide)
		_ = v.RegisterValidation("structure_status", validateStructureStatus)
		_ = v.RegisterValidation("asset_type", validateAssetType)
		_ = v.RegisterValidation("cash_flow_type", validateCashFlowType)
		_ = v.RegisterValidation("roll_action", validateRollAction)
	}
}

func validateLegKind(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "call", "put", "stock", "future":
		return true
	}
	return false
}

func validateLegSide(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "long", "short":
		return true
	}
	return false
}

func validateStructureStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "building", "active", "closed", "finalized":
		return true
	}
	return false
}

func validateAssetType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "stock", "fixed_income", "options", "futures":
		return true
	}
	return false
}

func validateCashFlowType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "deposit", "withdrawal", "structure_cost", "premium", "roll_cost",
		"exercise_cost", "brokerage", "tax", "profit":
		return true
	}
	return false
}

func validateRollAction(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "roll", "keep":
		return true
	}
	return false
}
