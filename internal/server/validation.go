package server

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/sahu-SuMiT/WeNews/internal/label"
)

// registerValidators installs the custom binding tags for admin label
// payloads. Unlock conditions arrive as free-form JSON; the tags keep
// unknown metric types and comparison operators out of the database.
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterValidation("condition_type", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case label.ConditionLoginStreak,
			label.ConditionTotalEarnings,
			label.ConditionLevel,
			label.ConditionReferrals,
			label.ConditionNewsRead:
			return true
		}
		return false
	})

	v.RegisterValidation("condition_operator", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "", "gte", "lte", "eq", "gt", "lt":
			return true
		}
		return false
	})
}
