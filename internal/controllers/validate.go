package controllers

import (
	"fmt"
	"strings"

	. "herdview/internal/models"
	"herdview/internal/utils"
)

// Weight sanity ranges per gender, in kilograms. Forms reject values
// outside these before anything is sent upstream.
const (
	femaleWeightMin = 200.0
	femaleWeightMax = 900.0
	maleWeightMin   = 250.0
	maleWeightMax   = 1400.0
)

func ValidateCow(request CowRequest) error {
	if request.Name == "" {
		return Invalid("cow name is required")
	}

	switch request.Gender {
	case GenderFemale:
		if request.Weight < femaleWeightMin || request.Weight > femaleWeightMax {
			return Invalid(fmt.Sprintf("weight for a female cow must be between %.0f and %.0f kg", femaleWeightMin, femaleWeightMax))
		}
	case GenderMale:
		if request.Weight < maleWeightMin || request.Weight > maleWeightMax {
			return Invalid(fmt.Sprintf("weight for a male cow must be between %.0f and %.0f kg", maleWeightMin, maleWeightMax))
		}
	default:
		return Invalid("gender must be Female or Male")
	}

	if request.BirthDate != "" {
		if _, ok := utils.ParseDate(request.BirthDate); !ok {
			return Invalid("birth date is not a recognizable date")
		}
	}

	return nil
}

// ValidateReproduction enforces date-range sanity: every later stage of
// a reproduction record must be on or after insemination, and the
// calving estimate cannot precede the pregnancy check.
func ValidateReproduction(request ReproductionRequest) error {
	insemination, ok := utils.ParseDate(request.InseminationDate)
	if !ok {
		return Invalid("insemination date is required and must be a valid date")
	}

	ordered := []struct {
		label string
		value string
	}{
		{"pregnancy check date", request.PregnancyCheckDate},
		{"estimated calving date", request.EstimatedCalvingDate},
		{"calving date", request.CalvingDate},
	}

	for _, field := range ordered {
		if field.value == "" {
			continue
		}
		parsed, ok := utils.ParseDate(field.value)
		if !ok {
			return Invalid(field.label + " is not a recognizable date")
		}
		if parsed.Before(insemination) {
			return Invalid(field.label + " cannot be before the insemination date")
		}
	}

	if request.PregnancyCheckDate != "" && request.EstimatedCalvingDate != "" {
		check, okA := utils.ParseDate(request.PregnancyCheckDate)
		estimate, okB := utils.ParseDate(request.EstimatedCalvingDate)
		if okA && okB && estimate.Before(check) {
			return Invalid("estimated calving date cannot be before the pregnancy check date")
		}
	}

	return nil
}

func ValidateSale(request SalesRequest) error {
	if request.Quantity <= 0 {
		return Invalid("quantity must be positive")
	}
	if request.PricePerUnit <= 0 {
		return Invalid("price per unit must be positive")
	}
	if _, ok := utils.ParseDate(request.Date); !ok {
		return Invalid("transaction date is required and must be a valid date")
	}
	return nil
}

// ValidateUser checks a staff-account mutation. A new account needs an
// initial password; an update may leave it blank to keep the stored one.
func ValidateUser(request UserRequest, creating bool) error {
	if request.Name == "" {
		return Invalid("name is required")
	}
	if !strings.Contains(request.Email, "@") {
		return Invalid("a valid email address is required")
	}
	if creating && request.Password == "" {
		return Invalid("an initial password is required")
	}
	if request.Password != "" && len(request.Password) < 8 {
		return Invalid("the password must be at least 8 characters")
	}
	if !Role(request.RoleID).Valid() {
		return Invalid("role must be admin, supervisor, or farmer")
	}
	return nil
}

func ValidateMilkYield(request MilkYieldRequest) error {
	if request.CowID <= 0 {
		return Invalid("a cow is required")
	}
	if request.Liters <= 0 {
		return Invalid("yield must be positive")
	}
	if _, ok := utils.ParseDate(request.Date); !ok {
		return Invalid("date is required and must be a valid date")
	}
	return nil
}
