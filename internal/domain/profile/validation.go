package profile

import (
	"fmt"
	"strings"
)

// Validate checks the invariants every stored profile must hold.
func Validate(p Profile) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !p.Unit.Valid() {
		return fmt.Errorf("%w: unit must be ml or oz", ErrInvalidInput)
	}
	if p.TargetML <= 0 {
		return fmt.Errorf("%w: daily target must be greater than 0 ml", ErrInvalidInput)
	}
	if p.HeightCM < 0 || p.AgeYears < 0 || p.WeightKG.IsNegative() {
		return fmt.Errorf("%w: body measurements cannot be negative", ErrInvalidInput)
	}
	if p.Gender != "" && !p.Gender.Valid() {
		return fmt.Errorf("%w: gender must be one of MALE, FEMALE, OTHER", ErrInvalidInput)
	}
	return nil
}

func validateSaveRequest(req SaveRequest) error {
	if req.TargetML < 0 {
		return fmt.Errorf("%w: daily target must be greater than 0 ml", ErrInvalidInput)
	}
	if req.TargetML > 0 {
		return nil
	}
	// Without an explicit target every formula input is required.
	if req.HeightCM <= 0 {
		return fmt.Errorf("%w: height must be greater than 0 cm", ErrInvalidInput)
	}
	if !req.WeightKG.IsPositive() {
		return fmt.Errorf("%w: weight must be greater than 0 kg", ErrInvalidInput)
	}
	if req.AgeYears <= 0 {
		return fmt.Errorf("%w: age must be greater than 0 years", ErrInvalidInput)
	}
	if !Gender(strings.ToUpper(string(req.Gender))).Valid() {
		return fmt.Errorf("%w: gender must be one of MALE, FEMALE, OTHER", ErrInvalidInput)
	}
	return nil
}
