package profile

import (
	"github.com/shopspring/decimal"
)

// Gender selects the bonus coefficient used by the daily target formula.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

// Unit is the display unit for volumes. Storage is always milliliters.
type Unit string

const (
	UnitML Unit = "ml"
	UnitOZ Unit = "oz"
)

var mlPerFluidOunce = decimal.RequireFromString("29.5735")

// Profile is the single user's water tracking configuration.
type Profile struct {
	Name     string          `json:"name"`
	Unit     Unit            `json:"unit"`
	TargetML int             `json:"target_ml"`
	HeightCM int             `json:"height_cm"`
	WeightKG decimal.Decimal `json:"weight_kg"`
	AgeYears int             `json:"age_years"`
	Gender   Gender          `json:"gender"`
}

// Equal reports whether two profiles hold the same values. Weights are
// compared numerically.
func (p Profile) Equal(o Profile) bool {
	return p.Name == o.Name &&
		p.Unit == o.Unit &&
		p.TargetML == o.TargetML &&
		p.HeightCM == o.HeightCM &&
		p.WeightKG.Equal(o.WeightKG) &&
		p.AgeYears == o.AgeYears &&
		p.Gender == o.Gender
}

// Valid reports whether g is a known gender.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

func (g Gender) bonus() decimal.Decimal {
	switch g {
	case GenderMale:
		return decimal.RequireFromString("0.25")
	case GenderFemale:
		return decimal.RequireFromString("0.1")
	default:
		return decimal.RequireFromString("0.15")
	}
}

// Valid reports whether u is a known unit.
func (u Unit) Valid() bool {
	return u == UnitML || u == UnitOZ
}

// FromML converts a milliliter volume into u, rounded to two places.
func (u Unit) FromML(ml int) decimal.Decimal {
	v := decimal.NewFromInt(int64(ml))
	if u == UnitOZ {
		return v.Div(mlPerFluidOunce).Round(2)
	}
	return v
}

// ComputeDailyTarget returns the recommended daily intake in milliliters:
// ((0.035*w)+(0.002*h)-(0.0002*a)+bonus)*1000, rounded half away from zero.
func ComputeDailyTarget(heightCM int, weightKG decimal.Decimal, ageYears int, gender Gender) int {
	liters := decimal.RequireFromString("0.035").Mul(weightKG).
		Add(decimal.RequireFromString("0.002").Mul(decimal.NewFromInt(int64(heightCM)))).
		Sub(decimal.RequireFromString("0.0002").Mul(decimal.NewFromInt(int64(ageYears)))).
		Add(gender.bonus())
	return int(liters.Mul(decimal.NewFromInt(1000)).Round(0).IntPart())
}
