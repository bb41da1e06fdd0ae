package profile

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestComputeDailyTarget(t *testing.T) {
	require.Equal(t, 3404, ComputeDailyTarget(180, decimal.NewFromInt(80), 30, GenderMale))
	// 0.035*60 + 0.002*165 - 0.0002*25 + 0.1 = 2.525
	require.Equal(t, 2525, ComputeDailyTarget(165, decimal.NewFromInt(60), 25, GenderFemale))
	// 0.035*72.5 + 0.002*175 - 0.0002*40 + 0.15 = 3.0295
	require.Equal(t, 3030, ComputeDailyTarget(175, decimal.RequireFromString("72.5"), 40, GenderOther))
}

func TestUnitFromML(t *testing.T) {
	require.True(t, UnitML.FromML(500).Equal(decimal.NewFromInt(500)))
	require.Equal(t, "16.91", UnitOZ.FromML(500).StringFixed(2))
}

func TestProfileEqualComparesWeightNumerically(t *testing.T) {
	a := Profile{Name: "Alice", Unit: UnitML, TargetML: 2000, WeightKG: decimal.RequireFromString("80.50")}
	b := a
	b.WeightKG = decimal.RequireFromString("80.5")
	require.True(t, a.Equal(b))

	b.TargetML = 2100
	require.False(t, a.Equal(b))
}
