package carbon

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEfficiencyGradeZeroEmissionsIsAPlus(t *testing.T) {
	require.Equal(t, GradeAPlus, EfficiencyGrade(0, 0))
	require.Equal(t, GradeAPlus, EfficiencyGrade(0, 500))
}

func TestEfficiencyGradeThresholds(t *testing.T) {
	cases := []struct {
		name      string
		emissions float64
		savings   float64
		want      Grade
	}{
		{"sixty percent is A", 100, 60, GradeA},
		{"exactly fifty is A", 100, 50, GradeA},
		{"forty percent is B", 100, 40, GradeB},
		{"exactly thirty is B", 100, 30, GradeB},
		{"twenty percent is C", 100, 20, GradeC},
		{"exactly ten is C", 100, 10, GradeC},
		{"nine percent is D", 100, 9, GradeD},
		{"no savings is D", 100, 0, GradeD},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, EfficiencyGrade(tc.emissions, tc.savings))
		})
	}
}

func TestEfficiencyPercent(t *testing.T) {
	require.Equal(t, 60.0, EfficiencyPercent(100, 60))
	require.Zero(t, EfficiencyPercent(0, 60))
}
