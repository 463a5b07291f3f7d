package carbon

// Grade is the letter rating summarizing a site's savings-to-emissions ratio.
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
)

// EfficiencyPercent returns savings as a percentage of emissions. Zero
// emissions yield zero; the grade handles that case separately.
func EfficiencyPercent(totalEmissions, totalSavings float64) float64 {
	if totalEmissions == 0 {
		return 0
	}
	return totalSavings / totalEmissions * 100
}

// EfficiencyGrade rates the savings-to-emissions ratio. A site with no
// recorded emissions grades A+ regardless of savings, including zero savings.
func EfficiencyGrade(totalEmissions, totalSavings float64) Grade {
	if totalEmissions == 0 {
		return GradeAPlus
	}

	efficiency := EfficiencyPercent(totalEmissions, totalSavings)
	switch {
	case efficiency >= 50:
		return GradeA
	case efficiency >= 30:
		return GradeB
	case efficiency >= 10:
		return GradeC
	default:
		return GradeD
	}
}
