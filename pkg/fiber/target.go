package fiber

import "math"

// Target band limits in g/day.
const (
	MinTarget = 18
	MaxTarget = 45
)

// gramsPer1000Kcal is the calorie-based density guideline.
const gramsPer1000Kcal = 14.0

// olderAdultAge is the first age that uses the lower baseline column.
const olderAdultAge = 50

// baselines maps sex to the {under 50, 50 and over} baseline pair.
var baselines = map[Sex][2]int{
	SexMale:   {38, 30},
	SexFemale: {25, 21},
	SexOther:  {30, 25},
}

// TargetBreakdown holds the numbers behind the suggested target.
type TargetBreakdown struct {
	// BaselineTarget is the age/sex guideline in g/day.
	BaselineTarget int `json:"baseline_target"`

	// CalBasedTarget is calories/1000 × 14 rounded for display.
	// Nil when no calorie estimate was given.
	CalBasedTarget *int `json:"cal_based_target"`

	// SuggestedTarget is the blended target, clamped to [18, 45] and rounded.
	SuggestedTarget int `json:"suggested_target"`

	// Ratio is CurrentFiber / SuggestedTarget rounded to two decimals.
	Ratio float64 `json:"ratio"`
}

// Baseline returns the age/sex guideline target in g/day.
// Unknown sex values fall back to the "other" row.
func Baseline(age int, sex Sex) int {
	row, ok := baselines[sex]
	if !ok {
		row = baselines[SexOther]
	}
	if age < olderAdultAge {
		return row[0]
	}
	return row[1]
}

// CalorieTarget returns the unrounded calorie-based target and true when
// calories is positive.
func CalorieTarget(calories float64) (float64, bool) {
	if calories <= 0 {
		return 0, false
	}
	return calories / 1000 * gramsPer1000Kcal, true
}

// SuggestedTarget blends baseline with the optional calorie-based target,
// clamps the result to [MinTarget, MaxTarget] and rounds half up.
func SuggestedTarget(baseline int, calBased float64, hasCalBased bool) int {
	target := float64(baseline)
	if hasCalBased {
		target = (target + calBased) / 2
	}
	return roundHalfUp(clamp(target, MinTarget, MaxTarget))
}

// Target computes the full breakdown for in. The ratio is always taken
// against the clamped, rounded suggested target.
func Target(in UserInput) TargetBreakdown {
	baseline := Baseline(in.Age, in.Sex)
	calBased, hasCal := CalorieTarget(in.Calories)
	suggested := SuggestedTarget(baseline, calBased, hasCal)

	tb := TargetBreakdown{
		BaselineTarget:  baseline,
		SuggestedTarget: suggested,
		Ratio:           round2(ratio(in.CurrentFiber, suggested)),
	}
	if hasCal {
		rounded := roundHalfUp(calBased)
		tb.CalBasedTarget = &rounded
	}
	return tb
}

// ratio is the unrounded intake-to-target ratio.
func ratio(current float64, target int) float64 {
	return current / float64(target)
}

// roundHalfUp rounds v to the nearest integer, with .5 going up.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// round2 rounds v to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
