package form

import (
	"math"
	"strconv"
	"strings"

	"github.com/fibermonitor/fibermonitor/pkg/fiber"
)

// Input limits enforced before the engine runs.
const (
	MinAge = 16
	// MaxAge rejects implausible ages and keeps the int conversion safe.
	MaxAge = 130

	// MinCalories is the exclusive lower bound for a calorie estimate.
	MinCalories = 600
)

// Defaults applied when a select field is left empty.
const (
	DefaultSex         = fiber.SexFemale
	DefaultFruitVeg    = fiber.FrequencySome
	DefaultWholeGrains = fiber.FrequencySome
)

// Parse validates s and returns the corresponding UserInput.
// The returned error is always a *ValidationError.
func Parse(s Submission) (fiber.UserInput, error) {
	age, ok := parseNumber(s.Age)
	if !ok || age < MinAge || age != math.Trunc(age) {
		return fiber.UserInput{}, invalidAge()
	}
	if age > MaxAge {
		return fiber.UserInput{}, invalidAgeAboveMax()
	}

	var calories float64
	if s.Calories.String() != "" {
		calories, ok = parseNumber(s.Calories)
		if !ok || calories <= MinCalories {
			return fiber.UserInput{}, invalidCalories()
		}
	}

	current, ok := parseNumber(s.CurrentFiber)
	if !ok || current <= 0 {
		return fiber.UserInput{}, invalidFiber()
	}

	sex := fiber.Sex(choice(s.Sex, string(DefaultSex)))
	if !sex.Valid() {
		return fiber.UserInput{}, invalidChoice(FieldSex, string(sex))
	}
	fruitVeg := fiber.Frequency(choice(s.FruitVeg, string(DefaultFruitVeg)))
	if !fruitVeg.Valid() {
		return fiber.UserInput{}, invalidChoice(FieldFruitVeg, string(fruitVeg))
	}
	wholeGrains := fiber.Frequency(choice(s.WholeGrains, string(DefaultWholeGrains)))
	if !wholeGrains.Valid() {
		return fiber.UserInput{}, invalidChoice(FieldWholeGrains, string(wholeGrains))
	}

	return fiber.UserInput{
		Age:          int(age),
		Sex:          sex,
		Calories:     calories,
		CurrentFiber: current,
		FruitVeg:     fruitVeg,
		WholeGrains:  wholeGrains,
	}, nil
}

// Assess validates s and, only if it passes, computes its assessment.
func Assess(s Submission) (fiber.Assessment, error) {
	in, err := Parse(s)
	if err != nil {
		return fiber.Assessment{}, err
	}
	return fiber.Compute(in), nil
}

// parseNumber parses a finite decimal number. Empty, malformed, NaN and
// infinite values report false.
func parseNumber(v Value) (float64, bool) {
	s := v.String()
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func choice(v Value, def string) string {
	s := strings.ToLower(v.String())
	if s == "" {
		return def
	}
	return s
}
