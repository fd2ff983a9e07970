package fiber

// Sex selects the baseline row of the target table.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
	SexOther  Sex = "other"
)

// Valid reports whether s is one of the known options.
func (s Sex) Valid() bool {
	switch s {
	case SexMale, SexFemale, SexOther:
		return true
	}
	return false
}

// Frequency is a coarse "how often" answer used for both fruit/vegetable
// servings and whole-grain choices.
type Frequency string

const (
	FrequencyLittle Frequency = "little"
	FrequencySome   Frequency = "some"
	FrequencyPlenty Frequency = "plenty"
)

// Valid reports whether f is one of the known options.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyLittle, FrequencySome, FrequencyPlenty:
		return true
	}
	return false
}

// UserInput is one validated form submission.
type UserInput struct {
	// Age in whole years, at least 16.
	Age int `json:"age"`

	Sex Sex `json:"sex"`

	// Calories is the typical daily energy intake in kcal.
	// Zero means the user did not provide one.
	Calories float64 `json:"calories,omitempty"`

	// CurrentFiber is the estimated current intake in g/day, always positive.
	CurrentFiber float64 `json:"current_fiber"`

	FruitVeg    Frequency `json:"fruit_veg"`
	WholeGrains Frequency `json:"whole_grains"`
}

// HasCalories reports whether a calorie estimate was supplied.
func (in UserInput) HasCalories() bool {
	return in.Calories > 0
}
