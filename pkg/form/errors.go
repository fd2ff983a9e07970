package form

import (
	"errors"
	"fmt"
)

// Kind identifies which precondition a submission failed.
type Kind string

const (
	KindInvalidAge             Kind = "InvalidAge"
	KindInvalidCalorieEstimate Kind = "InvalidCalorieEstimate"
	KindInvalidFiberIntake     Kind = "InvalidFiberIntake"
	KindInvalidChoice          Kind = "InvalidChoice"
)

// Sentinel errors wrapped by every *ValidationError of the matching kind.
var (
	ErrInvalidAge             = errors.New("invalid age")
	ErrInvalidCalorieEstimate = errors.New("unrealistic calorie estimate")
	ErrInvalidFiberIntake     = errors.New("invalid fiber intake")
	ErrInvalidChoice          = errors.New("invalid choice")
)

var hints = map[Kind]string{
	KindInvalidAge:             "Please enter a valid age (16+).",
	KindInvalidCalorieEstimate: "If you enter calories, please use a realistic daily estimate (e.g. 1400–3500 kcal).",
	KindInvalidFiberIntake:     "Please enter your current daily fiber intake in grams.",
	KindInvalidChoice:          "Please pick one of the listed options.",
}

// ValidationError reports the first field that failed validation.
type ValidationError struct {
	Kind    Kind
	Field   string
	Message string
	hint    string // overrides the kind's default hint
	err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.err
}

// Hint returns the prompt shown to the user next to the form.
func (e *ValidationError) Hint() string {
	if e.hint != "" {
		return e.hint
	}
	return hints[e.Kind]
}

func invalidAge() *ValidationError {
	return &ValidationError{Kind: KindInvalidAge, Field: FieldAge, Message: ErrInvalidAge.Error(), err: ErrInvalidAge}
}

// ageAboveMaxHint replaces the "(16+)" prompt, which reads as if any larger
// number were fine.
var ageAboveMaxHint = fmt.Sprintf("Please enter your age in years (%d to %d).", MinAge, MaxAge)

func invalidAgeAboveMax() *ValidationError {
	e := invalidAge()
	e.hint = ageAboveMaxHint
	return e
}

func invalidCalories() *ValidationError {
	return &ValidationError{Kind: KindInvalidCalorieEstimate, Field: FieldCalories, Message: ErrInvalidCalorieEstimate.Error(), err: ErrInvalidCalorieEstimate}
}

func invalidFiber() *ValidationError {
	return &ValidationError{Kind: KindInvalidFiberIntake, Field: FieldCurrentFiber, Message: ErrInvalidFiberIntake.Error(), err: ErrInvalidFiberIntake}
}

func invalidChoice(field, value string) *ValidationError {
	return &ValidationError{
		Kind:    KindInvalidChoice,
		Field:   field,
		Message: fmt.Sprintf("invalid choice %q for %s", value, field),
		err:     ErrInvalidChoice,
	}
}
