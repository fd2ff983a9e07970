// Package form turns raw form submissions into validated fiber.UserInput
// values.
//
// Parse runs the precondition checks the assessment engine relies on, in a
// fixed order (age, calories, current fiber, then the select options) and
// reports the first failure as a *ValidationError. Callers that only need the
// final result use Assess, which never hands a rejected submission to the
// engine.
//
// Error kinds and their sentinels (match with errors.Is):
//	InvalidAge              ErrInvalidAge              "invalid age"
//	InvalidCalorieEstimate  ErrInvalidCalorieEstimate  "unrealistic calorie estimate"
//	InvalidFiberIntake      ErrInvalidFiberIntake      "invalid fiber intake"
//	InvalidChoice           ErrInvalidChoice           unknown sex or frequency option
package form
