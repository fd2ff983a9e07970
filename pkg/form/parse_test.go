package form

import (
	"encoding/json"
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/fibermonitor/fibermonitor/pkg/fiber"
)

func valid() Submission {
	return Submission{
		Age:          "30",
		Sex:          "female",
		CurrentFiber: "25",
		FruitVeg:     "some",
		WholeGrains:  "some",
	}
}

func TestParse_Valid(t *testing.T) {
	s := valid()
	s.Calories = "2000"
	got, err := Parse(s)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := fiber.UserInput{
		Age:          30,
		Sex:          fiber.SexFemale,
		Calories:     2000,
		CurrentFiber: 25,
		FruitVeg:     fiber.FrequencySome,
		WholeGrains:  fiber.FrequencySome,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("UserInput mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Defaults(t *testing.T) {
	got, err := Parse(Submission{Age: "40", CurrentFiber: "12.5"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Sex != DefaultSex || got.FruitVeg != DefaultFruitVeg || got.WholeGrains != DefaultWholeGrains {
		t.Errorf("defaults not applied: %+v", got)
	}
	if got.HasCalories() {
		t.Errorf("Calories = %v, want absent", got.Calories)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Submission)
		wantKind Kind
		wantErr  error
		wantMsg  string
	}{
		{"age 15", func(s *Submission) { s.Age = "15" }, KindInvalidAge, ErrInvalidAge, "invalid age"},
		{"age missing", func(s *Submission) { s.Age = "" }, KindInvalidAge, ErrInvalidAge, "invalid age"},
		{"age zero", func(s *Submission) { s.Age = "0" }, KindInvalidAge, ErrInvalidAge, "invalid age"},
		{"age not a number", func(s *Submission) { s.Age = "thirty" }, KindInvalidAge, ErrInvalidAge, "invalid age"},
		{"age fractional", func(s *Submission) { s.Age = "30.5" }, KindInvalidAge, ErrInvalidAge, "invalid age"},
		{"age implausible", func(s *Submission) { s.Age = "400" }, KindInvalidAge, ErrInvalidAge, "invalid age"},
		{"calories 500", func(s *Submission) { s.Calories = "500" }, KindInvalidCalorieEstimate, ErrInvalidCalorieEstimate, "unrealistic calorie estimate"},
		{"calories exactly 600", func(s *Submission) { s.Calories = "600" }, KindInvalidCalorieEstimate, ErrInvalidCalorieEstimate, "unrealistic calorie estimate"},
		{"calories not a number", func(s *Submission) { s.Calories = "lots" }, KindInvalidCalorieEstimate, ErrInvalidCalorieEstimate, "unrealistic calorie estimate"},
		{"calories NaN", func(s *Submission) { s.Calories = "NaN" }, KindInvalidCalorieEstimate, ErrInvalidCalorieEstimate, "unrealistic calorie estimate"},
		{"fiber zero", func(s *Submission) { s.CurrentFiber = "0" }, KindInvalidFiberIntake, ErrInvalidFiberIntake, "invalid fiber intake"},
		{"fiber missing", func(s *Submission) { s.CurrentFiber = "" }, KindInvalidFiberIntake, ErrInvalidFiberIntake, "invalid fiber intake"},
		{"fiber negative", func(s *Submission) { s.CurrentFiber = "-3" }, KindInvalidFiberIntake, ErrInvalidFiberIntake, "invalid fiber intake"},
		{"fiber infinite", func(s *Submission) { s.CurrentFiber = "Inf" }, KindInvalidFiberIntake, ErrInvalidFiberIntake, "invalid fiber intake"},
		{"unknown sex", func(s *Submission) { s.Sex = "robot" }, KindInvalidChoice, ErrInvalidChoice, `invalid choice "robot" for sex`},
		{"unknown fruit/veg", func(s *Submission) { s.FruitVeg = "tons" }, KindInvalidChoice, ErrInvalidChoice, `invalid choice "tons" for fruit_veg`},
		{"unknown whole grains", func(s *Submission) { s.WholeGrains = "none" }, KindInvalidChoice, ErrInvalidChoice, `invalid choice "none" for whole_grains`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := valid()
			tc.mutate(&s)
			_, err := Parse(s)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error %T is not *ValidationError", err)
			}
			if verr.Kind != tc.wantKind {
				t.Errorf("Kind = %q, want %q", verr.Kind, tc.wantKind)
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("errors.Is(%v, %v) = false", err, tc.wantErr)
			}
			if err.Error() != tc.wantMsg {
				t.Errorf("message = %q, want %q", err.Error(), tc.wantMsg)
			}
			if verr.Hint() == "" {
				t.Error("Hint() is empty")
			}
		})
	}
}

func TestParse_AgeHints(t *testing.T) {
	tests := []struct {
		age      string
		wantHint string
	}{
		{"15", "Please enter a valid age (16+)."},
		{"30.5", "Please enter a valid age (16+)."},
		{"131", "Please enter your age in years (16 to 130)."},
		{"400", "Please enter your age in years (16 to 130)."},
	}
	for _, tc := range tests {
		t.Run(tc.age, func(t *testing.T) {
			s := valid()
			s.Age = Value(tc.age)
			_, err := Parse(s)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Parse(age=%q) error = %v, want *ValidationError", tc.age, err)
			}
			if verr.Kind != KindInvalidAge {
				t.Errorf("Kind = %q, want %q", verr.Kind, KindInvalidAge)
			}
			if got := verr.Hint(); got != tc.wantHint {
				t.Errorf("Hint() = %q, want %q", got, tc.wantHint)
			}
		})
	}
}

func TestParse_FirstFailureWins(t *testing.T) {
	s := Submission{Age: "10", Calories: "100", CurrentFiber: "0"}
	_, err := Parse(s)
	if !errors.Is(err, ErrInvalidAge) {
		t.Fatalf("err = %v, want invalid age first", err)
	}

	s.Age = "30"
	_, err = Parse(s)
	if !errors.Is(err, ErrInvalidCalorieEstimate) {
		t.Fatalf("err = %v, want calorie error before fiber error", err)
	}
}

func TestParse_TrimsAndFoldsCase(t *testing.T) {
	got, err := Parse(Submission{Age: " 52 ", Sex: "Male", CurrentFiber: "20 ", FruitVeg: "PLENTY"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Age != 52 || got.Sex != fiber.SexMale || got.FruitVeg != fiber.FrequencyPlenty {
		t.Errorf("unexpected input %+v", got)
	}
}

func TestAssess(t *testing.T) {
	a, err := Assess(Submission{
		Age: "45", Sex: "male", Calories: "2000", CurrentFiber: "15",
		FruitVeg: "little", WholeGrains: "little",
	})
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}
	if a.Zone != fiber.ZoneLow || a.Target.SuggestedTarget != 33 {
		t.Errorf("zone=%q target=%d, want low/33", a.Zone, a.Target.SuggestedTarget)
	}

	if _, err := Assess(Submission{Age: "15", CurrentFiber: "20"}); !errors.Is(err, ErrInvalidAge) {
		t.Errorf("Assess(age=15) err = %v, want invalid age", err)
	}
}

func TestSubmission_JSON(t *testing.T) {
	body := `{"age": 30, "sex": "female", "calories": null, "current_fiber": "18.5", "fruit_veg": "some", "whole_grains": "plenty"}`
	var s Submission
	if err := json.Unmarshal([]byte(body), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := Submission{Age: "30", Sex: "female", CurrentFiber: "18.5", FruitVeg: "some", WholeGrains: "plenty"}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("Submission mismatch (-want +got):\n%s", diff)
	}

	if err := json.Unmarshal([]byte(`{"age": true}`), &s); err == nil {
		t.Error("expected error for boolean age")
	}
}

func TestFromValues(t *testing.T) {
	vals := url.Values{}
	vals.Set("age", "60")
	vals.Set("sex", "other")
	vals.Set("current_fiber", "40")
	vals.Set("fruit_veg", "plenty")
	vals.Set("whole_grains", "plenty")

	a, err := Assess(FromValues(vals))
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}
	if a.Zone != fiber.ZoneAbove || a.Target.Ratio != 1.6 {
		t.Errorf("zone=%q ratio=%v, want above/1.6", a.Zone, a.Target.Ratio)
	}
}
