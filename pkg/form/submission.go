package form

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Value is one raw form field. It decodes from a JSON string, number or null
// and keeps the literal text so that validation sees exactly what was typed.
type Value string

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = Value(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("form: field must be a string or number, got %s", b)
	}
	*v = Value(n.String())
	return nil
}

// String returns the value with surrounding whitespace removed.
func (v Value) String() string {
	return strings.TrimSpace(string(v))
}

// Submission is the raw content of the fiber form.
type Submission struct {
	Age          Value `json:"age"`
	Sex          Value `json:"sex"`
	Calories     Value `json:"calories"`
	CurrentFiber Value `json:"current_fiber"`
	FruitVeg     Value `json:"fruit_veg"`
	WholeGrains  Value `json:"whole_grains"`
}

// Form field names, shared by HTML forms, JSON bodies and error reports.
const (
	FieldAge          = "age"
	FieldSex          = "sex"
	FieldCalories     = "calories"
	FieldCurrentFiber = "current_fiber"
	FieldFruitVeg     = "fruit_veg"
	FieldWholeGrains  = "whole_grains"
)

// FromValues builds a Submission from URL-encoded form values.
func FromValues(vals url.Values) Submission {
	return Submission{
		Age:          Value(vals.Get(FieldAge)),
		Sex:          Value(vals.Get(FieldSex)),
		Calories:     Value(vals.Get(FieldCalories)),
		CurrentFiber: Value(vals.Get(FieldCurrentFiber)),
		FruitVeg:     Value(vals.Get(FieldFruitVeg)),
		WholeGrains:  Value(vals.Get(FieldWholeGrains)),
	}
}
