package api

import (
	"errors"
	"math"

	"github.com/fibermonitor/fibermonitor/pkg/fiber"
	"github.com/fibermonitor/fibermonitor/pkg/form"
)

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

// ZoneResponse is one row of GET /api/v1/zones.
type ZoneResponse struct {
	Zone           fiber.Zone `json:"zone"`
	Label          string     `json:"label"`
	Lower          float64    `json:"lower"`
	LowerInclusive bool       `json:"lower_inclusive"`
	Upper          *float64   `json:"upper"` // null for the open-ended top band
	UpperInclusive bool       `json:"upper_inclusive"`
	Interpretation string     `json:"interpretation"`
}

// SessionResponse is the payload for the /api/v1/sessions/{id} endpoints.
// Assessment is null until the first accepted submission and after a reset.
type SessionResponse struct {
	ID         string            `json:"id"`
	Assessment *fiber.Assessment `json:"assessment"`
	UpdatedAt  string            `json:"updated_at"` // RFC3339
}

// ErrorResponse is the JSON error body. Kind, Field and Hint are set for
// validation failures only.
type ErrorResponse struct {
	Error string    `json:"error"`
	Kind  form.Kind `json:"kind,omitempty"`
	Field string    `json:"field,omitempty"`
	Hint  string    `json:"hint,omitempty"`
}

// NewErrorResponse converts err into its JSON body.
func NewErrorResponse(err error) ErrorResponse {
	var verr *form.ValidationError
	if errors.As(err, &verr) {
		return ErrorResponse{
			Error: verr.Message,
			Kind:  verr.Kind,
			Field: verr.Field,
			Hint:  verr.Hint(),
		}
	}
	return ErrorResponse{Error: err.Error()}
}

// toZoneResponses maps the engine's band table to its JSON form.
func toZoneResponses(bands []fiber.Band) []ZoneResponse {
	out := make([]ZoneResponse, 0, len(bands))
	for _, b := range bands {
		zr := ZoneResponse{
			Zone:           b.Zone,
			Label:          b.Label,
			Lower:          b.Lower,
			LowerInclusive: b.LowerInclusive,
			UpperInclusive: b.UpperInclusive,
			Interpretation: b.Zone.Interpretation(),
		}
		if !math.IsInf(b.Upper, 1) {
			upper := b.Upper
			zr.Upper = &upper
		}
		out = append(out, zr)
	}
	return out
}
