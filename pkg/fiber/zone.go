package fiber

import "math"

// Zone bands current intake relative to the suggested target.
type Zone string

const (
	ZoneLow         Zone = "low"
	ZoneSlightlyLow Zone = "slightlyLow"
	ZoneWithin      Zone = "within"
	ZoneAbove       Zone = "above"
	ZoneWellAbove   Zone = "wellAbove"
)

// Ratio thresholds separating the zones.
const (
	ThresholdSlightlyLow = 0.60
	ThresholdWithin      = 0.80
	ThresholdAbove       = 1.20
	ThresholdWellAbove   = 1.60
)

type zoneText struct {
	label          string
	interpretation string
}

var zoneTexts = map[Zone]zoneText{
	ZoneLow: {
		label: "Well Below Suggested Range",
		interpretation: "Your estimated intake is well below this simple fiber target. " +
			"Many people feel better digestive-wise and hunger-wise when they gradually work closer to the suggested range.",
	},
	ZoneSlightlyLow: {
		label: "Slightly Below Range",
		interpretation: "You’re not far below the suggested band. A few small tweaks—like one extra fruit/veg serving or swapping in a higher-fiber grain—" +
			"may be enough to bring you into range.",
	},
	ZoneWithin: {
		label: "Within Suggested Range",
		interpretation: "Your current intake sits inside the suggested band. That doesn’t mean it’s perfect, " +
			"but it’s roughly consistent with common fiber guidelines for many adults.",
	},
	ZoneAbove: {
		label: "Above Suggested Range",
		interpretation: "You’re somewhat above this suggested range. If you feel good (no major bloating or discomfort) and drink enough fluids, " +
			"this may be fine for you.",
	},
	ZoneWellAbove: {
		label: "Well Above Suggested Range",
		interpretation: "You’re well above this rough band. Some people prefer very high fiber, but for others it can cause bloating or discomfort—" +
			"especially if fluids are low or increases were sudden.",
	},
}

// Label returns the display label for z, or "" for an unknown zone.
func (z Zone) Label() string {
	return zoneTexts[z].label
}

// Interpretation returns the fixed explanation text for z.
func (z Zone) Interpretation() string {
	return zoneTexts[z].interpretation
}

// Band is one row of the zone table. A ratio belongs to the first band
// (in table order) whose upper bound it does not exceed.
type Band struct {
	Zone           Zone
	Label          string
	Lower          float64
	LowerInclusive bool
	Upper          float64 // +Inf for the last band
	UpperInclusive bool
}

// bands is ordered; each lower bound is the previous band's upper bound.
var bands = []Band{
	{Zone: ZoneLow, Lower: 0, LowerInclusive: true, Upper: ThresholdSlightlyLow},
	{Zone: ZoneSlightlyLow, Lower: ThresholdSlightlyLow, LowerInclusive: true, Upper: ThresholdWithin},
	{Zone: ZoneWithin, Lower: ThresholdWithin, LowerInclusive: true, Upper: ThresholdAbove, UpperInclusive: true},
	{Zone: ZoneAbove, Lower: ThresholdAbove, Upper: ThresholdWellAbove, UpperInclusive: true},
	{Zone: ZoneWellAbove, Lower: ThresholdWellAbove, Upper: math.Inf(1), UpperInclusive: true},
}

// Bands returns a copy of the zone table with labels filled in.
func Bands() []Band {
	out := make([]Band, len(bands))
	for i, b := range bands {
		b.Label = b.Zone.Label()
		out[i] = b
	}
	return out
}

// Contains reports whether ratio falls below (or on, when inclusive) the
// band's upper bound.
func (b Band) Contains(ratio float64) bool {
	if b.UpperInclusive {
		return ratio <= b.Upper
	}
	return ratio < b.Upper
}

// Classify maps a ratio to its zone. Bands are checked in order and the
// first match wins; anything past the table (NaN included) is wellAbove.
func Classify(ratio float64) Zone {
	for _, b := range bands {
		if b.Contains(ratio) {
			return b.Zone
		}
	}
	return ZoneWellAbove
}
