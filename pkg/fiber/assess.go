package fiber

// Assessment is the result of one Compute call. It is built fresh on every
// call and never modified afterwards.
type Assessment struct {
	Input          UserInput       `json:"input"`
	Target         TargetBreakdown `json:"target"`
	Zone           Zone            `json:"zone"`
	ZoneLabel      string          `json:"zone_label"`
	Interpretation string          `json:"interpretation"`
	Tips           []string        `json:"tips"`
}

// Compute assesses a validated submission.
//
// The zone is classified on the exact intake/target ratio; the ratio stored
// in Target is the same value rounded to two decimals for display.
func Compute(in UserInput) Assessment {
	target := Target(in)
	zone := Classify(ratio(in.CurrentFiber, target.SuggestedTarget))

	return Assessment{
		Input:          in,
		Target:         target,
		Zone:           zone,
		ZoneLabel:      zone.Label(),
		Interpretation: zone.Interpretation(),
		Tips:           Tips(zone, in.FruitVeg, in.WholeGrains),
	}
}
