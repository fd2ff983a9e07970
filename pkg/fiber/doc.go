// Package fiber is the fiber assessment engine.
//
// Compute(UserInput) derives a suggested daily fiber target from age and sex
// (optionally blended with a calorie-based estimate of 14 g per 1000 kcal),
// compares current intake against it, and returns an Assessment carrying the
// target breakdown, the zone, a fixed interpretation and an ordered tip list.
//
// Baseline targets (g/day):
//
//	sex     age<50  age>=50
//	male      38      30
//	female    25      21
//	other     30      25
//
// The suggested target is clamped to [18, 45] g and rounded half up before
// the ratio is taken. Zones are evaluated over an ordered band table:
// low <0.60, slightlyLow <0.80, within <=1.20, above <=1.60, wellAbove.
//
// The engine assumes already-validated input (see package form) and has no
// error path. It holds no state; every call is independent.
package fiber
