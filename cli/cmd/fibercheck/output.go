package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"

	"github.com/fibermonitor/fibermonitor/pkg/fiber"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

const disclaimer = "This monitor uses simple public guidelines and can't account for individual\n" +
	"medical needs. If you have digestive conditions or are unsure how much fiber\n" +
	"is right for you, follow advice from your healthcare professional or\n" +
	"registered dietitian."

// ui renders command output. The root command binds --no-color to it.
type ui struct {
	noColor bool
}

func (u *ui) colorize(color, text string) string {
	if u.noColor {
		return text
	}
	return color + text + colorReset
}

func (u *ui) printError(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, u.colorize(colorRed, "✗ "+msg))
}

func (u *ui) printStatus(w io.Writer, label string, format string, args ...any) {
	val := fmt.Sprintf(format, args...)
	l := u.colorize(colorBold, label+":")
	fmt.Fprintf(w, "  %s %s\n", l, val)
}

// zoneColor is the badge color of a zone.
func zoneColor(z fiber.Zone) string {
	switch z {
	case fiber.ZoneLow:
		return colorRed
	case fiber.ZoneSlightlyLow, fiber.ZoneWellAbove:
		return colorYellow
	case fiber.ZoneWithin:
		return colorGreen
	default:
		return colorCyan
	}
}

func grams(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + " g/day"
}

// printAssessment renders the result panel.
func (u *ui) printAssessment(w io.Writer, a fiber.Assessment) {
	fmt.Fprintf(w, "%s  %s\n\n", u.colorize(colorBold, "Your Fiber Snapshot"), u.colorize(zoneColor(a.Zone), "["+a.ZoneLabel+"]"))

	u.printStatus(w, "Current intake", "%s", grams(a.Input.CurrentFiber))
	u.printStatus(w, "Suggested target", "%d g/day", a.Target.SuggestedTarget)
	u.printStatus(w, "Ratio to target", "%d%%", int(math.Round(a.Target.Ratio*100)))
	u.printStatus(w, "Baseline guideline (age/sex)", "%d g/day", a.Target.BaselineTarget)
	if a.Target.CalBasedTarget != nil {
		u.printStatus(w, "Calorie-based (~14 g/1000 kcal)", "%d g/day", *a.Target.CalBasedTarget)
	}

	fmt.Fprintf(w, "\n%s\n", a.Interpretation)

	if len(a.Tips) > 0 {
		fmt.Fprintf(w, "\n%s\n", u.colorize(colorBold, "Practical habit ideas:"))
		for _, tip := range a.Tips {
			fmt.Fprintf(w, "  • %s\n", tip)
		}
	}

	fmt.Fprintf(w, "\n%s\n", disclaimer)
}

// printZones renders the band table.
func (u *ui) printZones(w io.Writer, bands []fiber.Band) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "ZONE\tRATIO\tLABEL")
	for _, b := range bands {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", b.Zone, interval(b), u.colorize(zoneColor(b.Zone), b.Label))
	}
	tw.Flush() //nolint:errcheck
}

// interval formats a band in interval notation, e.g. "[0.60, 0.80)".
func interval(b fiber.Band) string {
	lb, rb := "(", ")"
	if b.LowerInclusive {
		lb = "["
	}
	upper := "∞"
	if !math.IsInf(b.Upper, 1) {
		upper = strconv.FormatFloat(b.Upper, 'f', 2, 64)
		if b.UpperInclusive {
			rb = "]"
		}
	}
	return lb + strconv.FormatFloat(b.Lower, 'f', 2, 64) + ", " + upper + rb
}
