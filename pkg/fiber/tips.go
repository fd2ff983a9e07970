package fiber

var fruitVegTips = map[Frequency]string{
	FrequencyLittle: "Start by adding 1 extra serving of fruit or vegetables per day (e.g., a piece of fruit or a handful of veggies at a meal).",
	FrequencySome:   "You already have some fruit/veg most days; consider turning one snack or side into a more fiber-rich choice (e.g., berries instead of a low-fiber dessert).",
	FrequencyPlenty: "You report plenty of fruit/veg—nice. Focus on variety (different colors and types) to get a broader mix of fibers.",
}

var wholeGrainTips = map[Frequency]string{
	FrequencyLittle: "Try swapping one refined grain for a whole-grain version (e.g., brown rice, oats, whole-grain bread, or whole-wheat pasta).",
	FrequencySome:   "You already include some whole grains; consider one more portion on days that are lower in fiber.",
	FrequencyPlenty: "You’re already getting several whole-grain servings. If fiber is still low, consider beans, lentils, nuts, or seeds as add-ons.",
}

const (
	legumesTip = "Legumes (beans, lentils, chickpeas) are powerful fiber boosters—start with small portions if you’re not used to them."

	reduceExtrasTip = "If you notice discomfort, you could slightly reduce very high-fiber extras (e.g., bran, multiple fiber supplements) and see if symptoms improve."
)

// generalTips close every tip list, always in this order.
var generalTips = [...]string{
	"Increase fiber gradually over days and weeks rather than all at once.",
	"Drink enough fluids, especially water, as fiber needs fluid to move comfortably through the gut.",
	"If you have digestive conditions (e.g., IBS, IBD), follow advice from your healthcare team before making big changes.",
}

// Tips builds the ordered habit tips: one fruit/veg tip, one whole-grain
// tip, an optional zone tip, then the general tips.
// Unknown frequencies select the "plenty" tip.
func Tips(zone Zone, fruitVeg, wholeGrains Frequency) []string {
	tips := make([]string, 0, 3+len(generalTips))
	tips = append(tips, pick(fruitVegTips, fruitVeg), pick(wholeGrainTips, wholeGrains))

	switch zone {
	case ZoneLow, ZoneSlightlyLow:
		tips = append(tips, legumesTip)
	case ZoneWellAbove:
		tips = append(tips, reduceExtrasTip)
	}

	return append(tips, generalTips[:]...)
}

func pick(table map[Frequency]string, f Frequency) string {
	if tip, ok := table[f]; ok {
		return tip
	}
	return table[FrequencyPlenty]
}
