package testquotes

// Display score bounds every ranked plan must respect.
const (
	MinDisplayScore = 80
	MaxDisplayScore = 99
)

// PercentageMultiplier converts ratios to percentages in reports.
const PercentageMultiplier = 100
