package portal

import (
	"math"
	"strconv"
)

// FormatNumber abbreviates large counts: 1500 -> "1.5K", 2500000 -> "2.5M".
// Halves round away from zero, so 1250 is "1.3K".
func FormatNumber(n float64) string {
	switch {
	case n >= 1_000_000:
		return oneDecimal(n/1_000_000) + "M"
	case n >= 1_000:
		return oneDecimal(n/1_000) + "K"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func oneDecimal(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', 1, 64)
}

func formatCards(a Analytics) StatCards {
	return StatCards{
		TotalArticles:      FormatNumber(float64(a.TotalArticles)),
		TotalViews:         FormatNumber(float64(a.TotalViews)),
		PendingApproval:    strconv.Itoa(a.PendingApproval),
		ActiveContributors: strconv.Itoa(a.ActiveContributors),
	}
}
