package narrative

import (
	"fmt"
	"strings"

	"github.com/dvloznov/ledger-insights/internal/analytics"
)

const advisorSystemPrompt = `You are a financial advisor analyzing spending data. Provide:
1. A concise 2-3 sentence spending summary
2. List 3-5 actionable recommendations to improve financial health
3. Highlight 1-2 unusual spending patterns if any

Be friendly, specific, and data-driven.`

// maxPromptAnomalies caps how many unusual expenses get spelled out in the
// prompt; the count is always reported.
const maxPromptAnomalies = 5

// buildInsightsPrompt renders the structured insight context as the user
// message for the advisor model.
func buildInsightsPrompt(period string, ins *analytics.Insights) string {
	if period == "" {
		period = "all time"
	}

	var cats []string
	for _, c := range ins.TopCategories {
		cats = append(cats, fmt.Sprintf("%s ($%.2f)", c.Category, c.Total))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this spending data from %s:\n", period)
	fmt.Fprintf(&b, "- Total Income: $%.2f\n", ins.TotalIncome)
	fmt.Fprintf(&b, "- Total Expenses: $%.2f\n", ins.TotalExpense)
	fmt.Fprintf(&b, "- Balance: $%.2f\n", ins.Balance)
	fmt.Fprintf(&b, "- Average Daily Spending: $%.2f\n", ins.AvgDailyExpense)
	fmt.Fprintf(&b, "- Top Spending Categories: %s\n", strings.Join(cats, ", "))
	fmt.Fprintf(&b, "- Anomalies detected: %d transactions\n", len(ins.Anomalies))
	fmt.Fprintf(&b, "- Total entries: %d\n", ins.TotalEntries)

	if len(ins.Anomalies) > 0 {
		b.WriteString("\nNotable unusual expenses:\n")
		anomalies := ins.Anomalies
		if len(anomalies) > maxPromptAnomalies {
			anomalies = anomalies[:maxPromptAnomalies]
		}
		for _, a := range anomalies {
			fmt.Fprintf(&b, "- %s: $%.2f in %s\n", a.Description, a.Amount, a.Category)
		}
	}

	b.WriteString("\nProvide your analysis and recommendations.")
	return b.String()
}
