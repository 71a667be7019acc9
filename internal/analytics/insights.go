package analytics

import (
	"sort"

	"github.com/dvloznov/ledger-insights/internal/domain"
)

const (
	// anomalyFactor flags an expense when it exceeds this multiple of its
	// category average.
	anomalyFactor = 3

	// topCategoryCount caps the top-spending category list.
	topCategoryCount = 5
)

// CategoryStat is the expense rollup for one category.
type CategoryStat struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
	Avg      float64 `json:"avg"`
}

// Insights is the structured context handed to the narrative generator and
// returned alongside it.
type Insights struct {
	TotalIncome     float64                  `json:"totalIncome"`
	TotalExpense    float64                  `json:"totalExpense"`
	Balance         float64                  `json:"balance"`
	AvgDailyExpense float64                  `json:"avgDailyExpense"`
	TotalEntries    int                      `json:"totalEntries"`
	TopCategories   []CategoryStat           `json:"topCategories"`
	Anomalies       []domain.Entry           `json:"anomalies"`
	CategoryStats   map[string]*CategoryStat `json:"categoryStats"`
}

// InsightOptions tunes insight computation.
type InsightOptions struct {
	// LeaveOneOut excludes the candidate entry from its own category
	// average before applying the anomaly threshold. Off by default: the
	// plain average keeps the historical threshold semantics.
	LeaveOneOut bool
}

// ComputeInsights derives totals, the average daily expense over distinct
// expense dates, the top spending categories and statistical anomalies from
// categorized entries.
func ComputeInsights(entries []domain.Entry, opts InsightOptions) *Insights {
	ins := &Insights{
		TotalEntries:  len(entries),
		CategoryStats: make(map[string]*CategoryStat),
	}

	expenseDates := make(map[string]struct{})
	for _, e := range entries {
		if e.IsIncome() {
			ins.TotalIncome += e.Amount
			continue
		}

		ins.TotalExpense += e.Amount
		if e.HasDate() {
			expenseDates[e.DateKey()] = struct{}{}
		}

		stat, ok := ins.CategoryStats[e.Category]
		if !ok {
			stat = &CategoryStat{Category: e.Category}
			ins.CategoryStats[e.Category] = stat
		}
		stat.Total += e.Amount
		stat.Count++
	}

	ins.Balance = ins.TotalIncome - ins.TotalExpense

	days := len(expenseDates)
	if days < 1 {
		days = 1
	}
	ins.AvgDailyExpense = ins.TotalExpense / float64(days)

	for _, stat := range ins.CategoryStats {
		stat.Avg = stat.Total / float64(stat.Count)
		ins.TopCategories = append(ins.TopCategories, *stat)
	}

	sort.SliceStable(ins.TopCategories, func(i, j int) bool {
		return ins.TopCategories[i].Total > ins.TopCategories[j].Total
	})
	if len(ins.TopCategories) > topCategoryCount {
		ins.TopCategories = ins.TopCategories[:topCategoryCount]
	}

	for _, e := range entries {
		if e.IsIncome() {
			continue
		}
		stat, ok := ins.CategoryStats[e.Category]
		if !ok {
			continue
		}

		avg := stat.Avg
		if opts.LeaveOneOut {
			if stat.Count < 2 {
				continue
			}
			avg = (stat.Total - e.Amount) / float64(stat.Count-1)
		}

		if e.Amount > avg*anomalyFactor {
			ins.Anomalies = append(ins.Anomalies, e)
		}
	}

	return ins
}
