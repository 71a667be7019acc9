package analytics

import (
	"sort"

	"github.com/dvloznov/ledger-insights/internal/domain"
)

// DefaultMerchantLimit caps the merchant rollup.
const DefaultMerchantLimit = 20

// SummaryBucket accumulates per-category totals. Income and expense sides
// are tracked separately; total carries the signed magnitude of every entry.
type SummaryBucket struct {
	Total   float64 `json:"total"`
	Count   int     `json:"count"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// Summarize rolls entries up by category. Income entries add their deposit
// to the income side; entries with a positive payment add it to the expense
// side. An entry with no payment that is not income still counts toward
// total and count but neither side — that pass-through is deliberate.
func Summarize(entries []domain.Entry) map[string]*SummaryBucket {
	summary := make(map[string]*SummaryBucket)

	for _, e := range entries {
		bucket, ok := summary[e.Category]
		if !ok {
			bucket = &SummaryBucket{}
			summary[e.Category] = bucket
		}

		bucket.Total += e.Amount
		bucket.Count++

		if e.IsIncome() {
			bucket.Income += e.Deposit
		} else if e.Payment > 0 {
			bucket.Expense += e.Payment
		}
	}

	return summary
}

// TimeBuckets holds expense sums keyed by day, week and month. Weekly keys
// are the Sunday that begins the week; monthly keys are YYYY-MM. Only the
// payment side is summed; time analysis is expense-only.
type TimeBuckets struct {
	Daily   map[string]float64 `json:"daily"`
	Weekly  map[string]float64 `json:"weekly"`
	Monthly map[string]float64 `json:"monthly"`
}

// BucketByTime distributes entries into daily, weekly and monthly buckets.
// Dateless entries are skipped.
func BucketByTime(entries []domain.Entry) TimeBuckets {
	buckets := TimeBuckets{
		Daily:   make(map[string]float64),
		Weekly:  make(map[string]float64),
		Monthly: make(map[string]float64),
	}

	for _, e := range entries {
		if !e.HasDate() {
			continue
		}

		buckets.Daily[e.DateKey()] += e.Payment

		weekStart := e.Date.AddDate(0, 0, -int(e.Date.Weekday()))
		buckets.Weekly[weekStart.Format("2006-01-02")] += e.Payment

		buckets.Monthly[e.Date.Format("2006-01")] += e.Payment
	}

	return buckets
}

// AccountStats is the per-account payment rollup.
type AccountStats struct {
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// ByAccount sums payments per account, defaulting a missing account label
// to "Other".
func ByAccount(entries []domain.Entry) map[string]*AccountStats {
	accounts := make(map[string]*AccountStats)

	for _, e := range entries {
		account := e.Account
		if account == "" {
			account = domain.DefaultAccount
		}

		stats, ok := accounts[account]
		if !ok {
			stats = &AccountStats{}
			accounts[account] = stats
		}
		stats.Total += e.Payment
		stats.Count++
	}

	return accounts
}

// MerchantStat is a payment rollup for one raw description.
type MerchantStat struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// TopMerchants groups entries by raw description, sums payments and returns
// the top spenders in descending order. Ties keep first-encounter order.
func TopMerchants(entries []domain.Entry, limit int) []MerchantStat {
	index := make(map[string]int)
	var merchants []MerchantStat

	for _, e := range entries {
		i, ok := index[e.Description]
		if !ok {
			i = len(merchants)
			index[e.Description] = i
			merchants = append(merchants, MerchantStat{Name: e.Description})
		}
		merchants[i].Total += e.Payment
		merchants[i].Count++
	}

	sort.SliceStable(merchants, func(i, j int) bool {
		return merchants[i].Total > merchants[j].Total
	})

	if limit > 0 && len(merchants) > limit {
		merchants = merchants[:limit]
	}
	return merchants
}

// TrendPoint is one step of the cumulative spending series.
type TrendPoint struct {
	Date       string  `json:"date"`
	Payment    float64 `json:"payment"`
	Cumulative float64 `json:"cumulative"`
}

// CumulativeTrend produces a running payment sum over entries already
// sorted ascending by date. Dateless entries are skipped, not counted.
func CumulativeTrend(entries []domain.Entry) []TrendPoint {
	var trend []TrendPoint
	var running float64

	for _, e := range entries {
		if !e.HasDate() {
			continue
		}
		running += e.Payment
		trend = append(trend, TrendPoint{
			Date:       e.DateKey(),
			Payment:    e.Payment,
			Cumulative: running,
		})
	}

	return trend
}

// BalanceReport is the income-versus-expense rollup.
type BalanceReport struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

// Balance sums deposits on the income side and positive payments on the
// expense side; balance is the difference.
func Balance(entries []domain.Entry) BalanceReport {
	var report BalanceReport

	for _, e := range entries {
		if e.IsIncome() {
			report.Income += e.Deposit
		} else if e.Payment > 0 {
			report.Expense += e.Payment
		}
	}

	report.Balance = report.Income - report.Expense
	return report
}
