package analytics

import (
	"reflect"
	"testing"
	"time"

	"github.com/dvloznov/ledger-insights/internal/domain"
)

func expense(date, description, category string, payment float64) domain.Entry {
	return entry(date, description, category, payment, 0)
}

func entry(date, description, category string, payment, deposit float64) domain.Entry {
	var d time.Time
	if date != "" {
		d, _ = time.Parse("2006-01-02", date)
	}
	return domain.Normalize(domain.RawRecord{
		Date:        d,
		Description: description,
		Payment:     payment,
		Deposit:     deposit,
	}).WithCategory(category)
}

func TestSummarize(t *testing.T) {
	entries := []domain.Entry{
		expense("2025-01-01", "coffee", "Food & Dining", 5),
		expense("2025-01-02", "lunch", "Food & Dining", 15),
		entry("2025-01-03", "income1 jan", "Income1", 0, 2000),
		entry("2025-01-04", "refund note", "Other", 0, 0), // neither side
	}

	summary := Summarize(entries)

	food := summary["Food & Dining"]
	if food == nil || food.Total != 20 || food.Count != 2 || food.Expense != 20 || food.Income != 0 {
		t.Errorf("food bucket = %+v", food)
	}

	income := summary["Income1"]
	if income == nil || income.Total != 2000 || income.Income != 2000 || income.Expense != 0 {
		t.Errorf("income bucket = %+v", income)
	}

	// Zero-payment non-income entries count but feed neither side.
	other := summary["Other"]
	if other == nil || other.Count != 1 || other.Total != 0 || other.Income != 0 || other.Expense != 0 {
		t.Errorf("pass-through bucket = %+v", other)
	}
}

func TestSummarize_Idempotent(t *testing.T) {
	entries := []domain.Entry{
		expense("2025-01-01", "coffee", "Food & Dining", 5),
		entry("2025-01-02", "income1", "Income1", 0, 100),
	}

	first := Summarize(entries)
	second := Summarize(entries)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Summarize() not idempotent: %+v vs %+v", first, second)
	}
}

func TestBucketByTime_WeeklySundayAligned(t *testing.T) {
	// 2025-01-08 is a Wednesday; its week starts Sunday 2025-01-05.
	entries := []domain.Entry{
		expense("2025-01-08", "coffee", "Food & Dining", 10),
	}

	buckets := BucketByTime(entries)

	if got := buckets.Weekly["2025-01-05"]; got != 10 {
		t.Errorf("weekly[2025-01-05] = %v, want 10 (got buckets %v)", got, buckets.Weekly)
	}
	if got := buckets.Daily["2025-01-08"]; got != 10 {
		t.Errorf("daily[2025-01-08] = %v, want 10", got)
	}
	if got := buckets.Monthly["2025-01"]; got != 10 {
		t.Errorf("monthly[2025-01] = %v, want 10", got)
	}
}

func TestBucketByTime_SumsPaymentOnly(t *testing.T) {
	entries := []domain.Entry{
		expense("2025-01-01", "coffee", "Food & Dining", 5),
		expense("2025-01-01", "lunch", "Food & Dining", 12),
		entry("2025-01-01", "income1", "Income1", 0, 500), // deposit ignored
		expense("", "dateless", "Other", 99),              // skipped
	}

	buckets := BucketByTime(entries)

	if got := buckets.Daily["2025-01-01"]; got != 17 {
		t.Errorf("daily sum = %v, want 17 (payments only)", got)
	}
	if len(buckets.Daily) != 1 {
		t.Errorf("daily has %d keys, want 1", len(buckets.Daily))
	}
}

func TestByAccount_DefaultsMissingAccount(t *testing.T) {
	entries := []domain.Entry{
		expense("2025-01-01", "coffee", "Food & Dining", 5),
		{Description: "card", Payment: 10, Account: "Credit Card", Type: domain.TypeExpense},
	}

	accounts := ByAccount(entries)

	if got := accounts[domain.DefaultAccount]; got == nil || got.Total != 5 || got.Count != 1 {
		t.Errorf("default account stats = %+v", got)
	}
	if got := accounts["Credit Card"]; got == nil || got.Total != 10 {
		t.Errorf("credit card stats = %+v", got)
	}
}

func TestTopMerchants(t *testing.T) {
	entries := []domain.Entry{
		expense("2025-01-01", "starbucks", "Food & Dining", 5),
		expense("2025-01-02", "uber", "Transportation", 30),
		expense("2025-01-03", "starbucks", "Food & Dining", 6),
		expense("2025-01-04", "airbnb", "Travel", 30),
	}

	merchants := TopMerchants(entries, DefaultMerchantLimit)

	if len(merchants) != 3 {
		t.Fatalf("got %d merchants, want 3", len(merchants))
	}
	// uber and airbnb tie at 30; uber was seen first.
	if merchants[0].Name != "uber" || merchants[1].Name != "airbnb" {
		t.Errorf("tie order = %s, %s; want encounter order uber, airbnb", merchants[0].Name, merchants[1].Name)
	}
	if merchants[2].Name != "starbucks" || merchants[2].Total != 11 || merchants[2].Count != 2 {
		t.Errorf("starbucks rollup = %+v", merchants[2])
	}
}

func TestTopMerchants_Limit(t *testing.T) {
	var entries []domain.Entry
	for _, name := range []string{"a", "b", "c", "d"} {
		entries = append(entries, expense("2025-01-01", name, "Other", 1))
	}

	if got := TopMerchants(entries, 2); len(got) != 2 {
		t.Errorf("got %d merchants, want limit 2", len(got))
	}
}

func TestCumulativeTrend(t *testing.T) {
	entries := []domain.Entry{
		expense("2025-01-01", "a", "Other", 10),
		expense("", "dateless", "Other", 99),
		expense("2025-01-02", "b", "Other", 5),
		expense("2025-01-03", "c", "Other", 0),
	}

	trend := CumulativeTrend(entries)

	if len(trend) != 3 {
		t.Fatalf("got %d points, want 3 (dateless skipped)", len(trend))
	}
	want := []float64{10, 15, 15}
	for i, p := range trend {
		if p.Cumulative != want[i] {
			t.Errorf("cumulative[%d] = %v, want %v", i, p.Cumulative, want[i])
		}
		if i > 0 && trend[i].Cumulative < trend[i-1].Cumulative {
			t.Errorf("cumulative not monotonic at %d", i)
		}
	}
}

func TestBalance(t *testing.T) {
	entries := []domain.Entry{
		entry("2025-01-01", "income1", "Income1", 0, 1000),
		expense("2025-01-02", "rent", "Utilities & Bills", 600),
		entry("2025-01-03", "both sides", "Other", 50, 100), // expense by derivation
		entry("2025-01-04", "nothing", "Other", 0, 0),       // contributes neither
	}

	report := Balance(entries)

	if report.Income != 1000 {
		t.Errorf("income = %v, want 1000", report.Income)
	}
	if report.Expense != 650 {
		t.Errorf("expense = %v, want 650", report.Expense)
	}
	if report.Balance != 350 {
		t.Errorf("balance = %v, want 350", report.Balance)
	}
}
