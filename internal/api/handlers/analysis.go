package handlers

import (
	"fmt"
	"net/http"

	"github.com/dvloznov/ledger-insights/internal/analytics"
	"github.com/dvloznov/ledger-insights/internal/api/middleware"
	"github.com/dvloznov/ledger-insights/internal/classify"
	"github.com/dvloznov/ledger-insights/internal/domain"
	"github.com/dvloznov/ledger-insights/internal/narrative"
	"github.com/dvloznov/ledger-insights/internal/notionledger"
	"github.com/rs/zerolog"
)

// maxReportedAnomalies caps the anomaly list in the insights response.
const maxReportedAnomalies = 10

// AnalyticsHandler serves the aggregation and insight endpoints.
type AnalyticsHandler struct {
	source      notionledger.RecordSource
	resolver    *classify.Resolver
	narrator    narrative.Generator
	leaveOneOut bool
	log         zerolog.Logger
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(source notionledger.RecordSource, resolver *classify.Resolver, narrator narrative.Generator, leaveOneOut bool, log zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		source:      source,
		resolver:    resolver,
		narrator:    narrator,
		leaveOneOut: leaveOneOut,
		log:         log,
	}
}

// fetchPlain fetches and normalizes entries without classification; the
// account, merchant, time and balance rollups never look at categories.
func (h *AnalyticsHandler) fetchPlain(r *http.Request, q notionledger.Query) ([]domain.Entry, error) {
	records, err := h.source.FetchAll(r.Context(), q)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.Entry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, domain.Normalize(rec))
	}
	return entries, nil
}

// TimeAnalysis handles GET /api/analysis/time
func (h *AnalyticsHandler) TimeAnalysis(w http.ResponseWriter, r *http.Request) {
	entries, err := h.fetchPlain(r, notionledger.Query{})
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to fetch time analysis")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to fetch time analysis")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, analytics.BucketByTime(entries))
}

// AccountAnalysis handles GET /api/analysis/account
func (h *AnalyticsHandler) AccountAnalysis(w http.ResponseWriter, r *http.Request) {
	entries, err := h.fetchPlain(r, notionledger.Query{})
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to fetch account analysis")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to fetch account analysis")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, analytics.ByAccount(entries))
}

// MerchantAnalysis handles GET /api/analysis/merchant
func (h *AnalyticsHandler) MerchantAnalysis(w http.ResponseWriter, r *http.Request) {
	entries, err := h.fetchPlain(r, notionledger.Query{})
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to fetch merchant analysis")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to fetch merchant analysis")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, analytics.TopMerchants(entries, analytics.DefaultMerchantLimit))
}

// Trends handles GET /api/analysis/trends
func (h *AnalyticsHandler) Trends(w http.ResponseWriter, r *http.Request) {
	// The running sum honors the store's ascending order; it is not
	// re-sorted locally.
	entries, err := h.fetchPlain(r, notionledger.Query{Sort: notionledger.SortAscending})
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to fetch trends")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to fetch trends")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, analytics.CumulativeTrend(entries))
}

// BalanceAnalysis handles GET /api/analysis/balance
func (h *AnalyticsHandler) BalanceAnalysis(w http.ResponseWriter, r *http.Request) {
	entries, err := h.fetchPlain(r, notionledger.Query{})
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to fetch balance analysis")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to fetch balance analysis")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, analytics.Balance(entries))
}

// AnalyzeCategories handles GET /api/analyze-categories
func (h *AnalyticsHandler) AnalyzeCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.source.FetchAll(ctx, notionledger.Query{})
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to analyze categories")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to analyze categories")
		return
	}

	seen := make(map[string]struct{})
	categories := make(map[string][]string)
	var total int
	for _, rec := range records {
		if rec.Description == "" {
			continue
		}
		if _, ok := seen[rec.Description]; ok {
			continue
		}
		seen[rec.Description] = struct{}{}
		total++

		label := h.resolver.Resolve(ctx, rec.Description, classify.PolicySemanticOnly)
		categories[label] = append(categories[label], rec.Description)
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"totalDescriptions": total,
		"uniqueCategories":  len(categories),
		"categories":        categories,
	})
}

// Insights handles GET /api/ai-insights
func (h *AnalyticsHandler) Insights(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	start, end, err := parseWindow(r)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
		return
	}

	entries, err := loadEntries(ctx, h.source, h.resolver, notionledger.Query{
		Start: start,
		End:   end,
		Sort:  notionledger.SortDescending,
	}, classify.PolicySemanticOnly)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to fetch entries for insights")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to generate insights")
		return
	}

	ins := analytics.ComputeInsights(entries, analytics.InsightOptions{
		LeaveOneOut: h.leaveOneOut,
	})

	period := "all time"
	if start != nil && end != nil {
		period = fmt.Sprintf("%s to %s", start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	text, err := h.narrator.Generate(ctx, period, ins)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to generate insight narrative")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to generate insights")
		return
	}

	anomalies := ins.Anomalies
	if len(anomalies) > maxReportedAnomalies {
		anomalies = anomalies[:maxReportedAnomalies]
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"summary": map[string]interface{}{
			"totalIncome":     ins.TotalIncome,
			"totalExpense":    ins.TotalExpense,
			"balance":         ins.Balance,
			"avgDailyExpense": ins.AvgDailyExpense,
			"totalEntries":    ins.TotalEntries,
			"period":          period,
		},
		"topCategories": ins.TopCategories,
		"anomalies":     anomalies,
		"aiInsights":    text,
		"categoryStats": ins.CategoryStats,
	})
}
