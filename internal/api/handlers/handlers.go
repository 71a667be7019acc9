package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dvloznov/ledger-insights/internal/analytics"
	"github.com/dvloznov/ledger-insights/internal/api/middleware"
	"github.com/dvloznov/ledger-insights/internal/classify"
	"github.com/dvloznov/ledger-insights/internal/domain"
	"github.com/dvloznov/ledger-insights/internal/notionledger"
	"github.com/rs/zerolog"
)

// parseWindow extracts the optional inclusive date window from query params.
func parseWindow(r *http.Request) (start, end *time.Time, err error) {
	q := r.URL.Query()

	if s := q.Get("start"); s != "" {
		t, perr := time.Parse("2006-01-02", s)
		if perr != nil {
			return nil, nil, perr
		}
		start = &t
	}
	if s := q.Get("end"); s != "" {
		t, perr := time.Parse("2006-01-02", s)
		if perr != nil {
			return nil, nil, perr
		}
		end = &t
	}
	return start, end, nil
}

// loadEntries fetches records, normalizes them and attaches categories under
// the given policy.
func loadEntries(ctx context.Context, source notionledger.RecordSource, resolver *classify.Resolver, q notionledger.Query, policy classify.Policy) ([]domain.Entry, error) {
	records, err := source.FetchAll(ctx, q)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.Entry, 0, len(records))
	for _, rec := range records {
		e := domain.Normalize(rec)
		entries = append(entries, e.WithCategory(resolver.Resolve(ctx, e.Description, policy)))
	}
	return entries, nil
}

// LedgerHandler serves the ledger listing, creation and classification
// endpoints.
type LedgerHandler struct {
	source   notionledger.RecordSource
	resolver *classify.Resolver
	table    *classify.Table
	log      zerolog.Logger
}

// NewLedgerHandler creates a new ledger handler.
func NewLedgerHandler(source notionledger.RecordSource, resolver *classify.Resolver, table *classify.Table, log zerolog.Logger) *LedgerHandler {
	return &LedgerHandler{
		source:   source,
		resolver: resolver,
		table:    table,
		log:      log,
	}
}

// ListLedger handles GET /api/ledger
func (h *LedgerHandler) ListLedger(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	start, end, err := parseWindow(r)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
		return
	}

	// Listing always classifies through the cached semantic path so the
	// labels match the analytics views built on the same cache.
	entries, err := loadEntries(ctx, h.source, h.resolver, notionledger.Query{
		Start: start,
		End:   end,
		Sort:  notionledger.SortDescending,
	}, classify.PolicySemanticOnly)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to fetch ledger entries")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to fetch ledger entries")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, entries)
}

// CreateEntry handles POST /api/ledger
func (h *LedgerHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Date        string  `json:"date"`
		Description string  `json:"description"`
		Payment     float64 `json:"payment"`
		Account     string  `json:"account"`
		Category    string  `json:"category"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Description == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Description is required")
		return
	}
	if req.Payment <= 0 {
		middleware.WriteError(w, http.StatusBadRequest, "Payment must be positive")
		return
	}
	if req.Account == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Account is required")
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	// Auto-classify if category not provided.
	category := req.Category
	if category == "" {
		category = h.table.Classify(req.Description)
	}

	id, err := h.source.CreateEntry(ctx, notionledger.NewEntry{
		Date:        date,
		Description: req.Description,
		Payment:     req.Payment,
		Account:     req.Account,
		Category:    category,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create ledger entry")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to create entry")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"id":       id,
		"category": category,
	})
}

// Summary handles GET /api/summary
func (h *LedgerHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	start, end, err := parseWindow(r)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
		return
	}

	entries, err := loadEntries(ctx, h.source, h.resolver, notionledger.Query{
		Start: start,
		End:   end,
	}, classify.PolicySemanticOnly)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to fetch summary")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to fetch summary")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, analytics.Summarize(entries))
}

// ListCategories handles GET /api/categories
func (h *LedgerHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, h.table.Labels())
}

// Classify handles POST /api/classify
func (h *LedgerHandler) Classify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Description string `json:"description"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Description == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Description is required")
		return
	}

	// Ad-hoc classification tries the cheap keyword path before the
	// semantic fallback.
	category := h.resolver.Resolve(ctx, req.Description, classify.PolicyKeywordFirst)

	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"description": req.Description,
		"category":    category,
	})
}

// UpdateCategories handles POST /api/update-categories
func (h *LedgerHandler) UpdateCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, err := notionledger.BackfillCategories(ctx, h.source, h.table.Classify, false)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to update categories")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to update categories")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"updated": result.Updated,
		"errors":  result.Errors,
	})
}
