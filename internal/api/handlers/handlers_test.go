package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dvloznov/ledger-insights/internal/analytics"
	"github.com/dvloznov/ledger-insights/internal/classify"
	"github.com/dvloznov/ledger-insights/internal/domain"
	"github.com/dvloznov/ledger-insights/internal/logger"
	"github.com/dvloznov/ledger-insights/internal/notionledger"
)

// stubSource serves canned records and captures the query it was given.
type stubSource struct {
	records   []domain.RawRecord
	fetchErr  error
	lastQuery notionledger.Query
	created   []notionledger.NewEntry
	updated   map[string]string
}

func (s *stubSource) FetchAll(ctx context.Context, q notionledger.Query) ([]domain.RawRecord, error) {
	s.lastQuery = q
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.records, nil
}

func (s *stubSource) CreateEntry(ctx context.Context, e notionledger.NewEntry) (string, error) {
	s.created = append(s.created, e)
	return fmt.Sprintf("created-%d", len(s.created)), nil
}

func (s *stubSource) UpdateCategory(ctx context.Context, recordID, category string) error {
	if s.updated == nil {
		s.updated = make(map[string]string)
	}
	s.updated[recordID] = category
	return nil
}

// stubClassifier is a fixed-answer semantic backend with a call counter.
type stubClassifier struct {
	label string
	calls int64
}

func (s *stubClassifier) Classify(ctx context.Context, description string) (string, error) {
	atomic.AddInt64(&s.calls, 1)
	return s.label, nil
}

// stubNarrator returns fixed prose.
type stubNarrator struct {
	text string
	err  error
}

func (s *stubNarrator) Generate(ctx context.Context, period string, ins *analytics.Insights) (string, error) {
	return s.text, s.err
}

func testTable() *classify.Table {
	return classify.NewTable([]classify.Category{
		{Label: "Income1", Keywords: []string{"income1"}},
		{Label: "Food & Dining", Keywords: []string{"coffee"}},
	})
}

func newTestLedgerHandler(source *stubSource, backend *stubClassifier) *LedgerHandler {
	table := testTable()
	resolver := classify.NewResolver(table, backend, false)
	return NewLedgerHandler(source, resolver, table, logger.New())
}

func TestClassify_KeywordFirst(t *testing.T) {
	backend := &stubClassifier{label: "Other"}
	h := newTestLedgerHandler(&stubSource{}, backend)

	req := httptest.NewRequest(http.MethodPost, "/api/classify", strings.NewReader(`{"description":"morning coffee"}`))
	rec := httptest.NewRecorder()
	h.Classify(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["category"] != "Food & Dining" {
		t.Errorf("category = %q, want keyword match", resp["category"])
	}
	if backend.calls != 0 {
		t.Errorf("backend called %d times for keyword hit, want 0", backend.calls)
	}
}

func TestClassify_EmptyDescriptionRejected(t *testing.T) {
	h := newTestLedgerHandler(&stubSource{}, &stubClassifier{label: "Other"})

	req := httptest.NewRequest(http.MethodPost, "/api/classify", strings.NewReader(`{"description":""}`))
	rec := httptest.NewRecorder()
	h.Classify(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestListLedger_SemanticOnly(t *testing.T) {
	source := &stubSource{
		records: []domain.RawRecord{
			// Keyword table knows "coffee", but listing classifies
			// semantically regardless.
			{ID: "r1", Description: "morning coffee", Payment: 5, Date: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
		},
	}
	backend := &stubClassifier{label: "Entertainment"}
	h := newTestLedgerHandler(source, backend)

	req := httptest.NewRequest(http.MethodGet, "/api/ledger?start=2025-01-01&end=2025-01-31", nil)
	rec := httptest.NewRecorder()
	h.ListLedger(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}

	var entries []domain.Entry
	if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(entries) != 1 || entries[0].Category != "Entertainment" {
		t.Errorf("entries = %+v, want semantic category", entries)
	}
	if backend.calls != 1 {
		t.Errorf("backend calls = %d, want 1", backend.calls)
	}

	// Window and sort must pass through to the store.
	if source.lastQuery.Start == nil || source.lastQuery.End == nil {
		t.Error("date window not passed through")
	}
	if source.lastQuery.Sort != notionledger.SortDescending {
		t.Errorf("sort = %q, want descending", source.lastQuery.Sort)
	}
}

func TestListLedger_InvalidDate(t *testing.T) {
	h := newTestLedgerHandler(&stubSource{}, &stubClassifier{label: "Other"})

	req := httptest.NewRequest(http.MethodGet, "/api/ledger?start=01-02-2025", nil)
	rec := httptest.NewRecorder()
	h.ListLedger(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestListLedger_FetchFailure(t *testing.T) {
	source := &stubSource{fetchErr: fmt.Errorf("upstream down")}
	h := newTestLedgerHandler(source, &stubClassifier{label: "Other"})

	req := httptest.NewRequest(http.MethodGet, "/api/ledger", nil)
	rec := httptest.NewRecorder()
	h.ListLedger(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500 on fetch failure", rec.Code)
	}
}

func TestCreateEntry_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing description", `{"date":"2025-01-01","payment":5,"account":"Cash"}`},
		{"zero payment", `{"date":"2025-01-01","description":"x","payment":0,"account":"Cash"}`},
		{"missing account", `{"date":"2025-01-01","description":"x","payment":5}`},
		{"bad date", `{"date":"Jan 1","description":"x","payment":5,"account":"Cash"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &stubSource{}
			h := newTestLedgerHandler(source, &stubClassifier{label: "Other"})

			req := httptest.NewRequest(http.MethodPost, "/api/ledger", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.CreateEntry(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if len(source.created) != 0 {
				t.Error("invalid request must not reach the store")
			}
		})
	}
}

func TestCreateEntry_AutoClassifies(t *testing.T) {
	source := &stubSource{}
	h := newTestLedgerHandler(source, &stubClassifier{label: "Other"})

	body := `{"date":"2025-01-01","description":"coffee beans","payment":12,"account":"Cash"}`
	req := httptest.NewRequest(http.MethodPost, "/api/ledger", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.CreateEntry(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	if len(source.created) != 1 || source.created[0].Category != "Food & Dining" {
		t.Errorf("created = %+v, want auto-classified category", source.created)
	}
}

func TestUpdateCategories(t *testing.T) {
	source := &stubSource{
		records: []domain.RawRecord{
			{ID: "r1", Description: "coffee"},
			{ID: "r2", Description: "mystery", StoredCategory: ""},
		},
	}
	h := newTestLedgerHandler(source, &stubClassifier{label: "Other"})

	req := httptest.NewRequest(http.MethodPost, "/api/update-categories", nil)
	rec := httptest.NewRecorder()
	h.UpdateCategories(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Success bool `json:"success"`
		Updated int  `json:"updated"`
		Errors  int  `json:"errors"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Updated != 1 || resp.Errors != 0 {
		t.Errorf("response = %+v, want 1 keyword-classifiable update", resp)
	}
	if source.updated["r1"] != "Food & Dining" {
		t.Errorf("updates = %+v", source.updated)
	}
}
