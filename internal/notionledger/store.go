package notionledger

import (
	"context"
	"fmt"
	"time"

	"github.com/dvloznov/ledger-insights/internal/domain"
	"github.com/jomei/notionapi"
)

const (
	// pageSize is the number of records requested per cursor round trip.
	pageSize = 100

	// defaultPageTimeout bounds a single page fetch, not the whole walk.
	defaultPageTimeout = 30 * time.Second
)

// SortDirection orders results by the record date. The direction is passed
// through to the store verbatim; the store does the sorting.
type SortDirection string

const (
	SortAscending  SortDirection = "ascending"
	SortDescending SortDirection = "descending"
)

// Query carries the optional inclusive date window and sort directive for a
// fetch. Filtering happens upstream; no client-side re-filtering is done.
type Query struct {
	Start *time.Time
	End   *time.Time
	Sort  SortDirection // empty means store default order
}

// Store reads and mutates ledger records held in a Notion database.
type Store struct {
	svc         NotionService
	databaseID  string
	pageTimeout time.Duration
}

// NewStore creates a ledger store over the given Notion database.
func NewStore(svc NotionService, databaseID string) *Store {
	return &Store{
		svc:         svc,
		databaseID:  databaseID,
		pageTimeout: defaultPageTimeout,
	}
}

// WithPageTimeout overrides the per-page fetch deadline.
func (s *Store) WithPageTimeout(d time.Duration) *Store {
	if d > 0 {
		s.pageTimeout = d
	}
	return s
}

// FetchAll follows the cursor protocol until the store reports no further
// pages, concatenating results in page order. Any page error aborts the
// whole fetch; no partial results are returned.
func (s *Store) FetchAll(ctx context.Context, q Query) ([]domain.RawRecord, error) {
	var records []domain.RawRecord
	var cursor notionapi.Cursor

	for {
		req := buildQueryRequest(q)
		if cursor != "" {
			req.StartCursor = cursor
		}

		resp, err := s.queryPage(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("FetchAll: %w", err)
		}

		for _, page := range resp.Results {
			records = append(records, recordFromPage(page))
		}

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return records, nil
}

// queryPage fetches one page under its own timeout.
func (s *Store) queryPage(ctx context.Context, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.pageTimeout)
	defer cancel()
	return s.svc.QueryDatabase(ctx, s.databaseID, req)
}

// buildQueryRequest maps a Query onto the store's wire request. The date
// window and sort directive pass through untouched.
func buildQueryRequest(q Query) *notionapi.DatabaseQueryRequest {
	req := &notionapi.DatabaseQueryRequest{
		PageSize: pageSize,
	}

	switch q.Sort {
	case SortAscending:
		req.Sorts = []notionapi.SortObject{
			{Property: propDate, Direction: notionapi.SortOrderASC},
		}
	case SortDescending:
		req.Sorts = []notionapi.SortObject{
			{Property: propDate, Direction: notionapi.SortOrderDESC},
		}
	}

	var conds notionapi.AndCompoundFilter
	if q.Start != nil {
		start := notionapi.Date(*q.Start)
		conds = append(conds, notionapi.PropertyFilter{
			Property: propDate,
			Date: &notionapi.DateFilterCondition{
				OnOrAfter: &start,
			},
		})
	}
	if q.End != nil {
		end := notionapi.Date(*q.End)
		conds = append(conds, notionapi.PropertyFilter{
			Property: propDate,
			Date: &notionapi.DateFilterCondition{
				OnOrBefore: &end,
			},
		})
	}
	if len(conds) > 0 {
		req.Filter = conds
	}

	return req
}

// NewEntry is the payload for creating a ledger record.
type NewEntry struct {
	Date        time.Time
	Description string
	Payment     float64
	Account     string
	Category    string
}

// CreateEntry inserts a new record and returns the store-assigned id.
func (s *Store) CreateEntry(ctx context.Context, e NewEntry) (string, error) {
	page, err := s.svc.CreatePage(ctx, s.databaseID, entryToProperties(e))
	if err != nil {
		return "", fmt.Errorf("CreateEntry: %w", err)
	}

	return string(page.ID), nil
}

// UpdateCategory sets the stored category select of a single record.
func (s *Store) UpdateCategory(ctx context.Context, recordID, category string) error {
	props := notionapi.Properties{
		propCategory: notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: category,
			},
		},
	}

	if _, err := s.svc.UpdatePage(ctx, recordID, props); err != nil {
		return fmt.Errorf("UpdateCategory: %w", err)
	}

	return nil
}

// Ensure Store implements RecordSource.
var _ RecordSource = (*Store)(nil)
