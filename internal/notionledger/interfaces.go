package notionledger

import (
	"context"

	"github.com/dvloznov/ledger-insights/internal/domain"
	"github.com/jomei/notionapi"
)

// NotionService defines the slice of the Notion API the ledger store consumes.
// This interface enables mocking and testing of Notion operations.
type NotionService interface {
	// QueryDatabase queries a Notion database with the given request.
	QueryDatabase(ctx context.Context, databaseID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error)

	// CreatePage creates a new page in a Notion database with the given properties.
	CreatePage(ctx context.Context, databaseID string, properties notionapi.Properties) (*notionapi.Page, error)

	// UpdatePage updates an existing Notion page with the given properties.
	UpdatePage(ctx context.Context, pageID string, properties notionapi.Properties) (*notionapi.Page, error)
}

// RecordSource is the fetch-and-mutate surface handlers depend on. The
// concrete implementation is Store; tests supply fakes.
type RecordSource interface {
	// FetchAll returns the complete, order-preserving record sequence for a
	// query, following the store's cursor protocol to the end.
	FetchAll(ctx context.Context, q Query) ([]domain.RawRecord, error)

	// CreateEntry inserts a new ledger record and returns its id.
	CreateEntry(ctx context.Context, e NewEntry) (string, error)

	// UpdateCategory sets the stored category of a single record.
	UpdateCategory(ctx context.Context, recordID, category string) error
}
