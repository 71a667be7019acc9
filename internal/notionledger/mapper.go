package notionledger

import (
	"time"

	"github.com/dvloznov/ledger-insights/internal/domain"
	"github.com/jomei/notionapi"
)

// Property names in the ledger database.
const (
	propDate        = "Date"
	propDescription = "Description"
	propPayment     = "Payment"
	propDeposit     = "Deposit"
	propAccount     = "Account"
	propCategory    = "Category"
)

// recordFromPage extracts one raw record from a Notion page. Absent or
// malformed properties fall back to zero values; the description is the
// first text run of the title property.
func recordFromPage(page notionapi.Page) domain.RawRecord {
	rec := domain.RawRecord{
		ID: string(page.ID),
	}

	if prop, ok := page.Properties[propDescription]; ok {
		if title, ok := prop.(*notionapi.TitleProperty); ok && len(title.Title) > 0 {
			rec.Description = title.Title[0].PlainText
		}
	}

	if prop, ok := page.Properties[propDate]; ok {
		if date, ok := prop.(*notionapi.DateProperty); ok && date.Date != nil && date.Date.Start != nil {
			rec.Date = time.Time(*date.Date.Start)
		}
	}

	if prop, ok := page.Properties[propPayment]; ok {
		if num, ok := prop.(*notionapi.NumberProperty); ok {
			rec.Payment = num.Number
		}
	}

	if prop, ok := page.Properties[propDeposit]; ok {
		if num, ok := prop.(*notionapi.NumberProperty); ok {
			rec.Deposit = num.Number
		}
	}

	if prop, ok := page.Properties[propAccount]; ok {
		if sel, ok := prop.(*notionapi.SelectProperty); ok {
			rec.Account = sel.Select.Name
		}
	}

	if prop, ok := page.Properties[propCategory]; ok {
		if sel, ok := prop.(*notionapi.SelectProperty); ok {
			rec.StoredCategory = sel.Select.Name
		}
	}

	return rec
}

// entryToProperties converts a new entry into Notion page properties.
func entryToProperties(e NewEntry) notionapi.Properties {
	date := notionapi.Date(e.Date)

	props := notionapi.Properties{
		propDescription: notionapi.TitleProperty{
			Title: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: e.Description,
					},
				},
			},
		},
		propDate: notionapi.DateProperty{
			Date: &notionapi.DateObject{
				Start: &date,
			},
		},
		propPayment: notionapi.NumberProperty{
			Number: e.Payment,
		},
		propAccount: notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: e.Account,
			},
		},
	}

	if e.Category != "" {
		props[propCategory] = notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: e.Category,
			},
		}
	}

	return props
}
