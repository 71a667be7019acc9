package classify

// DefaultTable returns the stock keyword table. The keyword lists grew out
// of real ledger data, typos included; matching is substring-based so the
// misspellings catch the same records they were added for.
func DefaultTable() *Table {
	return NewTable([]Category{
		{Label: "Income1", Keywords: []string{"income1"}},
		{Label: "Income2", Keywords: []string{"income2"}},
		{Label: "Income3", Keywords: []string{"income3"}},
		{Label: "Income4", Keywords: []string{"income4"}},
		{Label: "Income5", Keywords: []string{"income5"}},
		{Label: "Food & Dining", Keywords: []string{
			"grocery", "geocery", "starbucks", "coffee", "stsrbucks", "dinner",
			"lunch", "cafe", "wee", "trade joe", "h mart", "lamian", "ice cream",
			"snacks", "dish", "gum", "mocha", "purple drinks", "ice coffee",
		}},
		{Label: "Transportation", Keywords: []string{
			"uber", "bus", "subway", "ticket", "air", "ny-boston", "travel-taxi",
			"travel bus",
		}},
		{Label: "Shopping", Keywords: []string{
			"shein", "scarf", "socks", "case", "clothes", "cloth", "decoration",
			"tv", "mount", "stand", "spray", "mop", "glue", "file", "headphone",
			"iphone", "laptop", "laplop", "mask", "lighting", "plant", "battery",
			"map", "item",
		}},
		{Label: "Entertainment", Keywords: []string{
			"tennis", "card", "big head", "headshot", "boost", "swimming", "pool",
		}},
		{Label: "Health & Wellness", Keywords: []string{
			"yoga", "nail", "tail", "white", "body",
		}},
		{Label: "Utilities & Bills", Keywords: []string{
			"spectrum", "equipment", "membership", "cursor", "ieee", "mint",
			"mobile", "apple care", "ai tools",
		}},
		{Label: "Travel", Keywords: []string{
			"travel", "visa", "hotel", "airbnb", "chicago", "boston", "ohio",
			"back home", "chicago to boston",
		}},
		{Label: "Services", Keywords: []string{
			"logistic", "application", "opt", "editing", "set up", "mounting",
		}},
		{Label: "Other", Keywords: []string{"daily expense", "expense"}},
	})
}
