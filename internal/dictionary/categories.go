package dictionary

import "github.com/pocketfin/pocketfin/internal/finance"

// CategoryDef describes one built-in category the client can tag a
// transaction with. Purely descriptive; nothing couples categories to
// wallet balances.
type CategoryDef struct {
	Value   string                  `json:"value"`
	Label   string                  `json:"label"`
	Icon    string                  `json:"icon"`
	BgColor string                  `json:"bg_color"`
	Type    finance.TransactionType `json:"type"`
}

var curated = map[finance.TransactionType][]CategoryDef{
	finance.TypeExpense: {
		{Value: "groceries", Label: "Groceries", Icon: "shopping-cart", BgColor: "#4B5563"},
		{Value: "rent", Label: "Rent", Icon: "home", BgColor: "#075985"},
		{Value: "utilities", Label: "Utilities", Icon: "bolt", BgColor: "#ca8a04"},
		{Value: "transportation", Label: "Transportation", Icon: "car", BgColor: "#b45309"},
		{Value: "entertainment", Label: "Entertainment", Icon: "film", BgColor: "#0f766e"},
		{Value: "dining", Label: "Dining", Icon: "utensils", BgColor: "#be185d"},
		{Value: "health", Label: "Health", Icon: "heartbeat", BgColor: "#e11d48"},
		{Value: "insurance", Label: "Insurance", Icon: "shield", BgColor: "#404040"},
		{Value: "savings", Label: "Savings", Icon: "piggy-bank", BgColor: "#065f46"},
		{Value: "clothing", Label: "Clothing", Icon: "shirt", BgColor: "#7c3aed"},
		{Value: "personal", Label: "Personal", Icon: "user", BgColor: "#a21caf"},
		{Value: "others", Label: "Others", Icon: "ellipsis-h", BgColor: "#525252"},
	},
	finance.TypeIncome: {
		{Value: "salary", Label: "Salary", Icon: "money-bill", BgColor: "#16a34a"},
		{Value: "interest", Label: "Interest", Icon: "percent", BgColor: "#0284c7"},
		{Value: "refund", Label: "Refund", Icon: "rotate-left", BgColor: "#0e7490"},
		{Value: "other_income", Label: "Other Income", Icon: "coins", BgColor: "#059669"},
	},
}

func init() {
	for t, list := range curated {
		for i := range list {
			curated[t][i].Type = t
		}
	}
}

// CategoriesFor returns the curated categories for a type, or all of them when
// t is nil.
func CategoriesFor(t *finance.TransactionType) []CategoryDef {
	if t == nil {
		out := make([]CategoryDef, 0)
		out = append(out, curated[finance.TypeExpense]...)
		out = append(out, curated[finance.TypeIncome]...)
		return out
	}
	return curated[*t]
}

// Lookup resolves a category value within a type.
func Lookup(t finance.TransactionType, value string) (CategoryDef, bool) {
	for _, c := range curated[t] {
		if c.Value == value {
			return c, true
		}
	}
	return CategoryDef{}, false
}
