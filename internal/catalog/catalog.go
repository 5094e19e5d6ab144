package catalog

import "fintrack/internal/models"

type Category struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`
	Icon  string `json:"icon"`
}

// Catalog is the immutable set of categories a transaction may carry.
type Catalog struct {
	all   []Category
	byKey map[string]Category
}

// Grouped is the catalog split the way clients render pickers.
type Grouped struct {
	Expense []Category `json:"expense"`
	Income  []Category `json:"income"`
	All     []Category `json:"all"`
}

func New(categories []Category) *Catalog {
	c := &Catalog{
		all:   make([]Category, len(categories)),
		byKey: make(map[string]Category, len(categories)),
	}
	copy(c.all, categories)
	for _, cat := range categories {
		c.byKey[cat.Key] = cat
	}
	return c
}

// Default returns the built-in category table.
func Default() *Catalog {
	return New([]Category{
		{Key: "food", Label: "Food & Drinks", Type: models.TypeExpense, Icon: "🍜"},
		{Key: "transport", Label: "Transport", Type: models.TypeExpense, Icon: "🚌"},
		{Key: "rent", Label: "Rent", Type: models.TypeExpense, Icon: "🏠"},
		{Key: "shopping", Label: "Shopping", Type: models.TypeExpense, Icon: "🛍️"},
		{Key: "entertainment", Label: "Entertainment", Type: models.TypeExpense, Icon: "🎮"},
		{Key: "health", Label: "Health", Type: models.TypeExpense, Icon: "💊"},
		{Key: "education", Label: "Education", Type: models.TypeExpense, Icon: "🎓"},
		{Key: "other", Label: "Other", Type: models.TypeExpense, Icon: "🪙"},

		{Key: "salary", Label: "Salary", Type: models.TypeIncome, Icon: "💼"},
		{Key: "scholarship", Label: "Scholarship", Type: models.TypeIncome, Icon: "🎓"},
		{Key: "gift", Label: "Gift", Type: models.TypeIncome, Icon: "🎁"},
		{Key: "parents", Label: "Parents", Type: models.TypeIncome, Icon: "🎁"},
		{Key: "other_income", Label: "Other", Type: models.TypeIncome, Icon: "💰"},

		{Key: models.CategoryTransferOut, Label: "Transfer Out", Type: models.TypeTransfer, Icon: "↗️"},
		{Key: models.CategoryTransferIn, Label: "Transfer In", Type: models.TypeTransfer, Icon: "↙️"},
	})
}

func (c *Catalog) Lookup(key string) (Category, bool) {
	cat, ok := c.byKey[key]
	return cat, ok
}

// Valid reports whether key exists and belongs to txType.
func (c *Catalog) Valid(key, txType string) bool {
	cat, ok := c.byKey[key]
	return ok && cat.Type == txType
}

func (c *Catalog) ByType(txType string) []Category {
	out := make([]Category, 0)
	for _, cat := range c.all {
		if cat.Type == txType {
			out = append(out, cat)
		}
	}
	return out
}

func (c *Catalog) All() []Category {
	out := make([]Category, len(c.all))
	copy(out, c.all)
	return out
}

func (c *Catalog) Grouped() Grouped {
	return Grouped{
		Expense: c.ByType(models.TypeExpense),
		Income:  c.ByType(models.TypeIncome),
		All:     c.All(),
	}
}
