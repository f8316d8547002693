package core

// Category is an entry of the fixed expense category catalogue.
type Category struct {
	ID   string
	Name string
	Icon string
}

var Categories = []Category{
	{ID: "food", Name: "Food", Icon: "🍔"},
	{ID: "transport", Name: "Transport", Icon: "🚌"},
	{ID: "shopping", Name: "Shopping", Icon: "🛍️"},
	{ID: "entertainment", Name: "Entertainment", Icon: "🎬"},
	{ID: "health", Name: "Health", Icon: "🏥"},
	{ID: "education", Name: "Education", Icon: "📚"},
	{ID: "utilities", Name: "Utilities", Icon: "💡"},
	{ID: CategorySubscription, Name: "Subscription", Icon: "🔄"},
	{ID: "other", Name: "Other", Icon: "📌"},
}

// LookupCategory returns the catalogue entry for id.
func LookupCategory(id string) (Category, bool) {
	for _, c := range Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}
