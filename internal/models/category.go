package models

// Category is the enumerated spending category of an expense.
type Category string

const (
	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
	CategoryHousing       Category = "housing"
	CategoryUtilities     Category = "utilities"
	CategoryEntertainment Category = "entertainment"
	CategoryHealth        Category = "health"
	CategoryShopping      Category = "shopping"
	CategoryEducation     Category = "education"
	CategoryTravel        Category = "travel"
	CategoryOther         Category = "other"
)

// CategoryOption pairs a category with its display label.
type CategoryOption struct {
	Value Category
	Label string
}

// Categories lists every category in display order.
var Categories = []CategoryOption{
	{CategoryFood, "Food"},
	{CategoryTransport, "Transport"},
	{CategoryHousing, "Housing"},
	{CategoryUtilities, "Utilities"},
	{CategoryEntertainment, "Entertainment"},
	{CategoryHealth, "Health"},
	{CategoryShopping, "Shopping"},
	{CategoryEducation, "Education"},
	{CategoryTravel, "Travel"},
	{CategoryOther, "Other"},
}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	for _, opt := range Categories {
		if opt.Value == c {
			return true
		}
	}
	return false
}

// Label returns the display label, or the raw value for unknown categories.
func (c Category) Label() string {
	for _, opt := range Categories {
		if opt.Value == c {
			return opt.Label
		}
	}
	return string(c)
}
