package model

// UncategorizedCategory is the category used on commit for entries the user never categorized.
const UncategorizedCategory = "Uncategorized"

// Category represents a product category.
type Category struct {
	Name string
	ID   int64
}

// Product is a known catalog product belonging to exactly one category.
type Product struct {
	Name       string
	ID         int64
	CategoryID int64
}
