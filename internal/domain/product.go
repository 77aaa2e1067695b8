package domain

import (
	"time"
)

// Product category constants.
const (
	CategoryElectronics = "electronics"
	CategoryClothing    = "clothing"
	CategoryBooks       = "books"
	CategoryHome        = "home"
)

// Product sort key constants. A leading hyphen means descending order.
const (
	SortByNameAsc     = "name"
	SortByNameDesc    = "-name"
	SortByCreatedAsc  = "createdAt"
	SortByCreatedDesc = "-createdAt"
)

// Product represents a product in the catalog. AverageRating is a cached
// aggregate maintained by the review repository, rounded to one decimal place.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	PriceCents    int64     `json:"price_cents"`
	Stock         int       `json:"stock"`
	ImageURL      string    `json:"image_url,omitempty"`
	AverageRating float64   `json:"average_rating"`
	ReviewCount   int       `json:"review_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProductFilter holds the optional listing filters.
type ProductFilter struct {
	Search   string
	Category string
	SortBy   string
}

// ValidCategories returns the set of valid product categories.
func ValidCategories() []string {
	return []string{CategoryElectronics, CategoryClothing, CategoryBooks, CategoryHome}
}

// IsValidCategory checks whether the given category string is a valid product category.
func IsValidCategory(category string) bool {
	for _, c := range ValidCategories() {
		if c == category {
			return true
		}
	}
	return false
}

// ValidSortByValues returns the set of valid sort keys.
func ValidSortByValues() []string {
	return []string{SortByNameAsc, SortByNameDesc, SortByCreatedAsc, SortByCreatedDesc}
}

// IsValidSortBy checks whether the given sort key is valid. The empty string
// is valid and means the default ordering (newest first).
func IsValidSortBy(sortBy string) bool {
	if sortBy == "" {
		return true
	}
	for _, v := range ValidSortByValues() {
		if v == sortBy {
			return true
		}
	}
	return false
}
