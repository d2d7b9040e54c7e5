package model

import "time"

// Product is a catalog item. Tag slices (categories, age groups, seasons,
// occasions) drive the storefront filters.
type Product struct {
	ID         string     `json:"id"`
	Price      float64    `json:"price"`
	ImageURL   string     `json:"imageUrl"`
	Categories []string   `json:"categories"`
	AgeGroups  []string   `json:"ageGroups"`
	Seasons    []string   `json:"seasons"`
	Occasions  []string   `json:"occasions"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

// ProductFilter narrows a product listing. Empty fields match everything.
type ProductFilter struct {
	Category string
	AgeGroup string
	Season   string
	Occasion string
}

// ProductUpdate carries a partial update; nil fields are left unchanged.
type ProductUpdate struct {
	Price      *float64  `json:"price"`
	Categories *[]string `json:"categories"`
	AgeGroups  *[]string `json:"ageGroups"`
	Seasons    *[]string `json:"seasons"`
	Occasions  *[]string `json:"occasions"`
}
