package model

import "time"

// Product holds the catalog fields the checkout core reads plus the
// inventory counters it owns. Quantity and Sold are only ever mutated
// through the inventory ledger's conditional updates.
type Product struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	Price       float64   `json:"price" db:"price"`
	Image       string    `json:"image,omitempty" db:"image"`
	Quantity    int       `json:"quantity" db:"quantity"`
	Sold        int       `json:"sold" db:"sold"`
	Active      bool      `json:"active" db:"active"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}
