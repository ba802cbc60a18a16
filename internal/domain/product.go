package domain

import "time"

// DefaultCategory is assigned to products whose category is blank.
const DefaultCategory = "Uncategorized"

// Product represents a catalog product. ActiveRaw holds the textual flag as
// loaded ("true"/"False"/...); Active is set when the flag is parsed during
// cleaning.
type Product struct {
	ID           int64
	Name         string
	Category     string
	Price        float64
	Stock        int64
	ActiveRaw    string
	Active       bool
	CreatedAtRaw string
	CreatedAt    *time.Time
}
