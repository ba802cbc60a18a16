package domain

import "time"

// Sale statuses after title-case normalization.
const (
	SaleStatusCompleted  = "Completed"
	SaleStatusPending    = "Pending"
	SaleStatusCancelled  = "Cancelled"
	SaleStatusProcessing = "Processing"
)

// TotalTolerance is the maximum accepted drift between the stored total and
// quantity × unit price before the total is recomputed.
const TotalTolerance = 0.01

// Sale represents a sales transaction referencing a customer and a product.
type Sale struct {
	ID         int64
	CustomerID int64
	ProductID  int64
	Quantity   int64
	UnitPrice  float64
	Total      float64
	SoldAtRaw  string
	SoldAt     *time.Time
	Status     string
}
