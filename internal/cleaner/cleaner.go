package cleaner

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Felipwz/dataops-governance-lab-TF/internal/audit"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/domain"
)

// Cleaner applies the ordered correction rules to the four entity datasets
// and records every change it makes. A Cleaner is scoped to a single run: it
// owns the correction log for that run and is not safe for concurrent use.
type Cleaner struct {
	runID       string
	sink        audit.Sink
	log         *zap.Logger
	now         func() time.Time
	corrections []domain.Correction
}

// New creates a Cleaner for one pipeline run.
func New(runID string, sink audit.Sink, log *zap.Logger) *Cleaner {
	return &Cleaner{
		runID: runID,
		sink:  sink,
		log:   log,
		now:   time.Now,
	}
}

// Corrections returns the correction log accumulated so far, in order.
func (c *Cleaner) Corrections() []domain.Correction {
	return c.corrections
}

// logCorrection appends one audit entry and notifies the sink.
func (c *Cleaner) logCorrection(dataset string, recordID int64, field, oldValue, newValue, reason string) {
	correction := domain.Correction{
		Timestamp: c.now(),
		RunID:     c.runID,
		Dataset:   dataset,
		RecordID:  recordID,
		Field:     field,
		OldValue:  oldValue,
		NewValue:  newValue,
		Reason:    reason,
	}
	c.corrections = append(c.corrections, correction)
	c.sink.CorrectionApplied(correction)
}

// logSummary records a dataset-level entry for drops and flag operations.
func (c *Cleaner) logSummary(dataset, field, reason string, count int) {
	if count == 0 {
		return
	}
	c.logCorrection(dataset, 0, field, "", "", fmt.Sprintf("%s (%d records)", reason, count))
}

// Result bundles the outcome of a full cleaning run. Dropped and flagged
// rows are returned as values so callers can audit removals without parsing
// the correction log.
type Result struct {
	Tables      domain.Tables
	Customers   CustomerResult
	Products    ProductResult
	Sales       SaleResult
	Shipments   ShipmentResult
	Corrections []domain.Correction
}

// CleanAll cleans the four datasets strictly in dependency order: sales need
// cleaned customers and products, shipments need cleaned sales. Input slices
// are never mutated. A nil input collection is treated as a dataset that
// failed upstream: its children are dropped for lack of valid references.
func (c *Cleaner) CleanAll(tables domain.Tables) Result {
	c.log.Info("Starting automated cleaning",
		zap.Int("customers", len(tables.Customers)),
		zap.Int("products", len(tables.Products)),
		zap.Int("sales", len(tables.Sales)),
		zap.Int("shipments", len(tables.Shipments)))

	customers := c.CleanCustomers(tables.Customers)
	products := c.CleanProducts(tables.Products)
	sales := c.CleanSales(tables.Sales, customers.Cleaned, products.Cleaned)
	shipments := c.CleanShipments(tables.Shipments, sales.Cleaned)

	result := Result{
		Tables: domain.Tables{
			Customers: customers.Cleaned,
			Products:  products.Cleaned,
			Sales:     sales.Cleaned,
			Shipments: shipments.Cleaned,
		},
		Customers:   customers,
		Products:    products,
		Sales:       sales,
		Shipments:   shipments,
		Corrections: c.corrections,
	}

	c.log.Info("Cleaning finished",
		zap.Int("customers_out", len(customers.Cleaned)),
		zap.Int("products_out", len(products.Cleaned)),
		zap.Int("sales_out", len(sales.Cleaned)),
		zap.Int("shipments_out", len(shipments.Cleaned)),
		zap.Int("corrections", len(c.corrections)))

	return result
}
