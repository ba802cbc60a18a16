package cleaner

import (
	"math"
	"strconv"

	"go.uber.org/zap"

	"github.com/Felipwz/dataops-governance-lab-TF/internal/domain"
)

// SaleResult holds the cleaned sale collection and the rows dropped for
// referential-integrity violations.
type SaleResult struct {
	Cleaned []domain.Sale
	Dropped []domain.Sale
}

// CleanSales applies the sale rule set in order. Referential drops against
// the cleaned customer and product sets happen before any value correction
// so corrections never operate on orphaned rows.
func (c *Cleaner) CleanSales(raw []domain.Sale, customers []domain.Customer, products []domain.Product) SaleResult {
	c.log.Info("Cleaning sales", zap.Int("rows", len(raw)))

	rows := make([]domain.Sale, len(raw))
	copy(rows, raw)

	customerIDs := make(map[int64]struct{}, len(customers))
	for _, cust := range customers {
		customerIDs[cust.ID] = struct{}{}
	}
	productIDs := make(map[int64]struct{}, len(products))
	for _, p := range products {
		productIDs[p.ID] = struct{}{}
	}

	cleaned := make([]domain.Sale, 0, len(rows))
	var dropped []domain.Sale
	orphanCustomers, orphanProducts := 0, 0

	for _, row := range rows {
		if _, ok := customerIDs[row.CustomerID]; !ok {
			dropped = append(dropped, row)
			orphanCustomers++
			continue
		}
		if _, ok := productIDs[row.ProductID]; !ok {
			dropped = append(dropped, row)
			orphanProducts++
			continue
		}
		cleaned = append(cleaned, row)
	}

	c.logSummary(domain.DatasetSales, "customer_id",
		"sales referencing unknown customers dropped", orphanCustomers)
	c.logSummary(domain.DatasetSales, "product_id",
		"sales referencing unknown products dropped", orphanProducts)

	for i := range cleaned {
		c.cleanSaleFields(&cleaned[i])
	}

	c.log.Info("Sales cleaned",
		zap.Int("rows_in", len(raw)),
		zap.Int("rows_out", len(cleaned)),
		zap.Int("orphans_dropped", len(dropped)))

	return SaleResult{Cleaned: cleaned, Dropped: dropped}
}

func (c *Cleaner) cleanSaleFields(s *domain.Sale) {
	if titleCase(s.Status) != domain.SaleStatusCancelled && s.Quantity < 0 {
		fixed := -s.Quantity
		c.logCorrection(domain.DatasetSales, s.ID, "quantity",
			strconv.FormatInt(s.Quantity, 10), strconv.FormatInt(fixed, 10),
			"negative quantity converted to absolute value")
		s.Quantity = fixed
	}

	expected := float64(s.Quantity) * s.UnitPrice
	if math.Abs(s.Total-expected) > domain.TotalTolerance {
		c.logCorrection(domain.DatasetSales, s.ID, "total",
			formatFloat(s.Total), formatFloat(expected),
			"total recomputed as quantity times unit price")
		s.Total = expected
	}

	if s.SoldAt == nil && s.SoldAtRaw != "" {
		s.SoldAt = parseDate(s.SoldAtRaw)
		if s.SoldAt == nil {
			c.logCorrection(domain.DatasetSales, s.ID, "sold_at",
				s.SoldAtRaw, "", "unparseable sale date nulled")
			s.SoldAtRaw = ""
		}
	}
	if s.SoldAt != nil {
		now := c.now()
		if s.SoldAt.After(now) {
			c.logCorrection(domain.DatasetSales, s.ID, "sold_at",
				s.SoldAt.Format("2006-01-02 15:04:05"), now.Format("2006-01-02 15:04:05"),
				"future sale date clamped to current time")
			s.SoldAt = &now
			s.SoldAtRaw = now.Format("2006-01-02 15:04:05")
		}
	}

	if status := titleCase(s.Status); status != s.Status {
		c.logCorrection(domain.DatasetSales, s.ID, "status",
			s.Status, status, "status title-cased")
		s.Status = status
	}
}
