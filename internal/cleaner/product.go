package cleaner

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Felipwz/dataops-governance-lab-TF/internal/domain"
)

// ProductResult holds the cleaned product collection and the fully-duplicate
// rows that were dropped.
type ProductResult struct {
	Cleaned []domain.Product
	Dropped []domain.Product
}

// CleanProducts applies the product rule set in order: drop full duplicates,
// fix negative prices and stock, default and normalize the category, trim
// the name, parse the active flag and the creation date.
func (c *Cleaner) CleanProducts(raw []domain.Product) ProductResult {
	c.log.Info("Cleaning products", zap.Int("rows", len(raw)))

	rows := make([]domain.Product, len(raw))
	copy(rows, raw)

	result := c.dropDuplicateProducts(rows)

	for i := range result.Cleaned {
		c.cleanProductFields(&result.Cleaned[i])
	}

	c.log.Info("Products cleaned",
		zap.Int("rows_in", len(raw)),
		zap.Int("rows_out", len(result.Cleaned)),
		zap.Int("duplicates_dropped", len(result.Dropped)))

	return result
}

// dropDuplicateProducts removes rows identical in every loaded field,
// keeping the first occurrence.
func (c *Cleaner) dropDuplicateProducts(rows []domain.Product) ProductResult {
	seen := make(map[string]struct{}, len(rows))
	cleaned := make([]domain.Product, 0, len(rows))
	var dropped []domain.Product

	for _, row := range rows {
		key := fmt.Sprintf("%d|%s|%s|%s|%d|%s|%s",
			row.ID, row.Name, row.Category,
			strconv.FormatFloat(row.Price, 'f', -1, 64),
			row.Stock, row.ActiveRaw, row.CreatedAtRaw)
		if _, dup := seen[key]; dup {
			dropped = append(dropped, row)
			continue
		}
		seen[key] = struct{}{}
		cleaned = append(cleaned, row)
	}

	c.logSummary(domain.DatasetProducts, "", "fully duplicate rows dropped", len(dropped))
	return ProductResult{Cleaned: cleaned, Dropped: dropped}
}

func (c *Cleaner) cleanProductFields(p *domain.Product) {
	if p.Price < 0 {
		fixed := -p.Price
		c.logCorrection(domain.DatasetProducts, p.ID, "price",
			formatFloat(p.Price), formatFloat(fixed), "negative price converted to absolute value")
		p.Price = fixed
	}

	if p.Stock < 0 {
		c.logCorrection(domain.DatasetProducts, p.ID, "stock",
			strconv.FormatInt(p.Stock, 10), "0", "negative stock clamped to zero")
		p.Stock = 0
	}

	if strings.TrimSpace(p.Category) == "" {
		c.logCorrection(domain.DatasetProducts, p.ID, "category",
			p.Category, domain.DefaultCategory, "blank category defaulted")
		p.Category = domain.DefaultCategory
	}
	if category := titleCase(p.Category); category != p.Category {
		c.logCorrection(domain.DatasetProducts, p.ID, "category",
			p.Category, category, "category title-cased")
		p.Category = category
	}

	if name := strings.TrimSpace(p.Name); name != p.Name {
		c.logCorrection(domain.DatasetProducts, p.ID, "name",
			p.Name, name, "product name trimmed")
		p.Name = name
	}

	c.parseActiveFlag(p)

	if p.CreatedAt == nil && p.CreatedAtRaw != "" {
		p.CreatedAt = parseDate(p.CreatedAtRaw)
		if p.CreatedAt == nil {
			c.logCorrection(domain.DatasetProducts, p.ID, "created_at",
				p.CreatedAtRaw, "", "unparseable creation date nulled")
			p.CreatedAtRaw = ""
		}
	}
}

// parseActiveFlag normalizes the textual flag case-insensitively. Values
// that are neither true nor false default to inactive.
func (c *Cleaner) parseActiveFlag(p *domain.Product) {
	normalized := strings.ToLower(strings.TrimSpace(p.ActiveRaw))
	switch normalized {
	case "true":
		p.Active = true
	case "false":
		p.Active = false
	default:
		c.logCorrection(domain.DatasetProducts, p.ID, "active",
			p.ActiveRaw, "false", "unrecognized active flag defaulted to false")
		p.Active = false
		p.ActiveRaw = "false"
		return
	}
	if normalized != p.ActiveRaw {
		c.logCorrection(domain.DatasetProducts, p.ID, "active",
			p.ActiveRaw, normalized, "active flag normalized")
		p.ActiveRaw = normalized
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
