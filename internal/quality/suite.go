package quality

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Felipwz/dataops-governance-lab-TF/internal/domain"
)

// Supported check types, covering the six quality dimensions: completeness,
// uniqueness, validity, consistency, accuracy and timeliness.
const (
	CheckNotNull       = "not_null"
	CheckUnique        = "unique"
	CheckMatchRegex    = "match_regex"
	CheckInSet         = "in_set"
	CheckBetween       = "between"
	CheckLengthBetween = "length_between"
	CheckNotFuture     = "not_future"
)

// Check is one rule evaluated against a dataset column.
type Check struct {
	ID     string `yaml:"id"`
	Type   string `yaml:"type"`
	Column string `yaml:"column"`

	Pattern string   `yaml:"pattern,omitempty"`
	Allowed []string `yaml:"allowed,omitempty"`

	Min *float64 `yaml:"min,omitempty"`
	Max *float64 `yaml:"max,omitempty"`

	// Mostly relaxes the rule: the fraction of rows that must pass,
	// e.g. 0.92. Zero means every row must pass.
	Mostly float64 `yaml:"mostly,omitempty"`

	// Note documents a known caveat, surfaced with failures. The default
	// suites use it to mark the checks that contradict the cleaning policy.
	Note string `yaml:"note,omitempty"`
}

// Suite is the ordered rule set for one dataset.
type Suite struct {
	Dataset string  `yaml:"dataset"`
	Checks  []Check `yaml:"checks"`
}

type suiteFile struct {
	Suites []Suite `yaml:"suites"`
}

// LoadSuites reads suite definitions from a YAML file.
func LoadSuites(path string) ([]Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file: %w", err)
	}

	var file suiteFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse suite file: %w", err)
	}
	if err := ValidateSuites(file.Suites); err != nil {
		return nil, err
	}
	return file.Suites, nil
}

// ValidateSuites rejects malformed suite definitions before evaluation.
func ValidateSuites(suites []Suite) error {
	if len(suites) == 0 {
		return errors.New("suites must be non-empty")
	}

	seen := make(map[string]struct{})
	for i, suite := range suites {
		if strings.TrimSpace(suite.Dataset) == "" {
			return fmt.Errorf("suites[%d].dataset is required", i)
		}
		for j, check := range suite.Checks {
			if strings.TrimSpace(check.ID) == "" {
				return fmt.Errorf("suites[%d].checks[%d].id is required", i, j)
			}
			if _, dup := seen[check.ID]; dup {
				return fmt.Errorf("suites[%d].checks[%d].id must be unique (duplicate %q)", i, j, check.ID)
			}
			seen[check.ID] = struct{}{}

			if strings.TrimSpace(check.Column) == "" {
				return fmt.Errorf("suites[%d].checks[%d].column is required", i, j)
			}
			if check.Mostly < 0 || check.Mostly > 1 {
				return fmt.Errorf("suites[%d].checks[%d].mostly must be in [0,1]", i, j)
			}

			switch check.Type {
			case CheckNotNull, CheckUnique, CheckNotFuture:
			case CheckMatchRegex:
				if check.Pattern == "" {
					return fmt.Errorf("suites[%d].checks[%d] match_regex requires pattern", i, j)
				}
			case CheckInSet:
				if len(check.Allowed) == 0 {
					return fmt.Errorf("suites[%d].checks[%d] in_set requires allowed", i, j)
				}
			case CheckBetween, CheckLengthBetween:
				if check.Min == nil && check.Max == nil {
					return fmt.Errorf("suites[%d].checks[%d] %s requires min or max", i, j, check.Type)
				}
			default:
				return fmt.Errorf("suites[%d].checks[%d].type unsupported: %q", i, j, check.Type)
			}
		}
	}
	return nil
}

func ptrFloat(f float64) *float64 { return &f }

// DefaultSuites returns the built-in rule sets used when no suite file is
// configured. The not_null checks on customer email and birth date are kept
// deliberately: the cleaning policy nulls invalid values in those fields, so
// their failures measure how much unusable data arrived, not a cleaning bug.
// The Note field carries that caveat into every report.
func DefaultSuites() []Suite {
	nullingNote := "cleaning nulls unusable values in this field; failures are expected residue"

	return []Suite{
		{
			Dataset: domain.DatasetCustomers,
			Checks: []Check{
				{ID: "customers_id_unique", Type: CheckUnique, Column: "id"},
				{ID: "customers_name_not_null", Type: CheckNotNull, Column: "name"},
				{ID: "customers_email_not_null", Type: CheckNotNull, Column: "email", Note: nullingNote},
				{ID: "customers_email_format", Type: CheckMatchRegex, Column: "email",
					Pattern: `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`, Mostly: 0.92},
				{ID: "customers_phone_length", Type: CheckLengthBetween, Column: "phone",
					Min: ptrFloat(10), Max: ptrFloat(11), Mostly: 0.90},
				{ID: "customers_state_format", Type: CheckMatchRegex, Column: "state", Pattern: `^[A-Z]{2}$`},
				{ID: "customers_birth_date_not_null", Type: CheckNotNull, Column: "birth_date", Note: nullingNote},
				{ID: "customers_registered_at_not_null", Type: CheckNotNull, Column: "registered_at"},
			},
		},
		{
			Dataset: domain.DatasetProducts,
			Checks: []Check{
				{ID: "products_id_unique", Type: CheckUnique, Column: "id"},
				{ID: "products_name_not_null", Type: CheckNotNull, Column: "name"},
				{ID: "products_price_positive", Type: CheckBetween, Column: "price",
					Min: ptrFloat(0.01), Max: ptrFloat(1000000), Mostly: 0.95},
				{ID: "products_stock_non_negative", Type: CheckBetween, Column: "stock", Min: ptrFloat(0)},
				{ID: "products_category_not_null", Type: CheckNotNull, Column: "category"},
			},
		},
		{
			Dataset: domain.DatasetSales,
			Checks: []Check{
				{ID: "sales_id_unique", Type: CheckUnique, Column: "id"},
				{ID: "sales_quantity_range", Type: CheckBetween, Column: "quantity",
					Min: ptrFloat(1), Max: ptrFloat(1000), Mostly: 0.90},
				{ID: "sales_unit_price_positive", Type: CheckBetween, Column: "unit_price",
					Min: ptrFloat(0.01), Mostly: 0.95},
				{ID: "sales_status_valid", Type: CheckInSet, Column: "status",
					Allowed: []string{
						domain.SaleStatusCompleted, domain.SaleStatusPending,
						domain.SaleStatusCancelled, domain.SaleStatusProcessing,
					}},
				{ID: "sales_sold_at_not_future", Type: CheckNotFuture, Column: "sold_at"},
			},
		},
		{
			Dataset: domain.DatasetShipments,
			Checks: []Check{
				{ID: "shipments_id_unique", Type: CheckUnique, Column: "id"},
				{ID: "shipments_delivery_status_not_null", Type: CheckNotNull, Column: "delivery_status"},
			},
		},
	}
}
