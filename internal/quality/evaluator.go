package quality

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Felipwz/dataops-governance-lab-TF/internal/domain"
)

// cell is one column value in evaluation form. Null covers both empty text
// and nil dates.
type cell struct {
	text   string
	num    float64
	hasNum bool
	date   *time.Time
	null   bool
}

func textCell(s string) cell {
	return cell{text: s, null: strings.TrimSpace(s) == ""}
}

func numCell(f float64) cell {
	return cell{text: strconv.FormatFloat(f, 'f', -1, 64), num: f, hasNum: true}
}

func intCell(i int64) cell {
	return cell{text: strconv.FormatInt(i, 10), num: float64(i), hasNum: true}
}

func dateCell(t *time.Time) cell {
	if t == nil {
		return cell{null: true}
	}
	return cell{text: t.Format("2006-01-02 15:04:05"), date: t}
}

// Evaluator runs rule suites against in-memory tables.
type Evaluator struct {
	suites map[string]Suite
	tables domain.Tables
	now    func() time.Time
	log    *zap.Logger
}

// NewEvaluator creates an evaluator for one set of cleaned tables.
func NewEvaluator(suites []Suite, tables domain.Tables, log *zap.Logger) *Evaluator {
	indexed := make(map[string]Suite, len(suites))
	for _, s := range suites {
		indexed[s.Dataset] = s
	}
	return &Evaluator{suites: indexed, tables: tables, now: time.Now, log: log}
}

// Evaluate runs the suite registered for a dataset and aggregates it into a
// single outcome: success only when every check passes.
func (e *Evaluator) Evaluate(dataset string) CheckOutcome {
	suite, ok := e.suites[dataset]
	if !ok {
		return CheckOutcome{Success: false, Error: fmt.Sprintf("no suite registered for dataset %q", dataset)}
	}

	var failing []string
	for _, check := range suite.Checks {
		if outcome := e.runCheck(suite.Dataset, check); !outcome.Success {
			failing = append(failing, outcome.Error)
		}
	}
	if len(failing) > 0 {
		return CheckOutcome{Success: false, Error: strings.Join(failing, "; ")}
	}
	return CheckOutcome{Success: true}
}

// RunAll evaluates every suite check individually and produces the report
// consumed by the alert engine.
func (e *Evaluator) RunAll() Results {
	checks := make(map[string]CheckOutcome)
	for _, suite := range e.suites {
		for _, check := range suite.Checks {
			checks[check.ID] = e.runCheck(suite.Dataset, check)
		}
	}

	results := Results{Checks: checks, Summary: summarize(checks)}

	e.log.Info("Quality checks executed",
		zap.Int("total", results.Summary.Total),
		zap.Int("failed", results.Summary.Failed),
		zap.Float64("success_rate", results.Summary.SuccessRate))

	return results
}

func (e *Evaluator) runCheck(dataset string, check Check) CheckOutcome {
	cells, err := e.column(dataset, check.Column)
	if err != nil {
		return CheckOutcome{Success: false, Error: err.Error()}
	}

	failed := 0
	switch check.Type {
	case CheckNotNull:
		for _, c := range cells {
			if c.null {
				failed++
			}
		}
	case CheckUnique:
		seen := make(map[string]struct{}, len(cells))
		for _, c := range cells {
			if _, dup := seen[c.text]; dup {
				failed++
			}
			seen[c.text] = struct{}{}
		}
	case CheckMatchRegex:
		re, reErr := regexp.Compile(check.Pattern)
		if reErr != nil {
			return CheckOutcome{Success: false, Error: fmt.Sprintf("%s: bad pattern: %v", check.ID, reErr)}
		}
		for _, c := range cells {
			if !c.null && !re.MatchString(c.text) {
				failed++
			}
		}
	case CheckInSet:
		allowed := make(map[string]struct{}, len(check.Allowed))
		for _, v := range check.Allowed {
			allowed[v] = struct{}{}
		}
		for _, c := range cells {
			if _, ok := allowed[c.text]; !c.null && !ok {
				failed++
			}
		}
	case CheckBetween:
		for _, c := range cells {
			if !c.hasNum {
				continue
			}
			if (check.Min != nil && c.num < *check.Min) || (check.Max != nil && c.num > *check.Max) {
				failed++
			}
		}
	case CheckLengthBetween:
		for _, c := range cells {
			if c.null {
				continue
			}
			length := float64(len([]rune(c.text)))
			if (check.Min != nil && length < *check.Min) || (check.Max != nil && length > *check.Max) {
				failed++
			}
		}
	case CheckNotFuture:
		now := e.now()
		for _, c := range cells {
			if c.date != nil && c.date.After(now) {
				failed++
			}
		}
	default:
		return CheckOutcome{Success: false, Error: fmt.Sprintf("%s: unsupported check type %q", check.ID, check.Type)}
	}

	if pass(failed, len(cells), check.Mostly) {
		return CheckOutcome{Success: true}
	}

	msg := fmt.Sprintf("%s: %d/%d rows failed %s on %s.%s",
		check.ID, failed, len(cells), check.Type, dataset, check.Column)
	if check.Note != "" {
		msg += " (" + check.Note + ")"
	}
	return CheckOutcome{Success: false, Error: msg}
}

// pass applies the mostly tolerance: the check passes when the passing
// fraction is at least Mostly (or when nothing failed).
func pass(failed, total int, mostly float64) bool {
	if failed == 0 || total == 0 {
		return true
	}
	if mostly <= 0 {
		return false
	}
	return float64(total-failed)/float64(total) >= mostly
}

// column materializes one dataset column as cells.
func (e *Evaluator) column(dataset, column string) ([]cell, error) {
	switch dataset {
	case domain.DatasetCustomers:
		return customerColumn(e.tables.Customers, column)
	case domain.DatasetProducts:
		return productColumn(e.tables.Products, column)
	case domain.DatasetSales:
		return saleColumn(e.tables.Sales, column)
	case domain.DatasetShipments:
		return shipmentColumn(e.tables.Shipments, column)
	default:
		return nil, fmt.Errorf("unknown dataset %q", dataset)
	}
}

func customerColumn(rows []domain.Customer, column string) ([]cell, error) {
	cells := make([]cell, 0, len(rows))
	for _, r := range rows {
		switch column {
		case "id":
			cells = append(cells, intCell(r.ID))
		case "name":
			cells = append(cells, textCell(r.Name))
		case "email":
			cells = append(cells, textCell(r.Email))
		case "phone":
			cells = append(cells, textCell(r.Phone))
		case "city":
			cells = append(cells, textCell(r.City))
		case "state":
			cells = append(cells, textCell(r.State))
		case "birth_date":
			cells = append(cells, dateCell(r.BirthDate))
		case "registered_at":
			cells = append(cells, dateCell(r.RegisteredAt))
		default:
			return nil, fmt.Errorf("unknown column customers.%s", column)
		}
	}
	return cells, nil
}

func productColumn(rows []domain.Product, column string) ([]cell, error) {
	cells := make([]cell, 0, len(rows))
	for _, r := range rows {
		switch column {
		case "id":
			cells = append(cells, intCell(r.ID))
		case "name":
			cells = append(cells, textCell(r.Name))
		case "category":
			cells = append(cells, textCell(r.Category))
		case "price":
			cells = append(cells, numCell(r.Price))
		case "stock":
			cells = append(cells, intCell(r.Stock))
		case "created_at":
			cells = append(cells, dateCell(r.CreatedAt))
		default:
			return nil, fmt.Errorf("unknown column products.%s", column)
		}
	}
	return cells, nil
}

func saleColumn(rows []domain.Sale, column string) ([]cell, error) {
	cells := make([]cell, 0, len(rows))
	for _, r := range rows {
		switch column {
		case "id":
			cells = append(cells, intCell(r.ID))
		case "customer_id":
			cells = append(cells, intCell(r.CustomerID))
		case "product_id":
			cells = append(cells, intCell(r.ProductID))
		case "quantity":
			cells = append(cells, intCell(r.Quantity))
		case "unit_price":
			cells = append(cells, numCell(r.UnitPrice))
		case "total":
			cells = append(cells, numCell(r.Total))
		case "sold_at":
			cells = append(cells, dateCell(r.SoldAt))
		case "status":
			cells = append(cells, textCell(r.Status))
		default:
			return nil, fmt.Errorf("unknown column sales.%s", column)
		}
	}
	return cells, nil
}

func shipmentColumn(rows []domain.Shipment, column string) ([]cell, error) {
	cells := make([]cell, 0, len(rows))
	for _, r := range rows {
		switch column {
		case "id":
			cells = append(cells, intCell(r.ID))
		case "sale_id":
			cells = append(cells, intCell(r.SaleID))
		case "carrier":
			cells = append(cells, textCell(r.Carrier))
		case "ship_date":
			cells = append(cells, dateCell(r.ShipDate))
		case "expected_delivery":
			cells = append(cells, dateCell(r.ExpectedDelivery))
		case "actual_delivery":
			cells = append(cells, dateCell(r.ActualDelivery))
		case "delivery_status":
			cells = append(cells, textCell(r.DeliveryStatus))
		default:
			return nil, fmt.Errorf("unknown column shipments.%s", column)
		}
	}
	return cells, nil
}
