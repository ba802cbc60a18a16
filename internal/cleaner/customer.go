package cleaner

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Felipwz/dataops-governance-lab-TF/internal/domain"
)

// minBirthYear bounds plausible customer birth dates.
const minBirthYear = 1900

// CustomerResult holds the cleaned customer collection and the duplicate
// rows that were dropped.
type CustomerResult struct {
	Cleaned []domain.Customer
	Dropped []domain.Customer
}

// CleanCustomers applies the customer rule set in order: deduplicate keeping
// the latest registration, normalize phone/email/state/city, null invalid
// emails, fill blank names and null out-of-range birth dates.
func (c *Cleaner) CleanCustomers(raw []domain.Customer) CustomerResult {
	c.log.Info("Cleaning customers", zap.Int("rows", len(raw)))

	rows := make([]domain.Customer, len(raw))
	copy(rows, raw)

	for i := range rows {
		c.parseCustomerDates(&rows[i])
	}

	result := c.dedupeCustomers(rows)

	for i := range result.Cleaned {
		c.cleanCustomerFields(&result.Cleaned[i])
	}

	c.log.Info("Customers cleaned",
		zap.Int("rows_in", len(raw)),
		zap.Int("rows_out", len(result.Cleaned)),
		zap.Int("duplicates_dropped", len(result.Dropped)))

	return result
}

func (c *Cleaner) parseCustomerDates(cust *domain.Customer) {
	if cust.RegisteredAt == nil && cust.RegisteredAtRaw != "" {
		cust.RegisteredAt = parseDate(cust.RegisteredAtRaw)
		if cust.RegisteredAt == nil {
			c.logCorrection(domain.DatasetCustomers, cust.ID, "registered_at",
				cust.RegisteredAtRaw, "", "unparseable registration date nulled")
			cust.RegisteredAtRaw = ""
		}
	}
	if cust.BirthDate == nil && cust.BirthDateRaw != "" {
		cust.BirthDate = parseDate(cust.BirthDateRaw)
		if cust.BirthDate == nil {
			c.logCorrection(domain.DatasetCustomers, cust.ID, "birth_date",
				cust.BirthDateRaw, "", "unparseable birth date nulled")
			cust.BirthDateRaw = ""
		}
	}
}

// dedupeCustomers keeps one row per identifier, preferring the latest
// registration date. On equal dates the earlier input row wins, which keeps
// the result deterministic. Output preserves first-occurrence order.
func (c *Cleaner) dedupeCustomers(rows []domain.Customer) CustomerResult {
	best := make(map[int64]int, len(rows))
	order := make([]int64, 0, len(rows))
	var dropped []domain.Customer

	for i, row := range rows {
		keptIdx, seen := best[row.ID]
		if !seen {
			best[row.ID] = i
			order = append(order, row.ID)
			continue
		}

		kept := rows[keptIdx]
		if laterRegistration(row, kept) {
			dropped = append(dropped, kept)
			best[row.ID] = i
		} else {
			dropped = append(dropped, row)
		}
	}

	c.logSummary(domain.DatasetCustomers, "id",
		"duplicate identifiers dropped, latest registration kept", len(dropped))

	cleaned := make([]domain.Customer, 0, len(order))
	for _, id := range order {
		cleaned = append(cleaned, rows[best[id]])
	}
	return CustomerResult{Cleaned: cleaned, Dropped: dropped}
}

// laterRegistration reports whether a registered strictly after b. A nil
// registration date sorts before any concrete one.
func laterRegistration(a, b domain.Customer) bool {
	if a.RegisteredAt == nil {
		return false
	}
	if b.RegisteredAt == nil {
		return true
	}
	return a.RegisteredAt.After(*b.RegisteredAt)
}

func (c *Cleaner) cleanCustomerFields(cust *domain.Customer) {
	if phone := digitsOnly(cust.Phone); phone != cust.Phone {
		c.logCorrection(domain.DatasetCustomers, cust.ID, "phone",
			cust.Phone, phone, "phone normalized to digits only")
		cust.Phone = phone
	}

	if email := strings.ToLower(strings.TrimSpace(cust.Email)); email != cust.Email {
		c.logCorrection(domain.DatasetCustomers, cust.ID, "email",
			cust.Email, email, "email lowercased and trimmed")
		cust.Email = email
	}
	if cust.Email != "" && !validEmail(cust.Email) {
		c.logCorrection(domain.DatasetCustomers, cust.ID, "email",
			cust.Email, "", "invalid email format nulled")
		cust.Email = ""
	}

	if state := strings.ToUpper(strings.TrimSpace(cust.State)); state != cust.State {
		c.logCorrection(domain.DatasetCustomers, cust.ID, "state",
			cust.State, state, "state uppercased")
		cust.State = state
	}

	if city := titleCase(cust.City); city != cust.City {
		c.logCorrection(domain.DatasetCustomers, cust.ID, "city",
			cust.City, city, "city title-cased")
		cust.City = city
	}

	if strings.TrimSpace(cust.Name) == "" {
		name := fmt.Sprintf("Customer %d", cust.ID)
		c.logCorrection(domain.DatasetCustomers, cust.ID, "name",
			cust.Name, name, "blank name filled with placeholder")
		cust.Name = name
	}

	if cust.BirthDate != nil {
		year := cust.BirthDate.Year()
		if year < minBirthYear || year > c.now().Year() {
			c.logCorrection(domain.DatasetCustomers, cust.ID, "birth_date",
				cust.BirthDate.Format("2006-01-02"), "", "birth date out of range nulled")
			cust.BirthDate = nil
			cust.BirthDateRaw = ""
		}
	}
}
