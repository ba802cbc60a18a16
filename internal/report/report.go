package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Felipwz/dataops-governance-lab-TF/internal/alert"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/cleaner"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/domain"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/quality"
)

// Quality levels assigned to a run from its check success rate.
const (
	LevelExcellent  = "Excellent"
	LevelGood       = "Good"
	LevelAcceptable = "Acceptable"
	LevelCritical   = "Critical"
)

// QualityLevel maps a success rate (0-100) to an executive quality level.
func QualityLevel(successRate float64) string {
	switch {
	case successRate >= 98:
		return LevelExcellent
	case successRate >= 95:
		return LevelGood
	case successRate >= 90:
		return LevelAcceptable
	default:
		return LevelCritical
	}
}

// Run collects everything one pipeline execution produced.
type Run struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	LoadErrors map[string]error
	Cleaning   cleaner.Result
	Quality    quality.Results
	Alerts     alert.ProcessResult
}

// Render produces the executive text report for a run.
func Render(run Run) string {
	var b strings.Builder

	line := strings.Repeat("=", 64)
	fmt.Fprintf(&b, "%s\nDATA QUALITY RUN REPORT\n%s\n", line, line)
	fmt.Fprintf(&b, "Run:      %s\n", run.RunID)
	fmt.Fprintf(&b, "Started:  %s\n", run.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Finished: %s\n", run.FinishedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Duration: %s\n\n", run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))

	if len(run.LoadErrors) > 0 {
		b.WriteString("LOAD FAILURES\n")
		for _, dataset := range sortedKeys(run.LoadErrors) {
			fmt.Fprintf(&b, "  %-12s %v\n", dataset, run.LoadErrors[dataset])
		}
		b.WriteString("\n")
	}

	b.WriteString("CLEANING\n")
	writeDataset(&b, domain.DatasetCustomers,
		len(run.Cleaning.Customers.Cleaned), len(run.Cleaning.Customers.Dropped), 0)
	writeDataset(&b, domain.DatasetProducts,
		len(run.Cleaning.Products.Cleaned), len(run.Cleaning.Products.Dropped), 0)
	writeDataset(&b, domain.DatasetSales,
		len(run.Cleaning.Sales.Cleaned), len(run.Cleaning.Sales.Dropped), 0)
	writeDataset(&b, domain.DatasetShipments,
		len(run.Cleaning.Shipments.Cleaned), len(run.Cleaning.Shipments.Dropped),
		len(run.Cleaning.Shipments.Flagged))
	fmt.Fprintf(&b, "  corrections applied: %d\n\n", len(run.Cleaning.Corrections))

	summary := run.Quality.Summary
	fmt.Fprintf(&b, "QUALITY CHECKS\n  passed %d of %d (%.1f%%) - level: %s\n",
		summary.Successful, summary.Total, summary.SuccessRate, QualityLevel(summary.SuccessRate))
	for _, name := range sortedCheckNames(run.Quality.Checks) {
		outcome := run.Quality.Checks[name]
		if outcome.Success {
			continue
		}
		fmt.Fprintf(&b, "  FAIL %s: %s\n", name, outcome.Error)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "ALERTS (%d)\n", len(run.Alerts.Alerts))
	for _, group := range run.Alerts.Dashboard.Groups {
		fmt.Fprintf(&b, "  %s: %d\n", group.Severity, group.Count)
		for _, a := range group.Alerts {
			fmt.Fprintf(&b, "    %s\n", a)
		}
	}
	if len(run.Alerts.Escalations) > 0 {
		b.WriteString("\nESCALATIONS\n")
		for _, escalation := range run.Alerts.Escalations {
			fmt.Fprintf(&b, "  %s -> %s (SLA %dh)\n",
				escalation.Alert.Issue,
				strings.Join(escalation.Recipients, ", "),
				escalation.SLAHours)
		}
	}

	fmt.Fprintf(&b, "%s\n", line)
	return b.String()
}

func writeDataset(b *strings.Builder, dataset string, cleaned, dropped, flagged int) {
	fmt.Fprintf(b, "  %-12s kept %d, dropped %d", dataset, cleaned, dropped)
	if flagged > 0 {
		fmt.Fprintf(b, ", flagged %d", flagged)
	}
	b.WriteString("\n")
}

func sortedKeys(m map[string]error) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedCheckNames(m map[string]quality.CheckOutcome) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
