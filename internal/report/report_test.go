package report

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Felipwz/dataops-governance-lab-TF/internal/alert"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/cleaner"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/domain"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/quality"
)

func TestQualityLevel(t *testing.T) {
	cases := []struct {
		rate float64
		want string
	}{
		{100, LevelExcellent},
		{98, LevelExcellent},
		{97.9, LevelGood},
		{95, LevelGood},
		{94.9, LevelAcceptable},
		{90, LevelAcceptable},
		{89.9, LevelCritical},
		{0, LevelCritical},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, QualityLevel(tc.rate), "rate %.1f", tc.rate)
	}
}

func TestRender(t *testing.T) {
	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	alerts := []domain.Alert{{
		ID: "a1", Dataset: domain.DatasetSales, Issue: "Orphaned sales",
		Severity: domain.SeverityCritical, Affected: 15, Total: 100, Percent: 15,
		Status: domain.AlertStatusEscalated,
	}}

	run := Run{
		RunID:      "run-001",
		StartedAt:  started,
		FinishedAt: started.Add(3 * time.Second),
		LoadErrors: map[string]error{
			domain.DatasetShipments: errors.New("missing required columns: carrier"),
		},
		Cleaning: cleaner.Result{
			Customers: cleaner.CustomerResult{Cleaned: make([]domain.Customer, 95), Dropped: make([]domain.Customer, 5)},
			Products:  cleaner.ProductResult{Cleaned: make([]domain.Product, 50)},
			Sales:     cleaner.SaleResult{Cleaned: make([]domain.Sale, 85), Dropped: make([]domain.Sale, 15)},
			Corrections: []domain.Correction{
				{Dataset: domain.DatasetCustomers, Field: "email"},
			},
		},
		Quality: quality.Results{
			Checks: map[string]quality.CheckOutcome{
				"sales_customer_exists": {Success: false, Error: "15 of 100 rows failed"},
				"customers_id_unique":   {Success: true},
			},
			Summary: quality.Summary{Total: 2, Successful: 1, Failed: 1, SuccessRate: 50},
		},
		Alerts: alert.ProcessResult{
			Alerts: alerts,
			Escalations: []domain.Escalation{{
				Alert:      alerts[0],
				Recipients: []string{alert.RoleCDO, alert.RoleDataOwner, alert.RoleDataSteward},
				SLAHours:   4,
			}},
			Dashboard: alert.BuildDashboard(alerts, started),
		},
	}

	text := Render(run)

	assert.Contains(t, text, "run-001")
	assert.Contains(t, text, "missing required columns: carrier")
	assert.Contains(t, text, "customers    kept 95, dropped 5")
	assert.Contains(t, text, "corrections applied: 1")
	assert.Contains(t, text, "passed 1 of 2 (50.0%) - level: Critical")
	assert.Contains(t, text, "FAIL sales_customer_exists: 15 of 100 rows failed")
	assert.Contains(t, text, "Critical: 1")
	assert.Contains(t, text, "Orphaned sales -> CDO, Data Owner, Data Steward (SLA 4h)")
}
