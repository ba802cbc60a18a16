package alert

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/Felipwz/dataops-governance-lab-TF/internal/audit"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/domain"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/quality"
)

func newTestEngine() (*Engine, *audit.MemorySink) {
	sink := audit.NewMemorySink()
	engine := NewEngine(sink, zap.NewNop())
	engine.now = func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	seq := 0
	engine.newID = func() string {
		seq++
		return fmt.Sprintf("alert-%03d", seq)
	}
	return engine, sink
}

func TestClassify(t *testing.T) {
	cases := []struct {
		percentage float64
		want       domain.Severity
	}{
		{0, domain.SeverityNone},
		{0.999, domain.SeverityNone},
		{1.0, domain.SeverityLow},
		{2.99, domain.SeverityLow},
		{3.0, domain.SeverityMedium},
		{4.99, domain.SeverityMedium},
		{5.0, domain.SeverityHigh},
		{9.99, domain.SeverityHigh},
		{10.0, domain.SeverityCritical},
		{100.0, domain.SeverityCritical},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.percentage), "percentage %.3f", tc.percentage)
	}
}

func TestClassify_MonotonicInPercentage(t *testing.T) {
	previous := domain.SeverityNone
	for p := 0.0; p <= 20.0; p += 0.05 {
		severity := Classify(p)
		assert.GreaterOrEqual(t, severity, previous, "severity regressed at %.2f%%", p)
		previous = severity
	}
}

func TestCreateAlert_BelowThreshold(t *testing.T) {
	engine, sink := newTestEngine()

	alert := engine.CreateAlert(domain.DatasetCustomers, "Invalid emails", 2, 1000, nil)

	assert.Nil(t, alert)
	assert.Empty(t, engine.Alerts())
	assert.Empty(t, sink.Alerts)
}

func TestCreateAlert_LowSeverity(t *testing.T) {
	engine, sink := newTestEngine()

	alert := engine.CreateAlert(domain.DatasetCustomers, "Invalid emails", 2, 100, nil)

	assert.NotNil(t, alert)
	assert.Equal(t, domain.SeverityLow, alert.Severity)
	assert.Equal(t, domain.AlertStatusOpen, alert.Status)
	assert.InDelta(t, 2.0, alert.Percent, 1e-9)
	assert.Equal(t, "alert-001", alert.ID)
	assert.Len(t, sink.Alerts, 1)
}

func TestCreateAlert_Critical(t *testing.T) {
	engine, _ := newTestEngine()

	alert := engine.CreateAlert(domain.DatasetSales, "Orphaned sales", 15, 100, nil)

	assert.NotNil(t, alert)
	assert.Equal(t, domain.SeverityCritical, alert.Severity)
	assert.InDelta(t, 15.0, alert.Percent, 1e-9)
}

func TestCreateAlert_ZeroTotal(t *testing.T) {
	engine, _ := newTestEngine()

	assert.Nil(t, engine.CreateAlert(domain.DatasetOverall, "Failure rate", 0, 0, nil))
}

func TestEscalateAlert_PolicyTable(t *testing.T) {
	engine, _ := newTestEngine()

	cases := []struct {
		severity   domain.Severity
		recipients []string
		slaHours   int
	}{
		{domain.SeverityLow, []string{RoleDataCustodian}, 168},
		{domain.SeverityMedium, []string{RoleDataSteward}, 48},
		{domain.SeverityHigh, []string{RoleDataOwner, RoleDataSteward}, 24},
		{domain.SeverityCritical, []string{RoleCDO, RoleDataOwner, RoleDataSteward}, 4},
	}

	for _, tc := range cases {
		escalation := engine.EscalateAlert(domain.Alert{Severity: tc.severity})
		assert.Equal(t, tc.recipients, escalation.Recipients, "severity %s", tc.severity)
		assert.Equal(t, tc.slaHours, escalation.SLAHours, "severity %s", tc.severity)
		assert.Equal(t, engine.now(), escalation.EscalatedAt)
	}
}

func TestAnalyzeQualityResults_AlertPerFailedCheck(t *testing.T) {
	engine, _ := newTestEngine()

	results := quality.Results{
		Checks: map[string]quality.CheckOutcome{
			"sales_status_in_set":    {Success: false, Error: "2 of 50 rows failed"},
			"customers_email_format": {Success: false, Error: "3 of 100 rows failed"},
			"products_price_between": {Success: true},
			"shipments_id_unique":    {Success: true},
		},
		Summary: quality.Summary{Total: 4, Successful: 2, Failed: 2, SuccessRate: 50},
	}

	engine.AnalyzeQualityResults(results)

	alerts := engine.Alerts()
	assert.Len(t, alerts, 3)

	// Failed checks alert in name order, aggregate last.
	assert.Equal(t, domain.DatasetCustomers, alerts[0].Dataset)
	assert.Equal(t, "customers_email_format", alerts[0].Details["check"])
	assert.Equal(t, domain.SeverityCritical, alerts[0].Severity)
	assert.Equal(t, 1, alerts[0].Affected)
	assert.Equal(t, 1, alerts[0].Total)

	assert.Equal(t, domain.DatasetSales, alerts[1].Dataset)
	assert.Equal(t, "sales_status_in_set", alerts[1].Details["check"])

	assert.Equal(t, domain.DatasetOverall, alerts[2].Dataset)
	assert.Equal(t, 2, alerts[2].Affected)
	assert.Equal(t, 4, alerts[2].Total)
	assert.Equal(t, domain.SeverityCritical, alerts[2].Severity)
}

func TestAnalyzeQualityResults_AllPassing(t *testing.T) {
	engine, _ := newTestEngine()

	results := quality.Results{
		Checks: map[string]quality.CheckOutcome{
			"customers_id_unique": {Success: true},
			"products_id_unique":  {Success: true},
		},
		Summary: quality.Summary{Total: 2, Successful: 2, SuccessRate: 100},
	}

	engine.AnalyzeQualityResults(results)

	assert.Empty(t, engine.Alerts())
}

func TestProcessAlerts_EscalatesHighAndCritical(t *testing.T) {
	engine, _ := newTestEngine()

	results := quality.Results{
		Checks: map[string]quality.CheckOutcome{
			"sales_total_consistent": {Success: false, Error: "15 of 100 rows failed"},
		},
		Summary: quality.Summary{Total: 1, Failed: 1, SuccessRate: 0},
	}

	result := engine.ProcessAlerts(results)

	assert.Len(t, result.Alerts, 2)
	assert.Len(t, result.Escalations, 2)

	for _, alert := range result.Alerts {
		assert.Equal(t, domain.AlertStatusEscalated, alert.Status)
	}
	for _, escalation := range result.Escalations {
		assert.Equal(t, []string{RoleCDO, RoleDataOwner, RoleDataSteward}, escalation.Recipients)
		assert.Equal(t, 4, escalation.SLAHours)
	}

	assert.Equal(t, 2, result.Dashboard.TotalAlerts)
	assert.Len(t, result.Dashboard.Groups, 1)
	assert.Equal(t, domain.SeverityCritical, result.Dashboard.Groups[0].Severity)
}

func TestProcessAlerts_LowSeverityNotEscalated(t *testing.T) {
	engine, _ := newTestEngine()

	results := quality.Results{
		Checks: map[string]quality.CheckOutcome{
			"customers_a": {Success: true}, "customers_b": {Success: true},
			"customers_c": {Success: true}, "customers_d": {Success: true},
			"customers_e": {Success: true}, "customers_f": {Success: true},
			"customers_g": {Success: true}, "customers_h": {Success: true},
			"customers_i": {Success: true}, "customers_j": {Success: true},
		},
		Summary: quality.Summary{Total: 100, Successful: 98, Failed: 2, SuccessRate: 98},
	}

	result := engine.ProcessAlerts(results)

	assert.Len(t, result.Alerts, 1)
	assert.Equal(t, domain.SeverityLow, result.Alerts[0].Severity)
	assert.Equal(t, domain.AlertStatusOpen, result.Alerts[0].Status)
	assert.Empty(t, result.Escalations)
}

func TestDatasetFromCheckName(t *testing.T) {
	assert.Equal(t, domain.DatasetCustomers, datasetFromCheckName("customers_email_format"))
	assert.Equal(t, domain.DatasetShipments, datasetFromCheckName("shipments_id_unique"))
	assert.Equal(t, domain.DatasetSales, datasetFromCheckName("checkpoint_sales"))
	assert.Equal(t, "inventory_levels", datasetFromCheckName("inventory_levels"))
}

func TestBuildDashboard_Ordering(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	alerts := []domain.Alert{
		{ID: "a", Severity: domain.SeverityLow},
		{ID: "b", Severity: domain.SeverityCritical},
		{ID: "c", Severity: domain.SeverityLow},
		{ID: "d", Severity: domain.SeverityHigh},
	}

	dashboard := BuildDashboard(alerts, now)

	assert.Equal(t, 4, dashboard.TotalAlerts)
	assert.Len(t, dashboard.Groups, 3)
	assert.Equal(t, domain.SeverityCritical, dashboard.Groups[0].Severity)
	assert.Equal(t, domain.SeverityHigh, dashboard.Groups[1].Severity)
	assert.Equal(t, domain.SeverityLow, dashboard.Groups[2].Severity)
	assert.Equal(t, 2, dashboard.Groups[2].Count)
	assert.Equal(t, []string{"a", "c"}, []string{
		dashboard.Groups[2].Alerts[0].ID, dashboard.Groups[2].Alerts[1].ID,
	})
}
