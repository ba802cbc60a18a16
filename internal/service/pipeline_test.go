package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Felipwz/dataops-governance-lab-TF/internal/domain"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/loader"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/metrics"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/quality"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/repository"
)

type MockRunRepository struct {
	mock.Mock
}

func (m *MockRunRepository) InitSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRunRepository) InsertCorrections(ctx context.Context, runID string, corrections []domain.Correction) (int, error) {
	args := m.Called(ctx, runID, corrections)
	return args.Int(0), args.Error(1)
}

func (m *MockRunRepository) InsertAlerts(ctx context.Context, runID string, alerts []domain.Alert) (int, error) {
	args := m.Called(ctx, runID, alerts)
	return args.Int(0), args.Error(1)
}

func (m *MockRunRepository) InsertRunSummary(ctx context.Context, summary repository.RunSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

func (m *MockRunRepository) ListAlerts(ctx context.Context, query repository.AlertQuery) ([]domain.Alert, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Alert), args.Error(1)
}

func (m *MockRunRepository) CountAlertsBySeverity(ctx context.Context) ([]repository.SeverityCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.SeverityCount), args.Error(1)
}

func (m *MockRunRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRunRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockEscalationPublisher struct {
	mock.Mock
}

func (m *MockEscalationPublisher) PublishEscalation(ctx context.Context, runID string, escalation domain.Escalation) error {
	args := m.Called(ctx, runID, escalation)
	return args.Error(0)
}

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

// writeDatasets writes a small consistent extract with one defect: customer 2
// carries an unparseable email, which the cleaner nulls.
func writeDatasets(t *testing.T, dir string) {
	t.Helper()

	writeFixture(t, dir, "customers.csv",
		"id,name,email,phone,birth_date,city,state,registered_at\n"+
			"1,Ana Souza,ana@example.com,11987654321,1990-05-10,Sao Paulo,SP,2024-01-15\n"+
			"2,Bruno Lima,not-an-email,21912345678,1985-08-20,Rio De Janeiro,RJ,2024-02-01\n"+
			"3,Carla Dias,carla@example.com,31998765432,1992-11-03,Belo Horizonte,MG,2024-02-10\n")

	writeFixture(t, dir, "products.csv",
		"id,name,category,price,stock,created_at,active\n"+
			"1,Keyboard,Electronics,10.00,5,2024-01-01,true\n"+
			"2,Mouse,Electronics,8.50,12,2024-01-05,true\n")

	writeFixture(t, dir, "sales.csv",
		"id,customer_id,product_id,quantity,unit_price,total,sold_at,status\n"+
			"1,1,1,2,10.00,20.00,2024-03-01 10:00:00,Completed\n"+
			"2,3,2,1,8.50,8.50,2024-03-02 15:30:00,Completed\n")

	writeFixture(t, dir, "shipments.csv",
		"id,sale_id,carrier,ship_date,expected_delivery,actual_delivery,delivery_status\n"+
			"1,1,Correios,2024-03-02,2024-03-10,2024-03-08,Delivered\n")
}

func TestRunPipeline_FullFlow(t *testing.T) {
	dir := t.TempDir()
	writeDatasets(t, dir)

	repo := new(MockRunRepository)
	repo.On("InsertCorrections", mock.Anything, mock.Anything, mock.Anything).Return(1, nil)
	repo.On("InsertAlerts", mock.Anything, mock.Anything, mock.Anything).Return(2, nil)
	repo.On("InsertRunSummary", mock.Anything, mock.Anything).Return(nil)

	publisher := new(MockEscalationPublisher)
	publisher.On("PublishEscalation", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	log := zap.NewNop()
	svc := NewPipelineService(
		loader.New(dir, log),
		quality.DefaultSuites(),
		repo,
		publisher,
		metrics.New(prometheus.NewRegistry()),
		log,
	)

	run, err := svc.RunPipeline(context.Background())

	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Empty(t, run.LoadErrors)

	assert.Len(t, run.Cleaning.Customers.Cleaned, 3)
	assert.Len(t, run.Cleaning.Sales.Cleaned, 2)
	assert.Len(t, run.Cleaning.Shipments.Cleaned, 1)
	assert.NotEmpty(t, run.Cleaning.Corrections, "the invalid email should produce a correction")

	// One check fails: the nulled email trips customers_email_not_null. That
	// yields a per-check alert plus the aggregate failure-rate alert.
	assert.Equal(t, 1, run.Quality.Summary.Failed)
	assert.Len(t, run.Alerts.Alerts, 2)
	assert.Len(t, run.Alerts.Escalations, 2)

	repo.AssertCalled(t, "InsertCorrections", mock.Anything, run.RunID, mock.Anything)
	repo.AssertCalled(t, "InsertAlerts", mock.Anything, run.RunID, mock.Anything)
	repo.AssertCalled(t, "InsertRunSummary", mock.Anything, mock.Anything)
	publisher.AssertNumberOfCalls(t, "PublishEscalation", 2)
}

func TestRunPipeline_WithoutStorageOrQueue(t *testing.T) {
	dir := t.TempDir()
	writeDatasets(t, dir)

	log := zap.NewNop()
	svc := NewPipelineService(loader.New(dir, log), quality.DefaultSuites(), nil, nil, nil, log)

	run, err := svc.RunPipeline(context.Background())

	require.NoError(t, err)
	assert.Len(t, run.Cleaning.Customers.Cleaned, 3)
}

func TestRunPipeline_NoDatasets(t *testing.T) {
	log := zap.NewNop()
	svc := NewPipelineService(loader.New(t.TempDir(), log), quality.DefaultSuites(), nil, nil, nil, log)

	run, err := svc.RunPipeline(context.Background())

	assert.Error(t, err)
	assert.Nil(t, run)
}

func TestRunPipeline_PartialLoadFailure(t *testing.T) {
	dir := t.TempDir()
	writeDatasets(t, dir)
	// Break the shipments extract structurally.
	writeFixture(t, dir, "shipments.csv", "id,sale_id\n1,1\n")

	log := zap.NewNop()
	svc := NewPipelineService(loader.New(dir, log), quality.DefaultSuites(), nil, nil, nil, log)

	run, err := svc.RunPipeline(context.Background())

	require.NoError(t, err)
	assert.Contains(t, run.LoadErrors, domain.DatasetShipments)
	assert.Len(t, run.Cleaning.Customers.Cleaned, 3)
	assert.Empty(t, run.Cleaning.Shipments.Cleaned)
}

func TestListAlerts_NoRepository(t *testing.T) {
	svc := NewPipelineService(nil, nil, nil, nil, nil, zap.NewNop())

	_, err := svc.ListAlerts(context.Background(), repository.AlertQuery{})
	assert.Error(t, err)
}
