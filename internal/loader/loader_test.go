package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Felipwz/dataops-governance-lab-TF/internal/domain"
)

func writeCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadCustomers(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "customers.csv",
		"id,name,email,phone,birth_date,city,state,registered_at\n"+
			"1,Alice,alice@example.com,11999,1990-01-01,Sao Paulo,SP,2023-01-01\n"+
			"2,Bob,,,,Rio,RJ,2022-05-05\n")

	l := New(dir, zap.NewNop())
	customers, err := l.LoadCustomers()

	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, int64(1), customers[0].ID)
	assert.Equal(t, "alice@example.com", customers[0].Email)
	assert.Equal(t, "1990-01-01", customers[0].BirthDateRaw)
	assert.Empty(t, customers[1].Email)
}

func TestLoadCustomers_MissingColumnIsStructural(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "customers.csv", "id,name\n1,Alice\n")

	l := New(dir, zap.NewNop())
	_, err := l.LoadCustomers()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns")
	assert.Contains(t, err.Error(), "email")
}

func TestLoadSales_MalformedNumericIsRowDefect(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "sales.csv",
		"id,customer_id,product_id,quantity,unit_price,total,sold_at,status\n"+
			"100,1,10,abc,2.5,5.0,2024-01-01,Completed\n")

	l := New(dir, zap.NewNop())
	sales, err := l.LoadSales()

	require.NoError(t, err, "malformed cells must not fail the load")
	require.Len(t, sales, 1)
	assert.Equal(t, int64(0), sales[0].Quantity)
	assert.Equal(t, 2.5, sales[0].UnitPrice)
}

func TestLoadAll_PartialFailure(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "products.csv",
		"id,name,category,price,stock,created_at,active\n"+
			"10,Keyboard,Electronics,50,3,2023-01-01,true\n")

	l := New(dir, zap.NewNop())
	tables, failures := l.LoadAll()

	assert.Len(t, tables.Products, 1)
	assert.Nil(t, tables.Customers)
	assert.Contains(t, failures, domain.DatasetCustomers)
	assert.Contains(t, failures, domain.DatasetSales)
	assert.Contains(t, failures, domain.DatasetShipments)
	assert.NotContains(t, failures, domain.DatasetProducts)
}
