package loader

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Felipwz/dataops-governance-lab-TF/internal/domain"
)

// Loader reads the raw CSV extracts into typed collections. A missing
// required column is a structural failure and aborts that dataset; malformed
// cell values are row-level defects left for the cleaner.
type Loader struct {
	dataDir string
	log     *zap.Logger
}

func New(dataDir string, log *zap.Logger) *Loader {
	return &Loader{dataDir: dataDir, log: log}
}

// LoadAll loads the four datasets. Datasets that fail structurally are left
// nil in the returned tables; the per-dataset errors are returned so the
// caller can decide whether to continue with partial results.
func (l *Loader) LoadAll() (domain.Tables, map[string]error) {
	tables := domain.Tables{}
	failures := make(map[string]error)

	if customers, err := l.LoadCustomers(); err != nil {
		failures[domain.DatasetCustomers] = err
	} else {
		tables.Customers = customers
	}
	if products, err := l.LoadProducts(); err != nil {
		failures[domain.DatasetProducts] = err
	} else {
		tables.Products = products
	}
	if sales, err := l.LoadSales(); err != nil {
		failures[domain.DatasetSales] = err
	} else {
		tables.Sales = sales
	}
	if shipments, err := l.LoadShipments(); err != nil {
		failures[domain.DatasetShipments] = err
	} else {
		tables.Shipments = shipments
	}

	return tables, failures
}

func (l *Loader) LoadCustomers() ([]domain.Customer, error) {
	rows, err := l.readDataset(domain.DatasetCustomers,
		[]string{"id", "name", "email", "phone", "birth_date", "city", "state", "registered_at"})
	if err != nil {
		return nil, err
	}

	customers := make([]domain.Customer, 0, len(rows))
	for _, row := range rows {
		customers = append(customers, domain.Customer{
			ID:              parseInt(row["id"]),
			Name:            row["name"],
			Email:           row["email"],
			Phone:           row["phone"],
			City:            row["city"],
			State:           row["state"],
			BirthDateRaw:    row["birth_date"],
			RegisteredAtRaw: row["registered_at"],
		})
	}
	return customers, nil
}

func (l *Loader) LoadProducts() ([]domain.Product, error) {
	rows, err := l.readDataset(domain.DatasetProducts,
		[]string{"id", "name", "category", "price", "stock", "created_at", "active"})
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, domain.Product{
			ID:           parseInt(row["id"]),
			Name:         row["name"],
			Category:     row["category"],
			Price:        parseFloat(row["price"]),
			Stock:        parseInt(row["stock"]),
			ActiveRaw:    row["active"],
			CreatedAtRaw: row["created_at"],
		})
	}
	return products, nil
}

func (l *Loader) LoadSales() ([]domain.Sale, error) {
	rows, err := l.readDataset(domain.DatasetSales,
		[]string{"id", "customer_id", "product_id", "quantity", "unit_price", "total", "sold_at", "status"})
	if err != nil {
		return nil, err
	}

	sales := make([]domain.Sale, 0, len(rows))
	for _, row := range rows {
		sales = append(sales, domain.Sale{
			ID:         parseInt(row["id"]),
			CustomerID: parseInt(row["customer_id"]),
			ProductID:  parseInt(row["product_id"]),
			Quantity:   parseInt(row["quantity"]),
			UnitPrice:  parseFloat(row["unit_price"]),
			Total:      parseFloat(row["total"]),
			SoldAtRaw:  row["sold_at"],
			Status:     row["status"],
		})
	}
	return sales, nil
}

func (l *Loader) LoadShipments() ([]domain.Shipment, error) {
	rows, err := l.readDataset(domain.DatasetShipments,
		[]string{"id", "sale_id", "carrier", "ship_date", "expected_delivery", "actual_delivery", "delivery_status"})
	if err != nil {
		return nil, err
	}

	shipments := make([]domain.Shipment, 0, len(rows))
	for _, row := range rows {
		shipments = append(shipments, domain.Shipment{
			ID:                  parseInt(row["id"]),
			SaleID:              parseInt(row["sale_id"]),
			Carrier:             row["carrier"],
			ShipDateRaw:         row["ship_date"],
			ExpectedDeliveryRaw: row["expected_delivery"],
			ActualDeliveryRaw:   row["actual_delivery"],
			DeliveryStatus:      row["delivery_status"],
		})
	}
	return shipments, nil
}

// readDataset reads <dataset>.csv, verifies the required columns and returns
// one map per row keyed by column name.
func (l *Loader) readDataset(dataset string, required []string) ([]map[string]string, error) {
	path := filepath.Join(l.dataDir, dataset+".csv")

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s dataset: %w", dataset, err)
	}
	defer file.Close()

	hasher := sha256.New()
	reader := csv.NewReader(io.TeeReader(file, hasher))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s header: %w", dataset, err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(strings.ToLower(col))] = i
	}

	var missing []string
	for _, col := range required {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s dataset is missing required columns: %s",
			dataset, strings.Join(missing, ", "))
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s row: %w", dataset, err)
		}

		row := make(map[string]string, len(required))
		for _, col := range required {
			if pos := index[col]; pos < len(record) {
				row[col] = record[pos]
			}
		}
		rows = append(rows, row)
	}

	l.log.Info("Dataset loaded",
		zap.String("dataset", dataset),
		zap.String("path", path),
		zap.Int("rows", len(rows)),
		zap.String("content_sha256", hex.EncodeToString(hasher.Sum(nil))))

	return rows, nil
}

// parseInt and parseFloat are lenient: a malformed numeric cell is a row
// defect, not a structural failure, and maps to the zero value.
func parseInt(s string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
