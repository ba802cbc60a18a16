package domain

// Dataset names used across corrections, quality checks and alerts.
const (
	DatasetCustomers = "customers"
	DatasetProducts  = "products"
	DatasetSales     = "sales"
	DatasetShipments = "shipments"
	DatasetOverall   = "overall"
)

// Tables bundles the four entity collections that flow through the pipeline.
// A nil slice means the dataset failed to load; downstream cleaning treats it
// as zero valid references.
type Tables struct {
	Customers []Customer
	Products  []Product
	Sales     []Sale
	Shipments []Shipment
}
