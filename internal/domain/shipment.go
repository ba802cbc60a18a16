package domain

import "time"

// Shipment represents a delivery for a sale. The three date fields are
// nullable; delivery-before-ship anomalies are flagged by the cleaner, never
// silently fixed.
type Shipment struct {
	ID                  int64
	SaleID              int64
	Carrier             string
	ShipDateRaw         string
	ShipDate            *time.Time
	ExpectedDeliveryRaw string
	ExpectedDelivery    *time.Time
	ActualDeliveryRaw   string
	ActualDelivery      *time.Time
	DeliveryStatus      string
}
