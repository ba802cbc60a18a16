package cleaner

import (
	"time"

	"go.uber.org/zap"

	"github.com/Felipwz/dataops-governance-lab-TF/internal/domain"
)

// ShipmentResult holds the cleaned shipment collection, the orphaned rows
// dropped, and the rows flagged for an actual delivery before the ship date.
// Flagged rows stay in Cleaned; the anomaly is reported, never auto-fixed.
type ShipmentResult struct {
	Cleaned []domain.Shipment
	Dropped []domain.Shipment
	Flagged []domain.Shipment
}

// CleanShipments applies the shipment rule set in order: drop rows whose
// sale is not in the cleaned sale set, parse the three date fields, title-
// case status and carrier, and flag impossible delivery dates.
func (c *Cleaner) CleanShipments(raw []domain.Shipment, sales []domain.Sale) ShipmentResult {
	c.log.Info("Cleaning shipments", zap.Int("rows", len(raw)))

	rows := make([]domain.Shipment, len(raw))
	copy(rows, raw)

	saleIDs := make(map[int64]struct{}, len(sales))
	for _, s := range sales {
		saleIDs[s.ID] = struct{}{}
	}

	cleaned := make([]domain.Shipment, 0, len(rows))
	var dropped []domain.Shipment

	for _, row := range rows {
		if _, ok := saleIDs[row.SaleID]; !ok {
			dropped = append(dropped, row)
			continue
		}
		cleaned = append(cleaned, row)
	}
	c.logSummary(domain.DatasetShipments, "sale_id",
		"shipments referencing unknown sales dropped", len(dropped))

	var flagged []domain.Shipment
	for i := range cleaned {
		c.cleanShipmentFields(&cleaned[i])
		if deliveredBeforeShipped(cleaned[i]) {
			flagged = append(flagged, cleaned[i])
		}
	}
	c.logSummary(domain.DatasetShipments, "actual_delivery",
		"shipments flagged with actual delivery before ship date", len(flagged))

	c.log.Info("Shipments cleaned",
		zap.Int("rows_in", len(raw)),
		zap.Int("rows_out", len(cleaned)),
		zap.Int("orphans_dropped", len(dropped)),
		zap.Int("flagged", len(flagged)))

	return ShipmentResult{Cleaned: cleaned, Dropped: dropped, Flagged: flagged}
}

func (c *Cleaner) cleanShipmentFields(s *domain.Shipment) {
	c.parseShipmentDate(s.ID, "ship_date", &s.ShipDateRaw, &s.ShipDate)
	c.parseShipmentDate(s.ID, "expected_delivery", &s.ExpectedDeliveryRaw, &s.ExpectedDelivery)
	c.parseShipmentDate(s.ID, "actual_delivery", &s.ActualDeliveryRaw, &s.ActualDelivery)

	if status := titleCase(s.DeliveryStatus); status != s.DeliveryStatus {
		c.logCorrection(domain.DatasetShipments, s.ID, "delivery_status",
			s.DeliveryStatus, status, "delivery status title-cased")
		s.DeliveryStatus = status
	}
	if carrier := titleCase(s.Carrier); carrier != s.Carrier {
		c.logCorrection(domain.DatasetShipments, s.ID, "carrier",
			s.Carrier, carrier, "carrier title-cased")
		s.Carrier = carrier
	}
}

func (c *Cleaner) parseShipmentDate(id int64, field string, raw *string, parsed **time.Time) {
	if *parsed != nil || *raw == "" {
		return
	}
	*parsed = parseDate(*raw)
	if *parsed == nil {
		c.logCorrection(domain.DatasetShipments, id, field, *raw, "", "unparseable date nulled")
		*raw = ""
	}
}

func deliveredBeforeShipped(s domain.Shipment) bool {
	return s.ActualDelivery != nil && s.ShipDate != nil && s.ActualDelivery.Before(*s.ShipDate)
}
