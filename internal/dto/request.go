package dto

// ListAlertsRequest represents the alert listing query parameters
type ListAlertsRequest struct {
	Dataset  string `form:"dataset" example:"sales"`
	Severity string `form:"severity" example:"Critical"`
	Status   string `form:"status" example:"ESCALATED"`
	Limit    int    `form:"limit" example:"50"`
}
