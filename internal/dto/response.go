package dto

import "github.com/Felipwz/dataops-governance-lab-TF/internal/domain"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"validation_error"`
	Message string `json:"message,omitempty" example:"limit must be positive"`
}

// DatasetSummary represents the cleaning outcome of one dataset
type DatasetSummary struct {
	Kept    int `json:"kept" example:"95"`
	Dropped int `json:"dropped" example:"5"`
	Flagged int `json:"flagged,omitempty" example:"2"`
}

// QualitySummary represents the check results of a run
type QualitySummary struct {
	Total       int     `json:"total" example:"20"`
	Passed      int     `json:"passed" example:"19"`
	Failed      int     `json:"failed" example:"1"`
	SuccessRate float64 `json:"success_rate" example:"95.0"`
	Level       string  `json:"level" example:"Good"`
}

// RunResponse represents the outcome of a triggered pipeline run
type RunResponse struct {
	RunID       string                    `json:"run_id" example:"d4c8b6f0-4b1a-4f3e-9c2d-7e8f9a0b1c2d"`
	StartedAt   string                    `json:"started_at" example:"2026-08-30T12:00:00Z"`
	FinishedAt  string                    `json:"finished_at" example:"2026-08-30T12:00:03Z"`
	LoadErrors  map[string]string         `json:"load_errors,omitempty"`
	Datasets    map[string]DatasetSummary `json:"datasets"`
	Corrections int                       `json:"corrections" example:"12"`
	Quality     QualitySummary            `json:"quality"`
	Alerts      []domain.Alert            `json:"alerts"`
	Escalations []domain.Escalation       `json:"escalations,omitempty"`
	Report      string                    `json:"report"`
}

// ListAlertsResponse represents the alert listing response
type ListAlertsResponse struct {
	Count  int            `json:"count" example:"3"`
	Alerts []domain.Alert `json:"alerts"`
}

// SeverityCountData represents one dashboard aggregation row
type SeverityCountData struct {
	Severity string `json:"severity" example:"Critical"`
	Count    uint64 `json:"count" example:"4"`
}

// DashboardResponse represents the persisted alert dashboard
type DashboardResponse struct {
	Total  uint64              `json:"total" example:"11"`
	Counts []SeverityCountData `json:"counts"`
}
