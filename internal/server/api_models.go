package server

import "github.com/auriti-labs/geo-optimizer/internal/audit"

// AuditRequest is the POST /api/audit payload.
type AuditRequest struct {
	URL    string `json:"url" example:"https://example.com"`
	Format string `json:"format,omitempty" example:"json"`
}

// HealthResponse reports liveness and the running version.
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Version string `json:"version" example:"1.0.0"`
	History bool   `json:"history"`
}

// HistoryResponse lists stored audits, newest first.
type HistoryResponse struct {
	URL    string               `json:"url,omitempty" example:"https://example.com"`
	Audits []*audit.AuditResult `json:"audits"`
}

// ErrorResponse is a uniform error payload returned by the API.
type ErrorResponse struct {
	Error string `json:"error" example:"not found"`
}
