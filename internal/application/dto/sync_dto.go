package dto

import "encoding/json"

// TriggerSyncRequest body opcional de POST /api/sync/trigger.
type TriggerSyncRequest struct {
	TriggerSource string         `json:"trigger_source"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	FullResync    bool           `json:"full_resync,omitempty"`
}

// SyncResultResponse resultado estructurado de un run. Se devuelve completo
// tanto en runs exitosos (200, incluso con errores parciales) como en fallos
// fatales (500).
type SyncResultResponse struct {
	Success           bool     `json:"success"`
	Message           string   `json:"message"`
	SyncedCount       int      `json:"synced_count"`
	ErrorCount        int      `json:"error_count,omitempty"`
	Errors            []string `json:"errors,omitempty"` // ≤ 10
	UnmatchedPartners int      `json:"unmatched_partners,omitempty"`
	UnmatchedProducts int      `json:"unmatched_products,omitempty"`
	Timestamp         string   `json:"timestamp"` // ISO-8601
}

// SyncRunLogResponse una entrada del historial de runs.
type SyncRunLogResponse struct {
	ID            string          `json:"id"`
	RunAt         string          `json:"run_at"` // ISO-8601
	Status        string          `json:"status"`
	RecordsSynced int             `json:"records_synced"`
	Message       string          `json:"message"`
	Details       json.RawMessage `json:"details,omitempty"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
