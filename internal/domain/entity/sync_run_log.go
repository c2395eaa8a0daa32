package entity

import (
	"encoding/json"
	"time"
)

// Estados de un run de sincronización.
const (
	SyncStatusTriggered = "triggered"
	SyncStatusSuccess   = "success"
	SyncStatusError     = "error"
)

// SyncRunLog registra el resultado de un run del orquestador. Se crea una vez
// por run (éxito o error fatal) y nunca se muta.
type SyncRunLog struct {
	ID            string
	RunAt         time.Time
	Status        string
	RecordsSynced int
	Message       string
	Details       json.RawMessage // payload estructurado: contadores, errores (≤10), origen del trigger
}
