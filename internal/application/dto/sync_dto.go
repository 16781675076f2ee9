package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// StartSyncResponse respuesta al arranque de la sincronización masiva.
type StartSyncResponse struct {
	Message string `json:"message"`
	RunID   string `json:"run_id"`
}

// SyncErrorDTO un fallo registrado durante la corrida, etiquetado por tipo
// (apiError, userError, batchError).
type SyncErrorDTO struct {
	Kind    string   `json:"kind"`
	ItemID  string   `json:"item_id,omitempty"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

// SyncSummaryDTO resumen final de la corrida. Presente solo en la primera
// consulta de estado posterior al cierre; después se omite para que el
// llamador no contabilice dos veces el resultado.
type SyncSummaryDTO struct {
	Success        bool   `json:"success"`
	ProcessedCount int    `json:"processed_count"`
	TotalCount     int    `json:"total_count"`
	BatchCount     int    `json:"batch_count"`
	Message        string `json:"message"`
}

// SyncStatusResponse estado actual de la sincronización para el polling.
// TotalCount en 0 significa total desconocido (mostrar como indeterminado).
type SyncStatusResponse struct {
	RunID          string          `json:"run_id,omitempty"`
	IsRunning      bool            `json:"is_running"`
	ProcessedCount int             `json:"processed_count"`
	TotalCount     int             `json:"total_count"`
	CurrentBatch   int             `json:"current_batch"`
	StartedAt      *time.Time      `json:"started_at,omitempty"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"`
	Errors         []SyncErrorDTO  `json:"errors"`
	Summary        *SyncSummaryDTO `json:"summary,omitempty"`
}

// InventoryLevelWebhook payload de la notificación externa de cambio de stock.
// Todos los campos llegan como escalares primitivos; available puede venir como
// string y se coacciona a entero.
type InventoryLevelWebhook struct {
	InventoryItemID int64            `json:"inventory_item_id"`
	LocationID      int64            `json:"location_id"`
	Available       FlexibleQuantity `json:"available"`
}

// FlexibleQuantity acepta una cantidad como número JSON o como string ("12").
// Un valor no numérico no es error: se coacciona a 0.
type FlexibleQuantity struct {
	value decimal.Decimal
}

// NewFlexibleQuantity construye una cantidad desde un entero (para tests).
func NewFlexibleQuantity(n int64) FlexibleQuantity {
	return FlexibleQuantity{value: decimal.NewFromInt(n)}
}

// UnmarshalJSON implementa la coacción tolerante vía decimal.
func (q *FlexibleQuantity) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	s = strings.Trim(s, `"`)
	if s == "" || s == "null" {
		q.value = decimal.Zero
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		q.value = decimal.Zero
		return nil
	}
	q.value = d
	return nil
}

// MarshalJSON serializa la cantidad como número.
func (q FlexibleQuantity) MarshalJSON() ([]byte, error) {
	return []byte(q.value.String()), nil
}

// Int64 devuelve la parte entera de la cantidad coaccionada.
func (q FlexibleQuantity) Int64() int64 {
	return q.value.IntPart()
}
