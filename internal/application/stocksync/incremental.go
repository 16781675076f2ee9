package stocksync

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Stocksync-api/internal/domain/entity"
	"github.com/jhoicas/Stocksync-api/internal/domain/snapshot"
	"github.com/jhoicas/Stocksync-api/pkg/logger"
)

// IncrementalUpdate es la notificación externa de cambio de stock de una
// ubicación puntual, ya coaccionada a tipos del dominio.
type IncrementalUpdate struct {
	TrackingUnitID string
	LocationID     int64
	Available      int64
}

// Incremental aplica actualizaciones puntuales al snapshot de un artículo a
// partir de notificaciones de cambio de stock.
type Incremental struct {
	gw  PlatformGateway
	log *logger.Logger
}

// NewIncremental construye el handler incremental.
func NewIncremental(gw PlatformGateway, log *logger.Logger) *Incremental {
	return &Incremental{gw: gw, log: log}
}

// Apply parchea el snapshot del artículo asociado a la unidad de inventario:
//  1. Resuelve el artículo y su snapshot actual (domain.ErrNotFound si no hay
//     artículo asociado; fatal solo para esta notificación).
//  2. Si no hay snapshot utilizable (ausente o ilegible, indistinguibles a
//     propósito) reconstruye uno desde todos los niveles actuales, lo escribe y
//     termina: la actualización puntual se considera ya reflejada en la
//     reconstrucción, incluso cuando ésta queda vacía.
//  3. Si hay snapshot previo, resuelve el nombre de la ubicación (mejor
//     esfuerzo, con nombre sintetizado si falla) y hace upsert del registro.
//
// Los fallos de escritura o validación se propagan al llamador, que es quien
// los traduce a una señal externa de fallo.
func (h *Incremental) Apply(ctx context.Context, upd IncrementalUpdate) error {
	item, raw, err := h.gw.GetItemForTrackingUnit(ctx, upd.TrackingUnitID)
	if err != nil {
		return err
	}

	prior, decErr := snapshot.Decode(raw)
	if decErr != nil || prior.IsEmpty() {
		levels, err := h.gw.GetLocationLevels(ctx, upd.TrackingUnitID)
		if err != nil {
			return fmt.Errorf("reconstruir snapshot: %w", err)
		}
		rebuilt := snapshotFromLevels(levels, time.Now())
		value, err := snapshot.Encode(rebuilt)
		if err != nil {
			return err
		}
		h.log.Debug().Str("item_id", item.ID).Int("locations", len(rebuilt.Locations)).
			Msg("snapshot reconstruido desde los niveles actuales")
		return h.gw.WriteSnapshotField(ctx, item.ID, value)
	}

	name, err := h.gw.GetLocationName(ctx, upd.LocationID)
	if err != nil {
		// Mejor esfuerzo: si la ubicación no resuelve, nombre sintetizado.
		name = fmt.Sprintf("Ubicación %d", upd.LocationID)
	}

	merged := snapshot.MergeLocation(prior, entity.StockLocation{
		LocationID: upd.LocationID,
		Name:       name,
		Available:  upd.Available,
		UpdatedAt:  time.Now(),
	})
	value, err := snapshot.Encode(merged)
	if err != nil {
		return err
	}
	return h.gw.WriteSnapshotField(ctx, item.ID, value)
}
