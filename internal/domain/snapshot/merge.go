package snapshot

import "github.com/jhoicas/Stocksync-api/internal/domain/entity"

// MergeLocation hace upsert de un registro de ubicación dentro del snapshot:
// si ya existe un registro con el mismo LocationID lo reemplaza en su posición;
// si no, lo agrega al final. Función pura: no muta el snapshot de entrada.
func MergeLocation(s entity.StockSnapshot, loc entity.StockLocation) entity.StockSnapshot {
	merged := entity.StockSnapshot{
		Locations: make([]entity.StockLocation, len(s.Locations)),
	}
	copy(merged.Locations, s.Locations)

	if i := merged.FindLocation(loc.LocationID); i >= 0 {
		merged.Locations[i] = loc
		return merged
	}
	merged.Locations = append(merged.Locations, loc)
	return merged
}
