package entity

import "time"

// StockLocation representa la disponibilidad de una unidad de inventario en una
// ubicación física. LocationID es único dentro de un snapshot.
type StockLocation struct {
	LocationID int64     `json:"locationId"`
	Name       string    `json:"name"`
	Available  int64     `json:"available"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// StockSnapshot es el registro desnormalizado de disponibilidad por ubicación
// de un artículo. Se persiste serializado en un único metafield del artículo;
// el último escritor gana (ningún proceso asume propiedad exclusiva).
type StockSnapshot struct {
	Locations []StockLocation `json:"locations"`
}

// IsEmpty indica si el snapshot no tiene ubicaciones.
func (s StockSnapshot) IsEmpty() bool {
	return len(s.Locations) == 0
}

// FindLocation devuelve el índice del registro con el LocationID dado, o -1.
func (s StockSnapshot) FindLocation(locationID int64) int {
	for i, loc := range s.Locations {
		if loc.LocationID == locationID {
			return i
		}
	}
	return -1
}
