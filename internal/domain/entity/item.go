package entity

// CatalogItem es una entrada del catálogo (ej. una variante de producto) que
// lleva adjunto un snapshot de stock por ubicación.
// TrackingUnitID referencia la unidad de inventario asociada 1:1 (puede ser
// vacío si la variante no rastrea inventario).
type CatalogItem struct {
	ID             string
	TrackingUnitID string
}
