package stocksync

import (
	"context"
	"strconv"
	"strings"

	"github.com/jhoicas/Stocksync-api/internal/domain/entity"
)

// ItemPage es una página de artículos del catálogo.
type ItemPage struct {
	Items      []entity.CatalogItem
	NextCursor string
	HasMore    bool
}

// LocationLevel es el nivel de inventario reportado por la plataforma para una
// ubicación. Available es nil cuando la plataforma no informa cantidad.
type LocationLevel struct {
	LocationRef  string // referencia opaca, ej. "gid://platform/Location/123"
	LocationName string
	Available    *int64
}

// FieldError un error de validación de campo devuelto por la plataforma.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError agrupa los errores de validación que la plataforma devuelve
// al escribir el metafield (userError, distinto de un fallo de transporte).
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validación rechazada por la plataforma"
	}
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		if fe.Field != "" {
			msgs = append(msgs, fe.Field+": "+fe.Message)
			continue
		}
		msgs = append(msgs, fe.Message)
	}
	return strings.Join(msgs, "; ")
}

// FieldNames devuelve los nombres de campo rechazados.
func (e *ValidationError) FieldNames() []string {
	fields := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		if fe.Field != "" {
			fields = append(fields, fe.Field)
		}
	}
	return fields
}

// PlatformGateway es el puerto de salida hacia la API Admin de la plataforma
// de comercio. La implementación concreta usa REST; para tests se inyecta un fake.
type PlatformGateway interface {
	// ListItemsPage devuelve una página de artículos. cursor vacío = primera página.
	ListItemsPage(ctx context.Context, cursor string, pageSize int) (ItemPage, error)
	// GetLocationLevels devuelve los niveles actuales de la unidad de inventario
	// en todas sus ubicaciones.
	GetLocationLevels(ctx context.Context, trackingUnitID string) ([]LocationLevel, error)
	// GetLocationName resuelve el nombre legible de una ubicación.
	// Devuelve domain.ErrNotFound si la ubicación no existe.
	GetLocationName(ctx context.Context, locationID int64) (string, error)
	// WriteSnapshotField persiste el snapshot serializado en el metafield del
	// artículo. Un rechazo de validación se devuelve como *ValidationError;
	// cualquier otro error es de transporte.
	WriteSnapshotField(ctx context.Context, itemID, value string) error
	// EstimateTotalItemCount estima el total de artículos del catálogo (mejor esfuerzo).
	EstimateTotalItemCount(ctx context.Context) (int, error)
	// GetItemForTrackingUnit resuelve el artículo asociado a una unidad de
	// inventario y el valor crudo de su metafield de snapshot (puede ser vacío).
	// Devuelve domain.ErrNotFound si ningún artículo está asociado.
	GetItemForTrackingUnit(ctx context.Context, trackingUnitID string) (entity.CatalogItem, string, error)
}

// LocationIDFromRef extrae el id numérico del último segmento de una referencia
// opaca de ubicación ("gid://platform/Location/123" → 123). Devuelve 0 si la
// referencia no termina en un entero.
func LocationIDFromRef(ref string) int64 {
	ref = strings.TrimSuffix(strings.TrimSpace(ref), "/")
	if i := strings.LastIndexByte(ref, '/'); i >= 0 {
		ref = ref[i+1:]
	}
	n, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
