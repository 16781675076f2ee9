package snapshot_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Stocksync-api/internal/domain/entity"
	"github.com/jhoicas/Stocksync-api/internal/domain/snapshot"
)

func TestMergeLocation_UbicacionNueva_AgregaAlFinal(t *testing.T) {
	base := sampleSnapshot() // 3 ubicaciones: 7, 12, 3
	nueva := entity.StockLocation{LocationID: 99, Name: "Outlet", Available: 5, UpdatedAt: time.Now()}

	merged := snapshot.MergeLocation(base, nueva)

	require.Len(t, merged.Locations, 4, "merge de una ubicación nueva debe dar tamaño m+1")
	assert.Equal(t, nueva, merged.Locations[3], "la ubicación nueva se agrega al final")
	assert.Len(t, base.Locations, 3, "el snapshot de entrada no debe mutarse")
}

func TestMergeLocation_UbicacionExistente_ReemplazaEnSuPosicion(t *testing.T) {
	base := sampleSnapshot()
	actualizada := entity.StockLocation{LocationID: 12, Name: "Tienda Centro", Available: 20, UpdatedAt: time.Now()}

	merged := snapshot.MergeLocation(base, actualizada)

	require.Len(t, merged.Locations, 3, "merge de una ubicación existente debe conservar el tamaño m")
	assert.Equal(t, actualizada, merged.Locations[1], "el registro debe reemplazarse en su posición original")
	assert.Equal(t, int64(0), base.Locations[1].Available, "el snapshot de entrada no debe mutarse")

	// Nunca debe haber dos registros con el mismo LocationID
	seen := map[int64]int{}
	for _, loc := range merged.Locations {
		seen[loc.LocationID]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "LocationID %d duplicado en el snapshot", id)
	}
}

func TestMergeLocation_SobreSnapshotVacio(t *testing.T) {
	// El merge puro sobre un snapshot vacío produce un snapshot de un registro.
	// La semántica de "reconstrucción completa" ante snapshot ausente vive en el
	// handler incremental, no aquí.
	loc := entity.StockLocation{LocationID: 1, Name: "Única", Available: 2, UpdatedAt: time.Now()}
	merged := snapshot.MergeLocation(entity.StockSnapshot{}, loc)
	require.Len(t, merged.Locations, 1)
	assert.Equal(t, loc, merged.Locations[0])
}
