package http_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/Stocksync-api/internal/application/stocksync"
	"github.com/jhoicas/Stocksync-api/internal/domain"
	"github.com/jhoicas/Stocksync-api/internal/domain/entity"
)

// stubGateway es un PlatformGateway mínimo para los tests de la capa HTTP: una
// sola página de catálogo, snapshots en memoria y errores configurables.
type stubGateway struct {
	mu sync.Mutex

	items   []entity.CatalogItem
	block   chan struct{} // si no es nil, ListItemsPage espera aquí antes de responder

	levels    map[string][]stocksync.LocationLevel
	levelsErr map[string]error

	itemByUnit map[string]entity.CatalogItem
	rawByUnit  map[string]string

	locationNames map[int64]string

	writes    map[string]string
	writeErrs map[string]error
}

var _ stocksync.PlatformGateway = (*stubGateway)(nil)

func newStubGateway() *stubGateway {
	return &stubGateway{
		levels:        make(map[string][]stocksync.LocationLevel),
		levelsErr:     make(map[string]error),
		itemByUnit:    make(map[string]entity.CatalogItem),
		rawByUnit:     make(map[string]string),
		locationNames: make(map[int64]string),
		writes:        make(map[string]string),
		writeErrs:     make(map[string]error),
	}
}

func (g *stubGateway) ListItemsPage(_ context.Context, cursor string, _ int) (stocksync.ItemPage, error) {
	if g.block != nil {
		<-g.block
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if cursor != "" {
		return stocksync.ItemPage{}, fmt.Errorf("cursor inesperado: %q", cursor)
	}
	return stocksync.ItemPage{Items: g.items, HasMore: false}, nil
}

func (g *stubGateway) GetLocationLevels(_ context.Context, trackingUnitID string) ([]stocksync.LocationLevel, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.levelsErr[trackingUnitID]; err != nil {
		return nil, err
	}
	return g.levels[trackingUnitID], nil
}

func (g *stubGateway) GetLocationName(_ context.Context, locationID int64) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	name, ok := g.locationNames[locationID]
	if !ok {
		return "", domain.ErrNotFound
	}
	return name, nil
}

func (g *stubGateway) WriteSnapshotField(_ context.Context, itemID, value string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.writeErrs[itemID]; err != nil {
		return err
	}
	g.writes[itemID] = value
	return nil
}

func (g *stubGateway) EstimateTotalItemCount(context.Context) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.items), nil
}

func (g *stubGateway) GetItemForTrackingUnit(_ context.Context, trackingUnitID string) (entity.CatalogItem, string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	item, ok := g.itemByUnit[trackingUnitID]
	if !ok {
		return entity.CatalogItem{}, "", domain.ErrNotFound
	}
	return item, g.rawByUnit[trackingUnitID], nil
}

func (g *stubGateway) writtenValue(itemID string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.writes[itemID]
}

func catalogItems(n int) []entity.CatalogItem {
	items := make([]entity.CatalogItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, entity.CatalogItem{
			ID:             fmt.Sprintf("item-%d", i+1),
			TrackingUnitID: fmt.Sprintf("unit-%d", i+1),
		})
	}
	return items
}

func int64Ptr(n int64) *int64 { return &n }
