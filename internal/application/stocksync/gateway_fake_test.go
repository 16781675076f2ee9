package stocksync

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/jhoicas/Stocksync-api/internal/domain"
	"github.com/jhoicas/Stocksync-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake del PlatformGateway para tests del orquestador y el handler incremental
// ──────────────────────────────────────────────────────────────────────────────

type fakeGateway struct {
	mu sync.Mutex

	items      []entity.CatalogItem
	failPage   int           // página (1-based) cuyo fetch falla; 0 = nunca
	block      chan struct{} // si no es nil, ListItemsPage espera aquí antes de responder
	fetchCalls int

	levels    map[string][]LocationLevel
	levelsErr map[string]error

	locationNames map[int64]string

	writes    map[string][]string // itemID → valores escritos, en orden
	writeErrs map[string]error

	total    int
	totalErr error

	itemByUnit map[string]entity.CatalogItem
	rawByUnit  map[string]string

	nameCalls  int
	levelCalls int
	writeCalls int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		levels:        map[string][]LocationLevel{},
		levelsErr:     map[string]error{},
		locationNames: map[int64]string{},
		writes:        map[string][]string{},
		writeErrs:     map[string]error{},
		itemByUnit:    map[string]entity.CatalogItem{},
		rawByUnit:     map[string]string{},
	}
}

func (f *fakeGateway) ListItemsPage(_ context.Context, cursor string, pageSize int) (ItemPage, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.fetchCalls++
	if f.failPage > 0 && f.fetchCalls == f.failPage {
		return ItemPage{}, fmt.Errorf("fallo simulado de la página %d", f.failPage)
	}

	offset := 0
	if cursor != "" {
		offset, _ = strconv.Atoi(cursor)
	}
	end := offset + pageSize
	if end > len(f.items) {
		end = len(f.items)
	}
	return ItemPage{
		Items:      f.items[offset:end],
		NextCursor: strconv.Itoa(end),
		HasMore:    end < len(f.items),
	}, nil
}

func (f *fakeGateway) GetLocationLevels(_ context.Context, trackingUnitID string) ([]LocationLevel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.levelCalls++
	if err, ok := f.levelsErr[trackingUnitID]; ok {
		return nil, err
	}
	return f.levels[trackingUnitID], nil
}

func (f *fakeGateway) GetLocationName(_ context.Context, locationID int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nameCalls++
	name, ok := f.locationNames[locationID]
	if !ok {
		return "", domain.ErrNotFound
	}
	return name, nil
}

func (f *fakeGateway) WriteSnapshotField(_ context.Context, itemID, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.writeCalls++
	if err, ok := f.writeErrs[itemID]; ok {
		return err
	}
	f.writes[itemID] = append(f.writes[itemID], value)
	return nil
}

func (f *fakeGateway) EstimateTotalItemCount(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.totalErr != nil {
		return 0, f.totalErr
	}
	return f.total, nil
}

func (f *fakeGateway) GetItemForTrackingUnit(_ context.Context, trackingUnitID string) (entity.CatalogItem, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	item, ok := f.itemByUnit[trackingUnitID]
	if !ok {
		return entity.CatalogItem{}, "", domain.ErrNotFound
	}
	return item, f.rawByUnit[trackingUnitID], nil
}

// lastWrite devuelve el último valor escrito para el artículo, o "".
func (f *fakeGateway) lastWrite(itemID string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	ws := f.writes[itemID]
	if len(ws) == 0 {
		return ""
	}
	return ws[len(ws)-1]
}

var _ PlatformGateway = (*fakeGateway)(nil)
