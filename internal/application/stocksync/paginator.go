package stocksync

import (
	"context"

	"github.com/jhoicas/Stocksync-api/internal/domain/entity"
)

// PageFetcher obtiene una página de artículos. cursor vacío = primera página.
type PageFetcher func(ctx context.Context, cursor string) (ItemPage, error)

// Paginator recorre una colección paginada por cursor bajo demanda: cada página
// se pide solo cuando el consumidor la solicita (nunca lee por adelantado) y la
// secuencia no es reiniciable. Un fallo del fetch aborta la enumeración con un
// único error; no se salta la página en silencio.
type Paginator struct {
	fetch   PageFetcher
	cursor  string
	hasMore bool
	failed  bool
}

// NewPaginator construye el paginador posicionado antes de la primera página.
func NewPaginator(fetch PageFetcher) *Paginator {
	return &Paginator{fetch: fetch, hasMore: true}
}

// Next devuelve la siguiente página. ok=false indica secuencia agotada (o
// abortada por un fallo previo). Tras un error, las llamadas posteriores
// devuelven ok=false sin volver a consultar la fuente.
func (p *Paginator) Next(ctx context.Context) (items []entity.CatalogItem, ok bool, err error) {
	if p.failed || !p.hasMore {
		return nil, false, nil
	}
	page, err := p.fetch(ctx, p.cursor)
	if err != nil {
		p.failed = true
		p.hasMore = false
		return nil, false, err
	}
	p.cursor = page.NextCursor
	p.hasMore = page.HasMore
	return page.Items, true, nil
}

// HasMore indica si quedan páginas por leer después de la última llamada a Next.
func (p *Paginator) HasMore() bool {
	return p.hasMore
}
