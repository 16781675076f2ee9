// Package snapshot contiene la lógica pura del snapshot de stock:
// serialización del metafield y merge incremental por ubicación.
package snapshot

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jhoicas/Stocksync-api/internal/domain"
	"github.com/jhoicas/Stocksync-api/internal/domain/entity"
)

// Encode serializa el snapshot al valor canónico JSON que se guarda en el
// metafield del artículo. El orden de las ubicaciones se preserva.
func Encode(s entity.StockSnapshot) (string, error) {
	if s.Locations == nil {
		// Canonicalizar: un snapshot sin ubicaciones serializa como lista vacía, no null.
		s.Locations = []entity.StockLocation{}
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("snapshot: serializar: %w", err)
	}
	return string(raw), nil
}

// Decode deserializa el valor almacenado en el metafield.
// Un valor vacío o malformado devuelve domain.ErrDecode: el llamador SIEMPRE
// debe tratarlo como "sin snapshot previo" y reconstruir desde la fuente,
// nunca propagarlo (no se distingue "sin datos" de "datos corruptos").
func Decode(raw string) (entity.StockSnapshot, error) {
	if strings.TrimSpace(raw) == "" {
		return entity.StockSnapshot{}, domain.ErrDecode
	}
	var s entity.StockSnapshot
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return entity.StockSnapshot{}, fmt.Errorf("%w: %s", domain.ErrDecode, err)
	}
	return s, nil
}
