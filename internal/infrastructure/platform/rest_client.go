// Package platform implementa el PlatformGateway contra la API Admin REST de
// la plataforma de comercio (catálogo, niveles de inventario y metafields).
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/jhoicas/Stocksync-api/internal/application/stocksync"
	"github.com/jhoicas/Stocksync-api/internal/domain"
	"github.com/jhoicas/Stocksync-api/internal/domain/entity"
	"github.com/jhoicas/Stocksync-api/pkg/config"
)

// Verificar en tiempo de compilación que Client implementa el puerto.
var _ stocksync.PlatformGateway = (*Client)(nil)

// Header de autenticación de la API Admin.
const headerAdminToken = "X-Admin-Token"

// Client cliente REST de la API Admin. Usa net/http de la stdlib con reintentos
// exponenciales (backoff) ante respuestas transitorias 429/5xx y fallos de red.
type Client struct {
	baseURL    string
	token      string
	maxTries   uint
	httpClient *http.Client
}

// NewClient construye el cliente. MaxRetries son los reintentos adicionales al
// primer intento; 0 usa el valor por defecto (3).
func NewClient(cfg config.PlatformConfig) *Client {
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = 3
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		token:      cfg.AdminToken,
		maxTries:   uint(retries) + 1,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// ── Estructuras de protocolo ──────────────────────────────────────────────────

type itemsPageResponse struct {
	Items []struct {
		ID             string `json:"id"`
		TrackingUnitID string `json:"tracking_unit_id"`
	} `json:"items"`
	NextCursor string `json:"next_cursor"`
	HasMore    bool   `json:"has_more"`
}

type levelsResponse struct {
	Levels []struct {
		LocationRef  string `json:"location_ref"`
		LocationName string `json:"location_name"`
		Available    *int64 `json:"available"`
	} `json:"levels"`
}

type locationResponse struct {
	Location struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"location"`
}

type countResponse struct {
	Count int `json:"count"`
}

type trackingUnitResponse struct {
	Item struct {
		ID             string `json:"id"`
		TrackingUnitID string `json:"tracking_unit_id"`
	} `json:"item"`
	SnapshotField string `json:"snapshot_field"`
}

type writeSnapshotRequest struct {
	Value string `json:"value"`
}

type validationResponse struct {
	Errors []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

// ── Operaciones del puerto ────────────────────────────────────────────────────

// ListItemsPage devuelve una página de artículos del catálogo.
func (c *Client) ListItemsPage(ctx context.Context, cursor string, pageSize int) (stocksync.ItemPage, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(pageSize))
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	var out itemsPageResponse
	if err := c.doJSON(ctx, http.MethodGet, "/admin/items?"+q.Encode(), nil, &out); err != nil {
		return stocksync.ItemPage{}, fmt.Errorf("listar artículos: %w", err)
	}

	page := stocksync.ItemPage{
		Items:      make([]entity.CatalogItem, 0, len(out.Items)),
		NextCursor: out.NextCursor,
		HasMore:    out.HasMore,
	}
	for _, it := range out.Items {
		page.Items = append(page.Items, entity.CatalogItem{ID: it.ID, TrackingUnitID: it.TrackingUnitID})
	}
	return page, nil
}

// GetLocationLevels devuelve los niveles actuales de la unidad de inventario.
func (c *Client) GetLocationLevels(ctx context.Context, trackingUnitID string) ([]stocksync.LocationLevel, error) {
	var out levelsResponse
	path := "/admin/tracking_units/" + url.PathEscape(trackingUnitID) + "/levels"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("niveles de la unidad %s: %w", trackingUnitID, err)
	}

	levels := make([]stocksync.LocationLevel, 0, len(out.Levels))
	for _, lvl := range out.Levels {
		levels = append(levels, stocksync.LocationLevel{
			LocationRef:  lvl.LocationRef,
			LocationName: lvl.LocationName,
			Available:    lvl.Available,
		})
	}
	return levels, nil
}

// GetLocationName resuelve el nombre legible de una ubicación.
func (c *Client) GetLocationName(ctx context.Context, locationID int64) (string, error) {
	var out locationResponse
	path := "/admin/locations/" + strconv.FormatInt(locationID, 10)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return "", err
	}
	return out.Location.Name, nil
}

// WriteSnapshotField persiste el snapshot serializado en el metafield del artículo.
func (c *Client) WriteSnapshotField(ctx context.Context, itemID, value string) error {
	path := "/admin/items/" + url.PathEscape(itemID) + "/snapshot-field"
	return c.doJSON(ctx, http.MethodPut, path, writeSnapshotRequest{Value: value}, nil)
}

// EstimateTotalItemCount estima el total de artículos del catálogo.
func (c *Client) EstimateTotalItemCount(ctx context.Context) (int, error) {
	var out countResponse
	if err := c.doJSON(ctx, http.MethodGet, "/admin/items/count", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// GetItemForTrackingUnit resuelve el artículo asociado a la unidad de inventario
// y el valor crudo de su metafield de snapshot.
func (c *Client) GetItemForTrackingUnit(ctx context.Context, trackingUnitID string) (entity.CatalogItem, string, error) {
	var out trackingUnitResponse
	path := "/admin/tracking_units/" + url.PathEscape(trackingUnitID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return entity.CatalogItem{}, "", err
	}
	return entity.CatalogItem{ID: out.Item.ID, TrackingUnitID: out.Item.TrackingUnitID}, out.SnapshotField, nil
}

// ── Transporte ────────────────────────────────────────────────────────────────

// doJSON ejecuta una petición JSON con reintentos. 429 y 5xx (y los fallos de
// red) se consideran transitorios; el resto de los estados corta de inmediato:
// 404 → domain.ErrNotFound, 422 → *stocksync.ValidationError.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("serializar petición: %w", err)
		}
	}

	operation := func() (struct{}, error) {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return struct{}{}, backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set(headerAdminToken, c.token)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return struct{}{}, err // fallo de red: reintentable
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return struct{}{}, err
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return struct{}{}, fmt.Errorf("la plataforma respondió %d", resp.StatusCode)
		case resp.StatusCode == http.StatusNotFound:
			return struct{}{}, backoff.Permanent(domain.ErrNotFound)
		case resp.StatusCode == http.StatusUnprocessableEntity:
			return struct{}{}, backoff.Permanent(parseValidation(raw))
		case resp.StatusCode >= 400:
			return struct{}{}, backoff.Permanent(fmt.Errorf("la plataforma rechazó la petición: %d %s", resp.StatusCode, strings.TrimSpace(string(raw))))
		}

		if out != nil {
			if err := json.Unmarshal(raw, out); err != nil {
				return struct{}{}, backoff.Permanent(fmt.Errorf("respuesta ilegible: %w", err))
			}
		}
		return struct{}{}, nil
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = 200 * time.Millisecond

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(expo),
		backoff.WithMaxTries(c.maxTries),
	)
	return err
}

// parseValidation convierte el cuerpo de un 422 en un *stocksync.ValidationError.
func parseValidation(raw []byte) error {
	var vr validationResponse
	if err := json.Unmarshal(raw, &vr); err != nil || len(vr.Errors) == 0 {
		return &stocksync.ValidationError{Errors: []stocksync.FieldError{{Message: strings.TrimSpace(string(raw))}}}
	}
	verr := &stocksync.ValidationError{Errors: make([]stocksync.FieldError, 0, len(vr.Errors))}
	for _, e := range vr.Errors {
		verr.Errors = append(verr.Errors, stocksync.FieldError{Field: e.Field, Message: e.Message})
	}
	return verr
}
