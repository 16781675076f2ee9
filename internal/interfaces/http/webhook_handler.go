package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Stocksync-api/internal/application/dto"
	"github.com/jhoicas/Stocksync-api/internal/application/stocksync"
	"github.com/jhoicas/Stocksync-api/internal/domain"
	"github.com/jhoicas/Stocksync-api/pkg/logger"
)

// HeaderWebhookSignature header con el HMAC-SHA256 (base64) del cuerpo del webhook.
const HeaderWebhookSignature = "X-Webhook-Signature"

// WebhookHandler recibe las notificaciones de cambio de inventario de la
// plataforma (ruta pública verificada por HMAC, no por JWT).
type WebhookHandler struct {
	incremental *stocksync.Incremental
	secret      string
	log         *logger.Logger
}

// NewWebhookHandler construye el handler. secret vacío desactiva la verificación
// de firma (solo para entornos de desarrollo).
func NewWebhookHandler(incremental *stocksync.Incremental, secret string, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{incremental: incremental, secret: secret, log: log}
}

// HandleInventoryLevel godoc
// @Summary      Notificación de cambio de nivel de inventario
// @Description  Parchea el snapshot del artículo asociado a la unidad de
//
//	inventario notificada. available puede llegar como string y se
//	coacciona a entero (0 si no es numérico).
//
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InventoryLevelWebhook  true  "inventory_item_id, location_id, available"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /webhooks/inventory-levels [post]
func (h *WebhookHandler) HandleInventoryLevel(c *fiber.Ctx) error {
	body := c.Body()

	if h.secret != "" && !validSignature(body, c.Get(HeaderWebhookSignature), h.secret) {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_SIGNATURE", Message: "firma del webhook inválida"})
	}

	var in dto.InventoryLevelWebhook
	if err := json.Unmarshal(body, &in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.InventoryItemID == 0 || in.LocationID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "inventory_item_id y location_id son obligatorios"})
	}

	upd := stocksync.IncrementalUpdate{
		TrackingUnitID: strconv.FormatInt(in.InventoryItemID, 10),
		LocationID:     in.LocationID,
		Available:      in.Available.Int64(),
	}

	if err := h.incremental.Apply(c.Context(), upd); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ningún artículo asociado a la unidad de inventario"})
		}
		var vErr *stocksync.ValidationError
		if errors.As(err, &vErr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: vErr.Error()})
		}
		h.log.Error().Err(err).Int64("location_id", in.LocationID).Msg("fallo aplicando la notificación de inventario")
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "UPSTREAM", Message: "no se pudo aplicar la actualización"})
	}

	return c.JSON(fiber.Map{"message": "nivel de inventario aplicado"})
}

// validSignature compara el HMAC-SHA256 del cuerpo (base64) en tiempo constante.
func validSignature(body []byte, header, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(header))
}
