package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Stocksync-api/internal/application/dto"
	"github.com/jhoicas/Stocksync-api/internal/application/stocksync"
	"github.com/jhoicas/Stocksync-api/internal/domain"
)

// SyncHandler expone la superficie de control de la sincronización masiva (protegido).
type SyncHandler struct {
	orch *stocksync.Orchestrator
}

// NewSyncHandler construye el handler.
func NewSyncHandler(orch *stocksync.Orchestrator) *SyncHandler {
	return &SyncHandler{orch: orch}
}

// StartFullSync godoc
// @Summary      Iniciar sincronización masiva de snapshots
// @Description  Recorre todo el catálogo y reescribe el snapshot de stock por
//
//	ubicación de cada artículo. La corrida avanza en segundo plano;
//	el progreso se consulta con GET /api/sync/status.
//
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Success      202  {object}  dto.StartSyncResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sync/full [post]
func (h *SyncHandler) StartFullSync(c *fiber.Ctx) error {
	if GetWorkspaceID(c) == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}

	runID, err := h.orch.StartFullSync()
	if err != nil {
		if errors.Is(err, domain.ErrSyncRunning) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SYNC_RUNNING", Message: "ya hay una sincronización en curso"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	return c.Status(fiber.StatusAccepted).JSON(dto.StartSyncResponse{
		Message: "sincronización iniciada",
		RunID:   runID,
	})
}

// Status godoc
// @Summary      Estado de la sincronización masiva
// @Description  Devuelve el estado actual para polling. El campo summary aparece
//
//	exactamente una vez tras completar la corrida; consultas
//	posteriores devuelven el estado asentado sin él.
//
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SyncStatusResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/sync/status [get]
func (h *SyncHandler) Status(c *fiber.Ctx) error {
	if GetWorkspaceID(c) == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	return c.JSON(toStatusResponse(h.orch.Status()))
}

// toStatusResponse mapea el estado interno al DTO de la superficie de consulta.
func toStatusResponse(p stocksync.Progress) dto.SyncStatusResponse {
	resp := dto.SyncStatusResponse{
		RunID:          p.RunID,
		IsRunning:      p.Running,
		ProcessedCount: p.Processed,
		TotalCount:     p.Total,
		CurrentBatch:   p.CurrentBatch,
		Errors:         make([]dto.SyncErrorDTO, 0, len(p.Errors)),
	}
	if !p.StartedAt.IsZero() {
		t := p.StartedAt
		resp.StartedAt = &t
	}
	if !p.CompletedAt.IsZero() {
		t := p.CompletedAt
		resp.CompletedAt = &t
	}
	for _, e := range p.Errors {
		resp.Errors = append(resp.Errors, dto.SyncErrorDTO{
			Kind:    string(e.Kind),
			ItemID:  e.ItemID,
			Message: e.Message,
			Fields:  e.Fields,
		})
	}
	if p.Summary != nil {
		resp.Summary = &dto.SyncSummaryDTO{
			Success:        p.Summary.Success,
			ProcessedCount: p.Summary.Processed,
			TotalCount:     p.Summary.Total,
			BatchCount:     p.Summary.BatchCount,
			Message:        p.Summary.Message,
		}
	}
	return resp
}
