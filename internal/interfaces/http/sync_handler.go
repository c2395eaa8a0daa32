package http

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dinukasrimal/agency-sync-api/internal/application/dto"
	appsync "github.com/dinukasrimal/agency-sync-api/internal/application/sync"
)

// SyncRunner es lo que el handler necesita del orquestador.
type SyncRunner interface {
	Run(ctx context.Context, in appsync.TriggerInput) appsync.RunResult
}

// SyncHandler maneja las peticiones HTTP del gateway de sincronización.
type SyncHandler struct {
	runner  SyncRunner
	runLogs *appsync.RunLogQuery
}

// NewSyncHandler construye el handler.
func NewSyncHandler(runner SyncRunner, runLogs *appsync.RunLogQuery) *SyncHandler {
	return &SyncHandler{runner: runner, runLogs: runLogs}
}

// Trigger godoc
// @Summary      Ejecutar un sync ahora
// @Description  Ejecuta un ciclo completo: fetch del mirror externo, resolución
//
//	de partners y productos, escritura idempotente en el ledger y
//	avance del watermark.
//
// @Tags         sync
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TriggerSyncRequest  false  "trigger_source, metadata, full_resync"
// @Success      200   {object}  dto.SyncResultResponse  "run completado (puede incluir errores parciales)"
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.SyncResultResponse  "fallo fatal de fetch o configuración"
// @Router       /api/sync/trigger [post]
func (h *SyncHandler) Trigger(c *fiber.Ctx) error {
	in := appsync.TriggerInput{Source: "manual"}
	if len(c.Body()) > 0 {
		var req dto.TriggerSyncRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
		if req.TriggerSource != "" {
			in.Source = req.TriggerSource
		}
		in.Metadata = req.Metadata
		in.FullResync = req.FullResync
	}

	res := h.runner.Run(c.Context(), in)

	body := dto.SyncResultResponse{
		Success:           res.Success,
		Message:           res.Message,
		SyncedCount:       res.SyncedCount,
		ErrorCount:        res.ErrorCount,
		Errors:            res.Errors,
		UnmatchedPartners: res.UnmatchedPartners,
		UnmatchedProducts: res.UnmatchedProducts,
		Timestamp:         res.Timestamp.UTC().Format(time.RFC3339),
	}
	if !res.Success {
		return c.Status(fiber.StatusInternalServerError).JSON(body)
	}
	return c.JSON(body)
}

// Logs godoc
// @Summary      Historial de runs de sincronización
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "máximo de entradas (1-100, default 20)"
// @Success      200  {array}   dto.SyncRunLogResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/sync/logs [get]
func (h *SyncHandler) Logs(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	logs, err := h.runLogs.Recent(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	out := make([]dto.SyncRunLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, dto.SyncRunLogResponse{
			ID:            l.ID,
			RunAt:         l.RunAt.UTC().Format(time.RFC3339),
			Status:        l.Status,
			RecordsSynced: l.RecordsSynced,
			Message:       l.Message,
			Details:       l.Details,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "runs": out})
}
