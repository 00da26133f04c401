package generate

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"curriculum-backend/internal/accounts"
	"curriculum-backend/internal/documents"
	"curriculum-backend/internal/shared/metrics"
	"curriculum-backend/internal/shared/server/middleware"
	"curriculum-backend/internal/shared/server/respond"
	"curriculum-backend/internal/shared/telemetry"
)

// Handler exposes the generation endpoint.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes attaches generation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/generate", h.generate)
}

type generateRequest struct {
	DocumentID string `json:"documentId"`
	Type       string `json:"type"`
	Weeks      int    `json:"weeks"`
}

// generate streams model output as plain text. All fallible work happens
// before the first byte is written; once streaming starts, failures are
// reported with an in-band marker instead of a status code.
func (h *Handler) generate(c *gin.Context) {
	accountID := middleware.AccountIDFromContext(c)
	if accountID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Authentication required", nil)
		return
	}

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid request body", nil)
		return
	}
	if req.DocumentID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "documentId is required", nil)
		return
	}
	c.Set("documentId", req.DocumentID)
	c.Set("generationType", req.Type)

	started := metrics.NowMillis()
	stream, err := h.svc.Start(c.Request.Context(), accountID, Request{
		DocumentID: req.DocumentID,
		Type:       req.Type,
		Weeks:      req.Weeks,
	})
	if err != nil {
		h.startError(c, accountID, req, err)
		return
	}
	defer stream.Close()

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	written, relayErr := Relay(c.Writer, stream)
	metrics.ObserveGenerationDurationMs(metrics.NowMillis() - started)
	if relayErr != nil {
		metrics.IncGenerationFailed()
		telemetry.Error("generation stream interrupted", map[string]any{
			"accountId":    accountID,
			"documentId":   req.DocumentID,
			"type":         req.Type,
			"bytesWritten": written,
			"error":        relayErr.Error(),
		})
		return
	}
	metrics.IncGenerationCompleted()
	telemetry.Info("generation completed", map[string]any{
		"accountId":    accountID,
		"documentId":   req.DocumentID,
		"type":         req.Type,
		"bytesWritten": written,
	})
}

func (h *Handler) startError(c *gin.Context, accountID string, req generateRequest, err error) {
	metrics.IncGenerationFailed()
	switch {
	case errors.Is(err, documents.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Document not found", nil)
	case errors.Is(err, accounts.ErrInsufficientCredits):
		respond.Error(c, http.StatusPaymentRequired, "insufficient_credits", "Not enough credits", nil)
	case errors.Is(err, accounts.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Account not found", nil)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, documents.ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid request", nil)
	case errors.Is(err, ErrProviderFailed):
		respond.Error(c, http.StatusInternalServerError, "generation_failed", "Generation failed to start", nil)
	default:
		telemetry.Error("generation start failed", map[string]any{
			"accountId":  accountID,
			"documentId": req.DocumentID,
			"error":      err.Error(),
		})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
	}
}
