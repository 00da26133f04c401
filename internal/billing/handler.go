package billing

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"curriculum-backend/internal/accounts"
	"curriculum-backend/internal/shared/server/middleware"
	"curriculum-backend/internal/shared/server/respond"
	"curriculum-backend/internal/shared/telemetry"
)

// Handler exposes checkout and transaction routes. The webhook route lives
// in webhook.go since it authenticates with a Stripe signature, not a JWT.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes attaches billing routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/checkout", h.checkout)
	rg.GET("/transactions", h.listTransactions)
}

type checkoutRequest struct {
	PriceID string `json:"priceId"`
	Credits int    `json:"credits"`
}

type checkoutResponse struct {
	URL string `json:"url"`
}

func (h *Handler) checkout(c *gin.Context) {
	accountID := middleware.AccountIDFromContext(c)
	if accountID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "You must be logged in to purchase credits", nil)
		return
	}

	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid request body", nil)
		return
	}
	if req.PriceID == "" || req.Credits <= 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "priceId and credits are required", nil)
		return
	}

	account, err := h.svc.Accounts.Get(c.Request.Context(), accountID)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "Account not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
		return
	}

	url, err := h.svc.CreateCheckoutSession(c.Request.Context(), account, req.PriceID, req.Credits)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid checkout request", nil)
			return
		}
		telemetry.Error("checkout session creation failed", map[string]any{"accountId": accountID, "error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "checkout_failed", "Failed to create checkout session", nil)
		return
	}

	respond.OK(c, checkoutResponse{URL: url})
}

type transactionResponse struct {
	TransactionID   string `json:"transactionId"`
	StripeSessionID string `json:"stripeSessionId"`
	AmountCents     int64  `json:"amountCents"`
	Credits         int    `json:"credits"`
	Status          string `json:"status"`
	CreatedAt       string `json:"createdAt"`
}

func (h *Handler) listTransactions(c *gin.Context) {
	accountID := middleware.AccountIDFromContext(c)
	if accountID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Authentication required", nil)
		return
	}

	txs, err := h.svc.Transactions(c.Request.Context(), accountID, 50, 0)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
		return
	}

	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, transactionResponse{
			TransactionID:   tx.ID,
			StripeSessionID: tx.StripeSessionID,
			AmountCents:     tx.AmountCents,
			Credits:         tx.Credits,
			Status:          tx.Status,
			CreatedAt:       tx.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	respond.OK(c, gin.H{"transactions": out})
}
