package accounts

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"curriculum-backend/internal/shared/server/middleware"
	"curriculum-backend/internal/shared/server/respond"
)

// MeHandler returns the authenticated account's profile and credit balance.
func MeHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID := middleware.AccountIDFromContext(c)
		if accountID == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		account, err := svc.Get(c.Request.Context(), accountID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				respond.Error(c, http.StatusNotFound, "not_found", "Account not found", nil)
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
			return
		}

		response := gin.H{
			"accountId": account.ID,
			"credits":   account.Credits,
		}
		if account.Email != "" {
			response["email"] = account.Email
		}
		if account.FullName != "" {
			response["name"] = account.FullName
		}
		if account.PictureURL != "" {
			response["picture"] = account.PictureURL
		}

		respond.JSON(c, http.StatusOK, response)
	}
}
