package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	googleauth "curriculum-backend/internal/auth"
	"curriculum-backend/internal/billing"
	"curriculum-backend/internal/documents"
	"curriculum-backend/internal/generate"
	"curriculum-backend/internal/shared/config"
	"curriculum-backend/internal/shared/metrics"
	"curriculum-backend/internal/shared/server/middleware"
	"curriculum-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config          config.Config
	DocumentHandler *documents.Handler
	GenerateHandler *generate.Handler
	BillingHandler  *billing.Handler
	WebhookHandler  *billing.WebhookHandler
	GoogleAuth      *googleauth.GoogleService
	MeHandler       gin.HandlerFunc
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"GENERATE": {Rate: 0.5, Burst: 3},
			},
			GroupFor: func(c *gin.Context) string {
				if c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/generate" {
					return "GENERATE"
				}
				return ""
			},
		}),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/metrics", metrics.Handler())

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.MeHandler != nil {
		api.GET("/me", deps.MeHandler)
	}
	if deps.DocumentHandler != nil {
		deps.DocumentHandler.RegisterRoutes(api)
	}
	if deps.GenerateHandler != nil {
		deps.GenerateHandler.RegisterRoutes(api)
	}
	if deps.BillingHandler != nil {
		deps.BillingHandler.RegisterRoutes(api)
	}
	if deps.WebhookHandler != nil {
		deps.WebhookHandler.RegisterRoutes(api)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
