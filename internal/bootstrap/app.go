package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"curriculum-backend/internal/accounts"
	googleauth "curriculum-backend/internal/auth"
	"curriculum-backend/internal/billing"
	"curriculum-backend/internal/curriculum"
	"curriculum-backend/internal/documents"
	"curriculum-backend/internal/generate"
	"curriculum-backend/internal/llm"
	"curriculum-backend/internal/llm/gemini"
	"curriculum-backend/internal/llm/openai"
	"curriculum-backend/internal/shared/config"
	"curriculum-backend/internal/shared/server"
	"curriculum-backend/internal/shared/storage/db"
	"curriculum-backend/internal/shared/storage/object"
	localstore "curriculum-backend/internal/shared/storage/object/local"
	s3store "curriculum-backend/internal/shared/storage/object/s3"
)

var errDatabaseRequired = errors.New("DATABASE_URL is required")

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	AccountsRepo  accounts.Repo
	DocumentsRepo documents.Repo
	BillingRepo   billing.Repo

	AccountsService  *accounts.Service
	DocumentsService *documents.Service
	GenerateService  *generate.Service
	BillingService   *billing.Service

	CurriculumCache *curriculum.Cache
	LLMClient       llm.StreamClient

	DocumentsHandler *documents.Handler
	GenerateHandler  *generate.Handler
	BillingHandler   *billing.Handler
	WebhookHandler   *billing.WebhookHandler
	GoogleAuth       *googleauth.GoogleService
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		DocumentHandler: app.DocumentsHandler,
		GenerateHandler: app.GenerateHandler,
		BillingHandler:  app.BillingHandler,
		WebhookHandler:  app.WebhookHandler,
		GoogleAuth:      app.GoogleAuth,
		MeHandler:       accounts.MeHandler(app.AccountsService),
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, errDatabaseRequired
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; using in-memory repositories: %v", err)
			sqlDB.Close()
			return nil, nil
		}
		sqlDB.Close()
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildServices(app *App) error {
	if app.DB != nil {
		app.AccountsRepo = &accounts.PGRepo{DB: app.DB}
		app.DocumentsRepo = &documents.PGRepo{DB: app.DB}
		app.BillingRepo = &billing.PGRepo{DB: app.DB}
	} else {
		app.AccountsRepo = accounts.NewMemoryRepo()
		app.DocumentsRepo = documents.NewMemoryRepo()
		app.BillingRepo = billing.NewMemoryRepo()
	}

	app.AccountsService = accounts.NewService(app.AccountsRepo)
	app.DocumentsService = &documents.Service{Store: app.Store, Repo: app.DocumentsRepo}

	llmClient, err := buildLLMClient(app.Config)
	if err != nil {
		return err
	}
	app.LLMClient = llmClient

	app.CurriculumCache = curriculum.NewCache(
		time.Duration(app.Config.CacheTTLSeconds)*time.Second,
		app.Config.CacheMaxEntries,
	)

	app.GenerateService = &generate.Service{
		Documents: app.DocumentsService,
		Accounts:  app.AccountsService,
		Cache:     app.CurriculumCache,
		Client:    app.LLMClient,
	}
	app.DocumentsService.OnExtracted = app.GenerateService.InvalidateDocument

	app.BillingService = billing.NewService(
		app.AccountsService,
		app.BillingRepo,
		app.Config.StripeSecretKey,
		app.Config.CheckoutSuccessURL,
		app.Config.CheckoutCancelURL,
	)

	app.GoogleAuth = googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		app.AccountsService,
		app.Config.InitialCredits,
	)

	app.DocumentsHandler = documents.NewHandler(app.DocumentsService)
	app.GenerateHandler = generate.NewHandler(app.GenerateService)
	app.BillingHandler = billing.NewHandler(app.BillingService)
	app.WebhookHandler = billing.NewWebhookHandler(app.BillingService, app.Config.StripeWebhookSecret)

	return nil
}

func buildLLMClient(cfg config.Config) (llm.StreamClient, error) {
	timeout := time.Duration(cfg.LLMTimeoutSeconds) * time.Second
	switch cfg.LLMProvider {
	case "gemini":
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			return gemini.NewClient(key, cfg.LLMModel, timeout)
		}
	default:
		if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			return openai.NewClient(key, cfg.LLMModel, timeout)
		}
	}
	if !isDevLike(cfg.Env) {
		return nil, llm.ErrNotConfigured
	}
	log.Printf("bootstrap: no provider API key set; using placeholder client")
	return llm.PlaceholderClient{}, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
