package routes

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/yopay/yopay/internal/auth"
	"github.com/yopay/yopay/internal/config"
	"github.com/yopay/yopay/internal/identity"
	"github.com/yopay/yopay/internal/middleware"
	"github.com/yopay/yopay/internal/notification"
	"github.com/yopay/yopay/internal/operation"
	"github.com/yopay/yopay/internal/rates"
	"github.com/yopay/yopay/internal/report"
	"github.com/yopay/yopay/internal/signing"
	"github.com/yopay/yopay/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
	Signer *signing.Signer
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Sessions and rate limiting live in Redis, so the cache is mandatory.
	if d.Cache == nil {
		return fmt.Errorf("redis is required")
	}
	if !isDev(d.Cfg.AppEnv) && d.DB == nil {
		return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	// Stores, with in-memory fallbacks for local development without Postgres.
	var (
		walletStore  wallet.Store
		identityRepo identity.Repository
		ledger       operation.Store
	)
	if d.DB != nil {
		walletStore = wallet.NewPostgresStore(d.DB)
		identityRepo = identity.NewPostgresRepository(d.DB)
		ledger = operation.NewPostgresLedger(d.DB)
	} else {
		mem := wallet.NewMemoryStore()
		walletStore = mem
		identityRepo = identity.NewMemoryRepository(mem)
		ledger = operation.NewMemoryLedger(mem)
	}

	ratesClient := rates.NewHTTPClient(d.Cfg.RatesURL, d.Cfg.RatesTTL, d.Cache)
	notifier := notification.NewLoggerNotifier(d.Logger)
	sessions := auth.NewSessions(d.Cache, d.Cfg.SessionTTL)

	identitySvc := identity.NewService(identityRepo)
	walletSvc := wallet.NewService(walletStore, ratesClient)
	operationSvc := operation.NewService(ledger, walletStore, ratesClient, d.Signer, notifier)

	authHandler := auth.NewHandler(identitySvc, sessions)
	walletHandler := wallet.NewHandler(walletSvc)
	operationHandler := operation.NewHandler(operationSvc)

	api := app.Group("/api")

	RegisterAuthRoutes(api, authHandler, middleware.LoginRateLimit(d.Cache, 5))

	sessionAuth := middleware.SessionAuth(sessions)
	RegisterWalletRoutes(api, walletHandler, operationHandler, sessionAuth)
	RegisterOperationRoutes(api, operationHandler, middleware.StatusManagerAuth(d.Cfg.StatusManagerToken))

	if d.DB != nil {
		reportHandler := report.NewHandler(report.NewPostgresSource(d.DB), identityRepo, d.Logger)
		RegisterReportRoutes(api, reportHandler, middleware.OptionalSession(sessions))
	} else {
		d.Logger.Warn("reports disabled: no database configured")
	}

	return nil
}

func isDev(env string) bool {
	switch strings.ToLower(env) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}
