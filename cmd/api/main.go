package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	appanalytics "github.com/jhoicas/nexus-bills/internal/application/analytics"
	"github.com/jhoicas/nexus-bills/internal/application/auth"
	"github.com/jhoicas/nexus-bills/internal/application/billing"
	"github.com/jhoicas/nexus-bills/internal/application/notification"
	"github.com/jhoicas/nexus-bills/internal/application/usecase"
	"github.com/jhoicas/nexus-bills/internal/domain/repository"
	"github.com/jhoicas/nexus-bills/internal/infrastructure/memory"
	infmongo "github.com/jhoicas/nexus-bills/internal/infrastructure/mongo"
	infrapdf "github.com/jhoicas/nexus-bills/internal/infrastructure/pdf"
	"github.com/jhoicas/nexus-bills/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/nexus-bills/internal/interfaces/http"
	"github.com/jhoicas/nexus-bills/pkg/config"
	"github.com/jhoicas/nexus-bills/pkg/logger"
)

// stores the persistence ports of one backend.
type stores struct {
	users         repository.UserRepository
	companies     repository.CompanyRepository
	notifications repository.NotificationRepository
	bills         repository.BillRepository
	sequences     repository.SequenceRepository
	analytics     repository.AnalyticsRepository
	accountTx     auth.AccountTxRunner // nil: no transaction
	close         func(ctx context.Context)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load config: " + err.Error())
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("starting")

	// amounts go over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = randomSecret()
		log.Warn().Msg("JWT_SECRET not set, using an ephemeral secret; tokens will not survive a restart")
	}

	ctx := context.Background()
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("open stores")
	}

	feed := notification.NewFeed(st.notifications, log)
	seq := billing.NewSequenceGenerator(st.sequences)
	authUC := auth.NewAuthUseCase(st.users, st.companies, feed, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	if st.accountTx != nil {
		authUC.WithTx(st.accountTx)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())

	if _, err := os.Stat(cfg.App.DocsPath); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.DocsPath,
			Path:     "docs",
			Title:    "Nexus Bills API",
		}))
	} else {
		log.Warn().Str("path", cfg.App.DocsPath).Msg("swagger document not found, /docs disabled")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		CompanyUC:   usecase.NewCompanyUseCase(st.companies),
		UserUC:      usecase.NewUserUseCase(st.users, st.companies),
		BillUC:      billing.NewBillUseCase(st.bills, st.analytics, st.companies, seq, feed),
		Converter:   billing.NewConverter(st.bills, st.companies, seq, feed),
		BillPDF:     billing.NewPDFUseCase(st.bills, infrapdf.NewMarotoPDFGenerator()),
		Feed:        feed,
		DashboardUC: appanalytics.NewDashboardUseCase(st.analytics, st.bills, log),
		JWTSecret:   cfg.JWT.Secret,
		Log:         log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("http server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
	st.close(shutdownCtx)

	log.Info().Msg("stopped")
}

// openStores connects the configured backend. "external" keeps accounts and
// notifications in PostgreSQL and bills in MongoDB; "memory" keeps everything
// in process.
func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	if cfg.Store.Driver == config.StoreMemory {
		bills := memory.NewBillStore()
		log.Warn().Msg("memory store: data is lost on restart")
		return &stores{
			users:         memory.NewUserStore(),
			companies:     memory.NewCompanyStore(),
			notifications: memory.NewNotificationStore(),
			bills:         bills,
			sequences:     bills,
			analytics:     bills,
			close:         func(context.Context) {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	mc, err := infmongo.Connect(ctx, cfg.Mongo)
	if err != nil {
		pool.Close()
		return nil, err
	}
	if err := mc.Migrate(ctx); err != nil {
		pool.Close()
		_ = mc.Close(ctx)
		return nil, err
	}
	if cfg.Mongo.Transactions && !mc.Transactions() {
		log.Warn().Msg("mongo is standalone, conversions use insert + compensating delete instead of transactions")
	}
	bills := infmongo.NewBillStore(mc, log)

	return &stores{
		users:         postgres.NewUserRepository(pool),
		companies:     postgres.NewCompanyRepository(pool),
		notifications: postgres.NewNotificationRepository(pool),
		bills:         bills,
		sequences:     bills,
		analytics:     bills,
		accountTx:     postgres.NewTxRunner(pool),
		close: func(ctx context.Context) {
			if err := mc.Close(ctx); err != nil {
				log.Error().Err(err).Msg("mongo disconnect")
			}
			pool.Close()
		},
	}, nil
}

func randomSecret() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
