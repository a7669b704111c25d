package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ubqurrotul/koperasi-backend/api/routes"
	"github.com/ubqurrotul/koperasi-backend/internal/assistant"
	"github.com/ubqurrotul/koperasi-backend/internal/backup"
	"github.com/ubqurrotul/koperasi-backend/internal/journal"
	"github.com/ubqurrotul/koperasi-backend/internal/ledger"
	"github.com/ubqurrotul/koperasi-backend/internal/members"
	"github.com/ubqurrotul/koperasi-backend/internal/news"
	"github.com/ubqurrotul/koperasi-backend/internal/products"
	"github.com/ubqurrotul/koperasi-backend/internal/shu"
	"github.com/ubqurrotul/koperasi-backend/internal/transactions"
	"github.com/ubqurrotul/koperasi-backend/pkg/config"
	"github.com/ubqurrotul/koperasi-backend/pkg/db"
	"github.com/ubqurrotul/koperasi-backend/pkg/instance"
	"github.com/ubqurrotul/koperasi-backend/pkg/logger"
	"github.com/ubqurrotul/koperasi-backend/pkg/metrics"
	"github.com/ubqurrotul/koperasi-backend/pkg/migrate"
	"github.com/ubqurrotul/koperasi-backend/pkg/outbox"
	"github.com/ubqurrotul/koperasi-backend/pkg/pubsub"
	"github.com/ubqurrotul/koperasi-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gdb := dbClient.DB()

	memberService, err := members.NewService(members.NewRepository(gdb), cfg.JWT, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create member service", err)
		os.Exit(1)
	}

	journalService, err := journal.NewService(journal.NewRepository(gdb))
	if err != nil {
		logg.Error(context.Background(), "failed to create journal service", err)
		os.Exit(1)
	}

	ledgerService, err := ledger.NewService(ledger.NewRepository(gdb), journal.NewRepository(gdb))
	if err != nil {
		logg.Error(context.Background(), "failed to create ledger service", err)
		os.Exit(1)
	}

	shuService, err := shu.NewService(shu.NewConfigRepository(gdb), ledgerService)
	if err != nil {
		logg.Error(context.Background(), "failed to create shu service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(products.NewRepository(gdb))
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	outboxService := outbox.NewService(outbox.NewRepository(gdb), logg)

	transactionService, err := transactions.NewService(
		dbClient,
		transactions.NewRepository(gdb),
		products.NewRepository(gdb),
		shuService,
		ledgerService,
		outboxService,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create transaction service", err)
		os.Exit(1)
	}

	newsService, err := news.NewService(news.NewRepository(gdb))
	if err != nil {
		logg.Error(context.Background(), "failed to create news service", err)
		os.Exit(1)
	}

	backupService, err := backup.NewService(gdb, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create backup service", err)
		os.Exit(1)
	}

	assistantService := assistant.NewService(cfg.Gemini, logg)

	// Pub/Sub is optional for the API process; readiness just skips it
	// when no project is configured.
	var pubsubClient *pubsub.Client
	if cfg.GCP.ProjectID != "" {
		pubsubClient, err = pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub client", err)
			}
		}()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	deps := routes.Deps{
		DB:          dbClient,
		Redis:       redisClient,
		HTTPMetrics: httpMetrics,
		MetricsHTTP: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}
	if pubsubClient != nil {
		deps.PubSub = pubsubClient
	}

	svcs := routes.Services{
		Members:      memberService,
		Transactions: transactionService,
		Products:     productService,
		SHU:          shuService,
		Ledger:       ledgerService,
		Journal:      journalService,
		News:         newsService,
		Backup:       backupService,
		Assistant:    assistantService,
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, svcs, deps),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
