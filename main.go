package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tien2204/sotaysinhvienhust-rag/internal/adapter/ctsv"
	"github.com/tien2204/sotaysinhvienhust-rag/internal/adapter/oracle"
	"github.com/tien2204/sotaysinhvienhust-rag/internal/adapter/pinecone"
	"github.com/tien2204/sotaysinhvienhust-rag/internal/adapter/tavily"
	"github.com/tien2204/sotaysinhvienhust-rag/internal/adapter/webpage"
	"github.com/tien2204/sotaysinhvienhust-rag/internal/agent"
	"github.com/tien2204/sotaysinhvienhust-rag/internal/config"
	"github.com/tien2204/sotaysinhvienhust-rag/internal/moderation"
	"github.com/tien2204/sotaysinhvienhust-rag/internal/policy"
	"github.com/tien2204/sotaysinhvienhust-rag/internal/scholarship"
	"github.com/tien2204/sotaysinhvienhust-rag/internal/session"
	"github.com/tien2204/sotaysinhvienhust-rag/internal/store"
	"github.com/tien2204/sotaysinhvienhust-rag/internal/tools"
	handler "github.com/tien2204/sotaysinhvienhust-rag/internal/transport/http"
)

func main() {
	cfg := config.Load()

	logger := newLogger(cfg.LogLevel)
	defer logger.Sync() //nolint:errcheck

	logger.Info("starting assistant",
		zap.Int("http_port", cfg.HTTPPort),
		zap.String("database", cfg.DatabaseURL),
		zap.String("oracle_model", cfg.OracleModel),
		zap.String("pinecone_index", cfg.PineconeIndex),
	)

	// Audit store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to initialize store", zap.Error(err))
	}
	defer db.Close()

	// Decision oracle (mock in ASSISTANT_MODE=MOCK)
	o := oracle.NewOracle(cfg.OracleBaseURL, cfg.OracleAPIKey, cfg.OracleModel, cfg.OracleTimeout, logger)

	// Capability adapters
	vector := pinecone.NewClient(pinecone.Config{
		APIKey:  cfg.PineconeAPIKey,
		Index:   cfg.PineconeIndex,
		BaseURL: cfg.PineconeBaseURL,
		Timeout: cfg.ToolTimeout,
	}, logger)
	web := tavily.NewClient(cfg.TavilyAPIKey, 5, cfg.ToolTimeout, logger)
	fetcher := webpage.NewFetcher(cfg.ToolTimeout, logger)
	portal := ctsv.NewClient(cfg.CTSVBaseURL, cfg.ToolTimeout, logger)
	scholarships := scholarship.NewService(portal, logger)

	registry := tools.NewDefaultRegistry(tools.Deps{
		Vector:      vector,
		Web:         web,
		Fetcher:     fetcher,
		Scholarship: scholarships,
		Logger:      logger,
	})

	// Policy gate
	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		logger.Fatal("failed to initialize policy engine", zap.Error(err))
	}

	classifier := moderation.NewClassifier(o, logger)
	sessions := session.NewStore()

	engine := agent.New(sessions, db, o, classifier, registry, policyEngine, agent.Options{
		MaxTurnSteps: cfg.MaxTurnSteps,
		ToolTimeout:  cfg.ToolTimeout,
		WebEnabled:   cfg.TavilyAPIKey != "",
	}, logger)

	h := handler.NewHandler(engine, scholarships, portal, db, logger)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	h.RegisterRoutes(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()
	logger.Info("assistant started", zap.Int("port", cfg.HTTPPort))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}

func newLogger(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
