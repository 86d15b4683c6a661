package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-portfolio-ledger/internal/ledger/config"
	delivery "golang-portfolio-ledger/internal/ledger/delivery/http"
	_ "golang-portfolio-ledger/internal/ledger/docs"
	"golang-portfolio-ledger/internal/ledger/repository"
	"golang-portfolio-ledger/internal/ledger/service"
	"golang-portfolio-ledger/pkg/logger"
	"golang-portfolio-ledger/pkg/postgres"
	"golang-portfolio-ledger/pkg/redis"
	"golang-portfolio-ledger/pkg/telegram"
	"golang-portfolio-ledger/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the ledger service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Ledger Service",
		logger.Field("name", cfg.App.Name),
		logger.Field("portfolios", cfg.Ledger.Portfolios),
	)

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis
	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	// Initialize notifier
	notifier, err := telegram.NewNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		appLogger.Warn("Failed to initialize Telegram notifier, notifications disabled", logger.ErrorField(err))
		notifier = telegram.NopNotifier{}
	}

	// Initialize repositories
	positionRepo := repository.NewPositionRepository(db.DB)
	historyRepo := repository.NewHistoryRepository(db.DB)
	portfolioRepo := repository.NewPortfolioRepository(db.DB)
	snapshotRepo := repository.NewSnapshotRepository(db.DB)
	priceRepo := repository.NewCoinGeckoRepository(cfg, appLogger)
	priceCacheRepo := repository.NewPriceCacheRepository(redisClient.Client, cfg.PriceRefresh.CacheTTL)

	// Initialize services
	ledgerSvc := service.NewLedgerService(cfg, positionRepo, historyRepo, portfolioRepo, snapshotRepo, notifier, appLogger)
	if err := ledgerSvc.Load(ctx); err != nil {
		appLogger.Fatal("Failed to load ledger", logger.ErrorField(err))
	}
	refreshSvc := service.NewPriceRefreshService(cfg, ledgerSvc, priceRepo, priceCacheRepo, appLogger)

	// Start price refresh
	utils.GoSafe(func() { refreshSvc.Start(ctx) })

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(delivery.RequestContext())

	// Initialize handlers and routes
	apiV1 := e.Group("/api/v1")
	portfolioHandler := delivery.NewPortfolioHandler(ledgerSvc, appLogger)
	portfolioHandler.RegisterRoutes(apiV1.Group("/portfolios"))

	snapshotHandler := delivery.NewSnapshotHandler(ledgerSvc, appLogger)
	snapshotHandler.RegisterRoutes(apiV1)

	priceHandler := delivery.NewPriceHandler(refreshSvc, appLogger)
	priceHandler.RegisterRoutes(apiV1)

	e.GET("/swagger/*", swagger.WrapHandler)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// @title Portfolio Ledger API
// @version 1.0
// @description Crypto portfolio ledger: positions, cash, history, snapshots and prices.
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "ledger-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-ledger.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing ledger-service CLI: %s\n", err)
		os.Exit(1)
	}
}
