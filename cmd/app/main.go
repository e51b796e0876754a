package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"dispatch/cmd"
	httpadapter "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/in/ws"
	"dispatch/internal/adapters/out/postgres/driverrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/jobs"
	"dispatch/internal/pkg/token"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustConnectDB(configs)
	migrateDB(gormDB)

	app := cmd.NewCompositionRoot(configs, gormDB)

	verifier, err := token.NewVerifier(configs.JWTSecret)
	if err != nil {
		log.Fatalf("token verifier: %v", err)
	}

	jobManager := jobs.NewJobManager(
		app.CreateArchiveOrdersCommandHandler(),
		app.CreateSweepStaleDriversCommandHandler(),
		configs.ArchiveRetention,
		configs.DriverStaleAfter,
		logger,
	)
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	hub := ws.NewHub(configs.WSQueueSize, configs.WSMinInterval, logger)
	go hub.Run(context.Background())

	startWebServer(&app, configs, verifier, hub, logger)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Warn("No .env file found, relying on process environment")
	}

	return cmd.Config{
		HTTPPort:         envOr("HTTP_PORT", "8080"),
		DBHost:           envOr("DB_HOST", "localhost"),
		DBPort:           envOr("DB_PORT", "5432"),
		DBUser:           envOr("DB_USER", "postgres"),
		DBPassword:       envOr("DB_PASSWORD", "postgres"),
		DBName:           envOr("DB_NAME", "dispatch"),
		DBSslMode:        envOr("DB_SSLMODE", "disable"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		ArchiveRetention: envDuration("ARCHIVE_RETENTION", 45*24*time.Hour),
		DriverStaleAfter: envDuration("DRIVER_STALE_AFTER", 3*time.Minute),
		SyncBudget:       envDuration("SYNC_BUDGET", 25*time.Second),
		WSQueueSize:      envInt("WS_QUEUE_SIZE", 64),
		WSMinInterval:    envDuration("WS_MIN_INTERVAL", 3*time.Second),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return d
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return n
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("connecting to database: %v", err)
	}
	return gormDB
}

func migrateDB(gormDB *gorm.DB) {
	err := gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.HistoryDTO{},
		&driverrepo.DriverDTO{},
	)
	if err != nil {
		log.Fatalf("migrating database: %v", err)
	}
}

func startWebServer(
	app *cmd.CompositionRoot,
	configs cmd.Config,
	verifier *token.Verifier,
	hub *ws.Hub,
	logger *slog.Logger,
) {
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	server := httpadapter.NewServer(
		app.CreateCreateOrderCommandHandler(),
		app.CreateCreateDriverCommandHandler(),
		app.CreateAssignOrderCommandHandler(),
		app.CreateBatchAssignOrdersCommandHandler(),
		app.CreateReassignOrderCommandHandler(),
		app.CreateUnassignOrderCommandHandler(),
		app.CreateChangeOrderStatusCommandHandler(),
		app.CreateReconcileSyncBatchCommandHandler(),
		app.CreateUnarchiveOrderCommandHandler(),
		app.CreateGetOrderQueryHandler(),
		app.CreateGetOrdersQueryHandler(),
		app.CreateGetDriversQueryHandler(),
		configs.SyncBudget,
	)
	server.RegisterRoutes(e, httpadapter.AuthMiddleware(verifier))

	wsHandler, err := ws.NewHandler(hub, app.DriverRepository(), verifier, logger)
	if err != nil {
		log.Fatalf("ws handler: %v", err)
	}
	wsHandler.Register(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)))
}
