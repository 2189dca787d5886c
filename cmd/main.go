package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"buyback-logistics/internal/config"
	"buyback-logistics/internal/database"
	"buyback-logistics/internal/infrastructure/database/postgres/models"
	"buyback-logistics/internal/logger"
	"buyback-logistics/internal/notify"
	"buyback-logistics/internal/routes"
	"buyback-logistics/internal/usecase/schedule"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	env := cfg.Server.Environment
	if env == "" {
		env = "development"
	}
	if err := logger.Init(env); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("environment", env),
	)

	if cfg.Database.Host == "" || cfg.Database.DBName == "" {
		logger.Fatal("Database configuration is missing. Please set DB_HOST and DB_NAME environment variables.")
	}

	db, err := database.NewDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	if err := db.Migrate(
		&models.SlotModel{},
		&models.AppointmentModel{},
		&models.StateLogModel{},
		&models.RouteModel{},
		&models.RoutePickupModel{},
	); err != nil {
		logger.Fatal("Failed to migrate database schema", zap.Error(err))
	}

	var publisher schedule.EventPublisher
	if cfg.MQTT.Enabled {
		p, err := notify.NewPublisher(cfg.MQTT)
		if err != nil {
			logger.Warn("MQTT broker unavailable, appointment events disabled", zap.Error(err))
		} else {
			publisher = p
			defer p.Close()
		}
	}

	router, scheduleService := routes.SetupRoutes(cfg, db, publisher)

	maintenanceCtx, maintenanceCancel := context.WithCancel(context.Background())
	defer maintenanceCancel()

	if _, err := scheduleService.EnsureSlotsInitialized(maintenanceCtx); err != nil {
		logger.Fatal("Failed to initialize schedule slots", zap.Error(err))
	}
	go runSlotMaintenance(maintenanceCtx, scheduleService)

	host := cfg.Server.Host
	if host == "" {
		host = "0.0.0.0"
	}
	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}
	addr := net.JoinHostPort(host, port)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting",
			zap.String("address", addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown Server ...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Failed to shutdown server", zap.Error(err))
	}

	log.Println("Server exited properly")
}

// runSlotMaintenance keeps the rolling booking window topped up as days
// roll over.
func runSlotMaintenance(ctx context.Context, svc *schedule.Service) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := svc.EnsureSlotsInitialized(ctx); err != nil {
				logger.Error("Slot maintenance failed", zap.Error(err))
			}
		}
	}
}
