package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Dhoini/gym-fee-tracker/config"
	"github.com/Dhoini/gym-fee-tracker/internal/api/rest"
	"github.com/Dhoini/gym-fee-tracker/internal/app"
	"github.com/Dhoini/gym-fee-tracker/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Пропускаем ошибку, если .env файл не найден
	_ = godotenv.Load()

	// Загрузка конфигурации
	cfg, err := config.Load(os.Getenv("CONFIG_DIR"))
	if err != nil {
		logger.New(logger.ERROR).Fatal("Failed to load configuration: %v", err)
	}

	log := logger.NewWithFormat(logger.ParseLevel(cfg.Logging.Level), cfg.Logging.Format)
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: %v", err)
	}

	// Установка режима Gin
	gin.SetMode(cfg.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application: %v", err)
	}

	server := rest.NewServer(application.Router, cfg, log)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Errorw("Server error", "error", err)
		}
	case <-ctx.Done():
	}

	// Graceful shutdown
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Errorw("Server forced to shutdown", "error", err)
	}
	if err := application.Close(); err != nil {
		log.Errorw("Failed to close application resources", "error", err)
	}

	log.Info("Server stopped gracefully")
}
