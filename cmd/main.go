package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"wound-vision/config"
	"wound-vision/internal/api/rest"
	"wound-vision/internal/api/telegram"
	"wound-vision/internal/container"
	"wound-vision/internal/infrastructure/storage"
	"wound-vision/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("CRITICAL: Failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		os.Stderr.WriteString("CRITICAL: Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	// Создаём хранилище сессий бота
	userRepo := storage.NewMemoryUserRepository()

	// Собираем сервисы приложения
	appContainer, err := container.New(cfg.Analysis, userRepo, log)
	if err != nil {
		log.Fatal("Failed to build container", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := rest.New(cfg.Server, appContainer.AnalysisService, log.Named("http"))
	go func() {
		if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Бот необязателен: без токена работает только HTTP
	if cfg.Telegram.Token != "" {
		bot, err := telegram.NewBot(cfg.Telegram.Token, appContainer.UserService, appContainer.AnalysisService, log.Named("telegram"))
		if err != nil {
			log.Fatal("Failed to create bot", zap.Error(err))
		}
		go func() {
			log.Info("Bot is running...")
			if err := bot.Run(ctx); err != nil {
				log.Error("Bot error", zap.Error(err))
			}
		}()
	} else {
		log.Info("TELEGRAM_TOKEN is not set, bot disabled")
	}

	<-ctx.Done()
	log.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
