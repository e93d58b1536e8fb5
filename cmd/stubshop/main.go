package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hishamali-gh/storefront/internal/config"
	"github.com/hishamali-gh/storefront/internal/logger"
	"github.com/hishamali-gh/storefront/internal/stubshop"
)

func gracefulShutdown(server *http.Server, log *zap.Logger, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	done <- true
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logger.New(cfg.Shop.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	store := stubshop.NewStore(cfg.Shop.ShippingSurcharge)
	store.Seed(stubshop.DefaultCatalog()...)
	store.SetEnvelope(cfg.Stub.Envelope)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Stub.Port),
		Handler:      stubshop.NewServer(store, log).Router(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	done := make(chan bool, 1)
	go gracefulShutdown(server, log, done)

	log.Info("Stub storefront listening",
		zap.String("addr", server.Addr),
		zap.Bool("envelope", cfg.Stub.Envelope),
	)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	<-done
	log.Info("Graceful shutdown complete")
}
