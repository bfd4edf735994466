package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"djp.chapter42.de/jobsproxy/internal/config"
	"djp.chapter42.de/jobsproxy/internal/logger"
	"djp.chapter42.de/jobsproxy/internal/server"
	"go.uber.org/zap"
)

func main() {
	// Logger first, so config problems are visible
	logger.InitLogger(false)

	if err := config.InitConfig(logger.Log); err != nil {
		logger.Log.Fatal("Error while loading the configuration:", zap.Error(err))
	}
	if config.Config.Debug {
		logger.InitLogger(true)
	}
	defer logger.Log.Sync()

	router := server.NewRouter(config.Config, config.UpstreamURL)

	port := config.Config.Port
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		logger.Log.Info("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Log.Fatal("Server shutdown failed:", zap.Error(err))
		}

		logger.Log.Info("Server stopped.")
	}()

	logger.Log.Info("Server starting...", zap.String("port", port), zap.String("route", server.JobsRoute))
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Log.Fatal("Error while starting the server:", zap.Error(err))
	}
}
