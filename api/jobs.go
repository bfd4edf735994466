package handler

import (
	"net/http"
	"sync"

	"djp.chapter42.de/jobsproxy/internal/config"
	"djp.chapter42.de/jobsproxy/internal/logger"
	"djp.chapter42.de/jobsproxy/internal/server"
	"go.uber.org/zap"
)

var (
	initOnce sync.Once
	engine   http.Handler
)

func setup() {
	logger.InitLogger(false)
	if err := config.InitConfig(logger.Log); err != nil {
		// A broken config answers every request with a 500.
		logger.Log.Error("Error while loading the configuration:", zap.Error(err))
		engine = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"Server Configuration Error"}`))
		})
		return
	}
	if config.Config.Debug {
		logger.InitLogger(true)
	}
	engine = server.NewRouter(config.Config, config.UpstreamURL)
}

// Handler is the entry point for Vercel's Go runtime.
func Handler(w http.ResponseWriter, r *http.Request) {
	initOnce.Do(setup)
	engine.ServeHTTP(w, r)
}
