package server

import (
	"net/http"
	"time"

	"djp.chapter42.de/jobsproxy/internal/config"
	"djp.chapter42.de/jobsproxy/internal/data"
	"djp.chapter42.de/jobsproxy/internal/handlers"
	"djp.chapter42.de/jobsproxy/internal/logger"
	"djp.chapter42.de/jobsproxy/internal/sheetdb"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const JobsRoute = "/api/jobs"

// NewRouter wires the jobs proxy behind recovery, access logging and CORS.
// The SheetDB endpoint is resolved per request through upstreamURL.
func NewRouter(cfg *data.ProxyConfig, upstreamURL func() string) *gin.Engine {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if upstreamURL == nil {
		upstreamURL = config.UpstreamURL
	}

	router := gin.New()
	router.Use(gin.Recovery(), logger.Middleware())
	// CORS is opt-in; without origins every method reaches the jobs handler.
	if len(cfg.CORS.AllowOrigins) > 0 {
		router.Use(cors.New(corsConfig(cfg.CORS)))
	}

	client := sheetdb.NewClient(
		sheetdb.WithHTTPClient(&http.Client{Timeout: cfg.UpstreamTimeout}),
		sheetdb.WithAuthProvider(cfg.AuthProvider),
	)
	jobs := handlers.NewJobsHandler(upstreamURL, client)
	router.Any(JobsRoute, jobs)

	// Any covers the standard methods only, extension methods land here.
	router.NoRoute(func(c *gin.Context) {
		if c.Request.URL.Path == JobsRoute {
			jobs(c)
		}
	})

	return router
}

func corsConfig(cfg data.CORSConfig) cors.Config {
	c := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}
	if len(cfg.AllowOrigins) == 1 && cfg.AllowOrigins[0] == "*" {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.AllowOrigins
	}
	return c
}
