package handlers

import (
	"io"
	"net/http"

	"djp.chapter42.de/jobsproxy/internal/data"
	"djp.chapter42.de/jobsproxy/internal/logger"
	"djp.chapter42.de/jobsproxy/internal/sheetdb"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// Shared caches may serve the list for 60s and a stale copy while refreshing.
	JobsCacheControl = "s-maxage=60, stale-while-revalidate"
	AllowedMethods   = "GET, POST"

	MsgMissingConfig = "Server Configuration Error: Missing SHEETDB_API_URL environment variable."
	MsgFetchFailed   = "Failed to fetch jobs"
	MsgSaveFailed    = "Failed to save job"

	jsonContentType = "application/json; charset=utf-8"
)

// NewJobsHandler proxies GET and POST to the SheetDB endpoint returned by
// upstreamURL, which is consulted on every request.
func NewJobsHandler(upstreamURL func() string, client *sheetdb.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		endpoint := upstreamURL()
		if endpoint == "" {
			logger.Log.Error("SheetDB endpoint is not configured")
			c.JSON(http.StatusInternalServerError, data.ErrorResponse{Error: MsgMissingConfig})
			return
		}

		switch c.Request.Method {
		case http.MethodGet:
			listJobs(c, client, endpoint)
		case http.MethodPost:
			createJobs(c, client, endpoint)
		default:
			c.Header("Allow", AllowedMethods)
			c.String(http.StatusMethodNotAllowed, "Method %s Not Allowed", c.Request.Method)
		}
	}
}

func listJobs(c *gin.Context, client *sheetdb.Client, endpoint string) {
	jobs, err := client.ListJobs(c.Request.Context(), endpoint)
	if err != nil {
		logger.Log.Error("GET error:", zap.Error(err))
		c.JSON(http.StatusInternalServerError, data.ErrorResponse{Error: MsgFetchFailed})
		return
	}

	c.Header("Cache-Control", JobsCacheControl)
	c.Data(http.StatusOK, jsonContentType, jobs)
}

func createJobs(c *gin.Context, client *sheetdb.Client, endpoint string) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		logger.Log.Error("POST error: reading request body:", zap.Error(err))
		c.JSON(http.StatusInternalServerError, data.ErrorResponse{Error: MsgSaveFailed})
		return
	}

	result, err := client.CreateJobs(c.Request.Context(), endpoint, body)
	if err != nil {
		logger.Log.Error("POST error:", zap.Error(err))
		c.JSON(http.StatusInternalServerError, data.ErrorResponse{Error: MsgSaveFailed})
		return
	}

	c.Data(http.StatusCreated, jsonContentType, result)
}
