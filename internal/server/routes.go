package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
)

func newRouter(s *Server, accessLog io.Writer) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Output: accessLog,
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))
	r.Use(gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "expat-events",
			"endpoints": map[string]string{
				"health":    "/health",
				"report":    "/report",
				"calendars": "/calendars",
				"calendar":  "/calendars/<name>.ics",
				"refresh":   "/refresh (POST)",
				"metrics":   "/metrics",
			},
		})
	})
	r.GET("/health", s.handleHealth)
	r.GET("/report", s.handleReport)
	r.GET("/calendars", s.handleListCalendars)
	r.GET("/calendars/:name", s.handleCalendar)
	r.POST("/refresh", s.handleRefresh)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	last := s.status()

	health := gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if !last.at.IsZero() {
		health["last_run"] = last.at.Format(time.RFC3339)
	}
	if last.report != nil {
		health["events"] = last.report.TotalEvents()
	}
	if last.err != nil {
		health["status"] = "degraded"
		health["last_error"] = last.err.Error()
	}
	c.JSON(http.StatusOK, health)
}

func (s *Server) handleReport(c *gin.Context) {
	last := s.status()
	if last.report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No run has completed yet"})
		return
	}

	body := gin.H{"report": last.report}
	if last.err != nil {
		body["error"] = last.err.Error()
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) handleListCalendars(c *gin.Context) {
	names, err := s.out.List(".ics")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Listing calendars failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"calendars": names})
}

func (s *Server) handleCalendar(c *gin.Context) {
	path, err := s.out.Path(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid calendar name"})
		return
	}
	if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Calendar not found"})
		return
	}

	c.Header("Content-Type", "text/calendar; charset=utf-8")
	c.File(path)
}

func (s *Server) handleRefresh(c *gin.Context) {
	report, err := s.Refresh(c.Request.Context())
	switch {
	case errors.Is(err, ErrRunInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "report": report})
	default:
		c.JSON(http.StatusOK, gin.H{"report": report})
	}
}
