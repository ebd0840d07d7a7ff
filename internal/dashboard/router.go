package dashboard

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NewRouter wires the read-only API.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(requestLogger(h.Logger), gin.Recovery())

	router.GET("/healthz", h.GetHealth)
	router.HEAD("/healthz", h.GetHealth)

	api := router.Group("/api")
	{
		api.GET("/players", h.GetPlayers)
		api.GET("/players/top", h.GetTopPlayers)
		api.GET("/championship/:metric", h.GetChampionship)
		api.GET("/teams/performance", h.GetTeamPerformance)
		api.GET("/tests/:test", h.GetTestResults)
	}
	return router
}

func requestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Debug("request")
	}
}
