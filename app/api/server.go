package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/rss-sieve/app/metrics"
)

// NewServer creates a new HTTP server with all routes configured
func NewServer(handler *Handler, m *metrics.Metrics, apiAccessKey string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
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
		SkipPaths: []string{"/health", "/metrics"},
	}))

	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-API-Key")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	setupRoutes(r, handler, m, apiAccessKey)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler, m *metrics.Metrics, apiAccessKey string) {
	public := r.Group("/api")
	{
		public.GET("/articles", handler.ListArticles)
		public.GET("/sources", handler.ListSources)
		public.GET("/countries", handler.ListCountries)
		public.GET("/topics", handler.ListTopics)
		public.GET("/stats", handler.GetStats)
	}

	r.GET("/feed.xml", handler.GetFeed)
	r.GET("/health", handler.GetHealth)
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	// Maintenance endpoints exist only when a key is configured.
	if apiAccessKey != "" {
		api := r.Group("/api")
		api.Use(authMiddleware(apiAccessKey))
		{
			api.POST("/sweep", handler.APISweep)
			api.POST("/recategorize", handler.APIRecategorize)
			api.POST("/purge", handler.APIPurge)
			api.PUT("/articles/:key/paywall-override", handler.APISetPaywallOverride)
		}
		slog.Info("Maintenance API endpoints enabled with authentication")
	} else {
		slog.Info("Maintenance API endpoints disabled (API_ACCESS_KEY not set)")
	}

	r.GET("/", func(c *gin.Context) {
		endpoints := map[string]string{
			"articles":  "/api/articles",
			"sources":   "/api/sources",
			"countries": "/api/countries",
			"topics":    "/api/topics",
			"stats":     "/api/stats",
			"feed":      "/feed.xml",
			"health":    "/health",
		}

		if apiAccessKey != "" {
			endpoints["sweep"] = "/api/sweep (POST, requires X-API-Key header)"
			endpoints["recategorize"] = "/api/recategorize (POST, requires X-API-Key header)"
			endpoints["purge"] = "/api/purge (POST, requires X-API-Key header)"
			endpoints["paywall_override"] = "/api/articles/<key>/paywall-override (PUT, requires X-API-Key header)"
		}

		c.JSON(http.StatusOK, gin.H{
			"service":     "RSS Sieve",
			"version":     handler.version,
			"description": "News feed aggregator that keeps articles about LGBTQIA+ people and women",
			"endpoints":   endpoints,
			"api_status": map[string]interface{}{
				"enabled":       apiAccessKey != "",
				"auth_required": apiAccessKey != "",
				"header":        "X-API-Key",
			},
		})
	})

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
}

// authMiddleware accepts the key in X-API-Key or as a Bearer token.
func authMiddleware(apiAccessKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		providedKey := c.GetHeader("X-API-Key")

		if providedKey == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				providedKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if providedKey == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "API key required",
				"message": "Provide API key in X-API-Key header or Authorization: Bearer <key>",
			})
			c.Abort()
			return
		}

		if providedKey != apiAccessKey {
			slog.Warn("Rejected API request with invalid key", "path", c.Request.URL.Path, "client_ip", c.ClientIP())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid API key",
				"message": "The provided API key is not valid",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
