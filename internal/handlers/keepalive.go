package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hiiragi-dev/kakera-ledger/internal/middleware"
	"github.com/hiiragi-dev/kakera-ledger/internal/platform/metrics"
	"github.com/hiiragi-dev/kakera-ledger/pkg/config"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// NewKeepaliveRouter builds the small HTTP server that keeps the bot alive
// on hosts that expect an open port, and exposes health and metrics.
func NewKeepaliveRouter(cfg *config.Config, baseLogger *slog.Logger) (*gin.Engine, error) {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	rate, err := limiter.NewRateFromFormatted("60-M")
	if err != nil {
		return nil, fmt.Errorf("failed to parse rate limit: %w", err)
	}
	limiterInstance := limiter.New(memory.NewStore(), rate)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.StructuredLoggingMiddleware(baseLogger))
	r.Use(cors.Default())
	r.Use(middleware.RateLimit(limiterInstance))

	r.GET("/", getHome)
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	return r, nil
}

func getHome(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "kakera-ledger is watching the channel"})
}
