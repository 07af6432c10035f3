package http

import (
	"github.com/GriffinCanCode/assetpack/internal/api/middleware"
	"github.com/GriffinCanCode/assetpack/internal/infrastructure/logging"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig configures the admin router
type RouterConfig struct {
	CORS      middleware.CORSConfig
	RateLimit float64
	Burst     int
	Logger    *logging.Logger
}

// NewRouter registers the admin routes. gatherer may be nil, in which case
// /metrics is not served.
func NewRouter(h *Handlers, gatherer prometheus.Gatherer, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.Logger(cfg.Logger),
		middleware.CORS(cfg.CORS),
		middleware.RateLimit(cfg.RateLimit, cfg.Burst),
	)

	router.GET("/health", h.Health)
	router.GET("/packages", h.ListPackages)
	router.GET("/packages/*name", h.GetPackage)
	router.GET("/update", h.GetUpdate)

	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
	return router
}
