package modules

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OpsModule exposes liveness and, when enabled, Prometheus metrics.
type OpsModule struct {
	MetricsEnabled bool
}

func NewOpsModule(metricsEnabled bool) *OpsModule {
	return &OpsModule{MetricsEnabled: metricsEnabled}
}

func (m *OpsModule) Register(rg *gin.RouterGroup) {
	rg.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if m.MetricsEnabled {
		rg.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}
