package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"camsentry/internal/services/messaging"
	"camsentry/internal/services/pipeline"
	"camsentry/internal/services/ratelimit"
)

// SystemHandler handles system-related endpoints
type SystemHandler struct {
	pipeline *pipeline.Service
	limiter  *ratelimit.Service
	events   *messaging.Service
	started  time.Time
}

// NewSystemHandler creates a new system handler. events may be nil when
// NATS is disabled.
func NewSystemHandler(p *pipeline.Service, limiter *ratelimit.Service, events *messaging.Service) *SystemHandler {
	return &SystemHandler{
		pipeline: p,
		limiter:  limiter,
		events:   events,
		started:  time.Now(),
	}
}

// @Summary Get system stats
// @Description Get pipeline counters and process statistics
// @Tags system
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /system/stats [get]
func (h *SystemHandler) GetStats(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats": gin.H{
			"pipeline":          h.pipeline.Stats(),
			"tracked_locations": h.limiter.Tracked(),
			"nats_connected":    h.events != nil && h.events.IsConnected(),
			"uptime_seconds":    int64(time.Since(h.started).Seconds()),
			"memory_mb":         m.Alloc / 1024 / 1024,
			"goroutines":        runtime.NumGoroutine(),
			"go_version":        runtime.Version(),
		},
		"timestamp": time.Now().Unix(),
	})
}

// @Summary Get debug info
// @Description Get debug information for troubleshooting
// @Tags system
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /system/debug [get]
func (h *SystemHandler) GetDebugInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"debug": gin.H{
			"endpoints":  []string{"/health", "/motion", "/system"},
			"components": []string{"rate_limiter", "snapshot_fetcher", "classifier", "dispatcher"},
		},
		"timestamp": time.Now().Unix(),
	})
}
