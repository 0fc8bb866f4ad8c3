package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	Version string
}

func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{Version: version}
}

type HealthResponse struct {
	Status  string `json:"status" example:"healthy"`
	Service string `json:"service" example:"camsentry"`
}

type ServiceInfoResponse struct {
	Service      string   `json:"service" example:"camsentry"`
	Status       string   `json:"status" example:"running"`
	Version      string   `json:"version" example:"1.0.0"`
	Capabilities []string `json:"capabilities"`
}

// @Summary Health check
// @Description Check if the service is healthy and responsive
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: "camsentry",
	})
}

// @Summary Service information
// @Description Get basic service information and capabilities
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} ServiceInfoResponse
// @Router / [get]
func (h *HealthHandler) ServiceInfo(c *gin.Context) {
	c.JSON(http.StatusOK, ServiceInfoResponse{
		Service: "camsentry",
		Status:  "running",
		Version: h.Version,
		Capabilities: []string{
			"motion_webhooks",
			"vision_classification",
			"notification_dispatch",
		},
	})
}
