package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"camsentry/internal/logging"
	"camsentry/internal/models"
	"camsentry/internal/services/classifier"
	"camsentry/internal/services/fetcher"
	"camsentry/internal/services/pipeline"
)

type MotionHandler struct {
	pipeline *pipeline.Service
}

func NewMotionHandler(p *pipeline.Service) *MotionHandler {
	return &MotionHandler{pipeline: p}
}

// HandleMotion processes a camera motion webhook
// @Summary Process a motion event
// @Description Validate the webhook, fetch the camera snapshot, classify it and notify on detection. Events inside a location's cooldown window are acknowledged without processing.
// @Tags motion
// @Accept json
// @Produce json
// @Param request body models.MotionRequest true "Motion event"
// @Success 200 {object} models.MotionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /motion [post]
func (h *MotionHandler) HandleMotion(c *gin.Context) {
	var req models.MotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logging.Warn(c).Err(err).Msg("Invalid motion webhook body")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	evt := req.Event(uuid.NewString(), time.Now())
	logging.Info(c).
		Str("event_id", evt.EventID).
		Str("location", evt.Location).
		Bool("ignore_cooldown", evt.IgnoreCooldown).
		Msg("Motion webhook received")

	outcome, err := h.pipeline.Process(c.Request.Context(), evt)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.MotionResponse{
		Status:      string(outcome.Status),
		Location:    evt.Location,
		Detected:    outcome.Result.Detected,
		Description: outcome.Result.Description,
		Timestamp:   evt.ReceivedAt,
	})
}

// statusFor maps upstream transport failures to 502 so the NVR can tell
// its own bad request from a camera or model outage.
func statusFor(err error) int {
	var fetchErr *fetcher.Error
	var classifyErr *classifier.Error
	if errors.As(err, &fetchErr) || errors.As(err, &classifyErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
