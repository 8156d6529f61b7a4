package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/vishwakarma/shell/internal/performance"
)

type modeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

type fpsRequest struct {
	Target string `json:"target" binding:"required"`
}

// GetPerformance returns the effective performance profile
func (h *Handlers) GetPerformance(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"profile": h.Tuner.Current(),
		"modes":   performance.Modes(),
		"active":  h.Tuner.Active(),
	})
}

// SetPerformanceMode switches the performance mode
func (h *Handlers) SetPerformanceMode(c *gin.Context) {
	var req modeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mode, err := performance.ParseMode(req.Mode)
	if err == nil {
		err = h.Tuner.SetMode(mode)
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	h.Notifications.Info("Performance mode: " + string(mode))
	c.JSON(http.StatusOK, h.Tuner.Current())
}

// SetFPSTarget sets the frame rate ("unlimited" or a number)
func (h *Handlers) SetFPSTarget(c *gin.Context) {
	var req fpsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Tuner.SetFPSTarget(req.Target); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.Tuner.Current())
}
