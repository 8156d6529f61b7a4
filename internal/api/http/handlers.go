package http

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/vishwakarma/shell/internal/bridge"
	"github.com/GriffinCanCode/vishwakarma/shell/internal/browser"
	"github.com/GriffinCanCode/vishwakarma/shell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/vishwakarma/shell/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/vishwakarma/shell/internal/notify"
	"github.com/GriffinCanCode/vishwakarma/shell/internal/performance"
	"github.com/GriffinCanCode/vishwakarma/shell/internal/scheduler"
	"github.com/GriffinCanCode/vishwakarma/shell/internal/settings"
	"github.com/GriffinCanCode/vishwakarma/shell/internal/shared/id"
)

// maxBodyBytes bounds command params and imported settings files.
const maxBodyBytes = 1 << 20

// Deps are the components the handlers serve.
type Deps struct {
	Bridge        *bridge.Bridge
	Tabs          *browser.Manager
	Browser       *browser.Client
	Settings      *settings.Manager
	Scheduler     *scheduler.Scheduler
	Tuner         *performance.Tuner
	Notifications *notify.Center
	Metrics       *monitoring.Metrics
	Version       string
}

// Handlers contains all HTTP handlers
type Handlers struct {
	Deps
	started time.Time
}

// NewHandlers creates a new handler set
func NewHandlers(deps Deps) *Handlers {
	if deps.Version == "" {
		deps.Version = "dev"
	}
	return &Handlers{Deps: deps, started: time.Now()}
}

// Register adds every route to r.
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(h.Metrics.Handler()))

	r.GET("/commands", h.ListCommands)
	r.POST("/commands/:name", h.InvokeCommand)
	r.GET("/tabs", h.ListTabs)
	r.POST("/navigate", h.Navigate)

	r.GET("/settings", h.GetSettings)
	r.PUT("/settings", h.UpdateSettings)
	r.POST("/settings/reset", h.ResetSettings)
	r.GET("/settings/export", h.ExportSettings)
	r.POST("/settings/import", h.ImportSettings)
	r.POST("/browsing-data/clear", h.ClearBrowsingData)

	r.GET("/scheduler/stats", h.SchedulerStats)
	r.GET("/performance", h.GetPerformance)
	r.PUT("/performance/mode", h.SetPerformanceMode)
	r.PUT("/performance/fps", h.SetFPSTarget)

	r.GET("/notifications", h.ListNotifications)
	r.DELETE("/notifications/:id", h.DismissNotification)
}

// Root handles the liveness check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Vishwakarma Shell",
		"version": h.Version,
	})
}

// Health reports the state of every component. An open command breaker
// marks the shell degraded.
func (h *Handlers) Health(c *gin.Context) {
	status := "healthy"
	breaker := h.Bridge.BreakerState()
	if breaker != resilience.StateClosed {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         status,
		"uptime_seconds": time.Since(h.started).Seconds(),
		"scheduler":      h.Scheduler.Stats(),
		"tabs":           h.Tabs.Len(),
		"bridge": gin.H{
			"commands": len(h.Bridge.Commands()),
			"breaker":  breaker.String(),
		},
		"performance":   h.Tuner.Current(),
		"notifications": len(h.Notifications.Active()),
		"metrics":       h.Metrics.Snapshot(),
		"goroutines":    monitoring.Goroutines(),
	})
}

// ListCommands lists the registered bridge commands
func (h *Handlers) ListCommands(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"commands": h.Bridge.Commands()})
}

// InvokeCommand runs a bridge command with the request body as its JSON
// params and returns the command's JSON result.
func (h *Handlers) InvokeCommand(c *gin.Context) {
	raw, err := readBody(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	out, err := h.Bridge.InvokeJSON(c.Request.Context(), c.Param("name"), raw)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", out)
}

// SchedulerStats returns queue depths and pass timings
func (h *Handlers) SchedulerStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.Scheduler.Stats())
}

// ListNotifications returns the visible notifications
func (h *Handlers) ListNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notifications": h.Notifications.Active()})
}

// DismissNotification removes a notification before it expires
func (h *Handlers) DismissNotification(c *gin.Context) {
	nid := c.Param("id")
	if !id.IsValid(nid) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	if !h.Notifications.Dismiss(id.NotificationID(nid)) {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func readBody(c *gin.Context) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	return io.ReadAll(c.Request.Body)
}
