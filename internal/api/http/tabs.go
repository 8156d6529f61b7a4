package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/vishwakarma/shell/internal/browser"
)

type navigateRequest struct {
	Input string `json:"input" binding:"required"`
}

// ListTabs returns every tab and the active tab ID
func (h *Handlers) ListTabs(c *gin.Context) {
	active, _ := h.Tabs.ActiveTabID()
	c.JSON(http.StatusOK, gin.H{
		"tabs":      h.Tabs.AllTabs(),
		"active_id": active,
	})
}

// Navigate handles address-bar input: a URL or a search query is loaded in
// the active tab, or in a new tab when none is open.
func (h *Handlers) Navigate(c *gin.Context) {
	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	engine := h.Settings.Get().General.SearchEngine
	tabID, err := h.Browser.Navigate(c.Request.Context(), req.Input, engine)
	if err == nil && tabID == "" {
		err = browser.ErrEmptyURL
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	info, err := h.Tabs.TabInfo(tabID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}
