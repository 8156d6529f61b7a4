package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/vishwakarma/shell/internal/settings"
)

// GetSettings returns the current settings
func (h *Handlers) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.Settings.Get())
}

// UpdateSettings merges the JSON body over the current settings and saves
// the result.
func (h *Handlers) UpdateSettings(c *gin.Context) {
	raw, err := readBody(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	next, err := settings.Decode(settings.FormatJSON, raw, h.Settings.Get())
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.Settings.Save(next); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, next)
}

// ResetSettings restores the defaults
func (h *Handlers) ResetSettings(c *gin.Context) {
	if err := h.Settings.Reset(); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.Settings.Get())
}

// ExportSettings downloads the settings as json, yaml or toml
func (h *Handlers) ExportSettings(c *gin.Context) {
	format, err := settings.ParseFormat(c.Query("format"))
	if err != nil {
		h.fail(c, err)
		return
	}

	data, err := h.Settings.Export(format)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename()))
	c.Data(http.StatusOK, format.ContentType(), data)
}

// ImportSettings replaces the settings with an uploaded file
func (h *Handlers) ImportSettings(c *gin.Context) {
	format, err := settings.ParseFormat(c.Query("format"))
	if err != nil {
		h.fail(c, err)
		return
	}

	raw, err := readBody(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	imported, err := h.Settings.Import(format, raw)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, imported)
}

// ClearBrowsingData removes history, bookmarks and AI conversations
func (h *Handlers) ClearBrowsingData(c *gin.Context) {
	if err := h.Settings.ClearBrowsingData(); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}
