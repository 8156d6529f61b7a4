package browser

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/vishwakarma/shell/internal/bridge"
	"github.com/GriffinCanCode/vishwakarma/shell/internal/notify"
)

// Notifier shows user-visible errors.
type Notifier interface {
	Error(message string) notify.Notification
}

// Client is the front end's typed view of the browser commands. Failures
// are logged, shown to the user as an error toast and returned.
type Client struct {
	bridge   *bridge.Bridge
	notifier Notifier
	logger   *zap.Logger
}

// NewClient creates a client. notifier may be nil.
func NewClient(b *bridge.Bridge, notifier Notifier, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{bridge: b, notifier: notifier, logger: logger}
}

// CreateNewTab opens a tab and returns its ID.
func (c *Client) CreateNewTab(ctx context.Context, url string) (string, error) {
	id, err := bridge.Invoke(ctx, c.bridge, CreateNewTab, CreateTabParams{URL: url})
	return id, c.report(err, "Failed to create new tab")
}

// CloseTab closes a tab.
func (c *Client) CloseTab(ctx context.Context, tabID string) error {
	_, err := bridge.Invoke(ctx, c.bridge, CloseTab, TabParams{TabID: tabID})
	return c.report(err, "Failed to close tab")
}

// NavigateToURL loads url in a tab.
func (c *Client) NavigateToURL(ctx context.Context, tabID, url string) error {
	_, err := bridge.Invoke(ctx, c.bridge, NavigateToURL, NavigateParams{TabID: tabID, URL: url})
	return c.report(err, "Failed to navigate")
}

// Navigate handles address bar input: it formats the input as a URL or
// search and loads it in the active tab, opening a tab when none is active.
// It returns the tab that was navigated.
func (c *Client) Navigate(ctx context.Context, input, searchEngine string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", nil
	}
	url := FormatURLWith(input, searchEngine)

	active, err := c.GetActiveTabID(ctx)
	if err != nil {
		return "", err
	}
	if active == "" {
		return c.CreateNewTab(ctx, url)
	}
	return active, c.NavigateToURL(ctx, active, url)
}

// ReloadTab reloads a tab.
func (c *Client) ReloadTab(ctx context.Context, tabID string) error {
	_, err := bridge.Invoke(ctx, c.bridge, ReloadTab, TabParams{TabID: tabID})
	return c.report(err, "Failed to reload tab")
}

// GoBack moves a tab back in its history.
func (c *Client) GoBack(ctx context.Context, tabID string) (bool, error) {
	moved, err := bridge.Invoke(ctx, c.bridge, GoBack, TabParams{TabID: tabID})
	return moved, c.report(err, "Failed to go back")
}

// GoForward moves a tab forward in its history.
func (c *Client) GoForward(ctx context.Context, tabID string) (bool, error) {
	moved, err := bridge.Invoke(ctx, c.bridge, GoForward, TabParams{TabID: tabID})
	return moved, c.report(err, "Failed to go forward")
}

// GetTabInfo returns one tab.
func (c *Client) GetTabInfo(ctx context.Context, tabID string) (TabInfo, error) {
	info, err := bridge.Invoke(ctx, c.bridge, GetTabInfo, TabParams{TabID: tabID})
	return info, c.report(err, "Failed to get tab info")
}

// GetAllTabs returns every tab in order.
func (c *Client) GetAllTabs(ctx context.Context) ([]TabInfo, error) {
	tabs, err := bridge.Invoke(ctx, c.bridge, GetAllTabs, bridge.Empty{})
	return tabs, c.report(err, "Failed to get all tabs")
}

// SetActiveTab switches to a tab.
func (c *Client) SetActiveTab(ctx context.Context, tabID string) error {
	_, err := bridge.Invoke(ctx, c.bridge, SetActiveTab, TabParams{TabID: tabID})
	return c.report(err, "Failed to switch tab")
}

// GetActiveTabID returns the active tab, or "" when there is none.
func (c *Client) GetActiveTabID(ctx context.Context) (string, error) {
	id, err := bridge.Invoke(ctx, c.bridge, GetActiveTabID, bridge.Empty{})
	if err := c.report(err, "Failed to get active tab"); err != nil {
		return "", err
	}
	if id == nil {
		return "", nil
	}
	return *id, nil
}

// MoveTab moves a tab within the tab strip.
func (c *Client) MoveTab(ctx context.Context, tabID string, index int) error {
	_, err := bridge.Invoke(ctx, c.bridge, MoveTab, MoveTabParams{TabID: tabID, Index: index})
	return c.report(err, "Failed to move tab")
}

// StopLoading stops a tab's page load.
func (c *Client) StopLoading(ctx context.Context, tabID string) error {
	_, err := bridge.Invoke(ctx, c.bridge, StopLoading, TabParams{TabID: tabID})
	return c.report(err, "Failed to stop loading")
}

// UpdateTitle records the page title of a tab.
func (c *Client) UpdateTitle(ctx context.Context, tabID, title string) error {
	_, err := bridge.Invoke(ctx, c.bridge, UpdateTitle, TitleParams{TabID: tabID, Title: title})
	return c.report(err, "Failed to update tab title")
}

// SetFavicon records the favicon of a tab.
func (c *Client) SetFavicon(ctx context.Context, tabID, faviconURL string) error {
	_, err := bridge.Invoke(ctx, c.bridge, SetFavicon, FaviconParams{TabID: tabID, FaviconURL: faviconURL})
	return c.report(err, "Failed to update tab icon")
}

// SetPinned pins or unpins a tab.
func (c *Client) SetPinned(ctx context.Context, tabID string, pinned bool) error {
	_, err := bridge.Invoke(ctx, c.bridge, SetPinned, PinParams{TabID: tabID, Pinned: pinned})
	return c.report(err, "Failed to pin tab")
}

// History returns up to limit history entries of a tab, newest first.
func (c *Client) History(ctx context.Context, tabID string, limit int) ([]HistoryEntry, error) {
	entries, err := bridge.Invoke(ctx, c.bridge, GetTabHistory, HistoryParams{TabID: tabID, Limit: limit})
	return entries, c.report(err, "Failed to load history")
}

func (c *Client) report(err error, message string) error {
	if err == nil {
		return nil
	}
	c.logger.Error(message, zap.Error(err))
	if c.notifier != nil {
		c.notifier.Error(message)
	}
	return err
}
