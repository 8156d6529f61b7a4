// Package browser is the in-process tab and navigation host that serves the
// shell's browser commands.
package browser

import (
	"time"
)

// DefaultTabTitle is the title of a tab that has not loaded a page yet.
const DefaultTabTitle = "New Tab"

// TabInfo is the snapshot of a tab sent over the bridge.
type TabInfo struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	URL          string    `json:"url"`
	FaviconURL   string    `json:"favicon_url,omitempty"`
	IsActive     bool      `json:"is_active"`
	IsLoading    bool      `json:"is_loading"`
	IsPinned     bool      `json:"is_pinned"`
	CanGoBack    bool      `json:"can_go_back"`
	CanGoForward bool      `json:"can_go_forward"`
	CreatedAt    time.Time `json:"created_at"`
}

// tab is the manager's mutable record of one tab.
type tab struct {
	info    TabInfo
	history *History
}

func (t *tab) snapshot() TabInfo {
	info := t.info
	info.CanGoBack = t.history.CanGoBack()
	info.CanGoForward = t.history.CanGoForward()
	return info
}
