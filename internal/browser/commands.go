package browser

import (
	"context"
	"errors"

	"github.com/GriffinCanCode/vishwakarma/shell/internal/bridge"
)

// CreateTabParams are the parameters of create_new_tab.
type CreateTabParams struct {
	URL string `json:"url,omitempty"`
}

// TabParams identify a tab.
type TabParams struct {
	TabID string `json:"tabId"`
}

// NavigateParams are the parameters of navigate_to_url.
type NavigateParams struct {
	TabID string `json:"tabId"`
	URL   string `json:"url"`
}

// MoveTabParams are the parameters of move_tab.
type MoveTabParams struct {
	TabID string `json:"tabId"`
	Index int    `json:"index"`
}

// TitleParams are the parameters of update_title.
type TitleParams struct {
	TabID string `json:"tabId"`
	Title string `json:"title"`
}

// FaviconParams are the parameters of set_favicon.
type FaviconParams struct {
	TabID      string `json:"tabId"`
	FaviconURL string `json:"faviconUrl"`
}

// PinParams are the parameters of set_pinned.
type PinParams struct {
	TabID  string `json:"tabId"`
	Pinned bool   `json:"pinned"`
}

// HistoryParams are the parameters of get_tab_history. A Limit of 0 returns
// the whole history.
type HistoryParams struct {
	TabID string `json:"tabId"`
	Limit int    `json:"limit,omitempty"`
}

// Host commands served by the tab manager.
var (
	CreateNewTab   = bridge.NewCommand[CreateTabParams, string]("create_new_tab")
	CloseTab       = bridge.NewCommand[TabParams, bridge.Empty]("close_tab")
	NavigateToURL  = bridge.NewCommand[NavigateParams, bridge.Empty]("navigate_to_url")
	ReloadTab      = bridge.NewCommand[TabParams, bridge.Empty]("reload_tab")
	GoBack         = bridge.NewCommand[TabParams, bool]("go_back")
	GoForward      = bridge.NewCommand[TabParams, bool]("go_forward")
	GetTabInfo     = bridge.NewCommand[TabParams, TabInfo]("get_tab_info")
	GetAllTabs     = bridge.NewCommand[bridge.Empty, []TabInfo]("get_all_tabs")
	SetActiveTab   = bridge.NewCommand[TabParams, bridge.Empty]("set_active_tab")
	GetActiveTabID = bridge.NewCommand[bridge.Empty, *string]("get_active_tab_id")
	MoveTab        = bridge.NewCommand[MoveTabParams, bridge.Empty]("move_tab")
	StopLoading    = bridge.NewCommand[TabParams, bridge.Empty]("stop_loading")
	UpdateTitle    = bridge.NewCommand[TitleParams, bridge.Empty]("update_title")
	SetFavicon     = bridge.NewCommand[FaviconParams, bridge.Empty]("set_favicon")
	SetPinned      = bridge.NewCommand[PinParams, bridge.Empty]("set_pinned")
	GetTabHistory  = bridge.NewCommand[HistoryParams, []HistoryEntry]("get_tab_history")
)

// Register serves the browser commands from m on b.
func Register(b *bridge.Bridge, m *Manager) error {
	return errors.Join(
		bridge.Handle(b, CreateNewTab, func(_ context.Context, p CreateTabParams) (string, error) {
			return m.CreateTab(p.URL), nil
		}),
		bridge.Handle(b, CloseTab, func(_ context.Context, p TabParams) (bridge.Empty, error) {
			m.CloseTab(p.TabID)
			return bridge.Empty{}, nil
		}),
		bridge.Handle(b, NavigateToURL, func(_ context.Context, p NavigateParams) (bridge.Empty, error) {
			return bridge.Empty{}, m.Navigate(p.TabID, p.URL)
		}),
		bridge.Handle(b, ReloadTab, func(_ context.Context, p TabParams) (bridge.Empty, error) {
			return bridge.Empty{}, m.Reload(p.TabID)
		}),
		bridge.Handle(b, GoBack, func(_ context.Context, p TabParams) (bool, error) {
			return m.GoBack(p.TabID)
		}),
		bridge.Handle(b, GoForward, func(_ context.Context, p TabParams) (bool, error) {
			return m.GoForward(p.TabID)
		}),
		bridge.Handle(b, GetTabInfo, func(_ context.Context, p TabParams) (TabInfo, error) {
			return m.TabInfo(p.TabID)
		}),
		bridge.Handle(b, GetAllTabs, func(context.Context, bridge.Empty) ([]TabInfo, error) {
			return m.AllTabs(), nil
		}),
		bridge.Handle(b, SetActiveTab, func(_ context.Context, p TabParams) (bridge.Empty, error) {
			return bridge.Empty{}, m.SetActiveTab(p.TabID)
		}),
		bridge.Handle(b, GetActiveTabID, func(context.Context, bridge.Empty) (*string, error) {
			id, ok := m.ActiveTabID()
			if !ok {
				return nil, nil
			}
			return &id, nil
		}),
		bridge.Handle(b, MoveTab, func(_ context.Context, p MoveTabParams) (bridge.Empty, error) {
			return bridge.Empty{}, m.MoveTab(p.TabID, p.Index)
		}),
		bridge.Handle(b, StopLoading, func(_ context.Context, p TabParams) (bridge.Empty, error) {
			return bridge.Empty{}, m.Stop(p.TabID)
		}),
		bridge.Handle(b, UpdateTitle, func(_ context.Context, p TitleParams) (bridge.Empty, error) {
			return bridge.Empty{}, m.UpdateTitle(p.TabID, p.Title)
		}),
		bridge.Handle(b, SetFavicon, func(_ context.Context, p FaviconParams) (bridge.Empty, error) {
			return bridge.Empty{}, m.SetFavicon(p.TabID, p.FaviconURL)
		}),
		bridge.Handle(b, SetPinned, func(_ context.Context, p PinParams) (bridge.Empty, error) {
			return bridge.Empty{}, m.SetPinned(p.TabID, p.Pinned)
		}),
		bridge.Handle(b, GetTabHistory, func(_ context.Context, p HistoryParams) ([]HistoryEntry, error) {
			return m.History(p.TabID, p.Limit)
		}),
	)
}

// IsCallerError reports errors caused by the request rather than the host:
// unknown tabs and empty URLs.
func IsCallerError(err error) bool {
	return errors.Is(err, ErrTabNotFound) || errors.Is(err, ErrEmptyURL)
}
