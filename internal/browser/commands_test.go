package browser

import (
	"context"
	"sync"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/vishwakarma/shell/internal/bridge"
	"github.com/GriffinCanCode/vishwakarma/shell/internal/notify"
)

func newRegistered(t *testing.T) (*bridge.Bridge, *Manager) {
	t.Helper()
	b := bridge.New()
	m := newTestManager(t)
	require.NoError(t, Register(b, m))
	return b, m
}

func TestRegisterServesEveryCommand(t *testing.T) {
	b, _ := newRegistered(t)

	assert.ElementsMatch(t, []string{
		"create_new_tab", "close_tab", "navigate_to_url", "reload_tab",
		"go_back", "go_forward", "get_tab_info", "get_all_tabs",
		"set_active_tab", "get_active_tab_id", "move_tab",
		"stop_loading", "update_title", "set_favicon", "set_pinned", "get_tab_history",
	}, b.Commands())

	assert.Error(t, Register(b, newTestManager(t)))
}

func TestCommandsOverJSON(t *testing.T) {
	b, m := newRegistered(t)
	ctx := context.Background()

	out, err := b.InvokeJSON(ctx, "get_active_tab_id", nil)
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))

	out, err = b.InvokeJSON(ctx, "create_new_tab", []byte(`{"url":"https://go.dev"}`))
	require.NoError(t, err)
	var id string
	require.NoError(t, sonic.Unmarshal(out, &id))
	assert.Equal(t, 1, m.Len())

	params, err := sonic.Marshal(NavigateParams{TabID: id, URL: "https://pkg.go.dev"})
	require.NoError(t, err)
	_, err = b.InvokeJSON(ctx, "navigate_to_url", params)
	require.NoError(t, err)

	out, err = b.InvokeJSON(ctx, "go_back", []byte(`{"tabId":"`+id+`"}`))
	require.NoError(t, err)
	assert.Equal(t, "true", string(out))

	out, err = b.InvokeJSON(ctx, "get_tab_info", []byte(`{"tabId":"`+id+`"}`))
	require.NoError(t, err)
	var info TabInfo
	require.NoError(t, sonic.Unmarshal(out, &info))
	assert.Equal(t, "https://go.dev", info.URL)
	assert.True(t, info.CanGoForward)

	out, err = b.InvokeJSON(ctx, "get_active_tab_id", nil)
	require.NoError(t, err)
	assert.Equal(t, `"`+id+`"`, string(out))
}

func TestPageStateCommands(t *testing.T) {
	b, m := newRegistered(t)
	ctx := context.Background()
	id := m.CreateTab("https://go.dev")
	tab := `"tabId":"` + id + `"`

	for name, body := range map[string]string{
		"update_title": `{` + tab + `,"title":"The Go Programming Language"}`,
		"set_favicon":  `{` + tab + `,"faviconUrl":"https://go.dev/favicon.ico"}`,
		"set_pinned":   `{` + tab + `,"pinned":true}`,
		"stop_loading": `{` + tab + `}`,
	} {
		_, err := b.InvokeJSON(ctx, name, []byte(body))
		require.NoError(t, err, name)
	}

	info, err := m.TabInfo(id)
	require.NoError(t, err)
	assert.Equal(t, "The Go Programming Language", info.Title)
	assert.Equal(t, "https://go.dev/favicon.ico", info.FaviconURL)
	assert.True(t, info.IsPinned)
	assert.False(t, info.IsLoading)

	out, err := b.InvokeJSON(ctx, "get_tab_history", []byte(`{`+tab+`,"limit":1}`))
	require.NoError(t, err)
	var entries []HistoryEntry
	require.NoError(t, sonic.Unmarshal(out, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "https://go.dev", entries[0].URL)
	assert.Equal(t, "The Go Programming Language", entries[0].Title)
}

func TestCommandsReportUnknownTabs(t *testing.T) {
	b, _ := newRegistered(t)

	_, err := b.InvokeJSON(context.Background(), "reload_tab", []byte(`{"tabId":"missing"}`))

	assert.ErrorIs(t, err, ErrTabNotFound)
	assert.True(t, IsCallerError(err))
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Error(message string) notify.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	return notify.Notification{Message: message, Level: notify.LevelError}
}

func TestClient(t *testing.T) {
	b, _ := newRegistered(t)
	n := &recordingNotifier{}
	c := NewClient(b, n, nil)
	ctx := context.Background()

	id, err := c.Navigate(ctx, "go.dev", "google")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	same, err := c.Navigate(ctx, "golang generics", "duckduckgo")
	require.NoError(t, err)
	assert.Equal(t, id, same)

	info, err := c.GetTabInfo(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "https://duckduckgo.com/?q=golang+generics", info.URL)

	moved, err := c.GoBack(ctx, id)
	require.NoError(t, err)
	assert.True(t, moved)

	second, err := c.CreateNewTab(ctx, "")
	require.NoError(t, err)
	require.NoError(t, c.MoveTab(ctx, second, 0))
	require.NoError(t, c.SetActiveTab(ctx, second))

	tabs, err := c.GetAllTabs(ctx)
	require.NoError(t, err)
	require.Len(t, tabs, 2)
	assert.Equal(t, second, tabs[0].ID)

	active, err := c.GetActiveTabID(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, active)

	require.NoError(t, c.UpdateTitle(ctx, id, "DuckDuckGo"))
	require.NoError(t, c.SetFavicon(ctx, id, "https://duckduckgo.com/favicon.ico"))
	require.NoError(t, c.SetPinned(ctx, id, true))
	require.NoError(t, c.StopLoading(ctx, id))
	history, err := c.History(ctx, id, 0)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	require.NoError(t, c.CloseTab(ctx, second))
	assert.Empty(t, n.messages)
}

func TestClientShowsErrors(t *testing.T) {
	b, _ := newRegistered(t)
	n := &recordingNotifier{}
	c := NewClient(b, n, nil)

	err := c.ReloadTab(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrTabNotFound)
	assert.Equal(t, []string{"Failed to reload tab"}, n.messages)
}

func TestClientNavigateIgnoresBlankInput(t *testing.T) {
	b, m := newRegistered(t)
	c := NewClient(b, nil, nil)

	id, err := c.Navigate(context.Background(), "  ", "google")

	require.NoError(t, err)
	assert.Empty(t, id)
	assert.Zero(t, m.Len())
}
