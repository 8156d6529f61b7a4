package browser

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrTabNotFound = errors.New("tab not found")
	ErrEmptyURL    = errors.New("empty URL provided")
)

// Manager owns the open tabs, their order and the active tab. It is safe
// for concurrent use.
type Manager struct {
	logger *zap.Logger
	now    func() time.Time

	mu       sync.RWMutex
	tabs     map[string]*tab
	order    []string
	activeID string
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithManagerLogger sets the logger.
func WithManagerLogger(logger *zap.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithManagerClock replaces time.Now for tab and history timestamps.
func WithManagerClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager creates a manager with no tabs.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		logger: zap.NewNop(),
		now:    time.Now,
		tabs:   make(map[string]*tab),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreateTab opens a tab at url (about:blank when empty) and returns its ID.
// The first tab opened becomes active.
func (m *Manager) CreateTab(url string) string {
	if url == "" {
		url = BlankURL
	}

	now := m.now()
	t := &tab{
		info: TabInfo{
			ID:        uuid.NewString(),
			Title:     DefaultTabTitle,
			URL:       url,
			CreatedAt: now,
		},
		history: NewHistory(MaxHistoryEntries),
	}
	if url != BlankURL {
		t.history.Add(url, DefaultTabTitle, now)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.tabs[t.info.ID] = t
	m.order = append(m.order, t.info.ID)
	if m.activeID == "" {
		m.activateLocked(t.info.ID)
	}

	m.logger.Info("Created tab", zap.String("tab_id", t.info.ID), zap.String("url", url))
	return t.info.ID
}

// CloseTab closes a tab. Closing an unknown tab is logged and ignored.
// Closing the active tab activates the first remaining tab.
func (m *Manager) CloseTab(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tabs[id]; !ok {
		m.logger.Warn("Attempted to close non-existent tab", zap.String("tab_id", id))
		return
	}

	delete(m.tabs, id)
	m.order = slices.DeleteFunc(m.order, func(o string) bool { return o == id })

	if m.activeID == id {
		m.activeID = ""
		if len(m.order) > 0 {
			m.activateLocked(m.order[0])
		}
	}

	m.logger.Info("Closed tab", zap.String("tab_id", id))
}

// Navigate loads url in a tab and records it in the tab's history.
func (m *Manager) Navigate(id, url string) error {
	if url == "" {
		return ErrEmptyURL
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.tabLocked(id)
	if err != nil {
		return err
	}

	t.info.URL = url
	t.info.Title = DefaultTabTitle
	t.info.IsLoading = false
	t.history.Add(url, DefaultTabTitle, m.now())

	m.logger.Info("Tab navigated", zap.String("tab_id", id), zap.String("url", url))
	return nil
}

// Reload reloads the tab's current page.
func (m *Manager) Reload(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.tabLocked(id)
	if err != nil {
		return err
	}

	if t.info.URL == "" {
		m.logger.Warn("Cannot reload: no current URL", zap.String("tab_id", id))
		return nil
	}
	t.info.IsLoading = false
	m.logger.Info("Reloaded tab", zap.String("tab_id", id))
	return nil
}

// Stop marks the tab as no longer loading.
func (m *Manager) Stop(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.tabLocked(id)
	if err != nil {
		return err
	}
	t.info.IsLoading = false
	return nil
}

// GoBack moves the tab one page back. It reports whether the tab moved.
func (m *Manager) GoBack(id string) (bool, error) {
	return m.step(id, (*History).Back, "back")
}

// GoForward moves the tab one page forward. It reports whether the tab
// moved.
func (m *Manager) GoForward(id string) (bool, error) {
	return m.step(id, (*History).Forward, "forward")
}

func (m *Manager) step(id string, move func(*History) (HistoryEntry, bool), direction string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.tabLocked(id)
	if err != nil {
		return false, err
	}

	entry, ok := move(t.history)
	if !ok {
		m.logger.Debug("No history entry to move to",
			zap.String("tab_id", id),
			zap.String("direction", direction),
		)
		return false, nil
	}

	t.info.URL = entry.URL
	t.info.Title = entry.Title
	return true, nil
}

// TabInfo returns a snapshot of one tab.
func (m *Manager) TabInfo(id string) (TabInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, err := m.tabLocked(id)
	if err != nil {
		return TabInfo{}, err
	}
	return t.snapshot(), nil
}

// AllTabs returns every tab in tab-strip order.
func (m *Manager) AllTabs() []TabInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]TabInfo, 0, len(m.order))
	for _, id := range m.order {
		if t, ok := m.tabs[id]; ok {
			out = append(out, t.snapshot())
		}
	}
	return out
}

// SetActiveTab makes a tab the active one.
func (m *Manager) SetActiveTab(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.tabLocked(id); err != nil {
		return err
	}
	m.activateLocked(id)
	return nil
}

// ActiveTabID returns the active tab, if any.
func (m *Manager) ActiveTabID() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.activeID, m.activeID != ""
}

// MoveTab moves a tab to index in the tab strip. Indexes past the end put
// the tab last; negative indexes put it first.
func (m *Manager) MoveTab(id string, index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.tabLocked(id); err != nil {
		return err
	}

	m.order = slices.DeleteFunc(m.order, func(o string) bool { return o == id })
	index = max(0, min(index, len(m.order)))
	m.order = slices.Insert(m.order, index, id)

	m.logger.Info("Moved tab", zap.String("tab_id", id), zap.Int("index", index))
	return nil
}

// UpdateTitle sets the page title of a tab and its current history entry.
func (m *Manager) UpdateTitle(id, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.tabLocked(id)
	if err != nil {
		return err
	}
	t.info.Title = title
	t.history.SetCurrentTitle(title)
	return nil
}

// SetFavicon sets the favicon URL of a tab.
func (m *Manager) SetFavicon(id, faviconURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.tabLocked(id)
	if err != nil {
		return err
	}
	t.info.FaviconURL = faviconURL
	return nil
}

// SetPinned pins or unpins a tab.
func (m *Manager) SetPinned(id string, pinned bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.tabLocked(id)
	if err != nil {
		return err
	}
	t.info.IsPinned = pinned
	return nil
}

// History returns up to limit entries of a tab's history, newest first.
func (m *Manager) History(id string, limit int) ([]HistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, err := m.tabLocked(id)
	if err != nil {
		return nil, err
	}
	return t.history.Recent(limit), nil
}

// ClearHistory empties the history of every tab.
func (m *Manager) ClearHistory() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.tabs {
		t.history.Clear()
	}
	m.logger.Info("Navigation history cleared", zap.Int("tabs", len(m.tabs)))
}

// Len returns the number of open tabs.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tabs)
}

func (m *Manager) tabLocked(id string) (*tab, error) {
	t, ok := m.tabs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTabNotFound, id)
	}
	return t, nil
}

func (m *Manager) activateLocked(id string) {
	if prev, ok := m.tabs[m.activeID]; ok {
		prev.info.IsActive = false
	}
	if next, ok := m.tabs[id]; ok {
		next.info.IsActive = true
		m.activeID = id
	}
}
