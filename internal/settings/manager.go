package settings

import (
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/vishwakarma/shell/internal/notify"
	"github.com/GriffinCanCode/vishwakarma/shell/internal/storage"
)

// Notifier shows toasts for settings operations.
type Notifier interface {
	Show(message string, level notify.Level) notify.Notification
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithNotifier sets where toasts go.
func WithNotifier(n Notifier) Option {
	return func(m *Manager) {
		m.notifier = n
	}
}

// WithClearHook registers fn to run after browsing data is cleared, for
// state held outside the store such as in-memory tab history.
func WithClearHook(fn func()) Option {
	return func(m *Manager) {
		if fn != nil {
			m.clearHooks = append(m.clearHooks, fn)
		}
	}
}

// Manager owns the current settings and their stored copy.
type Manager struct {
	store      *storage.Store
	logger     *zap.Logger
	notifier   Notifier
	clearHooks []func()

	mu        sync.RWMutex
	current   Settings
	listeners []func(Settings)
}

// NewManager creates a manager holding the defaults. Call Load to read the
// stored settings.
func NewManager(store *storage.Store, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		logger:  zap.NewNop(),
		current: Defaults(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load reads the stored settings, merged over the defaults. A stored value
// that does not decode is logged and the defaults are used; Load never
// fails.
func (m *Manager) Load() Settings {
	loaded := Defaults()
	found, err := storage.LoadJSONInto(m.store, storage.KeySettings, &loaded)
	if err != nil {
		m.logger.Error("Failed to load settings", zap.Error(err))
		loaded = Defaults()
	}

	m.mu.Lock()
	m.current = loaded
	m.mu.Unlock()

	m.logger.Debug("Settings loaded", zap.Bool("stored", found && err == nil))
	m.changed(loaded)
	return loaded
}

// Get returns the current settings.
func (m *Manager) Get() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// OnChange registers fn to be called with the new settings after every
// Load, Save, Reset and Import.
func (m *Manager) OnChange(fn func(Settings)) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

// Save validates and persists s as the current settings.
func (m *Manager) Save(s Settings) error {
	if err := m.apply(s); err != nil {
		m.toast("Failed to save settings", notify.LevelError)
		return err
	}
	m.toast("Settings saved successfully", notify.LevelSuccess)
	return nil
}

// Reset restores and persists the defaults.
func (m *Manager) Reset() error {
	if err := m.apply(Defaults()); err != nil {
		m.toast("Failed to reset settings", notify.LevelError)
		return err
	}
	m.toast("Settings reset to defaults", notify.LevelInfo)
	return nil
}

// Export renders the current settings in format f.
func (m *Manager) Export(f Format) ([]byte, error) {
	data, err := Encode(f, m.Get())
	if err != nil {
		m.logger.Error("Failed to export settings", zap.String("format", string(f)), zap.Error(err))
		m.toast("Failed to export settings", notify.LevelError)
		return nil, err
	}
	m.toast("Settings exported", notify.LevelSuccess)
	return data, nil
}

// Import replaces the current settings with data, merged over the
// defaults. Data that does not decode or validate leaves the current
// settings untouched and returns an error wrapping ErrInvalidSettings.
func (m *Manager) Import(f Format, data []byte) (Settings, error) {
	s, err := Decode(f, data, Defaults())
	if err == nil {
		err = m.apply(s)
	}
	if err != nil {
		m.logger.Warn("Rejected settings import", zap.String("format", string(f)), zap.Error(err))
		m.toast("Invalid settings file", notify.LevelError)
		return m.Get(), err
	}
	m.toast("Settings imported successfully", notify.LevelSuccess)
	return s, nil
}

// ClearBrowsingData removes stored history, bookmarks and AI conversations
// and runs the clear hooks.
func (m *Manager) ClearBrowsingData() error {
	err := m.store.Remove(storage.KeyHistory, storage.KeyBookmarks, storage.KeyAIConversations)
	if err != nil {
		m.logger.Error("Failed to clear browsing data", zap.Error(err))
		m.toast("Failed to clear browsing data", notify.LevelError)
		return err
	}
	for _, hook := range m.clearHooks {
		hook()
	}
	m.logger.Info("Browsing data cleared")
	m.toast("Browsing data cleared", notify.LevelSuccess)
	return nil
}

func (m *Manager) apply(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := storage.SaveJSON(m.store, storage.KeySettings, s); err != nil {
		m.logger.Error("Failed to persist settings", zap.Error(err))
		return err
	}

	m.mu.Lock()
	m.current = s
	m.mu.Unlock()

	m.changed(s)
	return nil
}

func (m *Manager) changed(s Settings) {
	m.mu.RLock()
	listeners := slices.Clone(m.listeners)
	m.mu.RUnlock()

	for _, fn := range listeners {
		fn(s)
	}
}

func (m *Manager) toast(message string, level notify.Level) {
	if m.notifier != nil {
		m.notifier.Show(message, level)
	}
}
