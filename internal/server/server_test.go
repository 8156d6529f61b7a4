package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/vishwakarma/shell/internal/api/middleware"
	"github.com/GriffinCanCode/vishwakarma/shell/internal/infrastructure/config"
	"github.com/GriffinCanCode/vishwakarma/shell/internal/performance"
	"github.com/GriffinCanCode/vishwakarma/shell/internal/storage"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Port = "0"
	cfg.Storage.Path = filepath.Join(t.TempDir(), "store.json")
	cfg.RateLimit.Enabled = false
	return cfg
}

func TestNewOpensHomeTabOnFirstFrame(t *testing.T) {
	srv, err := New(testConfig(t), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	require.Equal(t, 1, srv.Scheduler().Len())
	assert.Zero(t, srv.tabs.Len())

	result := srv.Scheduler().OnFrame()

	assert.Equal(t, 1, result.Total())
	assert.Zero(t, result.Failed)
	assert.Equal(t, 1, srv.tabs.Len())
	active, ok := srv.tabs.ActiveTabID()
	require.True(t, ok)
	info, err := srv.tabs.TabInfo(active)
	require.NoError(t, err)
	assert.Equal(t, "about:blank", info.URL)
}

func TestNewAppliesPerformanceConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Performance.Mode = "eco"
	cfg.Performance.MemoryLimitMB = 10
	frameTime := 20 * time.Millisecond
	cfg.Scheduler.FrameTime = &frameTime

	srv, err := New(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	profile := srv.tuner.Current()
	assert.Equal(t, performance.ModeEco, profile.Mode)
	assert.Equal(t, 20*time.Millisecond, profile.FrameTime)
	assert.Equal(t, uint64(10*performance.MiB), profile.GCThreshold)
}

func TestNewModeSetsFrameTimeByDefault(t *testing.T) {
	tests := []struct {
		mode     string
		expected time.Duration
	}{
		{mode: "eco", expected: 66670 * time.Microsecond},
		{mode: "quantum", expected: 8330 * time.Microsecond},
		{mode: "", expected: time.Second / 60},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Performance.Mode = tt.mode

			srv, err := New(cfg, nil)
			require.NoError(t, err)
			t.Cleanup(func() { _ = srv.Close() })

			assert.Equal(t, tt.expected, srv.Scheduler().FrameTime())
		})
	}
}

func TestNewExplicitUnlimitedFrameTime(t *testing.T) {
	cfg := testConfig(t)
	unlimited := time.Duration(0)
	cfg.Scheduler.FrameTime = &unlimited

	srv, err := New(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	assert.Equal(t, performance.ModeTurbo, srv.tuner.Mode())
	assert.Zero(t, srv.Scheduler().FrameTime())
}

func TestNewRejectsUnknownMode(t *testing.T) {
	cfg := testConfig(t)
	cfg.Performance.Mode = "warp"

	_, err := New(cfg, nil)
	assert.ErrorIs(t, err, performance.ErrUnknownMode)
}

func TestHandlerServesAPI(t *testing.T) {
	srv, err := New(testConfig(t), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	for _, path := range []string{"/", "/health", "/commands", "/tabs", "/settings", "/scheduler/stats", "/metrics"} {
		t.Run(path, func(t *testing.T) {
			w := httptest.NewRecorder()
			srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Performance.MemoryInterval = 10 * time.Millisecond
	srv, err := New(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	assert.Eventually(t, func() bool { return srv.tabs.Len() == 1 }, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestCloseClearsDataWhenAsked(t *testing.T) {
	srv, err := New(testConfig(t), nil)
	require.NoError(t, err)

	s := srv.settings.Get()
	s.Privacy.ClearOnExit = true
	require.NoError(t, srv.settings.Save(s))
	require.NoError(t, srv.store.Set(storage.KeyHistory, `[]`))

	require.NoError(t, srv.Close())

	_, ok := srv.store.Get(storage.KeyHistory)
	assert.False(t, ok)
	_, ok = srv.store.Get(storage.KeySettings)
	assert.True(t, ok)
}
