package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	apihttp "github.com/GriffinCanCode/vishwakarma/shell/internal/api/http"
	"github.com/GriffinCanCode/vishwakarma/shell/internal/api/middleware"
	"github.com/GriffinCanCode/vishwakarma/shell/internal/api/ws"
	"github.com/GriffinCanCode/vishwakarma/shell/internal/bridge"
	"github.com/GriffinCanCode/vishwakarma/shell/internal/browser"
	"github.com/GriffinCanCode/vishwakarma/shell/internal/infrastructure/config"
	"github.com/GriffinCanCode/vishwakarma/shell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/vishwakarma/shell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/vishwakarma/shell/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/vishwakarma/shell/internal/notify"
	"github.com/GriffinCanCode/vishwakarma/shell/internal/performance"
	"github.com/GriffinCanCode/vishwakarma/shell/internal/scheduler"
	"github.com/GriffinCanCode/vishwakarma/shell/internal/settings"
	"github.com/GriffinCanCode/vishwakarma/shell/internal/storage"
	"github.com/GriffinCanCode/vishwakarma/shell/internal/timers"
)

// Version is reported by the root endpoint.
var Version = "0.1.0"

// Server wires the shell's components together and owns their lifecycle.
type Server struct {
	cfg    *config.Config
	logger *logging.Logger
	log    *zap.Logger

	metrics       *monitoring.Metrics
	scheduler     *scheduler.Scheduler
	bridge        *bridge.Bridge
	tabs          *browser.Manager
	client        *browser.Client
	store         *storage.Store
	settings      *settings.Manager
	notifications *notify.Center
	tuner         *performance.Tuner
	monitor       *performance.Monitor
	timers        *timers.Group

	router *gin.Engine
	http   *http.Server
}

// New builds every component from cfg. Nothing runs until Run.
func New(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	s := &Server{
		cfg:     cfg,
		logger:  logger,
		log:     logger.Component("server"),
		metrics: monitoring.NewMetrics(),
		timers:  timers.NewGroup(logger.Component("timers")),
	}

	s.scheduler = scheduler.New(
		scheduler.WithLogger(logger.Component("scheduler")),
		scheduler.WithFrameTime(cfg.Scheduler.FrameTimeOr(scheduler.DefaultFrameTime)),
		scheduler.WithObserver(s.metrics),
	)

	s.notifications = notify.NewCenter(
		notify.WithLogger(logger.Component("notify")),
		notify.WithObserver(s.metrics),
	)

	s.bridge = bridge.New(
		bridge.WithLogger(logger.Component("bridge")),
		bridge.WithObserver(s.metrics),
		bridge.WithTimeout(cfg.Bridge.Timeout),
		bridge.WithBreakerSettings(resilience.Settings{
			Timeout: cfg.Bridge.BreakerTimeout,
			ReadyToTrip: func(c resilience.Counts) bool {
				return c.ConsecutiveFailures >= cfg.Bridge.BreakerFailures
			},
			IsFailure: func(err error) bool {
				return !browser.IsCallerError(err)
			},
			OnStateChange: func(name string, _, to resilience.State) {
				s.metrics.SetBreakerState(name, int(to))
			},
		}),
	)

	s.tabs = browser.NewManager(browser.WithManagerLogger(logger.Component("browser")))
	if err := browser.Register(s.bridge, s.tabs); err != nil {
		return nil, fmt.Errorf("register browser commands: %w", err)
	}
	s.client = browser.NewClient(s.bridge, s.notifications, logger.Component("client"))

	s.store = storage.Open(cfg.Storage.Path, logger.Component("storage"))
	s.settings = settings.NewManager(s.store,
		settings.WithLogger(logger.Component("settings")),
		settings.WithNotifier(s.notifications),
		settings.WithClearHook(s.tabs.ClearHistory),
	)
	s.settings.OnChange(s.applySettings)
	s.settings.Load()

	if err := s.setupPerformance(); err != nil {
		return nil, err
	}

	s.router = s.newRouter()
	s.http = &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.scheduler.ScheduleNamed(s.openHomeTab, "normal")
	return s, nil
}

func (s *Server) setupPerformance() error {
	s.tuner = performance.NewTuner(s.scheduler, s.logger.Component("performance"))

	if s.cfg.Performance.Mode != "" {
		mode, err := performance.ParseMode(s.cfg.Performance.Mode)
		if err != nil {
			return err
		}
		if err := s.tuner.SetMode(mode); err != nil {
			return err
		}
	}
	// The mode keeps its GC threshold; an explicit frame time wins.
	if ft := s.cfg.Scheduler.FrameTime; ft != nil {
		s.scheduler.SetFrameTime(*ft)
	}
	if s.cfg.Performance.MemoryLimitMB > 0 {
		s.tuner.SetMemoryLimit(s.cfg.Performance.MemoryLimitMB * performance.MiB)
	}
	s.tuner.SetActive(s.cfg.Performance.MonitorsEnabled)

	s.monitor = performance.NewMonitor(s.tuner, s.scheduler,
		performance.WithMemoryObserver(s.metrics),
		performance.WithMonitorLogger(s.logger.Component("memory")),
	)
	return nil
}

func (s *Server) newRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(s.logger.Component("http")))
	router.Use(monitoring.Middleware(s.metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig().WithOrigins(s.cfg.Server.AllowedOrigins)))
	if s.cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: s.cfg.RateLimit.RequestsPerSecond,
			Burst:             s.cfg.RateLimit.Burst,
		}))
	}

	handlers := apihttp.NewHandlers(apihttp.Deps{
		Bridge:        s.bridge,
		Tabs:          s.tabs,
		Browser:       s.client,
		Settings:      s.settings,
		Scheduler:     s.scheduler,
		Tuner:         s.tuner,
		Notifications: s.notifications,
		Metrics:       s.metrics,
		Version:       Version,
	})
	handlers.Register(router)

	stream := ws.NewHandler(s.notifications, s.metrics, s.logger.Component("ws"))
	router.GET("/stream", stream.HandleConnection)

	return router
}

// openHomeTab opens the first tab at the configured homepage.
func (s *Server) openHomeTab() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Bridge.Timeout)
	defer cancel()

	_, err := s.client.CreateNewTab(ctx, s.settings.Get().General.Homepage)
	return err
}

func (s *Server) applySettings(current settings.Settings) {
	s.log.Info("Settings applied",
		zap.String("theme", current.General.Theme),
		zap.String("search_engine", current.General.SearchEngine),
		zap.Bool("block_trackers", current.Privacy.BlockTrackers),
	)
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Scheduler returns the frame scheduler.
func (s *Server) Scheduler() *scheduler.Scheduler {
	return s.scheduler
}

// Run serves the API and drives the scheduler until ctx is cancelled or a
// component fails, then shuts the HTTP server down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if s.cfg.Performance.MonitorsEnabled {
		if _, err := s.monitor.Start(s.timers, s.cfg.Performance.MemoryInterval); err != nil {
			return fmt.Errorf("start memory monitor: %w", err)
		}
	}
	if err := s.metrics.StartUptime(s.timers); err != nil {
		return fmt.Errorf("start uptime metric: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := s.scheduler.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		s.log.Info("Shell API listening", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()
		s.log.Info("Shutting down HTTP server")
		return s.http.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Close stops timers and notification streams and, if the user asked for
// it, clears browsing data. Call it after Run returns.
func (s *Server) Close() error {
	var errs []error
	if s.settings.Get().Privacy.ClearOnExit {
		errs = append(errs, s.settings.ClearBrowsingData())
	}

	s.timers.Close()
	s.notifications.Close()

	stats := s.scheduler.Stats()
	s.log.Info("Shell stopped",
		zap.Uint64("passes", stats.Passes),
		zap.Uint64("tasks_executed", stats.Executed),
		zap.Int("tasks_dropped", s.scheduler.Len()),
	)
	_ = s.logger.Sync()
	return errors.Join(errs...)
}
