package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"hrrecords/internal/domain/attendance"
	"hrrecords/internal/domain/audit"
	"hrrecords/internal/domain/auth"
	"hrrecords/internal/domain/employees"
	"hrrecords/internal/domain/performance"
	"hrrecords/internal/domain/portal"
	"hrrecords/internal/domain/reports"
	"hrrecords/internal/platform/config"
	"hrrecords/internal/platform/db"
	"hrrecords/internal/platform/email"
	"hrrecords/internal/platform/metrics"
	"hrrecords/internal/transport/http/api"
	attendancehandler "hrrecords/internal/transport/http/handlers/attendance"
	audithandler "hrrecords/internal/transport/http/handlers/audit"
	authhandler "hrrecords/internal/transport/http/handlers/auth"
	employeeshandler "hrrecords/internal/transport/http/handlers/employees"
	performancehandler "hrrecords/internal/transport/http/handlers/performance"
	portalhandler "hrrecords/internal/transport/http/handlers/portal"
	reportshandler "hrrecords/internal/transport/http/handlers/reports"
	"hrrecords/internal/transport/http/middleware"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	Config  config.Config
	DB      *db.Pool
	Metrics *metrics.Collector
	Router  http.Handler
}

// New builds every store, service and handler over pool and mounts them.
func New(cfg config.Config, pool *db.Pool) *App {
	app := &App{Config: cfg, DB: pool, Metrics: metrics.New()}
	tx := db.NewTransactor(pool)
	auditor := audit.New(pool)
	loc := cfg.Location()

	authStore := auth.NewStore(pool)
	authService := auth.NewService(authStore, tx, cfg.JWTSecret, cfg.TokenTTL, cfg.PortalSessionTTL)

	employeeStore := employees.NewStore(pool)
	provisioner := auth.NewProvisioner(authStore, employeeStore, cfg.DefaultEmployeePassword)
	employeeService := employees.NewService(employeeStore, tx, provisioner, auditor)
	employeeService.Mailer = email.New(cfg)
	employeeService.MailFrom = cfg.EmailFrom

	attendanceService := attendance.NewService(attendance.NewStore(pool), tx, auditor, loc)
	performanceService := performance.NewService(performance.NewStore(pool), tx, auditor)
	reportService := reports.NewService(reports.NewStore(pool), tx, cfg.ReportWindowDays, cfg.ExcellentRatingThreshold, loc)
	portalService := portal.NewService(authService, employeeService, attendanceService)

	loginLimit := middleware.LoginRateLimit(cfg.RateLimitPerMinute, time.Minute)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(app.Metrics))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(authService))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, app.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authService, employeeService, loginLimit).RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
			r.Use(middleware.RequireAuthForWrites)

			employeeshandler.NewHandler(employeeService).RegisterRoutes(r)
			attendancehandler.NewHandler(attendanceService).RegisterRoutes(r)
			performancehandler.NewHandler(performanceService).RegisterRoutes(r)
			reportshandler.NewHandler(reportService).RegisterRoutes(r)
			audithandler.NewHandler(auditor).RegisterRoutes(r)
		})
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
		portalhandler.NewHandler(portalService, cfg.CookieSecure, loginLimit).RegisterRoutes(r)
	})

	app.Router = router
	return app
}

// Prepare applies migrations and the optional seed according to cfg.
func Prepare(ctx context.Context, cfg config.Config, pool *db.Pool) error {
	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}
	return nil
}

func Run() error {
	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer pool.Close()

	if err := Prepare(ctx, cfg, pool); err != nil {
		return err
	}

	app := New(cfg, pool)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("hr records server listening", "addr", cfg.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
