package main

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

	"fedbridge/config"
	"fedbridge/internal/adapter/gateway"
	adapterhandler "fedbridge/internal/adapter/handler"
	"fedbridge/internal/domain"
	infratoken "fedbridge/internal/infrastructure/token"
	"fedbridge/internal/metrics"
	"fedbridge/internal/usecase"
	appmiddleware "fedbridge/middleware"
	"fedbridge/utils/logger"
	"fedbridge/utils/otel"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Handle healthcheck subcommand (for Docker healthcheck in distroless image)
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		if err := runHealthcheck(); err != nil {
			fmt.Fprintf(os.Stderr, "Healthcheck failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Local development convenience; absent .env is fine.
	_ = godotenv.Load()

	// Initialize OpenTelemetry
	otelCfg := otel.ConfigFromEnv()
	otelShutdown, err := otel.InitProvider(ctx, otelCfg)
	if err != nil {
		slog.Warn("failed to initialize OpenTelemetry, continuing without tracing", "error", err)
		otelCfg.Enabled = false
		otelShutdown = func(context.Context) error { return nil }
	}

	// Initialize structured logger
	logger.Init(otelCfg.Enabled)

	// Load configuration; a missing mandatory value is fatal before the
	// bridge accepts its first call.
	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.InfoContext(ctx, "configuration loaded",
		"account_api_url", cfg.APIBaseURL,
		"tenant_scope", cfg.TenantScope,
		"port", cfg.Port,
		"request_timeout", cfg.RequestTimeout)

	// Metrics
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// Gateways
	sessionClient := &http.Client{Timeout: cfg.RequestTimeout}
	sessions := gateway.NewSessionManager(sessionClient, cfg.APIBaseURL,
		cfg.APIUsername, cfg.APIPassword, cfg.ClientID, slog.Default(), collector)
	accounts := gateway.NewAccountClient(cfg.APIBaseURL, cfg.TenantScope,
		cfg.RequestTimeout, sessions, slog.Default(), collector)

	var issuer domain.HostTokenIssuer
	if cfg.HostTokenSecret != "" {
		issuer = infratoken.NewJWTIssuer(infratoken.JWTConfig{
			Secret:   cfg.HostTokenSecret,
			Issuer:   cfg.HostTokenIssuer,
			Audience: cfg.HostTokenAudience,
			TTL:      cfg.HostTokenTTL,
		})
	}

	// Usecases
	scope := domain.TenantScope(cfg.TenantScope)
	byUsernameUC := usecase.NewLookupByUsername(accounts, scope, slog.Default(), collector)
	byIDUC := usecase.NewLookupByID(accounts, scope, slog.Default(), collector)
	listUC := usecase.NewListUsers(accounts, scope, slog.Default(), collector)
	verifyUC := usecase.NewVerifyCredentials(accounts, scope, issuer, slog.Default(), collector)

	// Handlers
	usersHandler := adapterhandler.NewUsersHandler(byUsernameUC, byIDUC, listUC)
	verifyHandler := adapterhandler.NewVerifyHandler(verifyUC)
	healthHandler := adapterhandler.NewHealthHandler()

	// Setup Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Security middleware
	e.Use(appmiddleware.SecurityHeaders())

	// OpenTelemetry tracing
	if otelCfg.Enabled {
		e.Use(otelecho.Middleware(otelCfg.ServiceName))
		e.Use(appmiddleware.OTelStatusMiddleware())
	}

	// Request logging
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return path == "/health" || path == "/metrics"
		},
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			rctx := c.Request().Context()
			if v.Error == nil {
				slog.InfoContext(rctx, "request completed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds())
			} else {
				slog.ErrorContext(rctx, "request failed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds(),
					"error", v.Error.Error())
			}
			return nil
		},
	}))

	e.Use(middleware.Recover())

	// Rate limiters per endpoint group
	lookupRL := appmiddleware.NewRateLimiter(300.0/60.0, 20) // 300 req/min
	verifyRL := appmiddleware.NewRateLimiter(30.0/60.0, 5)   // 30 req/min

	// Federation routes (protected by shared secret when configured)
	federationGroup := e.Group("/federation", lookupRL.Middleware())
	if cfg.AuthSharedSecret != "" {
		federationGroup.Use(appmiddleware.InternalAuth(cfg.AuthSharedSecret))
	}
	federationGroup.GET("/users", usersHandler.HandleList)
	federationGroup.GET("/users/username/:username", usersHandler.HandleByUsername)
	federationGroup.GET("/users/id/:id", usersHandler.HandleByID)
	federationGroup.POST("/verify-credentials", verifyHandler.Handle, verifyRL.Middleware())

	// Operability surface
	e.GET("/health", healthHandler.Handle)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(registry)))

	// Start server with errgroup for graceful shutdown
	address := fmt.Sprintf(":%s", cfg.Port)
	slog.InfoContext(ctx, "starting fedbridge server", "address", address)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return otelShutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited properly")
}

// runHealthcheck performs a health check against the local server.
func runHealthcheck() error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8890"
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%s/health", port))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health endpoint returned status: %d", resp.StatusCode)
	}
	return nil
}
