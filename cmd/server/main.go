package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"

	"retro-chat/auth"
	"retro-chat/domain/event"
	"retro-chat/infrastructure/httpapi"
	"retro-chat/infrastructure/ws"
	"retro-chat/internal"
	"retro-chat/repositories"
	"retro-chat/runtime"
	"retro-chat/runtime/workers"
	"retro-chat/services"
)

// Exit codes to provide meaningful status to the operating system or a
// service manager.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// seededAccounts mirror the fixtures the service has always shipped with.
var seededAccounts = []struct {
	username string
	password string
}{
	{"admin", "secure123"},
	{"guest", "password"},
}

func main() {
	// main is a thin wrapper: call run() and translate its outcome into an
	// OS exit code, so defers inside run always execute.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	// 1. Configuration & logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	logger := internal.LoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Authentication
	tokens := auth.NewTokenManager(config.JWTSecret, config.AuthTokenDuration)
	users := repositories.NewUserRepository()
	for _, acct := range seededAccounts {
		hash, err := auth.HashPassword(acct.password)
		if err != nil {
			return exitRuntime, fmt.Errorf("seeding accounts: %w", err)
		}
		users.Seed(acct.username, hash)
	}
	authSvc := services.NewAuthService(users, tokens)
	verifier := auth.NewVerifier(tokens)

	// 3. Engine
	telemetry := make(chan event.Event, config.BufferSize)
	bannerJobs := make(chan runtime.BannerJob, config.BufferSize)
	banner := workers.NewBannerWorker(logger, bannerJobs, config.BannerDelay)
	fanout := runtime.NewFanout(logger, telemetry)
	coordinator := runtime.NewCoordinator(logger, verifier,
		runtime.NewChannelRegistry(), runtime.NewSessionTable(), fanout, banner)
	chatSvc := services.NewChatService(coordinator)

	// 4. Supervised workers
	supervisor := workers.NewSupervisor(logger)
	supervisor.Add(banner)
	supervisor.Add(workers.NewTelemetryWorker(logger, telemetry, []event.Handler{
		event.NewMessagePostedHandler(logger, event.NewCounter()),
		event.NewChannelCapacityHandler(logger, config.LowCapacityThreshold),
		event.NewProcessStatsHandler(logger),
	}))
	supervisor.Add(workers.NewChannelCapacityWorker(logger, []workers.MonitoredChannel{
		{Name: "banner_jobs", Channel: bannerJobs},
		{Name: "telemetry", Channel: telemetry},
	}, telemetry, config.MetricInterval))
	supervisor.Add(workers.NewHeartbeatWorker(logger, telemetry, config.MetricInterval))

	supervisorDone := make(chan struct{})
	go func() {
		defer close(supervisorDone)
		supervisor.Run(ctx)
	}()

	// 5. HTTP surface
	wsHandler := ws.NewHandler(logger, chatSvc, config.ConnectionBufferSize)
	router := httpapi.NewRouter(logger, authSvc, wsHandler.ServeWS)
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("retro-chat server listening",
		"addr", srv.Addr,
		"channels", runtime.ProvisionedChannels,
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		supervisor.Stop()
		<-supervisorDone
		return exitRuntime, err
	}

	supervisor.Stop()
	<-supervisorDone
	logger.Info("Shutdown complete")
	return exitOK, nil
}
