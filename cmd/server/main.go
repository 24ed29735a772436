// server runs the CraftConnect onboarding gRPC API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	grpchealth "google.golang.org/grpc/health"

	onboardingv1 "craftconnect/backend/api/onboarding/v1"
	"craftconnect/backend/internal/config"
	"craftconnect/backend/internal/devotp"
	devotphandler "craftconnect/backend/internal/devotp/handler"
	"craftconnect/backend/internal/health"
	"craftconnect/backend/internal/identity/service"
	"craftconnect/backend/internal/logging"
	"craftconnect/backend/internal/observability"
	"craftconnect/backend/internal/security"
	"craftconnect/backend/internal/server"
	"craftconnect/backend/internal/telemetry"
	oteltelemetry "craftconnect/backend/internal/telemetry/otel"
	"craftconnect/backend/internal/telemetry/producer"
)

const (
	serviceName     = "craftconnect-onboarding"
	shutdownTimeout = 15 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers, err := oteltelemetry.NewProviders(ctx, oteltelemetry.Config{
		Endpoint:    cfg.OTelEndpoint,
		ServiceName: serviceName,
		Environment: cfg.Env,
		Insecure:    cfg.OTelInsecure,
	}, logger)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	providers.SetGlobal()

	grpcHealth := grpchealth.NewServer()
	checker := health.NewChecker(grpcHealth, logger.Named("health"), onboardingv1.OnboardingService_ServiceDesc.ServiceName)

	accounts, closeAccounts, err := openAccounts(ctx, cfg, checker, logger)
	if err != nil {
		return err
	}
	defer closeAccounts()
	pendingStore, otpStore, closeStores, err := openStores(ctx, cfg, checker, logger)
	if err != nil {
		return err
	}
	defer closeStores()

	tokens, err := security.NewTokenProviderFromConfig(cfg.JWTPrivateKey, cfg.JWTPublicKey, cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.SessionTTL())
	if err != nil {
		return fmt.Errorf("token provider: %w", err)
	}
	policy, err := service.ParseDuplicatePolicy(cfg.PendingDuplicatePolicy)
	if err != nil {
		return err
	}

	obs := observability.NewServer(cfg.MetricsAddr, checker.Ready, logger.Named("observability"))
	metrics := obs.Metrics()

	sinks := []telemetry.EventEmitter{oteltelemetry.NewEventEmitter(providers.LoggerProvider)}
	kafkaProducer := producer.NewKafkaProducer(cfg.KafkaBrokersList(), cfg.EventsKafkaTopic, logger.Named("kafka"))
	if kafkaProducer != nil {
		sinks = append(sinks, kafkaProducer)
		logger.Info("lifecycle events: kafka", zap.String("topic", cfg.EventsKafkaTopic))
	}
	events := telemetry.NewAsyncEmitter(telemetry.Multi(sinks...), logger.Named("events"))

	opts := []service.Option{
		service.WithLogger(logger.Named("onboarding")),
		service.WithEventEmitter(events),
		service.WithMetrics(metrics),
		service.WithDuplicatePolicy(policy),
	}
	deps := server.Deps{Logger: logger.Named("grpc"), Health: grpcHealth}
	if cfg.DevOTP() {
		devStore := devotp.NewMemoryStore()
		opts = append(opts, service.WithDevOTPStore(devStore))
		deps.DevOTPHandler = devotphandler.NewServer(devStore)
		logger.Warn("dev OTP mode enabled: codes are readable via DevService/GetOTP")
	}
	deps.Onboarding = service.NewRegistrationService(
		accounts,
		pendingStore,
		otpStore,
		newNotifier(cfg, logger),
		security.NewHasher(cfg.BcryptCost),
		tokens,
		opts...,
	)

	grpcServer := server.NewGRPCServer(tokens, logger.Named("grpc"), metrics)
	server.RegisterServices(grpcServer, deps)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.GRPCAddr, err)
	}

	var obsErr <-chan error
	if cfg.MetricsAddr != "" {
		if obsErr, err = obs.Start(); err != nil {
			_ = lis.Close()
			return err
		}
	}
	go checker.Run(ctx, health.DefaultInterval)

	serveErr := make(chan error, 1)
	go func() { serveErr <- grpcServer.Serve(lis) }()
	logger.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case runErr = <-serveErr:
	case runErr = <-obsErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	grpcHealth.Shutdown()
	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-shutdownCtx.Done():
		grpcServer.Stop()
	}
	if cfg.MetricsAddr != "" {
		if err := obs.Stop(shutdownCtx); err != nil {
			logger.Warn("observability server stop", zap.Error(err))
		}
	}

	drained := make(chan struct{})
	go func() {
		events.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(telemetry.ShutdownDrainDuration):
		logger.Warn("lifecycle events still in flight at shutdown")
	}
	if err := kafkaProducer.Close(); err != nil {
		logger.Warn("kafka producer close", zap.Error(err))
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		logger.Warn("otel shutdown", zap.Error(err))
	}

	if errors.Is(runErr, net.ErrClosed) {
		runErr = nil
	}
	return runErr
}
