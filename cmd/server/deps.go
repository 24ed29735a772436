package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"craftconnect/backend/internal/account/repository"
	"craftconnect/backend/internal/config"
	"craftconnect/backend/internal/db"
	"craftconnect/backend/internal/db/migrate"
	"craftconnect/backend/internal/health"
	"craftconnect/backend/internal/notify"
	"craftconnect/backend/internal/notify/sms"
	"craftconnect/backend/internal/otp"
	"craftconnect/backend/internal/pending"
)

// closer releases a resource at shutdown.
type closer func()

// openAccounts opens the repository selected by DATABASE_URL, applies migrations and registers
// the database with checker.
func openAccounts(ctx context.Context, cfg *config.Config, checker *health.Checker, logger *zap.Logger) (repository.Repository, closer, error) {
	driver, err := db.DriverFor(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	switch driver {
	case db.DriverPostgres:
		if err := migrate.Run(cfg.DatabaseURL, "up"); err != nil {
			return nil, nil, fmt.Errorf("migrate postgres: %w", err)
		}
		pool, err := db.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		checker.Add("postgres", health.PingFunc(pool.Ping))
		logger.Info("account repository: postgres")
		return repository.NewPostgresRepository(pool), pool.Close, nil
	case db.DriverSQLite:
		if err := migrate.Run(cfg.DatabaseURL, "up"); err != nil {
			return nil, nil, fmt.Errorf("migrate sqlite: %w", err)
		}
		sqlDB, err := db.OpenSQLite(ctx, db.SQLitePath(cfg.DatabaseURL))
		if err != nil {
			return nil, nil, err
		}
		checker.Add("sqlite", health.PingFunc(sqlDB.PingContext))
		logger.Info("account repository: sqlite", zap.String("path", db.SQLitePath(cfg.DatabaseURL)))
		return repository.NewSQLiteRepository(sqlDB), func() { _ = sqlDB.Close() }, nil
	default:
		logger.Warn("account repository: in-memory; accounts are lost on restart")
		return repository.NewMemoryRepository(), func() {}, nil
	}
}

// openStores returns the pending-registration and OTP stores: Redis when REDIS_ADDR is set,
// otherwise in-memory stores with janitors.
func openStores(ctx context.Context, cfg *config.Config, checker *health.Checker, logger *zap.Logger) (pending.Store, otp.Store, closer, error) {
	if cfg.RedisAddr == "" {
		pendingStore := pending.NewMemoryStore(cfg.PendingTTL(), 0)
		otpStore := otp.NewMemoryStore(cfg.OTPTTL(), 0)
		logger.Info("transient stores: in-memory")
		return pendingStore, otpStore, func() {
			_ = pendingStore.Close()
			_ = otpStore.Close()
		}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}
	checker.Add("redis", health.PingFunc(func(ctx context.Context) error { return client.Ping(ctx).Err() }))
	logger.Info("transient stores: redis", zap.String("addr", cfg.RedisAddr))
	return pending.NewRedisStore(client, cfg.PendingTTL()),
		otp.NewRedisStore(client, cfg.OTPTTL()),
		func() { _ = client.Close() },
		nil
}

// newNotifier returns the SMS provider selected by SMS_PROVIDER.
func newNotifier(cfg *config.Config, logger *zap.Logger) notify.Notifier {
	switch cfg.SMSProvider {
	case config.SMSProviderSMSLocal:
		return sms.NewSMSLocalClient(cfg.SMSLocalAPIKey, cfg.SMSLocalBaseURL, cfg.SMSLocalSender)
	case config.SMSProviderTwilio:
		return sms.NewTwilioClient(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber)
	default:
		return notify.NewLogNotifier(logger)
	}
}
