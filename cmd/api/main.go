// Command api serves the payroll manager HTTP API.
//
//	@title						Payroll Manager API
//	@version					1.0
//	@description				Employee records and payroll data behind bearer token authentication.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the access token.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/cagataysunal/payroll-manager/internal/api"
	"github.com/cagataysunal/payroll-manager/internal/core/ports"
	"github.com/cagataysunal/payroll-manager/internal/core/service"
	"github.com/cagataysunal/payroll-manager/internal/infrastructure/auth"
	"github.com/cagataysunal/payroll-manager/internal/infrastructure/config"
	"github.com/cagataysunal/payroll-manager/internal/infrastructure/db/mongo"
	"github.com/cagataysunal/payroll-manager/internal/infrastructure/db/postgres"
	"github.com/cagataysunal/payroll-manager/internal/infrastructure/db/redis"
	"github.com/cagataysunal/payroll-manager/internal/infrastructure/http/handlers"
	"github.com/cagataysunal/payroll-manager/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "payroll-manager: %v\n", err)
		os.Exit(1)
	}
}

// store is the persistence backend selected by STORE_DRIVER.
type store struct {
	tx     ports.TransactionManager
	pinger handlers.Pinger
	close  func(ctx context.Context) error
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Development(),
		File:   cfg.LogFile,
	})
	if cfg.InsecureSecret() {
		log.Warn().Msg("SECRET_KEY is not set; tokens are signed with the built-in development key")
	}

	hasher, err := auth.NewPasswordHasher(cfg.Auth.PasswordScheme)
	if err != nil {
		return err
	}
	tokens, err := auth.NewJWTService(cfg.Auth.SecretKey, cfg.TokenTTL())
	if err != nil {
		return err
	}
	log.Info().
		Str("password_scheme", hasher.Scheme()).
		Dur("token_ttl", tokens.TTL()).
		Msg("auth configured")

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := st.close(closeCtx); err != nil {
			log.Error().Err(err).Msg("failed to close store")
		}
	}()

	deps := api.Dependencies{
		Health: map[string]handlers.Pinger{cfg.Store.Driver: st.pinger},
		Logger: logger.For("http"),
	}

	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()
		deps.Health["redis"] = redis.NewPinger(rdb)
		deps.Idempotency = redis.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("idempotency keys enabled")
	}

	employees := service.NewEmployeeService(st.tx, hasher, logger.For("employees"))
	deps.EmployeeService = employees
	deps.AuthService = service.NewAuthService(st.tx, hasher, tokens, logger.For("auth"))

	if cfg.BootstrapAdmin() {
		created, err := employees.EnsureAdmin(ctx, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword, cfg.Bootstrap.AdminName)
		if err != nil {
			return err
		}
		log.Info().Str("email", cfg.Bootstrap.AdminEmail).Bool("created", created).Msg("bootstrap admin checked")
	}

	e := api.NewRouter(deps)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.Store.Driver).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongo.NewEmployeeRepository(db).EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")
		return &store{
			tx:     mongo.NewTransactionManager(client, db),
			pinger: mongo.NewPinger(client),
			close:  client.Disconnect,
		}, nil

	default:
		db, err := postgres.Connect(ctx, postgres.Config{
			DSN:   cfg.Postgres.DSN,
			Debug: cfg.LogLevel == "debug" || cfg.LogLevel == "trace",
		}, logger.For("postgres"))
		if err != nil {
			return nil, err
		}
		log.Info().Msg("connected to PostgreSQL")
		return &store{
			tx:     postgres.NewTransactionManager(db),
			pinger: postgres.NewPinger(db),
			close:  func(context.Context) error { return postgres.Close(db) },
		}, nil
	}
}
