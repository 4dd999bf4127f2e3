// @title        School API
// @version      1.0
// @description  School management backend with role-based access control.
// @BasePath     /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/schoolhub/school-api/internal/api"
	"github.com/schoolhub/school-api/internal/core/ports"
	"github.com/schoolhub/school-api/internal/core/service"
	mongostore "github.com/schoolhub/school-api/internal/infrastructure/db/mongo"
	redisstore "github.com/schoolhub/school-api/internal/infrastructure/db/redis"
	"github.com/schoolhub/school-api/internal/infrastructure/http/handlers"
	"github.com/schoolhub/school-api/internal/infrastructure/queue"
	"github.com/schoolhub/school-api/internal/pkg/config"
	"github.com/schoolhub/school-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "school-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb unavailable")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index setup failed")
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Timeout:  cfg.Redis.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis unavailable")
	}
	defer rdb.Close()

	// --- Dependencies ---
	seq := mongostore.NewSequence(db)
	accounts := mongostore.NewAccountRepository(db, seq)
	denylist := redisstore.NewDenylist(rdb)
	tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)

	audit := queue.NewDispatcher(cfg.Audit.Workers, mongostore.NewAuditRepository(db), log)
	workersCtx, stopWorkers := context.WithCancel(context.Background())
	audit.Start(workersCtx)

	authService := service.NewAuthService(service.AuthDeps{
		Accounts: accounts,
		Teachers: mongostore.NewTeacherDirectory(db),
		Hasher:   service.NewBcryptHasher(bcrypt.DefaultCost),
		Tokens:   tokens,
		Denylist: denylist,
		Audit:    audit,
	}, log)

	if cfg.Admin.Enabled() {
		admin, created, err := authService.ProvisionAdmin(ctx, ports.AdminInput{
			Email:    cfg.Admin.Email,
			Username: cfg.Admin.Username,
			Password: cfg.Admin.Password,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("admin provisioning failed")
		}
		if !created {
			log.Info().Int64("account_id", admin.ID).Msg("admin account already present")
		}
	}

	router := api.NewRouter(api.Deps{
		Auth:        authService,
		Gate:        service.NewGate(tokens, denylist, log),
		Resources:   api.MongoResources(db, seq, accounts, log),
		Probes:      []handlers.Probe{handlers.MongoProbe(db), handlers.RedisProbe(rdb)},
		CORSOrigins: cfg.CORS.AllowedOrigins,
		Log:         log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	failed := false
	select {
	case <-ctx.Done():
		log.Info().Msg("server shutting down")
	case err := <-serverErr:
		log.Error().Err(err).Msg("server failed")
		failed = true
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	stopWorkers()
	audit.Wait()
	log.Info().Msg("shutdown complete")

	if failed {
		os.Exit(1)
	}
}
