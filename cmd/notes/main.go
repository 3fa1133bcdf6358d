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

	"github.com/gogotex/gonotes/handlers"
	"github.com/gogotex/gonotes/internal/config"
	"github.com/gogotex/gonotes/internal/database"
	"github.com/gogotex/gonotes/internal/note/repository"
	"github.com/gogotex/gonotes/internal/oidc"
	"github.com/gogotex/gonotes/internal/revocation"
	"github.com/gogotex/gonotes/internal/tokens"
	"github.com/gogotex/gonotes/pkg/logger"
	"github.com/gogotex/gonotes/pkg/metrics"
	"github.com/gogotex/gonotes/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.Log.Level)
	logger.Configure(logger.Options{
		JSON:       cfg.Log.JSON,
		File:       cfg.Log.File,
		AlsoStdout: cfg.Log.Stdout,
		MaxBackups: 5,
	})
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Fatalf("notes service: %v", err)
	}
	logger.Infof("notes service stopped")
}

func run(ctx context.Context, cfg *config.Config) (err error) {
	d := deps{started: time.Now(), checks: map[string]handlers.Check{}}

	switch cfg.Store {
	case config.StoreMongo:
		client, cerr := database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, cfg.MongoDB.ConnectAttempts)
		if cerr != nil {
			return fmt.Errorf("connect to MongoDB: %w", cerr)
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			err = multierr.Append(err, client.Disconnect(dctx))
		}()
		repo := repository.NewMongoRepo(client.Database(cfg.MongoDB.Database).Collection(cfg.MongoDB.Collection))
		if ierr := repo.EnsureIndexes(ctx); ierr != nil {
			logger.Warnf("could not ensure indexes: %v", ierr)
		}
		d.store = repo
		d.checks["mongo"] = func(ctx context.Context) error { return database.Ping(ctx, client, cfg.MongoDB.Timeout) }
		logger.Infof("using MongoDB store %s.%s", cfg.MongoDB.Database, cfg.MongoDB.Collection)
	default:
		d.store = repository.NewMemoryRepo()
		logger.Warnf("using in-memory note store; notes are lost on restart")
	}

	if cfg.Redis.Host != "" {
		rc := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr(), Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer func() { err = multierr.Append(err, rc.Close()) }()
		if perr := rc.Ping(ctx).Err(); perr != nil {
			logger.Warnf("failed to connect to Redis (%s): %v", cfg.Redis.Addr(), perr)
		} else {
			logger.Infof("connected to Redis at %s", cfg.Redis.Addr())
		}
		d.redis = rc
		d.checks["redis"] = func(ctx context.Context) error { return rc.Ping(ctx).Err() }
	}
	d.revocations = revocation.New(d.redis)

	if d.verifier, err = newVerifier(ctx, cfg); err != nil {
		return err
	}

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      newRouter(cfg, d),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("notes service listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Infof("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

// newVerifier prefers the OIDC provider when one is configured.
func newVerifier(ctx context.Context, cfg *config.Config) (middleware.Verifier, error) {
	if cfg.Keycloak.URL != "" {
		ver, err := oidc.NewVerifier(ctx, cfg.Keycloak.Issuer(), cfg.Keycloak.ClientID)
		if err != nil {
			return nil, err
		}
		logger.Infof("verifying tokens against OIDC issuer %s", cfg.Keycloak.Issuer())
		return ver, nil
	}
	logger.Infof("verifying HS256 tokens with the shared JWT secret")
	return tokens.NewHS256Verifier(cfg.JWT.Secret), nil
}
