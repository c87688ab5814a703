package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/diewo77/go-backoffice/internal/config"
	"github.com/diewo77/go-backoffice/internal/db"
	"github.com/diewo77/go-backoffice/internal/logger"
	"github.com/diewo77/go-backoffice/internal/metrics"
	"github.com/diewo77/go-backoffice/internal/views"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Environment: cfg.App.Env,
		ServiceName: cfg.App.Name,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	conn, err := db.Open(cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := db.Migrate(conn, cfg, log); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	if *migrateOnlyFlag {
		log.Info("migrations completed successfully")
		_ = db.Close(conn)
		return
	}

	publisher, err := newPublisher(cfg.Cache, log)
	if err != nil {
		log.Fatal("failed to set up view publisher", zap.Error(err))
	}

	opts := Options{Logger: log, Publisher: publisher, MetricsPath: cfg.Metrics.Path}
	if cfg.Metrics.Enabled {
		opts.Metrics = metrics.New(cfg.App.Name)
	}
	app := NewApp(conn, opts)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      app,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("port", cfg.Server.Port), zap.Bool("dev", cfg.App.Dev))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.Server.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			// sequential: in-flight requests finish before the publisher and pool close
			"backoffice": func(ctx context.Context) error {
				log.Info("shutdown signal received")
				return errors.Join(
					srv.Shutdown(ctx),
					publisher.Close(),
					db.Close(conn),
				)
			},
		},
	)
	exitCode := <-wait
	log.Info("server stopped", zap.Int("exit_code", exitCode))
	_ = log.Sync()
	os.Exit(exitCode)
}

// newPublisher publishes invalidations to Redis when REDIS_ADDR is set and
// only logs them otherwise.
func newPublisher(cfg config.CacheConfig, log *zap.Logger) (views.Publisher, error) {
	logPub := views.NewLogPublisher(log)
	if cfg.RedisAddr == "" {
		return logPub, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}
	log.Info("publishing view invalidations to redis",
		zap.String("addr", cfg.RedisAddr), zap.String("channel", cfg.Channel))
	return views.Multi{views.NewRedisPublisher(client, cfg.Channel), logPub}, nil
}
