package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"hurdl/internal/config"
	"hurdl/internal/repository"
)

const connectTimeout = 5 * time.Second

// App holds the process-wide connections
type App struct {
	Repo  repository.ResponseRepo
	Redis *redis.Client

	closers []func(context.Context) error
}

// OpenStore connects the response store selected by cfg.StoreDriver
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		a.closers = append(a.closers, client.Disconnect)
		if err := client.Ping(pingCtx, nil); err != nil {
			a.Close(ctx)
			return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
		}
		a.Repo = repository.NewMongoResponseRepo(client.Database(cfg.MongoDB), logger)
		logger.Info("connected to MongoDB", zap.String("database", cfg.MongoDB))

	case config.StorePostgres:
		db, err := repository.OpenPostgres(pingCtx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return db.Close() })
		repo := repository.NewPostgresResponseRepo(db, logger)
		if err := repo.EnsureSchema(pingCtx); err != nil {
			a.Close(ctx)
			return nil, err
		}
		a.Repo = repo
		logger.Info("connected to PostgreSQL")

	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	return a, nil
}

// Open connects the response store and Redis
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr(),
	})
	a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	a.Redis = rdb
	logger.Info("connected to Redis", zap.String("addr", cfg.RedisAddr()))
	return a, nil
}

// Close releases connections in reverse order
func (a *App) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i](ctx)
	}
	a.closers = nil
}
