package connect

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joshua-takyi/meetbot/internal/config"
	"github.com/joshua-takyi/meetbot/internal/models"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

// OpenStore builds the event store selected by cfg.Store. The returned
// close function releases any client connection.
func OpenStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (models.EventStore, func() error, error) {
	switch cfg.Store {
	case config.StoreRedis:
		client, err := RedisConnect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Connected to Redis successfully", "addr", cfg.RedisAddr)
		return models.NewRedisStore(client, cfg.RedisKey), client.Close, nil

	case config.StoreMongo:
		client, err := MongoDBConnect(ctx, cfg.MongoDBURI, cfg.MongoDBPassword)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Connected to MongoDB successfully", "database", cfg.MongoDBDatabase)
		return models.NewMongoStore(client, cfg.MongoDBDatabase), func() error { return MongoDBDisconnect(client) }, nil

	default:
		logger.Info("Using file store", "path", cfg.EventsFile)
		return models.NewFileStore(cfg.EventsFile), func() error { return nil }, nil
	}
}

func MongoDBConnect(ctx context.Context, uri, password string) (*mongo.Client, error) {
	fullUri := strings.Replace(uri, "<password>", password, 1)

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(fullUri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

func MongoDBDisconnect(client *mongo.Client) error {
	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect MongoDB: %w", err)
	}
	return nil
}

func RedisConnect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	return client, nil
}
