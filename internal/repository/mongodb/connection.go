package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/Dhoini/gym-fee-tracker/internal/repository"
	"github.com/Dhoini/gym-fee-tracker/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// NewConnection создает новое подключение к MongoDB
func NewConnection(ctx context.Context, uri string, log *logger.Logger) (*mongo.Client, error) {
	log.Info("Connecting to MongoDB")

	clientOpts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(20).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("unable to create mongo client: %w", err)
	}

	// Проверяем подключение
	err = repository.ConnectWithRetry(ctx, "mongo", log, func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return client.Ping(pingCtx, readpref.Primary())
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("unable to ping mongo: %w", err)
	}

	log.Info("Successfully connected to MongoDB")
	return client, nil
}
