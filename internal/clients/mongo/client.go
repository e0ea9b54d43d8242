package mongo

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"noteful/internal/config"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ErrNotInitialized is returned by Shutdown when Init never succeeded.
var ErrNotInitialized = errors.New("mongo client not initialized")

// ErrShutdown is returned by Shutdown after the client was already closed.
var ErrShutdown = errors.New("mongo client already shut down")

var (
	drv      driver = liveDriver{}
	client   *mongo.Client
	db       *mongo.Database
	closed   bool
	mu       sync.Mutex
	initTime = 10 * time.Second
)

// Init connects to MongoDB and probes the deployment topology. The first
// successful call wins; a failed call leaves nothing behind so it can be
// retried.
func Init(ctx context.Context, cfg config.Config, log *slog.Logger) (*mongo.Client, *mongo.Database, error) {
	mu.Lock()
	defer mu.Unlock()

	if client != nil && db != nil {
		return client, db, nil
	}

	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetConnectTimeout(initTime).
		SetAppName("noteful")

	ctx, cancel := context.WithTimeout(ctx, initTime)
	defer cancel()

	cli, err := drv.Connect(ctx, opts)
	if err != nil {
		log.Error("failed to connect to mongo", "error", err)
		return nil, nil, err
	}

	if err := drv.Ping(ctx, cli); err != nil {
		log.Error("failed to ping mongo", "error", err)
		_ = drv.Disconnect(ctx, cli)
		return nil, nil, err
	}

	rs, err := drv.IsReplicaSet(ctx, cli)
	if err != nil {
		log.Warn("topology probe failed, assuming standalone", "error", err)
	}
	isReplicaSet.Store(rs)

	client = cli
	db = cli.Database(cfg.MongoDBName)
	closed = false

	log.Info("successfully connected to mongo", "db", cfg.MongoDBName, "replica_set", rs)

	return client, db, nil
}

// DB returns the singleton MongoDB database instance.
func DB() *mongo.Database {
	mu.Lock()
	defer mu.Unlock()
	return db
}

// Shutdown disconnects the client. The first call without a live client
// reports ErrNotInitialized, every later call ErrShutdown.
func Shutdown(ctx context.Context) error {
	mu.Lock()
	defer mu.Unlock()

	if closed {
		return ErrShutdown
	}
	closed = true

	if client == nil {
		return ErrNotInitialized
	}

	ctx, cancel := context.WithTimeout(ctx, OpTimeout)
	defer cancel()

	err := drv.Disconnect(ctx, client)

	client = nil
	db = nil
	isReplicaSet.Store(false)

	return err
}
