package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// driver is the connection lifecycle Init and Shutdown depend on. Tests
// replace it to avoid waiting on server selection.
type driver interface {
	Connect(ctx context.Context, opts *options.ClientOptions) (*mongo.Client, error)
	Ping(ctx context.Context, cli *mongo.Client) error
	IsReplicaSet(ctx context.Context, cli *mongo.Client) (bool, error)
	Disconnect(ctx context.Context, cli *mongo.Client) error
}

// liveDriver talks to a real deployment.
type liveDriver struct{}

func (liveDriver) Connect(_ context.Context, opts *options.ClientOptions) (*mongo.Client, error) {
	cli, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	return cli, nil
}

func (liveDriver) Ping(ctx context.Context, cli *mongo.Client) error {
	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}
	return nil
}

// IsReplicaSet asks the server which topology it belongs to.
func (liveDriver) IsReplicaSet(ctx context.Context, cli *mongo.Client) (bool, error) {
	var reply helloReply
	cmd := bson.D{{Key: "hello", Value: 1}}
	if err := cli.Database("admin").RunCommand(ctx, cmd).Decode(&reply); err != nil {
		return false, fmt.Errorf("mongo hello: %w", err)
	}
	return reply.supportsTransactions(), nil
}

func (liveDriver) Disconnect(ctx context.Context, cli *mongo.Client) error {
	if err := cli.Disconnect(ctx); err != nil {
		return fmt.Errorf("mongo disconnect: %w", err)
	}
	return nil
}
