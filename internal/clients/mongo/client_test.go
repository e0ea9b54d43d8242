package mongo

import (
	"context"
	"io"
	"sync"
	"testing"

	"noteful/internal/config"
	"noteful/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const mongoTestURI = "mongodb://invalid/?connectTimeoutMS=1&serverSelectionTimeoutMS=1"

// stubDriver fails fast so no test waits on server selection.
type stubDriver struct{}

func (stubDriver) Connect(_ context.Context, _ *options.ClientOptions) (*mongo.Client, error) {
	return nil, context.DeadlineExceeded
}

func (stubDriver) Ping(_ context.Context, _ *mongo.Client) error {
	return context.DeadlineExceeded
}

func (stubDriver) IsReplicaSet(_ context.Context, _ *mongo.Client) (bool, error) {
	return false, nil
}

func (stubDriver) Disconnect(_ context.Context, _ *mongo.Client) error { return nil }

// withStubDriver swaps the driver and resets the singleton for one test.
func withStubDriver(t *testing.T) {
	t.Helper()
	old := drv
	drv = stubDriver{}
	reset()
	t.Cleanup(func() {
		drv = old
		reset()
	})
}

// reset clears the singleton without going through Shutdown.
func reset() {
	mu.Lock()
	defer mu.Unlock()
	client = nil
	db = nil
	closed = false
	isReplicaSet.Store(false)
}

func testConfig() config.Config {
	return config.Config{
		MongoURI:    mongoTestURI,
		MongoDBName: "test",
		LogLevel:    "error",
		LogFormat:   "json",
	}
}

func TestInitFailureLeavesNothingBehind(t *testing.T) {
	withStubDriver(t)
	log := logger.New(io.Discard, "error", "text")

	cli, database, err := Init(context.Background(), testConfig(), log)
	assert.Error(t, err)
	assert.Nil(t, cli, "client should be nil on connection failure")
	assert.Nil(t, database, "db should be nil on connection failure")
	assert.Nil(t, DB())

	// retry is allowed and fails the same way
	_, _, err = Init(context.Background(), testConfig(), log)
	assert.Error(t, err)
}

func TestInitConcurrent(t *testing.T) {
	withStubDriver(t)
	log := logger.New(io.Discard, "error", "text")

	const goroutines = 10
	var wg sync.WaitGroup
	errs := make([]error, goroutines)

	for i := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, errs[i] = Init(context.Background(), testConfig(), log)
		}()
	}
	wg.Wait()

	for i, err := range errs {
		assert.Error(t, err, "goroutine %d", i)
	}
}

func TestShutdownSentinels(t *testing.T) {
	withStubDriver(t)
	log := logger.New(io.Discard, "error", "text")

	_, _, err := Init(context.Background(), testConfig(), log)
	require.Error(t, err)

	assert.ErrorIs(t, Shutdown(context.Background()), ErrNotInitialized)
	assert.ErrorIs(t, Shutdown(context.Background()), ErrShutdown)
	assert.ErrorIs(t, Shutdown(context.Background()), ErrShutdown)
}

func TestHelloReplySupportsTransactions(t *testing.T) {
	tests := []struct {
		name  string
		reply helloReply
		want  bool
	}{
		{name: "standalone", reply: helloReply{}, want: false},
		{name: "replica set member", reply: helloReply{SetName: "rs0"}, want: true},
		{name: "mongos", reply: helloReply{Msg: "isdbgrid"}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.reply.supportsTransactions())
		})
	}
}
