package mongo

import (
	"context"

	"noteful/internal/logger"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"golang.org/x/sync/errgroup"
)

// Cascade modes, also used as metric label values.
const (
	modeTransaction = "transaction"
	modeConcurrent  = "concurrent"
)

// CascadeDeletes counts cascading deletes by resource, mode and outcome. It is
// not registered anywhere; the metrics middleware adds it to its registry.
var CascadeDeletes = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "noteful_cascade_deletes_total",
		Help: "Cascading deletes by resource, execution mode and outcome",
	},
	[]string{"resource", "mode", "outcome"},
)

type writeFunc func(ctx context.Context) error

// cascade pairs the delete of a folder or tag with the write that fixes up
// the notes referencing it.
type cascade struct {
	client   *mongo.Client
	txn      bool
	resource string
}

func newCascade(client *mongo.Client, useTxn bool, resource string) cascade {
	return cascade{client: client, txn: useTxn, resource: resource}
}

// run executes primary and dependent. Inside a transaction when the
// deployment supports it and it is enabled; otherwise both writes are issued
// concurrently and joined, and a failure of one does not undo the other.
func (c cascade) run(ctx context.Context, primary, dependent writeFunc) error {
	mode := modeConcurrent
	if c.txn && c.client != nil && IsReplicaSet() {
		mode = modeTransaction
	}

	var err error
	if mode == modeTransaction {
		err = c.inTransaction(ctx, primary, dependent)
	} else {
		err = concurrently(ctx, primary, dependent)
	}

	outcome := "ok"
	if err != nil {
		outcome = "error"
		logger.L().Debug("cascade failed", "resource", c.resource, "mode", mode, "error", err)
	}
	CascadeDeletes.WithLabelValues(c.resource, mode, outcome).Inc()

	return err
}

func (c cascade) inTransaction(ctx context.Context, primary, dependent writeFunc) error {
	sess, err := c.client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(txCtx context.Context) (any, error) {
		if err := primary(txCtx); err != nil {
			return nil, err
		}
		return nil, dependent(txCtx)
	})
	return err
}

func concurrently(ctx context.Context, writes ...writeFunc) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, w := range writes {
		g.Go(func() error { return w(gctx) })
	}
	return g.Wait()
}
