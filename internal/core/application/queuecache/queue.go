package queuecache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// Cache key layout. Buckets are sorted sets ordered by queue score, the
// overdue set is a plain set of order ids, snapshots and statistics are
// JSON values with their own TTLs.
const (
	bucketKeyPrefix   = "queue:bucket:"
	overdueKey        = "queue:overdue"
	statsKey          = "queue:stats"
	snapshotKeyPrefix = "order:snapshot:"
	workloadKeyPrefix = "staff:workload:"
)

const (
	bucketTTL   = time.Hour
	snapshotTTL = 30 * time.Minute
	statsTTL    = time.Minute
	workloadTTL = 2 * time.Minute

	// opTimeout bounds every round trip to the cache tier. The cache is a
	// derived view over the record store, so a slow cache must never stall
	// the authoritative flow.
	opTimeout = 2 * time.Second
)

// Queue score weights. Priority dominates, age breaks ties within a priority
// level, and larger orders get a small head start.
const (
	priorityScoreWeight  = 100.0
	ageScoreWeight       = 0.5
	itemCountScoreWeight = 2.0
)

// Bucket is a lifecycle grouping of the priority queue.
type Bucket string

const (
	// BucketPending holds orders waiting for a staff assignment.
	BucketPending Bucket = "pending"
	// BucketProcessing holds orders currently being worked on.
	BucketProcessing Bucket = "processing"
	// BucketCompleted holds recently finished orders.
	BucketCompleted Bucket = "completed"
)

func (b Bucket) key() string {
	return bucketKeyPrefix + string(b)
}

// BucketForStatus maps an order status to the bucket that should hold it.
// Cancelled and unknown statuses map to no bucket at all: the second return
// is false and the order must simply be removed from the queue.
func BucketForStatus(status order.Status) (Bucket, bool) {
	switch status {
	case order.StatusPending, order.StatusConfirmed:
		return BucketPending, true
	case order.StatusPreparing, order.StatusReady, order.StatusDelivered:
		return BucketProcessing, true
	case order.StatusCompleted:
		return BucketCompleted, true
	default:
		return "", false
	}
}

// OrderSnapshot is the cached mirror of an order, kept so queue readers can
// render entries without a round trip to the record store. It expires on its
// own and is always reconstructible from the store.
type OrderSnapshot struct {
	OrderID     string    `json:"orderId"`
	TableNumber int       `json:"tableNumber"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	ItemCount   int       `json:"itemCount"`
	TotalAmount float64   `json:"totalAmount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Queue maintains the priority-ordered work queue in the shared cache.
//
// The record store is the single source of truth; every structure the Queue
// writes is a disposable derivation. All mutating operations therefore log
// cache failures and carry on, so a degraded cache degrades freshness but
// never blocks or corrupts a store-confirmed change.
type Queue struct {
	cache  ports.CacheStore
	logger *slog.Logger
	now    func() time.Time
}

// NewQueue creates a Queue on top of the given cache store.
func NewQueue(cache ports.CacheStore, logger *slog.Logger) (*Queue, error) {
	if cache == nil {
		return nil, errs.NewValueIsRequiredError("cache")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}

	return &Queue{
		cache:  cache,
		logger: logger.With("component", "queue_cache"),
		now:    time.Now,
	}, nil
}

// Score computes the queue score of an order at the current instant.
// Higher scores are served first.
func (q *Queue) Score(o *order.Order) float64 {
	return float64(o.Priority().Level())*priorityScoreWeight +
		o.AgeMinutes(q.now().UTC())*ageScoreWeight +
		float64(o.ItemCount())*itemCountScoreWeight
}

// Add upserts the order into the bucket matching its status, refreshes its
// snapshot, and triggers a statistics refresh. Orders in a status with no
// bucket (cancelled) are removed instead.
func (q *Queue) Add(ctx context.Context, o *order.Order) {
	if err := o.Validate(); err != nil {
		q.logger.Warn("skipping invalid order", "error", err)
		return
	}

	bucket, ok := BucketForStatus(o.Status())
	if !ok {
		q.Remove(ctx, o.ID())
		return
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	id := o.ID().String()
	if err := q.cache.SortedSetAdd(ctx, bucket.key(), id, q.Score(o)); err != nil {
		q.logger.Warn("bucket upsert failed", "orderId", id, "bucket", bucket, "error", err)
		return
	}
	q.expire(ctx, bucket.key(), bucketTTL)

	q.storeSnapshot(ctx, o)
	q.refreshStatistics(ctx)
}

// Remove strips the order from every bucket, the overdue set, and the
// snapshot mirror, then triggers a statistics refresh. Removing an order
// that is not in the queue is a no-op.
func (q *Queue) Remove(ctx context.Context, orderID kernel.UUID) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	id := orderID.String()
	for _, bucket := range []Bucket{BucketPending, BucketProcessing, BucketCompleted} {
		if err := q.cache.SortedSetRemove(ctx, bucket.key(), id); err != nil {
			q.logger.Warn("bucket removal failed", "orderId", id, "bucket", bucket, "error", err)
		}
	}
	if err := q.cache.SetRemove(ctx, overdueKey, id); err != nil {
		q.logger.Warn("overdue removal failed", "orderId", id, "error", err)
	}
	if err := q.cache.Delete(ctx, snapshotKeyPrefix+id); err != nil {
		q.logger.Warn("snapshot removal failed", "orderId", id, "error", err)
	}

	q.refreshStatistics(ctx)
}

// Move transfers the order between buckets with a freshly computed score and
// refreshes its snapshot. The order's current status decides the score, the
// caller decides the buckets.
func (q *Queue) Move(ctx context.Context, o *order.Order, from, to Bucket) {
	if err := o.Validate(); err != nil {
		q.logger.Warn("skipping invalid order", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	id := o.ID().String()
	if err := q.cache.SortedSetRemove(ctx, from.key(), id); err != nil {
		q.logger.Warn("bucket removal failed", "orderId", id, "bucket", from, "error", err)
	}
	if err := q.cache.SortedSetAdd(ctx, to.key(), id, q.Score(o)); err != nil {
		q.logger.Warn("bucket upsert failed", "orderId", id, "bucket", to, "error", err)
		return
	}
	q.expire(ctx, from.key(), bucketTTL)
	q.expire(ctx, to.key(), bucketTTL)

	q.storeSnapshot(ctx, o)
	q.refreshStatistics(ctx)
}

// MarkOverdue adds the order to the overdue membership set.
func (q *Queue) MarkOverdue(ctx context.Context, orderID kernel.UUID) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	id := orderID.String()
	if err := q.cache.SetAdd(ctx, overdueKey, id); err != nil {
		q.logger.Warn("overdue marking failed", "orderId", id, "error", err)
		return
	}
	q.expire(ctx, overdueKey, bucketTTL)

	q.refreshStatistics(ctx)
}

// Peek returns up to limit order ids from a bucket in descending score order.
func (q *Queue) Peek(ctx context.Context, bucket Bucket, limit int64) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	return q.cache.SortedSetRangeDesc(ctx, bucket.key(), 0, limit-1)
}

// Snapshot returns the cached mirror of an order. The second return is false
// if the snapshot is missing, expired, or unreadable; callers fall back to
// the record store.
func (q *Queue) Snapshot(ctx context.Context, orderID kernel.UUID) (OrderSnapshot, bool) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	raw, found, err := q.cache.GetValue(ctx, snapshotKeyPrefix+orderID.String())
	if err != nil {
		q.logger.Warn("snapshot read failed", "orderId", orderID.String(), "error", err)
		return OrderSnapshot{}, false
	}
	if !found {
		return OrderSnapshot{}, false
	}

	var snapshot OrderSnapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		q.logger.Warn("snapshot decode failed", "orderId", orderID.String(), "error", err)
		return OrderSnapshot{}, false
	}
	return snapshot, true
}

func (q *Queue) storeSnapshot(ctx context.Context, o *order.Order) {
	snapshot := OrderSnapshot{
		OrderID:     o.ID().String(),
		TableNumber: o.TableNumber(),
		Status:      o.Status().String(),
		Priority:    o.Priority().String(),
		ItemCount:   o.ItemCount(),
		TotalAmount: o.TotalAmount(),
		CreatedAt:   o.CreatedAt(),
	}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		q.logger.Warn("snapshot encode failed", "orderId", snapshot.OrderID, "error", err)
		return
	}
	if err := q.cache.SetValue(ctx, snapshotKeyPrefix+snapshot.OrderID, string(raw), snapshotTTL); err != nil {
		q.logger.Warn("snapshot write failed", "orderId", snapshot.OrderID, "error", err)
	}
}

func (q *Queue) expire(ctx context.Context, key string, ttl time.Duration) {
	if err := q.cache.Expire(ctx, key, ttl); err != nil {
		q.logger.Warn("ttl refresh failed", "key", key, "error", err)
	}
}
