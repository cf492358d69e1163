package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aci-platform/requisition-api/internal/models"
	"github.com/aci-platform/requisition-api/pkg/jobs"
)

const (
	collectionRequisitions = "requisitions"
	collectionActivityLogs = "activity_logs"
)

// Event is the wire shape pushed to change-feed subscribers.
type Event struct {
	Collection string      `json:"collection"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// Notifier turns domain changes into change-feed broadcasts. Encoding and
// delivery run on the background queue so request handlers never wait on
// websocket writes.
type Notifier struct {
	hub    *Hub
	queue  *jobs.Queue
	logger *zap.Logger
	now    func() time.Time
}

// NotifierConfig tunes the broadcast queue.
type NotifierConfig struct {
	QueueSize  int
	RetryDelay time.Duration
	Logger     *zap.Logger
}

func NewNotifier(hub *Hub, cfg NotifierConfig) *Notifier {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	n := &Notifier{
		hub:    hub,
		logger: cfg.Logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
	n.queue = jobs.NewQueue("change-feed", n.dispatch, jobs.QueueConfig{
		Workers:    1,
		BufferSize: cfg.QueueSize,
		MaxRetries: 1,
		RetryDelay: cfg.RetryDelay,
		Logger:     cfg.Logger,
	})
	return n
}

// Start begins queue consumption.
func (n *Notifier) Start(ctx context.Context) {
	n.queue.Start(ctx)
}

// Stop drains the queue workers.
func (n *Notifier) Stop() {
	n.queue.Stop()
}

// NotifyRequisition publishes a created or updated requisition.
func (n *Notifier) NotifyRequisition(req models.Requisition) {
	n.enqueue(collectionRequisitions, req.ID, req)
}

// NotifyActivity publishes a new activity log entry.
func (n *Notifier) NotifyActivity(entry models.ActivityLog) {
	n.enqueue(collectionActivityLogs, entry.ID, entry)
}

func (n *Notifier) enqueue(collection, id string, payload interface{}) {
	err := n.queue.Enqueue(jobs.Job{
		ID:      fmt.Sprintf("%s/%s", collection, id),
		Type:    collection,
		Payload: Event{Collection: collection, Timestamp: n.now(), Payload: payload},
	})
	if err != nil {
		n.logger.Sugar().Warnw("change feed enqueue failed", "collection", collection, "id", id, "error", err)
	}
}

func (n *Notifier) dispatch(_ context.Context, job jobs.Job) error {
	message, err := json.Marshal(job.Payload)
	if err != nil {
		return fmt.Errorf("encode change event: %w", err)
	}
	n.hub.Broadcast(message)
	return nil
}
