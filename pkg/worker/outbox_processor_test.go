package worker

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookline/booking-api/internal/model"
	"github.com/bookline/booking-api/pkg/logger"
	"github.com/bookline/booking-api/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("worker_test")

type fakeOutboxRepo struct {
	pending  []*model.OutboxEvent
	statuses map[uuid.UUID]model.OutboxStatus
	errs     map[uuid.UUID]string
}

func newFakeOutboxRepo(events ...*model.OutboxEvent) *fakeOutboxRepo {
	return &fakeOutboxRepo{
		pending:  events,
		statuses: make(map[uuid.UUID]model.OutboxStatus),
		errs:     make(map[uuid.UUID]string),
	}
}

func (f *fakeOutboxRepo) Create(ctx context.Context, event *model.OutboxEvent) error {
	f.pending = append(f.pending, event)
	return nil
}

func (f *fakeOutboxRepo) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	if limit > len(f.pending) {
		limit = len(f.pending)
	}
	return f.pending[:limit], nil
}

func (f *fakeOutboxRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error {
	f.statuses[id] = status
	if errMsg != nil {
		f.errs[id] = *errMsg
	}
	return nil
}

func (f *fakeOutboxRepo) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

// flakyBroker fails the first n publishes, then succeeds.
type flakyBroker struct {
	failures  int
	published []string
}

func (b *flakyBroker) Publish(ctx context.Context, topic string, message interface{}) error {
	if b.failures > 0 {
		b.failures--
		return stderrors.New("broker unavailable")
	}
	b.published = append(b.published, topic)
	return nil
}

func (b *flakyBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	return nil, nil
}

func (b *flakyBroker) Close() error {
	return nil
}

func testConfig() OutboxProcessorConfig {
	return OutboxProcessorConfig{
		BatchSize:     10,
		PollInterval:  time.Millisecond,
		RetryAttempts: 3,
		RetryDelay:    time.Millisecond,
	}
}

func pendingEvent(eventType string) *model.OutboxEvent {
	return &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   json.RawMessage(`{"status":"confirmed"}`),
		Status:    string(model.OutboxStatusPending),
	}
}

func TestProcessEventsPublishesAndMarksProcessed(t *testing.T) {
	event := pendingEvent("appointment.approve")
	repo := newFakeOutboxRepo(event)
	broker := &flakyBroker{}
	p := NewOutboxProcessor(repo, broker, testConfig(), logger.NewLogger(nil), testMetrics)

	require.NoError(t, p.processEvents(context.Background()))
	assert.Equal(t, []string{"appointment.approve"}, broker.published)
	assert.Equal(t, model.OutboxStatusProcessed, repo.statuses[event.ID])
}

func TestProcessEventRetriesTransientFailure(t *testing.T) {
	event := pendingEvent("appointment.cancel")
	repo := newFakeOutboxRepo(event)
	broker := &flakyBroker{failures: 2}
	p := NewOutboxProcessor(repo, broker, testConfig(), logger.NewLogger(nil), testMetrics)

	require.NoError(t, p.processEvents(context.Background()))
	assert.Equal(t, []string{"appointment.cancel"}, broker.published)
	assert.Equal(t, model.OutboxStatusProcessed, repo.statuses[event.ID])
}

func TestProcessEventExhaustedRetriesMarksFailed(t *testing.T) {
	event := pendingEvent("appointment.complete")
	repo := newFakeOutboxRepo(event)
	broker := &flakyBroker{failures: 10}
	p := NewOutboxProcessor(repo, broker, testConfig(), logger.NewLogger(nil), testMetrics)

	require.NoError(t, p.processEvents(context.Background()))
	assert.Empty(t, broker.published)
	assert.Equal(t, model.OutboxStatusFailed, repo.statuses[event.ID])
	assert.NotEmpty(t, repo.errs[event.ID])
}

func TestProcessEventsContinuesPastFailures(t *testing.T) {
	bad := pendingEvent("appointment.reject")
	good := pendingEvent("appointment.approve")
	repo := newFakeOutboxRepo(bad, good)
	// Exactly enough failures to exhaust the first event's retries.
	broker := &flakyBroker{failures: 3}
	p := NewOutboxProcessor(repo, broker, testConfig(), logger.NewLogger(nil), testMetrics)

	require.NoError(t, p.processEvents(context.Background()))
	assert.Equal(t, model.OutboxStatusFailed, repo.statuses[bad.ID])
	assert.Equal(t, model.OutboxStatusProcessed, repo.statuses[good.ID])
}

func TestNewOutboxProcessorRejectsInvalidConfig(t *testing.T) {
	repo := newFakeOutboxRepo()
	broker := &flakyBroker{}
	log := logger.NewLogger(nil)

	assert.Panics(t, func() {
		NewOutboxProcessor(repo, broker, OutboxProcessorConfig{PollInterval: time.Second, RetryAttempts: 1, RetryDelay: time.Second}, log, testMetrics)
	})
	assert.Panics(t, func() {
		NewOutboxProcessor(repo, broker, OutboxProcessorConfig{BatchSize: 1, RetryAttempts: 1, RetryDelay: time.Second}, log, testMetrics)
	})
}
