package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/ehr-api/internal/model"
	"github.com/clinicore/ehr-api/pkg/logger"
	"github.com/clinicore/ehr-api/pkg/metrics"
)

// Registered once; prometheus rejects duplicate registration.
var testMetrics = metrics.NewMetrics("test", "outbox")

type fakeOutboxRepo struct {
	pending  []*model.OutboxEvent
	statuses map[uuid.UUID]model.OutboxStatus
	errs     map[uuid.UUID]string
}

func newFakeOutboxRepo(events ...*model.OutboxEvent) *fakeOutboxRepo {
	return &fakeOutboxRepo{
		pending:  events,
		statuses: map[uuid.UUID]model.OutboxStatus{},
		errs:     map[uuid.UUID]string{},
	}
}

func (f *fakeOutboxRepo) Create(_ context.Context, e *model.OutboxEvent) error {
	f.pending = append(f.pending, e)
	return nil
}

func (f *fakeOutboxRepo) GetPendingEvents(_ context.Context, limit int) ([]*model.OutboxEvent, error) {
	if len(f.pending) > limit {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeOutboxRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.OutboxStatus, errMessage *string) error {
	f.statuses[id] = status
	if errMessage != nil {
		f.errs[id] = *errMessage
	}
	return nil
}

type fakeBroker struct {
	mu        sync.Mutex
	published map[string]int
	failTopic string
}

func (f *fakeBroker) Publish(_ context.Context, topic string, _ interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.published == nil {
		f.published = map[string]int{}
	}
	f.published[topic]++
	if topic == f.failTopic {
		return errors.New("broker unavailable")
	}
	return nil
}

func (f *fakeBroker) Subscribe(_ context.Context, _ string) (<-chan []byte, error) {
	return nil, nil
}

func (f *fakeBroker) Close() error { return nil }

func pendingEvent(eventType string) *model.OutboxEvent {
	return &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   []byte(`{}`),
		Status:    model.OutboxStatusPending,
	}
}

func TestProcessEventsMarksProcessed(t *testing.T) {
	ev := pendingEvent("appointment.created")
	repo := newFakeOutboxRepo(ev)
	broker := &fakeBroker{}

	p := NewOutboxProcessor(repo, broker, OutboxProcessorConfig{
		RetryAttempts: 1,
		RetryDelay:    time.Millisecond,
	}, logger.NewLogger(nil), testMetrics)

	require.NoError(t, p.processEvents(context.Background()))

	assert.Equal(t, model.OutboxStatusProcessed, repo.statuses[ev.ID])
	assert.Equal(t, 1, broker.published["appointment.created"])
}

func TestProcessEventsMarksFailedAfterRetries(t *testing.T) {
	ev := pendingEvent("invoice.paid")
	repo := newFakeOutboxRepo(ev)
	broker := &fakeBroker{failTopic: "invoice.paid"}

	p := NewOutboxProcessor(repo, broker, OutboxProcessorConfig{
		RetryAttempts: 3,
		RetryDelay:    time.Millisecond,
	}, logger.NewLogger(nil), testMetrics)

	require.NoError(t, p.processEvents(context.Background()))

	assert.Equal(t, model.OutboxStatusFailed, repo.statuses[ev.ID])
	assert.Equal(t, "broker unavailable", repo.errs[ev.ID])
	assert.Equal(t, 3, broker.published["invoice.paid"])
}

func TestProcessEventsContinuesPastFailures(t *testing.T) {
	bad := pendingEvent("invoice.paid")
	good := pendingEvent("vitals.recorded")
	repo := newFakeOutboxRepo(bad, good)
	broker := &fakeBroker{failTopic: "invoice.paid"}

	p := NewOutboxProcessor(repo, broker, OutboxProcessorConfig{
		RetryAttempts: 1,
		RetryDelay:    time.Millisecond,
	}, logger.NewLogger(nil), testMetrics)

	require.NoError(t, p.processEvents(context.Background()))

	assert.Equal(t, model.OutboxStatusFailed, repo.statuses[bad.ID])
	assert.Equal(t, model.OutboxStatusProcessed, repo.statuses[good.ID])
}
