package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testProcessorConfig() ProcessorConfig {
	cfg := DefaultProcessorConfig()
	cfg.BreakerEnabled = false
	return cfg
}

func TestProcessor_ProcessOnce_PublishesAndMarks(t *testing.T) {
	repo := new(MockRepository)
	publisher := new(MockPublisher)

	msgs := []*Message{
		{ID: 1, RoutingKey: "production.order.created", Payload: []byte(`{}`), CreatedAt: time.Now()},
		{ID: 2, RoutingKey: "production.stage.started", Payload: []byte(`{}`), CreatedAt: time.Now()},
	}
	repo.On("GetUnpublished", mock.Anything, 100).Return(msgs, nil)
	publisher.On("Publish", mock.Anything, "production.order.created", mock.Anything).Return(nil)
	publisher.On("Publish", mock.Anything, "production.stage.started", mock.Anything).Return(nil)
	repo.On("MarkPublished", mock.Anything, int64(1)).Return(nil)
	repo.On("MarkPublished", mock.Anything, int64(2)).Return(nil)

	p := NewProcessor(repo, publisher, testProcessorConfig(), nil)
	require.NoError(t, p.ProcessOnce(context.Background()))

	stats := p.GetStats()
	assert.Equal(t, uint64(2), stats.PublishedCount)
	assert.Zero(t, stats.FailedCount)
	assert.NotNil(t, stats.LastProcessedAt)

	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestProcessor_ProcessOnce_FailureSchedulesRetry(t *testing.T) {
	repo := new(MockRepository)
	publisher := new(MockPublisher)

	msgs := []*Message{{ID: 7, RoutingKey: "production.order.created", Payload: []byte(`{}`), CreatedAt: time.Now()}}
	repo.On("GetUnpublished", mock.Anything, 100).Return(msgs, nil)
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))
	repo.On("MarkFailed", mock.Anything, int64(7), "broker down", mock.AnythingOfType("time.Time")).Return(nil)

	p := NewProcessor(repo, publisher, testProcessorConfig(), nil)
	require.NoError(t, p.ProcessOnce(context.Background()))

	stats := p.GetStats()
	assert.Equal(t, uint64(1), stats.FailedCount)
	assert.Equal(t, "broker down", stats.LastError)

	repo.AssertExpectations(t)
}

func TestProcessor_ProcessOnce_DeadLettersAfterMaxRetries(t *testing.T) {
	repo := new(MockRepository)
	publisher := new(MockPublisher)

	cfg := testProcessorConfig()
	cfg.MaxRetries = 3

	msgs := []*Message{{ID: 9, RetryCount: 2, RoutingKey: "production.order.created", Payload: []byte(`{}`), CreatedAt: time.Now()}}
	repo.On("GetUnpublished", mock.Anything, 100).Return(msgs, nil)
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))
	repo.On("MarkDead", mock.Anything, int64(9), "broker down").Return(nil)

	p := NewProcessor(repo, publisher, cfg, nil)
	require.NoError(t, p.ProcessOnce(context.Background()))

	stats := p.GetStats()
	assert.Equal(t, uint64(1), stats.DeadCount)

	repo.AssertExpectations(t)
}

func TestProcessor_ProcessOnce_RepoError(t *testing.T) {
	repo := new(MockRepository)
	publisher := new(MockPublisher)

	repo.On("GetUnpublished", mock.Anything, 100).Return(nil, errors.New("query failed"))

	p := NewProcessor(repo, publisher, testProcessorConfig(), nil)
	err := p.ProcessOnce(context.Background())

	require.Error(t, err)
	assert.Equal(t, "query failed", p.GetStats().LastError)
}

func TestProcessor_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	repo := new(MockRepository)
	publisher := new(MockPublisher)

	cfg := DefaultProcessorConfig()
	cfg.BreakerFailureThreshold = 2
	cfg.MaxRetries = 100

	msgs := []*Message{
		{ID: 1, RoutingKey: "k", Payload: []byte(`{}`), CreatedAt: time.Now()},
		{ID: 2, RoutingKey: "k", Payload: []byte(`{}`), CreatedAt: time.Now()},
		{ID: 3, RoutingKey: "k", Payload: []byte(`{}`), CreatedAt: time.Now()},
	}
	repo.On("GetUnpublished", mock.Anything, 100).Return(msgs, nil)
	// The breaker trips after two consecutive failures; the third message
	// never reaches the publisher.
	publisher.On("Publish", mock.Anything, "k", mock.Anything).Return(errors.New("broker down")).Twice()
	repo.On("MarkFailed", mock.Anything, mock.AnythingOfType("int64"), mock.Anything, mock.Anything).Return(nil)

	p := NewProcessor(repo, publisher, cfg, nil)
	require.NoError(t, p.ProcessOnce(context.Background()))

	assert.Equal(t, uint64(3), p.GetStats().FailedCount)
	publisher.AssertExpectations(t)
}

func TestProcessor_RetryBackoff(t *testing.T) {
	p := NewProcessor(new(MockRepository), new(MockPublisher), testProcessorConfig(), nil)

	assert.Equal(t, 1*time.Second, p.retryBackoff(1))
	assert.Equal(t, 2*time.Second, p.retryBackoff(2))
	assert.Equal(t, 4*time.Second, p.retryBackoff(3))
	assert.Equal(t, 32*time.Second, p.retryBackoff(6))
	// Capped at the configured maximum.
	assert.Equal(t, time.Minute, p.retryBackoff(7))
	assert.Equal(t, time.Minute, p.retryBackoff(50))
	// Degenerate inputs clamp to the first step.
	assert.Equal(t, 1*time.Second, p.retryBackoff(0))
}

func TestProcessor_StartStop(t *testing.T) {
	repo := new(MockRepository)
	publisher := new(MockPublisher)
	repo.On("GetUnpublished", mock.Anything, mock.Anything).Return([]*Message{}, nil).Maybe()

	cfg := testProcessorConfig()
	cfg.PollInterval = 10 * time.Millisecond

	p := NewProcessor(repo, publisher, cfg, nil)
	require.NoError(t, p.Start(context.Background()))
	assert.True(t, p.IsRunning())

	// Idempotent start.
	require.NoError(t, p.Start(context.Background()))

	time.Sleep(30 * time.Millisecond)
	p.Stop()
	assert.False(t, p.IsRunning())

	// Idempotent stop.
	p.Stop()
}

// MockRepository is a mock implementation of Repository.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Save(ctx context.Context, msg *Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockRepository) SaveBatch(ctx context.Context, msgs []*Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockRepository) GetUnpublished(ctx context.Context, limit int) ([]*Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Message), args.Error(1)
}

func (m *MockRepository) MarkPublished(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	args := m.Called(ctx, id, errMsg, nextRetryAt)
	return args.Error(0)
}

func (m *MockRepository) MarkDead(ctx context.Context, id int64, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

func (m *MockRepository) GetDeadLettered(ctx context.Context, limit int) ([]*Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Message), args.Error(1)
}

func (m *MockRepository) DeletePublishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

var _ Repository = (*MockRepository)(nil)

// MockPublisher is a mock implementation of eventbus.Publisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	args := m.Called(ctx, routingKey, payload)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
