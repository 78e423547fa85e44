package publisher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	audit "pinguard/pkg/platform/audit"
	"pinguard/pkg/platform/audit/store/memory"
	"pinguard/pkg/platform/sentinel"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	*memory.InMemoryStore
}

func (failingStore) Append(context.Context, audit.Event) error {
	return errors.New("disk full")
}

func TestPublisher_SyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	err := pub.Emit(context.Background(), audit.Event{
		Subject: "user-1",
		Action:  string(audit.EventPINStrengthChecked),
	})
	require.NoError(t, err)

	events, err := pub.List(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, string(audit.EventPINStrengthChecked), events[0].Action)
	assert.Equal(t, audit.CategoryCompliance, events[0].Category)
	assert.NotEqual(t, uuid.Nil, events[0].ID)
}

func TestPublisher_AsyncDrainsOnClose(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(100))

	for i := 0; i < 10; i++ {
		err := pub.Emit(context.Background(), audit.Event{
			Subject: "user-1",
			Action:  string(audit.EventPINStrengthChecked),
		})
		require.NoError(t, err)
	}

	require.NoError(t, pub.Close())

	events, err := store.ListBySubject(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, events, 10, "all events should be drained on close")
}

func TestPublisher_AsyncEmitAfterClose(t *testing.T) {
	pub := NewPublisher(memory.NewInMemoryStore(), WithAsyncBuffer(1))
	require.NoError(t, pub.Close())
	require.NoError(t, pub.Close())

	err := pub.Emit(context.Background(), audit.Event{Action: string(audit.EventPINStrengthChecked)})
	assert.ErrorIs(t, err, sentinel.ErrClosed)
}

func TestPublisher_BufferFull_DropsEvent(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(1))
	defer pub.Close()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := pub.Emit(context.Background(), audit.Event{Action: string(audit.EventPINStrengthChecked)})
			if err != nil {
				assert.ErrorIs(t, err, sentinel.ErrUnavailable)
			}
		}()
	}
	wg.Wait()
}

func TestPublisher_RequiresAction(t *testing.T) {
	pub := NewPublisher(memory.NewInMemoryStore())
	defer pub.Close()

	err := pub.Emit(context.Background(), audit.Event{Subject: "user-1"})
	assert.Error(t, err)
}

func TestPublisher_SetsTimestamp(t *testing.T) {
	pub := NewPublisher(memory.NewInMemoryStore())
	defer pub.Close()

	before := time.Now()
	err := pub.Emit(context.Background(), audit.Event{
		Subject: "user-1",
		Action:  string(audit.EventPINStrengthChecked),
	})
	require.NoError(t, err)
	after := time.Now()

	events, err := pub.List(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.False(t, events[0].Timestamp.Before(before), "timestamp should be >= before")
	assert.False(t, events[0].Timestamp.After(after), "timestamp should be <= after")
}

func TestPublisher_PreservesExistingTimestamp(t *testing.T) {
	pub := NewPublisher(memory.NewInMemoryStore())
	defer pub.Close()

	customTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	err := pub.Emit(context.Background(), audit.Event{
		Subject:   "user-1",
		Action:    string(audit.EventPINStrengthChecked),
		Timestamp: customTime,
	})
	require.NoError(t, err)

	events, err := pub.List(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, customTime, events[0].Timestamp)
}

func TestPublisher_StoreFailure(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	pub := NewPublisher(failingStore{memory.NewInMemoryStore()}, WithMetrics(metrics))
	defer pub.Close()

	err := pub.Emit(context.Background(), audit.Event{Action: string(audit.EventPINStrengthChecked)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.PersistFailures))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.Emitted))
}

func TestPublisher_MultipleEvents(t *testing.T) {
	pub := NewPublisher(memory.NewInMemoryStore())
	defer pub.Close()

	actions := []audit.AuditEvent{
		audit.EventPINStrengthChecked,
		audit.EventPINBatchChecked,
		audit.EventAuthFailed,
	}
	for _, action := range actions {
		require.NoError(t, pub.Emit(context.Background(), audit.Event{Subject: "user-1", Action: string(action)}))
	}

	result, err := pub.List(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, result, 3)
	assert.Equal(t, audit.CategoryCompliance, result[0].Category)
	assert.Equal(t, audit.CategoryOperations, result[1].Category)
	assert.Equal(t, audit.CategorySecurity, result[2].Category)
}
