package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lokapasar/internal/domain/entity"
	"lokapasar/internal/infrastructure/realtime"
)

type fakeReadStateStore struct {
	mu      sync.Mutex
	states  map[string]*entity.ReadState // keyed threadID|userID
	upserts int
	failAll bool
}

func newFakeReadStateStore() *fakeReadStateStore {
	return &fakeReadStateStore{states: make(map[string]*entity.ReadState)}
}

func (f *fakeReadStateStore) Upsert(ctx context.Context, state *entity.ReadState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errors.New("store unavailable")
	}
	f.upserts++
	copied := *state
	f.states[state.ThreadID+"|"+state.UserID] = &copied
	return nil
}

func (f *fakeReadStateStore) GetForThreads(ctx context.Context, userID string, threadIDs []string) (map[string]*entity.ReadState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errors.New("store unavailable")
	}
	out := make(map[string]*entity.ReadState)
	for _, threadID := range threadIDs {
		if state, ok := f.states[threadID+"|"+userID]; ok {
			out[threadID] = state
		}
	}
	return out, nil
}

type fakeMessageCounter struct {
	mu          sync.Mutex
	messages    map[string][]time.Time
	failThreads map[string]bool
}

func newFakeMessageCounter() *fakeMessageCounter {
	return &fakeMessageCounter{
		messages:    make(map[string][]time.Time),
		failThreads: make(map[string]bool),
	}
}

func (f *fakeMessageCounter) CountSince(ctx context.Context, threadID string, since time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failThreads[threadID] {
		return 0, errors.New("count query failed")
	}
	count := 0
	for _, createdAt := range f.messages[threadID] {
		if createdAt.After(since) {
			count++
		}
	}
	return count, nil
}

func insertEvent(threadID, senderID string) realtime.Event {
	return realtime.Event{
		Type: realtime.EventInsert,
		Message: &entity.Message{
			ID:        "m",
			ThreadID:  threadID,
			SenderID:  senderID,
			CreatedAt: time.Now(),
		},
	}
}

func TestRecomputeAllWithNoReadState(t *testing.T) {
	ctx := context.Background()
	reads := newFakeReadStateStore()
	counter := newFakeMessageCounter()

	// No watermark: everything after epoch counts.
	now := time.Now()
	counter.messages["t1"] = []time.Time{now.Add(-3 * time.Hour), now.Add(-2 * time.Hour), now.Add(-time.Hour)}

	tracker := NewTracker("u1", reads, counter)
	counts, err := tracker.RecomputeAll(ctx, []string{"t1"})
	require.NoError(t, err)
	assert.Equal(t, 3, counts["t1"])
}

func TestMarkThreadReadThenLiveEvent(t *testing.T) {
	ctx := context.Background()
	reads := newFakeReadStateStore()
	counter := newFakeMessageCounter()

	now := time.Now()
	counter.messages["t1"] = []time.Time{now.Add(-2 * time.Hour), now.Add(-time.Hour), now.Add(-time.Minute)}

	tracker := NewTracker("u1", reads, counter)
	_, err := tracker.RecomputeAll(ctx, []string{"t1"})
	require.NoError(t, err)
	require.Equal(t, 3, tracker.Count("t1"))

	require.NoError(t, tracker.MarkThreadRead(ctx, "t1"))
	assert.Equal(t, 0, tracker.Count("t1"))

	// A new message from the other party lands as count 1.
	tracker.apply(insertEvent("t1", "vendor"))
	assert.Equal(t, 1, tracker.Count("t1"))
}

func TestMarkThreadReadIdempotent(t *testing.T) {
	ctx := context.Background()
	reads := newFakeReadStateStore()
	tracker := NewTracker("u1", reads, newFakeMessageCounter())

	require.NoError(t, tracker.MarkThreadRead(ctx, "t1"))
	first := *reads.states["t1|u1"]

	require.NoError(t, tracker.MarkThreadRead(ctx, "t1"))
	second := *reads.states["t1|u1"]

	// Still one row for the pair, watermark monotonically non-decreasing.
	assert.Equal(t, 2, reads.upserts)
	assert.Len(t, reads.states, 1)
	assert.False(t, second.LastReadAt.Before(first.LastReadAt))
	assert.Equal(t, 0, tracker.Count("t1"))
}

func TestMarkThreadReadWatermarkFiltersRecompute(t *testing.T) {
	ctx := context.Background()
	reads := newFakeReadStateStore()
	counter := newFakeMessageCounter()
	tracker := NewTracker("u1", reads, counter)

	counter.messages["t1"] = []time.Time{time.Now().Add(-time.Hour)}
	require.NoError(t, tracker.MarkThreadRead(ctx, "t1"))

	counts, err := tracker.RecomputeAll(ctx, []string{"t1"})
	require.NoError(t, err)
	assert.Equal(t, 0, counts["t1"])

	// A message after the watermark shows up on the next recompute.
	counter.mu.Lock()
	counter.messages["t1"] = append(counter.messages["t1"], time.Now().Add(time.Second))
	counter.mu.Unlock()

	counts, err = tracker.RecomputeAll(ctx, []string{"t1"})
	require.NoError(t, err)
	assert.Equal(t, 1, counts["t1"])
}

func TestFocusedThreadNotIncremented(t *testing.T) {
	tracker := NewTracker("u1", newFakeReadStateStore(), newFakeMessageCounter())

	tracker.SetFocused("t1")
	tracker.apply(insertEvent("t1", "vendor"))
	tracker.apply(insertEvent("t2", "vendor"))

	assert.Equal(t, 0, tracker.Count("t1"))
	assert.Equal(t, 1, tracker.Count("t2"))

	tracker.ClearFocused()
	tracker.apply(insertEvent("t1", "vendor"))
	assert.Equal(t, 1, tracker.Count("t1"))
}

func TestOwnMessagesIgnored(t *testing.T) {
	tracker := NewTracker("u1", newFakeReadStateStore(), newFakeMessageCounter())

	tracker.apply(insertEvent("t1", "u1"))
	assert.Equal(t, 0, tracker.Count("t1"))
}

func TestNonInsertEventsIgnored(t *testing.T) {
	tracker := NewTracker("u1", newFakeReadStateStore(), newFakeMessageCounter())

	event := insertEvent("t1", "vendor")
	event.Type = realtime.EventUpdate
	tracker.apply(event)
	assert.Equal(t, 0, tracker.Count("t1"))
}

func TestRecomputeKeepsStaleCountOnFailure(t *testing.T) {
	ctx := context.Background()
	reads := newFakeReadStateStore()
	counter := newFakeMessageCounter()
	counter.messages["t1"] = []time.Time{time.Now().Add(-time.Hour)}

	tracker := NewTracker("u1", reads, counter)
	_, err := tracker.RecomputeAll(ctx, []string{"t1"})
	require.NoError(t, err)
	require.Equal(t, 1, tracker.Count("t1"))

	// The count query starts failing; the previous value survives.
	counter.mu.Lock()
	counter.failThreads["t1"] = true
	counter.mu.Unlock()

	counts, err := tracker.RecomputeAll(ctx, []string{"t1"})
	require.NoError(t, err)
	assert.Equal(t, 1, counts["t1"])
}

func TestRecomputeReadStateFailureKeepsCounts(t *testing.T) {
	ctx := context.Background()
	reads := newFakeReadStateStore()
	counter := newFakeMessageCounter()
	tracker := NewTracker("u1", reads, counter)

	tracker.apply(insertEvent("t1", "vendor"))
	require.Equal(t, 1, tracker.Count("t1"))

	reads.failAll = true
	counts, err := tracker.RecomputeAll(ctx, []string{"t1"})
	assert.Error(t, err)
	assert.Equal(t, 1, counts["t1"])
}

func TestRunConsumesUntilChannelCloses(t *testing.T) {
	tracker := NewTracker("u1", newFakeReadStateStore(), newFakeMessageCounter())

	events := make(chan realtime.Event, 4)
	events <- insertEvent("t1", "vendor")
	events <- insertEvent("t1", "vendor")
	events <- insertEvent("t2", "vendor")
	close(events)

	done := make(chan struct{})
	go func() {
		tracker.Run(context.Background(), events)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("tracker did not stop on channel close")
	}

	assert.Equal(t, 2, tracker.Count("t1"))
	assert.Equal(t, 1, tracker.Count("t2"))
}

func TestRunStopsOnContextCancel(t *testing.T) {
	tracker := NewTracker("u1", newFakeReadStateStore(), newFakeMessageCounter())

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan realtime.Event)

	done := make(chan struct{})
	go func() {
		tracker.Run(ctx, events)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("tracker did not stop on cancel")
	}
}
