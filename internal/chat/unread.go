package chat

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"lokapasar/internal/domain/entity"
	"lokapasar/internal/infrastructure/realtime"
	"lokapasar/pkg/logger"
)

// recomputeConcurrency bounds the per-thread count fan-out. Thread lists
// are tens of entries at the observed scale.
const recomputeConcurrency = 8

// MessageCounter counts messages in a thread created after a watermark.
type MessageCounter interface {
	CountSince(ctx context.Context, threadID string, since time.Time) (int, error)
}

// ReadStateStore reads and writes per-user read watermarks.
type ReadStateStore interface {
	Upsert(ctx context.Context, state *entity.ReadState) error
	GetForThreads(ctx context.Context, userID string, threadIDs []string) (map[string]*entity.ReadState, error)
}

// Tracker maintains one viewer's unread-message count per thread, kept
// live by folding a message event stream into its count map. Counts are
// approximate between recomputes: a live increment racing a recompute is
// tolerated and converges on the next RecomputeAll.
type Tracker struct {
	viewerID string
	reads    ReadStateStore
	messages MessageCounter

	mu      sync.Mutex
	counts  map[string]int
	focused string

	now func() time.Time
}

func NewTracker(viewerID string, reads ReadStateStore, messages MessageCounter) *Tracker {
	return &Tracker{
		viewerID: viewerID,
		reads:    reads,
		messages: messages,
		counts:   make(map[string]int),
		now:      time.Now,
	}
}

// RecomputeAll rebuilds the count map for the given threads: one batched
// read-state query, then a bounded fan-out of count queries using each
// thread's watermark (or epoch when the viewer has never read it). A
// thread whose count query fails keeps its previous known count; stale is
// preferred over blank.
func (t *Tracker) RecomputeAll(ctx context.Context, threadIDs []string) (map[string]int, error) {
	states, err := t.reads.GetForThreads(ctx, t.viewerID, threadIDs)
	if err != nil {
		logger.Warn("unread: read-state fetch failed for %s: %v", t.viewerID, err)
		return t.Counts(), err
	}

	fresh := make(map[string]int, len(threadIDs))
	var freshMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(recomputeConcurrency)

	for _, threadID := range threadIDs {
		threadID := threadID
		g.Go(func() error {
			var since time.Time
			if state, ok := states[threadID]; ok {
				since = state.LastReadAt
			}

			count, err := t.messages.CountSince(gctx, threadID, since)
			if err != nil {
				logger.Warn("unread: count failed for thread %s: %v", threadID, err)
				return nil
			}

			freshMu.Lock()
			fresh[threadID] = count
			freshMu.Unlock()
			return nil
		})
	}
	g.Wait()

	t.mu.Lock()
	next := make(map[string]int, len(threadIDs))
	for _, threadID := range threadIDs {
		if count, ok := fresh[threadID]; ok {
			next[threadID] = count
		} else if prev, ok := t.counts[threadID]; ok {
			next[threadID] = prev
		}
	}
	t.counts = next
	t.mu.Unlock()

	return t.Counts(), nil
}

// Run folds message events into the count map until ctx is done or the
// event channel closes. An insert for the focused thread is ignored; the
// mark-read path owns that thread's count. The viewer's own messages
// never count as unread.
func (t *Tracker) Run(ctx context.Context, events <-chan realtime.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			t.apply(event)
		}
	}
}

func (t *Tracker) apply(event realtime.Event) {
	if event.Type != realtime.EventInsert || event.Message == nil {
		return
	}
	if event.Message.SenderID == t.viewerID {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if event.Message.ThreadID == t.focused {
		return
	}
	t.counts[event.Message.ThreadID]++
}

// SetFocused marks a thread as currently open. Live inserts for the
// focused thread do not increment its count.
func (t *Tracker) SetFocused(threadID string) {
	t.mu.Lock()
	t.focused = threadID
	t.mu.Unlock()
}

func (t *Tracker) ClearFocused() {
	t.SetFocused("")
}

// MarkThreadRead upserts the viewer's watermark to now and resets the
// in-memory count to zero. Idempotent: repeated calls converge to the
// same read state, last write wins.
func (t *Tracker) MarkThreadRead(ctx context.Context, threadID string) error {
	state := &entity.ReadState{
		ThreadID:   threadID,
		UserID:     t.viewerID,
		LastReadAt: t.now(),
	}
	if err := t.reads.Upsert(ctx, state); err != nil {
		return err
	}

	t.mu.Lock()
	t.counts[threadID] = 0
	t.mu.Unlock()
	return nil
}

// Count returns the current count for one thread.
func (t *Tracker) Count(threadID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[threadID]
}

// Counts returns a snapshot copy of the count map.
func (t *Tracker) Counts() map[string]int {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string]int, len(t.counts))
	for threadID, count := range t.counts {
		out[threadID] = count
	}
	return out
}
