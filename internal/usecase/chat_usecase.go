package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"lokapasar/internal/chat"
	"lokapasar/internal/domain/entity"
	"lokapasar/internal/domain/repository"
	"lokapasar/internal/infrastructure/ratelimit"
	"lokapasar/internal/infrastructure/realtime"
	ws "lokapasar/internal/infrastructure/websocket"
	"lokapasar/pkg/errors"
	"lokapasar/pkg/logger"
)

const messagePreviewLength = 80

// ChatUseCase owns threads, messages, and one unread tracker per active
// viewer. Trackers are fed by the record store's change feed and torn
// down when the viewer disconnects.
type ChatUseCase struct {
	threadRepo    repository.ThreadRepository
	messageRepo   repository.MessageRepository
	readStateRepo repository.ReadStateRepository
	userRepo      repository.UserRepository
	feed          realtime.Feed
	wsManager     *ws.Manager
	rateLimiter   *ratelimit.RateLimiter
	timeout       time.Duration

	mu       sync.Mutex
	sessions map[string]*trackerSession
}

// trackerSession pairs a viewer's tracker with its feed subscription.
// stop cancels the subscription; leaking it would keep folding events for
// a viewer who is gone.
type trackerSession struct {
	tracker   *chat.Tracker
	threadIDs []string
	stop      func()
}

func NewChatUseCase(
	threadRepo repository.ThreadRepository,
	messageRepo repository.MessageRepository,
	readStateRepo repository.ReadStateRepository,
	userRepo repository.UserRepository,
	feed realtime.Feed,
	wsManager *ws.Manager,
	timeout time.Duration,
) *ChatUseCase {
	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	return &ChatUseCase{
		threadRepo:    threadRepo,
		messageRepo:   messageRepo,
		readStateRepo: readStateRepo,
		userRepo:      userRepo,
		feed:          feed,
		wsManager:     wsManager,
		rateLimiter:   rateLimiter,
		timeout:       timeout,
		sessions:      make(map[string]*trackerSession),
	}
}

type CreateThreadInput struct {
	VendorID       string
	ProductID      string
	InitialMessage string
}

type ThreadResponse struct {
	*entity.Thread
	UnreadCount int          `json:"unread_count"`
	OtherUser   *entity.User `json:"other_user,omitempty"`
}

func (uc *ChatUseCase) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, uc.timeout)
}

func (uc *ChatUseCase) CreateThread(ctx context.Context, buyerID string, input CreateThreadInput) (*entity.Thread, error) {
	if buyerID == "" {
		return nil, errors.SignInRequired("start a conversation")
	}

	if allowed, _ := uc.rateLimiter.Allow(buyerID, "create_thread"); !allowed {
		return nil, errors.TooManyRequests("Too many new conversations. Please wait before starting another")
	}

	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	if buyerID == input.VendorID {
		return nil, errors.BadRequest("You cannot message yourself", nil)
	}

	if _, err := uc.userRepo.GetByID(ctx, input.VendorID); err != nil {
		return nil, err
	}

	// Reuse the existing conversation between this pair.
	existing, err := uc.threadRepo.GetByParticipants(ctx, buyerID, input.VendorID)
	if err == nil {
		if input.InitialMessage != "" {
			if _, sendErr := uc.SendMessage(ctx, buyerID, existing.ID, input.InitialMessage); sendErr != nil {
				return nil, sendErr
			}
		}
		return existing, nil
	}
	if !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	thread := &entity.Thread{
		Participants: []string{buyerID, input.VendorID},
		BuyerID:      buyerID,
		VendorID:     input.VendorID,
		ProductID:    input.ProductID,
	}

	if err := uc.threadRepo.Create(ctx, thread); err != nil {
		return nil, err
	}

	if input.InitialMessage != "" {
		if _, err := uc.SendMessage(ctx, buyerID, thread.ID, input.InitialMessage); err != nil {
			return nil, err
		}
	}

	return thread, nil
}

func (uc *ChatUseCase) SendMessage(ctx context.Context, senderID, threadID, body string) (*entity.Message, error) {
	if senderID == "" {
		return nil, errors.SignInRequired("send a message")
	}
	if body == "" {
		return nil, errors.BadRequest("Message body is required", nil)
	}

	if allowed, _ := uc.rateLimiter.Allow(senderID, "send_message"); !allowed {
		return nil, errors.TooManyRequests("You are sending messages too quickly")
	}

	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	thread, err := uc.threadRepo.GetByID(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if !isParticipant(thread, senderID) {
		return nil, errors.Forbidden("You are not part of this conversation", nil)
	}

	message := &entity.Message{
		ThreadID: threadID,
		SenderID: senderID,
		Body:     body,
	}

	if err := uc.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	thread.LastMessageAt = message.CreatedAt
	thread.LastMessagePreview = preview(body)
	if err := uc.threadRepo.Update(ctx, thread); err != nil {
		logger.Warn("chat: failed to update thread %s preview: %v", threadID, err)
	}

	for _, participant := range thread.Participants {
		if participant != senderID {
			uc.wsManager.PushToUser(participant, ws.Push{Type: "message", Payload: message})
		}
	}

	return message, nil
}

func (uc *ChatUseCase) ListThreads(ctx context.Context, userID string, limit, offset int) ([]*ThreadResponse, int64, error) {
	if userID == "" {
		return nil, 0, errors.SignInRequired("view your conversations")
	}

	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	threads, total, err := uc.threadRepo.ListByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	counts := uc.unreadCountsFor(ctx, userID, threadIDsOf(threads))

	responses := make([]*ThreadResponse, 0, len(threads))
	for _, thread := range threads {
		response := &ThreadResponse{Thread: thread, UnreadCount: counts[thread.ID]}

		otherID := thread.VendorID
		if otherID == userID {
			otherID = thread.BuyerID
		}
		if other, err := uc.userRepo.GetByID(ctx, otherID); err == nil {
			response.OtherUser = other
		}

		responses = append(responses, response)
	}

	return responses, total, nil
}

func (uc *ChatUseCase) ListMessages(ctx context.Context, userID, threadID string, limit, offset int) ([]*entity.Message, int64, error) {
	if userID == "" {
		return nil, 0, errors.SignInRequired("read messages")
	}

	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	thread, err := uc.threadRepo.GetByID(ctx, threadID)
	if err != nil {
		return nil, 0, err
	}
	if !isParticipant(thread, userID) {
		return nil, 0, errors.Forbidden("You are not part of this conversation", nil)
	}

	return uc.messageRepo.ListByThread(ctx, threadID, limit, offset)
}

// MarkThreadRead advances the viewer's watermark and zeroes the tracked
// count. Safe to call repeatedly.
func (uc *ChatUseCase) MarkThreadRead(ctx context.Context, userID, threadID string) error {
	if userID == "" {
		return errors.SignInRequired("mark a conversation read")
	}

	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	thread, err := uc.threadRepo.GetByID(ctx, threadID)
	if err != nil {
		return err
	}
	if !isParticipant(thread, userID) {
		return errors.Forbidden("You are not part of this conversation", nil)
	}

	uc.mu.Lock()
	session := uc.sessions[userID]
	uc.mu.Unlock()

	if session != nil {
		return session.tracker.MarkThreadRead(ctx, threadID)
	}

	return uc.readStateRepo.Upsert(ctx, &entity.ReadState{
		ThreadID:   threadID,
		UserID:     userID,
		LastReadAt: time.Now(),
	})
}

// UnreadCounts returns the viewer's per-thread unread counts, starting a
// live tracker session on first use.
func (uc *ChatUseCase) UnreadCounts(ctx context.Context, userID string) (map[string]int, error) {
	if userID == "" {
		return nil, errors.SignInRequired("view unread counts")
	}

	qctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	threads, _, err := uc.threadRepo.ListByUserID(qctx, userID, 0, 0)
	if err != nil {
		return nil, err
	}
	threadIDs := threadIDsOf(threads)

	session, err := uc.ensureSession(userID, threadIDs)
	if err != nil {
		return nil, err
	}

	counts, err := session.tracker.RecomputeAll(qctx, threadIDs)
	if err != nil {
		// Stale counts beat a blank badge.
		logger.Warn("chat: unread recompute failed for %s: %v", userID, err)
	}
	return counts, nil
}

// SetFocused marks the thread the viewer currently has open, so live
// events for it stop inflating the badge.
func (uc *ChatUseCase) SetFocused(userID, threadID string) {
	uc.mu.Lock()
	session := uc.sessions[userID]
	uc.mu.Unlock()

	if session != nil {
		session.tracker.SetFocused(threadID)
	}
}

// StopTracking tears down the viewer's session. Mandatory on disconnect:
// the feed subscription is scoped to the viewer's threads and must not
// outlive them.
func (uc *ChatUseCase) StopTracking(userID string) {
	uc.mu.Lock()
	session := uc.sessions[userID]
	delete(uc.sessions, userID)
	uc.mu.Unlock()

	if session != nil {
		session.stop()
	}
}

// HandleInbound parses client websocket frames: focus changes and read
// receipts.
func (uc *ChatUseCase) HandleInbound(userID string, payload []byte) {
	var frame struct {
		Type     string `json:"type"`
		ThreadID string `json:"thread_id"`
	}
	if err := json.Unmarshal(payload, &frame); err != nil {
		logger.Debug("chat: ignoring malformed ws frame from %s: %v", userID, err)
		return
	}

	switch frame.Type {
	case "focus":
		uc.SetFocused(userID, frame.ThreadID)
	case "blur":
		uc.SetFocused(userID, "")
	case "mark_read":
		ctx, cancel := context.WithTimeout(context.Background(), uc.timeout)
		defer cancel()
		if err := uc.MarkThreadRead(ctx, userID, frame.ThreadID); err != nil {
			logger.Warn("chat: ws mark_read failed for %s: %v", userID, err)
		}
	}
}

func (uc *ChatUseCase) ensureSession(userID string, threadIDs []string) (*trackerSession, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if session, ok := uc.sessions[userID]; ok {
		if sameThreadSet(session.threadIDs, threadIDs) {
			return session, nil
		}
		// Thread set changed; resubscribe with the new scope.
		session.stop()
		delete(uc.sessions, userID)
	}

	tracker := chat.NewTracker(userID, uc.readStateRepo, uc.messageRepo)

	feedCtx, cancel := context.WithCancel(context.Background())
	session := &trackerSession{tracker: tracker, threadIDs: threadIDs, stop: cancel}

	if len(threadIDs) > 0 {
		events, stopFeed, err := uc.feed.SubscribeMessages(feedCtx, threadIDs)
		if err != nil {
			cancel()
			return nil, errors.Internal("Failed to subscribe to message feed", err)
		}
		session.stop = func() {
			stopFeed()
			cancel()
		}
		go tracker.Run(feedCtx, events)
		go uc.pushUnreadUpdates(feedCtx, userID, tracker)
	}

	uc.sessions[userID] = session
	return session, nil
}

// pushUnreadUpdates mirrors tracker state to the viewer's websocket on a
// short cadence while the session lives.
func (uc *ChatUseCase) pushUnreadUpdates(ctx context.Context, userID string, tracker *chat.Tracker) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	var last string
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			counts := tracker.Counts()
			encoded, err := json.Marshal(counts)
			if err != nil {
				continue
			}
			if string(encoded) == last {
				continue
			}
			last = string(encoded)
			uc.wsManager.PushToUser(userID, ws.Push{Type: "unread", Payload: counts})
		}
	}
}

func isParticipant(thread *entity.Thread, userID string) bool {
	for _, participant := range thread.Participants {
		if participant == userID {
			return true
		}
	}
	return false
}

func threadIDsOf(threads []*entity.Thread) []string {
	ids := make([]string, 0, len(threads))
	for _, thread := range threads {
		ids = append(ids, thread.ID)
	}
	return ids
}

func sameThreadSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, id := range a {
		set[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}

// unreadCountsFor returns tracked counts when a session exists, falling
// back to a one-shot recompute.
func (uc *ChatUseCase) unreadCountsFor(ctx context.Context, userID string, threadIDs []string) map[string]int {
	uc.mu.Lock()
	session := uc.sessions[userID]
	uc.mu.Unlock()

	if session != nil {
		return session.tracker.Counts()
	}

	tracker := chat.NewTracker(userID, uc.readStateRepo, uc.messageRepo)
	counts, err := tracker.RecomputeAll(ctx, threadIDs)
	if err != nil {
		logger.Warn("chat: unread recompute failed for %s: %v", userID, err)
	}
	return counts
}

func preview(body string) string {
	runes := []rune(body)
	if len(runes) <= messagePreviewLength {
		return body
	}
	return string(runes[:messagePreviewLength]) + "…"
}
