package repository

import (
	"context"
	"time"

	"lokapasar/internal/domain/entity"
)

type ThreadRepository interface {
	Create(ctx context.Context, thread *entity.Thread) error
	GetByID(ctx context.Context, id string) (*entity.Thread, error)
	GetByParticipants(ctx context.Context, buyerID, vendorID string) (*entity.Thread, error)
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Thread, int64, error)
	Update(ctx context.Context, thread *entity.Thread) error
}

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	ListByThread(ctx context.Context, threadID string, limit, offset int) ([]*entity.Message, int64, error)
	// CountSince counts messages in a thread created strictly after since.
	CountSince(ctx context.Context, threadID string, since time.Time) (int, error)
}

type ReadStateRepository interface {
	// Upsert writes the (thread, user) watermark, last-write-wins.
	Upsert(ctx context.Context, state *entity.ReadState) error
	Get(ctx context.Context, threadID, userID string) (*entity.ReadState, error)
	// GetForThreads fetches the user's read states for a set of threads in
	// one batched query. Threads with no row are absent from the result.
	GetForThreads(ctx context.Context, userID string, threadIDs []string) (map[string]*entity.ReadState, error)
}
