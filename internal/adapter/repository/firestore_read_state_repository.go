package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"lokapasar/internal/domain/entity"
	"lokapasar/internal/domain/repository"
	"lokapasar/pkg/errors"
	"lokapasar/pkg/logger"
)

// Read states are keyed "{threadId}:{userId}" so the upsert is a plain
// document Set: repeated mark-read calls land on the same row,
// last write wins.
type firestoreReadStateRepository struct {
	client *firestore.Client
}

func NewFirestoreReadStateRepository(client *firestore.Client) repository.ReadStateRepository {
	return &firestoreReadStateRepository{
		client: client,
	}
}

func readStateDocID(threadID, userID string) string {
	return fmt.Sprintf("%s:%s", threadID, userID)
}

func (r *firestoreReadStateRepository) Upsert(ctx context.Context, state *entity.ReadState) error {
	docID := readStateDocID(state.ThreadID, state.UserID)
	_, err := r.client.Collection("readStates").Doc(docID).Set(ctx, state)
	if err != nil {
		return errors.Internal("Failed to upsert read state", err)
	}

	return nil
}

func (r *firestoreReadStateRepository) Get(ctx context.Context, threadID, userID string) (*entity.ReadState, error) {
	doc, err := r.client.Collection("readStates").Doc(readStateDocID(threadID, userID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Read state", err)
		}
		return nil, errors.Internal("Failed to get read state", err)
	}

	var state entity.ReadState
	if err := doc.DataTo(&state); err != nil {
		return nil, errors.Internal("Failed to parse read state data", err)
	}

	return &state, nil
}

func (r *firestoreReadStateRepository) GetForThreads(ctx context.Context, userID string, threadIDs []string) (map[string]*entity.ReadState, error) {
	refs := make([]*firestore.DocumentRef, 0, len(threadIDs))
	for _, threadID := range threadIDs {
		refs = append(refs, r.client.Collection("readStates").Doc(readStateDocID(threadID, userID)))
	}

	docs, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, errors.Internal("Failed to batch-get read states", err)
	}

	states := make(map[string]*entity.ReadState)
	for _, doc := range docs {
		if !doc.Exists() {
			continue
		}

		var state entity.ReadState
		if err := doc.DataTo(&state); err != nil {
			logger.Warn("readstates: skipping malformed document %s: %v", doc.Ref.ID, err)
			continue
		}
		states[state.ThreadID] = &state
	}

	return states, nil
}
