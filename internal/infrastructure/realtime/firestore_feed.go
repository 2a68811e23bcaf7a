package realtime

import (
	"context"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"lokapasar/internal/domain/entity"
	"lokapasar/pkg/logger"
)

// Firestore "in" filters accept a limited number of values, so wider
// subscriptions are split across listeners feeding a single channel.
const maxInValues = 10

type firestoreFeed struct {
	client *firestore.Client
}

func NewFirestoreFeed(client *firestore.Client) Feed {
	return &firestoreFeed{client: client}
}

func (f *firestoreFeed) SubscribeMessages(ctx context.Context, threadIDs []string) (<-chan Event, func(), error) {
	ctx, cancel := context.WithCancel(ctx)
	out := make(chan Event, 32)

	// Only changes after the subscribe moment are interesting; without the
	// time filter the first snapshot replays every existing message as an
	// insert.
	since := time.Now()

	var wg sync.WaitGroup
	for _, chunk := range chunkIDs(threadIDs, maxInValues) {
		query := f.client.Collection("messages").
			Where("threadId", "in", chunk).
			Where("createdAt", ">", since)

		wg.Add(1)
		go f.listen(ctx, query, out, &wg)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out, cancel, nil
}

func (f *firestoreFeed) listen(ctx context.Context, query firestore.Query, out chan<- Event, wg *sync.WaitGroup) {
	defer wg.Done()

	it := query.Snapshots(ctx)
	defer it.Stop()

	for {
		snap, err := it.Next()
		if err != nil {
			if status.Code(err) == codes.Canceled || ctx.Err() != nil {
				return
			}
			// Consumers keep their previous counts on feed failure.
			logger.Warn("realtime: message listener stopped: %v", err)
			return
		}

		for _, change := range snap.Changes {
			var message entity.Message
			if err := change.Doc.DataTo(&message); err != nil {
				logger.Warn("realtime: failed to parse message event: %v", err)
				continue
			}

			var eventType EventType
			switch change.Kind {
			case firestore.DocumentAdded:
				eventType = EventInsert
			case firestore.DocumentModified:
				eventType = EventUpdate
			case firestore.DocumentRemoved:
				eventType = EventDelete
			}

			select {
			case out <- Event{Type: eventType, Message: &message}:
			case <-ctx.Done():
				return
			}
		}
	}
}

func chunkIDs(ids []string, size int) [][]string {
	var chunks [][]string
	for len(ids) > size {
		chunks = append(chunks, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}
	return chunks
}
