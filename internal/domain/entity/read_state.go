package entity

import "time"

// ReadState is a watermark: one row per (thread, user) recording the last
// time that user viewed the thread. Unread counts are derived as the
// number of messages created after the watermark. Upserted only by the
// reading user; readable by any participant.
type ReadState struct {
	ThreadID   string    `json:"thread_id" firestore:"threadId"`
	UserID     string    `json:"user_id" firestore:"userId"`
	LastReadAt time.Time `json:"last_read_at" firestore:"lastReadAt"`
}
