package entity

import "time"

// Message is append-only: once created it is never mutated or deleted.
type Message struct {
	ID        string    `json:"id" firestore:"id"`
	ThreadID  string    `json:"thread_id" firestore:"threadId"`
	SenderID  string    `json:"sender_id" firestore:"senderId"`
	Body      string    `json:"body" firestore:"body"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}
