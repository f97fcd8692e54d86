// models/message.go
package models

import "time"

// Message is a chat message between two wallet addresses. ClientRef
// carries the sender's optimistic (pending) id so the client can swap it
// for the server-assigned ID on confirmation.
type Message struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Sender    string    `gorm:"index:idx_msg_pair;not null" json:"sender"`
	Receiver  string    `gorm:"index:idx_msg_pair;not null" json:"receiver"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	ClientRef string    `json:"client_ref,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// Conversation is a per-peer summary row for the conversation list view.
// Not a table — built from messages.
type Conversation struct {
	Peer          string    `json:"peer"`
	LastBody      string    `json:"last_body"`
	LastCreatedAt time.Time `json:"last_created_at"`
}
