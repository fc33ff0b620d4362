// Package chatapi is the HTTP client for the remote chat service: conversation
// CRUD, quota lookups, and the streaming message exchange.
package chatapi

import (
	"time"
)

// Conversation is a server-side conversation summary.
type Conversation struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at,omitzero"`
}

// Message is a server-persisted chat message.
type Message struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// ConversationDetail is a conversation together with its message history.
type ConversationDetail struct {
	Conversation
	Messages []Message `json:"messages"`
}

// Quota is the per-user send allowance snapshot.
type Quota struct {
	Total     int `json:"total"`
	Used      int `json:"used"`
	Remaining int `json:"remaining"`
}

// StreamEvent is one event from a streaming message exchange. It is a closed
// set: UserAckEvent, ChunkEvent, DoneEvent, or ErrorEvent. Consumers should
// type-switch over all four.
type StreamEvent interface {
	streamEvent()
}

// UserAckEvent confirms the server received the user message and assigned it
// a real id.
type UserAckEvent struct {
	Message Message
}

// ChunkEvent carries an incremental fragment of assistant output.
type ChunkEvent struct {
	Content string
}

// DoneEvent carries the final authoritative copies of both sides of the
// exchange. It is terminal.
type DoneEvent struct {
	UserMessage      Message
	AssistantMessage Message
}

// ErrorEvent reports a structured server-side failure. It is terminal; the
// stream call also returns the corresponding *StreamError.
type ErrorEvent struct {
	Code    string
	Message string
}

func (UserAckEvent) streamEvent() {}
func (ChunkEvent) streamEvent()   {}
func (DoneEvent) streamEvent()    {}
func (ErrorEvent) streamEvent()   {}

// Wire payloads for the SSE stream.

type chunkPayload struct {
	Content string `json:"content"`
}

type donePayload struct {
	UserMessage      Message `json:"user_message"`
	AssistantMessage Message `json:"assistant_message"`
}

type errorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
