// Package chatsession manages the client-side state of one chat widget: the
// conversation list, the active conversation's message timeline, the quota
// gate, and the single in-flight streaming exchange. All state is ephemeral;
// the remote service is authoritative.
package chatsession

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/tradewind/stockchat/src/chatapi"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Status is the lifecycle state of a timeline entry.
type Status string

const (
	// StatusPending marks an optimistic entry awaiting server confirmation.
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

const localIDPrefix = "local-"

// MessageID identifies a timeline entry in one of two disjoint id spaces:
// locally minted ids for optimistic entries not yet acknowledged by the
// server, and numeric server-assigned ids. The zero value is no id.
type MessageID struct {
	local  string
	server int64
}

// NewLocalID mints a fresh local id for an optimistic message.
func NewLocalID() MessageID {
	return MessageID{local: localIDPrefix + uuid.NewString()}
}

// ServerID wraps a server-assigned message id.
func ServerID(id int64) MessageID {
	return MessageID{server: id}
}

// IsLocal returns true for locally minted, unconfirmed ids.
func (id MessageID) IsLocal() bool {
	return id.local != ""
}

// IsZero returns true for the zero id.
func (id MessageID) IsZero() bool {
	return id.local == "" && id.server == 0
}

// String renders the id for display and logging.
func (id MessageID) String() string {
	if id.IsLocal() {
		return id.local
	}
	return strconv.FormatInt(id.server, 10)
}

// Equal reports whether two ids name the same entry. The two id spaces never
// collide, so this is exact comparison within a space.
func (id MessageID) Equal(other MessageID) bool {
	return id == other
}

// Message is one entry in a conversation timeline.
type Message struct {
	ID             MessageID
	ConversationID int64
	Role           Role
	Content        string
	Status         Status
	CreatedAt      time.Time
}

// fromAPI converts a server message into a timeline entry. Server copies are
// confirmed by definition, so a blank status becomes success.
func fromAPI(m chatapi.Message) Message {
	status := Status(m.Status)
	if status == "" {
		status = StatusSuccess
	}
	return Message{
		ID:             ServerID(m.ID),
		ConversationID: m.ConversationID,
		Role:           Role(m.Role),
		Content:        m.Content,
		Status:         status,
		CreatedAt:      m.CreatedAt,
	}
}
