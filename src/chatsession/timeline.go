package chatsession

import (
	"time"
)

// Timeline holds the ordered messages of the active conversation, including
// optimistic entries awaiting server confirmation. It enforces that no two
// entries share an id. Not safe for concurrent use; the owning Session
// serializes access.
type Timeline struct {
	entries []Message
}

// NewTimeline creates an empty timeline.
func NewTimeline() *Timeline {
	return &Timeline{}
}

// Load replaces the timeline with fetched history. A fetched message still
// marked pending belongs to an interrupted prior session, not a live
// exchange, so it is normalized to success.
func (t *Timeline) Load(messages []Message) {
	entries := make([]Message, len(messages))
	for i, msg := range messages {
		if msg.Status == StatusPending {
			msg.Status = StatusSuccess
		}
		entries[i] = msg
	}
	t.entries = entries
}

// Clear empties the timeline.
func (t *Timeline) Clear() {
	t.entries = nil
}

// Messages returns a copy of the timeline in insertion order.
func (t *Timeline) Messages() []Message {
	out := make([]Message, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries.
func (t *Timeline) Len() int {
	return len(t.entries)
}

// AppendOptimisticUser appends a pending user entry under a locally minted id.
func (t *Timeline) AppendOptimisticUser(tempID MessageID, conversationID int64, content string) {
	t.entries = append(t.entries, Message{
		ID:             tempID,
		ConversationID: conversationID,
		Role:           RoleUser,
		Content:        content,
		Status:         StatusPending,
		CreatedAt:      time.Now(),
	})
}

// ReconcileUser swaps the optimistic entry identified by tempID for the
// server's authoritative copy. If no entry carries tempID the server copy is
// appended instead, so an ack that outran the optimistic insert still lands.
func (t *Timeline) ReconcileUser(tempID MessageID, serverMsg Message) {
	if i := t.indexOf(tempID); i >= 0 {
		t.entries[i] = serverMsg
		return
	}
	if t.indexOf(serverMsg.ID) < 0 {
		t.entries = append(t.entries, serverMsg)
	}
}

// CompleteExchange folds the authoritative final copies of an exchange into
// the timeline: the user entry is updated in place when present and appended
// otherwise, then the assistant entry is appended. Existing ids are never
// duplicated.
func (t *Timeline) CompleteExchange(userMsg, assistantMsg Message) {
	if i := t.indexOf(userMsg.ID); i >= 0 {
		t.entries[i] = userMsg
	} else {
		t.entries = append(t.entries, userMsg)
	}

	if i := t.indexOf(assistantMsg.ID); i >= 0 {
		t.entries[i] = assistantMsg
	} else {
		t.entries = append(t.entries, assistantMsg)
	}
}

// DiscardOptimistic removes the entry with tempID after a failed or cancelled
// exchange. Any other user entry still pending is forced to success so a
// stale spinner cannot outlive the exchange that spawned it.
func (t *Timeline) DiscardOptimistic(tempID MessageID) {
	kept := t.entries[:0]
	for _, msg := range t.entries {
		if msg.ID.Equal(tempID) {
			continue
		}
		if msg.Status == StatusPending && msg.Role == RoleUser {
			msg.Status = StatusSuccess
		}
		kept = append(kept, msg)
	}
	t.entries = kept
}

func (t *Timeline) indexOf(id MessageID) int {
	for i, msg := range t.entries {
		if msg.ID.Equal(id) {
			return i
		}
	}
	return -1
}
