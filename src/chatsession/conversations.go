package chatsession

import (
	"fmt"

	"github.com/tradewind/stockchat/src/chatapi"
)

// ConversationStore holds the user's conversations and tracks which one is
// active. It is pure in-memory state: the Session performs the remote calls
// and applies mutations only after they succeed, so a failed remote operation
// leaves the store untouched. Not safe for concurrent use; the owning Session
// serializes access.
type ConversationStore struct {
	conversations []chatapi.Conversation
	activeID      int64 // 0 means none
}

// NewConversationStore creates an empty store.
func NewConversationStore() *ConversationStore {
	return &ConversationStore{}
}

// Replace swaps in a freshly listed conversation set. The active conversation
// is kept when still present; otherwise the first conversation becomes active
// (deterministic default selection), or none when the set is empty. Returns
// true if the active id changed.
func (s *ConversationStore) Replace(conversations []chatapi.Conversation) bool {
	s.conversations = make([]chatapi.Conversation, len(conversations))
	copy(s.conversations, conversations)

	previous := s.activeID
	if s.activeID != 0 && s.indexOf(s.activeID) < 0 {
		s.activeID = 0
	}
	if s.activeID == 0 && len(s.conversations) > 0 {
		s.activeID = s.conversations[0].ID
	}
	return s.activeID != previous
}

// Prepend inserts a newly created conversation at the head (newest-first
// ordering) and makes it active.
func (s *ConversationStore) Prepend(conv chatapi.Conversation) {
	s.conversations = append([]chatapi.Conversation{conv}, s.conversations...)
	s.activeID = conv.ID
}

// Switch makes the given conversation active. The id must reference a
// conversation currently present.
func (s *ConversationStore) Switch(id int64) error {
	if s.indexOf(id) < 0 {
		return fmt.Errorf("conversation %d not found", id)
	}
	s.activeID = id
	return nil
}

// Remove deletes a conversation from the store. When the removed conversation
// was active, the first remaining one becomes active, or none remain active.
// Returns true if the active id changed.
func (s *ConversationStore) Remove(id int64) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.conversations = append(s.conversations[:i], s.conversations[i+1:]...)

	if s.activeID != id {
		return false
	}
	if len(s.conversations) > 0 {
		s.activeID = s.conversations[0].ID
	} else {
		s.activeID = 0
	}
	return true
}

// Update replaces the stored entry with the server's representation, so any
// server-side normalization is reflected locally.
func (s *ConversationStore) Update(conv chatapi.Conversation) {
	if i := s.indexOf(conv.ID); i >= 0 {
		s.conversations[i] = conv
	}
}

// Conversations returns a copy of the conversation list, newest first.
func (s *ConversationStore) Conversations() []chatapi.Conversation {
	out := make([]chatapi.Conversation, len(s.conversations))
	copy(out, s.conversations)
	return out
}

// Active returns the active conversation, or false when none is active.
func (s *ConversationStore) Active() (chatapi.Conversation, bool) {
	if s.activeID == 0 {
		return chatapi.Conversation{}, false
	}
	i := s.indexOf(s.activeID)
	if i < 0 {
		return chatapi.Conversation{}, false
	}
	return s.conversations[i], true
}

// ActiveID returns the active conversation id, or 0 when none is active.
func (s *ConversationStore) ActiveID() int64 {
	return s.activeID
}

// Get looks up a conversation by id.
func (s *ConversationStore) Get(id int64) (chatapi.Conversation, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.conversations[i], true
	}
	return chatapi.Conversation{}, false
}

// Len returns the number of conversations.
func (s *ConversationStore) Len() int {
	return len(s.conversations)
}

func (s *ConversationStore) indexOf(id int64) int {
	for i, conv := range s.conversations {
		if conv.ID == id {
			return i
		}
	}
	return -1
}
