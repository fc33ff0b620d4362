package chatsession

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/tradewind/stockchat/src/chatapi"
)

// Service is the remote chat backend a Session depends on. *chatapi.Client
// implements it; tests inject fakes.
type Service interface {
	ListConversations(ctx context.Context) ([]chatapi.Conversation, error)
	CreateConversation(ctx context.Context, title string) (*chatapi.Conversation, error)
	GetConversation(ctx context.Context, id int64) (*chatapi.ConversationDetail, error)
	RenameConversation(ctx context.Context, id int64, title string) (*chatapi.Conversation, error)
	DeleteConversation(ctx context.Context, id int64) error
	GetQuota(ctx context.Context) (*chatapi.Quota, error)
	StreamMessage(ctx context.Context, conversationID int64, content string, fn chatapi.StreamHandler) error
}

var _ Service = (*chatapi.Client)(nil)

// Session owns the chat state for one widget: conversations, the active
// timeline, the quota gate, and at most one in-flight streaming exchange.
// Construct one per widget and drop it on teardown; nothing survives a
// reload, the remote service is the source of truth.
//
// All exported methods are safe for concurrent use. Network calls run without
// the session lock held, so accessors never block on the remote service.
type Session struct {
	svc    Service
	logger *slog.Logger

	mu       sync.Mutex
	store    *ConversationStore
	timeline *Timeline
	quota    *QuotaGate

	streaming  bool
	cancel     context.CancelFunc
	streamText strings.Builder
	onChunk    func(delta string)
}

// NewSession creates a session backed by the given service.
func NewSession(svc Service, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		svc:      svc,
		logger:   logger.With("component", "chatsession"),
		store:    NewConversationStore(),
		timeline: NewTimeline(),
		quota:    NewQuotaGate(),
	}
}

// SetChunkListener registers a callback invoked for every assistant text
// fragment while an exchange streams. The callback runs without the session
// lock held and must not call back into the session's mutators.
func (s *Session) SetChunkListener(fn func(delta string)) {
	s.mu.Lock()
	s.onChunk = fn
	s.mu.Unlock()
}

// Refresh fetches the conversation list and quota snapshot, applies the
// default active-conversation selection, and loads the active timeline when
// the selection changed.
func (s *Session) Refresh(ctx context.Context) error {
	conversations, err := s.svc.ListConversations(ctx)
	if err != nil {
		return err
	}
	quota, err := s.svc.GetQuota(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	activeChanged := s.store.Replace(conversations)
	activeID := s.store.ActiveID()
	s.quota.Set(*quota)
	s.mu.Unlock()

	if !activeChanged {
		return nil
	}
	if activeID == 0 {
		s.mu.Lock()
		s.timeline.Clear()
		s.mu.Unlock()
		return nil
	}
	return s.loadTimeline(ctx, activeID)
}

// NewConversation creates a conversation, makes it active, and clears the
// timeline. An empty title lets the server pick a default.
func (s *Session) NewConversation(ctx context.Context, title string) (*chatapi.Conversation, error) {
	conv, err := s.svc.CreateConversation(ctx, title)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.store.Prepend(*conv)
	s.timeline.Clear()
	s.mu.Unlock()

	s.logger.Info("conversation created", "conversation_id", conv.ID)
	return conv, nil
}

// SwitchConversation makes the given conversation active and loads its
// message history.
func (s *Session) SwitchConversation(ctx context.Context, id int64) error {
	s.mu.Lock()
	if s.streaming {
		s.mu.Unlock()
		return ErrSendInFlight
	}
	if err := s.store.Switch(id); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	return s.loadTimeline(ctx, id)
}

// DeleteConversation removes a conversation. When it was active, the first
// remaining conversation takes over (its history is loaded), or the timeline
// is cleared when none remain.
func (s *Session) DeleteConversation(ctx context.Context, id int64) error {
	if err := s.svc.DeleteConversation(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	activeChanged := s.store.Remove(id)
	newActive := s.store.ActiveID()
	if activeChanged && newActive == 0 {
		s.timeline.Clear()
	}
	s.mu.Unlock()

	s.logger.Info("conversation deleted", "conversation_id", id)
	if activeChanged && newActive != 0 {
		return s.loadTimeline(ctx, newActive)
	}
	return nil
}

// RenameConversation updates a conversation title; the server's returned
// representation replaces the local entry.
func (s *Session) RenameConversation(ctx context.Context, id int64, title string) error {
	conv, err := s.svc.RenameConversation(ctx, id, title)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.store.Update(*conv)
	s.mu.Unlock()
	return nil
}

// RefreshQuota re-fetches the quota snapshot.
func (s *Session) RefreshQuota(ctx context.Context) error {
	quota, err := s.svc.GetQuota(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.quota.Set(*quota)
	s.mu.Unlock()
	return nil
}

// loadTimeline fetches a conversation's history and installs it, unless the
// active conversation moved on while the fetch was in flight.
func (s *Session) loadTimeline(ctx context.Context, id int64) error {
	detail, err := s.svc.GetConversation(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load messages: %w", err)
	}

	messages := make([]Message, len(detail.Messages))
	for i, msg := range detail.Messages {
		messages[i] = fromAPI(msg)
	}

	s.mu.Lock()
	if s.store.ActiveID() == id {
		s.timeline.Load(messages)
	}
	s.mu.Unlock()
	return nil
}

// Conversations returns the conversation list, newest first.
func (s *Session) Conversations() []chatapi.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Conversations()
}

// ActiveConversation returns the active conversation, or false when none.
func (s *Session) ActiveConversation() (chatapi.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Active()
}

// Messages returns the active conversation's timeline in order.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeline.Messages()
}

// Quota returns the last-known quota snapshot.
func (s *Session) Quota() chatapi.Quota {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quota.Snapshot()
}

// CanSend reports whether the quota gate currently allows a send.
func (s *Session) CanSend() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quota.CanSend()
}

// IsStreaming reports whether an exchange is in flight.
func (s *Session) IsStreaming() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streaming
}

// StreamingText returns the assistant text accumulated so far in the current
// exchange. The assistant message only joins the timeline on completion, so
// live consumers read this instead.
func (s *Session) StreamingText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streamText.String()
}
