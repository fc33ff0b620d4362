package chatsession

import (
	"context"
	"strings"

	"github.com/tradewind/stockchat/src/chatapi"
)

// SendMessage runs one streaming exchange: quota pre-flight, lazy
// conversation creation, optimistic user entry, event folding, and cleanup.
// Empty text (after trimming) is a no-op. A quota rejection, whether
// pre-flight or server-side, satisfies errors.Is(err, ErrQuotaExceeded); no
// network call is made when the pre-flight check fails. At most one exchange
// may be in flight; a second send returns ErrSendInFlight.
//
// Whatever happens, the timeline is never left with a dangling optimistic
// entry: on failure or cancellation it reads as if the send never started.
func (s *Session) SendMessage(ctx context.Context, text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	s.mu.Lock()
	if s.streaming {
		s.mu.Unlock()
		return ErrSendInFlight
	}
	if !s.quota.CanSend() {
		s.mu.Unlock()
		return &SendError{Kind: SendKindQuota, Err: ErrQuotaExceeded}
	}

	ctx, cancel := context.WithCancel(ctx)
	tempID := NewLocalID()
	s.streaming = true
	s.cancel = cancel
	s.streamText.Reset()
	s.mu.Unlock()

	err := s.runExchange(ctx, tempID, trimmed)

	s.mu.Lock()
	s.streaming = false
	s.cancel = nil
	s.streamText.Reset()
	s.mu.Unlock()
	cancel()

	return err
}

// CancelStreaming aborts the in-flight exchange, if any. The timeline ends up
// as if the send never happened; chunks already received are discarded. Safe
// to call from any goroutine, including when nothing is streaming.
func (s *Session) CancelStreaming() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (s *Session) runExchange(ctx context.Context, tempID MessageID, text string) error {
	// Lazy creation: a conversation-less session gets one on first send, and
	// the send targets it. Nothing optimistic exists yet, so a creation
	// failure needs no cleanup.
	s.mu.Lock()
	conv, ok := s.store.Active()
	s.mu.Unlock()

	conversationID := conv.ID
	if !ok {
		created, err := s.NewConversation(ctx, "")
		if err != nil {
			return classifySendError(err)
		}
		conversationID = created.ID
	}

	s.mu.Lock()
	s.timeline.AppendOptimisticUser(tempID, conversationID, text)
	s.mu.Unlock()

	// ackedID tracks the server id the optimistic entry was reconciled to, so
	// a rollback can remove the entry under either id.
	var ackedID MessageID
	streamErr := s.svc.StreamMessage(ctx, conversationID, text, func(event chatapi.StreamEvent) error {
		switch ev := event.(type) {
		case chatapi.UserAckEvent:
			s.mu.Lock()
			s.timeline.ReconcileUser(tempID, fromAPI(ev.Message))
			ackedID = ServerID(ev.Message.ID)
			s.mu.Unlock()

		case chatapi.ChunkEvent:
			s.mu.Lock()
			s.streamText.WriteString(ev.Content)
			onChunk := s.onChunk
			s.mu.Unlock()
			if onChunk != nil {
				onChunk(ev.Content)
			}

		case chatapi.DoneEvent:
			userMsg := fromAPI(ev.UserMessage)
			s.mu.Lock()
			if ackedID.IsZero() {
				// The ack never arrived; reconcile off the final copy so the
				// optimistic entry cannot linger.
				s.timeline.ReconcileUser(tempID, userMsg)
				ackedID = userMsg.ID
			}
			s.timeline.CompleteExchange(userMsg, fromAPI(ev.AssistantMessage))
			s.streamText.Reset()
			s.quota.RecordSuccess()
			s.mu.Unlock()

		case chatapi.ErrorEvent:
			// Terminal; StreamMessage returns the matching *StreamError and
			// cleanup happens below.
			s.logger.Debug("stream error event", "code", ev.Code, "message", ev.Message)
		}
		return nil
	})

	if streamErr != nil {
		s.mu.Lock()
		s.timeline.DiscardOptimistic(tempID)
		if !ackedID.IsZero() {
			s.timeline.DiscardOptimistic(ackedID)
		}
		s.streamText.Reset()
		s.mu.Unlock()

		sendErr := classifySendError(streamErr)
		if sendErr.Kind != SendKindCancelled {
			s.logger.Warn("send failed", "conversation_id", conversationID, "kind", sendErr.Kind.String(), "error", streamErr)
		}
		return sendErr
	}

	// Message counts changed server-side; refresh the summaries. The send
	// already succeeded, so a listing failure only logs.
	if conversations, err := s.svc.ListConversations(ctx); err != nil {
		s.logger.Warn("failed to refresh conversation summaries", "error", err)
	} else {
		s.mu.Lock()
		s.store.Replace(conversations)
		s.mu.Unlock()
	}

	return nil
}
