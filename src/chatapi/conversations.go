package chatapi

import (
	"context"
	"fmt"
	"net/http"
)

type createConversationRequest struct {
	Title string `json:"title,omitempty"`
}

type renameConversationRequest struct {
	Title string `json:"title"`
}

// CreateConversation creates a new conversation on the server.
func (c *Client) CreateConversation(ctx context.Context, title string) (*Conversation, error) {
	var conv Conversation
	err := c.doJSON(ctx, http.MethodPost, "/conversations", createConversationRequest{Title: title}, &conv)
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}

	c.logger.Debug("conversation created", "conversation_id", conv.ID)
	return &conv, nil
}

// ListConversations fetches all conversation summaries for the current user.
func (c *Client) ListConversations(ctx context.Context) ([]Conversation, error) {
	var conversations []Conversation
	err := c.doJSON(ctx, http.MethodGet, "/conversations", nil, &conversations)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return conversations, nil
}

// GetConversation fetches a conversation with its full message history.
func (c *Client) GetConversation(ctx context.Context, id int64) (*ConversationDetail, error) {
	var detail ConversationDetail
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/conversations/%d", id), nil, &detail)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation %d: %w", id, err)
	}
	return &detail, nil
}

// RenameConversation updates a conversation's title and returns the server's
// representation, which may normalize the title.
func (c *Client) RenameConversation(ctx context.Context, id int64, title string) (*Conversation, error) {
	var conv Conversation
	err := c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/conversations/%d", id), renameConversationRequest{Title: title}, &conv)
	if err != nil {
		return nil, fmt.Errorf("failed to rename conversation %d: %w", id, err)
	}
	return &conv, nil
}

// DeleteConversation removes a conversation and its messages.
func (c *Client) DeleteConversation(ctx context.Context, id int64) error {
	if err := c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/conversations/%d", id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete conversation %d: %w", id, err)
	}

	c.logger.Debug("conversation deleted", "conversation_id", id)
	return nil
}
