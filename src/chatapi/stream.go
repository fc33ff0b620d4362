package chatapi

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Stream event kinds emitted by the message endpoint.
const (
	eventUserMessage = "user_message"
	eventChunk       = "chunk"
	eventDone        = "done"
	eventError       = "error"
)

// MaxEventSize is the maximum allowed size for a single SSE event (64KB).
const MaxEventSize = 64 * 1024

// StreamHandler is called for each event in a streaming exchange. Returning
// an error aborts the stream and propagates the error to the caller.
type StreamHandler func(event StreamEvent) error

// sseReader parses Server-Sent Events from a stream.
type sseReader struct {
	reader *bufio.Reader
}

func newSSEReader(r io.Reader) *sseReader {
	return &sseReader{reader: bufio.NewReader(r)}
}

// readEvent reads the next SSE event, returning its type and joined data
// lines. Returns io.EOF when the stream ends.
func (s *sseReader) readEvent() (string, []byte, error) {
	var eventType string
	var dataLines [][]byte
	var size int

	for {
		line, err := s.reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				if len(dataLines) > 0 {
					return eventType, bytes.Join(dataLines, []byte("\n")), nil
				}
				return "", nil, io.EOF
			}
			return "", nil, err
		}

		size += len(line)
		if size > MaxEventSize {
			return "", nil, fmt.Errorf("SSE event too large: %d bytes", size)
		}

		line = bytes.TrimRight(line, "\r\n")

		// Empty line signals end of event.
		if len(line) == 0 {
			if len(dataLines) > 0 {
				return eventType, bytes.Join(dataLines, []byte("\n")), nil
			}
			continue
		}

		if bytes.HasPrefix(line, []byte("event:")) {
			eventType = string(bytes.TrimSpace(line[6:]))
		} else if bytes.HasPrefix(line, []byte("data:")) {
			dataLines = append(dataLines, bytes.TrimSpace(line[5:]))
		}
		// Ignore id:, retry:, and comment lines.
	}
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

// StreamMessage posts a user message to a conversation and streams the
// exchange. Every event is delivered to fn in arrival order; the terminal
// event is always last. A server-reported error event is delivered to fn and
// then returned as a *StreamError. A stream that ends without a terminal
// event returns ErrStreamClosed.
func (c *Client) StreamMessage(ctx context.Context, conversationID int64, content string, fn StreamHandler) error {
	body, err := json.Marshal(sendMessageRequest{Content: content})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	path := fmt.Sprintf("/conversations/%d/messages", conversationID)
	req, err := c.newRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.streamClient.Do(req)
	if err != nil {
		// Surface the cancellation itself rather than the transport wrapper.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.handleError(resp)
	}

	c.logger.Debug("stream opened", "conversation_id", conversationID)
	return c.processStream(ctx, resp.Body, fn)
}

// processStream reads and dispatches the SSE stream until a terminal event.
func (c *Client) processStream(ctx context.Context, body io.Reader, fn StreamHandler) error {
	reader := newSSEReader(body)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		eventType, data, err := reader.readEvent()
		if err != nil {
			if err == io.EOF {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return ErrStreamClosed
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("stream read failed: %w", err)
		}

		event, terminal, err := parseStreamEvent(eventType, data)
		if err != nil {
			c.logger.Warn("skipping malformed stream event", "event", eventType, "error", err)
			continue
		}
		if event == nil {
			continue
		}

		if err := fn(event); err != nil {
			return err
		}

		if terminal {
			if errEvent, ok := event.(ErrorEvent); ok {
				return &StreamError{Code: errEvent.Code, Message: errEvent.Message}
			}
			return nil
		}
	}
}

// parseStreamEvent decodes one wire event into the StreamEvent union. Unknown
// event types are skipped so the protocol can grow without breaking clients.
func parseStreamEvent(eventType string, data []byte) (StreamEvent, bool, error) {
	switch eventType {
	case eventUserMessage:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, false, err
		}
		return UserAckEvent{Message: msg}, false, nil

	case eventChunk:
		var payload chunkPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, false, err
		}
		return ChunkEvent{Content: payload.Content}, false, nil

	case eventDone:
		var payload donePayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, false, err
		}
		return DoneEvent{
			UserMessage:      payload.UserMessage,
			AssistantMessage: payload.AssistantMessage,
		}, true, nil

	case eventError:
		var payload errorPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, false, err
		}
		code := payload.Error
		if code == "" {
			code = CodeUnknown
		}
		return ErrorEvent{Code: code, Message: payload.Message}, true, nil

	default:
		return nil, false, nil
	}
}
