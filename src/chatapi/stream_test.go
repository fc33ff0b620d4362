package chatapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{
		BaseURL:    server.URL,
		Token:      "test-token",
		RetryCount: 1,
		RetryDelay: time.Millisecond,
		Logger:     testLogger(),
	})
}

func writeSSE(t *testing.T, w http.ResponseWriter, event, data string) {
	t.Helper()
	_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	require.NoError(t, err)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func TestStreamMessageSuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/conversations/7/messages", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"content":"how is AAPL doing?"}`, string(body))

		w.Header().Set("Content-Type", "text/event-stream")
		writeSSE(t, w, "user_message", `{"id":101,"conversation_id":7,"role":"user","content":"how is AAPL doing?","status":"success"}`)
		writeSSE(t, w, "chunk", `{"content":"AAPL is "}`)
		writeSSE(t, w, "chunk", `{"content":"up 2% today."}`)
		writeSSE(t, w, "done", `{"user_message":{"id":101,"conversation_id":7,"role":"user","content":"how is AAPL doing?","status":"success"},"assistant_message":{"id":102,"conversation_id":7,"role":"assistant","content":"AAPL is up 2% today.","status":"success"}}`)
	})

	var events []StreamEvent
	err := client.StreamMessage(context.Background(), 7, "how is AAPL doing?", func(event StreamEvent) error {
		events = append(events, event)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 4, len(events))

	ack, ok := events[0].(UserAckEvent)
	require.True(t, ok)
	assert.Equal(t, int64(101), ack.Message.ID)

	var text strings.Builder
	for _, event := range events[1:3] {
		chunk, ok := event.(ChunkEvent)
		require.True(t, ok)
		text.WriteString(chunk.Content)
	}
	assert.Equal(t, "AAPL is up 2% today.", text.String())

	done, ok := events[3].(DoneEvent)
	require.True(t, ok)
	assert.Equal(t, int64(102), done.AssistantMessage.ID)
	assert.Equal(t, "AAPL is up 2% today.", done.AssistantMessage.Content)
}

func TestStreamMessageErrorEvent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		writeSSE(t, w, "error", `{"error":"quota_exceeded","message":"no sends remaining"}`)
	})

	var events []StreamEvent
	err := client.StreamMessage(context.Background(), 1, "question", func(event StreamEvent) error {
		events = append(events, event)
		return nil
	})

	// The error event reaches the handler before the call fails.
	require.Equal(t, 1, len(events))
	errEvent, ok := events[0].(ErrorEvent)
	require.True(t, ok)
	assert.Equal(t, CodeQuotaExceeded, errEvent.Code)

	var streamErr *StreamError
	require.ErrorAs(t, err, &streamErr)
	assert.True(t, streamErr.IsQuota())
	assert.ErrorIs(t, err, ErrQuotaExceeded)
}

func TestStreamMessageTruncatedStream(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		writeSSE(t, w, "chunk", `{"content":"partial"}`)
	})

	err := client.StreamMessage(context.Background(), 1, "question", func(StreamEvent) error {
		return nil
	})
	assert.ErrorIs(t, err, ErrStreamClosed)
}

func TestStreamMessageSkipsMalformedAndUnknownEvents(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		writeSSE(t, w, "chunk", `{not json`)
		writeSSE(t, w, "heartbeat", `{}`)
		writeSSE(t, w, "chunk", `{"content":"kept"}`)
		writeSSE(t, w, "done", `{"user_message":{"id":1},"assistant_message":{"id":2}}`)
	})

	var chunks []string
	err := client.StreamMessage(context.Background(), 1, "question", func(event StreamEvent) error {
		if chunk, ok := event.(ChunkEvent); ok {
			chunks = append(chunks, chunk.Content)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"kept"}, chunks)
}

func TestStreamMessageHTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"code":"quota_exceeded","message":"no sends remaining"}}`)
	})

	err := client.StreamMessage(context.Background(), 1, "question", func(StreamEvent) error {
		t.Fatal("no events expected")
		return nil
	})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsQuota())
	assert.ErrorIs(t, err, ErrQuotaExceeded)
}

func TestStreamMessageCancelled(t *testing.T) {
	started := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		writeSSE(t, w, "chunk", `{"content":"thinking"}`)
		close(started)
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	err := client.StreamMessage(ctx, 1, "question", func(StreamEvent) error {
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStreamMessageHandlerAborts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		writeSSE(t, w, "chunk", `{"content":"a"}`)
		writeSSE(t, w, "chunk", `{"content":"b"}`)
	})

	wantErr := errors.New("consumer gave up")
	err := client.StreamMessage(context.Background(), 1, "question", func(StreamEvent) error {
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}

func TestSSEReader(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantType string
		wantData string
	}{
		{
			name:     "simple event",
			input:    "event: chunk\ndata: {\"content\":\"hi\"}\n\n",
			wantType: "chunk",
			wantData: `{"content":"hi"}`,
		},
		{
			name:     "crlf line endings",
			input:    "event: chunk\r\ndata: hello\r\n\r\n",
			wantType: "chunk",
			wantData: "hello",
		},
		{
			name:     "multiple data lines joined",
			input:    "event: chunk\ndata: line one\ndata: line two\n\n",
			wantType: "chunk",
			wantData: "line one\nline two",
		},
		{
			name:     "comments and ids ignored",
			input:    ": keepalive\nid: 42\nevent: done\ndata: {}\n\n",
			wantType: "done",
			wantData: "{}",
		},
		{
			name:     "eof flushes pending event",
			input:    "event: chunk\ndata: tail\n",
			wantType: "chunk",
			wantData: "tail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := newSSEReader(strings.NewReader(tt.input))
			eventType, data, err := reader.readEvent()
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, eventType)
			assert.Equal(t, tt.wantData, string(data))
		})
	}
}

func TestSSEReaderEOF(t *testing.T) {
	reader := newSSEReader(strings.NewReader(""))
	_, _, err := reader.readEvent()
	assert.ErrorIs(t, err, io.EOF)
}

func TestSSEReaderOversizedEvent(t *testing.T) {
	input := "event: chunk\ndata: " + strings.Repeat("x", MaxEventSize+1) + "\n\n"
	reader := newSSEReader(strings.NewReader(input))
	_, _, err := reader.readEvent()
	assert.Error(t, err)
}
