package chatsession

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serverMessage(id int64, role Role, content string) Message {
	return Message{
		ID:             ServerID(id),
		ConversationID: 1,
		Role:           role,
		Content:        content,
		Status:         StatusSuccess,
		CreatedAt:      time.Now(),
	}
}

func TestTimelineAppendAndReconcile(t *testing.T) {
	tl := NewTimeline()
	tempID := NewLocalID()

	tl.AppendOptimisticUser(tempID, 1, "how is AAPL doing?")
	require.Equal(t, 1, tl.Len())
	assert.Equal(t, StatusPending, tl.Messages()[0].Status)
	assert.True(t, tl.Messages()[0].ID.IsLocal())

	tl.ReconcileUser(tempID, serverMessage(101, RoleUser, "how is AAPL doing?"))

	// Still exactly one user entry, now under the server id.
	msgs := tl.Messages()
	require.Equal(t, 1, len(msgs))
	assert.True(t, msgs[0].ID.Equal(ServerID(101)))
	assert.Equal(t, StatusSuccess, msgs[0].Status)
}

func TestTimelineReconcileWithoutOptimisticEntry(t *testing.T) {
	tl := NewTimeline()
	tempID := NewLocalID()

	serverMsg := serverMessage(101, RoleUser, "hello")
	tl.ReconcileUser(tempID, serverMsg)
	require.Equal(t, 1, tl.Len())

	// A repeated ack must not duplicate the entry.
	tl.ReconcileUser(tempID, serverMsg)
	assert.Equal(t, 1, tl.Len())
}

func TestTimelineCompleteExchange(t *testing.T) {
	tl := NewTimeline()
	tempID := NewLocalID()

	tl.AppendOptimisticUser(tempID, 1, "summarize today's market")
	userMsg := serverMessage(201, RoleUser, "summarize today's market")
	tl.ReconcileUser(tempID, userMsg)

	assistantMsg := serverMessage(202, RoleAssistant, "Markets closed mixed.")
	tl.CompleteExchange(userMsg, assistantMsg)

	msgs := tl.Messages()
	require.Equal(t, 2, len(msgs))
	assert.True(t, msgs[0].ID.Equal(ServerID(201)))
	assert.True(t, msgs[1].ID.Equal(ServerID(202)))
	assert.Equal(t, RoleAssistant, msgs[1].Role)

	// Replaying the terminal event must not duplicate either side.
	tl.CompleteExchange(userMsg, assistantMsg)
	assert.Equal(t, 2, tl.Len())
}

func TestTimelineCompleteExchangeWithoutAck(t *testing.T) {
	tl := NewTimeline()
	tempID := NewLocalID()
	tl.AppendOptimisticUser(tempID, 1, "hello")

	// The ack never arrived; the caller reconciles off the final copy first.
	userMsg := serverMessage(301, RoleUser, "hello")
	tl.ReconcileUser(tempID, userMsg)
	tl.CompleteExchange(userMsg, serverMessage(302, RoleAssistant, "hi"))

	msgs := tl.Messages()
	require.Equal(t, 2, len(msgs))
	for _, msg := range msgs {
		assert.False(t, msg.ID.IsLocal())
		assert.Equal(t, StatusSuccess, msg.Status)
	}
}

func TestTimelineDiscardOptimistic(t *testing.T) {
	tl := NewTimeline()
	tl.Load([]Message{
		serverMessage(101, RoleUser, "earlier question"),
		serverMessage(102, RoleAssistant, "earlier answer"),
	})

	tempID := NewLocalID()
	tl.AppendOptimisticUser(tempID, 1, "failed question")
	tl.DiscardOptimistic(tempID)

	// The timeline reads as if the send never happened.
	msgs := tl.Messages()
	require.Equal(t, 2, len(msgs))
	for _, msg := range msgs {
		assert.False(t, msg.ID.IsLocal())
		assert.NotEqual(t, StatusPending, msg.Status)
	}
}

func TestTimelineDiscardNormalizesStalePending(t *testing.T) {
	tl := NewTimeline()
	staleID := NewLocalID()
	tempID := NewLocalID()
	tl.AppendOptimisticUser(staleID, 1, "stale entry")
	tl.AppendOptimisticUser(tempID, 1, "current entry")

	tl.DiscardOptimistic(tempID)

	msgs := tl.Messages()
	require.Equal(t, 1, len(msgs))
	assert.Equal(t, StatusSuccess, msgs[0].Status)
}

func TestTimelineLoadNormalizesPending(t *testing.T) {
	tl := NewTimeline()

	interrupted := serverMessage(401, RoleUser, "question from a dead session")
	interrupted.Status = StatusPending
	tl.Load([]Message{interrupted})

	require.Equal(t, 1, tl.Len())
	assert.Equal(t, StatusSuccess, tl.Messages()[0].Status)
}
