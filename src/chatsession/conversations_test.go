package chatsession

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradewind/stockchat/src/chatapi"
)

func conv(id int64, title string) chatapi.Conversation {
	return chatapi.Conversation{ID: id, Title: title}
}

func TestConversationStoreReplaceSelectsFirst(t *testing.T) {
	s := NewConversationStore()

	changed := s.Replace([]chatapi.Conversation{conv(3, "newest"), conv(2, "older"), conv(1, "oldest")})
	assert.True(t, changed)
	assert.Equal(t, int64(3), s.ActiveID())
}

func TestConversationStoreReplaceKeepsActive(t *testing.T) {
	s := NewConversationStore()
	s.Replace([]chatapi.Conversation{conv(3, "newest"), conv(2, "older")})
	require.NoError(t, s.Switch(2))

	changed := s.Replace([]chatapi.Conversation{conv(4, "brand new"), conv(3, "newest"), conv(2, "older")})
	assert.False(t, changed)
	assert.Equal(t, int64(2), s.ActiveID())
}

func TestConversationStoreReplaceActiveGone(t *testing.T) {
	s := NewConversationStore()
	s.Replace([]chatapi.Conversation{conv(3, "newest"), conv(2, "older")})
	require.NoError(t, s.Switch(2))

	changed := s.Replace([]chatapi.Conversation{conv(3, "newest")})
	assert.True(t, changed)
	assert.Equal(t, int64(3), s.ActiveID())
}

func TestConversationStoreReplaceEmpty(t *testing.T) {
	s := NewConversationStore()
	s.Replace([]chatapi.Conversation{conv(1, "only")})

	changed := s.Replace(nil)
	assert.True(t, changed)
	assert.Equal(t, int64(0), s.ActiveID())
	_, ok := s.Active()
	assert.False(t, ok)
}

func TestConversationStorePrepend(t *testing.T) {
	s := NewConversationStore()
	s.Replace([]chatapi.Conversation{conv(1, "existing")})

	s.Prepend(conv(2, "created"))

	conversations := s.Conversations()
	require.Equal(t, 2, len(conversations))
	assert.Equal(t, int64(2), conversations[0].ID)
	assert.Equal(t, int64(2), s.ActiveID())
}

func TestConversationStoreSwitchUnknown(t *testing.T) {
	s := NewConversationStore()
	s.Replace([]chatapi.Conversation{conv(1, "only")})

	err := s.Switch(99)
	assert.Error(t, err)
	assert.Equal(t, int64(1), s.ActiveID())
}

func TestConversationStoreRemoveActive(t *testing.T) {
	s := NewConversationStore()
	s.Replace([]chatapi.Conversation{conv(2, "newest"), conv(1, "oldest")})

	changed := s.Remove(2)
	assert.True(t, changed)
	assert.Equal(t, int64(1), s.ActiveID())
}

func TestConversationStoreRemoveInactive(t *testing.T) {
	s := NewConversationStore()
	s.Replace([]chatapi.Conversation{conv(2, "newest"), conv(1, "oldest")})

	changed := s.Remove(1)
	assert.False(t, changed)
	assert.Equal(t, int64(2), s.ActiveID())
	assert.Equal(t, 1, s.Len())
}

func TestConversationStoreRemoveLast(t *testing.T) {
	s := NewConversationStore()
	s.Replace([]chatapi.Conversation{conv(1, "only")})

	changed := s.Remove(1)
	assert.True(t, changed)
	assert.Equal(t, int64(0), s.ActiveID())
	assert.Equal(t, 0, s.Len())
}

func TestConversationStoreUpdate(t *testing.T) {
	s := NewConversationStore()
	s.Replace([]chatapi.Conversation{conv(1, "old title")})

	s.Update(chatapi.Conversation{ID: 1, Title: "new title", MessageCount: 4})

	got, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, "new title", got.Title)
	assert.Equal(t, 4, got.MessageCount)
}
