package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinLeaveMembership(t *testing.T) {
	s := NewSubscriptions()
	a := newTestClient("a")
	b := newTestClient("b")

	s.Join(a, "u1_u2")
	s.Join(b, "u1_u2")
	s.Join(a, "channel-9")

	assert.Len(t, s.Members("u1_u2"), 2)
	assert.True(t, s.IsMember("a", "channel-9"))
	assert.ElementsMatch(t, []string{"u1_u2", "channel-9"}, s.Conversations("a"))

	s.Leave(a, "u1_u2")
	assert.False(t, s.IsMember("a", "u1_u2"))
	assert.Len(t, s.Members("u1_u2"), 1)
}

func TestJoinIsIdempotent(t *testing.T) {
	s := NewSubscriptions()
	a := newTestClient("a")
	s.Join(a, "room")
	s.Join(a, "room")
	assert.Len(t, s.Members("room"), 1)
}

func TestEmptyConversationEntriesAreRemoved(t *testing.T) {
	s := NewSubscriptions()
	a := newTestClient("a")
	s.Join(a, "room")
	s.Leave(a, "room")

	assert.Nil(t, s.Members("room"))
	assert.Empty(t, s.Conversations("a"))
}

func TestDropAllClearsEveryConversation(t *testing.T) {
	s := NewSubscriptions()
	a := newTestClient("a")
	b := newTestClient("b")
	s.Join(a, "one")
	s.Join(a, "two")
	s.Join(b, "one")

	s.DropAll(a)

	assert.Empty(t, s.Conversations("a"))
	assert.False(t, s.IsMember("a", "one"))
	assert.Len(t, s.Members("one"), 1)
	assert.Nil(t, s.Members("two"))
}

func TestJoinIgnoresEmptyConversationID(t *testing.T) {
	s := NewSubscriptions()
	a := newTestClient("a")
	s.Join(a, "")
	assert.Empty(t, s.Conversations("a"))
}
