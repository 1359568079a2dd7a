package chat

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Frame kinds. A frame with no kind but a conversation id is accepted as a
// chat frame for compatibility with older clients.
const (
	KindChat   = "chat"
	KindJoin   = "join"
	KindLeave  = "leave"
	KindTyping = "typing"
)

// Message type tags.
const (
	TypeText  = "text"
	TypePhoto = "photo"
	TypePoll  = "poll"
)

var (
	ErrUnknownKind    = errors.New("unknown frame kind")
	ErrNoConversation = errors.New("frame has no conversation id")
)

// Frame is the tagged envelope carried on the wire in both directions.
type Frame struct {
	Kind           string `json:"kind,omitempty"`
	ID             string `json:"id,omitempty"`
	SenderID       string `json:"senderId,omitempty"`
	SenderName     string `json:"senderName,omitempty"`
	Content        string `json:"content,omitempty"`
	Timestamp      int64  `json:"timestamp,omitempty"`
	ConversationID string `json:"conversationId,omitempty"`
	Type           string `json:"type,omitempty"`
	PhotoURL       string `json:"photoUrl,omitempty"`
}

// Message is the persisted record and the broadcast payload. CreatedAt is
// assigned by the server; everything else is client-supplied.
type Message struct {
	ID             string    `json:"id" bson:"message_id"`
	SenderID       string    `json:"senderId" bson:"sender_id"`
	SenderName     string    `json:"senderName" bson:"sender_name"`
	Content        string    `json:"content" bson:"content"`
	Timestamp      int64     `json:"timestamp" bson:"timestamp"`
	ConversationID string    `json:"conversationId" bson:"conversation_id"`
	Type           string    `json:"type" bson:"type"`
	PhotoURL       string    `json:"photoUrl,omitempty" bson:"photo_url,omitempty"`
	CreatedAt      time.Time `json:"createdAt" bson:"created_at"`
}

// DecodeFrame parses and validates an inbound frame.
func DecodeFrame(data []byte) (*Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if f.Kind == "" {
		if f.ConversationID == "" {
			return nil, ErrUnknownKind
		}
		f.Kind = KindChat
	}
	switch f.Kind {
	case KindChat, KindJoin, KindLeave, KindTyping:
	default:
		return nil, ErrUnknownKind
	}
	if f.ConversationID == "" {
		return nil, ErrNoConversation
	}
	return &f, nil
}

// ChatMessage builds the persistence record for a chat frame.
func (f *Frame) ChatMessage(now time.Time) *Message {
	typ := f.Type
	if typ == "" {
		typ = TypeText
	}
	return &Message{
		ID:             f.ID,
		SenderID:       f.SenderID,
		SenderName:     f.SenderName,
		Content:        f.Content,
		Timestamp:      f.Timestamp,
		ConversationID: f.ConversationID,
		Type:           typ,
		PhotoURL:       f.PhotoURL,
		CreatedAt:      now,
	}
}

// DirectConversationID builds the deterministic id for a DM pair. Channel
// conversations use the channel id verbatim.
func DirectConversationID(a, b string) string {
	if strings.Compare(a, b) > 0 {
		a, b = b, a
	}
	return a + "_" + b
}
