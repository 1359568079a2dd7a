package chat

import (
	"context"
	"encoding/json"
	"time"

	"github.com/concord-im/concord-relay/pkg/logger"
)

// MessageStore persists chat messages. The relay only ever writes; reads go
// through the HTTP API.
type MessageStore interface {
	Save(ctx context.Context, msg *Message) error
}

// Presence tracks user online state. Best-effort: errors are logged and never
// affect the relay path.
type Presence interface {
	Online(ctx context.Context, user string) error
	Touch(ctx context.Context, user string) error
	Offline(ctx context.Context, user string) error
}

const storeTimeout = 5 * time.Second

// RelayManager bridges transient client sockets and the persistent message
// log. Inbound frames are handled on the owning connection's read goroutine,
// so frames from one socket stay in order while sockets interleave freely.
//
// Failure policy: everything is logged and swallowed. A failed persistence
// write suppresses the broadcast; nothing is ever reported back to the
// sender over the socket, and nothing takes the process down.
type RelayManager struct {
	subs     *Subscriptions
	store    MessageStore
	presence Presence // nil when presence is disabled

	now func() time.Time
}

func NewRelayManager(store MessageStore, presence Presence) *RelayManager {
	return &RelayManager{
		subs:     NewSubscriptions(),
		store:    store,
		presence: presence,
		now:      time.Now,
	}
}

func (m *RelayManager) Subscriptions() *Subscriptions { return m.subs }

func (m *RelayManager) Register(c *Client) {
	logger.Infof("[relay] connect conn=%s user=%s", c.Id, c.User)
	if m.presence != nil && c.User != "" {
		if err := m.presence.Online(context.Background(), c.User); err != nil {
			logger.Warnf("[relay] presence online user=%s err=%v", c.User, err)
		}
	}
}

func (m *RelayManager) Unregister(c *Client) {
	m.subs.DropAll(c)
	c.close()
	if m.presence != nil && c.User != "" {
		if err := m.presence.Offline(context.Background(), c.User); err != nil {
			logger.Warnf("[relay] presence offline user=%s err=%v", c.User, err)
		}
	}
	logger.Infof("[relay] disconnect conn=%s user=%s", c.Id, c.User)
}

// HandleInbound parses one frame and dispatches it. Malformed frames are
// logged and dropped; the connection stays open.
func (m *RelayManager) HandleInbound(c *Client, data []byte) {
	f, err := DecodeFrame(data)
	if err != nil {
		sample := data
		if len(sample) > 256 {
			sample = sample[:256]
		}
		logger.Warnf("[relay] bad frame conn=%s err=%v sample=%q", c.Id, err, sample)
		return
	}

	switch f.Kind {
	case KindJoin:
		m.subs.Join(c, f.ConversationID)
	case KindLeave:
		m.subs.Leave(c, f.ConversationID)
	case KindTyping:
		m.handleTyping(c, f)
	case KindChat:
		m.handleChat(c, f)
	}

	if m.presence != nil && c.User != "" {
		if err := m.presence.Touch(context.Background(), c.User); err != nil {
			logger.Warnf("[relay] presence touch user=%s err=%v", c.User, err)
		}
	}
}

// handleChat persists the message and, only on success, fans it out to every
// open connection subscribed to the conversation (sender included).
func (m *RelayManager) handleChat(c *Client, f *Frame) {
	msg := f.ChatMessage(m.now().UTC())

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := m.store.Save(ctx, msg); err != nil {
		logger.Errorf("[relay] persist conversation=%s id=%s err=%v", msg.ConversationID, msg.ID, err)
		return
	}

	// Sending into a conversation joins the sender to it.
	m.subs.Join(c, msg.ConversationID)

	data, err := json.Marshal(msg)
	if err != nil {
		logger.Errorf("[relay] marshal id=%s err=%v", msg.ID, err)
		return
	}
	for _, member := range m.subs.Members(msg.ConversationID) {
		if !member.Enqueue(data) {
			logger.Debug("[relay] dropped frame for closed or slow conn")
		}
	}
}

// handleTyping fans a typing frame out to the conversation without touching
// the store. The sender is skipped.
func (m *RelayManager) handleTyping(c *Client, f *Frame) {
	data, err := json.Marshal(f)
	if err != nil {
		logger.Errorf("[relay] marshal typing err=%v", err)
		return
	}
	for _, member := range m.subs.Members(f.ConversationID) {
		if member.Id == c.Id {
			continue
		}
		member.Enqueue(data)
	}
}
