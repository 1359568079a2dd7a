package chat

import "sync"

// Subscriptions owns the conversation<->connection association. All mutation
// goes through its lock, so the relay stays safe off a single event loop.
type Subscriptions struct {
	mu             sync.RWMutex
	byConversation map[string]map[string]*Client // conversationId -> clientId -> client
	byClient       map[string]map[string]bool    // clientId -> set(conversationId)
}

func NewSubscriptions() *Subscriptions {
	return &Subscriptions{
		byConversation: map[string]map[string]*Client{},
		byClient:       map[string]map[string]bool{},
	}
}

func (s *Subscriptions) Join(c *Client, conversationID string) {
	if conversationID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.byConversation[conversationID]
	if m == nil {
		m = map[string]*Client{}
		s.byConversation[conversationID] = m
	}
	m[c.Id] = c

	set := s.byClient[c.Id]
	if set == nil {
		set = map[string]bool{}
		s.byClient[c.Id] = set
	}
	set[conversationID] = true
}

func (s *Subscriptions) Leave(c *Client, conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaveLocked(c.Id, conversationID)
}

// DropAll removes the client from every conversation it joined. Empty
// conversation entries are deleted.
func (s *Subscriptions) DropAll(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conversationID := range s.byClient[c.Id] {
		s.leaveLocked(c.Id, conversationID)
	}
	delete(s.byClient, c.Id)
}

func (s *Subscriptions) leaveLocked(clientID, conversationID string) {
	if m := s.byConversation[conversationID]; m != nil {
		delete(m, clientID)
		if len(m) == 0 {
			delete(s.byConversation, conversationID)
		}
	}
	if set := s.byClient[clientID]; set != nil {
		delete(set, conversationID)
		if len(set) == 0 {
			delete(s.byClient, clientID)
		}
	}
}

// Members returns a snapshot of the clients subscribed to a conversation.
func (s *Subscriptions) Members(conversationID string) []*Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m := s.byConversation[conversationID]
	if len(m) == 0 {
		return nil
	}
	out := make([]*Client, 0, len(m))
	for _, c := range m {
		out = append(out, c)
	}
	return out
}

func (s *Subscriptions) IsMember(clientID, conversationID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byClient[clientID][conversationID]
}

func (s *Subscriptions) Conversations(clientID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := s.byClient[clientID]
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}
