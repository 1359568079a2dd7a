package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/concord-im/concord-relay/internal/chat"
)

const messagesCollection = "messages"

// Dial connects and pings the document store.
func Dial(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "connect mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(err, "ping mongo")
	}
	return client, nil
}

// MessageStore keeps chat messages in a single collection keyed by
// (conversation_id, message_id), the flat rendering of the source's
// conversations/{id}/messages/{id} document path.
type MessageStore struct {
	coll *mongo.Collection
}

func NewMessageStore(db *mongo.Database) *MessageStore {
	return &MessageStore{coll: db.Collection(messagesCollection)}
}

// EnsureIndexes creates the compound key index. Idempotent.
func (s *MessageStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "conversation_id", Value: 1},
			{Key: "message_id", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return errors.Wrap(err, "ensure message indexes")
}

// Save upserts one message. A resend of the same (conversation, id) pair
// replaces the record rather than duplicating it.
func (s *MessageStore) Save(ctx context.Context, msg *chat.Message) error {
	filter := bson.M{"conversation_id": msg.ConversationID, "message_id": msg.ID}
	_, err := s.coll.ReplaceOne(ctx, filter, msg, options.Replace().SetUpsert(true))
	return errors.Wrap(err, "save message")
}

// clampLimit keeps history page sizes sane; out-of-range values fall back to
// the default page.
func clampLimit(limit int64) int64 {
	if limit <= 0 || limit > 200 {
		return 50
	}
	return limit
}

// History returns up to limit messages of a conversation, oldest first.
func (s *MessageStore) History(ctx context.Context, conversationID string, limit int64) ([]*chat.Message, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(clampLimit(limit))
	cur, err := s.coll.Find(ctx, bson.M{"conversation_id": conversationID}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find messages")
	}
	var out []*chat.Message
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode messages")
	}
	return out, nil
}
