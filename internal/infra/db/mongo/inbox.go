package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Inbox deduplicates consumed messages per consumer with a unique index.
type Inbox struct {
	col      *mongo.Collection
	consumer string
}

func NewInbox(db *mongo.Database, consumer string) *Inbox {
	col := db.Collection("rentcal_inbox")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "event_id", Value: 1}, {Key: "consumer", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return &Inbox{col: col, consumer: consumer}
}

func (i *Inbox) Seen(ctx context.Context, eventID string) (bool, error) {
	doc := bson.M{"event_id": eventID, "consumer": i.consumer, "received_at": time.Now().UTC()}
	_, err := i.col.InsertOne(ctx, doc)
	if err == nil {
		return false, nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return true, nil
	}
	return false, err
}

func (i *Inbox) Forget(ctx context.Context, eventID string) error {
	_, err := i.col.DeleteOne(ctx, bson.M{"event_id": eventID, "consumer": i.consumer})
	return err
}
