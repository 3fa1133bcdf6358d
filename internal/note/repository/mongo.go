package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gogotex/gonotes/internal/note"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements Store on a MongoDB collection. Documents keep the
// legacy "posts" layout: ObjectID _id, owner under "user" and the creation
// time under "date". Owners that are ObjectID hex strings are stored as
// ObjectIDs, the way the legacy service wrote them.
type MongoRepo struct {
	col *mongo.Collection
	now func() time.Time
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col, now: time.Now}
}

// EnsureIndexes creates the owner index used by FindByOwner. Idempotent.
func (m *MongoRepo) EnsureIndexes(ctx context.Context) error {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "user", Value: 1}}, Options: options.Index().SetName("user_1")}
	if _, err := m.col.Indexes().CreateOne(ctx, idx); err != nil {
		return fmt.Errorf("create owner index: %w", err)
	}
	return nil
}

func (m *MongoRepo) Insert(ctx context.Context, n *note.Note) (*note.Note, error) {
	stored := *n
	if stored.ID.IsZero() {
		stored.ID = primitive.NewObjectID()
	}
	if stored.CreatedAt.IsZero() {
		// BSON dates carry millisecond precision; truncate so the returned
		// record equals what a later read decodes.
		stored.CreatedAt = m.now().UTC().Truncate(time.Millisecond)
	}
	doc := bson.D{
		{Key: "_id", Value: stored.ID},
		{Key: "user", Value: ownerValue(stored.Owner)},
		{Key: "title", Value: stored.Title},
		{Key: "content", Value: stored.Content},
		{Key: "author", Value: stored.Author},
		{Key: "date", Value: stored.CreatedAt},
	}
	if _, err := m.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}
	return &stored, nil
}

func (m *MongoRepo) FindByID(ctx context.Context, id string) (*note.Note, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var n note.Note
	if err := m.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&n); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find note %s: %w", id, err)
	}
	return &n, nil
}

func (m *MongoRepo) FindByOwner(ctx context.Context, owner string) ([]*note.Note, error) {
	if oid, err := primitive.ObjectIDFromHex(owner); err == nil {
		// older documents may hold either form
		return m.find(ctx, bson.M{"user": bson.M{"$in": bson.A{owner, oid}}})
	}
	return m.find(ctx, bson.M{"user": owner})
}

func ownerValue(owner string) interface{} {
	if oid, err := primitive.ObjectIDFromHex(owner); err == nil {
		return oid
	}
	return owner
}

func (m *MongoRepo) FindAll(ctx context.Context) ([]*note.Note, error) {
	return m.find(ctx, bson.M{})
}

func (m *MongoRepo) find(ctx context.Context, filter bson.M) ([]*note.Note, error) {
	cur, err := m.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find notes: %w", err)
	}
	defer cur.Close(ctx)
	out := []*note.Note{}
	for cur.Next(ctx) {
		var n note.Note
		if err := cur.Decode(&n); err != nil {
			return nil, fmt.Errorf("decode note: %w", err)
		}
		out = append(out, &n)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}
	return out, nil
}

func (m *MongoRepo) UpdateByID(ctx context.Context, id string, p note.Patch) (*note.Note, error) {
	if p.IsEmpty() {
		// an empty $set is rejected by the server
		return m.FindByID(ctx, id)
	}
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	set := bson.M{}
	for k, v := range p.Fields() {
		set[k] = v
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var n note.Note
	if err := m.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&n); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update note %s: %w", id, err)
	}
	return &n, nil
}

func (m *MongoRepo) DeleteByID(ctx context.Context, id string) (*note.Note, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var n note.Note
	if err := m.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&n); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("delete note %s: %w", id, err)
	}
	return &n, nil
}
