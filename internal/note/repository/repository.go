package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogotex/gonotes/internal/note"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = errors.New("note not found")
	ErrInvalidID = errors.New("malformed note id")
)

var (
	_ Store = (*MemoryRepo)(nil)
	_ Store = (*MongoRepo)(nil)
)

// Store is durable keyed storage of notes with lookup by id and by owner.
// Every single call is atomic; callers get no cross-call transactions.
type Store interface {
	// Insert assigns an id and creation time when absent and persists the note.
	Insert(ctx context.Context, n *note.Note) (*note.Note, error)
	FindByID(ctx context.Context, id string) (*note.Note, error)
	FindByOwner(ctx context.Context, owner string) ([]*note.Note, error)
	FindAll(ctx context.Context) ([]*note.Note, error)
	// UpdateByID merges only the set fields of p and returns the updated note.
	UpdateByID(ctx context.Context, id string, p note.Patch) (*note.Note, error)
	// DeleteByID removes the note and returns it as it was before removal.
	DeleteByID(ctx context.Context, id string) (*note.Note, error)
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return oid, nil
}
