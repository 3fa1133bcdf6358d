package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gogotex/gonotes/internal/note"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func strPtr(s string) *string { return &s }

func TestMemoryRepoCRUD(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	n, err := r.Insert(ctx, &note.Note{Owner: "alice", Title: "Trip", Content: "Went hiking", Author: "Alice W"})
	require.NoError(t, err)
	require.False(t, n.ID.IsZero())
	require.False(t, n.CreatedAt.IsZero())

	got, err := r.FindByID(ctx, n.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, n, got)

	list, err := r.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	updated, err := r.UpdateByID(ctx, n.ID.Hex(), note.Patch{Title: strPtr("Hike")})
	require.NoError(t, err)
	require.Equal(t, "Hike", updated.Title)
	require.Equal(t, "Went hiking", updated.Content)

	deleted, err := r.DeleteByID(ctx, n.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, "Hike", deleted.Title)

	_, err = r.FindByID(ctx, n.ID.Hex())
	require.ErrorIs(t, err, ErrNotFound)
	_, err = r.DeleteByID(ctx, n.ID.Hex())
	require.ErrorIs(t, err, ErrNotFound)
	_, err = r.UpdateByID(ctx, n.ID.Hex(), note.Patch{})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepo_FindByOwnerKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	var aliceIDs []primitive.ObjectID
	for i := 0; i < 5; i++ {
		owner := "bob"
		if i%2 == 0 {
			owner = "alice"
		}
		n, err := r.Insert(ctx, &note.Note{
			Owner:   owner,
			Title:   gofakeit.BookTitle(),
			Content: gofakeit.Sentence(6),
			Author:  gofakeit.Name(),
		})
		require.NoError(t, err)
		if owner == "alice" {
			aliceIDs = append(aliceIDs, n.ID)
		}
	}

	mine, err := r.FindByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, mine, len(aliceIDs))
	for i, n := range mine {
		require.Equal(t, aliceIDs[i], n.ID)
		require.Equal(t, "alice", n.Owner)
	}

	none, err := r.FindByOwner(ctx, "carol")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestMemoryRepo_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	n, err := r.Insert(ctx, &note.Note{Owner: "alice", Title: "Trip"})
	require.NoError(t, err)

	n.Title = "mutated"
	got, err := r.FindByID(ctx, n.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, "Trip", got.Title)
}

func TestMemoryRepo_MalformedID(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	_, err := r.FindByID(ctx, "not-an-id")
	require.True(t, errors.Is(err, ErrInvalidID))
	_, err = r.UpdateByID(ctx, "zz", note.Patch{})
	require.ErrorIs(t, err, ErrInvalidID)
	_, err = r.DeleteByID(ctx, "")
	require.ErrorIs(t, err, ErrInvalidID)
}

func TestMemoryRepo_ConcurrentInserts(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Insert(ctx, &note.Note{Owner: "alice", Title: "t"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := r.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 50)
	seen := map[primitive.ObjectID]bool{}
	for _, n := range all {
		require.False(t, seen[n.ID], "duplicate id %s", n.ID.Hex())
		seen[n.ID] = true
	}
}
