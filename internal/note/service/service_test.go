package service

import (
	"context"
	"errors"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gogotex/gonotes/internal/note"
	"github.com/gogotex/gonotes/internal/note/repository"
	"github.com/gogotex/gonotes/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func strPtr(s string) *string { return &s }

func validInput() CreateInput {
	return CreateInput{Title: "Trip", Content: "Went hiking", Author: "Alice W"}
}

// failingStore fails every call with err.
type failingStore struct{ err error }

func (f *failingStore) Insert(context.Context, *note.Note) (*note.Note, error) {
	return nil, f.err
}
func (f *failingStore) FindByID(context.Context, string) (*note.Note, error) {
	return nil, f.err
}
func (f *failingStore) FindByOwner(context.Context, string) ([]*note.Note, error) {
	return nil, f.err
}
func (f *failingStore) FindAll(context.Context) ([]*note.Note, error) {
	return nil, f.err
}
func (f *failingStore) UpdateByID(context.Context, string, note.Patch) (*note.Note, error) {
	return nil, f.err
}
func (f *failingStore) DeleteByID(context.Context, string) (*note.Note, error) {
	return nil, f.err
}

// racingStore deletes the note between the ownership check and the write.
type racingStore struct {
	*repository.MemoryRepo
}

func (r *racingStore) UpdateByID(ctx context.Context, id string, p note.Patch) (*note.Note, error) {
	_, _ = r.MemoryRepo.DeleteByID(ctx, id)
	return r.MemoryRepo.UpdateByID(ctx, id, p)
}

func TestCreate_SetsOwnerAndFreshID(t *testing.T) {
	ctx := context.Background()
	svc := New(repository.NewMemoryRepo())

	seen := map[primitive.ObjectID]bool{}
	for i := 0; i < 20; i++ {
		in := CreateInput{
			Title:   gofakeit.LetterN(uint(3 + i%10)),
			Content: gofakeit.LetterN(uint(5 + i)),
			Author:  gofakeit.LetterN(uint(5 + i%3)),
		}
		n, err := svc.Create(ctx, "alice", in)
		require.NoError(t, err)
		require.Equal(t, "alice", n.Owner)
		require.False(t, n.ID.IsZero())
		require.False(t, seen[n.ID], "id reused")
		seen[n.ID] = true
		require.False(t, n.CreatedAt.IsZero())
	}
}

func TestCreate_RoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := New(repository.NewMemoryRepo())

	created, err := svc.Create(ctx, "alice", validInput())
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, created, got)
}

func TestCreate_ValidationListsAllFields(t *testing.T) {
	ctx := context.Background()
	svc := New(repository.NewMemoryRepo())

	_, err := svc.Create(ctx, "alice", CreateInput{Title: "ab", Content: "Went hiking", Author: "Alice W"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	require.Equal(t, "title", verr.Fields[0].Field)
	require.Equal(t, "ab", verr.Fields[0].Value)
	require.Equal(t, "Enter a valid title", verr.Fields[0].Msg)

	_, err = svc.Create(ctx, "alice", CreateInput{})
	require.ErrorAs(t, err, &verr)
	require.True(t, verr.Has("title"))
	require.True(t, verr.Has("content"))
	require.True(t, verr.Has("author"))
	require.Contains(t, verr.Error(), "title")

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Empty(t, all, "rejected input must not be stored")
}

func TestCreate_CountsCharactersNotBytes(t *testing.T) {
	svc := New(repository.NewMemoryRepo())
	_, err := svc.Create(context.Background(), "alice", CreateInput{Title: "日本語", Content: "ノートです", Author: "作者さんです"})
	require.NoError(t, err)
}

func TestCreate_Unauthenticated(t *testing.T) {
	svc := New(repository.NewMemoryRepo())
	_, err := svc.Create(context.Background(), "", validInput())
	require.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.ListMine(context.Background(), "")
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestListMine_OnlyCallerNotes(t *testing.T) {
	ctx := context.Background()
	svc := New(repository.NewMemoryRepo())
	_, err := svc.Create(ctx, "alice", validInput())
	require.NoError(t, err)
	_, err = svc.Create(ctx, "bob", CreateInput{Title: "Bobs", Content: "bob content", Author: "Bob B."})
	require.NoError(t, err)

	mine, err := svc.ListMine(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "alice", mine[0].Owner)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestUpdate_EmptyPatchLeavesNoteUnchanged(t *testing.T) {
	ctx := context.Background()
	svc := New(repository.NewMemoryRepo())
	created, err := svc.Create(ctx, "alice", validInput())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "alice", created.ID.Hex(), note.Patch{})
	require.NoError(t, err)
	require.Equal(t, created, updated)

	// empty strings are treated as absent
	updated, err = svc.Update(ctx, "alice", created.ID.Hex(), note.Patch{Title: strPtr(""), Content: strPtr("")})
	require.NoError(t, err)
	require.Equal(t, created, updated)
}

func TestUpdate_PartialNoRevalidation(t *testing.T) {
	ctx := context.Background()
	svc := New(repository.NewMemoryRepo())
	created, err := svc.Create(ctx, "alice", validInput())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "alice", created.ID.Hex(), note.Patch{Title: strPtr("H")})
	require.NoError(t, err)
	require.Equal(t, "H", updated.Title)
	require.Equal(t, created.Content, updated.Content)
	require.Equal(t, created.Author, updated.Author)
	require.Equal(t, created.Owner, updated.Owner)
}

func TestUpdateDelete_NonOwnerForbidden(t *testing.T) {
	ctx := context.Background()
	svc := New(repository.NewMemoryRepo())
	created, err := svc.Create(ctx, "alice", validInput())
	require.NoError(t, err)

	_, err = svc.Update(ctx, "bob", created.ID.Hex(), note.Patch{Title: strPtr("Hack")})
	require.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Delete(ctx, "bob", created.ID.Hex())
	require.ErrorIs(t, err, ErrForbidden)

	got, err := svc.Get(ctx, created.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, created, got)
}

func TestUpdateDelete_NotFoundBeforeForbidden(t *testing.T) {
	ctx := context.Background()
	svc := New(repository.NewMemoryRepo())
	_, err := svc.Create(ctx, "alice", validInput())
	require.NoError(t, err)

	missing := primitive.NewObjectID().Hex()
	for _, caller := range []string{"alice", "bob", gofakeit.UUID()} {
		_, err = svc.Update(ctx, caller, missing, note.Patch{Title: strPtr("Hike")})
		require.ErrorIs(t, err, ErrNotFound)
		_, err = svc.Delete(ctx, caller, missing)
		require.ErrorIs(t, err, ErrNotFound)
	}
	_, err = svc.Get(ctx, missing)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_ReturnsDeletedNote(t *testing.T) {
	ctx := context.Background()
	svc := New(repository.NewMemoryRepo())
	created, err := svc.Create(ctx, "alice", validInput())
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, "alice", created.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, created, deleted)

	_, err = svc.Get(ctx, created.ID.Hex())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate_ConcurrentDeleteSurfacesNotFound(t *testing.T) {
	ctx := context.Background()
	store := &racingStore{MemoryRepo: repository.NewMemoryRepo()}
	svc := New(store)
	created, err := svc.Create(ctx, "alice", validInput())
	require.NoError(t, err)

	_, err = svc.Update(ctx, "alice", created.ID.Hex(), note.Patch{Title: strPtr("Hike")})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStorageFailures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection reset")
	svc := New(&failingStore{err: boom})

	var serr *StorageError
	_, err := svc.ListAll(ctx)
	require.ErrorAs(t, err, &serr)
	require.ErrorIs(t, err, boom)

	_, err = svc.ListMine(ctx, "alice")
	require.ErrorAs(t, err, &serr)

	_, err = svc.Create(ctx, "alice", validInput())
	require.ErrorAs(t, err, &serr)
	require.Equal(t, "insert", serr.Op)

	_, err = svc.Get(ctx, primitive.NewObjectID().Hex())
	require.ErrorAs(t, err, &serr)
}

func TestMalformedIDIsStorageError(t *testing.T) {
	svc := New(repository.NewMemoryRepo())
	_, err := svc.Get(context.Background(), "not-an-object-id")
	var serr *StorageError
	require.ErrorAs(t, err, &serr)
	require.ErrorIs(t, err, repository.ErrInvalidID)
}

func TestOperationMetrics(t *testing.T) {
	ctx := context.Background()
	svc := New(repository.NewMemoryRepo())
	before := testutil.ToFloat64(metrics.NoteOperations.WithLabelValues("create", "invalid"))

	_, err := svc.Create(ctx, "alice", CreateInput{Title: "ab"})
	require.Error(t, err)

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.NoteOperations.WithLabelValues("create", "invalid")))
}
