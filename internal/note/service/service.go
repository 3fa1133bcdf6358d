package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gogotex/gonotes/internal/note"
	"github.com/gogotex/gonotes/internal/note/repository"
	"github.com/gogotex/gonotes/pkg/metrics"
)

// Service implements the note operations on top of a Store. Mutations are
// guarded in two steps: the note must exist, then the caller must own it.
// The guard and the write are separate store calls, so a concurrent delete
// between them surfaces as ErrNotFound; no locking is attempted.
type Service struct {
	store    repository.Store
	validate *validator.Validate
}

func New(store repository.Store) *Service {
	return &Service{store: store, validate: newValidator()}
}

// ListMine returns the notes owned by owner.
func (s *Service) ListMine(ctx context.Context, owner string) (out []*note.Note, err error) {
	defer func() { record("list_mine", err) }()
	if owner == "" {
		return nil, ErrUnauthenticated
	}
	notes, err := s.store.FindByOwner(ctx, owner)
	if err != nil {
		return nil, &StorageError{Op: "find by owner", Err: err}
	}
	return notes, nil
}

// ListAll returns every note regardless of owner.
func (s *Service) ListAll(ctx context.Context) (out []*note.Note, err error) {
	defer func() { record("list_all", err) }()
	notes, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, &StorageError{Op: "find all", Err: err}
	}
	return notes, nil
}

// Create validates in and stores a new note owned by owner.
func (s *Service) Create(ctx context.Context, owner string, in CreateInput) (out *note.Note, err error) {
	defer func() { record("create", err) }()
	if owner == "" {
		return nil, ErrUnauthenticated
	}
	if err := s.validateCreate(in); err != nil {
		return nil, err
	}
	n, err := s.store.Insert(ctx, &note.Note{
		Owner:   owner,
		Title:   in.Title,
		Content: in.Content,
		Author:  in.Author,
	})
	if err != nil {
		return nil, &StorageError{Op: "insert", Err: err}
	}
	return n, nil
}

// Get returns a single note by id.
func (s *Service) Get(ctx context.Context, id string) (out *note.Note, err error) {
	defer func() { record("get", err) }()
	return s.find(ctx, id)
}

// Update applies the non-empty fields of p to a note owned by owner. Fields
// are stored as given; length rules apply only at creation.
func (s *Service) Update(ctx context.Context, owner, id string, p note.Patch) (out *note.Note, err error) {
	defer func() { record("update", err) }()
	if err := s.authorize(ctx, owner, id); err != nil {
		return nil, err
	}
	n, err := s.store.UpdateByID(ctx, id, compact(p))
	if err != nil {
		return nil, classify("update", err)
	}
	return n, nil
}

// Delete removes a note owned by owner and returns it as it was.
func (s *Service) Delete(ctx context.Context, owner, id string) (out *note.Note, err error) {
	defer func() { record("delete", err) }()
	if err := s.authorize(ctx, owner, id); err != nil {
		return nil, err
	}
	n, err := s.store.DeleteByID(ctx, id)
	if err != nil {
		return nil, classify("delete", err)
	}
	return n, nil
}

// authorize checks existence first so an unknown id is never reported as forbidden.
func (s *Service) authorize(ctx context.Context, owner, id string) error {
	if owner == "" {
		return ErrUnauthenticated
	}
	n, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if n.Owner != owner {
		return ErrForbidden
	}
	return nil
}

func (s *Service) find(ctx context.Context, id string) (*note.Note, error) {
	n, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, classify("find by id", err)
	}
	return n, nil
}

func classify(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return &StorageError{Op: op, Err: err}
}

// compact drops empty strings: an empty field counts as absent.
func compact(p note.Patch) note.Patch {
	keep := func(v *string) *string {
		if v == nil || *v == "" {
			return nil
		}
		return v
	}
	return note.Patch{Title: keep(p.Title), Content: keep(p.Content), Author: keep(p.Author)}
}

func record(op string, err error) {
	metrics.NoteOperations.WithLabelValues(op, outcome(err)).Inc()
}

func outcome(err error) string {
	var verr *ValidationError
	var serr *StorageError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &verr):
		return "invalid"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	case errors.As(err, &serr):
		return "storage_error"
	}
	return "error"
}
