package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gogotex/gonotes/internal/note"
	"github.com/gogotex/gonotes/internal/note/repository"
	"github.com/gogotex/gonotes/pkg/logger"
	"github.com/oklog/ulid/v2"
)

const keyPrefix = "notes/"

// ObjectStore is the subset of object storage a Snapshotter needs.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// Snapshot is the document written for every backup run.
type Snapshot struct {
	TakenAt time.Time    `json:"takenAt"`
	Count   int          `json:"count"`
	Notes   []*note.Note `json:"notes"`
}

// Result describes an uploaded snapshot.
type Result struct {
	Key   string
	Count int
	URL   string
}

// Snapshotter copies the whole note collection to object storage and back.
type Snapshotter struct {
	store   repository.Store
	objects ObjectStore
	now     func() time.Time
}

func NewSnapshotter(store repository.Store, objects ObjectStore) *Snapshotter {
	return &Snapshotter{store: store, objects: objects, now: time.Now}
}

// Take uploads a JSON snapshot of every note and returns a download link valid
// for linkTTL. A zero linkTTL skips the link.
func (s *Snapshotter) Take(ctx context.Context, linkTTL time.Duration) (*Result, error) {
	notes, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read notes: %w", err)
	}
	taken := s.now().UTC()
	body, err := json.Marshal(Snapshot{TakenAt: taken, Count: len(notes), Notes: notes})
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	key := keyPrefix + taken.Format("20060102T150405Z") + "-" + ulid.Make().String() + ".json"
	if err := s.objects.Upload(ctx, key, bytes.NewReader(body), int64(len(body)), "application/json"); err != nil {
		return nil, fmt.Errorf("upload %s: %w", key, err)
	}
	logger.Infof("snapshot %s: %d notes, %d bytes", key, len(notes), len(body))

	res := &Result{Key: key, Count: len(notes)}
	if linkTTL > 0 {
		if res.URL, err = s.objects.PresignedURL(ctx, key, linkTTL); err != nil {
			return res, fmt.Errorf("presign %s: %w", key, err)
		}
	}
	return res, nil
}

// ErrNoteWithoutID is returned by Restore for a snapshot holding a note
// without an id. Such a note cannot be matched against the store.
var ErrNoteWithoutID = errors.New("snapshot note has no id")

// Restore inserts every note of the snapshot at key that is missing from the
// store. Notes that still exist are left as they are and null entries are
// skipped. A snapshot with a note lacking an id is rejected before anything
// is written. It returns the number of notes inserted.
func (s *Snapshotter) Restore(ctx context.Context, key string) (int, error) {
	rc, err := s.objects.Download(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("download %s: %w", key, err)
	}
	defer rc.Close()

	var snap Snapshot
	if err := json.NewDecoder(rc).Decode(&snap); err != nil {
		return 0, fmt.Errorf("decode %s: %w", key, err)
	}

	notes := make([]*note.Note, 0, len(snap.Notes))
	for i, n := range snap.Notes {
		switch {
		case n == nil:
			logger.Warnf("restore %s: skipping null entry %d", key, i)
		case n.ID.IsZero():
			return 0, fmt.Errorf("restore %s: entry %d: %w", key, i, ErrNoteWithoutID)
		default:
			notes = append(notes, n)
		}
	}

	restored := 0
	for _, n := range notes {
		_, err := s.store.FindByID(ctx, n.ID.Hex())
		switch {
		case err == nil:
			continue
		case !errors.Is(err, repository.ErrNotFound):
			return restored, fmt.Errorf("look up %s: %w", n.ID.Hex(), err)
		}
		if _, err := s.store.Insert(ctx, n); err != nil {
			return restored, fmt.Errorf("insert %s: %w", n.ID.Hex(), err)
		}
		restored++
	}
	logger.Infof("restore %s: %d of %d notes inserted", key, restored, len(notes))
	return restored, nil
}
