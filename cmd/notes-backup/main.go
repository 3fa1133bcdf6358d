// Command notes-backup copies the note collection to MinIO and back.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gogotex/gonotes/internal/backup"
	"github.com/gogotex/gonotes/internal/config"
	"github.com/gogotex/gonotes/internal/database"
	"github.com/gogotex/gonotes/internal/note/repository"
	"github.com/gogotex/gonotes/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRoot().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:          "notes-backup",
		Short:        "Snapshot notes to object storage and restore them",
		SilenceUsage: true,
	}
	root.AddCommand(newTakeCmd(), newRestoreCmd())
	return root
}

func newTakeCmd() *cobra.Command {
	var linkTTL time.Duration
	cmd := &cobra.Command{
		Use:   "take",
		Short: "Upload a JSON snapshot of every note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSnapshotter(cmd.Context(), func(s *backup.Snapshotter) error {
				res, err := s.Take(cmd.Context(), linkTTL)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "key:   %s\nnotes: %d\n", res.Key, res.Count)
				if res.URL != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "link:  %s\n", res.URL)
				}
				return nil
			})
		},
	}
	cmd.Flags().DurationVar(&linkTTL, "link-ttl", 24*time.Hour, "lifetime of the presigned download link (0 disables it)")
	return cmd
}

func newRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <key>",
		Short: "Insert the notes of a snapshot that are missing from the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSnapshotter(cmd.Context(), func(s *backup.Snapshotter) error {
				n, err := s.Restore(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "restored %d notes from %s\n", n, args[0])
				return nil
			})
		},
	}
}

// withSnapshotter opens the configured store and bucket, runs fn and closes
// the store again.
func withSnapshotter(ctx context.Context, fn func(*backup.Snapshotter) error) (err error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Log.Level)

	var store repository.Store
	switch cfg.Store {
	case config.StoreMongo:
		client, cerr := database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, cfg.MongoDB.ConnectAttempts)
		if cerr != nil {
			return fmt.Errorf("connect to MongoDB: %w", cerr)
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), cfg.MongoDB.Timeout)
			defer cancel()
			err = multierr.Append(err, client.Disconnect(dctx))
		}()
		store = repository.NewMongoRepo(client.Database(cfg.MongoDB.Database).Collection(cfg.MongoDB.Collection))
	default:
		logger.Warnf("NOTES_STORE=%s keeps nothing between runs; snapshots will be empty", cfg.Store)
		store = repository.NewMemoryRepo()
	}

	objects, err := backup.NewMinIOStorage(ctx, cfg.MinIO)
	if err != nil {
		return fmt.Errorf("open bucket: %w", err)
	}
	return fn(backup.NewSnapshotter(store, objects))
}
