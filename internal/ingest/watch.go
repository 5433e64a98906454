package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ramonehamilton/precon-stats/internal/decklist"
)

// Watch re-ingests decklists in dir whenever one is created or written, and
// drops the deck of a decklist that is removed or renamed away. It blocks
// until ctx is cancelled. Every handled event gets its own run ID.
func (i *Ingester) Watch(ctx context.Context, dir string) (err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch decklist directory: %w", err)
	}

	i.logger.Info("watching decklists", zap.String("dir", dir))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isDecklistEvent(event) {
				continue
			}

			report := &Report{RunID: uuid.New().String()}
			log := i.logger.With(zap.String("run_id", report.RunID))
			if err := i.handleEvent(ctx, log, event, report); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				log.Error("decklist update failed", zap.String("path", event.Name), zap.Error(err))
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			i.logger.Warn("file watcher error", zap.Error(werr))
		}
	}
}

func (i *Ingester) handleEvent(ctx context.Context, log *zap.Logger, event fsnotify.Event, report *Report) error {
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		deck := decklist.DeckName(event.Name)
		if err := i.store.DeleteDeck(ctx, deck); err != nil {
			return err
		}
		log.Info("removed deck", zap.String("deck", deck))
		return nil
	}
	return i.ingestDeckFile(ctx, log, event.Name, report)
}

func isDecklistEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(event.Name)
	return strings.HasSuffix(base, decklist.Ext) && !strings.HasPrefix(base, ".")
}
