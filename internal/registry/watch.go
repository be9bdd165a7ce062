package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"studypal/internal/modelstore"
)

// DefaultDebounce batches the events of a single multi-blob write.
const DefaultDebounce = 500 * time.Millisecond

// BlobLocator maps watched file paths back to blob names. The file store
// implements it.
type BlobLocator interface {
	Dir() string
	NameOf(path string) (string, bool)
}

// Watch reloads the snapshot whenever a model blob under loc changes, for
// example after another process retrains. A reload that fails is logged and
// the current snapshot kept. Watch blocks until ctx is done.
func (r *Registry) Watch(ctx context.Context, loc BlobLocator, debounce time.Duration) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(loc.Dir()); err != nil {
		return fmt.Errorf("watch %s: %w", loc.Dir(), err)
	}
	r.logger.Info("watching model directory", zap.String("dir", loc.Dir()))

	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isBlobEvent(event, loc) {
				continue
			}
			if !pending {
				timer.Reset(debounce)
				pending = true
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("watch error", zap.Error(err))
		case <-timer.C:
			pending = false
			if err := r.Load(ctx); err != nil {
				r.logger.Error("reload failed, keeping current models", zap.Error(err))
			}
		}
	}
}

func isBlobEvent(event fsnotify.Event, loc BlobLocator) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	name, ok := loc.NameOf(event.Name)
	if !ok {
		return false
	}
	return name == modelstore.ClassifierBlob || name == modelstore.ClustererBlob
}
