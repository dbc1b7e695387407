package fs

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/VarunSharma3520/autocomplete/internal/logger"
)

// watchDebounce coalesces the burst of events editors emit on save.
const watchDebounce = 75 * time.Millisecond

// WatchCandidates signals refreshCh whenever the candidates file at path is
// written, created or replaced. The parent directory is watched so that
// editors which save through rename are still noticed. Signals are dropped
// while a previous one is still unread. The watcher stops when ctx is done.
func WatchCandidates(ctx context.Context, path string, refreshCh chan<- struct{}, log *logger.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	target := filepath.Clean(path)
	go func() {
		defer w.Close()

		timer := time.NewTimer(watchDebounce)
		if !timer.Stop() {
			<-timer.C
		}
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				log.Debug("candidates file changed", map[string]interface{}{"path": ev.Name, "op": ev.Op.String()})
				timer.Reset(watchDebounce)

			case <-timer.C:
				select {
				case refreshCh <- struct{}{}:
				default:
				}

			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Error("candidates watcher error", err, nil)
			}
		}
	}()
	return nil
}
