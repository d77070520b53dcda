package config

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"

	"github.com/vizorhq/vizor-core/pkg/logger"
)

// LexiconWatcher watches the configured lexicon file and invokes a callback
// whenever it changes, so keyword tables reload without a restart.
type LexiconWatcher struct {
	path     string
	logger   logger.Logger
	onChange func(path string)
	stopCh   chan struct{}
}

func NewLexiconWatcher(path string, log logger.Logger, onChange func(path string)) *LexiconWatcher {
	return &LexiconWatcher{
		path:     path,
		logger:   log,
		onChange: onChange,
		stopCh:   make(chan struct{}),
	}
}

// Start blocks watching for file changes until the context is cancelled or
// Stop is called. Callers run it on its own goroutine.
func (w *LexiconWatcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.path); err != nil {
		return fmt.Errorf("failed to watch lexicon file: %w", err)
	}

	w.logger.Info("Lexicon watcher started", "path", w.path)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.logger.Info("Lexicon file changed, reloading", "file", event.Name)
				w.onChange(w.path)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Lexicon watcher error", "error", err)

		case <-ctx.Done():
			w.logger.Info("Lexicon watcher stopping")
			return nil

		case <-w.stopCh:
			w.logger.Info("Lexicon watcher stopped")
			return nil
		}
	}
}

func (w *LexiconWatcher) Stop() {
	close(w.stopCh)
}
