package knowledge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// LoadFile reads and decodes a knowledge base file
func LoadFile(path, format string) (*Base, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge base: %w", err)
	}
	if format == "" {
		format = FormatFromPath(path)
	}
	return Decode(data, format)
}

// Watch reloads the knowledge base file at path whenever it is written or
// replaced and passes each new snapshot to onChange. A file that fails to
// decode is logged and skipped, so the caller keeps its previous snapshot.
// Watch blocks until ctx is done.
func Watch(ctx context.Context, path, format string, logger *zap.Logger, onChange func(*Base)) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory: editors often replace the file instead of writing it
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(absPath), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != absPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			base, err := LoadFile(absPath, format)
			if err != nil {
				logger.Warn("knowledge base reload failed, keeping previous snapshot",
					zap.String("path", absPath), zap.Error(err))
				continue
			}

			logger.Info("knowledge base reloaded",
				zap.String("path", absPath), zap.Int("entries", base.Len()))
			onChange(base)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("knowledge base watcher error", zap.Error(err))
		}
	}
}
