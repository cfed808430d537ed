package internal

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	tt "github.com/gnolang/totality/internal/types"
	"go.uber.org/zap"
)

// settle is how long a package must stay unchanged before it is linted again,
// so that a burst of writes triggers a single run.
const settle = 100 * time.Millisecond

// ReportFunc receives the issues of a package directory after a change.
type ReportFunc func(dir string, issues []tt.Issue)

// Watch lints the package of every Go file written under dirs until ctx is
// done. Packages whose files are unchanged since their last run are not
// reported again.
func (e *Engine) Watch(ctx context.Context, dirs []string, report ReportFunc) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if path != dir && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		})
		if err != nil {
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]*time.Timer)
		wg      sync.WaitGroup
		cache   = NewCache()
	)
	defer wg.Wait()

	schedule := func(dir string) {
		mu.Lock()
		defer mu.Unlock()
		if t, ok := pending[dir]; ok {
			if !t.Reset(settle) {
				// already fired; the reset schedules one more run
				wg.Add(1)
			}
			return
		}
		wg.Add(1)
		pending[dir] = time.AfterFunc(settle, func() {
			defer wg.Done()
			mu.Lock()
			delete(pending, dir)
			mu.Unlock()

			if ctx.Err() != nil {
				return
			}
			if _, ok := cache.Get(dir); ok {
				e.logger.Debug("Package unchanged", zap.String("dir", dir))
				return
			}
			issues, err := e.Run(dir)
			if err != nil {
				cache.Invalidate(dir)
				e.logger.Error("Error linting changed package", zap.String("dir", dir), zap.Error(err))
				return
			}
			if err := cache.Set(dir, issues); err != nil {
				e.logger.Warn("Error caching issues", zap.String("dir", dir), zap.Error(err))
			}
			report(dir, issues)
		})
	}

	for {
		select {
		case <-ctx.Done():
			mu.Lock()
			for dir, t := range pending {
				if t.Stop() {
					wg.Done()
				}
				delete(pending, dir)
			}
			mu.Unlock()
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if isGoSourceEvent(event) {
				e.logger.Debug("Source changed", zap.String("file", event.Name))
				schedule(filepath.Dir(event.Name))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.logger.Error("Watcher error", zap.Error(err))
		}
	}
}

func isGoSourceEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	return strings.HasSuffix(event.Name, ".go")
}

// skipDir reports whether a directory never holds packages worth linting.
func skipDir(name string) bool {
	return name == "vendor" || name == "testdata" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}
