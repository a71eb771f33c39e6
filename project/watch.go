package project

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/LuckyResistor/3d-model-catalog-generator/manifest"
)

// debounceDelay coalesces the event bursts editors and render
// exporters produce into one rebuild.
const debounceDelay = 500 * time.Millisecond

// Watch builds the project and rebuilds it whenever its source files
// change, until the context is cancelled. Build failures are reported
// and watching continues.
func (b *Builder) Watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("project: starting watcher: %w", err)
	}
	defer watcher.Close()
	if err := b.addWatchDirs(watcher, dir); err != nil {
		return err
	}
	b.log.Info("watching project", zap.String("dir", dir))

	if _, err := b.Build(ctx, dir); err != nil {
		b.log.Error("build failed", zap.Error(err))
	}

	timer := time.NewTimer(debounceDelay)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			b.log.Info("watch stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !b.relevantEvent(dir, event) {
				continue
			}
			b.log.Debug("change detected",
				zap.String("file", event.Name),
				zap.String("op", event.Op.String()))
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						b.log.Warn("cannot watch new directory",
							zap.String("dir", event.Name), zap.Error(err))
					}
				}
			}
			timer.Reset(debounceDelay)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			b.log.Warn("watch error", zap.Error(err))

		case <-timer.C:
			b.log.Info("rebuilding after change")
			if _, err := b.Build(ctx, dir); err != nil {
				b.log.Error("build failed", zap.Error(err))
			}
		}
	}
}

// addWatchDirs registers the project directory and its subdirectories,
// leaving out hidden directories and the intermediate directory.
func (b *Builder) addWatchDirs(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && (strings.HasPrefix(d.Name(), ".") || d.Name() == b.intermediate) {
			return fs.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("project: watching %s: %w", path, err)
		}
		return nil
	})
}

// relevantEvent filters out the changes the build itself causes:
// everything in the intermediate directory, the typeset documents and
// the manifest.
func (b *Builder) relevantEvent(dir string, event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	rel, err := filepath.Rel(dir, event.Name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	first := strings.Split(filepath.ToSlash(rel), "/")[0]
	if first == b.intermediate || strings.HasPrefix(first, ".") {
		return false
	}
	if strings.HasSuffix(rel, ".pdf") || rel == manifest.FileName {
		return false
	}
	return true
}
