package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/zeebo/xxh3"

	"github.com/hlop3z/oraddl/internal/alerr"
	"github.com/hlop3z/oraddl/internal/plan"
)

// watchDebounce collapses the burst of events an editor save produces.
const watchDebounce = 200 * time.Millisecond

// fingerprints maps each plan file to the xxh3 hash of its content.
type fingerprints map[string]uint64

// fingerprint hashes the plan files under paths. Unreadable files are left
// out so a half-written file shows up as a change once it is complete.
func fingerprint(paths []string) fingerprints {
	files, err := plan.Discover(paths)
	if err != nil {
		return fingerprints{}
	}
	out := make(fingerprints, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			continue
		}
		out[f] = xxh3.Hash(data)
	}
	return out
}

// equal reports whether both sets name the same files with the same content.
func (f fingerprints) equal(other fingerprints) bool {
	if len(f) != len(other) {
		return false
	}
	for path, h := range f {
		if oh, ok := other[path]; !ok || oh != h {
			return false
		}
	}
	return true
}

// watchPlans calls regenerate once and again after every change to the plan
// files under paths, until ctx is done. Events that leave every file's
// content unchanged are ignored.
func watchPlans(ctx context.Context, paths []string, regenerate func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return alerr.Wrap(alerr.EInternalError, err, "file watcher failed")
	}
	defer watcher.Close()

	for _, p := range paths {
		dir := p
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			dir = filepath.Dir(p)
		}
		if err := watcher.Add(dir); err != nil {
			return alerr.Wrap(alerr.ErrPlanInvalid, err, "cannot watch plan path").
				WithFile(p, 0)
		}
	}

	last := fingerprint(paths)
	regenerate()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			current := fingerprint(paths)
			if current.equal(last) {
				slog.Debug("plan files unchanged")
				continue
			}
			last = current
			regenerate()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("file watcher error", "error", err)
		}
	}
}
