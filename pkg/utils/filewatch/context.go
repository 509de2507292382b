package filewatch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// ErrModified is the cause of contexts cancelled by a modification of watched paths.
var ErrModified = errors.New("watched file is modified")

// ModifiedError tells which path is modified and how.
type ModifiedError struct {
	Path string
	Op   fsnotify.Op
}

func (e *ModifiedError) Error() string {
	return fmt.Sprintf("%s is modified (%s)", e.Path, e.Op)
}

func (e *ModifiedError) Unwrap() error {
	return ErrModified
}

// UntilModifyContext returns a context that is canceled
// when one of target paths is modified (= written, created, removed, or renamed).
// Changes of permission are ignored.
//
// # Args
//
// - ctx: context.Context
//
// - targets ...string: paths to be watched.
// A directory is watched with its entries.
// A file is watched via its parent directory, so replacing the file (as editors do) is noticed.
//
// # Returns
//
// - context.Context: context that is canceled when one of targets is modified.
// Its context.Cause is a *ModifiedError.
//
// - func(): cancel function.
//
// - error: error caused when it fails to start watching.
//
// If error is not nil, both of the context and the cancel function are nil.
func UntilModifyContext(ctx context.Context, targets ...string) (context.Context, func(), error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}

	// watched directory -> names of files to be noticed. nil means any entry.
	interests := map[string]map[string]struct{}{}
	for _, t := range targets {
		abs, err := filepath.Abs(t)
		if err != nil {
			w.Close()
			return nil, nil, err
		}
		stat, err := os.Stat(abs)
		if err != nil {
			w.Close()
			return nil, nil, err
		}

		if stat.IsDir() {
			interests[abs] = nil
			continue
		}

		dir, name := filepath.Split(abs)
		dir = filepath.Clean(dir)
		names, seen := interests[dir]
		if seen && names == nil {
			continue // whole directory is watched already
		}
		if names == nil {
			names = map[string]struct{}{}
			interests[dir] = names
		}
		names[name] = struct{}{}
	}

	for dir := range interests {
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, nil, err
		}
	}

	cctx, cancel := context.WithCancelCause(ctx)
	go func() {
		defer w.Close()

		for {
			select {
			case <-cctx.Done():
				return
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				cancel(fmt.Errorf("%w: watcher stopped: %w", ErrModified, err))
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if event.Op == fsnotify.Chmod {
					continue
				}
				if !interested(interests, event.Name) {
					continue
				}
				cancel(&ModifiedError{Path: event.Name, Op: event.Op})
				return
			}
		}
	}()

	return cctx, func() { cancel(nil) }, nil
}

func interested(interests map[string]map[string]struct{}, path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	if names, ok := interests[abs]; ok && names == nil {
		return true // the watched directory itself
	}

	dir, name := filepath.Split(abs)
	names, ok := interests[filepath.Clean(dir)]
	if !ok {
		return false
	}
	if names == nil {
		return true
	}
	_, ok = names[name]
	return ok
}
