package filewatch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mindgarden/consultation/pkg/utils/filewatch"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("initial"), 0644); err != nil {
		t.Fatal(err)
	}
}

// waitDone reports whether ctx is done within d.
func waitDone(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return true
	case <-time.After(d):
		return false
	}
}

func TestUntilModifyContext(t *testing.T) {
	type when struct {
		// watched path, relative to the temporary directory. "" is the directory itself.
		watch string

		// operation done after watching starts
		modify func(t *testing.T, dir string)
	}

	type then struct {
		cancelled bool
	}

	theory := func(when when, then then) func(*testing.T) {
		return func(t *testing.T) {
			dir := t.TempDir()
			touch(t, filepath.Join(dir, "config.yaml"))
			touch(t, filepath.Join(dir, "other.yaml"))

			ctx, cancel, err := filewatch.UntilModifyContext(
				context.Background(), filepath.Join(dir, when.watch),
			)
			if err != nil {
				t.Fatal(err)
			}
			defer cancel()

			if err := ctx.Err(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			when.modify(t, dir)

			wait := 200 * time.Millisecond
			if then.cancelled {
				wait = 5 * time.Second
			}
			done := waitDone(ctx, wait)
			if done != then.cancelled {
				t.Fatalf("cancelled: actual = %v, expected = %v", done, then.cancelled)
			}
			if !done {
				return
			}

			cause := context.Cause(ctx)
			if !errors.Is(cause, filewatch.ErrModified) {
				t.Errorf("cause should be ErrModified: %v", cause)
			}
			var merr *filewatch.ModifiedError
			if !errors.As(cause, &merr) {
				t.Errorf("cause should be *ModifiedError: %#v", cause)
			}
		}
	}

	t.Run("when a watched file is written, it cancels context", theory(
		when{
			watch: "config.yaml",
			modify: func(t *testing.T, dir string) {
				if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("updated"), 0644); err != nil {
					t.Fatal(err)
				}
			},
		},
		then{cancelled: true},
	))

	t.Run("when a watched file is replaced by rename, it cancels context", theory(
		when{
			watch: "config.yaml",
			modify: func(t *testing.T, dir string) {
				tmp := filepath.Join(dir, "config.yaml.swp")
				touch(t, tmp)
				if err := os.Rename(tmp, filepath.Join(dir, "config.yaml")); err != nil {
					t.Fatal(err)
				}
			},
		},
		then{cancelled: true},
	))

	t.Run("when a watched file is deleted, it cancels context", theory(
		when{
			watch: "config.yaml",
			modify: func(t *testing.T, dir string) {
				if err := os.Remove(filepath.Join(dir, "config.yaml")); err != nil {
					t.Fatal(err)
				}
			},
		},
		then{cancelled: true},
	))

	t.Run("when a sibling of the watched file is written, it does not cancel context", theory(
		when{
			watch: "config.yaml",
			modify: func(t *testing.T, dir string) {
				if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("updated"), 0644); err != nil {
					t.Fatal(err)
				}
			},
		},
		then{cancelled: false},
	))

	t.Run("when permission of the watched file is changed, it does not cancel context", theory(
		when{
			watch: "config.yaml",
			modify: func(t *testing.T, dir string) {
				if err := os.Chmod(filepath.Join(dir, "config.yaml"), 0600); err != nil {
					t.Fatal(err)
				}
			},
		},
		then{cancelled: false},
	))

	t.Run("when a file is created in the watched directory, it cancels context", theory(
		when{
			watch: "",
			modify: func(t *testing.T, dir string) {
				touch(t, filepath.Join(dir, "new.yaml"))
			},
		},
		then{cancelled: true},
	))
}

func TestUntilModifyContext_Missing(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel, err := filewatch.UntilModifyContext(
		context.Background(), filepath.Join(dir, "no-such-file"),
	)
	if err == nil {
		cancel()
		t.Fatal("expected error, but got nil")
	}
	if ctx != nil || cancel != nil {
		t.Error("context and cancel should be nil on error")
	}
}

func TestUntilModifyContext_CancelledByParent(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "config.yaml"))

	parent, pcancel := context.WithCancel(context.Background())
	ctx, cancel, err := filewatch.UntilModifyContext(parent, filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	defer cancel()

	pcancel()
	if !waitDone(ctx, time.Second) {
		t.Fatal("context should be done with its parent")
	}
	if errors.Is(context.Cause(ctx), filewatch.ErrModified) {
		t.Errorf("cause should not be ErrModified: %v", context.Cause(ctx))
	}
}
