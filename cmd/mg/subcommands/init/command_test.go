package init_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mindgarden/consultation/cmd/mg/config/profiles"
	"github.com/mindgarden/consultation/cmd/mg/subcommands/common"
	subinit "github.com/mindgarden/consultation/cmd/mg/subcommands/init"
	"github.com/mindgarden/consultation/cmd/mg/subcommands/internal/commandline"
	"github.com/mindgarden/consultation/cmd/mg/subcommands/logger"
	"github.com/mindgarden/consultation/pkg/utils/try"
)

func TestTask(t *testing.T) {
	type when struct {
		existing profiles.ProfileStore
		content  string
	}
	type then struct {
		err   bool
		store profiles.ProfileStore
	}

	theory := func(when when, then then) func(*testing.T) {
		return func(t *testing.T) {
			root := t.TempDir()
			storePath := filepath.Join(root, "home", ".mg", "profile")
			workdir := filepath.Join(root, "work")
			if err := os.MkdirAll(workdir, 0700); err != nil {
				t.Fatal(err)
			}
			if when.existing != nil {
				if err := when.existing.Save(storePath); err != nil {
					t.Fatal(err)
				}
			}
			source := filepath.Join(root, "given.yaml")
			if err := os.WriteFile(source, []byte(when.content), 0600); err != nil {
				t.Fatal(err)
			}

			testee := subinit.Task(workdir)
			err := testee(
				context.Background(), logger.Null(),
				common.CommonFlags{Profile: "seoul", ProfileStore: storePath},
				commandline.MockCommandline[struct{}]{
					Stdout_: io.Discard, Stderr_: io.Discard,
					Args_: map[string][]string{subinit.ARG_PROFILE_FILE: {source}},
				},
				nil,
			)

			if then.err {
				if err == nil {
					t.Fatal("expected error does not occur")
				}
				if _, err := os.Stat(filepath.Join(workdir, ".mgprofile")); !errors.Is(err, os.ErrNotExist) {
					t.Errorf(".mgprofile is written: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}

			actual := try.To(profiles.LoadProfileStore(storePath)).OrFatal(t)
			if len(actual) != len(then.store) {
				t.Errorf("store: actual = %+v, expected = %+v", actual, then.store)
			}
			for name, expected := range then.store {
				if a, ok := actual[name]; !ok || *a != *expected {
					t.Errorf("profile %s: actual = %+v, expected = %+v", name, a, expected)
				}
			}

			marker := try.To(os.ReadFile(filepath.Join(workdir, ".mgprofile"))).OrFatal(t)
			if strings.TrimSpace(string(marker)) != "seoul" {
				t.Errorf(".mgprofile: %q", marker)
			}
		}
	}

	given := `
apiRoot: https://seoul.example.com/api
token: TOKEN
`

	t.Run("it creates a new store", theory(
		when{content: given},
		then{store: profiles.ProfileStore{
			"seoul": {ApiRoot: "https://seoul.example.com/api", Token: "TOKEN"},
		}},
	))

	t.Run("it adds to or overwrites the existing store", theory(
		when{
			existing: profiles.ProfileStore{
				"busan": {ApiRoot: "https://busan.example.com/api", Token: "B"},
				"seoul": {ApiRoot: "https://old.example.com/api", Token: "OLD"},
			},
			content: given,
		},
		then{store: profiles.ProfileStore{
			"busan": {ApiRoot: "https://busan.example.com/api", Token: "B"},
			"seoul": {ApiRoot: "https://seoul.example.com/api", Token: "TOKEN"},
		}},
	))

	t.Run("broken profile is not registered", theory(
		when{content: "apiRoot: not-a-url\ntoken: T\n"},
		then{err: true},
	))

	t.Run("non-yaml profile is not registered", theory(
		when{content: "::::"},
		then{err: true},
	))
}
