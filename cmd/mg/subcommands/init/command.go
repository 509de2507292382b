package init

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mindgarden/consultation/cmd/mg/config/profiles"
	"github.com/mindgarden/consultation/cmd/mg/subcommands/common"
	"github.com/youta-t/flarc"
	"gopkg.in/yaml.v3"
)

const ARG_PROFILE_FILE = "PROFILE_FILE"

type Option struct {
	// directory where ".mgprofile" is written
	workdir string
}

func WithWorkdir(dir string) func(*Option) *Option {
	return func(o *Option) *Option {
		o.workdir = dir
		return o
	}
}

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{workdir: "."}
	for _, o := range options {
		option = o(option)
	}

	return flarc.NewCommand(
		"Register a profile, which you received from your admin.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_PROFILE_FILE, Required: true,
				Help: "path to the profile file from your admin",
			},
		},
		common.NewTaskWithCommonFlag(Task(option.workdir)),
		flarc.WithDescription(`
Register a profile into your profile store.

A profile tells where the MindGarden server is and who you are (with a token).
The profile is registered as "--profile" (default: "default").

"{{ .Command }}" also writes ".mgprofile" in the current directory,
so commands run under this directory use the profile.
`),
	)
}

func Task(workdir string) common.TaskWithCommonFlag[struct{}] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		cf common.CommonFlags,
		cl flarc.Commandline[struct{}],
		params []any,
	) error {
		source := cl.Args()[ARG_PROFILE_FILE][0]

		store, err := profiles.LoadProfileStore(cf.ProfileStore)
		if errors.Is(err, profiles.ErrProfileStoreNotFound) {
			store = profiles.ProfileStore{}
		} else if err != nil {
			return fmt.Errorf("failed to load profile store (%s): %w", cf.ProfileStore, err)
		}

		prof := new(profiles.Profile)
		content, err := os.ReadFile(source)
		if err != nil {
			return fmt.Errorf("failed to read profile file (%s): %w", source, err)
		}
		if err := yaml.Unmarshal(content, prof); err != nil {
			return fmt.Errorf("failed to parse profile file (%s): %w", source, err)
		}
		if err := prof.Verify(); err != nil {
			return fmt.Errorf("%s: %w", source, err)
		}

		store[cf.Profile] = prof
		if err := store.Save(cf.ProfileStore); err != nil {
			return fmt.Errorf("failed to save profile store (%s): %w", cf.ProfileStore, err)
		}
		logger.Printf("profile %s is saved to %s", cf.Profile, cf.ProfileStore)

		marker := filepath.Join(workdir, ".mgprofile")
		if err := os.WriteFile(marker, []byte(cf.Profile+"\n"), os.FileMode(0600)); err != nil {
			return fmt.Errorf("failed to write %s: %w", marker, err)
		}
		return nil
	}
}
