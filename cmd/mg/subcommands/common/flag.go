package common

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultProfile is the profile name used when no ".mgprofile" is found.
const DefaultProfile = "default"

type CommonFlags struct {
	Profile      string `flag:"profile" help:"profile name to use"`
	ProfileStore string `flag:"profile-store" help:"path to profile store file"`
}

type flagDetection struct {
	home string
}

type FlagDetectionOption func(*flagDetection) *flagDetection

// WithHome sets the home directory, where the profile store is placed.
func WithHome(home string) FlagDetectionOption {
	return func(fd *flagDetection) *flagDetection {
		fd.home = home
		return fd
	}
}

// Flags detects default values of CommonFlags.
//
// The profile name is the first line of ".mgprofile" in from or its nearest ancestor.
// The profile store is "~/.mg/profile".
func Flags(from string, options ...FlagDetectionOption) (CommonFlags, error) {
	fd := &flagDetection{}
	for _, o := range options {
		fd = o(fd)
	}

	home := fd.home
	if home == "" {
		if h, err := os.UserHomeDir(); err == nil {
			home = h
		}
	}

	if abs, err := filepath.Abs(from); err == nil {
		from = abs
	}

	profile := DefaultProfile
	for dir := from; ; {
		content, err := os.ReadFile(filepath.Join(dir, ".mgprofile"))
		if err == nil {
			if line, _, _ := strings.Cut(string(content), "\n"); strings.TrimSpace(line) != "" {
				profile = strings.TrimSpace(line)
			}
			break
		} else if !os.IsNotExist(err) {
			return CommonFlags{}, err
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return CommonFlags{
		Profile:      profile,
		ProfileStore: filepath.Join(home, ".mg", "profile"),
	}, nil
}
