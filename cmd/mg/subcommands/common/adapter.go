package common

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/mindgarden/consultation/cmd/mg/config/profiles"
	"github.com/mindgarden/consultation/cmd/mg/rest"
	"github.com/youta-t/flarc"
)

// TaskWithCommonFlag is a task which needs CommonFlags but no server.
type TaskWithCommonFlag[T any] func(
	ctx context.Context,
	logger *log.Logger,
	commonFlag CommonFlags,
	cl flarc.Commandline[T],
	params []any,
) error

// NewTaskWithCommonFlag picks CommonFlags out of params passed by the command group.
func NewTaskWithCommonFlag[T any](task TaskWithCommonFlag[T]) flarc.Task[T] {
	return func(ctx context.Context, cl flarc.Commandline[T], params []any) error {
		var commonFlag CommonFlags
		found := false
		rest := make([]any, 0, len(params))
		for _, p := range params {
			switch v := p.(type) {
			case CommonFlags:
				found = true
				commonFlag = v
			default:
				rest = append(rest, p)
			}
		}
		if !found {
			return errors.New("programming error: common flags not found")
		}

		logger := log.New(cl.Stderr(), fmt.Sprintf("[%s] ", cl.Fullname()), log.LstdFlags)
		return task(ctx, logger, commonFlag, cl, rest)
	}
}

// Task is a task talking to the server of the profile.
type Task[T any] func(
	ctx context.Context,
	logger *log.Logger,
	client rest.Client,
	cl flarc.Commandline[T],
	params []any,
) error

// NewTask loads the profile and builds a client for task.
func NewTask[T any](task Task[T]) flarc.Task[T] {
	return NewTaskWithCommonFlag(func(
		ctx context.Context,
		logger *log.Logger,
		commonFlag CommonFlags,
		cl flarc.Commandline[T],
		params []any,
	) error {
		store, err := profiles.LoadProfileStore(commonFlag.ProfileStore)
		if err != nil {
			if errors.Is(err, profiles.ErrProfileStoreNotFound) {
				return fmt.Errorf(
					"%w\nTry `mg init` first. Ask your admin to get a profile",
					err,
				)
			}
			return fmt.Errorf("failed to load profile store (%s): %w", commonFlag.ProfileStore, err)
		}

		prof, ok := store[commonFlag.Profile]
		if !ok {
			return fmt.Errorf(
				"profile %q is not found in the profile store (%s)",
				commonFlag.Profile, commonFlag.ProfileStore,
			)
		}

		client, err := rest.NewClient(prof)
		if err != nil {
			return fmt.Errorf(
				"%w\nProfile %q in %s can be broken. Ask your admin for a new one and try `mg init` again",
				err, commonFlag.Profile, commonFlag.ProfileStore,
			)
		}
		return task(ctx, logger, client, cl, params)
	})
}
