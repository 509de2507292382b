package whoami_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/mindgarden/consultation/cmd/mg/rest/mock"
	"github.com/mindgarden/consultation/cmd/mg/subcommands/internal/commandline"
	"github.com/mindgarden/consultation/cmd/mg/subcommands/logger"
	"github.com/mindgarden/consultation/cmd/mg/subcommands/whoami"
	apiusers "github.com/mindgarden/consultation/pkg/api/types/users"
)

func TestTask(t *testing.T) {
	client := mock.New(t)
	client.Impl.WhoAmI = func(context.Context) (apiusers.User, error) {
		return apiusers.User{UserId: 2, Name: "Kim", Role: "CONSULTANT", Email: "kim@example.com"}, nil
	}
	stdout := new(bytes.Buffer)
	err := whoami.Task(
		context.Background(), logger.Null(), client,
		commandline.MockCommandline[whoami.Flag]{Stdout_: stdout, Stderr_: io.Discard},
		[]any{},
	)
	if err != nil {
		t.Fatal(err)
	}
	if client.Calls.WhoAmI != 1 {
		t.Errorf("WhoAmI is called %d times", client.Calls.WhoAmI)
	}
	if expected := "Kim <kim@example.com> (#2, CONSULTANT)\n"; stdout.String() != expected {
		t.Errorf("stdout: actual = %q, expected = %q", stdout, expected)
	}
}
