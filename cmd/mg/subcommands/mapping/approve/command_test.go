package approve_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/mindgarden/consultation/cmd/mg/rest/mock"
	"github.com/mindgarden/consultation/cmd/mg/subcommands/internal/commandline"
	"github.com/mindgarden/consultation/cmd/mg/subcommands/mapping/approve"
	apimappings "github.com/mindgarden/consultation/pkg/api/types/mappings"
)

func TestTask(t *testing.T) {
	type then struct {
		log string
		err error
	}
	theory := func(approveErr error, then then) func(*testing.T) {
		return func(t *testing.T) {
			client := mock.New(t)
			client.Impl.ApproveMapping = func(_ context.Context, id int64) (apimappings.Mapping, error) {
				return apimappings.Mapping{MappingId: id, Status: "ACTIVE"}, approveErr
			}
			logs := new(bytes.Buffer)
			err := approve.Task(
				context.Background(), log.New(logs, "", 0), client,
				commandline.MockCommandline[approve.Flag]{
					Stdout_: io.Discard, Stderr_: io.Discard,
					Args_: map[string][]string{approve.ARG_MAPPING_ID: {"9"}},
				},
				[]any{},
			)
			if len(client.Calls.ApproveMapping) != 1 || client.Calls.ApproveMapping[0] != 9 {
				t.Errorf("ApproveMapping: %v", client.Calls.ApproveMapping)
			}
			if then.err != nil {
				if !errors.Is(err, then.err) {
					t.Errorf("expected error %v, but %v", then.err, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(logs.String(), then.log) {
				t.Errorf("log %q does not contain %q", logs, then.log)
			}
		}
	}

	t.Run("it approves the mapping", theory(nil, then{log: "mapping 9 is ACTIVE"}))

	fake := errors.New("fake")
	t.Run("error from server is returned", theory(fake, then{err: fake}))
}
