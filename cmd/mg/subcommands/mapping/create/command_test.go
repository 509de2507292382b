package create_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/mindgarden/consultation/cmd/mg/rest/mock"
	"github.com/mindgarden/consultation/cmd/mg/subcommands/internal/commandline"
	"github.com/mindgarden/consultation/cmd/mg/subcommands/logger"
	"github.com/mindgarden/consultation/cmd/mg/subcommands/mapping/create"
	apimappings "github.com/mindgarden/consultation/pkg/api/types/mappings"
	"github.com/mindgarden/consultation/pkg/domain"
	kargs "github.com/mindgarden/consultation/pkg/utils/args"
	"github.com/youta-t/flarc"
)

func TestTask(t *testing.T) {
	type when struct {
		consultant string
		client     string
		flag       create.Flag
	}
	type then struct {
		req      *apimappings.CreateRequest
		usageErr string
	}

	theory := func(when when, then then) func(*testing.T) {
		return func(t *testing.T) {
			flag := when.flag
			flag.Consultant = kargs.Parser(domain.ParseUserId)
			flag.Client = kargs.Parser(domain.ParseUserId)
			if when.consultant != "" {
				if err := flag.Consultant.Set(when.consultant); err != nil {
					t.Fatal(err)
				}
			}
			if when.client != "" {
				if err := flag.Client.Set(when.client); err != nil {
					t.Fatal(err)
				}
			}

			client := mock.New(t)
			client.Impl.CreateMapping = func(_ context.Context, req apimappings.CreateRequest) (apimappings.Mapping, error) {
				return apimappings.Mapping{MappingId: 30, Status: "PENDING_PAYMENT"}, nil
			}

			err := create.Task(
				context.Background(), logger.Null(), client,
				commandline.MockCommandline[create.Flag]{Stdout_: io.Discard, Stderr_: io.Discard, Flags_: flag},
				[]any{},
			)

			if then.usageErr != "" {
				if !errors.Is(err, flarc.ErrUsage) || !strings.Contains(err.Error(), then.usageErr) {
					t.Errorf("expected usage error with %q, but %v", then.usageErr, err)
				}
				if len(client.Calls.CreateMapping) != 0 {
					t.Error("CreateMapping should not be called")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if len(client.Calls.CreateMapping) != 1 || client.Calls.CreateMapping[0] != *then.req {
				t.Errorf("CreateMapping: actual = %+v, expected = %+v", client.Calls.CreateMapping, *then.req)
			}
		}
	}

	t.Run("it creates a mapping", theory(
		when{
			consultant: "2", client: "7",
			flag: create.Flag{Package: " basic 10 ", Price: 500000, Sessions: 10, Notes: "first"},
		},
		then{req: &apimappings.CreateRequest{
			ConsultantId: 2, ClientId: 7, PackageName: "basic 10",
			PackagePrice: 500000, TotalSessions: 10, Notes: "first",
		}},
	))

	t.Run("missing flags are told", theory(
		when{consultant: "2", flag: create.Flag{Price: 500000}},
		then{usageErr: "--client, --package, --sessions"},
	))

	t.Run("the same user on both side is usage error", theory(
		when{consultant: "2", client: "2", flag: create.Flag{Package: "basic", Sessions: 10}},
		then{usageErr: "same user"},
	))

	t.Run("negative sessions is usage error", theory(
		when{consultant: "2", client: "7", flag: create.Flag{Package: "basic", Sessions: -1}},
		then{usageErr: "total sessions should be positive"},
	))
}
