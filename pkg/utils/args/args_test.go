package args_test

import (
	"flag"
	"testing"

	"github.com/mindgarden/consultation/pkg/domain"
	"github.com/mindgarden/consultation/pkg/utils/args"
)

func TestFlag(t *testing.T) {
	type when struct {
		args     []string
		fallback *domain.Role
	}
	type then struct {
		value domain.Role
		isSet bool
		err   bool
	}

	theory := func(when when, then then) func(*testing.T) {
		return func(t *testing.T) {
			testee := args.Parser(domain.AsRole)
			if when.fallback != nil {
				testee = args.WithDefault(domain.AsRole, *when.fallback)
			}

			f := flag.NewFlagSet("test", flag.ContinueOnError)
			f.Var(testee, "role", "")

			err := f.Parse(when.args)
			if then.err {
				if err == nil {
					t.Error("expected error does not happen")
				}
			} else if err != nil {
				t.Fatal(err)
			}

			if testee.Value() != then.value {
				t.Errorf("Value: actual = %v, expected = %v", testee.Value(), then.value)
			}
			if testee.IsSet() != then.isSet {
				t.Errorf("IsSet: actual = %v, expected = %v", testee.IsSet(), then.isSet)
			}
		}
	}

	fallback := domain.Client

	t.Run("when an acceptable value is given, it is parsed", theory(
		when{args: []string{"-role", "consultant"}},
		then{value: domain.Consultant, isSet: true},
	))

	t.Run("when an unacceptable value is given, parsing errors", theory(
		when{args: []string{"-role", "stranger"}},
		then{err: true},
	))

	t.Run("when nothing is given, the value is zero", theory(
		when{args: []string{}},
		then{},
	))

	t.Run("when nothing is given, the default stays", theory(
		when{args: []string{}, fallback: &fallback},
		then{value: domain.Client},
	))

	t.Run("when a value is given, the default is overwritten", theory(
		when{args: []string{"-role", "ADMIN"}, fallback: &fallback},
		then{value: domain.Admin, isSet: true},
	))
}
