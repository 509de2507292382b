//go:build container

package postgres_test

import (
	"context"
	"errors"
	"testing"

	testutilctx "github.com/mindgarden/consultation/internal/testutils/context"
	testenv "github.com/mindgarden/consultation/pkg/conn/db/postgres/pool/testenv"
	"github.com/mindgarden/consultation/pkg/domain"
	domerr "github.com/mindgarden/consultation/pkg/domain/errors"
	kpguser "github.com/mindgarden/consultation/pkg/domain/user/db/postgres"
	"github.com/mindgarden/consultation/pkg/utils/try"
)

func TestUser(t *testing.T) {
	ctx, cancel := testutilctx.WithTest(context.Background(), t)
	defer cancel()
	poolBroaker := testenv.NewPoolBroaker(ctx, t)

	t.Run("registered users can be got and found", func(t *testing.T) {
		pool := poolBroaker.GetPool(ctx, t)
		testee := kpguser.New(pool)

		lee := try.To(testee.Register(ctx, domain.UserSpec{Name: "Lee", Role: domain.Consultant, Email: "lee@example.com"})).OrFatal(t)
		kim := try.To(testee.Register(ctx, domain.UserSpec{Name: "Kim", Role: domain.Consultant, Email: "kim@example.com"})).OrFatal(t)
		park := try.To(testee.Register(ctx, domain.UserSpec{Name: "Park", Role: domain.Client, Email: "park@example.com"})).OrFatal(t)

		got := try.To(testee.Get(ctx, []domain.UserId{lee, park, 9999})).OrFatal(t)
		if len(got) != 2 {
			t.Fatalf("unexpected users: %+v", got)
		}
		if u := got[park]; u == nil || u.Name != "Park" || u.Role != domain.Client || u.Email != "park@example.com" {
			t.Errorf("park: %+v", u)
		}

		consultant := domain.Consultant
		found := try.To(testee.Find(ctx, &consultant)).OrFatal(t)
		if len(found) != 2 || found[0].Id != kim || found[1].Id != lee {
			t.Errorf("consultants should be ordered by name: %+v", found)
		}

		everyone := try.To(testee.Find(ctx, nil)).OrFatal(t)
		if len(everyone) != 3 {
			t.Errorf("everyone: %+v", everyone)
		}
	})

	t.Run("email is unique case-insensitively", func(t *testing.T) {
		pool := poolBroaker.GetPool(ctx, t)
		testee := kpguser.New(pool)

		try.To(testee.Register(ctx, domain.UserSpec{Name: "Kim", Role: domain.Consultant, Email: "kim@example.com"})).OrFatal(t)
		_, err := testee.Register(ctx, domain.UserSpec{Name: "Kim2", Role: domain.Client, Email: "KIM@example.com"})
		if !errors.Is(err, domerr.ErrConflict) {
			t.Errorf("expected ErrConflict, but %v", err)
		}
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		pool := poolBroaker.GetPool(ctx, t)
		testee := kpguser.New(pool)

		_, err := testee.Register(ctx, domain.UserSpec{Name: "X", Role: domain.Role("GUEST"), Email: "x@example.com"})
		if !errors.Is(err, domerr.ErrInvalidValue) {
			t.Errorf("expected ErrInvalidValue, but %v", err)
		}
	})
}
