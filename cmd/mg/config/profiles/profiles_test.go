package profiles_test

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	prof "github.com/mindgarden/consultation/cmd/mg/config/profiles"
	"github.com/mindgarden/consultation/pkg/utils/try"
)

const fakePEM = `-----BEGIN CERTIFICATE-----
AAECAwQFBgcICQ==
-----END CERTIFICATE-----
`

func TestUnmarshal(t *testing.T) {
	store := try.To(prof.Unmarshal([]byte(`
branch-seoul:
    apiRoot: "https://mg.example.com/api"
    token: TOKEN
    cert:
        ca: BASE64_ENCODED_CERT
`))).OrFatal(t)

	p, ok := store["branch-seoul"]
	if !ok {
		t.Fatal("profile is not found")
	}
	expected := prof.Profile{
		ApiRoot: "https://mg.example.com/api",
		Token:   "TOKEN",
		Cert:    prof.Cert{CA: "BASE64_ENCODED_CERT"},
	}
	if *p != expected {
		t.Errorf("actual = %+v, expected = %+v", *p, expected)
	}
}

func TestProfile_Verify(t *testing.T) {
	for name, testcase := range map[string]struct {
		when prof.Profile
		then error
	}{
		"profile with CA is valid": {
			when: prof.Profile{
				ApiRoot: "https://mg.example.com/api", Token: "t",
				Cert: prof.Cert{CA: base64.StdEncoding.EncodeToString([]byte(fakePEM))},
			},
		},
		"profile without CA is valid": {
			when: prof.Profile{ApiRoot: "http://localhost:8080/api", Token: "t"},
		},
		"relative api root is invalid": {
			when: prof.Profile{ApiRoot: "/api", Token: "t"},
			then: prof.ErrProfileInvalid,
		},
		"empty token is invalid": {
			when: prof.Profile{ApiRoot: "https://mg.example.com/api"},
			then: prof.ErrProfileInvalid,
		},
		"CA which is not PEM is invalid": {
			when: prof.Profile{
				ApiRoot: "https://mg.example.com/api", Token: "t",
				Cert: prof.Cert{CA: base64.StdEncoding.EncodeToString([]byte("broken"))},
			},
			then: prof.ErrProfileInvalid,
		},
		"CA which is not base64 is invalid": {
			when: prof.Profile{
				ApiRoot: "https://mg.example.com/api", Token: "t",
				Cert: prof.Cert{CA: "%%%"},
			},
			then: prof.ErrProfileInvalid,
		},
	} {
		t.Run(name, func(t *testing.T) {
			if err := testcase.when.Verify(); !errors.Is(err, testcase.then) {
				t.Errorf("actual = %v, expected = %v", err, testcase.then)
			}
		})
	}
}

func TestProfileStore(t *testing.T) {
	t.Run("when the store does not exist, it is ErrProfileStoreNotFound", func(t *testing.T) {
		_, err := prof.LoadProfileStore(filepath.Join(t.TempDir(), "profile"))
		if !errors.Is(err, prof.ErrProfileStoreNotFound) {
			t.Errorf("error: %v", err)
		}
	})

	t.Run("saved store can be loaded, and only the user can read it", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".mg", "profile")

		store := prof.ProfileStore{
			"a": {ApiRoot: "https://a.example.com/api", Token: "ta"},
		}
		if err := store.Save(path); err != nil {
			t.Fatal(err)
		}

		store["b"] = &prof.Profile{ApiRoot: "https://b.example.com/api", Token: "tb"}
		if err := store.Save(path); err != nil {
			t.Fatal(err)
		}

		loaded := try.To(prof.LoadProfileStore(path)).OrFatal(t)
		if len(loaded) != 2 || *loaded["a"] != *store["a"] || *loaded["b"] != *store["b"] {
			t.Errorf("loaded: %+v", loaded)
		}

		stat := try.To(os.Stat(path)).OrFatal(t)
		if perm := stat.Mode().Perm(); perm != 0600 {
			t.Errorf("permission: %o", perm)
		}
		if _, err := os.Stat(path + ".backup"); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("backup is left: %v", err)
		}
	})
}
