package profiles

import (
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/hectane/go-acl"
	"github.com/mindgarden/consultation/cmd/mg/config/open"
	"gopkg.in/yaml.v3"
)

var ErrProfileStoreNotFound = errors.New("profile store is not found")
var ErrProfileInvalid = errors.New("profile is invalid")

// ProfileStore maps profile names to Profiles.
type ProfileStore map[string]*Profile

type Cert struct {
	// base64 encoded PEM of the CA certificate
	CA string `yaml:"ca,omitempty"`
}

// Profile tells how to reach a MindGarden server.
type Profile struct {
	// URL of "/api" of the server. For example, https://mindgarden.example.com/api
	ApiRoot string `yaml:"apiRoot"`

	// bearer token issued by the operator
	Token string `yaml:"token"`

	Cert Cert `yaml:"cert,omitempty"`
}

// Verify returns an error wrapping ErrProfileInvalid when the profile is broken.
func (p *Profile) Verify() error {
	u, err := url.Parse(p.ApiRoot)
	if err != nil || !u.IsAbs() {
		return fmt.Errorf("%w: apiRoot is not URL: %q", ErrProfileInvalid, p.ApiRoot)
	}
	if p.Token == "" {
		return fmt.Errorf("%w: token is empty", ErrProfileInvalid)
	}
	if p.Cert.CA != "" {
		bin, err := base64.StdEncoding.DecodeString(p.Cert.CA)
		if err != nil {
			return fmt.Errorf("%w: cert.ca is not base64: %w", ErrProfileInvalid, err)
		}
		if blk, _ := pem.Decode(bin); blk == nil {
			return fmt.Errorf("%w: cert.ca is not PEM", ErrProfileInvalid)
		}
	}
	return nil
}

// LoadProfileStore reads the profile store at path.
func LoadProfileStore(path string) (ProfileStore, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s: %w", ErrProfileStoreNotFound, path, err)
		}
		return nil, err
	}
	return Unmarshal(buf)
}

func Unmarshal(buf []byte) (ProfileStore, error) {
	store := ProfileStore{}
	if err := yaml.Unmarshal(buf, &store); err != nil {
		return nil, err
	}
	return store, nil
}

// Save writes the store to path, which only the current user can read.
//
// The previous content is kept in "path.backup" until writing succeeds.
func (ps ProfileStore) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), os.FileMode(0700)); err != nil {
		return err
	}

	buf, err := yaml.Marshal(ps)
	if err != nil {
		return err
	}

	backup := path + ".backup"
	if old, err := os.ReadFile(path); err == nil {
		bk, err := open.NewSafeFile(backup)
		if err != nil {
			return err
		}
		_, err = bk.Write(old)
		bk.Close()
		if err != nil {
			return err
		}
		// loosened permissions of an existing store are tightened.
		if err := acl.Chmod(path, os.FileMode(0600)); err != nil {
			return err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	f, err := open.NewSafeFile(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(buf); err != nil {
		return fmt.Errorf("%w (the previous store is at %s)", err, backup)
	}
	os.Remove(backup)
	return nil
}
