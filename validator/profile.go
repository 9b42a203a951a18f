package validator

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"
)

// ErrProfileNotFound is returned by a ProfileStore when no profile has the requested name.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileStore persists named configurations ("profiles").
// Implementations live under validator/contrib.
type ProfileStore interface {
	SaveProfile(ctx context.Context, name string, cfg Configuration) error
	LoadProfile(ctx context.Context, name string) (Configuration, error)
	ListProfiles(ctx context.Context) ([]string, error)
	DeleteProfile(ctx context.Context, name string) error
}

var profileNameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// ValidateProfileName reports whether name can be used as a profile key.
func ValidateProfileName(name string) error {
	if !profileNameRe.MatchString(name) {
		return fmt.Errorf("invalid profile name %q: must match %s", name, profileNameRe.String())
	}
	return nil
}

// Snapshot is the published form of the validator catalog for one language.
type Snapshot struct {
	Lang        string                   `json:"lang"`
	GeneratedAt time.Time                `json:"generated_at"`
	Validators  []ValidatorConfiguration `json:"validators"`
}

// Snapshot captures the default configurations applicable to lang.
func (f *Factory) Snapshot(lang string) Snapshot {
	if lang == "" {
		lang = DefaultLang
	}
	return Snapshot{
		Lang:        lang,
		GeneratedAt: time.Now().UTC(),
		Validators:  f.Configurations(lang),
	}
}
