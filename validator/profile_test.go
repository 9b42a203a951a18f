package validator

import (
	"strings"
	"testing"
)

func TestValidateProfileName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"default", false},
		{"ja-strict.v2", false},
		{"Team_A", false},
		{"", true},
		{"-leading", true},
		{"has space", true},
		{"slash/name", true},
		{strings.Repeat("a", 129), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProfileName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProfileName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
		})
	}
}

func TestFactory_Snapshot(t *testing.T) {
	f, _ := newTestFactory(t, newTestCatalog())

	snap := f.Snapshot("")
	if snap.Lang != DefaultLang {
		t.Errorf("Lang = %q, expected %q", snap.Lang, DefaultLang)
	}
	if snap.GeneratedAt.IsZero() {
		t.Error("GeneratedAt must be set")
	}
	if len(snap.Validators) != len(f.Configurations(DefaultLang)) {
		t.Errorf("snapshot has %d validators, expected %d", len(snap.Validators), len(f.Configurations(DefaultLang)))
	}

	ja := f.Snapshot("ja")
	for _, vc := range ja.Validators {
		if vc.Name == "Keyword" {
			t.Error("en-only validator must not appear in the ja snapshot")
		}
	}
}
