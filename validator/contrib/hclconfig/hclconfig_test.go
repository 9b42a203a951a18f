package hclconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/BigKAA/redpen-go/validator"
)

const sample = `
lang = "ja"

validator "SentenceLength" {
  properties = { max_len = 100 }
}

validator "InvalidWord" {
  properties = {
    list   = ["foo", "bar"]
    strict = true
    ratio  = 0.5
  }
}

validator "CommaNumber" {}
`

func TestParse(t *testing.T) {
	cfg, err := Parse("sample.hcl", []byte(sample))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := validator.Configuration{
		Lang: "ja",
		Validators: []validator.ValidatorConfiguration{
			{Name: "SentenceLength", Properties: map[string]string{"max_len": "100"}},
			{Name: "InvalidWord", Properties: map[string]string{"list": "foo,bar", "strict": "true", "ratio": "0.5"}},
			{Name: "CommaNumber"},
		},
	}
	if diff := cmp.Diff(expected, cfg); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_JSON(t *testing.T) {
	src := `{"lang": "en", "validator": {"Spelling": {"properties": {"list": ["a", "b"]}}}}`
	cfg, err := Parse("sample.json", []byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Lang != "en" || len(cfg.Validators) != 1 {
		t.Fatalf("unexpected configuration: %+v", cfg)
	}
	if got := cfg.Validators[0].Properties["list"]; got != "a,b" {
		t.Errorf("list = %q, expected a,b", got)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "syntax", src: `validator "X" {`, want: "hclconfig"},
		{name: "duplicate", src: "validator \"X\" {}\nvalidator \"X\" {}", want: "duplicate validator"},
		{name: "not an object", src: `validator "X" { properties = "flat" }`, want: "must be an object"},
		{name: "nested object", src: `validator "X" { properties = { a = { b = 1 } } }`, want: "unsupported value type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("bad.hcl", []byte(tt.src))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "redpen.hcl")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Language() != "ja" || len(cfg.Validators) != 3 {
		t.Errorf("unexpected configuration: %+v", cfg)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.hcl")); err == nil {
		t.Error("expected error for missing file")
	}
}
