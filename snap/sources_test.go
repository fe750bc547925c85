//nolint:testpackage // using package name 'snap' to access unexported fields for testing
package snap

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const testHCL = `
host  = "example.com"
port  = 8080
debug = true
tags  = ["a", "b"]
empty = null

limits = {
  cpu    = 2
  memory = "1G"
}

command "build" "docker" {
  target = "linux"
}
`

func TestLoadHCL(t *testing.T) {
	cfg, err := LoadHCL([]byte(testHCL), "test.hcl")
	if err != nil {
		t.Fatalf("LoadHCL failed: %v", err)
	}

	tests := []struct {
		path []string
		want string
	}{
		{[]string{"host"}, "example.com"},
		{[]string{"port"}, "8080"},
		{[]string{"debug"}, "true"},
		{[]string{"limits", "cpu"}, "2"},
		{[]string{"limits", "memory"}, "1G"},
		{[]string{"command", "name"}, "build"},
		{[]string{"command", "subcommand", "name"}, "docker"},
		{[]string{"command", "subcommand", "target"}, "linux"},
	}
	for _, tt := range tests {
		if got := mustString(t, cfg, tt.path...); got != tt.want {
			t.Errorf("%v = %q, want %q", tt.path, got, tt.want)
		}
	}
	if diff := cmp.Diff([]string{"a", "b"}, mustStrings(t, cfg, "tags")); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
	if _, ok := cfg.Lookup("empty"); ok {
		t.Error("Expected null attribute to be skipped")
	}
}

func TestLoadHCLBlocksMerge(t *testing.T) {
	src := `
server {
  host = "a"
}
server {
  port = 1
}
`
	cfg, err := LoadHCL([]byte(src), "merge.hcl")
	if err != nil {
		t.Fatalf("LoadHCL failed: %v", err)
	}
	if mustString(t, cfg, "server", "host") != "a" || mustString(t, cfg, "server", "port") != "1" {
		t.Errorf("Expected repeated blocks to merge, got %s", cfg)
	}
}

func TestLoadHCLErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax error", `host = `},
		{"nested list", `matrix = [[1, 2]]`},
		{"unknown variable", `host = var.host`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadHCL([]byte(tt.src), "bad.hcl"); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestLoadJSON(t *testing.T) {
	cfg, err := LoadJSON([]byte(`{"host":"example.com","command":{"name":"build"}}`))
	if err != nil {
		t.Fatalf("LoadJSON failed: %v", err)
	}
	if got := mustString(t, cfg, "command", "name"); got != "build" {
		t.Errorf("Expected command build, got %q", got)
	}
	if _, err := LoadJSON([]byte(`[1,2]`)); err == nil {
		t.Error("Expected error for a non-object document")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	hclPath := filepath.Join(dir, "app.HCL")
	yamlPath := filepath.Join(dir, "app.yaml")
	for path, content := range map[string]string{
		jsonPath: `{"host":"json"}`,
		hclPath:  `host = "hcl"`,
		yamlPath: `host: yaml`,
	} {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	cfg, err := LoadFile(jsonPath)
	if err != nil || mustString(t, cfg, "host") != "json" {
		t.Errorf("LoadFile(json) = %v, %v", cfg, err)
	}
	cfg, err = LoadFile(hclPath)
	if err != nil || mustString(t, cfg, "host") != "hcl" {
		t.Errorf("LoadFile(hcl) = %v, %v", cfg, err)
	}
	if _, err := LoadFile(yamlPath); err == nil {
		t.Error("Expected unsupported format error")
	}
	if _, err := LoadFile(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist, got %v", err)
	}
}

func TestEnvFromSpecification(t *testing.T) {
	spec := NewCommandSpecification()
	_ = spec.AddNamedOption("log-level", SingleValue())
	_ = spec.AddNamedOption("tags", MultiValue())
	_ = spec.AddNamedOption("unset", SingleValue())

	environ := []string{
		"APP_LOG_LEVEL=debug",
		"APP_TAGS=a, b,c",
		"LOG_LEVEL=ignored",
		"MALFORMED",
	}
	cfg := EnvFromSpecification(spec, "app", environ)

	if got := mustString(t, cfg, "log-level"); got != "debug" {
		t.Errorf("Expected log-level=debug, got %q", got)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, mustStrings(t, cfg, "tags")); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
	if _, ok := cfg.Lookup("unset"); ok {
		t.Error("Expected unset variable to be absent")
	}
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		prefix, name, want string
	}{
		{"app", "log-level", "APP_LOG_LEVEL"},
		{"", "server.port", "SERVER_PORT"},
		{"X", "v", "X_V"},
	}
	for _, tt := range tests {
		if got := EnvKey(tt.prefix, tt.name); got != tt.want {
			t.Errorf("EnvKey(%q, %q) = %q, want %q", tt.prefix, tt.name, got, tt.want)
		}
	}
}
