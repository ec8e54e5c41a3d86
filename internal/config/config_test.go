package config

import (
	"os"
	"path/filepath"
	"testing"
)

// chdir changes to dir for the duration of the test, like t.Chdir
// (which requires Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}

func TestInitialize(t *testing.T) {
	// Test that initialization doesn't error
	err := Initialize()
	if err != nil {
		t.Fatalf("Initialize() returned error: %v", err)
	}

	if v == nil {
		t.Fatal("viper instance is nil after Initialize()")
	}
}

func TestDefaults(t *testing.T) {
	// Run from an empty directory so a stray tstl.yaml can't interfere
	chdir(t, t.TempDir())

	err := Initialize()
	if err != nil {
		t.Fatalf("Initialize() returned error: %v", err)
	}

	tests := []struct {
		key      string
		expected interface{}
		getter   func(string) interface{}
	}{
		{"pattern", "*.tstl", func(k string) interface{} { return GetString(k) }},
		{"dir", ".", func(k string) interface{} { return GetString(k) }},
		{"no-color", false, func(k string) interface{} { return GetBool(k) }},
		{"log-file", "", func(k string) interface{} { return GetString(k) }},
		{"log-max-size", 10, func(k string) interface{} { return GetInt(k) }},
		{"log-max-backups", 3, func(k string) interface{} { return GetInt(k) }},
		{"log-max-age", 7, func(k string) interface{} { return GetInt(k) }},
		{"log-compress", true, func(k string) interface{} { return GetBool(k) }},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got := tt.getter(tt.key)
			if got != tt.expected {
				t.Errorf("GetXXX(%q) = %v, want %v", tt.key, got, tt.expected)
			}
		})
	}
}

func TestEnvironmentBinding(t *testing.T) {
	chdir(t, t.TempDir())

	tests := []struct {
		envVar   string
		key      string
		value    string
		expected interface{}
		getter   func(string) interface{}
	}{
		{"TSTL_PATTERN", "pattern", "*.script", "*.script", func(k string) interface{} { return GetString(k) }},
		{"TSTL_DIR", "dir", "tests", "tests", func(k string) interface{} { return GetString(k) }},
		{"TSTL_NO_COLOR", "no-color", "true", true, func(k string) interface{} { return GetBool(k) }},
		{"TSTL_LOG_FILE", "log-file", "/tmp/tstl.log", "/tmp/tstl.log", func(k string) interface{} { return GetString(k) }},
		{"TSTL_LOG_MAX_SIZE", "log-max-size", "25", 25, func(k string) interface{} { return GetInt(k) }},
	}

	for _, tt := range tests {
		t.Run(tt.envVar, func(t *testing.T) {
			t.Setenv(tt.envVar, tt.value)

			// Re-initialize viper to pick up env var
			err := Initialize()
			if err != nil {
				t.Fatalf("Initialize() returned error: %v", err)
			}

			got := tt.getter(tt.key)
			if got != tt.expected {
				t.Errorf("GetXXX(%q) with %s=%s = %v, want %v", tt.key, tt.envVar, tt.value, got, tt.expected)
			}
		})
	}
}

func TestConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	configContent := `
pattern: "*.check"
no-color: true
log-max-backups: 9
`
	if err := os.WriteFile(filepath.Join(tmpDir, "tstl.yaml"), []byte(configContent), 0644); err != nil {
		t.Fatal(err)
	}

	chdir(t, tmpDir)

	if err := Initialize(); err != nil {
		t.Fatalf("Initialize() returned error: %v", err)
	}

	if got := GetString("pattern"); got != "*.check" {
		t.Errorf("pattern = %q, want %q", got, "*.check")
	}
	if !GetBool("no-color") {
		t.Error("no-color = false, want true")
	}
	if got := GetInt("log-max-backups"); got != 9 {
		t.Errorf("log-max-backups = %d, want 9", got)
	}

	// Keys absent from the file keep their defaults
	if got := GetString("dir"); got != "." {
		t.Errorf("dir = %q, want default %q", got, ".")
	}
}

func TestGettersBeforeInitialize(t *testing.T) {
	old := v
	v = nil
	defer func() { v = old }()

	if got := GetString("pattern"); got != "" {
		t.Errorf("GetString on nil viper = %q, want empty", got)
	}
	if GetBool("no-color") {
		t.Error("GetBool on nil viper = true, want false")
	}
	if got := GetInt("log-max-size"); got != 0 {
		t.Errorf("GetInt on nil viper = %d, want 0", got)
	}
}
