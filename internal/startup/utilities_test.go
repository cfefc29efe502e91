package startup

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetSettingBool(t *testing.T) {
	fileTrue := true
	fileFalse := false

	tests := []struct {
		name         string
		key          string
		envValue     string
		setEnv       bool
		fileValue    *bool
		defaultValue bool
		want         bool
	}{
		{
			name:         "Returns default when nothing set",
			key:          "TEST_BOOL_UNSET",
			defaultValue: true,
			want:         true,
		},
		{
			name:         "Returns default false when nothing set",
			key:          "TEST_BOOL_UNSET2",
			defaultValue: false,
			want:         false,
		},
		{
			name:         "Returns true when env var is 'true'",
			key:          "TEST_BOOL_TRUE",
			envValue:     "true",
			setEnv:       true,
			defaultValue: false,
			want:         true,
		},
		{
			name:         "Returns false when env var is 'false'",
			key:          "TEST_BOOL_FALSE",
			envValue:     "false",
			setEnv:       true,
			defaultValue: true,
			want:         false,
		},
		{
			name:         "Returns true when env var is '1'",
			key:          "TEST_BOOL_ONE",
			envValue:     "1",
			setEnv:       true,
			defaultValue: false,
			want:         true,
		},
		{
			name:         "Returns false when env var is '0'",
			key:          "TEST_BOOL_ZERO",
			envValue:     "0",
			setEnv:       true,
			defaultValue: true,
			want:         false,
		},
		{
			name:         "Env var overrides file value",
			key:          "TEST_BOOL_ENV_OVER_FILE",
			envValue:     "false",
			setEnv:       true,
			fileValue:    &fileTrue,
			defaultValue: true,
			want:         false,
		},
		{
			name:         "File value overrides default",
			key:          "TEST_BOOL_FILE",
			fileValue:    &fileFalse,
			defaultValue: true,
			want:         false,
		},
		{
			name:         "Invalid env var falls back to file value",
			key:          "TEST_BOOL_INVALID_FILE",
			envValue:     "not-a-bool",
			setEnv:       true,
			fileValue:    &fileTrue,
			defaultValue: false,
			want:         true,
		},
		{
			name:         "Invalid env var falls back to default",
			key:          "TEST_BOOL_INVALID",
			envValue:     "not-a-bool",
			setEnv:       true,
			defaultValue: true,
			want:         true,
		},
		{
			name:         "Returns default when env var is 'yes'",
			key:          "TEST_BOOL_YES",
			envValue:     "yes",
			setEnv:       true,
			defaultValue: false,
			want:         false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			} else {
				os.Unsetenv(tt.key)
			}

			got := getSettingBool(tt.key, tt.fileValue, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getSettingBool(%q, %v, %v) = %v, want %v (env: %q)",
					tt.key, tt.fileValue, tt.defaultValue, got, tt.want, tt.envValue)
			}
		})
	}
}

func TestEnsureDirectory(t *testing.T) {
	t.Run("Creates missing directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "sub", "nested")
		if err := ensureDirectory(dir, "test"); err != nil {
			t.Fatalf("ensureDirectory returned error: %v", err)
		}
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("Expected directory to exist, err=%v", err)
		}
	})

	t.Run("Accepts existing directory", func(t *testing.T) {
		dir := t.TempDir()
		if err := ensureDirectory(dir, "test"); err != nil {
			t.Errorf("ensureDirectory returned error for existing dir: %v", err)
		}
	})

	t.Run("Rejects file at path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
		if err := ensureDirectory(path, "test"); err == nil {
			t.Error("Expected error when path is a regular file")
		}
	})
}

func TestTestWriteAccess(t *testing.T) {
	dir := t.TempDir()
	if err := testWriteAccess(dir); err != nil {
		t.Errorf("testWriteAccess returned error for writable dir: %v", err)
	}

	// The probe file must not be left behind
	if _, err := os.Stat(filepath.Join(dir, ".write-test")); !os.IsNotExist(err) {
		t.Error("Expected write probe file to be removed")
	}

	if err := testWriteAccess(filepath.Join(dir, "missing")); err == nil {
		t.Error("Expected error for nonexistent dir")
	}
}

func TestGetRouteGroup(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/", ""},
		{"/health", "health"},
		{"/streams/{id}/{file}", "streams"},
		{"/transcode/request/{id}", "transcode/request"},
		{"/transcode/playlist/{id}", "transcode/playlist"},
		{"/media", "media"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := getRouteGroup(tt.path); got != tt.want {
				t.Errorf("getRouteGroup(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestBuildInfoStruct(t *testing.T) {
	info := BuildInfo{
		Version:   "1.0.0",
		Commit:    "abc123",
		BuildTime: "2026-01-01",
		GoVersion: "go1.25.0",
		OS:        "linux",
		Arch:      "amd64",
	}

	if info.Version != "1.0.0" {
		t.Errorf("Expected Version='1.0.0', got %q", info.Version)
	}
	if info.Commit != "abc123" {
		t.Errorf("Expected Commit='abc123', got %q", info.Commit)
	}
	if info.GoVersion != "go1.25.0" {
		t.Errorf("Expected GoVersion='go1.25.0', got %q", info.GoVersion)
	}
}

func BenchmarkGetSetting(b *testing.B) {
	b.Setenv("BENCH_TEST_VAR", "test-value")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = getSetting("BENCH_TEST_VAR", nil, "default")
	}
}

func BenchmarkGetSettingBool(b *testing.B) {
	b.Setenv("BENCH_TEST_BOOL", "true")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = getSettingBool("BENCH_TEST_BOOL", nil, false)
	}
}
