package memory

import (
	"runtime/debug"
	"testing"
)

// restoreMemLimit snapshots the process memory limit so tests that call
// ConfigureFromEnv do not leak it into the rest of the suite.
func restoreMemLimit(t *testing.T) {
	t.Helper()
	old := debug.SetMemoryLimit(-1)
	t.Cleanup(func() { debug.SetMemoryLimit(old) })
}

func TestConfigureFromEnvUnset(t *testing.T) {
	restoreMemLimit(t)
	t.Setenv("GOMEMLIMIT", "")
	t.Setenv("MEMORY_LIMIT", "")
	t.Setenv("MEMORY_RATIO", "")

	result := ConfigureFromEnv()

	if result.Configured {
		t.Error("expected no configuration without environment variables")
	}
	if result.Source != "none" {
		t.Errorf("expected source none, got %q", result.Source)
	}
	if result.ContainerLimit != 0 || result.GoMemLimit != 0 {
		t.Errorf("expected zero limits, got container=%d go=%d", result.ContainerLimit, result.GoMemLimit)
	}
}

func TestConfigureFromEnvExplicitGOMEMLIMIT(t *testing.T) {
	restoreMemLimit(t)
	t.Setenv("GOMEMLIMIT", "512MiB")
	t.Setenv("MEMORY_LIMIT", "1073741824")

	// The env var itself is only honored by the runtime at startup, so
	// simulate its effect for the report.
	debug.SetMemoryLimit(512 * 1024 * 1024)

	result := ConfigureFromEnv()

	if !result.Configured {
		t.Fatal("expected GOMEMLIMIT to be reported as configured")
	}
	if result.Source != "GOMEMLIMIT" {
		t.Errorf("expected source GOMEMLIMIT, got %q", result.Source)
	}
	if result.GoMemLimit != 512*1024*1024 {
		t.Errorf("expected reported limit 512MiB, got %d", result.GoMemLimit)
	}
	if result.ContainerLimit != 0 {
		t.Error("MEMORY_LIMIT must be ignored when GOMEMLIMIT is set")
	}
}

func TestConfigureFromEnvContainerLimit(t *testing.T) {
	restoreMemLimit(t)
	t.Setenv("GOMEMLIMIT", "")
	t.Setenv("MEMORY_RATIO", "")
	t.Setenv("MEMORY_LIMIT", "1073741824")

	result := ConfigureFromEnv()

	if !result.Configured {
		t.Fatal("expected configuration from MEMORY_LIMIT")
	}
	if result.Source != "MEMORY_LIMIT" {
		t.Errorf("expected source MEMORY_LIMIT, got %q", result.Source)
	}
	if result.ContainerLimit != 1073741824 {
		t.Errorf("expected container limit 1GiB, got %d", result.ContainerLimit)
	}
	if result.Ratio != DefaultMemoryRatio {
		t.Errorf("expected default ratio %v, got %v", DefaultMemoryRatio, result.Ratio)
	}

	ratio := DefaultMemoryRatio
	want := int64(float64(1073741824) * ratio)
	if result.GoMemLimit != want {
		t.Errorf("expected go limit %d, got %d", want, result.GoMemLimit)
	}
	if got := debug.SetMemoryLimit(-1); got != want {
		t.Errorf("expected runtime limit %d, got %d", want, got)
	}
}

func TestConfigureFromEnvCustomRatio(t *testing.T) {
	restoreMemLimit(t)
	t.Setenv("GOMEMLIMIT", "")
	t.Setenv("MEMORY_LIMIT", "2147483648")
	t.Setenv("MEMORY_RATIO", "0.75")

	result := ConfigureFromEnv()

	if !result.Configured {
		t.Fatal("expected configuration from MEMORY_LIMIT")
	}
	if result.Ratio != 0.75 {
		t.Errorf("expected ratio 0.75, got %v", result.Ratio)
	}
	if want := int64(float64(2147483648) * 0.75); result.GoMemLimit != want {
		t.Errorf("expected go limit %d, got %d", want, result.GoMemLimit)
	}
}

func TestConfigureFromEnvInvalidLimit(t *testing.T) {
	restoreMemLimit(t)
	t.Setenv("GOMEMLIMIT", "")
	t.Setenv("MEMORY_LIMIT", "one gigabyte")

	result := ConfigureFromEnv()

	if result.Configured {
		t.Error("expected an unparseable MEMORY_LIMIT to be ignored")
	}
	if result.Source != "none" {
		t.Errorf("expected source none, got %q", result.Source)
	}
}

func TestConfigureFromEnvRatioValidation(t *testing.T) {
	tests := []struct {
		name  string
		ratio string
		want  float64
	}{
		{"Not a number", "most of it", DefaultMemoryRatio},
		{"Zero", "0", DefaultMemoryRatio},
		{"Negative", "-0.5", DefaultMemoryRatio},
		{"Above one", "1.5", DefaultMemoryRatio},
		{"Boundary one", "1.0", 1.0},
		{"Near zero", "0.01", 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restoreMemLimit(t)
			t.Setenv("GOMEMLIMIT", "")
			t.Setenv("MEMORY_LIMIT", "1073741824")
			t.Setenv("MEMORY_RATIO", tt.ratio)

			result := ConfigureFromEnv()

			if !result.Configured {
				t.Fatal("a bad ratio must not block configuration")
			}
			if result.Ratio != tt.want {
				t.Errorf("expected ratio %v, got %v", tt.want, result.Ratio)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1048576, "1.0 MiB"},
		{1073741824, "1.0 GiB"},
		{1610612736, "1.5 GiB"},
		{1099511627776, "1.0 TiB"},
	}

	for _, tt := range tests {
		if got := formatBytes(tt.bytes); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}
