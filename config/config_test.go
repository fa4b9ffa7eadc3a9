package config

import (
	"os"
	"path/filepath"
	"testing"
)

// clearEnv blanks every variable Load reads so the host environment cannot
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		EnvConfigFile, EnvMaxFileBytes, EnvPageSize, EnvCustomWidth,
		EnvCustomHeight, EnvOutputDir, EnvStripExtension,
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.MaxFileSizeBytes != DefaultMaxFileBytes {
		t.Errorf("MaxFileSizeBytes = %d, want %d", cfg.MaxFileSizeBytes, DefaultMaxFileBytes)
	}
	if cfg.PageSize != DefaultPageSize {
		t.Errorf("PageSize = %q, want %q", cfg.PageSize, DefaultPageSize)
	}
	if cfg.CustomWidth != DefaultCustomSide || cfg.CustomHeight != DefaultCustomSide {
		t.Errorf("custom = %gx%g, want %gx%g", cfg.CustomWidth, cfg.CustomHeight, DefaultCustomSide, DefaultCustomSide)
	}
	if cfg.StripExtension {
		t.Error("StripExtension = true, want false")
	}
}

func TestLoad_MaxFileBytesFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvMaxFileBytes, "1048576") // 1 MiB

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.MaxFileSizeBytes != 1_048_576 {
		t.Errorf("MaxFileSizeBytes = %d, want 1048576", cfg.MaxFileSizeBytes)
	}
}

func TestLoad_InvalidEnvIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvMaxFileBytes, "not-a-number")
	t.Setenv(EnvCustomWidth, "wide")
	t.Setenv(EnvCustomHeight, "-5")
	t.Setenv(EnvStripExtension, "maybe")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.MaxFileSizeBytes != DefaultMaxFileBytes {
		t.Errorf("MaxFileSizeBytes = %d, want default %d", cfg.MaxFileSizeBytes, DefaultMaxFileBytes)
	}
	if cfg.CustomWidth != DefaultCustomSide || cfg.CustomHeight != DefaultCustomSide {
		t.Errorf("custom = %gx%g, want defaults", cfg.CustomWidth, cfg.CustomHeight)
	}
	if cfg.StripExtension {
		t.Error("StripExtension = true, want false")
	}
}

func TestLoad_NonFiniteSidesIgnored(t *testing.T) {
	for _, v := range []string{"Inf", "+Inf", "-Inf", "NaN", "1e400"} {
		t.Run(v, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(EnvCustomWidth, v)
			t.Setenv(EnvCustomHeight, v)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.CustomWidth != DefaultCustomSide || cfg.CustomHeight != DefaultCustomSide {
				t.Errorf("custom = %gx%g, want defaults", cfg.CustomWidth, cfg.CustomHeight)
			}
		})
	}
}

func TestLoad_YAMLInfinityIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvConfigFile, writeConfig(t, "custom_width: .inf\ncustom_height: 250\n"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CustomWidth != DefaultCustomSide {
		t.Errorf("CustomWidth = %g, want default %g", cfg.CustomWidth, DefaultCustomSide)
	}
	if cfg.CustomHeight != 250 {
		t.Errorf("CustomHeight = %g, want 250", cfg.CustomHeight)
	}
}

func TestLoad_ZeroMaxFileBytesIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvMaxFileBytes, "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.MaxFileSizeBytes != DefaultMaxFileBytes {
		t.Errorf("MaxFileSizeBytes = %d, want default %d", cfg.MaxFileSizeBytes, DefaultMaxFileBytes)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvConfigFile, writeConfig(t, `
page_size: letter
custom_width: 350
custom_height: 250
output_dir: /tmp/out
strip_extension: true
`))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.PageSize != "letter" {
		t.Errorf("PageSize = %q, want letter", cfg.PageSize)
	}
	if cfg.CustomWidth != 350 || cfg.CustomHeight != 250 {
		t.Errorf("custom = %gx%g, want 350x250", cfg.CustomWidth, cfg.CustomHeight)
	}
	if cfg.OutputDir != "/tmp/out" {
		t.Errorf("OutputDir = %q, want /tmp/out", cfg.OutputDir)
	}
	if !cfg.StripExtension {
		t.Error("StripExtension = false, want true")
	}
	if cfg.MaxFileSizeBytes != DefaultMaxFileBytes {
		t.Errorf("MaxFileSizeBytes = %d, want default", cfg.MaxFileSizeBytes)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvConfigFile, writeConfig(t, "page_size: letter\nstrip_extension: true\n"))
	t.Setenv(EnvPageSize, "a3")
	t.Setenv(EnvStripExtension, "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.PageSize != "a3" {
		t.Errorf("PageSize = %q, want a3", cfg.PageSize)
	}
	if cfg.StripExtension {
		t.Error("StripExtension = true, want false")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvConfigFile, writeConfig(t, "page_size: [unterminated"))

	if _, err := Load(); err == nil {
		t.Fatal("expected an error, got nil")
	}

	cfg := MustLoad()
	if cfg.PageSize != DefaultPageSize {
		t.Errorf("MustLoad PageSize = %q, want default", cfg.PageSize)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvConfigFile, filepath.Join(t.TempDir(), "absent.yaml"))

	if _, err := Load(); err == nil {
		t.Fatal("expected an error, got nil")
	}
}

func TestMaxFileSizeMB(t *testing.T) {
	cfg := &Config{MaxFileSizeBytes: 10 << 20} // 10 MiB
	if got := cfg.MaxFileSizeMB(); got != 10 {
		t.Errorf("MaxFileSizeMB() = %d, want 10", got)
	}
}
