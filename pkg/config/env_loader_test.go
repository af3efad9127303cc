package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}
	return path
}

func TestLoadDotenv(t *testing.T) {
	content := `# HEMIS bridge credentials
HEMIS_DOTENV_TEST_A=plain
export HEMIS_DOTENV_TEST_B=exported

HEMIS_DOTENV_TEST_C="double quoted"
HEMIS_DOTENV_TEST_D='single quoted'
HEMIS_DOTENV_TEST_E = padded
`
	path := writeEnvFile(t, content)

	keys := []string{
		"HEMIS_DOTENV_TEST_A", "HEMIS_DOTENV_TEST_B", "HEMIS_DOTENV_TEST_C",
		"HEMIS_DOTENV_TEST_D", "HEMIS_DOTENV_TEST_E",
	}
	for _, key := range keys {
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("Failed to unset %s: %v", key, err)
		}
	}
	t.Cleanup(func() {
		for _, key := range keys {
			_ = os.Unsetenv(key)
		}
	})

	if err := LoadDotenv(path); err != nil {
		t.Fatalf("LoadDotenv failed: %v", err)
	}

	expected := map[string]string{
		"HEMIS_DOTENV_TEST_A": "plain",
		"HEMIS_DOTENV_TEST_B": "exported",
		"HEMIS_DOTENV_TEST_C": "double quoted",
		"HEMIS_DOTENV_TEST_D": "single quoted",
		"HEMIS_DOTENV_TEST_E": "padded",
	}
	for key, want := range expected {
		if got := os.Getenv(key); got != want {
			t.Errorf("Expected %s=%q, got %q", key, want, got)
		}
	}
}

func TestLoadDotenv_EnvironmentWins(t *testing.T) {
	path := writeEnvFile(t, "HEMIS_DOTENV_TEST_PRESET=from-file\n")

	t.Setenv("HEMIS_DOTENV_TEST_PRESET", "from-env")

	if err := LoadDotenv(path); err != nil {
		t.Fatalf("LoadDotenv failed: %v", err)
	}
	if got := os.Getenv("HEMIS_DOTENV_TEST_PRESET"); got != "from-env" {
		t.Errorf("Expected existing environment to win over the file, got %q", got)
	}
}

func TestLoadDotenv_MissingFile(t *testing.T) {
	if err := LoadDotenv(filepath.Join(t.TempDir(), "no-such.env")); err == nil {
		t.Error("Expected error for missing env file")
	}
}

func TestParseEnvFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no equals sign", "JUST_A_WORD\n"},
		{"key with space", "BAD KEY=value\n"},
		{"empty key", "=value\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeEnvFile(t, tt.content)
			if _, err := parseEnvFile(path); err == nil {
				t.Error("Expected parse error")
			}
		})
	}
}
