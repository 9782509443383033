package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

func TestNewConfigWithJSON(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	resetEnv(t, "SERVER_ADDRESS", "BASE_URL", "CONFIG", "GEMINI_API_KEY", "BASECAMP_TOKEN")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")
	jsonContent := `{
		"server_address": "json:8000",
		"base_url": "http://json",
		"gemini_api_key": "file-key",
		"api_timeout": 90
	}`
	if err := os.WriteFile(configPath, []byte(jsonContent), 0644); err != nil {
		t.Fatal(err)
	}

	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	os.Args = []string{"cmd", "-c", configPath}

	cfg := NewConfig()

	if cfg.ServerAddress != "json:8000" {
		t.Errorf("NewConfig() ServerAddress = %v, want %v", cfg.ServerAddress, "json:8000")
	}

	if cfg.BaseURL != "http://json" {
		t.Errorf("NewConfig() BaseURL = %v, want %v", cfg.BaseURL, "http://json")
	}

	if cfg.GeminiAPIKey != "file-key" {
		t.Errorf("NewConfig() GeminiAPIKey = %v, want %v", cfg.GeminiAPIKey, "file-key")
	}

	if cfg.APITimeout != 90 {
		t.Errorf("NewConfig() APITimeout = %v, want %v", cfg.APITimeout, 90)
	}
}

func TestNewConfigJSONPriority(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	resetEnv(t, "SERVER_ADDRESS", "CONFIG")

	// 1. JSON says "json:8000"
	// 2. Flag says "flag:8000"
	// 3. Env says "env:8000"
	// Env should win.

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")
	jsonContent := `{"server_address": "json:8000"}`
	if err := os.WriteFile(configPath, []byte(jsonContent), 0644); err != nil {
		t.Fatal(err)
	}

	os.Setenv("SERVER_ADDRESS", "env:8000")
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	os.Args = []string{"cmd", "-c", configPath, "-a", "flag:8000"}

	cfg := NewConfig()

	if cfg.ServerAddress != "env:8000" {
		t.Errorf("NewConfig() ServerAddress = %v, want %v", cfg.ServerAddress, "env:8000")
	}
}

func TestNewConfigSecretBeatsFile(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	resetEnv(t, "GEMINI_API_KEY", "CONFIG", "SERVER_ADDRESS")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")
	jsonContent := `{"gemini_api_key": "file-key"}`
	if err := os.WriteFile(configPath, []byte(jsonContent), 0644); err != nil {
		t.Fatal(err)
	}

	os.Setenv("GEMINI_API_KEY", "secret-key")
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	os.Args = []string{"cmd", "-c", configPath}

	cfg := NewConfig()

	if cfg.GeminiAPIKey != "secret-key" {
		t.Errorf("NewConfig() GeminiAPIKey = %v, want %v", cfg.GeminiAPIKey, "secret-key")
	}
}
