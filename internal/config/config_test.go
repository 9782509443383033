package config

import (
	"flag"
	"os"
	"testing"
)

func resetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		old, had := os.LookupEnv(key)
		os.Unsetenv(key)
		t.Cleanup(func() {
			if had {
				os.Setenv(key, old)
			} else {
				os.Unsetenv(key)
			}
		})
	}
}

func TestNewConfigDefault(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	resetEnv(t, "SERVER_ADDRESS", "BASE_URL", "DATABASE_DSN", "CONFIG", "GEMINI_API_KEY")

	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	os.Args = []string{"cmd"}

	cfg := NewConfig()

	if cfg.ServerAddress != ":8000" {
		t.Errorf("NewConfig() ServerAddress = %v, want %v", cfg.ServerAddress, ":8000")
	}

	if cfg.BaseURL != "http://localhost:8000" {
		t.Errorf("NewConfig() BaseURL = %v, want %v", cfg.BaseURL, "http://localhost:8000")
	}

	if cfg.APITimeout != 30 {
		t.Errorf("NewConfig() APITimeout = %v, want %v", cfg.APITimeout, 30)
	}
}

func TestNewConfigWithArgs(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	resetEnv(t, "SERVER_ADDRESS", "BASE_URL", "CONFIG")

	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	os.Args = []string{"cmd", "-a", "localhost:8888", "-b", "http://localhost:9000"}

	cfg := NewConfig()

	if cfg.ServerAddress != "localhost:8888" {
		t.Errorf("NewConfig() ServerAddress = %v, want %v", cfg.ServerAddress, "localhost:8888")
	}

	if cfg.BaseURL != "http://localhost:9000" {
		t.Errorf("NewConfig() BaseURL = %v, want %v", cfg.BaseURL, "http://localhost:9000")
	}
}

func TestNewConfigEnvOverridesFlags(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	resetEnv(t, "SERVER_ADDRESS", "CONFIG")
	os.Setenv("SERVER_ADDRESS", "env:8000")

	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	os.Args = []string{"cmd", "-a", "flag:8000"}

	cfg := NewConfig()

	if cfg.ServerAddress != "env:8000" {
		t.Errorf("NewConfig() ServerAddress = %v, want %v", cfg.ServerAddress, "env:8000")
	}
}
