package config

import (
	"os"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidateRejectsBadBackend(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = "ftp"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for unknown storage backend")
	}
}

func TestValidateRequiresJWTSecretWhenAuthEnabled(t *testing.T) {
	cfg := Default()
	cfg.Security.EnableAuth = true
	cfg.Security.JWTSecret = ""
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error when auth enabled without a JWT secret")
	}
}

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("VOXTRACE_TEST_VALUE", "hello")
	out := substituteEnvVars(`{"x": "${VOXTRACE_TEST_VALUE}"}`)
	if out != `{"x": "hello"}` {
		t.Fatalf("unexpected substitution result: %s", out)
	}
}

func TestSubstituteEnvVarsWithDefaultFallback(t *testing.T) {
	os.Unsetenv("VOXTRACE_TEST_UNSET")
	out := substituteEnvVars(`{"x": "${VOXTRACE_TEST_UNSET:-fallback}"}`)
	if out != `{"x": "fallback"}` {
		t.Fatalf("unexpected substitution result: %s", out)
	}
}

func TestSubstituteEnvVarsWithDefaultPresentOverridesFallback(t *testing.T) {
	t.Setenv("VOXTRACE_TEST_PRESENT", "set-value")
	out := substituteEnvVars(`{"x": "${VOXTRACE_TEST_PRESENT:-fallback}"}`)
	if out != `{"x": "set-value"}` {
		t.Fatalf("unexpected substitution result: %s", out)
	}
}

func TestLoadFromEnvOverridesBackend(t *testing.T) {
	cfg := Default()
	t.Setenv("VOXTRACE_STORAGE_BACKEND", "s3")
	cfg.LoadFromEnv()
	if cfg.Storage.Backend != "s3" {
		t.Fatalf("expected env override to set storage backend to s3, got %s", cfg.Storage.Backend)
	}
}
