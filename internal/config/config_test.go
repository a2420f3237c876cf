package config

import (
	"testing"
	"time"
)

func getenvFrom(env map[string]string) func(string) string {
	return func(k string) string { return env[k] }
}

func TestLoadFromEnvDefaults(t *testing.T) {
	cfg, err := LoadFromEnv(getenvFrom(nil))
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if cfg.Env != "dev" {
		t.Fatalf("Env: got %q", cfg.Env)
	}
	if cfg.Addr != "127.0.0.1:8080" {
		t.Fatalf("Addr: got %q", cfg.Addr)
	}
	if cfg.UploadDir != "data/uploads" {
		t.Fatalf("UploadDir: got %q", cfg.UploadDir)
	}
	if cfg.SessionTTL != 30*24*time.Hour {
		t.Fatalf("SessionTTL: got %s", cfg.SessionTTL)
	}
	if cfg.IsProd() {
		t.Fatal("IsProd: expected false in dev")
	}
}

func TestLoadFromEnvRejectsBadEnv(t *testing.T) {
	_, err := LoadFromEnv(getenvFrom(map[string]string{"APP_ENV": "staging"}))
	if err == nil {
		t.Fatal("expected error for unknown APP_ENV")
	}
}

func TestLoadFromEnvSessionTTL(t *testing.T) {
	cfg, err := LoadFromEnv(getenvFrom(map[string]string{"APP_SESSION_TTL": "12h"}))
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if cfg.SessionTTL != 12*time.Hour {
		t.Fatalf("SessionTTL: got %s", cfg.SessionTTL)
	}

	if _, err := LoadFromEnv(getenvFrom(map[string]string{"APP_SESSION_TTL": "-1h"})); err == nil {
		t.Fatal("expected error for non-positive ttl")
	}
	if _, err := LoadFromEnv(getenvFrom(map[string]string{"APP_SESSION_TTL": "soon"})); err == nil {
		t.Fatal("expected error for unparseable ttl")
	}
}

func TestLoadFromEnvProdRequirements(t *testing.T) {
	env := map[string]string{"APP_ENV": "prod"}
	if _, err := LoadFromEnv(getenvFrom(env)); err == nil {
		t.Fatal("expected error: prod without public url")
	}

	env["APP_PUBLIC_URL"] = "https://friendfeed.example.com"
	if _, err := LoadFromEnv(getenvFrom(env)); err == nil {
		t.Fatal("expected error: prod without db dsn")
	}

	env["APP_DB_DSN"] = "postgres://u:p@127.0.0.1:5432/friendfeed"
	if _, err := LoadFromEnv(getenvFrom(env)); err == nil {
		t.Fatal("expected error: prod with short cookie secret")
	}

	env["APP_COOKIE_SECRET"] = "0123456789abcdef0123456789abcdef"
	cfg, err := LoadFromEnv(getenvFrom(env))
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if !cfg.CookieSecure() {
		t.Fatal("CookieSecure: expected true for https public url")
	}
}

func TestLoadFromEnvPublicURLValidation(t *testing.T) {
	cases := []string{"not-a-url", "ftp://example.com", "/relative/path"}
	for _, raw := range cases {
		if _, err := LoadFromEnv(getenvFrom(map[string]string{"APP_PUBLIC_URL": raw})); err == nil {
			t.Fatalf("expected error for APP_PUBLIC_URL=%q", raw)
		}
	}
}
