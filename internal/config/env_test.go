package config

import (
	"testing"
	"time"
)

func TestIntFromEnv(t *testing.T) {
	key := "TEST_INT_ENV"

	t.Run("default", func(t *testing.T) {
		got, err := IntFromEnv(key, 42)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 42 {
			t.Errorf("expected 42, got %d", got)
		}
	})

	t.Run("valid", func(t *testing.T) {
		t.Setenv(key, "100")
		got, err := IntFromEnv(key, 42)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 100 {
			t.Errorf("expected 100, got %d", got)
		}
	})

	t.Run("blank_uses_default", func(t *testing.T) {
		t.Setenv(key, "  ")
		got, err := IntFromEnv(key, 42)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 42 {
			t.Errorf("expected 42, got %d", got)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		t.Setenv(key, "not_int")
		_, err := IntFromEnv(key, 42)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestDurationSecondsFromEnv(t *testing.T) {
	key := "TEST_DURATION_ENV"

	t.Run("default", func(t *testing.T) {
		got, err := DurationSecondsFromEnv(key, 600)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 10*time.Minute {
			t.Errorf("expected 10m, got %v", got)
		}
	})

	t.Run("valid", func(t *testing.T) {
		t.Setenv(key, "90")
		got, err := DurationSecondsFromEnv(key, 600)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 90*time.Second {
			t.Errorf("expected 90s, got %v", got)
		}
	})

	t.Run("negative", func(t *testing.T) {
		t.Setenv(key, "-1")
		if _, err := DurationSecondsFromEnv(key, 600); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestBoolFromEnv(t *testing.T) {
	key := "TEST_BOOL_ENV"

	tests := []struct {
		val  string
		want bool
	}{
		{"true", true},
		{"1", true},
		{"yes", true},
		{"false", false},
		{"0", false},
		{"no", false},
	}

	for _, tt := range tests {
		t.Run(tt.val, func(t *testing.T) {
			t.Setenv(key, tt.val)
			got, err := BoolFromEnv(key, !tt.want)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	t.Run("invalid", func(t *testing.T) {
		t.Setenv(key, "maybe")
		if _, err := BoolFromEnv(key, false); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestStringFromEnv(t *testing.T) {
	key := "TEST_STRING_ENV"

	if got := StringFromEnv(key, "fallback"); got != "fallback" {
		t.Errorf("expected fallback, got %q", got)
	}

	t.Setenv(key, "  value  ")
	if got := StringFromEnv(key, "fallback"); got != "value" {
		t.Errorf("expected trimmed value, got %q", got)
	}
}

func TestStringListFromEnv(t *testing.T) {
	key := "TEST_LIST_ENV"
	fallback := []string{"Lead", "Murmureur"}

	t.Run("default", func(t *testing.T) {
		got := StringListFromEnv(key, fallback)
		if len(got) != 2 || got[0] != "Lead" {
			t.Errorf("expected fallback, got %v", got)
		}
	})

	t.Run("parsed", func(t *testing.T) {
		t.Setenv(key, "Officier, Bras Droit ,,")
		got := StringListFromEnv(key, fallback)
		if len(got) != 2 || got[0] != "Officier" || got[1] != "Bras Droit" {
			t.Errorf("unexpected list: %v", got)
		}
	})
}

func TestLoad_RequiresCredentials(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without DISCORD_TOKEN")
	}

	t.Setenv("DISCORD_TOKEN", "tok")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "tok")
	t.Setenv("DATABASE_URL", "postgres://localhost/metiers")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("DASHBOARD_CARDS_PER_PAGE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Redis.Enabled() {
		t.Error("redis should be disabled without REDIS_HOST")
	}
	if cfg.Server.Port != 8090 {
		t.Errorf("server port = %d, want 8090", cfg.Server.Port)
	}
	if cfg.Dashboard.CardsPerPage != 6 {
		t.Errorf("cards per page = %d, want 6", cfg.Dashboard.CardsPerPage)
	}
	if len(cfg.Discord.PrivilegedRoles) != 2 {
		t.Errorf("privileged roles = %v", cfg.Discord.PrivilegedRoles)
	}
}
