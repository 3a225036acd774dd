package config

import (
	"reflect"
	"testing"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"MODE", "HTTP_ADDR", "DB_DRIVER", "CORS_ORIGINS_OFFLINE", "TAB_SWITCH_LIMIT"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()
	if cfg.Mode != ModeOffline {
		t.Errorf("mode = %q, want offline default", cfg.Mode)
	}
	if cfg.HTTPAddr != ":8080" || cfg.DBDriver != "sqlite" {
		t.Errorf("addr=%q driver=%q", cfg.HTTPAddr, cfg.DBDriver)
	}
	if cfg.TabSwitchLimit != 2 {
		t.Errorf("tab switch limit = %d", cfg.TabSwitchLimit)
	}
	want := []string{"http://localhost:3000", "http://localhost:5173"}
	if !reflect.DeepEqual(cfg.CORSOriginsOffline, want) {
		t.Errorf("offline origins = %v", cfg.CORSOriginsOffline)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("MODE", "online")
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("TAB_SWITCH_LIMIT", "5")
	t.Setenv("CORS_ORIGINS_ONLINE", "https://a.vn, https://b.vn ,")

	cfg := FromEnv()
	if cfg.Mode != ModeOnline || cfg.HTTPAddr != ":9000" || cfg.DBDriver != "postgres" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.TabSwitchLimit != 5 {
		t.Errorf("tab switch limit = %d", cfg.TabSwitchLimit)
	}
	if !reflect.DeepEqual(cfg.CORSOriginsOnline, []string{"https://a.vn", "https://b.vn"}) {
		t.Errorf("online origins = %v", cfg.CORSOriginsOnline)
	}
}

func TestEnvIntRejectsGarbage(t *testing.T) {
	t.Setenv("TAB_SWITCH_LIMIT", "nhiều")
	if got := FromEnv().TabSwitchLimit; got != 2 {
		t.Errorf("limit = %d, want default on bad input", got)
	}
}

func TestEnvIntParsesSignedValues(t *testing.T) {
	// negative limits reach the watcher, which clamps them to its default
	t.Setenv("TAB_SWITCH_LIMIT", "-1")
	if got := FromEnv().TabSwitchLimit; got != -1 {
		t.Errorf("limit = %d, want -1", got)
	}
}
