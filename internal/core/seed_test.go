package core

import (
	"errors"
	"testing"

	"github.com/seckatie/urlrota/internal/core/db"
	"github.com/seckatie/urlrota/internal/logger"
)

const seedYAML = `
domains:
  - name: news
    default: true
  - name: sport
browsers:
  - name: firefox
    vpn_code: us
    command: /usr/bin/firefox
  - name: chrome
    launcher: chromedp
urls:
  - url: https://a.example
    domain: news
    weight: 3
  - url: https://a.example
    domain: news
  - url: https://b.example
    domain: sport
`

func TestParseSeed(t *testing.T) {
	s, err := ParseSeed([]byte(seedYAML))
	if err != nil {
		t.Fatalf("ParseSeed failed: %v", err)
	}
	if len(s.Domains) != 2 || !s.Domains[0].Default {
		t.Errorf("unexpected domains: %+v", s.Domains)
	}
	if len(s.Browsers) != 2 || s.Browsers[1].Launcher != db.LauncherChromedp {
		t.Errorf("unexpected browsers: %+v", s.Browsers)
	}
	if len(s.URLs) != 3 || s.URLs[0].Weight != 3 {
		t.Errorf("unexpected urls: %+v", s.URLs)
	}

	if _, err := ParseSeed([]byte("domians: []\n")); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for unknown key, got %v", err)
	}
	if s, err := ParseSeed(nil); err != nil || len(s.Domains) != 0 {
		t.Errorf("expected empty seed for empty input, got %+v, %v", s, err)
	}
}

func TestApplySeed(t *testing.T) {
	store, err := db.NewSQLiteDB(":memory:", logger.Nop())
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	defer store.Close()
	if err := store.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	s, err := ParseSeed([]byte(seedYAML))
	if err != nil {
		t.Fatalf("ParseSeed failed: %v", err)
	}
	res, err := ApplySeed(store, s)
	if err != nil {
		t.Fatalf("ApplySeed failed: %v", err)
	}
	if res.Domains != 2 || res.Browsers != 2 || res.URLs != 2 || res.Duplicates != 1 {
		t.Errorf("unexpected result: %+v", res)
	}

	_, def, _ := store.ListDomains()
	if def != "news" {
		t.Errorf("expected default domain news, got %q", def)
	}
	b, err := store.GetBrowserByName("firefox")
	if err != nil || b.VPNCode != "us" {
		t.Errorf("unexpected browser: %+v, %v", b, err)
	}

	bad := Seed{Browsers: []SeedBrowser{{Name: "nocmd"}}}
	if _, err := ApplySeed(store, bad); err == nil {
		t.Error("expected error for browser without command")
	}
}
