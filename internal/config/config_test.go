package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/StoreStation/vibeclient/internal/auth"
)

func TestApplyStartsFromDefaultsAndLayersOptions(t *testing.T) {
	acc := auth.Offline("Steve")
	s := Apply(acc, "localhost:25565", WithViewDistance(4), WithPathfindTimeout(2*time.Second))

	if s.Account.Name != "Steve" {
		t.Fatalf("expected account to carry through, got %+v", s.Account)
	}
	if s.Address != "localhost:25565" {
		t.Fatalf("unexpected address: %q", s.Address)
	}
	if s.ClientInformation.ViewDistance != 4 {
		t.Fatalf("expected WithViewDistance to override default 8, got %d", s.ClientInformation.ViewDistance)
	}
	if s.ClientInformation.Locale != "en_us" {
		t.Fatalf("expected unrelated defaults to survive, got locale %q", s.ClientInformation.Locale)
	}
	if s.PathfindTimeout != 2*time.Second {
		t.Fatalf("expected WithPathfindTimeout override, got %v", s.PathfindTimeout)
	}
}

func TestWithMetricsDefaultsOff(t *testing.T) {
	s := Apply(auth.Offline("Steve"), "localhost:25565")
	if s.EnableMetrics {
		t.Fatal("expected EnableMetrics to default false")
	}
	s2 := Apply(auth.Offline("Steve"), "localhost:25565", WithMetrics())
	if !s2.EnableMetrics {
		t.Fatal("expected WithMetrics to turn metrics on")
	}
}

func TestLoadBotFileParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bots.yaml")
	contents := `
bots:
  - name: Alice
    address: localhost:25565
    offline: true
    view_distance: 6
    pathfind_timeout: 500ms
  - name: Bob
    address: localhost:25566
    offline: false
    access_token: some-token
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, err := LoadBotFile(path)
	if err != nil {
		t.Fatalf("LoadBotFile: %v", err)
	}
	if f == nil || len(f.Bots) != 2 {
		t.Fatalf("expected 2 bots, got %+v", f)
	}
	if f.Bots[0].Name != "Alice" || f.Bots[0].ViewDistance != 6 {
		t.Fatalf("unexpected first bot: %+v", f.Bots[0])
	}
	if f.Bots[0].PathfindTimeoutDuration() != 500*time.Millisecond {
		t.Fatalf("expected parsed 500ms, got %v", f.Bots[0].PathfindTimeoutDuration())
	}
	if f.Bots[1].PathfindTimeoutDuration() != Defaults().PathfindTimeout {
		t.Fatalf("expected default fallback for unset timeout, got %v", f.Bots[1].PathfindTimeoutDuration())
	}
	if f.Bots[1].Name != "Bob" || f.Bots[1].AccessToken != "some-token" {
		t.Fatalf("unexpected second bot: %+v", f.Bots[1])
	}
}

func TestLoadBotFileEmptyPathWithoutEnvReturnsNil(t *testing.T) {
	os.Unsetenv("VIBECLIENT_BOTS")
	f, err := LoadBotFile("")
	if err != nil {
		t.Fatalf("LoadBotFile: %v", err)
	}
	if f != nil {
		t.Fatalf("expected nil BotFile when unset, got %+v", f)
	}
}
