package riot

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLimiterLoadFile_Missing(t *testing.T) {
	l := NewLimiter()
	loaded, err := l.LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil || loaded {
		t.Fatalf("LoadFile(missing) = %v, %v; want false, nil", loaded, err)
	}
}

func TestLimiterLoadFile_EndpointRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[riot_rate_limit]
defaults = [{ requests = 20, window = "1s" }, { requests = 100, window = "2m" }]

[[riot_rate_limit.endpoints]]
path = "/lol/match/v4/matchlists/by-account/{accountId}"
limits = [{ requests = 500, window = "10s", burst = 5 }]
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	l := NewLimiter()
	loaded, err := l.LoadFile(path)
	if err != nil || !loaded {
		t.Fatalf("LoadFile() = %v, %v; want true, nil", loaded, err)
	}
	if got := len(l.forEndpoint("https://na1.api.riotgames.com/lol/match/v4/matchlists/by-account/7")); got != 3 {
		t.Fatalf("matchlist limiters = %d, want 3", got)
	}
	if got := len(l.forEndpoint("https://na1.api.riotgames.com/lol/league/v4/entries/by-summoner/7")); got != 2 {
		t.Fatalf("league limiters = %d, want 2", got)
	}
}

func TestLimiterLoadFile_UnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[riot_rate_limit]\nbogus = 1\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := NewLimiter().LoadFile(path); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestEndpointRulePrefix(t *testing.T) {
	tests := []struct {
		in      endpointRule
		want    string
		wantErr bool
	}{
		{endpointRule{Path: "/lol/league/v4/entries/by-summoner/{id}"}, "/lol/league/v4/entries/by-summoner/", false},
		{endpointRule{Prefix: "lol/spectator/v4*"}, "/lol/spectator/v4", false},
		{endpointRule{Prefix: "/lol//summoner/v4/"}, "/lol/summoner/v4/", false},
		{endpointRule{Path: "/"}, "", true},
		{endpointRule{}, "", true},
	}
	for _, tc := range tests {
		got, err := tc.in.prefix()
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Fatalf("prefix(%+v) = %q, %v; want %q, err=%v", tc.in, got, err, tc.want, tc.wantErr)
		}
	}
}

func TestLimiterLoadFile_BadWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[riot_rate_limit]\ndefaults = [{ requests = 20, window = \"soon\" }]\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := NewLimiter().LoadFile(path); err == nil {
		t.Fatalf("expected duration parse error")
	}
}

func TestLimiterWait_HonorsCanceledPause(t *testing.T) {
	l := NewLimiter()
	l.PauseFor(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Wait(ctx, "https://na1.api.riotgames.com/x"); err == nil {
		t.Fatalf("expected context error while paused")
	}
}
