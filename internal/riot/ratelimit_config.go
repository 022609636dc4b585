package riot

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// limitsFile is the layout of the rate limit file:
//
//	[riot_rate_limit]
//	defaults = [{ requests = 20, window = "1s" }]
//
//	[[riot_rate_limit.endpoints]]
//	path = "/lol/match/v4/matchlists/by-account/{accountId}"
//	limits = [{ requests = 1000, window = "10s", burst = 10 }]
type limitsFile struct {
	Riot struct {
		Defaults  []windowSpec   `toml:"defaults"`
		Endpoints []endpointRule `toml:"endpoints"`
	} `toml:"riot_rate_limit"`
}

type windowSpec struct {
	Requests int          `toml:"requests"`
	Window   tomlDuration `toml:"window"`
	Burst    int          `toml:"burst"`
}

// endpointRule scopes extra windows to the requests under one path.
// Path may be a route template; it is cut at the first placeholder.
type endpointRule struct {
	Prefix string       `toml:"prefix"`
	Path   string       `toml:"path"`
	Limits []windowSpec `toml:"limits"`
}

type tomlDuration time.Duration

func (d *tomlDuration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = tomlDuration(parsed)
	return nil
}

// LoadFile replaces the limiter windows with the ones declared in a TOML file.
// A missing file leaves the limiter unchanged and reports loaded=false.
func (l *Limiter) LoadFile(file string) (loaded bool, err error) {
	file = strings.TrimSpace(file)
	if file == "" {
		return false, nil
	}

	var parsed limitsFile
	meta, err := toml.DecodeFile(file, &parsed)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("rate limit config %q: %w", file, err)
	}
	if extra := meta.Undecoded(); len(extra) > 0 {
		keys := make([]string, len(extra))
		for i, key := range extra {
			keys[i] = key.String()
		}
		slices.Sort(keys)
		return false, fmt.Errorf("rate limit config %q: unknown keys %s", file, strings.Join(keys, ", "))
	}

	defaults := toWindows(parsed.Riot.Defaults)
	endpoints := make(map[string][]rateLimitWindow, len(parsed.Riot.Endpoints))
	for i, rule := range parsed.Riot.Endpoints {
		prefix, err := rule.prefix()
		if err != nil {
			return false, fmt.Errorf("rate limit config %q: endpoints[%d]: %w", file, i, err)
		}
		if windows := toWindows(rule.Limits); len(windows) > 0 {
			endpoints[prefix] = windows
		}
	}
	if err := l.apply(defaults, endpoints); err != nil {
		return false, fmt.Errorf("rate limit config %q: %w", file, err)
	}
	return true, nil
}

func toWindows(windows []windowSpec) []rateLimitWindow {
	out := make([]rateLimitWindow, 0, len(windows))
	for _, w := range windows {
		out = append(out, rateLimitWindow{Requests: w.Requests, Window: time.Duration(w.Window), Burst: w.Burst})
	}
	return out
}

func (r endpointRule) prefix() (string, error) {
	raw := strings.TrimSpace(r.Prefix)
	if raw == "" {
		raw = strings.TrimSpace(r.Path)
	}
	if raw == "" {
		return "", errors.New("prefix or path is required")
	}
	if before, _, ok := strings.Cut(raw, "{"); ok {
		raw = before
	}
	raw = strings.TrimSuffix(raw, "*")
	trailing := strings.HasSuffix(raw, "/")
	cleaned := path.Clean("/" + raw)
	if cleaned == "/" {
		return "", fmt.Errorf("prefix %q matches every endpoint", raw)
	}
	if trailing {
		cleaned += "/"
	}
	return cleaned, nil
}
