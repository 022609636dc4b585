package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/bingbr/League-API-datastore/internal/core"
	"github.com/bingbr/League-API-datastore/internal/ghost"
	"github.com/bingbr/League-API-datastore/internal/query"
	"github.com/bingbr/League-API-datastore/internal/riot"
	"github.com/bingbr/League-API-datastore/internal/riot/cdn"
)

const usage = `usage:
  history -account <id> [-region NA] [-queues 420,440] [-seasons 13] [-champions 103]
          [-begin <time>] [-end <time>] [-begin-index n] [-end-index n] [-replay]
  get <Kind> [key=value ...]
  list <Kind> [key=value ...]
  warm [-region NA] [-version 14.1.1] [-locale en_US]

Times are RFC 3339, YYYY-MM-DD or unix milliseconds. Set values are written
as key=a,b or key=[a].`

var (
	ErrUsage = errors.New("invalid command line")

	encoder = jsoniter.ConfigCompatibleWithStandardLibrary
)

type command interface {
	run(ctx context.Context, s *services, out io.Writer) error
}

func usageError(format string, args ...any) error {
	return fmt.Errorf("%w: %s\n\n%s", ErrUsage, fmt.Sprintf(format, args...), usage)
}

func parseCommand(args []string, region riot.Region) (command, error) {
	if len(args) == 0 {
		return nil, usageError("missing command")
	}
	name, rest := strings.ToLower(strings.TrimSpace(args[0])), args[1:]
	switch name {
	case "history":
		return parseHistory(rest, region)
	case "get", "list":
		return parseResolve(name, rest, region)
	case "warm":
		return parseWarm(rest, region)
	default:
		return nil, usageError("unknown command %q", args[0])
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

type historyCommand struct {
	query  query.Query
	replay bool
}

func parseHistory(args []string, region riot.Region) (command, error) {
	fs := newFlagSet("history")
	account := fs.Int64("account", 0, "account id")
	regionFlag := fs.String("region", string(region), "region")
	queues := fs.String("queues", "", "comma separated queue ids")
	seasons := fs.String("seasons", "", "comma separated season ids")
	champions := fs.String("champions", "", "comma separated champion ids")
	begin := fs.String("begin", "", "exclusive lower creation bound")
	end := fs.String("end", "", "upper creation bound")
	beginIndex := fs.Int("begin-index", 0, "first index")
	endIndex := fs.Int("end-index", -1, "exclusive last index")
	replay := fs.Bool("replay", false, "read from the cache only")
	if err := fs.Parse(args); err != nil {
		return nil, usageError("history: %v", err)
	}
	if *account <= 0 {
		return nil, usageError("history: -account is required")
	}

	q := query.Query{
		"account.id":    *account,
		query.KeyRegion: *regionFlag,
		"beginIndex":    *beginIndex,
	}
	if *endIndex >= 0 {
		q["endIndex"] = *endIndex
	}
	for key, raw := range map[string]string{"beginTime": *begin, "endTime": *end} {
		if raw == "" {
			continue
		}
		t, err := parseTime(raw)
		if err != nil {
			return nil, usageError("history: %s: %v", key, err)
		}
		q[key] = t.UnixMilli()
	}
	for key, raw := range map[string]string{"queues": *queues, "seasons": *seasons, "champion.ids": *champions} {
		if list := splitList(raw); len(list) > 0 {
			q[key] = list
		}
	}
	return historyCommand{query: q, replay: *replay}, nil
}

func (c historyCommand) run(ctx context.Context, s *services, out io.Writer) error {
	store := s.store
	if c.replay {
		replayStore, err := s.replayStore()
		if err != nil {
			return fmt.Errorf("history: %w", err)
		}
		store = replayStore
	}

	matches, err := ghost.GetMany[core.Match](ctx, store, core.KindMatchHistory, c.query)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	enc := encoder.NewEncoder(out)
	count := 0
	for match, err := range matches.All(ctx) {
		if err != nil {
			return fmt.Errorf("history: %w", err)
		}
		if err := enc.Encode(match); err != nil {
			return fmt.Errorf("history: write: %w", err)
		}
		count++
	}
	s.logger.Info("Match history fetched", "account", c.query["account.id"], "matches", count, "pages", matches.Pages(), "replay", c.replay)
	return nil
}

type resolveCommand struct {
	many  bool
	kind  core.Kind
	query query.Query
}

func parseResolve(name string, args []string, region riot.Region) (command, error) {
	if len(args) == 0 {
		return nil, usageError("%s: missing kind", name)
	}
	kind, err := core.ParseKind(args[0])
	if err != nil {
		return nil, usageError("%s: %v", name, err)
	}
	q, err := parsePairs(args[1:])
	if err != nil {
		return nil, usageError("%s: %v", name, err)
	}
	if _, ok := q[query.KeyRegion]; !ok {
		if _, ok := q[query.KeyPlatform]; !ok {
			q[query.KeyRegion] = string(region)
		}
	}
	return resolveCommand{many: name == "list", kind: kind, query: q}, nil
}

func (c resolveCommand) run(ctx context.Context, s *services, out io.Writer) error {
	enc := encoder.NewEncoder(out)
	if !c.many {
		entity, err := s.store.Get(ctx, c.kind, c.query)
		if err != nil {
			return fmt.Errorf("get %s: %w", c.kind, err)
		}
		return enc.Encode(entity)
	}

	many, err := s.store.GetMany(ctx, c.kind, c.query)
	if err != nil {
		return fmt.Errorf("list %s: %w", c.kind, err)
	}
	count := 0
	err = many.Each(ctx, func(item any) error {
		count++
		return enc.Encode(item)
	})
	if err != nil {
		return fmt.Errorf("list %s: %w", c.kind, err)
	}
	s.logger.Debug("Collection listed", "kind", c.kind.String(), "items", count)
	return nil
}

type warmCommand struct {
	region  riot.Region
	version string
	locale  string
}

func parseWarm(args []string, region riot.Region) (command, error) {
	fs := newFlagSet("warm")
	regionFlag := fs.String("region", string(region), "region")
	version := fs.String("version", "", "static data version")
	locale := fs.String("locale", "", "static data locale")
	if err := fs.Parse(args); err != nil {
		return nil, usageError("warm: %v", err)
	}
	parsed, err := riot.ParseRegion(*regionFlag)
	if err != nil {
		return nil, usageError("warm: %v", err)
	}
	return warmCommand{region: parsed, version: *version, locale: *locale}, nil
}

func (c warmCommand) run(ctx context.Context, s *services, out io.Writer) error {
	var recorder cdn.SyncRecorder
	if s.cache != nil {
		recorder = s.cache
	}
	summary, err := cdn.Warm(ctx, s.static, s.realms, recorder, strings.ToLower(string(c.region)), c.version, c.locale)
	if err != nil {
		return fmt.Errorf("warm: %w", err)
	}
	s.logger.Info("Static data warmed", "region", c.region.String(), "version", summary.Version, "locale", summary.Locale, "champions", summary.Champions, "items", summary.Items)
	return encoder.NewEncoder(out).Encode(summary)
}

// parsePairs reads key=value arguments into a raw query.
func parsePairs(args []string) (query.Query, error) {
	q := query.Query{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("argument %q is not key=value", arg)
		}
		if _, dup := q[key]; dup {
			return nil, fmt.Errorf("duplicate key %q", key)
		}
		q[key] = parseValue(value)
	}
	return q, nil
}

func parseValue(raw string) any {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		return splitList(raw[1 : len(raw)-1])
	}
	if strings.Contains(raw, ",") {
		return splitList(raw)
	}
	return raw
}

func splitList(raw string) []string {
	out := []string{}
	for part := range strings.SplitSeq(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a time", raw)
}
