package cdn

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Assets is one version of every static list.
type Assets struct {
	Version        string
	Locale         string
	Champions      ChampionList
	Items          ItemList
	SummonerSpells SummonerSpellList
	Runes          []RuneTree
	Maps           MapList
	ProfileIcons   ProfileIconList
	FetchedAt      time.Time
}

// StaticSync summarizes a completed warm-up.
type StaticSync struct {
	Version        string
	Locale         string
	Champions      int
	Items          int
	SummonerSpells int
	Runes          int
	Maps           int
	ProfileIcons   int
	FetchedAt      time.Time
}

type SyncRecorder interface {
	RecordStaticSync(ctx context.Context, sync StaticSync) error
}

func (a Assets) Summary() StaticSync {
	runes := 0
	for _, tree := range a.Runes {
		for _, slot := range tree.Slots {
			runes += len(slot.Runes)
		}
	}
	return StaticSync{
		Version:        a.Version,
		Locale:         a.Locale,
		Champions:      len(a.Champions.Data),
		Items:          len(a.Items.Data),
		SummonerSpells: len(a.SummonerSpells.Data),
		Runes:          runes,
		Maps:           len(a.Maps.Data),
		ProfileIcons:   len(a.ProfileIcons.Data),
		FetchedAt:      a.FetchedAt,
	}
}

// FetchAssets downloads every static list of one version concurrently.
func FetchAssets(ctx context.Context, c *Client, ver, loc string) (Assets, error) {
	if c == nil {
		return Assets{}, fmt.Errorf("client is required")
	}
	if ver = strings.TrimSpace(ver); ver == "" {
		return Assets{}, fmt.Errorf("version is required")
	}
	if loc = strings.TrimSpace(loc); loc == "" {
		return Assets{}, fmt.Errorf("locale is required")
	}

	a := Assets{Version: ver, Locale: loc}
	g, gctx := errgroup.WithContext(ctx)
	run := func(label string, fn func() error) {
		g.Go(func() error {
			if err := fn(); err != nil {
				return fmt.Errorf("fetch %s %s: %w", label, loc, err)
			}
			return nil
		})
	}

	run("champions", func() (err error) {
		a.Champions, err = c.FetchChampions(gctx, ver, loc)
		return err
	})
	run("items", func() (err error) {
		a.Items, err = c.FetchItems(gctx, ver, loc)
		return err
	})
	run("summoner spells", func() (err error) {
		a.SummonerSpells, err = c.FetchSummonerSpells(gctx, ver, loc)
		return err
	})
	run("runes", func() (err error) {
		a.Runes, err = c.FetchRunes(gctx, ver, loc)
		return err
	})
	run("maps", func() (err error) {
		a.Maps, err = c.FetchMaps(gctx, ver, loc)
		return err
	})
	run("profile icons", func() (err error) {
		a.ProfileIcons, err = c.FetchProfileIcons(gctx, ver, loc)
		return err
	})

	if err := g.Wait(); err != nil {
		return Assets{}, err
	}
	a.FetchedAt = time.Now().UTC()
	return a, nil
}

// Warm fetches every static list of a region's current realm and records the
// result. Empty version or locale fall back to the realm values.
func Warm(ctx context.Context, c *Client, realms *Realms, rec SyncRecorder, region, ver, loc string) (StaticSync, error) {
	if realms == nil {
		realms = NewRealms(c, 0)
	}
	if strings.TrimSpace(ver) == "" || strings.TrimSpace(loc) == "" {
		realm, err := realms.Get(ctx, region)
		if err != nil {
			return StaticSync{}, err
		}
		if strings.TrimSpace(ver) == "" {
			ver = realm.Version
		}
		if strings.TrimSpace(loc) == "" {
			loc = realm.Locale
		}
	}

	assets, err := FetchAssets(ctx, c, ver, loc)
	if err != nil {
		return StaticSync{}, err
	}
	summary := assets.Summary()
	if rec != nil {
		if err := rec.RecordStaticSync(ctx, summary); err != nil {
			return StaticSync{}, fmt.Errorf("record static sync: %w", err)
		}
	}
	return summary, nil
}
