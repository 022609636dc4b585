package core

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/bingbr/League-API-datastore/internal/riot"
	"github.com/bingbr/League-API-datastore/internal/riot/cdn"
)

// Static identifies the static data release an entity belongs to.
type Static struct {
	Region  riot.Region
	Version string
	Locale  string
}

type Champion struct {
	Static
	ID           int
	Name         string
	IncludedData []string

	Key   string
	Title string
	Blurb string
	Tags  []string
	Image string
	// Loaded is set on values built from wire data.
	Loaded bool
}

func (Champion) Kind() Kind { return KindChampion }

type Rune struct {
	Static
	ID           int
	Name         string
	IncludedData []string

	Key       string
	Tree      string
	TreeID    int
	Icon      string
	ShortDesc string
	Loaded    bool
}

func (Rune) Kind() Kind { return KindRune }

type Item struct {
	Static
	ID           int
	Name         string
	IncludedData []string

	Plaintext string
	Tags      []string
	GoldTotal int
	Into      []int
	Image     string
	Loaded    bool
}

func (Item) Kind() Kind { return KindItem }

type Map struct {
	Static
	ID   int
	Name string

	Image  string
	Loaded bool
}

func (Map) Kind() Kind { return KindMap }

type SummonerSpell struct {
	Static
	ID           int
	Name         string
	IncludedData []string

	Key           string
	Description   string
	SummonerLevel int
	Modes         []string
	Image         string
	Loaded        bool
}

func (SummonerSpell) Kind() Kind { return KindSummonerSpell }

type Realms struct {
	Region riot.Region
}

func (Realms) Kind() Kind { return KindRealms }

type ProfileIcon struct {
	Static
	ID int

	Image  string
	Loaded bool
}

func (ProfileIcon) Kind() Kind { return KindProfileIcon }

type LanguageStrings struct {
	Static
}

func (LanguageStrings) Kind() Kind { return KindLanguageStrings }

// ChampionsFromData converts a champion list, ordered by numeric id.
func ChampionsFromData(list cdn.ChampionList, s Static) []Champion {
	out := make([]Champion, 0, len(list.Data))
	for _, c := range list.Data {
		out = append(out, ChampionFromData(c, s))
	}
	slices.SortFunc(out, func(a, b Champion) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

func ChampionFromData(c cdn.Champion, s Static) Champion {
	id, _ := strconv.Atoi(c.Key)
	if c.Version != "" {
		s.Version = c.Version
	}
	return Champion{
		Static: s,
		ID:     id,
		Name:   c.Name,
		Key:    c.ID,
		Title:  c.Title,
		Blurb:  c.Blurb,
		Tags:   slices.Clone(c.Tags),
		Image:  c.Image.Full,
		Loaded: true,
	}
}

func ItemsFromData(list cdn.ItemList, s Static) []Item {
	if list.Version != "" {
		s.Version = list.Version
	}
	out := make([]Item, 0, len(list.Data))
	for key, item := range list.Data {
		id, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		into := make([]int, 0, len(item.Into))
		for _, raw := range item.Into {
			if n, err := strconv.Atoi(raw); err == nil {
				into = append(into, n)
			}
		}
		out = append(out, Item{
			Static:    s,
			ID:        id,
			Name:      item.Name,
			Plaintext: item.Plaintext,
			Tags:      slices.Clone(item.Tags),
			GoldTotal: item.Gold.Total,
			Into:      into,
			Image:     item.Image.Full,
			Loaded:    true,
		})
	}
	slices.SortFunc(out, func(a, b Item) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

func MapsFromData(list cdn.MapList, s Static) []Map {
	if list.Version != "" {
		s.Version = list.Version
	}
	out := make([]Map, 0, len(list.Data))
	for key, m := range list.Data {
		id, err := strconv.Atoi(cmp.Or(m.MapID, key))
		if err != nil {
			continue
		}
		out = append(out, Map{Static: s, ID: id, Name: m.MapName, Image: m.Image.Full, Loaded: true})
	}
	slices.SortFunc(out, func(a, b Map) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

func ProfileIconsFromData(list cdn.ProfileIconList, s Static) []ProfileIcon {
	if list.Version != "" {
		s.Version = list.Version
	}
	out := make([]ProfileIcon, 0, len(list.Data))
	for _, icon := range list.Data {
		out = append(out, ProfileIcon{Static: s, ID: icon.ID, Image: icon.Image.Full, Loaded: true})
	}
	slices.SortFunc(out, func(a, b ProfileIcon) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// RunesFromData flattens rune trees in tree, slot, rune order.
func RunesFromData(trees []cdn.RuneTree, s Static) []Rune {
	var out []Rune
	for _, tree := range trees {
		for _, slot := range tree.Slots {
			for _, r := range slot.Runes {
				out = append(out, Rune{
					Static:    s,
					ID:        r.ID,
					Name:      r.Name,
					Key:       r.Key,
					Tree:      tree.Key,
					TreeID:    tree.ID,
					Icon:      r.Icon,
					ShortDesc: r.ShortDesc,
					Loaded:    true,
				})
			}
		}
	}
	return out
}

func SummonerSpellsFromData(list cdn.SummonerSpellList, s Static) []SummonerSpell {
	if list.Version != "" {
		s.Version = list.Version
	}
	out := make([]SummonerSpell, 0, len(list.Data))
	for _, spell := range list.Data {
		id, err := strconv.Atoi(spell.Key)
		if err != nil {
			continue
		}
		out = append(out, SummonerSpell{
			Static:        s,
			ID:            id,
			Name:          spell.Name,
			Key:           spell.ID,
			Description:   spell.Description,
			SummonerLevel: spell.SummonerLevel,
			Modes:         slices.Clone(spell.Modes),
			Image:         spell.Image.Full,
			Loaded:        true,
		})
	}
	slices.SortFunc(out, func(a, b SummonerSpell) int { return cmp.Compare(a.ID, b.ID) })
	return out
}
