// Package core holds the entity kinds and the typed values returned to callers.
package core

import (
	"fmt"
	"strings"
)

// Kind identifies a requestable entity or collection. The set is closed.
type Kind uint8

const (
	KindChampion Kind = iota + 1
	KindRune
	KindItem
	KindMap
	KindSummonerSpell
	KindRealms
	KindProfileIcon
	KindLanguageStrings
	KindSummoner
	KindChampionMastery
	KindMatch
	KindTimeline
	KindCurrentMatch
	KindShardStatus
	KindChallengerLeague
	KindMasterLeague
	KindLeague
	KindVerificationString

	KindMatchHistory
	KindChampions
	KindItems
	KindMaps
	KindProfileIcons
	KindLocales
	KindRunes
	KindSummonerSpells
	KindVersions
	KindChampionMasteries
	KindLeagueEntries
	KindFeaturedMatches

	kindEnd
)

var kindNames = [...]string{
	KindChampion:           "Champion",
	KindRune:               "Rune",
	KindItem:               "Item",
	KindMap:                "Map",
	KindSummonerSpell:      "SummonerSpell",
	KindRealms:             "Realms",
	KindProfileIcon:        "ProfileIcon",
	KindLanguageStrings:    "LanguageStrings",
	KindSummoner:           "Summoner",
	KindChampionMastery:    "ChampionMastery",
	KindMatch:              "Match",
	KindTimeline:           "Timeline",
	KindCurrentMatch:       "CurrentMatch",
	KindShardStatus:        "ShardStatus",
	KindChallengerLeague:   "ChallengerLeague",
	KindMasterLeague:       "MasterLeague",
	KindLeague:             "League",
	KindVerificationString: "VerificationString",
	KindMatchHistory:       "MatchHistory",
	KindChampions:          "Champions",
	KindItems:              "Items",
	KindMaps:               "Maps",
	KindProfileIcons:       "ProfileIcons",
	KindLocales:            "Locales",
	KindRunes:              "Runes",
	KindSummonerSpells:     "SummonerSpells",
	KindVersions:           "Versions",
	KindChampionMasteries:  "ChampionMasteries",
	KindLeagueEntries:      "LeagueEntries",
	KindFeaturedMatches:    "FeaturedMatches",
}

func AllKinds() []Kind {
	out := make([]Kind, 0, int(kindEnd)-1)
	for k := KindChampion; k < kindEnd; k++ {
		out = append(out, k)
	}
	return out
}

func (k Kind) Valid() bool {
	return k >= KindChampion && k < kindEnd
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return kindNames[k]
}

// ParseKind matches kind names case-insensitively.
func ParseKind(raw string) (Kind, error) {
	raw = strings.TrimSpace(raw)
	for _, k := range AllKinds() {
		if strings.EqualFold(kindNames[k], raw) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown kind %q", raw)
}

// Entity is a single resolved value.
type Entity interface {
	Kind() Kind
}
