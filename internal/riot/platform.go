package riot

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Region is a player-facing shard name such as "NA" or "EUW".
type Region string

// Platform is the routing value used in API hosts, such as "NA1".
type Platform string

const (
	RegionBrazil            Region = "BR"
	RegionEuropeNorthEast   Region = "EUNE"
	RegionEuropeWest        Region = "EUW"
	RegionJapan             Region = "JP"
	RegionKorea             Region = "KR"
	RegionLatinAmericaNorth Region = "LAN"
	RegionLatinAmericaSouth Region = "LAS"
	RegionNorthAmerica      Region = "NA"
	RegionOceania           Region = "OCE"
	RegionTurkey            Region = "TR"
	RegionRussia            Region = "RU"
	RegionPBE               Region = "PBE"
	RegionPhilippines       Region = "PH"
	RegionSingapore         Region = "SG"
	RegionThailand          Region = "TH"
	RegionTaiwan            Region = "TW"
	RegionVietnam           Region = "VN"
	RegionMiddleEast        Region = "ME"
)

var (
	ErrUnknownRegion   = errors.New("unknown region")
	ErrUnknownPlatform = errors.New("unknown platform")
)

var platformByRegion = map[Region]Platform{
	RegionBrazil:            "BR1",
	RegionEuropeNorthEast:   "EUN1",
	RegionEuropeWest:        "EUW1",
	RegionJapan:             "JP1",
	RegionKorea:             "KR",
	RegionLatinAmericaNorth: "LA1",
	RegionLatinAmericaSouth: "LA2",
	RegionNorthAmerica:      "NA1",
	RegionOceania:           "OC1",
	RegionTurkey:            "TR1",
	RegionRussia:            "RU",
	RegionPBE:               "PBE1",
	RegionPhilippines:       "PH2",
	RegionSingapore:         "SG2",
	RegionThailand:          "TH2",
	RegionTaiwan:            "TW2",
	RegionVietnam:           "VN2",
	RegionMiddleEast:        "ME1",
}

var regionByPlatform = func() map[Platform]Region {
	out := make(map[Platform]Region, len(platformByRegion))
	for region, platform := range platformByRegion {
		out[platform] = region
	}
	return out
}()

// Regions lists every known region in a stable order.
func Regions() []Region {
	out := make([]Region, 0, len(platformByRegion))
	for region := range platformByRegion {
		out = append(out, region)
	}
	slices.Sort(out)
	return out
}

func ParseRegion(raw string) (Region, error) {
	region := Region(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := platformByRegion[region]; ok {
		return region, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownRegion, raw)
}

// ParsePlatform accepts both "NA1" and the lower-case host form "na1".
func ParsePlatform(raw string) (Platform, error) {
	platform := Platform(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := regionByPlatform[platform]; ok {
		return platform, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownPlatform, raw)
}

func (r Region) Platform() Platform {
	return platformByRegion[r]
}

func (r Region) String() string {
	return string(r)
}

func (p Platform) Region() Region {
	return regionByPlatform[p]
}

func (p Platform) String() string {
	return string(p)
}

// Host is the lower-case platform used as the API subdomain.
func (p Platform) Host() string {
	return strings.ToLower(string(p))
}

// Continent is the regional routing value for account and match-v5 style endpoints.
func (p Platform) Continent() string {
	switch p {
	case "BR1", "LA1", "LA2", "NA1", "OC1", "PBE1":
		return "americas"
	case "JP1", "KR":
		return "asia"
	case "EUW1", "EUN1", "RU", "TR1", "ME1":
		return "europe"
	case "PH2", "SG2", "TH2", "TW2", "VN2":
		return "sea"
	default:
		return ""
	}
}

// Queue is a ranked queue identifier used by league endpoints.
type Queue string

const (
	QueueRankedSolo    Queue = "RANKED_SOLO_5x5"
	QueueRankedFlex    Queue = "RANKED_FLEX_SR"
	QueueRankedFlexTT  Queue = "RANKED_FLEX_TT"
	QueueRankedTFT     Queue = "RANKED_TFT"
	queueSoloAlias           = "SOLO"
	queueFlexAlias           = "FLEX"
	queueTwistedAlias        = "TT"
)

var ErrUnknownQueue = errors.New("unknown ranked queue")

func ParseQueue(raw string) (Queue, error) {
	value := strings.TrimSpace(raw)
	switch strings.ToUpper(value) {
	case strings.ToUpper(string(QueueRankedSolo)), queueSoloAlias:
		return QueueRankedSolo, nil
	case string(QueueRankedFlex), queueFlexAlias:
		return QueueRankedFlex, nil
	case strings.ToUpper(string(QueueRankedFlexTT)), queueTwistedAlias:
		return QueueRankedFlexTT, nil
	case string(QueueRankedTFT):
		return QueueRankedTFT, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownQueue, raw)
}

func (q Queue) String() string {
	return string(q)
}
