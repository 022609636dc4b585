package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bingbr/League-API-datastore/internal/lazy"
	"github.com/bingbr/League-API-datastore/internal/riot"
	"github.com/bingbr/League-API-datastore/internal/riot/cdn"
)

func TestKindNamesRoundTrip(t *testing.T) {
	kinds := AllKinds()
	require.Len(t, kinds, 30)
	for _, k := range kinds {
		require.True(t, k.Valid())
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	_, err := ParseKind("Summoners")
	assert.Error(t, err)
	assert.Equal(t, "Kind(0)", Kind(0).String())
}

func TestCompleteMasteries(t *testing.T) {
	played := []ChampionMastery{
		ChampionMasteryFromData(riot.ChampionMastery{ChampionID: 103, PlayerID: 9, ChampionLevel: 7, ChampionPoints: 250000}, riot.RegionKorea),
		ChampionMasteryFromData(riot.ChampionMastery{ChampionID: 1, PlayerID: 9, ChampionLevel: 2}, riot.RegionKorea),
	}

	got := CompleteMasteries(played, []int{266, 1, 103, 12, 266}, 9, riot.RegionKorea)

	require.Len(t, got, 4)
	assert.Equal(t, 103, got[0].ChampionID)
	assert.Equal(t, 1, got[1].ChampionID)
	assert.Equal(t, []int{12, 266}, []int{got[2].ChampionID, got[3].ChampionID})
	for _, m := range got[2:] {
		assert.Zero(t, m.Level)
		assert.Zero(t, m.Points)
		assert.Equal(t, int64(1800), m.PointsUntilNextLevel)
		assert.False(t, m.ChestGranted)
		assert.Equal(t, int64(9), m.SummonerID)
		assert.True(t, m.LastPlayed.IsZero())
	}
}

func TestChampionsFromDataOrdersByID(t *testing.T) {
	list := cdn.ChampionList{Version: "14.1.1", Data: map[string]cdn.Champion{
		"Ahri":  {ID: "Ahri", Key: "103", Name: "Ahri"},
		"Annie": {ID: "Annie", Key: "1", Name: "Annie"},
	}}
	got := ChampionsFromData(list, Static{Region: riot.RegionNorthAmerica, Locale: "en_US"})
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, "Annie", got[0].Key)
	assert.Equal(t, 103, got[1].ID)
	assert.True(t, got[1].Loaded)
	assert.Equal(t, "en_US", got[1].Locale)
}

func TestRunesFromDataFlattensTrees(t *testing.T) {
	trees := []cdn.RuneTree{{ID: 8000, Key: "Precision", Slots: []cdn.RuneSlot{
		{Runes: []cdn.Rune{{ID: 8005}, {ID: 8008}}},
		{Runes: []cdn.Rune{{ID: 9101}}},
	}}}
	got := RunesFromData(trees, Static{})
	require.Len(t, got, 3)
	assert.Equal(t, "Precision", got[2].Tree)
	assert.Equal(t, 9101, got[2].ID)
}

func TestMatchFromReference(t *testing.T) {
	m := MatchFromReference(riot.MatchReference{GameID: 55, PlatformID: "EUW1", Queue: 420, Timestamp: 1_700_000_000_000}, riot.RegionNorthAmerica)
	assert.Equal(t, riot.RegionEuropeWest, m.Region)
	assert.Equal(t, time.UnixMilli(1_700_000_000_000).UTC(), m.Creation)
	assert.Equal(t, KindMatch, m.Kind())
}

func TestCollectionEachDrainsUntyped(t *testing.T) {
	var many Many = NewCollection(KindVersions, lazy.FromSlice(lazy.Metadata{Region: "NA"}, []string{"14.2.1", "14.1.1"}))
	assert.Equal(t, KindVersions, many.Kind())

	var got []any
	require.NoError(t, many.Each(context.Background(), func(item any) error {
		got = append(got, item)
		return nil
	}))
	assert.Equal(t, []any{"14.2.1", "14.1.1"}, got)

	err := many.Each(context.Background(), func(any) error { return nil })
	assert.ErrorIs(t, err, lazy.ErrConsumed)
}

func TestCollectionEachStopsOnCallbackError(t *testing.T) {
	stop := errors.New("stop")
	c := NewCollection(KindVersions, lazy.FromSlice(lazy.Metadata{}, []string{"a", "b", "c"}))

	calls := 0
	err := c.Each(context.Background(), func(any) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}
