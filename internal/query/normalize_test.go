package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bingbr/League-API-datastore/internal/riot"
)

func championSchema(provider Provider) Schema {
	return Define("champion").
		Prepare(RegionToPlatform).
		Has("platform", Platform).
		Has("id", Int).Or("name", String).
		CanHave("version", String).WithProvider(provider, String).
		CanHave("locale", Locale).WithDefault("en_US").
		CanHave("includedData", StringSet).WithDefault([]string{"all"}).
		Finish(AttachRegion).
		Build()
}

func staticVersion(version string, calls *int) Provider {
	return func(context.Context, Values) (any, error) {
		*calls++
		return version, nil
	}
}

func TestNormalize_MissingRequiredKeyNamesKey(t *testing.T) {
	calls := 0
	_, err := Normalize(context.Background(), championSchema(staticVersion("14.1.1", &calls)), Query{"id": 1})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, ReasonMissingKey)

	verr, ok := errors.AsType[*ValidationError](err)
	require.True(t, ok)
	assert.Equal(t, []string{"platform"}, verr.Keys)
	assert.Equal(t, "champion", verr.Schema)
	assert.Zero(t, calls, "providers must not run for an invalid request")
}

func TestNormalize_Alternatives(t *testing.T) {
	calls := 0
	schema := championSchema(staticVersion("14.1.1", &calls))

	t.Run("first alternative", func(t *testing.T) {
		got, err := Normalize(context.Background(), schema, Query{"platform": "NA1", "id": "266"})
		require.NoError(t, err)
		assert.Equal(t, int64(266), got.Int64("id"))
		assert.False(t, got.Has("name"))
	})

	t.Run("second alternative", func(t *testing.T) {
		got, err := Normalize(context.Background(), schema, Query{"platform": "NA1", "name": "Aatrox"})
		require.NoError(t, err)
		assert.Equal(t, "Aatrox", got.String("name"))
		assert.False(t, got.Has("id"))
	})

	t.Run("both present keeps the first declared", func(t *testing.T) {
		got, err := Normalize(context.Background(), schema, Query{"platform": "NA1", "name": "Aatrox", "id": 266})
		require.NoError(t, err)
		assert.Equal(t, int64(266), got.Int64("id"))
		assert.False(t, got.Has("name"))
	})

	t.Run("none present", func(t *testing.T) {
		_, err := Normalize(context.Background(), schema, Query{"platform": "NA1"})
		require.ErrorIs(t, err, ReasonUnsatisfiedAlternative)
		verr, _ := errors.AsType[*ValidationError](err)
		assert.Equal(t, []string{"id", "name"}, verr.Keys)
	})
}

func TestNormalize_Defaults(t *testing.T) {
	calls := 0
	schema := championSchema(staticVersion("14.1.1", &calls))

	got, err := Normalize(context.Background(), schema, Query{"platform": "KR", "id": 1})
	require.NoError(t, err)
	assert.Equal(t, "14.1.1", got.String("version"))
	assert.Equal(t, "en_US", got.String("locale"))
	assert.Equal(t, []string{"all"}, got.Strings("includedData"))
	assert.Equal(t, 1, calls)

	got, err = Normalize(context.Background(), schema, Query{
		"platform":     "KR",
		"id":           1,
		"version":      "13.24.1",
		"locale":       "ko-KR",
		"includedData": []string{"stats", "image", "stats"},
	})
	require.NoError(t, err)
	assert.Equal(t, "13.24.1", got.String("version"))
	assert.Equal(t, "ko_KR", got.String("locale"))
	assert.Equal(t, []string{"image", "stats"}, got.Strings("includedData"))
	assert.Equal(t, 1, calls, "provider runs only when its key is absent")
}

func TestNormalize_ProviderFailure(t *testing.T) {
	failing := func(context.Context, Values) (any, error) {
		return nil, errors.New("realm unreachable")
	}
	_, err := Normalize(context.Background(), championSchema(failing), Query{"platform": "NA1", "id": 1})

	require.ErrorIs(t, err, ReasonDefaultFailed)
	assert.ErrorContains(t, err, "realm unreachable")
	verr, _ := errors.AsType[*ValidationError](err)
	assert.Equal(t, []string{"version"}, verr.Keys)
}

func TestNormalize_ProviderSeesPartialValues(t *testing.T) {
	var seen riot.Platform
	provider := func(_ context.Context, partial Values) (any, error) {
		seen = partial.Platform("platform")
		partial["platform"] = "tampered"
		return "14.1.1", nil
	}
	got, err := Normalize(context.Background(), championSchema(provider), Query{"region": "EUW", "id": 1})
	require.NoError(t, err)
	assert.Equal(t, riot.Platform("EUW1"), seen)
	assert.Equal(t, riot.Platform("EUW1"), got.Platform("platform"))
}

func TestNormalize_TypeCoercionFailure(t *testing.T) {
	calls := 0
	_, err := Normalize(context.Background(), championSchema(staticVersion("1", &calls)), Query{"platform": "NA1", "id": "abc"})

	require.ErrorIs(t, err, ReasonTypeCoercion)
	verr, _ := errors.AsType[*ValidationError](err)
	assert.Equal(t, []string{"id"}, verr.Keys)
}

func TestNormalize_RegionToPlatform(t *testing.T) {
	calls := 0
	schema := championSchema(staticVersion("1", &calls))

	got, err := Normalize(context.Background(), schema, Query{"region": "br", "id": 1})
	require.NoError(t, err)
	assert.Equal(t, riot.Platform("BR1"), got.Platform("platform"))
	assert.Equal(t, riot.RegionBrazil, got.Region("region"))

	_, err = Normalize(context.Background(), schema, Query{"region": "atlantis", "id": 1})
	require.ErrorIs(t, err, ReasonTypeCoercion)
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	calls := 0
	raw := Query{"region": "NA", "id": "7", "name": "Annie", "extra": true}
	_, err := Normalize(context.Background(), championSchema(staticVersion("1", &calls)), raw)
	require.NoError(t, err)
	assert.Equal(t, Query{"region": "NA", "id": "7", "name": "Annie", "extra": true}, raw)
}

func TestNormalize_DropsUndeclaredKeys(t *testing.T) {
	calls := 0
	got, err := Normalize(context.Background(), championSchema(staticVersion("1", &calls)), Query{"platform": "NA1", "id": 7, "extra": true})
	require.NoError(t, err)
	assert.False(t, got.Has("extra"))
}

func TestNormalize_InvalidValueFromFinish(t *testing.T) {
	schema := Define("window").
		CanHave("beginTime", Int).
		CanHave("endTime", Int).
		Finish(func(v Values) error {
			if v.Has("endTime") && v.Int64("endTime") <= v.Int64("beginTime") {
				return Invalid("endTime", errors.New("must be after beginTime"))
			}
			return nil
		}).
		Build()

	_, err := Normalize(context.Background(), schema, Query{"beginTime": 10, "endTime": 5})
	require.ErrorIs(t, err, ReasonInvalidValue)
	verr, _ := errors.AsType[*ValidationError](err)
	assert.Equal(t, "window", verr.Schema)
}

func TestBuilderMisusePanics(t *testing.T) {
	assert.Panics(t, func() { Define("bad").Or("id", Int).Build() })
	assert.Panics(t, func() { Define("bad").WithDefault(1).Build() })
	assert.Panics(t, func() { Define("bad").Has("id", Int).CanHave("id", Int).Build() })
}
