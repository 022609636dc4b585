package cdn

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newDDragon(t *testing.T, realmHits *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/realms/euw.json", func(w http.ResponseWriter, _ *http.Request) {
		if realmHits != nil {
			realmHits.Add(1)
		}
		_, _ = w.Write([]byte(`{"v":"14.1.1","l":"en_GB","cdn":"https://ddragon.leagueoflegends.com/cdn","n":{"champion":"14.1.1"}}`))
	})
	mux.HandleFunc("/api/versions.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`["14.1.1","13.24.1"]`))
	})
	data := map[string]string{
		"champion.json":      `{"version":"14.1.1","data":{"Annie":{"id":"Annie","key":"1","name":"Annie"},"Ahri":{"id":"Ahri","key":"103","name":"Ahri"}}}`,
		"item.json":          `{"version":"14.1.1","data":{"1001":{"name":"Boots"}}}`,
		"summoner.json":      `{"version":"14.1.1","data":{"SummonerFlash":{"id":"SummonerFlash","key":"4","name":"Flash"}}}`,
		"runesReforged.json": `[{"id":8000,"key":"Precision","slots":[{"runes":[{"id":8005,"name":"Press the Attack"},{"id":8008,"name":"Lethal Tempo"}]}]}]`,
		"map.json":           `{"version":"14.1.1","data":{"11":{"MapName":"Summoner's Rift","MapId":"11"}}}`,
		"profileicon.json":   `{"version":"14.1.1","data":{"0":{"id":0},"1":{"id":1},"2":{"id":2}}}`,
	}
	mux.HandleFunc("/cdn/14.1.1/data/en_GB/", func(w http.ResponseWriter, r *http.Request) {
		file := strings.TrimPrefix(r.URL.Path, "/cdn/14.1.1/data/en_GB/")
		body, ok := data[file]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type recorderStub struct {
	mu    sync.Mutex
	syncs []StaticSync
}

func (r *recorderStub) RecordStaticSync(_ context.Context, s StaticSync) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.syncs = append(r.syncs, s)
	return nil
}

func TestRealmsCachesWithinTTL(t *testing.T) {
	var hits atomic.Int32
	srv := newDDragon(t, &hits)
	realms := NewRealms(NewClient(WithBaseURL(srv.URL)), time.Minute)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	realms.now = func() time.Time { return now }

	version, err := realms.LatestVersion(context.Background(), "EUW")
	if err != nil || version != "14.1.1" {
		t.Fatalf("LatestVersion() = %q, %v", version, err)
	}
	locale, err := realms.DefaultLocale(context.Background(), "euw")
	if err != nil || locale != "en_GB" {
		t.Fatalf("DefaultLocale() = %q, %v", locale, err)
	}
	if hits.Load() != 1 {
		t.Fatalf("realm fetches = %d, want 1", hits.Load())
	}

	now = now.Add(2 * time.Minute)
	if _, err := realms.Get(context.Background(), "euw"); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if hits.Load() != 2 {
		t.Fatalf("realm fetches after ttl = %d, want 2", hits.Load())
	}
}

func TestRealmsUnknownRegion(t *testing.T) {
	srv := newDDragon(t, nil)
	realms := NewRealms(NewClient(WithBaseURL(srv.URL)), 0)
	if _, err := realms.LatestVersion(context.Background(), "mars"); err == nil {
		t.Fatalf("expected error for unknown realm")
	}
}

func TestFetchVersions(t *testing.T) {
	srv := newDDragon(t, nil)
	versions, err := NewClient(WithBaseURL(srv.URL)).FetchVersions(context.Background())
	if err != nil || len(versions) != 2 || versions[0] != "14.1.1" {
		t.Fatalf("FetchVersions() = %v, %v", versions, err)
	}
}

func TestWarmUsesRealmDefaults(t *testing.T) {
	srv := newDDragon(t, nil)
	client := NewClient(WithBaseURL(srv.URL))
	rec := &recorderStub{}

	summary, err := Warm(context.Background(), client, NewRealms(client, 0), rec, "EUW", "", "")
	if err != nil {
		t.Fatalf("Warm() error = %v", err)
	}
	if summary.Version != "14.1.1" || summary.Locale != "en_GB" {
		t.Fatalf("summary version/locale = %q/%q", summary.Version, summary.Locale)
	}
	if summary.Champions != 2 || summary.Items != 1 || summary.SummonerSpells != 1 ||
		summary.Runes != 2 || summary.Maps != 1 || summary.ProfileIcons != 3 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(rec.syncs) != 1 || rec.syncs[0].Version != "14.1.1" {
		t.Fatalf("recorded syncs = %+v", rec.syncs)
	}
}

func TestFetchAssetsFailsOnMissingFile(t *testing.T) {
	srv := newDDragon(t, nil)
	if _, err := FetchAssets(context.Background(), NewClient(WithBaseURL(srv.URL)), "14.1.1", "ko_KR"); err == nil {
		t.Fatalf("expected error for unknown locale")
	}
}
