package cdn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTimeout = 20 * time.Second

	BaseURL = "https://ddragon.leagueoflegends.com"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/"); baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{httpClient: &http.Client{Timeout: defaultTimeout}, baseURL: BaseURL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchVersions returns every published version, newest first.
func (c *Client) FetchVersions(ctx context.Context) ([]string, error) {
	v, err := fetch[[]string](ctx, c.httpClient, c.baseURL+"/api/versions.json")
	if err == nil && len(v) == 0 {
		return nil, fmt.Errorf("no versions found")
	}
	return v, err
}

// FetchRealm returns the current realm of a region ("na", "euw", "kr", ...).
func (c *Client) FetchRealm(ctx context.Context, region string) (Realm, error) {
	region = strings.ToLower(strings.TrimSpace(region))
	if region == "" {
		return Realm{}, fmt.Errorf("region is required")
	}
	return fetch[Realm](ctx, c.httpClient, fmt.Sprintf("%s/realms/%s.json", c.baseURL, region))
}

func (c *Client) FetchLanguages(ctx context.Context) ([]string, error) {
	return fetch[[]string](ctx, c.httpClient, c.baseURL+"/cdn/languages.json")
}

func (c *Client) FetchChampions(ctx context.Context, ver, loc string) (ChampionList, error) {
	return fetch[ChampionList](ctx, c.httpClient, c.dataURL(ver, loc, "champion.json"))
}

func (c *Client) FetchItems(ctx context.Context, ver, loc string) (ItemList, error) {
	return fetch[ItemList](ctx, c.httpClient, c.dataURL(ver, loc, "item.json"))
}

func (c *Client) FetchSummonerSpells(ctx context.Context, ver, loc string) (SummonerSpellList, error) {
	return fetch[SummonerSpellList](ctx, c.httpClient, c.dataURL(ver, loc, "summoner.json"))
}

func (c *Client) FetchRunes(ctx context.Context, ver, loc string) ([]RuneTree, error) {
	return fetch[[]RuneTree](ctx, c.httpClient, c.dataURL(ver, loc, "runesReforged.json"))
}

func (c *Client) FetchMaps(ctx context.Context, ver, loc string) (MapList, error) {
	return fetch[MapList](ctx, c.httpClient, c.dataURL(ver, loc, "map.json"))
}

func (c *Client) FetchProfileIcons(ctx context.Context, ver, loc string) (ProfileIconList, error) {
	return fetch[ProfileIconList](ctx, c.httpClient, c.dataURL(ver, loc, "profileicon.json"))
}

func (c *Client) FetchLanguageStrings(ctx context.Context, ver, loc string) (LanguageStrings, error) {
	return fetch[LanguageStrings](ctx, c.httpClient, c.dataURL(ver, loc, "language.json"))
}

func (c *Client) dataURL(ver, loc, file string) string {
	return fmt.Sprintf("%s/cdn/%s/data/%s/%s", c.baseURL, ver, loc, file)
}

func fetch[T any](ctx context.Context, client *http.Client, url string) (target T, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return target, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return target, err
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close response body: %w", closeErr)
		}
	}()
	if resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return target, fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}
	if err = json.NewDecoder(resp.Body).Decode(&target); err != nil {
		return target, fmt.Errorf("decode %s: %w", url, err)
	}
	return target, nil
}
