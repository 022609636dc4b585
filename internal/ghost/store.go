// Package ghost resolves typed entity requests. Single-entity requests build an
// identity-only value from the normalized query; collection requests return a
// lazy collection that pulls from the pipeline when iterated.
package ghost

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bingbr/League-API-datastore/internal/core"
	"github.com/bingbr/League-API-datastore/internal/history"
	"github.com/bingbr/League-API-datastore/internal/query"
	"github.com/bingbr/League-API-datastore/internal/riot"
	"github.com/bingbr/League-API-datastore/internal/riot/cdn"
)

var (
	ErrUnsupportedType = errors.New("ghost: unsupported type")
	ErrNoDefaults      = errors.New("ghost: no default source configured")
)

const (
	familyGet  = "get"
	familyMany = "get_many"
)

type UnsupportedTypeError struct {
	Kind   core.Kind
	Family string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("ghost: %s is not resolvable by %s", e.Kind, e.Family)
}

func (e *UnsupportedTypeError) Unwrap() error {
	return ErrUnsupportedType
}

// StaticQuery selects one static data release. Empty Version or Locale means
// the region's current one.
type StaticQuery struct {
	Region       riot.Region
	Version      string
	Locale       string
	IncludedData []string
}

// Pipeline is the upstream the collection resolvers read from.
type Pipeline interface {
	history.PageSource
	Champions(ctx context.Context, q StaticQuery) (cdn.ChampionList, error)
	Items(ctx context.Context, q StaticQuery) (cdn.ItemList, error)
	Maps(ctx context.Context, q StaticQuery) (cdn.MapList, error)
	ProfileIcons(ctx context.Context, q StaticQuery) (cdn.ProfileIconList, error)
	Runes(ctx context.Context, q StaticQuery) ([]cdn.RuneTree, error)
	SummonerSpells(ctx context.Context, q StaticQuery) (cdn.SummonerSpellList, error)
	Languages(ctx context.Context, region riot.Region) ([]string, error)
	Versions(ctx context.Context, region riot.Region) ([]string, error)
	ChampionMasteries(ctx context.Context, platform riot.Platform, summonerID int64) ([]riot.ChampionMastery, error)
	LeagueEntries(ctx context.Context, platform riot.Platform, summonerID int64) ([]riot.LeagueEntry, error)
	FeaturedGames(ctx context.Context, platform riot.Platform) (riot.FeaturedGames, error)
}

// Defaults backs the version and locale query defaults. Both calls may block.
type Defaults interface {
	LatestVersion(ctx context.Context, region string) (string, error)
	DefaultLocale(ctx context.Context, region string) (string, error)
}

// Observer is told the outcome of every Get and GetMany call.
type Observer interface {
	ObserveResolve(kind core.Kind, family string, err error)
}

type Store struct {
	pipeline Pipeline
	pages    history.PageSource
	defaults Defaults
	schemas  map[core.Kind]query.Schema
	logger   *slog.Logger
	observer Observer
	pageObs  history.PageObserver
}

type Option func(*Store)

// WithPageSource replaces the pipeline as the match history source.
func WithPageSource(pages history.PageSource) Option {
	return func(s *Store) {
		if pages != nil {
			s.pages = pages
		}
	}
}

func WithDefaults(defaults Defaults) Option {
	return func(s *Store) {
		s.defaults = defaults
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithObserver(observer Observer) Option {
	return func(s *Store) {
		s.observer = observer
	}
}

func WithPageObserver(observer history.PageObserver) Option {
	return func(s *Store) {
		s.pageObs = observer
	}
}

func New(pipeline Pipeline, opts ...Option) *Store {
	s := &Store{pipeline: pipeline, pages: pipeline, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	s.schemas = s.buildSchemas()
	return s
}

// Get resolves a single entity. It performs no I/O other than the default
// providers of the kind's schema.
func (s *Store) Get(ctx context.Context, kind core.Kind, raw query.Query) (entity core.Entity, err error) {
	defer func() { s.observe(kind, familyGet, err) }()

	resolve, ok := getResolvers[kind]
	if !ok {
		return nil, &UnsupportedTypeError{Kind: kind, Family: familyGet}
	}
	n, err := s.normalize(ctx, kind, raw)
	if err != nil {
		return nil, err
	}
	return resolve(s, ctx, n)
}

// GetMany resolves a collection. Nothing is fetched until it is iterated, and
// each call builds independent fetch state.
func (s *Store) GetMany(ctx context.Context, kind core.Kind, raw query.Query) (many core.Many, err error) {
	defer func() { s.observe(kind, familyMany, err) }()

	resolve, ok := manyResolvers[kind]
	if !ok {
		return nil, &UnsupportedTypeError{Kind: kind, Family: familyMany}
	}
	if s.pipeline == nil {
		return nil, errors.New("ghost: pipeline is required for collections")
	}
	n, err := s.normalize(ctx, kind, raw)
	if err != nil {
		return nil, err
	}
	return resolve(s, ctx, n)
}

func (s *Store) normalize(ctx context.Context, kind core.Kind, raw query.Query) (query.Normalized, error) {
	schema, ok := s.schemas[kind]
	if !ok {
		return query.Normalized{}, fmt.Errorf("ghost: no schema for %s", kind)
	}
	return query.Normalize(ctx, schema, raw)
}

func (s *Store) observe(kind core.Kind, family string, err error) {
	if err != nil {
		s.logger.Debug("Resolve failed", "kind", kind.String(), "family", family, "error", err)
	}
	if s.observer != nil {
		s.observer.ObserveResolve(kind, family, err)
	}
}

// Get resolves kind and asserts the entity type.
func Get[T core.Entity](ctx context.Context, s *Store, kind core.Kind, raw query.Query) (T, error) {
	var zero T
	entity, err := s.Get(ctx, kind, raw)
	if err != nil {
		return zero, err
	}
	typed, ok := entity.(T)
	if !ok {
		return zero, fmt.Errorf("ghost: %s resolves to %T, not %T", kind, entity, zero)
	}
	return typed, nil
}

// GetMany resolves kind and asserts the collection element type.
func GetMany[T any](ctx context.Context, s *Store, kind core.Kind, raw query.Query) (*core.Collection[T], error) {
	many, err := s.GetMany(ctx, kind, raw)
	if err != nil {
		return nil, err
	}
	typed, ok := many.(*core.Collection[T])
	if !ok {
		var zero T
		return nil, fmt.Errorf("ghost: %s resolves to %T, not a collection of %T", kind, many, zero)
	}
	return typed, nil
}
