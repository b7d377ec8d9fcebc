package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"movie_backend/internal/feature/movies/domain/entity"
	"movie_backend/internal/platform/metrics"
)

const (
	// NoNewMoviesMessage は同期対象の映画がない場合のメッセージです。
	NoNewMoviesMessage = "No new movies to sync"

	// defaultMaxConcurrentLookups は名前解決の同時実行数のデフォルト値です。
	defaultMaxConcurrentLookups = 10
)

// FilmCatalog は外部の映画カタログを取得するリポジトリのインターフェイスです。
// 外部 API の実装を抽象化します。
type FilmCatalog interface {
	// ListFilms はカタログの映画一覧を1回の呼び出しで取得します（先頭ページのみ）。
	ListFilms(ctx context.Context) ([]entity.ExternalFilm, error)
}

// NameResolver はリソースURLを表示名に解決します。
type NameResolver interface {
	ResolveName(ctx context.Context, url string) (string, error)
}

// SyncResult は同期処理の結果です。
type SyncResult struct {
	Message      string
	SyncedMovies []string
}

// SyncUsecase は外部カタログから未登録の映画を取り込むユースケースです。
type SyncUsecase struct {
	movies  MovieRepository
	catalog FilmCatalog
	names   NameResolver
	lookups *semaphore.Weighted
}

// NewSyncUsecase は新しい SyncUsecase を作成します。
// maxConcurrentLookups は同時に実行する名前解決リクエストの上限です。
func NewSyncUsecase(movies MovieRepository, catalog FilmCatalog, names NameResolver, maxConcurrentLookups int) *SyncUsecase {
	if maxConcurrentLookups <= 0 {
		maxConcurrentLookups = defaultMaxConcurrentLookups
	}
	return &SyncUsecase{
		movies:  movies,
		catalog: catalog,
		names:   names,
		lookups: semaphore.NewWeighted(int64(maxConcurrentLookups)),
	}
}

// Sync は外部カタログの映画のうち、エピソードIDが未登録のものを一括で保存します。
// 何度呼び出しても、新しい映画がなければ何も保存しません。
func (s *SyncUsecase) Sync(ctx context.Context) (*SyncResult, error) {
	start := time.Now()

	res, err := s.sync(ctx)
	switch {
	case err != nil:
		slog.Error("failed to sync movies", "error", err)
		metrics.ObserveSync("error", 0, time.Since(start))
		return nil, err
	case len(res.SyncedMovies) == 0:
		slog.Info("movie sync found nothing new")
		metrics.ObserveSync("noop", 0, time.Since(start))
	default:
		slog.Info("movies synced", "count", len(res.SyncedMovies), "titles", res.SyncedMovies)
		metrics.ObserveSync("synced", len(res.SyncedMovies), time.Since(start))
	}
	return res, nil
}

func (s *SyncUsecase) sync(ctx context.Context) (*SyncResult, error) {
	films, err := s.catalog.ListFilms(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list films: %w", ErrUpstream, err)
	}

	ids, err := s.movies.ListEpisodeIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stored episode ids: %w", err)
	}
	stored := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		stored[id] = struct{}{}
	}

	var candidates []entity.ExternalFilm
	for _, f := range films {
		if _, ok := stored[f.EpisodeID]; !ok {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		return &SyncResult{Message: NoNewMoviesMessage}, nil
	}

	// 映画ごとに関連リソースの名前解決を並行して行う
	movies := make([]entity.Movie, len(candidates))
	var g errgroup.Group
	for i, f := range candidates {
		g.Go(func() error {
			movies[i] = s.toMovie(ctx, f)
			return nil
		})
	}
	_ = g.Wait()

	if err := s.movies.CreateBatch(ctx, movies); err != nil {
		return nil, fmt.Errorf("insert synced movies: %w", err)
	}

	titles := make([]string, 0, len(movies))
	for _, m := range movies {
		titles = append(titles, m.Title)
	}
	return &SyncResult{
		Message:      fmt.Sprintf("Successfully synced %d new movies", len(movies)),
		SyncedMovies: titles,
	}, nil
}

// toMovie は5種類の参照URLリストを並行して名前に解決し、Movieに変換します。
func (s *SyncUsecase) toMovie(ctx context.Context, f entity.ExternalFilm) entity.Movie {
	var characters, planets, starships, vehicles, species []string

	var g errgroup.Group
	g.Go(func() error { characters = s.FetchNames(ctx, f.Characters); return nil })
	g.Go(func() error { planets = s.FetchNames(ctx, f.Planets); return nil })
	g.Go(func() error { starships = s.FetchNames(ctx, f.Starships); return nil })
	g.Go(func() error { vehicles = s.FetchNames(ctx, f.Vehicles); return nil })
	g.Go(func() error { species = s.FetchNames(ctx, f.Species); return nil })
	_ = g.Wait()

	return entity.Movie{
		Title:        f.Title,
		EpisodeID:    f.EpisodeID,
		OpeningCrawl: f.OpeningCrawl,
		Director:     f.Director,
		Producer:     f.Producer,
		ReleaseDate:  f.ReleaseDate,
		Characters:   characters,
		Planets:      planets,
		Starships:    starships,
		Vehicles:     vehicles,
		Species:      species,
	}
}

// FetchNames はURLごとに1回ずつ並行して名前を取得します。
// 失敗したURLはログに出力して結果から除外し、成功した名前は入力順を保ちます。
func (s *SyncUsecase) FetchNames(ctx context.Context, urls []string) []string {
	if len(urls) == 0 {
		return []string{}
	}

	results := make([]*string, len(urls))
	var g errgroup.Group
	for i, u := range urls {
		g.Go(func() error {
			if err := s.lookups.Acquire(ctx, 1); err != nil {
				s.dropLookup(u, err)
				return nil
			}
			defer s.lookups.Release(1)

			name, err := s.names.ResolveName(ctx, u)
			if err != nil {
				s.dropLookup(u, err)
				return nil
			}
			results[i] = &name
			return nil
		})
	}
	_ = g.Wait()

	names := make([]string, 0, len(urls))
	for _, n := range results {
		if n != nil {
			names = append(names, *n)
		}
	}
	return names
}

func (s *SyncUsecase) dropLookup(url string, err error) {
	slog.Warn("failed to fetch resource name", "url", url, "error", err)
	metrics.NameLookupFailures.Inc()
}
