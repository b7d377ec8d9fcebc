package swapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"movie_backend/internal/feature/movies/domain/entity"
	"movie_backend/internal/feature/movies/usecase"
	"movie_backend/internal/platform/externalapi/swapi/dto"
	"movie_backend/internal/platform/metrics"
	"movie_backend/internal/shared/ratelimiter"
)

const (
	breakerName = "swapi"

	// releaseDateLayout は release_date の書式です。
	releaseDateLayout = "2006-01-02"

	// maxBodyBytes はレスポンスボディの読み込み上限です。
	maxBodyBytes = 4 << 20
)

// StatusError はSWAPIが返したHTTPエラーステータスです。
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("swapi http %d: %s", e.Code, e.URL)
}

// Client はSWAPIから映画カタログを取得し、リソースURLを名前に解決します。
type Client struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.RateLimiterInterface
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// ClientがFilmCatalogとNameResolverを実装していることをコンパイル時に検証します。
var (
	_ usecase.FilmCatalog  = (*Client)(nil)
	_ usecase.NameResolver = (*Client)(nil)
)

// NewClient は指定された設定とHTTPクライアントでClientを生成します。
// limiter が nil の場合はリクエスト頻度を制限しません。
// サーキットブレーカーはカタログ取得（ListFilms）のみに適用します。
func NewClient(cfg Config, client *http.Client, limiter ratelimiter.RateLimiterInterface) *Client {
	threshold := cfg.BreakerThreshold
	if threshold == 0 {
		threshold = 5
	}
	settings := gobreaker.Settings{
		Name:    breakerName,
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// 4xx は個別リソースの問題なので障害として数えない
		IsSuccessful: func(err error) bool {
			var se *StatusError
			return err == nil || (errors.As(err, &se) && se.Code < http.StatusInternalServerError)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
		},
	}
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(float64(gobreaker.StateClosed))

	return &Client{
		cfg:     cfg,
		client:  client,
		limiter: limiter,
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

// ListFilms は films エンドポイントの先頭ページを取得します。
// next がある場合もそれ以降のページは取得しません。
func (c *Client) ListFilms(ctx context.Context) ([]entity.ExternalFilm, error) {
	u := strings.TrimRight(c.cfg.BaseURL, "/") + "/films/"

	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	b, err := c.breaker.Execute(func() ([]byte, error) {
		return c.get(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	var body dto.FilmListResponse
	if err := decode(u, b, &body); err != nil {
		return nil, err
	}
	if body.Next != nil {
		slog.Info("films catalogue has more pages; only the first page is synced", "count", body.Count, "next", *body.Next)
	}

	films := make([]entity.ExternalFilm, 0, len(body.Results))
	for _, f := range body.Results {
		released, err := time.Parse(releaseDateLayout, f.ReleaseDate)
		if err != nil {
			return nil, fmt.Errorf("parse release_date %q of %q: %w", f.ReleaseDate, f.Title, err)
		}
		films = append(films, entity.ExternalFilm{
			Title:        f.Title,
			EpisodeID:    f.EpisodeID,
			OpeningCrawl: f.OpeningCrawl,
			Director:     f.Director,
			Producer:     f.Producer,
			ReleaseDate:  released,
			Characters:   f.Characters,
			Planets:      f.Planets,
			Starships:    f.Starships,
			Vehicles:     f.Vehicles,
			Species:      f.Species,
		})
	}
	return films, nil
}

// ResolveName はリソースURLを取得し、その name（映画の場合は title）を返します。
// 名前解決はURLごとに独立しており、サーキットブレーカーを通しません。
func (c *Client) ResolveName(ctx context.Context, url string) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}
	b, err := c.get(ctx, url)
	if err != nil {
		return "", err
	}
	var res dto.Resource
	if err := decode(url, b, &res); err != nil {
		return "", err
	}
	name := res.Name
	if name == "" {
		name = res.Title
	}
	if name == "" {
		return "", fmt.Errorf("swapi resource %s has no name", url)
	}
	return name, nil
}

// wait はレートリミットの上限に達している場合に待機します。
func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

func decode(url string, b []byte, dst any) error {
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, &StatusError{URL: url, Code: res.StatusCode}
	}
	return io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
}
