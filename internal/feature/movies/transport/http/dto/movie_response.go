package dto

import (
	"time"

	"movie_backend/internal/feature/movies/domain/entity"
	"movie_backend/internal/platform/validation"
)

// MovieRes は映画のJSON表現です。release_dateは日付のみで返します。
type MovieRes struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	EpisodeID    int       `json:"episode_id"`
	OpeningCrawl string    `json:"opening_crawl"`
	Director     string    `json:"director"`
	Producer     string    `json:"producer"`
	ReleaseDate  string    `json:"release_date"`
	Characters   []string  `json:"characters"`
	Planets      []string  `json:"planets"`
	Starships    []string  `json:"starships"`
	Vehicles     []string  `json:"vehicles"`
	Species      []string  `json:"species"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewMovieRes はエンティティをレスポンスに変換します。
func NewMovieRes(m *entity.Movie) MovieRes {
	return MovieRes{
		ID:           m.ID,
		Title:        m.Title,
		EpisodeID:    m.EpisodeID,
		OpeningCrawl: m.OpeningCrawl,
		Director:     m.Director,
		Producer:     m.Producer,
		ReleaseDate:  m.ReleaseDate.UTC().Format(validation.DateLayout),
		Characters:   orEmpty(m.Characters),
		Planets:      orEmpty(m.Planets),
		Starships:    orEmpty(m.Starships),
		Vehicles:     orEmpty(m.Vehicles),
		Species:      orEmpty(m.Species),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// NewMovieListRes は一覧レスポンスを生成します。空の場合も配列を返します。
func NewMovieListRes(ms []entity.Movie) []MovieRes {
	out := make([]MovieRes, 0, len(ms))
	for i := range ms {
		out = append(out, NewMovieRes(&ms[i]))
	}
	return out
}

// SyncRes は同期ジョブの結果です。
type SyncRes struct {
	Message      string   `json:"message"`
	SyncedMovies []string `json:"syncedMovies,omitempty"`
}

// MessageRes はメッセージのみのレスポンスです。
type MessageRes struct {
	Message string `json:"message"`
}

// ErrorRes はエラーレスポンスのボディです。
type ErrorRes struct {
	Error string `json:"error"`
}
