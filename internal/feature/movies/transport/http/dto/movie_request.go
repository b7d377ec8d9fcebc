package dto

import (
	"movie_backend/internal/feature/movies/domain/entity"
	"movie_backend/internal/platform/validation"
)

// CreateMovieReq は映画作成リクエストのボディです。
type CreateMovieReq struct {
	Title        string   `json:"title" binding:"required"`
	EpisodeID    *int     `json:"episode_id" binding:"required"`
	OpeningCrawl string   `json:"opening_crawl"`
	Director     string   `json:"director" binding:"required"`
	Producer     string   `json:"producer" binding:"required"`
	ReleaseDate  string   `json:"release_date" binding:"required,isodate"`
	Characters   []string `json:"characters"`
	Planets      []string `json:"planets"`
	Starships    []string `json:"starships"`
	Vehicles     []string `json:"vehicles"`
	Species      []string `json:"species"`
}

// ToEntity はバリデーション済みのリクエストをエンティティに変換します。
func (r CreateMovieReq) ToEntity() (*entity.Movie, error) {
	released, err := validation.ParseDate(r.ReleaseDate)
	if err != nil {
		return nil, err
	}
	m := &entity.Movie{
		Title:        r.Title,
		OpeningCrawl: r.OpeningCrawl,
		Director:     r.Director,
		Producer:     r.Producer,
		ReleaseDate:  released,
		Characters:   orEmpty(r.Characters),
		Planets:      orEmpty(r.Planets),
		Starships:    orEmpty(r.Starships),
		Vehicles:     orEmpty(r.Vehicles),
		Species:      orEmpty(r.Species),
	}
	if r.EpisodeID != nil {
		m.EpisodeID = *r.EpisodeID
	}
	return m, nil
}

// UpdateMovieReq は部分更新リクエストのボディです。省略したフィールドは変更されません。
type UpdateMovieReq struct {
	Title        *string  `json:"title"`
	EpisodeID    *int     `json:"episode_id"`
	OpeningCrawl *string  `json:"opening_crawl"`
	Director     *string  `json:"director"`
	Producer     *string  `json:"producer"`
	ReleaseDate  *string  `json:"release_date" binding:"omitempty,isodate"`
	Characters   []string `json:"characters"`
	Planets      []string `json:"planets"`
	Starships    []string `json:"starships"`
	Vehicles     []string `json:"vehicles"`
	Species      []string `json:"species"`
}

// ToPatch はリクエストをMoviePatchに変換します。
func (r UpdateMovieReq) ToPatch() (entity.MoviePatch, error) {
	p := entity.MoviePatch{
		Title:        r.Title,
		EpisodeID:    r.EpisodeID,
		OpeningCrawl: r.OpeningCrawl,
		Director:     r.Director,
		Producer:     r.Producer,
		Characters:   r.Characters,
		Planets:      r.Planets,
		Starships:    r.Starships,
		Vehicles:     r.Vehicles,
		Species:      r.Species,
	}
	if r.ReleaseDate != nil {
		released, err := validation.ParseDate(*r.ReleaseDate)
		if err != nil {
			return entity.MoviePatch{}, err
		}
		p.ReleaseDate = &released
	}
	return p, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
