package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"movie_backend/internal/feature/movies/domain/entity"
	"movie_backend/internal/feature/movies/usecase"
	"movie_backend/internal/platform/db"
)

type movieGorm struct {
	db *gorm.DB
}

var _ usecase.MovieRepository = (*movieGorm)(nil)

func NewMovieRepository(db *gorm.DB) *movieGorm {
	return &movieGorm{db: db}
}

// MovieModel は movies テーブルの行です。名前リストはJSON配列として1カラムに保存します。
type MovieModel struct {
	ID           string    `gorm:"size:36;primaryKey"`
	Title        string    `gorm:"not null"`
	EpisodeID    int       `gorm:"not null;uniqueIndex"`
	OpeningCrawl string    `gorm:"type:text"`
	Director     string    `gorm:"not null"`
	Producer     string    `gorm:"not null"`
	ReleaseDate  time.Time `gorm:"type:date;not null"`
	Characters   []string  `gorm:"type:text;serializer:json"`
	Planets      []string  `gorm:"type:text;serializer:json"`
	Starships    []string  `gorm:"type:text;serializer:json"`
	Vehicles     []string  `gorm:"type:text;serializer:json"`
	Species      []string  `gorm:"type:text;serializer:json"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (MovieModel) TableName() string {
	return "movies"
}

// BeforeCreate はIDが未設定の場合にUUIDを採番します。
func (m *MovieModel) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func toModel(e entity.Movie) MovieModel {
	return MovieModel{
		ID:           e.ID,
		Title:        e.Title,
		EpisodeID:    e.EpisodeID,
		OpeningCrawl: e.OpeningCrawl,
		Director:     e.Director,
		Producer:     e.Producer,
		ReleaseDate:  e.ReleaseDate,
		Characters:   nonNil(e.Characters),
		Planets:      nonNil(e.Planets),
		Starships:    nonNil(e.Starships),
		Vehicles:     nonNil(e.Vehicles),
		Species:      nonNil(e.Species),
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func toEntity(m MovieModel) entity.Movie {
	return entity.Movie{
		ID:           m.ID,
		Title:        m.Title,
		EpisodeID:    m.EpisodeID,
		OpeningCrawl: m.OpeningCrawl,
		Director:     m.Director,
		Producer:     m.Producer,
		ReleaseDate:  m.ReleaseDate.UTC(),
		Characters:   nonNil(m.Characters),
		Planets:      nonNil(m.Planets),
		Starships:    nonNil(m.Starships),
		Vehicles:     nonNil(m.Vehicles),
		Species:      nonNil(m.Species),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// nonNil は空リストが null ではなく [] として保存・返却されるようにします。
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// mapError はgormのエラーをusecaseのエラーに変換します。
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return usecase.ErrMovieNotFound
	case db.IsDuplicateKey(err):
		return fmt.Errorf("%w: %w", usecase.ErrMovieAlreadyExists, err)
	}
	return err
}

func (r *movieGorm) Create(ctx context.Context, m *entity.Movie) error {
	row := toModel(*m)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return mapError(err)
	}
	*m = toEntity(row)
	return nil
}

// CreateBatch は1回のINSERTで全件を保存します。1件でも失敗すれば全件失敗します。
func (r *movieGorm) CreateBatch(ctx context.Context, movies []entity.Movie) error {
	if len(movies) == 0 {
		return nil
	}
	rows := make([]MovieModel, 0, len(movies))
	for _, e := range movies {
		rows = append(rows, toModel(e))
	}
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return mapError(err)
	}
	for i := range rows {
		movies[i] = toEntity(rows[i])
	}
	return nil
}

func (r *movieGorm) FindAll(ctx context.Context) ([]entity.Movie, error) {
	var rows []MovieModel
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Movie, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}

func (r *movieGorm) FindByID(ctx context.Context, id string) (*entity.Movie, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *movieGorm) FindByEpisodeID(ctx context.Context, episodeID int) (*entity.Movie, error) {
	return r.first(ctx, "episode_id = ?", episodeID)
}

func (r *movieGorm) first(ctx context.Context, query string, arg any) (*entity.Movie, error) {
	var row MovieModel
	if err := r.db.WithContext(ctx).Where(query, arg).First(&row).Error; err != nil {
		return nil, mapError(err)
	}
	e := toEntity(row)
	return &e, nil
}

func (r *movieGorm) ListEpisodeIDs(ctx context.Context) ([]int, error) {
	var ids []int
	if err := r.db.WithContext(ctx).Model(&MovieModel{}).Pluck("episode_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Update はID以外の全カラムを上書きします。ゼロ値も書き込みます。
func (r *movieGorm) Update(ctx context.Context, m *entity.Movie) error {
	row := toModel(*m)
	res := r.db.WithContext(ctx).
		Model(&MovieModel{ID: m.ID}).
		Select("*").
		Omit("id", "created_at").
		Updates(&row)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return usecase.ErrMovieNotFound
	}

	updated, err := r.FindByID(ctx, m.ID)
	if err != nil {
		return err
	}
	*m = *updated
	return nil
}

func (r *movieGorm) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&MovieModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrMovieNotFound
	}
	return nil
}
