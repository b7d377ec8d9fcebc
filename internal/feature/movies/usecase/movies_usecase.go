package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"movie_backend/internal/feature/movies/domain/entity"
)

// MovieRepository は映画エンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type MovieRepository interface {
	// Create は新しい映画を保存し、生成されたIDとタイムスタンプをmに設定します。
	Create(ctx context.Context, m *entity.Movie) error
	// CreateBatch は複数の映画を1回の挿入で保存します。
	CreateBatch(ctx context.Context, ms []entity.Movie) error
	// FindAll は保存順で全ての映画を返します。
	FindAll(ctx context.Context) ([]entity.Movie, error)
	// FindByID はIDで映画を取得します。存在しない場合はErrMovieNotFoundを返します。
	FindByID(ctx context.Context, id string) (*entity.Movie, error)
	// FindByEpisodeID はエピソードIDで映画を取得します。存在しない場合はErrMovieNotFoundを返します。
	FindByEpisodeID(ctx context.Context, episodeID int) (*entity.Movie, error)
	// ListEpisodeIDs は保存済みの全エピソードIDを返します。
	ListEpisodeIDs(ctx context.Context) ([]int, error)
	// Update は既存の映画を上書き保存します。
	Update(ctx context.Context, m *entity.Movie) error
	// Delete はIDで映画を削除します。
	Delete(ctx context.Context, id string) error
}

// DeleteResult は削除操作の確認メッセージです。
type DeleteResult struct {
	Message string
}

// moviesUsecase は映画のCRUD操作を実装します。
type moviesUsecase struct {
	movies MovieRepository
}

// NewMoviesUsecase はmoviesUsecaseの新しいインスタンスを生成します。
func NewMoviesUsecase(movies MovieRepository) *moviesUsecase {
	return &moviesUsecase{movies: movies}
}

// validateID は識別子の形式を検証します。「存在しない」とは区別して扱います。
// 保存されるIDは小文字ハイフン区切りの正規形のみなので、
// 波括弧・urn:uuid:・ハイフンなし・大文字の表記も不正として扱います。
func validateID(id string) error {
	u, err := uuid.Parse(id)
	if err != nil || u.String() != id {
		return ErrInvalidMovieID
	}
	return nil
}

// Create はエピソードIDが未登録の場合のみ映画を保存します。
func (u *moviesUsecase) Create(ctx context.Context, m *entity.Movie) (*entity.Movie, error) {
	_, err := u.movies.FindByEpisodeID(ctx, m.EpisodeID)
	switch {
	case err == nil:
		return nil, fmt.Errorf("episode_id %d: %w", m.EpisodeID, ErrMovieAlreadyExists)
	case !errors.Is(err, ErrMovieNotFound):
		return nil, err
	}

	if err := u.movies.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// FindAll は全ての映画を返します。ページングは行いません。
func (u *moviesUsecase) FindAll(ctx context.Context) ([]entity.Movie, error) {
	return u.movies.FindAll(ctx)
}

// FindOne はIDで映画を取得します。
func (u *moviesUsecase) FindOne(ctx context.Context, id string) (*entity.Movie, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return u.movies.FindByID(ctx, id)
}

// Update は指定されたフィールドのみを既存の映画にマージし、更新後の映画を返します。
func (u *moviesUsecase) Update(ctx context.Context, id string, patch entity.MoviePatch) (*entity.Movie, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	m, err := u.movies.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(m)
	if err := u.movies.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Remove はIDで映画を削除し、削除したタイトルを含むメッセージを返します。
func (u *moviesUsecase) Remove(ctx context.Context, id string) (*DeleteResult, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	m, err := u.movies.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := u.movies.Delete(ctx, id); err != nil {
		return nil, err
	}
	return &DeleteResult{Message: fmt.Sprintf("%s deleted successfully", m.Title)}, nil
}
