// Package handler はmoviesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"movie_backend/internal/feature/movies/domain/entity"
	"movie_backend/internal/feature/movies/transport/http/dto"
	"movie_backend/internal/feature/movies/usecase"
)

// MoviesUsecase は映画CRUDのユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type MoviesUsecase interface {
	Create(ctx context.Context, m *entity.Movie) (*entity.Movie, error)
	FindAll(ctx context.Context) ([]entity.Movie, error)
	FindOne(ctx context.Context, id string) (*entity.Movie, error)
	Update(ctx context.Context, id string, patch entity.MoviePatch) (*entity.Movie, error)
	Remove(ctx context.Context, id string) (*usecase.DeleteResult, error)
}

// SyncUsecase は外部カタログとの同期を実行します。
type SyncUsecase interface {
	Sync(ctx context.Context) (*usecase.SyncResult, error)
}

// MoviesHandler は映画リソースのHTTPリクエストを処理します。
type MoviesHandler struct {
	movies MoviesUsecase
	sync   SyncUsecase
}

// NewMoviesHandler はMoviesHandlerの新しいインスタンスを生成します。
func NewMoviesHandler(movies MoviesUsecase, sync SyncUsecase) *MoviesHandler {
	return &MoviesHandler{movies: movies, sync: sync}
}

// Create は映画を登録します。
//
// POST /movies
func (h *MoviesHandler) Create(c *gin.Context) {
	var req dto.CreateMovieReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: err.Error()})
		return
	}
	m, err := req.ToEntity()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: err.Error()})
		return
	}

	created, err := h.movies.Create(c.Request.Context(), m)
	if err != nil {
		h.fail(c, "create movie failed", err)
		return
	}
	slog.Info("movie created", "id", created.ID, "episode_id", created.EpisodeID)
	c.JSON(http.StatusCreated, dto.NewMovieRes(created))
}

// FindAll は全ての映画を返します。
//
// GET /movies
func (h *MoviesHandler) FindAll(c *gin.Context) {
	ms, err := h.movies.FindAll(c.Request.Context())
	if err != nil {
		h.fail(c, "list movies failed", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewMovieListRes(ms))
}

// FindOne はIDで映画を返します。
//
// GET /movies/:id
func (h *MoviesHandler) FindOne(c *gin.Context) {
	m, err := h.movies.FindOne(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "find movie failed", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewMovieRes(m))
}

// Update は指定されたフィールドのみを更新します。
//
// PATCH /movies/:id
func (h *MoviesHandler) Update(c *gin.Context) {
	var req dto.UpdateMovieReq
	// ボディが空の場合は変更なしのパッチとして扱う
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: err.Error()})
		return
	}
	patch, err := req.ToPatch()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: err.Error()})
		return
	}

	m, err := h.movies.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.fail(c, "update movie failed", err)
		return
	}
	slog.Info("movie updated", "id", m.ID)
	c.JSON(http.StatusOK, dto.NewMovieRes(m))
}

// Remove は映画を削除し、確認メッセージを返します。
//
// DELETE /movies/:id
func (h *MoviesHandler) Remove(c *gin.Context) {
	res, err := h.movies.Remove(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "delete movie failed", err)
		return
	}
	slog.Info("movie deleted", "id", c.Param("id"))
	c.JSON(http.StatusOK, dto.MessageRes{Message: res.Message})
}

// Sync は外部カタログから未登録の映画を取り込みます。
//
// POST /movies/sincronize
func (h *MoviesHandler) Sync(c *gin.Context) {
	res, err := h.sync.Sync(c.Request.Context())
	if err != nil {
		h.fail(c, "sync movies failed", err)
		return
	}
	c.JSON(http.StatusCreated, dto.SyncRes{Message: res.Message, SyncedMovies: res.SyncedMovies})
}

// fail はユースケースのエラーをHTTPステータスに変換して返却します。
func (h *MoviesHandler) fail(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidMovieID):
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "Invalid movie ID format"})
	case errors.Is(err, usecase.ErrMovieAlreadyExists):
		slog.Warn(msg, "error", err)
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: err.Error()})
	case errors.Is(err, usecase.ErrMovieNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorRes{Error: "Movie not found"})
	case errors.Is(err, usecase.ErrUpstream):
		slog.Warn(msg, "error", err)
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: err.Error()})
	default:
		slog.Error(msg, "error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: "internal server error"})
	}
}
