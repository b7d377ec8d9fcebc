package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie_backend/internal/feature/movies/domain/entity"
	"movie_backend/internal/feature/movies/usecase"
	"movie_backend/internal/platform/validation"
)

const movieID = "0b7e6f5c-3c1a-4d8e-9a43-8f0e2b1d6c11"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := validation.Register(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// mockMoviesUsecase はMoviesUsecaseインターフェースのモック実装です。
type mockMoviesUsecase struct {
	CreateFunc  func(ctx context.Context, m *entity.Movie) (*entity.Movie, error)
	FindAllFunc func(ctx context.Context) ([]entity.Movie, error)
	FindOneFunc func(ctx context.Context, id string) (*entity.Movie, error)
	UpdateFunc  func(ctx context.Context, id string, patch entity.MoviePatch) (*entity.Movie, error)
	RemoveFunc  func(ctx context.Context, id string) (*usecase.DeleteResult, error)
}

func (m *mockMoviesUsecase) Create(ctx context.Context, mv *entity.Movie) (*entity.Movie, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, mv)
	}
	return nil, errors.New("CreateFunc is not implemented")
}

func (m *mockMoviesUsecase) FindAll(ctx context.Context) ([]entity.Movie, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	return nil, errors.New("FindAllFunc is not implemented")
}

func (m *mockMoviesUsecase) FindOne(ctx context.Context, id string) (*entity.Movie, error) {
	if m.FindOneFunc != nil {
		return m.FindOneFunc(ctx, id)
	}
	return nil, errors.New("FindOneFunc is not implemented")
}

func (m *mockMoviesUsecase) Update(ctx context.Context, id string, patch entity.MoviePatch) (*entity.Movie, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, patch)
	}
	return nil, errors.New("UpdateFunc is not implemented")
}

func (m *mockMoviesUsecase) Remove(ctx context.Context, id string) (*usecase.DeleteResult, error) {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, id)
	}
	return nil, errors.New("RemoveFunc is not implemented")
}

// mockSyncUsecase はSyncUsecaseインターフェースのモック実装です。
type mockSyncUsecase struct {
	SyncFunc func(ctx context.Context) (*usecase.SyncResult, error)
}

func (m *mockSyncUsecase) Sync(ctx context.Context) (*usecase.SyncResult, error) {
	if m.SyncFunc != nil {
		return m.SyncFunc(ctx)
	}
	return nil, errors.New("SyncFunc is not implemented")
}

func newHope() *entity.Movie {
	return &entity.Movie{
		ID:          movieID,
		Title:       "A New Hope",
		EpisodeID:   4,
		Director:    "George Lucas",
		Producer:    "Gary Kurtz, Rick McCallum",
		ReleaseDate: time.Date(1977, 5, 25, 0, 0, 0, 0, time.UTC),
		Characters:  []string{"Luke Skywalker"},
	}
}

func newRouter(h *MoviesHandler) *gin.Engine {
	r := gin.New()
	r.POST("/movies", h.Create)
	r.POST("/movies/sincronize", h.Sync)
	r.GET("/movies", h.FindAll)
	r.GET("/movies/:id", h.FindOne)
	r.PATCH("/movies/:id", h.Update)
	r.DELETE("/movies/:id", h.Remove)
	return r
}

func perform(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestMoviesHandler_Create(t *testing.T) {
	valid := gin.H{
		"title":        "A New Hope",
		"episode_id":   4,
		"director":     "George Lucas",
		"producer":     "Gary Kurtz, Rick McCallum",
		"release_date": "1977-05-25",
		"characters":   []string{"Luke Skywalker"},
	}

	tests := []struct {
		name           string
		requestBody    gin.H
		mockCreate     func(ctx context.Context, m *entity.Movie) (*entity.Movie, error)
		expectedStatus int
		expectedError  string
	}{
		{
			name:        "success: movie created",
			requestBody: valid,
			mockCreate: func(ctx context.Context, m *entity.Movie) (*entity.Movie, error) {
				assert.Equal(t, 4, m.EpisodeID)
				assert.Equal(t, time.Date(1977, 5, 25, 0, 0, 0, 0, time.UTC), m.ReleaseDate)
				assert.Equal(t, []string{}, m.Planets, "omitted lists become empty")
				m.ID = movieID
				return m, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "failure: missing title",
			requestBody:    gin.H{"episode_id": 4, "director": "x", "producer": "y", "release_date": "1977-05-25"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Field validation for 'Title' failed on the 'required' tag",
		},
		{
			name:           "failure: missing episode_id",
			requestBody:    gin.H{"title": "A New Hope", "director": "x", "producer": "y", "release_date": "1977-05-25"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Field validation for 'EpisodeID' failed on the 'required' tag",
		},
		{
			name:           "failure: malformed release_date",
			requestBody:    gin.H{"title": "A New Hope", "episode_id": 4, "director": "x", "producer": "y", "release_date": "25/05/1977"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Field validation for 'ReleaseDate' failed on the 'isodate' tag",
		},
		{
			name:        "failure: duplicate episode",
			requestBody: valid,
			mockCreate: func(ctx context.Context, m *entity.Movie) (*entity.Movie, error) {
				return nil, fmt.Errorf("episode_id 4: %w", usecase.ErrMovieAlreadyExists)
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "already exists",
		},
		{
			name:        "failure: store error",
			requestBody: valid,
			mockCreate: func(ctx context.Context, m *entity.Movie) (*entity.Movie, error) {
				return nil, errors.New("connection reset")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewMoviesHandler(&mockMoviesUsecase{CreateFunc: tt.mockCreate}, &mockSyncUsecase{})
			w := perform(newRouter(h), http.MethodPost, "/movies", tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)
			body := decode(t, w)
			if tt.expectedError != "" {
				assert.Contains(t, body["error"], tt.expectedError)
				return
			}
			assert.Equal(t, movieID, body["id"])
			assert.Equal(t, "1977-05-25", body["release_date"])
			assert.Equal(t, []any{"Luke Skywalker"}, body["characters"])
		})
	}
}

func TestMoviesHandler_FindAll(t *testing.T) {
	t.Run("success: returns every movie", func(t *testing.T) {
		h := NewMoviesHandler(&mockMoviesUsecase{
			FindAllFunc: func(ctx context.Context) ([]entity.Movie, error) {
				return []entity.Movie{*newHope()}, nil
			},
		}, &mockSyncUsecase{})

		w := perform(newRouter(h), http.MethodGet, "/movies", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var body []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body, 1)
		assert.Equal(t, "A New Hope", body[0]["title"])
		assert.Equal(t, []any{}, body[0]["planets"])
	})

	t.Run("success: empty store yields an empty array", func(t *testing.T) {
		h := NewMoviesHandler(&mockMoviesUsecase{
			FindAllFunc: func(ctx context.Context) ([]entity.Movie, error) { return nil, nil },
		}, &mockSyncUsecase{})

		w := perform(newRouter(h), http.MethodGet, "/movies", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("failure: store error", func(t *testing.T) {
		h := NewMoviesHandler(&mockMoviesUsecase{
			FindAllFunc: func(ctx context.Context) ([]entity.Movie, error) { return nil, errors.New("db down") },
		}, &mockSyncUsecase{})

		w := perform(newRouter(h), http.MethodGet, "/movies", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestMoviesHandler_FindOne(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedError  string
	}{
		{name: "success", expectedStatus: http.StatusOK},
		{name: "failure: malformed id", err: usecase.ErrInvalidMovieID, expectedStatus: http.StatusBadRequest, expectedError: "Invalid movie ID format"},
		{name: "failure: not found", err: usecase.ErrMovieNotFound, expectedStatus: http.StatusNotFound, expectedError: "Movie not found"},
		{name: "failure: store error", err: errors.New("db down"), expectedStatus: http.StatusInternalServerError, expectedError: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewMoviesHandler(&mockMoviesUsecase{
				FindOneFunc: func(ctx context.Context, id string) (*entity.Movie, error) {
					assert.Equal(t, movieID, id)
					if tt.err != nil {
						return nil, tt.err
					}
					return newHope(), nil
				},
			}, &mockSyncUsecase{})

			w := perform(newRouter(h), http.MethodGet, "/movies/"+movieID, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			body := decode(t, w)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, body["error"])
				return
			}
			assert.Equal(t, float64(4), body["episode_id"])
		})
	}
}

func TestMoviesHandler_Update(t *testing.T) {
	t.Run("success: only supplied fields reach the patch", func(t *testing.T) {
		h := NewMoviesHandler(&mockMoviesUsecase{
			UpdateFunc: func(ctx context.Context, id string, patch entity.MoviePatch) (*entity.Movie, error) {
				require.NotNil(t, patch.Title)
				assert.Nil(t, patch.EpisodeID)
				assert.Nil(t, patch.Director)
				assert.Nil(t, patch.ReleaseDate)
				assert.Nil(t, patch.Characters)
				m := newHope()
				patch.Apply(m)
				return m, nil
			},
		}, &mockSyncUsecase{})

		w := perform(newRouter(h), http.MethodPatch, "/movies/"+movieID, gin.H{"title": "Star Wars"})

		assert.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, "Star Wars", body["title"])
		assert.Equal(t, "George Lucas", body["director"])
	})

	t.Run("success: release_date is parsed", func(t *testing.T) {
		h := NewMoviesHandler(&mockMoviesUsecase{
			UpdateFunc: func(ctx context.Context, id string, patch entity.MoviePatch) (*entity.Movie, error) {
				require.NotNil(t, patch.ReleaseDate)
				assert.Equal(t, time.Date(1997, 1, 31, 0, 0, 0, 0, time.UTC), *patch.ReleaseDate)
				m := newHope()
				patch.Apply(m)
				return m, nil
			},
		}, &mockSyncUsecase{})

		w := perform(newRouter(h), http.MethodPatch, "/movies/"+movieID, gin.H{"release_date": "1997-01-31"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "1997-01-31", decode(t, w)["release_date"])
	})

	t.Run("success: empty body returns the movie unchanged", func(t *testing.T) {
		h := NewMoviesHandler(&mockMoviesUsecase{
			UpdateFunc: func(ctx context.Context, id string, patch entity.MoviePatch) (*entity.Movie, error) {
				assert.Equal(t, entity.MoviePatch{}, patch)
				m := newHope()
				patch.Apply(m)
				return m, nil
			},
		}, &mockSyncUsecase{})

		w := perform(newRouter(h), http.MethodPatch, "/movies/"+movieID, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, "A New Hope", body["title"])
		assert.Equal(t, float64(4), body["episode_id"])
	})

	t.Run("failure: malformed json", func(t *testing.T) {
		h := NewMoviesHandler(&mockMoviesUsecase{}, &mockSyncUsecase{})
		r := newRouter(h)

		req := httptest.NewRequest(http.MethodPatch, "/movies/"+movieID, strings.NewReader(`{"title":`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	tests := []struct {
		name           string
		requestBody    gin.H
		err            error
		expectedStatus int
	}{
		{name: "failure: malformed release_date", requestBody: gin.H{"release_date": "yesterday"}, expectedStatus: http.StatusBadRequest},
		{name: "failure: malformed id", requestBody: gin.H{"title": "x"}, err: usecase.ErrInvalidMovieID, expectedStatus: http.StatusBadRequest},
		{name: "failure: not found", requestBody: gin.H{"title": "x"}, err: usecase.ErrMovieNotFound, expectedStatus: http.StatusNotFound},
		{name: "failure: episode collision", requestBody: gin.H{"episode_id": 5}, err: usecase.ErrMovieAlreadyExists, expectedStatus: http.StatusBadRequest},
		{name: "failure: store error", requestBody: gin.H{"title": "x"}, err: errors.New("db down"), expectedStatus: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewMoviesHandler(&mockMoviesUsecase{
				UpdateFunc: func(ctx context.Context, id string, patch entity.MoviePatch) (*entity.Movie, error) {
					return nil, tt.err
				},
			}, &mockSyncUsecase{})

			w := perform(newRouter(h), http.MethodPatch, "/movies/"+movieID, tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.NotEmpty(t, decode(t, w)["error"])
		})
	}
}

func TestMoviesHandler_Remove(t *testing.T) {
	t.Run("success: reports the deleted title", func(t *testing.T) {
		h := NewMoviesHandler(&mockMoviesUsecase{
			RemoveFunc: func(ctx context.Context, id string) (*usecase.DeleteResult, error) {
				return &usecase.DeleteResult{Message: "A New Hope deleted successfully"}, nil
			},
		}, &mockSyncUsecase{})

		w := perform(newRouter(h), http.MethodDelete, "/movies/"+movieID, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"A New Hope deleted successfully"}`, w.Body.String())
	})

	t.Run("failure: not found", func(t *testing.T) {
		h := NewMoviesHandler(&mockMoviesUsecase{
			RemoveFunc: func(ctx context.Context, id string) (*usecase.DeleteResult, error) {
				return nil, usecase.ErrMovieNotFound
			},
		}, &mockSyncUsecase{})

		w := perform(newRouter(h), http.MethodDelete, "/movies/"+movieID, nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestMoviesHandler_Sync(t *testing.T) {
	tests := []struct {
		name           string
		result         *usecase.SyncResult
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "success: new movies synced",
			result:         &usecase.SyncResult{Message: "Successfully synced 2 new movies", SyncedMovies: []string{"A New Hope", "The Empire Strikes Back"}},
			expectedStatus: http.StatusCreated,
			expectedBody:   `{"message":"Successfully synced 2 new movies","syncedMovies":["A New Hope","The Empire Strikes Back"]}`,
		},
		{
			name:           "success: nothing to sync",
			result:         &usecase.SyncResult{Message: "No new movies to sync"},
			expectedStatus: http.StatusCreated,
			expectedBody:   `{"message":"No new movies to sync"}`,
		},
		{
			name:           "failure: upstream error",
			err:            fmt.Errorf("%w: list films: timeout", usecase.ErrUpstream),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"external film source error: list films: timeout"}`,
		},
		{
			name:           "failure: batch insert error",
			err:            errors.New("duplicate key"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewMoviesHandler(&mockMoviesUsecase{}, &mockSyncUsecase{
				SyncFunc: func(ctx context.Context) (*usecase.SyncResult, error) { return tt.result, tt.err },
			})

			w := perform(newRouter(h), http.MethodPost, "/movies/sincronize", nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}
