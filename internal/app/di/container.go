package di

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"movie_backend/internal/app/router"
	authadapters "movie_backend/internal/feature/auth/adapters"
	authhandler "movie_backend/internal/feature/auth/transport/handler"
	authusecase "movie_backend/internal/feature/auth/usecase"
	moviesadapters "movie_backend/internal/feature/movies/adapters"
	movieshandler "movie_backend/internal/feature/movies/transport/handler"
	moviesusecase "movie_backend/internal/feature/movies/usecase"
	"movie_backend/internal/platform/authz"
	"movie_backend/internal/platform/cache"
	"movie_backend/internal/platform/config"
	"movie_backend/internal/platform/db"
	"movie_backend/internal/platform/http/handler"
	jwtmw "movie_backend/internal/platform/jwt"
	"movie_backend/internal/platform/password"
	infraredis "movie_backend/internal/platform/redis"
)

// Container holds the shared resources and the wired use cases.
type Container struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client // nil when the name cache is off

	Names  *cache.CachingNameResolver
	Movies movieshandler.MoviesUsecase
	Sync   *moviesusecase.SyncUsecase
	Auth   authhandler.AuthUsecase
}

// NewContainer opens the database and Redis, then wires repositories and use cases.
// A Redis failure is logged and the container runs without the name cache.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	jwtGen, err := jwtmw.NewGenerator(cfg.JWT.Secret, cfg.JWT.Expiration)
	if err != nil {
		return nil, err
	}

	// db
	gdb, err := db.Open(cfg.Database, &moviesadapters.MovieModel{}, &authadapters.UserModel{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Redis
	rdb, err := infraredis.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
		rdb = nil
	}

	// Repository
	userRepo := authadapters.NewUserRepository(gdb)
	movieRepo := moviesadapters.NewMovieRepository(gdb)

	// External catalogue, wrapped with the Redis name cache
	catalog := NewCatalog(cfg.SWAPI)
	names := NewNameResolver(rdb, cfg.Redis, catalog)

	// Usecase
	return &Container{
		Config: cfg,
		DB:     gdb,
		Redis:  rdb,
		Names:  names,
		Movies: moviesusecase.NewMoviesUsecase(movieRepo),
		Sync:   moviesusecase.NewSyncUsecase(movieRepo, catalog, names, cfg.SWAPI.MaxConcurrentLookups),
		Auth:   authusecase.NewAuthUsecase(userRepo, password.NewBcryptHasher(password.DefaultCost), jwtGen),
	}, nil
}

// Router builds the HTTP handlers and the gin engine.
func (c *Container) Router() (*gin.Engine, error) {
	enforcer, err := authz.NewEnforcer()
	if err != nil {
		return nil, err
	}

	// Handler
	authH := authhandler.NewAuthHandler(c.Auth)
	moviesH := movieshandler.NewMoviesHandler(c.Movies, c.Sync)

	return router.NewRouter(c.Config.JWT.Secret, enforcer, authH, moviesH, c.readinessChecks()...)
}

func (c *Container) readinessChecks() []handler.Check {
	checks := []handler.Check{{
		Name: "database",
		Ping: func(ctx context.Context) error {
			sqlDB, err := c.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}}
	if c.Redis != nil {
		checks = append(checks, handler.Check{
			Name: "redis",
			Ping: func(ctx context.Context) error { return c.Redis.Ping(ctx).Err() },
		})
	}
	return checks
}

// Close releases the database and Redis connections.
func (c *Container) Close() {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			slog.Error("Failed to close Redis client", "error", err)
		}
	}
	if sqlDB, err := c.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("Failed to close database", "error", err)
		}
	}
}
