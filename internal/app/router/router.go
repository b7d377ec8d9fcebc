// Package router はアプリケーションのHTTPルーティングを構築します。
package router

import (
	"fmt"

	"github.com/gin-gonic/gin"

	authhandler "movie_backend/internal/feature/auth/transport/handler"
	movieshandler "movie_backend/internal/feature/movies/transport/handler"
	"movie_backend/internal/platform/authz"
	"movie_backend/internal/platform/http/handler"
	jwtmw "movie_backend/internal/platform/jwt"
	"movie_backend/internal/platform/logging"
	"movie_backend/internal/platform/metrics"
	"movie_backend/internal/platform/validation"
)

// Roles required by guarded routes.
const (
	roleAdmin   = "admin"
	roleRegular = "regular"
)

// NewRouter は全てのルートとミドルウェアを登録したエンジンを返します。
// secret はトークン検証に使う署名鍵、checks は /readyz で確認する依存先です。
// リクエストDTOが使うカスタムのバインディングタグもここで登録します。
func NewRouter(secret string, enforcer *authz.Enforcer, authHandler *authhandler.AuthHandler,
	movies *movieshandler.MoviesHandler, checks ...handler.Check) (*gin.Engine, error) {
	if err := validation.Register(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery(), logging.RequestLogger(), metrics.Middleware())

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	r.GET("/readyz", handler.Ready(checks...))
	r.GET("/metrics", metrics.Handler())

	auth := r.Group("/auth")
	{
		// 新規ユーザー登録
		auth.POST("/register", authHandler.Register)
		// ログイン（JWT 発行）
		auth.POST("/login", authHandler.Login)
	}

	// 認証必須のルート
	// → リクエストヘッダーに JWT が必要になる
	m := r.Group("/movies")
	m.Use(jwtmw.AuthRequired(secret))
	{
		// 認証のみ（ロール不問）
		m.GET("", movies.FindAll)
		m.GET("/:id", enforcer.RequireRole(roleRegular), movies.FindOne)

		admin := enforcer.RequireRole(roleAdmin)
		m.POST("", admin, movies.Create)
		m.POST("/sincronize", admin, movies.Sync)
		m.PATCH("/:id", admin, movies.Update)
		m.DELETE("/:id", admin, movies.Remove)
	}

	return r, nil
}
