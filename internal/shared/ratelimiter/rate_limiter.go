package ratelimiter

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiterInterface は、外部API呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	// Wait は次のリクエストが許可されるまで待機します。ctxがキャンセルされた場合はエラーを返します。
	Wait(ctx context.Context) error
}

// RateLimiter はトークンバケット方式で操作の頻度を制限します。
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter は1秒あたりperSecond回、最大burst回のバーストを許可するRateLimiterを生成します。
// perSecondが0以下の場合は無制限になります。
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{limiter: rate.NewLimiter(limit, burst)}
}

// Wait はレートリミットの上限に達している場合、トークンが補充されるまで待機します。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	return rl.limiter.Wait(ctx)
}
