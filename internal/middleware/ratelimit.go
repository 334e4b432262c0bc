package middleware

import (
	"encoding/json"
	"net/http"

	"golang.org/x/time/rate"

	"osint-api/internal/config"
	"osint-api/internal/logger"
	"osint-api/internal/metrics"
)

// 文档注释：令牌桶限流中间件
// 背景：在流量峰值时对入口进行限速，避免上游数据源被打满；按配置开关与速率。
// 约束：不排队，超限直接返回 429；所有请求共享同一个桶。
func RateLimit(qps float64, burst int) func(http.Handler) http.Handler {
	if burst < 1 {
		burst = 1
	}
	lim := rate.NewLimiter(rate.Limit(qps), burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !lim.Allow() {
				metrics.RateLimitedTotal.Inc()
				logger.From(r.Context()).Debug("rate_limited", "path", r.URL.Path)
				w.Header().Set("content-type", "application/json; charset=utf-8")
				w.Header().Set("retry-after", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "Too many requests"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Wrap：按配置组装入口中间件（限流在访问日志内侧）
func Wrap(cfg config.Config, next http.Handler) http.Handler {
	h := next
	if cfg.RateLimitEnabled {
		h = RateLimit(cfg.RateLimitQPS, cfg.RateLimitBurst)(h)
		logger.L().Info("rate_limit_enabled", "qps", cfg.RateLimitQPS, "burst", cfg.RateLimitBurst)
	}
	return logger.AccessMiddleware(logger.L())(h)
}
