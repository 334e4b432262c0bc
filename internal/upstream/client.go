// 包 upstream：统一的外呼 HTTP 客户端（UA/Referer、显式超时、状态码错误与指标）
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"osint-api/internal/logger"
	"osint-api/internal/metrics"
)

// maxBody：单次响应体读取上限
const maxBody = 4 << 20

// StatusError：上游返回非 2xx
type StatusError struct {
	Source string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: HTTP %d %s", e.Source, e.Code, http.StatusText(e.Code))
}

// IsStatus：判断 err 是否为指定状态码的 StatusError
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

// Request：一次外呼的描述；Source 用作指标与日志标签
type Request struct {
	Source string
	Method string
	URL    string
	Header http.Header
	Body   io.Reader
}

// Client：共享外呼客户端
// 约束：每次调用均以 Timeout 包裹上下文；不做重试；Timeout 为 0 时仅依赖调用方上下文。
type Client struct {
	HTTP    *http.Client
	Timeout time.Duration
}

func New(timeout time.Duration) *Client {
	return &Client{HTTP: &http.Client{}, Timeout: timeout}
}

// WithTimeout：复制一个使用不同超时的客户端（共享底层连接池）
func (c *Client) WithTimeout(d time.Duration) *Client {
	return &Client{HTTP: c.HTTP, Timeout: d}
}

// 文档注释：执行请求并读取响应体
// 返回：响应体、状态码；非 2xx 时返回 *StatusError（响应体仍返回以便调用方记录）。
func (c *Client) Do(ctx context.Context, r Request) ([]byte, int, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, r.URL, r.Body)
	if err != nil {
		return nil, 0, err
	}
	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if h := r.Header.Get("Host"); h != "" {
		req.Host = h
	}
	l := logger.From(ctx)
	t0 := time.Now()
	metrics.UpstreamRequestsTotal.WithLabelValues(r.Source).Inc()
	l.Debug("upstream_req", "source", r.Source, "method", method, "url", r.URL)
	resp, err := c.HTTP.Do(req)
	if err != nil {
		metrics.UpstreamFailTotal.WithLabelValues(r.Source).Inc()
		l.Warn("upstream_http_error", "source", r.Source, "err", err)
		return nil, 0, fmt.Errorf("%s: %w", r.Source, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	ms := time.Since(t0).Milliseconds()
	metrics.UpstreamDurationMs.WithLabelValues(r.Source).Observe(float64(ms))
	if err != nil {
		metrics.UpstreamFailTotal.WithLabelValues(r.Source).Inc()
		l.Warn("upstream_read_error", "source", r.Source, "err", err)
		return nil, resp.StatusCode, fmt.Errorf("%s: %w", r.Source, err)
	}
	l.Debug("upstream_resp", "source", r.Source, "status", resp.StatusCode, "bytes", len(body), "duration_ms", ms)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.UpstreamFailTotal.WithLabelValues(r.Source).Inc()
		return body, resp.StatusCode, &StatusError{Source: r.Source, Code: resp.StatusCode}
	}
	return body, resp.StatusCode, nil
}

// JSON：执行请求并解码 JSON 响应
func (c *Client) JSON(ctx context.Context, r Request, out any) error {
	if r.Header == nil {
		r.Header = http.Header{}
	}
	if r.Header.Get("Accept") == "" {
		r.Header.Set("Accept", "application/json")
	}
	body, _, err := c.Do(ctx, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		metrics.UpstreamFailTotal.WithLabelValues(r.Source).Inc()
		logger.From(ctx).Warn("upstream_decode_error", "source", r.Source, "err", err)
		return fmt.Errorf("%s: decode: %w", r.Source, err)
	}
	return nil
}

// Text：执行请求并返回文本响应体
func (c *Client) Text(ctx context.Context, r Request) (string, error) {
	body, _, err := c.Do(ctx, r)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Headers：由键值对快速构造请求头
func Headers(kv ...string) http.Header {
	h := http.Header{}
	for i := 0; i+1 < len(kv); i += 2 {
		h.Set(kv[i], kv[i+1])
	}
	return h
}
