// 包 sources：各上游数据源适配器
// 约束：每个适配器每次调用至多发出一次外呼，不重试；预期内的失败转换为降级记录或类型化错误，不向上抛出原始响应。
package sources

import (
	"errors"
	"strings"

	"osint-api/internal/config"
	"osint-api/internal/upstream"
)

// ErrUnavailable：数据源不可用（传输错误、非 2xx、解析失败或上游报告失败）
var ErrUnavailable = errors.New("source unavailable")

// NotFoundError：上游可达但未给出有效数据；Msg 直接作为用户可见信息
type NotFoundError struct{ Msg string }

func (e *NotFoundError) Error() string { return e.Msg }

func notFound(msg string) error { return &NotFoundError{Msg: msg} }

// IsNotFound：判断是否为 NotFoundError 并返回其信息
func IsNotFound(err error) (string, bool) {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nf.Msg, true
	}
	return "", false
}

// Env：适配器共享的外呼环境
type Env struct {
	HTTP      *upstream.Client
	Upstreams config.Upstreams
	DesktopUA string
	MobileUA  string
	APIUA     string
	// MinFields：抓取类数据源的最少字段数（含输入回显）
	MinFields int
}

// NewEnv：由配置构建外呼环境
func NewEnv(cfg config.Config) Env {
	return Env{
		HTTP:      upstream.New(cfg.UpstreamTimeout),
		Upstreams: cfg.Upstreams,
		DesktopUA: cfg.DesktopUA,
		MobileUA:  cfg.MobileUA,
		APIUA:     cfg.APIUA,
		MinFields: cfg.MinScrapedFields,
	}
}

func (e Env) minFields() int {
	if e.MinFields < 1 {
		return 2
	}
	return e.MinFields
}

func join(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// tld：最后一个点之后的部分（大写）；无点时返回整体
func tld(domain string) string {
	i := strings.LastIndex(domain, ".")
	t := strings.ToUpper(domain[i+1:])
	if t == "" {
		return "Unknown"
	}
	return t
}
