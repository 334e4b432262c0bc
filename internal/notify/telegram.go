// 包 notify：联系请求转发到 Telegram 机器人
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"osint-api/internal/logger"
	"osint-api/internal/metrics"
	"osint-api/internal/upstream"
)

// ErrMissingFields：必填字段缺失
var ErrMissingFields = errors.New("Missing required fields")

// ErrNotConfigured：未配置机器人令牌或会话 ID
var ErrNotConfigured = errors.New("Contact relay is not configured")

// Request：联系表单
type Request struct {
	Name             string `json:"name"`
	ContactMethod    string `json:"contactMethod"`
	TelegramUsername string `json:"telegramUsername"`
	SearchType       string `json:"searchType"`
	Message          string `json:"message"`
}

// Validate：name、telegramUsername、searchType、message 必填
func (r Request) Validate() error {
	for _, v := range []string{r.Name, r.TelegramUsername, r.SearchType, r.Message} {
		if strings.TrimSpace(v) == "" {
			return ErrMissingFields
		}
	}
	return nil
}

// Telegram：Bot API 客户端
type Telegram struct {
	HTTP   *upstream.Client
	Base   string
	Token  string
	ChatID string
	Title  string
	// Now：接收时间来源；测试中替换
	Now func() time.Time
}

// Format：生成 HTML 消息正文；用户输入均做转义
func (t *Telegram) Format(r Request) string {
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}
	title := t.Title
	if title == "" {
		title = "OSINT"
	}
	e := html.EscapeString
	var b strings.Builder
	fmt.Fprintf(&b, "🔔 <b>New %s Request</b>\n\n", e(title))
	fmt.Fprintf(&b, "👤 <b>Name:</b> %s\n", e(r.Name))
	fmt.Fprintf(&b, "📱 <b>Contact Method:</b> %s\n", e(r.ContactMethod))
	fmt.Fprintf(&b, "💬 <b>Telegram Username:</b> %s\n", e(r.TelegramUsername))
	fmt.Fprintf(&b, "🔍 <b>Search Type:</b> %s\n\n", e(r.SearchType))
	fmt.Fprintf(&b, "📝 <b>Request Details:</b>\n%s\n\n", e(r.Message))
	fmt.Fprintf(&b, "⏰ <b>Received:</b> %s", now().Format("2006-01-02 15:04:05 MST"))
	return b.String()
}

type sendResult struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// 文档注释：校验并发送联系请求
// 约束：Bot API 返回 ok:false 时以 description 作为错误信息；非 2xx 响应体仍按同一结构解析。
func (t *Telegram) Send(ctx context.Context, r Request) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if t.Token == "" || t.ChatID == "" {
		metrics.RelayTotal.WithLabelValues("unconfigured").Inc()
		return ErrNotConfigured
	}
	payload, _ := json.Marshal(map[string]string{
		"chat_id":    t.ChatID,
		"text":       t.Format(r),
		"parse_mode": "HTML",
	})
	body, _, err := t.HTTP.Do(ctx, upstream.Request{
		Source: "telegram",
		Method: "POST",
		URL:    strings.TrimRight(t.Base, "/") + "/bot" + t.Token + "/sendMessage",
		Header: upstream.Headers("Content-Type", "application/json"),
		Body:   bytes.NewReader(payload),
	})
	var res sendResult
	if len(body) > 0 && json.Unmarshal(body, &res) == nil && !res.OK {
		metrics.RelayTotal.WithLabelValues("rejected").Inc()
		msg := res.Description
		if msg == "" {
			msg = "Failed to send message to Telegram"
		}
		logger.From(ctx).Warn("telegram_rejected", "description", res.Description)
		return errors.New(msg)
	}
	if err != nil {
		metrics.RelayTotal.WithLabelValues("error").Inc()
		logger.From(ctx).Warn("telegram_send_error", "err", err)
		return fmt.Errorf("Failed to send request: %w", err)
	}
	metrics.RelayTotal.WithLabelValues("ok").Inc()
	logger.From(ctx).Info("telegram_sent", "search_type", r.SearchType)
	return nil
}
