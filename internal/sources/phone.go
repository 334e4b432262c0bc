package sources

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"osint-api/internal/extract"
	"osint-api/internal/logger"
	"osint-api/internal/record"
	"osint-api/internal/schema"
	"osint-api/internal/upstream"
)

func (e Env) phonePage(ctx context.Context, source, ua, digits string) (string, error) {
	form := url.Values{"country": {"IN"}, "q": {digits}}
	return e.HTTP.Text(ctx, upstream.Request{
		Source: source,
		Method: "POST",
		URL:    e.Upstreams.CallTracer,
		Header: upstream.Headers("User-Agent", ua, "Content-Type", "application/x-www-form-urlencoded"),
		Body:   strings.NewReader(form.Encode()),
	})
}

// 文档注释：号码追踪（标签表格提取）
// 约束：raw 为原始输入，digits 为已校验的 10~12 位数字；清洗后的号码回显计为一个字段，总数低于 MinFields 视为无数据。
func (e Env) Phone(ctx context.Context, raw, digits string) (*record.Record, error) {
	html, err := e.phonePage(ctx, "calltracer", e.DesktopUA, digits)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	rec := record.New()
	rec.Set("Number (Input)", raw)
	rec.Set("Number (Cleaned)", digits)
	found := 0
	for _, tag := range schema.PhoneTags {
		if v, ok := extract.TableCell(html, tag); ok {
			rec.Set(tag, v)
			found++
		}
	}
	logger.From(ctx).Debug("phone_extracted", "fields", found)
	if found+1 < e.minFields() {
		return nil, notFound("No phone data found. The number may be invalid or data is not available.")
	}
	return rec, nil
}

// PhoneTrace：/phone 端点的响应结构
type PhoneTrace struct {
	Phone          string `json:"phone"`
	InputPhone     string `json:"inputPhone"`
	Country        string `json:"country"`
	Type           string `json:"type"`
	Owner          string `json:"owner,omitempty"`
	Operator       string `json:"operator,omitempty"`
	Circle         string `json:"circle,omitempty"`
	State          string `json:"state,omitempty"`
	ConnectionType string `json:"connectionType,omitempty"`
	Found          bool   `json:"found"`
}

// 文档注释：/phone 端点的宽松提取
// 约束：found 仅由 owner/operator/circle 是否命中决定。
func (e Env) PhoneLegacy(ctx context.Context, raw, digits string) (*PhoneTrace, error) {
	html, err := e.phonePage(ctx, "calltracer_legacy", e.DesktopUA, digits)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	out := &PhoneTrace{Phone: digits, InputPhone: raw, Country: "India", Type: "Mobile Number"}
	dst := map[string]*string{
		"owner":          &out.Owner,
		"operator":       &out.Operator,
		"circle":         &out.Circle,
		"state":          &out.State,
		"connectionType": &out.ConnectionType,
	}
	for _, f := range schema.PhoneLegacy {
		for _, label := range f.Labels {
			if v, ok := extract.LooseTableCell(html, label); ok {
				*dst[f.Name] = v
				break
			}
		}
	}
	out.Found = out.Owner != "" || out.Operator != "" || out.Circle != ""
	return out, nil
}
