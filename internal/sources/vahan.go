package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"osint-api/internal/extract"
	"osint-api/internal/logger"
	"osint-api/internal/record"
	"osint-api/internal/schema"
	"osint-api/internal/upstream"
)

// Now：车龄计算使用的时钟；测试中替换
var Now = time.Now

func (e Env) vahanPage(ctx context.Context, source, section, id string) (string, error) {
	html, err := e.HTTP.Text(ctx, upstream.Request{
		Source: source,
		URL:    join(e.Upstreams.VahanX, section+"/"+url.PathEscape(id)),
		Header: upstream.Headers(
			"User-Agent", e.MobileUA,
			"Accept", "text/html,application/xhtml+xml,application/xml;q=0.9",
			"Referer", join(e.Upstreams.VahanX, section),
		),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return html, nil
}

// 文档注释：车辆 RC 页面抓取
// 约束：rc 已规范化；输入回显计入字段数；字段数低于 MinFields 返回 "No vehicle data found..."。
func (e Env) Vehicle(ctx context.Context, rc string) (*record.Record, error) {
	html, err := e.vahanPage(ctx, "vahanx_rc", "rc-search", rc)
	if err != nil {
		return nil, err
	}
	rec := record.New()
	for _, f := range schema.Vehicle {
		v, ok := extract.Value(html, f.Labels, schema.VehicleNoise)
		rec.SetIf(f.Name, v, ok)
		if f.Name == "Address" {
			rec.Set("Vehicle Number", rc)
		}
		if f.Name == schema.RegistrationDate && ok {
			age, ok := schema.VehicleAge(v, Now())
			rec.SetIf("Vehicle Age", age, ok)
		}
	}
	logger.From(ctx).Debug("vehicle_extracted", "fields", rec.Len())
	if rec.Len() < e.minFields() {
		return nil, notFound("No vehicle data found. The vehicle number may be invalid or data is not available.")
	}
	return rec, nil
}

// 文档注释：驾驶证页面抓取
// 约束：同 Vehicle；DL Number 为首个字段（输入回显）。
func (e Env) DrivingLicense(ctx context.Context, dl string) (*record.Record, error) {
	html, err := e.vahanPage(ctx, "vahanx_dl", "dl-search", dl)
	if err != nil {
		return nil, err
	}
	rec := record.New()
	rec.Set("DL Number", dl)
	for _, f := range schema.DrivingLicense {
		v, ok := extract.Value(html, f.Labels, schema.DLNoise)
		rec.SetIf(f.Name, v, ok)
	}
	logger.From(ctx).Debug("dl_extracted", "fields", rec.Len())
	if rec.Len() < e.minFields() {
		return nil, notFound("No DL data found. The DL number may be invalid or data is not available.")
	}
	return rec, nil
}

var (
	totalChallansRe = regexp.MustCompile(`(?i)Total Challans[:\s]*(\d+)`)
	totalAmountRe   = regexp.MustCompile(`(?i)Total Amount[:\s]*₹?\s*([\d,]+)`)
)

// 文档注释：电子罚单汇总
// 约束：总数与金额按正则提取，缺失时为 0；表格行（罚单号/日期/金额/状态）以 "Challan N" 字段追加。
func (e Env) Challan(ctx context.Context, rc string) (*record.Record, error) {
	html, err := e.vahanPage(ctx, "vahanx_challan", "challan-search", rc)
	if err != nil {
		return nil, err
	}
	rows := challanRows(html)
	total := strconv.Itoa(len(rows))
	if m := totalChallansRe.FindStringSubmatch(html); m != nil {
		total = m[1]
	}
	amount := "₹0"
	if m := totalAmountRe.FindStringSubmatch(html); m != nil {
		amount = "₹" + m[1]
	}
	rec := record.New()
	rec.Set("Vehicle Number", rc)
	rec.Set("Total Challans", total)
	rec.Set("Total Amount", amount)
	for i, r := range rows {
		rec.Set(fmt.Sprintf("Challan %d", i+1), r)
	}
	return rec, nil
}

// challanColumns：表头关键字 -> 输出标签
var challanColumns = []struct{ key, label string }{
	{"challan", "No"},
	{"date", "Date"},
	{"amount", "Amount"},
	{"status", "Status"},
}

// challanRows：在表头含 "challan" 的表格中逐行拼接各列
func challanRows(html string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	var out []string
	doc.Find("table").Each(func(_ int, t *goquery.Selection) {
		idx := map[string]int{}
		t.Find("tr").First().Find("th,td").Each(func(i int, c *goquery.Selection) {
			h := strings.ToLower(strings.TrimSpace(c.Text()))
			for _, col := range challanColumns {
				if _, seen := idx[col.label]; !seen && strings.Contains(h, col.key) {
					idx[col.label] = i
					break
				}
			}
		})
		if _, ok := idx["No"]; !ok {
			return
		}
		t.Find("tr").Slice(1, goquery.ToEnd).Each(func(_ int, tr *goquery.Selection) {
			cells := tr.Find("td")
			var parts []string
			for _, col := range challanColumns {
				i, ok := idx[col.label]
				if !ok || i >= cells.Length() {
					continue
				}
				v := strings.Join(strings.Fields(cells.Eq(i).Text()), " ")
				if v != "" {
					parts = append(parts, col.label+": "+v)
				}
			}
			if len(parts) > 0 {
				out = append(out, strings.Join(parts, " | "))
			}
		})
	})
	return out
}

// 文档注释：/vehicle 端点的 JSON 上游（顺序回退）
// 约束：先 vahan-api（取 data），再 vahanx JSON 接口（success 为真时取 data）；两者都失败返回 NotFoundError。
func (e Env) VehicleAPI(ctx context.Context, rc string) (json.RawMessage, error) {
	l := logger.From(ctx)
	var first struct {
		Data json.RawMessage `json:"data"`
	}
	err := e.HTTP.JSON(ctx, upstream.Request{
		Source: "vahan_api",
		URL:    join(e.Upstreams.VahanAPI, "api/vehicle/"+url.PathEscape(rc)),
		Header: upstream.Headers("User-Agent", e.DesktopUA),
	}, &first)
	if err == nil && present(first.Data) {
		return first.Data, nil
	}
	l.Info("vehicle_api_fallback", "err", err)

	body, _ := json.Marshal(map[string]string{"vehicleNumber": rc})
	var second struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	err = e.HTTP.JSON(ctx, upstream.Request{
		Source: "vahanx_api",
		Method: "POST",
		URL:    join(e.Upstreams.VahanX, "api/vehicle-info"),
		Header: upstream.Headers("User-Agent", e.DesktopUA, "Content-Type", "application/json"),
		Body:   bytes.NewReader(body),
	}, &second)
	if err == nil && second.Success {
		return second.Data, nil
	}
	l.Info("vehicle_api_not_found", "err", err)
	return nil, notFound("Vehicle data not found")
}

func present(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	switch s {
	case "", "null", "false", "0", `""`:
		return false
	}
	return true
}
