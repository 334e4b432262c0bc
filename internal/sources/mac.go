package sources

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"osint-api/internal/record"
	"osint-api/internal/upstream"
)

// CleanMAC：去掉分隔符并转大写
func CleanMAC(raw string) string {
	r := strings.NewReplacer(":", "", "-", "")
	return strings.ToUpper(r.Replace(strings.TrimSpace(raw)))
}

// macAdminType：第二个十六进制位的 U/L 位
func macAdminType(mac string) string {
	switch mac[1] {
	case '2', '6', 'A', 'E':
		return "Locally Administered"
	}
	return "Universally Administered"
}

func macMulticast(mac string) string {
	n, err := strconv.ParseUint(mac[1:2], 16, 8)
	if err == nil && n&1 == 1 {
		return "Yes"
	}
	return "No"
}

// 文档注释：MAC 厂商查询
// 约束：mac 为原始输入（已校验清洗后长度 >= 6）；OUI 与位信息本地计算。
// 404 返回“未注册”记录（不降级）；其余失败返回降级记录，degraded=true。
func (e Env) MAC(ctx context.Context, raw string) (*record.Record, bool) {
	mac := CleanMAC(raw)
	oui := mac[:6]
	rec := record.New()
	rec.Set("MAC Address", raw)
	rec.Set("OUI", oui)

	body, _, err := e.HTTP.Do(ctx, upstream.Request{
		Source: "macvendors",
		URL:    join(e.Upstreams.MACVendors, url.PathEscape(raw)),
		Header: upstream.Headers("User-Agent", e.APIUA),
	})
	switch {
	case err == nil:
		rec.Set("Vendor/Manufacturer", strings.TrimSpace(string(body)))
		rec.Set("Address Type", macAdminType(mac))
		rec.Set("Multicast", macMulticast(mac))
		return rec, false
	case upstream.IsStatus(err, http.StatusNotFound):
		rec.Set("Vendor/Manufacturer", "Unknown - OUI not found in database")
		rec.Set("Note", "This MAC address prefix is not registered or is private")
		return rec, false
	}
	reason := "Vendor lookup service unavailable"
	var se *upstream.StatusError
	if !errors.As(err, &se) {
		reason = "network error"
	}
	rec.Set("Address Type", macAdminType(mac))
	rec.Set("Note", "Vendor lookup failed: "+reason+". OUI database temporarily unavailable.")
	return rec, true
}
