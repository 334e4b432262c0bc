package sources

import (
	"regexp"
	"strconv"
	"strings"

	"osint-api/internal/record"
)

type rtoOffice struct {
	Code, Name, State, City, Address, Contact string
}

// rtoTable：内置 RTO 办公室信息
var rtoTable = map[string]rtoOffice{
	"MH01": {"MH01", "Mumbai Central", "Maharashtra", "Mumbai", "Tardeo Road, Mumbai - 400034", "022-23525678"},
	"MH02": {"MH02", "Mumbai West", "Maharashtra", "Mumbai", "Andheri West, Mumbai - 400058", "022-26734567"},
	"DL01": {"DL01", "Delhi Central", "Delhi", "New Delhi", "Kashmere Gate, Delhi - 110006", "011-23456789"},
}

// 文档注释：RTO 静态查询
// 约束：未知代码返回降级记录（州代码取前两位），degraded=true；从不返回错误。
func RTO(code string) (*record.Record, bool) {
	rec := record.New()
	if o, ok := rtoTable[code]; ok {
		rec.Set("RTO Code", o.Code)
		rec.Set("RTO Name", o.Name)
		rec.Set("State", o.State)
		rec.Set("City", o.City)
		rec.Set("Address", o.Address)
		rec.Set("Contact", o.Contact)
		return rec, false
	}
	state := code
	if len(state) > 2 {
		state = state[:2]
	}
	rec.Set("RTO Code", code)
	rec.Set("State", state)
	rec.Set("Message", "Detailed RTO information not available for this code")
	return rec, true
}

var (
	btcRe = regexp.MustCompile(`^(1|3|bc1)[a-zA-HJ-NP-Z0-9]{25,62}$`)
	ethRe = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)
)

// 文档注释：加密货币地址格式分类（纯本地）
// 约束：无法识别的格式返回 "Unknown format"，不返回错误。
func Crypto(addr string) *record.Record {
	addr = strings.TrimSpace(addr)
	chain, kind, valid := "Unknown", "Unknown", false
	switch {
	case btcRe.MatchString(addr):
		chain, valid = "Bitcoin", true
		switch {
		case strings.HasPrefix(addr, "bc1"):
			kind = "SegWit (Bech32)"
		case strings.HasPrefix(addr, "3"):
			kind = "P2SH"
		default:
			kind = "Legacy (P2PKH)"
		}
	case ethRe.MatchString(addr):
		chain, kind, valid = "Ethereum", "Standard", true
	}
	rec := record.New()
	rec.Set("Address", addr)
	if valid {
		rec.Set("Format Valid", "Yes")
	} else {
		rec.Set("Format Valid", "Unknown format")
	}
	rec.Set("Blockchain", chain)
	rec.Set("Address Type", kind)
	rec.Set("Address Length", strconv.Itoa(len(addr)))
	if valid {
		rec.Set("Note", "Valid "+chain+" address detected. Use blockchain explorers for transaction history.")
	} else {
		rec.Set("Note", "Address format not recognized. May be from an unsupported blockchain.")
	}
	return rec
}

// Platform：用户名候选链接的平台
type Platform struct {
	Name   string
	Prefix string
}

var Platforms = []Platform{
	{"Twitter/X", "https://twitter.com/"},
	{"Instagram", "https://instagram.com/"},
	{"GitHub", "https://github.com/"},
	{"Reddit", "https://reddit.com/user/"},
	{"LinkedIn", "https://linkedin.com/in/"},
	{"TikTok", "https://tiktok.com/@"},
	{"YouTube", "https://youtube.com/@"},
	{"Facebook", "https://facebook.com/"},
}

// 文档注释：生成各平台的候选主页链接
// 约束：只生成链接，不验证账号是否存在；成功仅表示链接已生成。
func Username(name string) *record.Record {
	name = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(name), "@"))
	lines := make([]string, 0, len(Platforms))
	for _, p := range Platforms {
		lines = append(lines, p.Name+": "+p.Prefix+name)
	}
	rec := record.New()
	rec.Set("Username", name)
	rec.Set("Search Status", "Profile links generated")
	rec.Set("Platforms to Check", strconv.Itoa(len(Platforms)))
	rec.Set("Profile URLs", strings.Join(lines, "\n"))
	rec.Set("Note", "Visit the URLs above to check if this username exists on each platform. Automated checking requires API access.")
	return rec
}
