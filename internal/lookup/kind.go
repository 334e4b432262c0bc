// 包 lookup：查询类型、输入校验与分发
package lookup

import (
	"net/netip"
	"regexp"
	"strings"

	"osint-api/internal/sources"
)

// Kind：查询类型
type Kind string

const (
	KindIP       Kind = "ip"
	KindPhone    Kind = "phone"
	KindVehicle  Kind = "vehicle"
	KindChallan  Kind = "challan"
	KindDL       Kind = "dl"
	KindRTO      Kind = "rto"
	KindIFSC     Kind = "ifsc"
	KindEmail    Kind = "email"
	KindDomain   Kind = "domain"
	KindUsername Kind = "username"
	KindCrypto   Kind = "crypto"
	KindMAC      Kind = "mac"
)

// Kinds：全部支持的查询类型
var Kinds = []Kind{
	KindIP, KindPhone, KindVehicle, KindChallan, KindDL, KindRTO,
	KindIFSC, KindEmail, KindDomain, KindUsername, KindCrypto, KindMAC,
}

// ParseKind：解析查询类型（大小写不敏感）
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, x := range Kinds {
		if x == k {
			return k, true
		}
	}
	return "", false
}

var (
	phoneRe    = regexp.MustCompile(`^\d{10,12}$`)
	vehicleRe  = regexp.MustCompile(`^[A-Z]{2}[0-9]{1,2}[A-Z]{0,3}[0-9]{4}$`)
	ifscRe     = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	dlRe       = regexp.MustCompile(`^[A-Z]{2}[0-9A-Z]{8,18}$`)
	rtoRe      = regexp.MustCompile(`^[A-Z]{2}[0-9]{1,3}[A-Z]?$`)
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	domainRe   = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?(\.[a-z0-9]([a-z0-9-]*[a-z0-9])?)+$`)
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)
	macRe      = regexp.MustCompile(`^[0-9A-F]{6,12}$`)
)

var stripSep = strings.NewReplacer(" ", "", "-", "", "\t", "")

// CleanPhone：去掉前导 +91、空白与连字符
func CleanPhone(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "+91")
	return stripSep.Replace(s)
}

// 文档注释：按类型校验并规范化输入
// 约束：纯函数，不访问网络；失败返回带格式提示的 invalid_input 错误。crypto 仅要求非空。
func Normalize(k Kind, raw string) (string, error) {
	q := strings.TrimSpace(raw)
	if q == "" {
		return "", invalid("Missing type or query parameter")
	}
	switch k {
	case KindPhone:
		s := CleanPhone(q)
		if !phoneRe.MatchString(s) {
			return "", invalid("Invalid phone number format. Please enter a 10-12 digit number.")
		}
		return s, nil
	case KindVehicle, KindChallan:
		s := strings.ToUpper(stripSep.Replace(q))
		if !vehicleRe.MatchString(s) {
			return "", invalid("Invalid vehicle registration format. Expected e.g. MH12AB1234.")
		}
		return s, nil
	case KindIFSC:
		s := strings.ToUpper(q)
		if !ifscRe.MatchString(s) {
			return "", invalid("Invalid IFSC format. Expected 4 letters, 0, then 6 characters (e.g. SBIN0001234).")
		}
		return s, nil
	case KindDL:
		s := strings.ToUpper(stripSep.Replace(q))
		if !dlRe.MatchString(s) {
			return "", invalid("Invalid driving license format. Expected state code followed by the license number.")
		}
		return s, nil
	case KindRTO:
		s := strings.ToUpper(stripSep.Replace(q))
		if !rtoRe.MatchString(s) {
			return "", invalid("Invalid RTO code format. Expected e.g. MH01.")
		}
		return s, nil
	case KindIP:
		a, err := netip.ParseAddr(q)
		if err != nil {
			return "", invalid("Invalid IP address format.")
		}
		return a.String(), nil
	case KindEmail:
		if !emailRe.MatchString(q) {
			return "", invalid("Invalid email format")
		}
		return q, nil
	case KindDomain:
		s := strings.ToLower(sources.CleanDomain(q))
		if !domainRe.MatchString(s) {
			return "", invalid("Invalid domain format. Expected e.g. example.com.")
		}
		return s, nil
	case KindUsername:
		s := strings.TrimSpace(strings.TrimPrefix(q, "@"))
		if !usernameRe.MatchString(s) {
			return "", invalid("Invalid username. Use letters, digits, dot, underscore or hyphen.")
		}
		return s, nil
	case KindMAC:
		if !macRe.MatchString(sources.CleanMAC(q)) {
			return "", invalid("Invalid MAC address format. Must be at least 6 hexadecimal characters.")
		}
		return q, nil
	case KindCrypto:
		return q, nil
	}
	return "", &Error{Code: CodeUnknownKind, Message: "Invalid lookup type"}
}
