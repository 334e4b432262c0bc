// 包 config：集中读取环境变量配置；.env 由入口通过 godotenv 预先加载
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// 默认 UA：桌面端用于 JSON/表单接口，移动端用于车辆/驾驶证页面
const (
	DefaultDesktopUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	DefaultMobileUA  = "Mozilla/5.0 (Linux; Android 10; K) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Mobile Safari/537.36"
	DefaultAPIUA     = "Mozilla/5.0 (compatible; OSINT-Tool/1.0)"
)

// Upstreams：各上游基础地址；测试中替换为 httptest 服务地址
type Upstreams struct {
	IPAPI      string
	IPWhois    string
	IPQuality  string
	IPAPICom   string
	IFSC       string
	DoH        string
	MACVendors string
	CallTracer string
	VahanX     string
	VahanAPI   string
	Ipify      string
	Telegram   string
}

type Config struct {
	Addr    string
	APIBase string

	LogLevel  string
	LogFormat string

	UpstreamTimeout  time.Duration
	VisitorIPTimeout time.Duration
	MinScrapedFields int
	DesktopUA        string
	MobileUA         string
	APIUA            string
	Upstreams        Upstreams

	TelegramToken  string
	TelegramChatID string
	TelegramTitle  string

	WhoisEnable     bool
	GeoIPCityPath   string
	IP2RegionV4Path string

	RedisEnable bool
	IPCacheTTL  time.Duration

	PGEnable bool

	RateLimitEnabled bool
	RateLimitQPS     float64
	RateLimitBurst   int

	AdminAllowIPs     []string
	AdminAllowCIDRs   []string
	AdminAllowLocal   bool
	AdminRealIPHeader string

	TLSEnable   bool
	TLSCertPath string
	TLSKeyPath  string
}

// Load：从环境变量构建配置，缺省值与文档一致
func Load() Config {
	c := Config{
		Addr:      str("ADDR", ":8080"),
		APIBase:   str("API_BASE", "/api"),
		LogLevel:  os.Getenv("LOG_LEVEL"),
		LogFormat: os.Getenv("LOG_FORMAT"),

		UpstreamTimeout:  millis("UPSTREAM_TIMEOUT_MS", 8000),
		VisitorIPTimeout: millis("VISITOR_IP_TIMEOUT_MS", 3000),
		MinScrapedFields: integer("SCRAPE_MIN_FIELDS", 2),
		DesktopUA:        str("USER_AGENT_DESKTOP", DefaultDesktopUA),
		MobileUA:         str("USER_AGENT_MOBILE", DefaultMobileUA),
		APIUA:            str("USER_AGENT_API", DefaultAPIUA),
		Upstreams: Upstreams{
			IPAPI:      str("IPAPI_BASE", "https://ipapi.co"),
			IPWhois:    str("IPWHOIS_BASE", "http://ipwho.is"),
			IPQuality:  str("IPQUALITY_BASE", "https://ipqualityscore.com/api/json/ip/demo"),
			IPAPICom:   str("IPAPICOM_BASE", "http://ip-api.com"),
			IFSC:       str("IFSC_BASE", "https://ifsc.razorpay.com"),
			DoH:        str("DOH_ENDPOINT", "https://dns.google/dns-query"),
			MACVendors: str("MACVENDORS_BASE", "https://api.macvendors.com"),
			CallTracer: str("CALLTRACER_URL", "https://calltracer.in"),
			VahanX:     str("VAHANX_BASE", "https://vahanx.in"),
			VahanAPI:   str("VAHAN_API_BASE", "https://vahan-api.vercel.app"),
			Ipify:      str("IPIFY_URL", "https://api.ipify.org?format=json"),
			Telegram:   str("TELEGRAM_API_BASE", "https://api.telegram.org"),
		},

		TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID: os.Getenv("TELEGRAM_CHAT_ID"),
		TelegramTitle:  str("TELEGRAM_TITLE", "OSINT"),

		WhoisEnable:     boolean("WHOIS_ENABLE", false),
		GeoIPCityPath:   os.Getenv("GEOIP_CITY_PATH"),
		IP2RegionV4Path: os.Getenv("IP2REGION_V4_PATH"),

		RedisEnable: boolean("REDIS_ENABLE", false),
		IPCacheTTL:  time.Duration(integer("IP_CACHE_TTL_SECONDS", 0)) * time.Second,

		PGEnable: boolean("PG_ENABLE", false),

		RateLimitEnabled: boolean("RATE_LIMIT_ENABLED", false),
		RateLimitQPS:     float("RATE_LIMIT_QPS", 20),
		RateLimitBurst:   integer("RATE_LIMIT_BURST", 40),

		AdminAllowIPs:     list("ADMIN_ALLOW_IPS"),
		AdminAllowCIDRs:   list("ADMIN_ALLOW_CIDRS"),
		AdminAllowLocal:   boolean("ADMIN_ALLOW_LOCAL", true),
		AdminRealIPHeader: os.Getenv("ADMIN_REAL_IP_HEADER"),

		TLSEnable:   boolean("TLS_ENABLE", false),
		TLSCertPath: str("TLS_CERT_PATH", filepath.Join("data", "certs", "server.crt")),
		TLSKeyPath:  str("TLS_KEY_PATH", filepath.Join("data", "certs", "server.key")),
	}
	if c.MinScrapedFields < 1 {
		c.MinScrapedFields = 1
	}
	return c
}

func str(env, def string) string {
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		return v
	}
	return def
}

func integer(env string, def int) int {
	if v := os.Getenv(env); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func float(env string, def float64) float64 {
	if v := os.Getenv(env); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return def
}

func millis(env string, def int) time.Duration {
	n := integer(env, def)
	if n <= 0 {
		n = def
	}
	return time.Duration(n) * time.Millisecond
}

func boolean(env string, def bool) bool {
	switch strings.ToLower(os.Getenv(env)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return def
}

func list(env string) []string {
	var out []string
	for _, p := range strings.Split(os.Getenv(env), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
