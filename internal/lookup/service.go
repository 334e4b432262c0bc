package lookup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"osint-api/internal/fusion"
	"osint-api/internal/localdb"
	"osint-api/internal/logger"
	"osint-api/internal/metrics"
	"osint-api/internal/record"
	"osint-api/internal/sources"
)

// Result：一次查询的结果；Degraded 表示记录为尽力而为（部分来源失败或使用了默认值）
type Result struct {
	Data     *record.Record `json:"data"`
	Degraded bool           `json:"degraded"`
}

// Cache：合并后 IP 记录的缓存
type Cache interface {
	Get(ctx context.Context, key string) (*Result, bool)
	Set(ctx context.Context, key string, r *Result)
}

// Stats：查询统计写入（可选）
type Stats interface {
	IncrStats(ctx context.Context, kind, outcome string) error
	RecordRecent(ctx context.Context, ip string) error
}

// Service：查询分发器
// 约束：除 Env 外的依赖均可为 nil，nil 表示该能力停用。
type Service struct {
	Env       sources.Env
	GeoLite   localdb.Locator
	IP2Region localdb.Locator
	Whois     sources.WhoisQuery
	Cache     Cache
	Stats     Stats
}

// 文档注释：校验输入并分发到对应的数据源
// 背景：未知类型与非法输入在任何外呼之前返回；降级记录按成功返回（Result.Degraded=true）。
// 返回：Result 或 *Error（invalid_input / unknown_kind / not_found / upstream）。
func (s *Service) Dispatch(ctx context.Context, kind, query string) (*Result, error) {
	k, ok := ParseKind(kind)
	if !ok {
		if strings.TrimSpace(kind) == "" {
			return nil, invalid("Missing type or query parameter")
		}
		metrics.LookupsTotal.WithLabelValues("unknown", CodeUnknownKind).Inc()
		return nil, &Error{Code: CodeUnknownKind, Message: "Invalid lookup type"}
	}
	q, err := Normalize(k, query)
	if err != nil {
		s.observe(ctx, k, CodeInvalidInput)
		return nil, err
	}
	l := logger.From(ctx).With("kind", string(k))
	ctx = logger.WithContext(ctx, l)
	t0 := time.Now()
	res, err := s.run(ctx, k, query, q)
	metrics.LookupDurationMs.WithLabelValues(string(k)).Observe(float64(time.Since(t0).Milliseconds()))
	if err != nil {
		e := s.wrap(k, err)
		l.Info("lookup_failed", "code", e.Code, "err", err)
		s.observe(ctx, k, e.Code)
		return nil, e
	}
	outcome := "ok"
	if res.Degraded {
		outcome = "degraded"
		metrics.DegradedTotal.WithLabelValues(string(k)).Inc()
	}
	l.Debug("lookup_done", "fields", res.Data.Len(), "degraded", res.Degraded, "duration_ms", time.Since(t0).Milliseconds())
	s.observe(ctx, k, outcome)
	return res, nil
}

func (s *Service) observe(ctx context.Context, k Kind, outcome string) {
	metrics.LookupsTotal.WithLabelValues(string(k), outcome).Inc()
	if s.Stats != nil {
		if err := s.Stats.IncrStats(ctx, string(k), outcome); err != nil {
			logger.From(ctx).Warn("stats_incr_error", "err", err)
		}
	}
}

var kindTitles = map[Kind]string{
	KindIP: "IP", KindPhone: "Phone", KindVehicle: "Vehicle", KindChallan: "Challan",
	KindDL: "DL", KindRTO: "RTO", KindIFSC: "IFSC", KindEmail: "Email",
	KindDomain: "Domain", KindUsername: "Username", KindCrypto: "Crypto", KindMAC: "MAC",
}

func (s *Service) wrap(k Kind, err error) *Error {
	if e, ok := err.(*Error); ok {
		return e
	}
	if msg, ok := sources.IsNotFound(err); ok {
		return &Error{Code: CodeNotFound, Message: msg, Err: err}
	}
	return &Error{
		Code:    CodeUpstream,
		Message: fmt.Sprintf("%s lookup failed: upstream service unavailable", kindTitles[k]),
		Err:     err,
	}
}

func plain(r *record.Record) (*Result, error) { return &Result{Data: r}, nil }

func maybe(r *record.Record, degraded bool) (*Result, error) {
	return &Result{Data: r, Degraded: degraded}, nil
}

func (s *Service) run(ctx context.Context, k Kind, raw, q string) (*Result, error) {
	e := s.Env
	switch k {
	case KindIP:
		return s.IP(ctx, q)
	case KindPhone:
		r, err := e.Phone(ctx, raw, q)
		if err != nil {
			return nil, err
		}
		return plain(r)
	case KindVehicle:
		r, err := e.Vehicle(ctx, q)
		if err != nil {
			return nil, err
		}
		return plain(r)
	case KindChallan:
		r, err := e.Challan(ctx, q)
		if err != nil {
			return nil, err
		}
		return plain(r)
	case KindDL:
		r, err := e.DrivingLicense(ctx, q)
		if err != nil {
			return nil, err
		}
		return plain(r)
	case KindRTO:
		return maybe(sources.RTO(q))
	case KindIFSC:
		r, err := e.IFSC(ctx, q)
		if err != nil {
			return nil, err
		}
		return plain(r)
	case KindEmail:
		return maybe(e.Email(ctx, q))
	case KindDomain:
		r, degraded := e.Domain(ctx, q)
		if !degraded {
			sources.EnrichWhois(ctx, s.Whois, q, r)
		}
		return maybe(r, degraded)
	case KindUsername:
		return plain(sources.Username(q))
	case KindCrypto:
		return plain(sources.Crypto(q))
	case KindMAC:
		return maybe(e.MAC(ctx, q))
	}
	return nil, &Error{Code: CodeUnknownKind, Message: "Invalid lookup type"}
}

// 文档注释：多源 IP 查询与合并
// 背景：三个在线来源并发调用并全部结束后合并；离线库（若配置）作为额外来源参与同一轮合并。
// 约束：A/B 任一失败或 C 使用了默认值时结果标记为降级；缓存只保存非降级结果。
func (s *Service) IP(ctx context.Context, ip string) (*Result, error) {
	if s.Stats != nil {
		if err := s.Stats.RecordRecent(ctx, ip); err != nil {
			logger.From(ctx).Warn("stats_recent_error", "err", err)
		}
	}
	key := "osint:ip:" + ip
	if s.Cache != nil {
		if r, hit := s.Cache.Get(ctx, key); hit {
			metrics.CacheHitsTotal.Inc()
			return r, nil
		}
		metrics.CacheMissesTotal.Inc()
	}
	e := s.Env
	var synthetic bool
	fetchers := []fusion.Fetcher{
		{Provider: fusion.ProviderIPAPI, Fetch: func(ctx context.Context) (fusion.Partial, error) { return e.IPAPI(ctx, ip) }},
		{Provider: fusion.ProviderIPWhois, Fetch: func(ctx context.Context) (fusion.Partial, error) { return e.IPWhois(ctx, ip) }},
		{Provider: fusion.ProviderIPQuality, Fetch: func(ctx context.Context) (fusion.Partial, error) {
			p, syn := e.IPQuality(ctx, ip)
			synthetic = syn
			return p, nil
		}},
	}
	fetchers = appendOffline(fetchers, fusion.ProviderGeoLite, s.GeoLite, ip)
	fetchers = appendOffline(fetchers, fusion.ProviderIP2Region, s.IP2Region, ip)

	srcs, outs := fusion.Gather(ctx, fetchers)
	degraded := synthetic
	for _, o := range outs {
		if o.Err != nil && (o.Provider == fusion.ProviderIPAPI || o.Provider == fusion.ProviderIPWhois) {
			degraded = true
		}
	}
	res := &Result{Data: fusion.Resolve(ip, srcs), Degraded: degraded}
	if s.Cache != nil && !degraded {
		s.Cache.Set(ctx, key, res)
	}
	return res, nil
}

func appendOffline(fs []fusion.Fetcher, p fusion.Provider, l localdb.Locator, ip string) []fusion.Fetcher {
	if l == nil {
		return fs
	}
	return append(fs, fusion.Fetcher{Provider: p, Fetch: func(context.Context) (fusion.Partial, error) {
		loc, hit := l.Lookup(ip)
		if !hit {
			return nil, nil
		}
		return fusion.Partial(loc.Partial()), nil
	}})
}
