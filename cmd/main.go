// 程序入口：仅负责读取配置、初始化依赖并启动服务；API 注册在 internal/api 以便扩展
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"osint-api/internal/api"
	"osint-api/internal/config"
	"osint-api/internal/localdb"
	"osint-api/internal/logger"
	"osint-api/internal/lookup"
	"osint-api/internal/metrics"
	"osint-api/internal/middleware"
	"osint-api/internal/migrate"
	"osint-api/internal/notify"
	"osint-api/internal/sources"
	"osint-api/internal/store"
	"osint-api/internal/utils"
	"osint-api/internal/version"
	"osint-api/pkg/allowlist"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	cfg := config.Load()
	l := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	l.Info("starting", "commit", version.Commit, "addr", cfg.Addr, "api_base", cfg.APIBase)

	env := sources.NewEnv(cfg)
	svc := &lookup.Service{Env: env}
	if cfg.WhoisEnable {
		svc.Whois = sources.NewWhoisQuery(cfg.UpstreamTimeout)
		l.Info("whois_enabled")
	}

	// 背景：离线库在后台加载，就绪前合并时视为无结果
	var geo, i2r localdb.Dynamic
	if cfg.GeoIPCityPath != "" {
		svc.GeoLite = &geo
		go func() {
			g, err := localdb.NewGeoLite(cfg.GeoIPCityPath)
			if err != nil {
				l.Error("geolite_open_error", "path", cfg.GeoIPCityPath, "err", err)
				return
			}
			geo.Set(g)
			l.Info("geolite_ready", "path", cfg.GeoIPCityPath)
		}()
	}
	if cfg.IP2RegionV4Path != "" {
		svc.IP2Region = &i2r
		go func() {
			c, err := localdb.NewIP2Region(cfg.IP2RegionV4Path)
			if err != nil {
				l.Error("ip2region_open_error", "path", cfg.IP2RegionV4Path, "err", err)
				return
			}
			i2r.Set(c)
			l.Info("ip2region_ready", "path", cfg.IP2RegionV4Path)
		}()
	}

	var st *store.Store
	if cfg.PGEnable {
		db, err := utils.OpenPostgresFromEnv()
		if err != nil {
			l.Error("db_open_error", "err", err)
			os.Exit(1)
		}
		pg := store.AttachDB(db)
		defer pg.Close()
		if err := db.Ping(); err != nil {
			l.Error("db_ping_error", "err", err)
		} else {
			l.Info("db_ping_ok")
			if err := migrate.EnsureSchema(db); err != nil {
				l.Error("schema_error", "err", err)
				os.Exit(1)
			}
			st = pg
		}
	}

	if cfg.RedisEnable {
		rc := utils.OpenRedisFromEnv()
		if err := rc.Ping(context.Background()).Err(); err != nil {
			l.Error("redis_ping_error", "err", err)
		} else {
			l.Info("redis_ping_ok")
			if cfg.IPCacheTTL > 0 {
				svc.Cache = &api.RedisCache{RC: rc, TTL: cfg.IPCacheTTL}
				l.Info("ip_cache_enabled", "ttl", cfg.IPCacheTTL.String())
			}
			if st != nil {
				svc.Stats = &api.BloomStats{Next: st, RC: rc}
			}
		}
	}
	if st != nil && svc.Stats == nil {
		svc.Stats = st
	}

	guard := allowlist.New(l, allowlist.Options{
		IPs:          cfg.AdminAllowIPs,
		CIDRs:        cfg.AdminAllowCIDRs,
		AllowLocal:   cfg.AdminAllowLocal,
		RealIPHeader: cfg.AdminRealIPHeader,
	})
	deps := api.Deps{
		Lookup:      svc,
		VisitorHTTP: env.HTTP.WithTimeout(cfg.VisitorIPTimeout),
		Relay: &notify.Telegram{
			HTTP:   env.HTTP,
			Base:   cfg.Upstreams.Telegram,
			Token:  cfg.TelegramToken,
			ChatID: cfg.TelegramChatID,
			Title:  cfg.TelegramTitle,
		},
		Guard:   guard.Wrap,
		Offline: map[string]interface{ Ready() bool }{},
	}
	if svc.GeoLite != nil {
		deps.Offline["geolite"] = &geo
	}
	if svc.IP2Region != nil {
		deps.Offline["ip2region"] = &i2r
	}
	if st != nil {
		deps.Stats = st
	}
	if cfg.TelegramToken == "" {
		l.Info("contact_relay_disabled", "reason", "no_token")
	}

	mux := http.NewServeMux()
	apiMux := api.BuildRoutes(deps)
	mux.Handle(cfg.APIBase+"/", http.StripPrefix(cfg.APIBase, apiMux))
	mux.Handle(cfg.APIBase+"/metrics", guard.Wrap(metrics.Handler()))

	s := &http.Server{
		Addr:              cfg.Addr,
		Handler:           middleware.Wrap(cfg, mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
		<-ch
		l.Info("shutting_down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	}()

	var err error
	if cfg.TLSEnable {
		if err := utils.EnsureSelfSignedCert(cfg.TLSCertPath, cfg.TLSKeyPath, "osint-api.local"); err != nil {
			l.Error("tls_cert_error", "err", err)
			os.Exit(1)
		}
		l.Info("listening_tls", "addr", cfg.Addr, "cert", cfg.TLSCertPath)
		err = s.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath)
	} else {
		l.Info("listening", "addr", cfg.Addr)
		err = s.ListenAndServe()
	}
	if err != nil && err != http.ErrServerClosed {
		l.Error("server_error", "err", err)
		os.Exit(1)
	}
}
