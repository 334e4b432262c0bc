// 包 utils：外部依赖（Postgres、Redis、TLS 证书）的打开与准备
package utils

import (
	"database/sql"
	"net/url"
	"os"
	"strconv"

	_ "github.com/lib/pq"
)

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// PostgresDSNFromEnv：由 PG_* 环境变量拼装 DSN；PG_DSN 非空时直接使用
func PostgresDSNFromEnv() string {
	if dsn := os.Getenv("PG_DSN"); dsn != "" {
		return dsn
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   env("PG_HOST", "localhost") + ":" + env("PG_PORT", "5432"),
		Path:   "/" + env("PG_DB", "osint"),
	}
	if pass := os.Getenv("PG_PASSWORD"); pass != "" {
		u.User = url.UserPassword(env("PG_USER", "postgres"), pass)
	} else {
		u.User = url.User(env("PG_USER", "postgres"))
	}
	u.RawQuery = "sslmode=" + env("PG_SSLMODE", "disable")
	return u.String()
}

// OpenPostgresFromEnv：打开连接池；PG_MAX_OPEN_CONNS / PG_MAX_IDLE_CONNS 可调
// 约束：sql.Open 不建立连接，连通性由调用方 Ping 判断。
func OpenPostgresFromEnv() (*sql.DB, error) {
	db, err := sql.Open("postgres", PostgresDSNFromEnv())
	if err != nil {
		return nil, err
	}
	maxOpen, maxIdle := 20, 10
	if n, e := strconv.Atoi(os.Getenv("PG_MAX_OPEN_CONNS")); e == nil && n > 0 {
		maxOpen = n
	}
	if n, e := strconv.Atoi(os.Getenv("PG_MAX_IDLE_CONNS")); e == nil && n >= 0 {
		maxIdle = n
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	return db, nil
}
