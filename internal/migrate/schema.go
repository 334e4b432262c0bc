package migrate

import (
	"database/sql"

	"osint-api/internal/logger"
)

// 背景：首次运行自动创建统计所需表
// 约束：使用 IF NOT EXISTS 避免与既有结构冲突；仅创建最小必需结构
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS _osint_stats_total (
            id INT PRIMARY KEY,
            total_lookups BIGINT NOT NULL DEFAULT 0
        )`,
		`INSERT INTO _osint_stats_total(id, total_lookups)
         VALUES(1, 0)
         ON CONFLICT (id) DO NOTHING`,
		`CREATE TABLE IF NOT EXISTS _osint_stats_daily (
            day DATE PRIMARY KEY,
            lookups BIGINT NOT NULL DEFAULT 0
        )`,
		`CREATE TABLE IF NOT EXISTS _osint_stats_kind (
            kind TEXT NOT NULL,
            outcome TEXT NOT NULL,
            lookups BIGINT NOT NULL DEFAULT 0,
            PRIMARY KEY (kind, outcome)
        )`,
		`CREATE TABLE IF NOT EXISTS _osint_recent_ips (
            ip TEXT PRIMARY KEY,
            last_seen TIMESTAMPTZ NOT NULL DEFAULT now(),
            queries BIGINT NOT NULL DEFAULT 0
        )`,
		`CREATE INDEX IF NOT EXISTS idx_osint_recent_last_seen ON _osint_recent_ips(last_seen)`,
	}
	for i, s := range stmts {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	logger.L().Debug("schema_done")
	return nil
}
