// 包 store: 提供与 PostgreSQL 的数据访问层，记录查询统计与最近查询的 IP
package store

import (
	"context"
	"database/sql"
	"net/netip"

	"osint-api/internal/logger"

	_ "github.com/lib/pq"
)

// Store: 数据库访问入口，持有连接池并提供统计读写接口
type Store struct {
	db *sql.DB
}

func AttachDB(db *sql.DB) *Store { return &Store{db: db} }

// Close: 关闭数据库连接
func (s *Store) Close() error { return s.db.Close() }

// IncrStats: 按类型与结果递增计数，并递增总计与当日计数
// 约束：三条语句独立执行，任一失败返回首个错误，不回滚已成功的部分。
func (s *Store) IncrStats(ctx context.Context, kind, outcome string) error {
	stmts := []struct {
		q    string
		args []any
	}{
		{"UPDATE _osint_stats_total SET total_lookups=total_lookups+1 WHERE id=1", nil},
		{`INSERT INTO _osint_stats_daily(day, lookups) VALUES(current_date, 1)
            ON CONFLICT (day) DO UPDATE SET lookups=_osint_stats_daily.lookups+1`, nil},
		{`INSERT INTO _osint_stats_kind(kind, outcome, lookups) VALUES($1, $2, 1)
            ON CONFLICT (kind, outcome) DO UPDATE SET lookups=_osint_stats_kind.lookups+1`, []any{kind, outcome}},
	}
	var first error
	for _, st := range stmts {
		if _, err := s.db.ExecContext(ctx, st.q, st.args...); err != nil && first == nil {
			first = err
		}
	}
	logger.From(ctx).Debug("stats_incr", "kind", kind, "outcome", outcome)
	return first
}

// Totals: 统计返回结构，包含累计、当日与按类型/结果的查询次数
type Totals struct {
	Total  int64                       `json:"total"`
	Today  int64                       `json:"today"`
	ByKind map[string]map[string]int64 `json:"by_kind"`
}

// GetTotals: 读取累计与当日查询次数及类型分布
func (s *Store) GetTotals(ctx context.Context) (*Totals, error) {
	t := Totals{ByKind: map[string]map[string]int64{}}
	if err := s.db.QueryRowContext(ctx, "SELECT total_lookups FROM _osint_stats_total WHERE id=1").Scan(&t.Total); err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, "SELECT lookups FROM _osint_stats_daily WHERE day=current_date").Scan(&t.Today); err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, "SELECT kind, outcome, lookups FROM _osint_stats_kind ORDER BY kind, outcome")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var kind, outcome string
		var n int64
		if err := rows.Scan(&kind, &outcome, &n); err != nil {
			return nil, err
		}
		if t.ByKind[kind] == nil {
			t.ByKind[kind] = map[string]int64{}
		}
		t.ByKind[kind][outcome] = n
	}
	logger.From(ctx).Debug("stats_totals", "total", t.Total, "today", t.Today)
	return &t, rows.Err()
}

// 文档注释：记录最近查询的 IP（去重累加）
// 约束：非法 IP 静默跳过；仅更新 last_seen 与计数。
func (s *Store) RecordRecent(ctx context.Context, ip string) error {
	a, err := netip.ParseAddr(ip)
	if err != nil {
		return nil
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO _osint_recent_ips(ip, last_seen, queries)
        VALUES($1, now(), 1)
        ON CONFLICT (ip) DO UPDATE SET last_seen=now(), queries=_osint_recent_ips.queries+1`, a.String())
	return err
}

// RecentIP：最近查询的 IP 及累计次数
type RecentIP struct {
	IP      string `json:"ip"`
	Queries int64  `json:"queries"`
}

// 文档注释：最近窗口内查询过的 IP，按最近访问排序
// 参数：hours 为窗口小时数（缺省 24），limit 为最大返回数量（缺省 20）。
func (s *Store) RecentIPs(ctx context.Context, hours, limit int) ([]RecentIP, error) {
	if hours <= 0 {
		hours = 24
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT ip, queries
        FROM _osint_recent_ips
        WHERE last_seen >= now() - make_interval(hours => $1)
        ORDER BY last_seen DESC
        LIMIT $2`, hours, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RecentIP
	for rows.Next() {
		var r RecentIP
		if err := rows.Scan(&r.IP, &r.Queries); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
