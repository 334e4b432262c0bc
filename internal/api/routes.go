// 包 api：集中注册 HTTP API 路由以解耦主入口，便于后续扩展与替换
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"osint-api/internal/logger"
	"osint-api/internal/lookup"
	"osint-api/internal/notify"
	"osint-api/internal/sources"
	"osint-api/internal/store"
	"osint-api/internal/upstream"
	"osint-api/internal/version"
)

// maxBody：请求体读取上限
const maxBody = 64 << 10

// StatsReader：/stats 的数据来源
type StatsReader interface {
	GetTotals(ctx context.Context) (*store.Totals, error)
	RecentIPs(ctx context.Context, hours, limit int) ([]store.RecentIP, error)
}

// Deps：路由依赖；Stats 与 Guard 可为 nil
type Deps struct {
	Lookup *lookup.Service
	// VisitorHTTP：访客 IP 探测使用的短超时客户端
	VisitorHTTP *upstream.Client
	Relay       *notify.Telegram
	Stats       StatsReader
	// Guard：运维端点的访问控制（白名单）
	Guard func(http.Handler) http.Handler
	// Offline：离线库就绪状态，供 /healthz 展示
	Offline map[string]interface{ Ready() bool }
}

type lookupRequest struct {
	Type  string `json:"type"`
	Query string `json:"query"`
}

type lookupResponse struct {
	Success  bool   `json:"success"`
	Data     any    `json:"data,omitempty"`
	Degraded bool   `json:"degraded,omitempty"`
	Error    string `json:"error,omitempty"`
	Code     string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func errorBody(msg string) map[string]string { return map[string]string{"error": msg} }

// decode：读取 JSON 请求体；非法 JSON 视为空请求，由各端点按必填字段报错
func decode(r *http.Request, v any) {
	b, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil || len(b) == 0 {
		return
	}
	if err := json.Unmarshal(b, v); err != nil {
		logger.From(r.Context()).Debug("request_decode_error", "path", r.URL.Path, "err", err)
	}
}

// 构建并返回 API 路由：独立 ServeMux 便于在主入口挂载到 /api 前缀
func BuildRoutes(d Deps) *http.ServeMux {
	guard := d.Guard
	if guard == nil {
		guard = func(h http.Handler) http.Handler { return h }
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /osint/lookup", d.handleLookup)
	mux.HandleFunc("POST /osint/ip", d.handleIP)
	mux.HandleFunc("POST /osint/phone", d.handlePhone)
	mux.HandleFunc("POST /osint/vehicle", d.handleVehicle)
	mux.HandleFunc("GET /get-visitor-ip", d.handleVisitorIP)
	mux.HandleFunc("POST /telegram/send-request", d.handleRelay)
	mux.Handle("GET /stats", guard(http.HandlerFunc(d.handleStats)))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{"status": "ok", "commit": version.Commit}
		if len(d.Offline) > 0 {
			ready := map[string]bool{}
			for name, o := range d.Offline {
				ready[name] = o.Ready()
			}
			body["offline"] = ready
		}
		writeJSON(w, http.StatusOK, body)
	})
	return mux
}

func (d Deps) handleLookup(w http.ResponseWriter, r *http.Request) {
	var req lookupRequest
	decode(r, &req)
	if strings.TrimSpace(req.Type) == "" || strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, lookupResponse{Error: "Missing type or query parameter", Code: lookup.CodeInvalidInput})
		return
	}
	res, err := d.Lookup.Dispatch(r.Context(), req.Type, req.Query)
	if err != nil {
		e := lookup.AsError(err)
		writeJSON(w, e.Status(), lookupResponse{Error: e.Message, Code: e.Code})
		return
	}
	writeJSON(w, http.StatusOK, lookupResponse{Success: true, Data: res.Data, Degraded: res.Degraded})
}

func (d Deps) handleIP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IP string `json:"ip"`
	}
	decode(r, &req)
	ip := strings.TrimSpace(req.IP)
	if ip == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("IP address is required"))
		return
	}
	m, err := d.Lookup.Env.IPAPICom(r.Context(), ip)
	if err != nil {
		var fail *sources.IPAPIComError
		if errors.As(err, &fail) {
			writeJSON(w, http.StatusBadRequest, errorBody(fail.Msg))
			return
		}
		var se *upstream.StatusError
		if errors.As(err, &se) {
			writeJSON(w, http.StatusInternalServerError, errorBody(se.Error()))
			return
		}
		logger.From(r.Context()).Warn("ip_endpoint_error", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("Failed to fetch IP data"))
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (d Deps) handlePhone(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone string `json:"phone"`
	}
	decode(r, &req)
	if strings.TrimSpace(req.Phone) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("Phone number is required"))
		return
	}
	digits, err := lookup.Normalize(lookup.KindPhone, req.Phone)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("Invalid phone number format"))
		return
	}
	out, err := d.Lookup.Env.PhoneLegacy(r.Context(), req.Phone, digits)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("Failed to fetch phone data"))
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (d Deps) handleVehicle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Vehicle string `json:"vehicle"`
	}
	decode(r, &req)
	if strings.TrimSpace(req.Vehicle) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("Vehicle number is required"))
		return
	}
	rc, err := lookup.Normalize(lookup.KindVehicle, req.Vehicle)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("Invalid vehicle registration format"))
		return
	}
	data, err := d.Lookup.Env.VehicleAPI(r.Context(), rc)
	if err != nil {
		if msg, ok := sources.IsNotFound(err); ok {
			writeJSON(w, http.StatusNotFound, errorBody(msg))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorBody("Failed to fetch vehicle data"))
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (d Deps) handleVisitorIP(w http.ResponseWriter, r *http.Request) {
	ip := headerIP(r)
	if !sources.UsableVisitorIP(ip) && d.VisitorHTTP != nil {
		if detected := d.Lookup.Env.DetectIP(r.Context(), d.VisitorHTTP); detected != "" {
			ip = detected
		}
	}
	if ip == "" {
		ip = sources.UnableToDetect
	}
	logger.From(r.Context()).Debug("visitor_ip", "ip", ip)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "ip": ip})
}

func (d Deps) handleRelay(w http.ResponseWriter, r *http.Request) {
	var req notify.Request
	decode(r, &req)
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": err.Error()})
		return
	}
	if d.Relay == nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": notify.ErrNotConfigured.Error()})
		return
	}
	if err := d.Relay.Send(r.Context(), req); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Request sent successfully"})
}

func (d Deps) handleStats(w http.ResponseWriter, r *http.Request) {
	if d.Stats == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"success": false, "error": "Statistics are disabled"})
		return
	}
	ctx := r.Context()
	t, err := d.Stats.GetTotals(ctx)
	if err != nil {
		logger.From(ctx).Warn("stats_read_error", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "Failed to read statistics"})
		return
	}
	recent, err := d.Stats.RecentIPs(ctx, 24, 20)
	if err != nil {
		logger.From(ctx).Warn("stats_recent_read_error", "err", err)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"total":   t.Total,
		"today":   t.Today,
		"by_kind": t.ByKind,
		"recent":  recent,
	})
}
