// 命令行查询工具：执行一次查询并以表格输出，便于运维排查上游可用性
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"osint-api/internal/config"
	"osint-api/internal/localdb"
	"osint-api/internal/logger"
	"osint-api/internal/lookup"
	"osint-api/internal/record"
	"osint-api/internal/sources"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	kind := flag.String("type", "", "lookup type: "+kindList())
	query := flag.String("q", "", "query value")
	asJSON := flag.Bool("json", false, "print JSON instead of a table")
	offline := flag.Bool("offline", false, "ip only: query the offline databases without any network call")
	timeout := flag.Duration("timeout", 20*time.Second, "overall timeout")
	flag.Parse()
	if *query == "" && flag.NArg() > 0 {
		*query = strings.Join(flag.Args(), " ")
	}

	cfg := config.Load()
	logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var geo, i2r localdb.Locator
	if cfg.GeoIPCityPath != "" {
		if g, err := localdb.NewGeoLite(cfg.GeoIPCityPath); err == nil {
			defer g.Close()
			geo = g
		} else {
			color.Yellow("geolite unavailable: %v", err)
		}
	}
	if cfg.IP2RegionV4Path != "" {
		if c, err := localdb.NewIP2Region(cfg.IP2RegionV4Path); err == nil {
			defer c.Close()
			i2r = c
		} else {
			color.Yellow("ip2region unavailable: %v", err)
		}
	}

	if *offline {
		os.Exit(runOffline(os.Stdout, *query, localdb.NewChain(geo, i2r)))
	}

	svc := &lookup.Service{Env: sources.NewEnv(cfg), GeoLite: geo, IP2Region: i2r}
	if cfg.WhoisEnable {
		svc.Whois = sources.NewWhoisQuery(cfg.UpstreamTimeout)
	}
	res, err := svc.Dispatch(ctx, *kind, *query)
	if err != nil {
		e := lookup.AsError(err)
		color.Red("%s (%s)", e.Message, e.Code)
		os.Exit(1)
	}
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(res)
		return
	}
	render(os.Stdout, res)
}

func kindList() string {
	names := make([]string, len(lookup.Kinds))
	for i, k := range lookup.Kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

// render：按字段顺序输出两列表格；降级结果附加提示行
func render(w io.Writer, res *lookup.Result) {
	writeTable(w, res.Data)
	if res.Degraded {
		fmt.Fprintln(w, color.YellowString("partial result: one or more sources were unavailable"))
	}
}

func writeTable(w io.Writer, rec *record.Record) {
	t := tablewriter.NewWriter(w)
	t.SetHeader([]string{"Field", "Value"})
	t.SetAutoWrapText(false)
	for _, k := range rec.Keys() {
		t.Append([]string{k, rec.Value(k)})
	}
	t.Render()
}

func runOffline(w io.Writer, q string, l localdb.Locator) int {
	ip, err := lookup.Normalize(lookup.KindIP, q)
	if err != nil {
		fmt.Fprintln(w, color.RedString("%s", lookup.AsError(err).Message))
		return 1
	}
	loc, ok := l.Lookup(ip)
	if !ok {
		fmt.Fprintln(w, color.YellowString("no offline data for %s", ip))
		return 1
	}
	rec := record.New()
	rec.Set("IP Address", ip)
	p := loc.Partial()
	for _, k := range []string{"country", "country_code", "region", "city", "postal", "isp", "timezone", "latitude", "longitude"} {
		if v, ok := p[k]; ok {
			rec.Set(k, v)
		}
	}
	writeTable(w, rec)
	return 0
}
