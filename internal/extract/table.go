package extract

import (
	"regexp"
	"strings"
	"sync"
)

var (
	mu         sync.Mutex
	cellCache  = map[string]*regexp.Regexp{}
	looseCache = map[string]*regexp.Regexp{}
)

// TableCell：匹配 <td>tag</td><td>VALUE</td> 单一模板
// 约束：值为 "N/A" 或空时视为未命中。
func TableCell(html, tag string) (string, bool) {
	re := cellPattern(tag)
	m := re.FindStringSubmatch(html)
	if len(m) < 2 {
		return "", false
	}
	v := strings.TrimSpace(m[1])
	if v == "" || v == "N/A" {
		return "", false
	}
	return v, true
}

// LooseTableCell：匹配 “label[:空白]*</td><td>VALUE” 形式，标签可带冒号
func LooseTableCell(html, label string) (string, bool) {
	re := loosePattern(label)
	m := re.FindStringSubmatch(html)
	if len(m) < 2 {
		return "", false
	}
	v := strings.TrimSpace(m[1])
	return v, v != ""
}

func cellPattern(tag string) *regexp.Regexp {
	mu.Lock()
	defer mu.Unlock()
	if re, ok := cellCache[tag]; ok {
		return re
	}
	re := regexp.MustCompile(`(?i)<td[^>]*>` + regexp.QuoteMeta(tag) + `</td>\s*<td[^>]*>([^<]+)</td>`)
	cellCache[tag] = re
	return re
}

func loosePattern(label string) *regexp.Regexp {
	mu.Lock()
	defer mu.Unlock()
	if re, ok := looseCache[label]; ok {
		return re
	}
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label) + `[:\s]*</td>\s*<td[^>]*>([^<]+)`)
	looseCache[label] = re
	return re
}
