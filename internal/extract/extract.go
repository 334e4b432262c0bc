// 包 extract：从第三方 HTML 页面中按“标签候选列表”提取字段值
package extract

import (
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"
)

// MaxValueLen：长度达到该值即视为误抓整块内容（199 字符仍有效）
const MaxValueLen = 200

// 文档注释：提取形状（由结构化到宽松）
// 约束：顺序即优先级；%s 为已转义的标签文本；每个形状必须恰好一个捕获组。
var shapes = []string{
	`(?is)<span[^>]*>\s*%s\s*</span>\s*<p[^>]*>\s*([^<]+?)\s*</p>`,
	`(?i)<span[^>]*>\s*%s\s*</span>[\s\S]{0,200}?<p[^>]*>\s*([^<]+?)\s*</p>`,
	`(?i)>%s<[\s\S]{0,100}?<p[^>]*>\s*([^<]+?)\s*</p>`,
	`(?is)<span[^>]*>\s*%s\s*:?\s*</span>\s*<[^>]+>\s*([^<]+?)\s*</`,
	`(?i)%s\s*:?\s*<[^>]+>\s*([^<]+?)\s*</`,
}

var (
	compiled sync.Map // string -> []*regexp.Regexp
	tagRe    = regexp.MustCompile(`<[^>]*>`)
	semiRe   = regexp.MustCompile(`;+$`)
	markupRe = regexp.MustCompile(`^[<>="']+$`)
	entities = strings.NewReplacer("&nbsp;", " ", "&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`)
)

// placeholders：上游常见的“无值”占位
var placeholders = map[string]struct{}{
	"N/A": {}, "NA": {}, "-": {}, "null": {}, "undefined": {},
}

// patternsFor：按标签编译（并缓存）全部形状
func patternsFor(label string) []*regexp.Regexp {
	if v, ok := compiled.Load(label); ok {
		return v.([]*regexp.Regexp)
	}
	q := regexp.QuoteMeta(label)
	ps := make([]*regexp.Regexp, 0, len(shapes))
	for _, s := range shapes {
		ps = append(ps, regexp.MustCompile(strings.Replace(s, "%s", q, 1)))
	}
	v, _ := compiled.LoadOrStore(label, ps)
	return v.([]*regexp.Regexp)
}

// 文档注释：按标签候选列表提取字段值
// 背景：上游页面模板不一致，同一字段可能以 span+p、label:value 等多种结构出现；逐标签逐形状尝试，首个通过有效性校验的值胜出。
// 参数：noise 为站点特有的页面装饰文本（品牌名、栏目标题等），命中即拒绝。
// 返回：未命中返回 ("", false)，调用方应将字段视为可选。
func Value(html string, labels []string, noise []string) (string, bool) {
	for _, label := range labels {
		for _, re := range patternsFor(label) {
			m := re.FindStringSubmatch(html)
			if len(m) < 2 || m[1] == "" {
				continue
			}
			v := Normalize(m[1])
			if Valid(v, noise) {
				return v, true
			}
		}
	}
	return "", false
}

// Normalize：实体解码、去标签、去尾部分号并修剪空白
func Normalize(v string) string {
	v = strings.TrimSpace(v)
	v = entities.Replace(v)
	v = tagRe.ReplaceAllString(v, "")
	v = semiRe.ReplaceAllString(v, "")
	return strings.TrimSpace(v)
}

// 文档注释：值有效性判定（与提取逻辑解耦，可单独测试）
// 约束：空值、占位符、“not available”、站点装饰文本、属性残片、纯标点标记及超长值均视为无效。
func Valid(v string, noise []string) bool {
	if v == "" {
		return false
	}
	if _, ok := placeholders[v]; ok {
		return false
	}
	if strings.Contains(strings.ToLower(v), "not available") {
		return false
	}
	for _, n := range noise {
		if n != "" && strings.Contains(v, n) {
			return false
		}
	}
	if strings.Contains(v, `="`) || strings.Contains(v, "class=") {
		return false
	}
	if markupRe.MatchString(v) {
		return false
	}
	return utf8.RuneCountInString(v) < MaxValueLen
}
