package schema

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var regDateRe = regexp.MustCompile(`(\d{1,2})-(\w{3})-(\d{4})`)

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"may": time.May, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "oct": time.October, "nov": time.November, "dec": time.December,
}

// 文档注释：由登记日期（DD-Mon-YYYY）推导车龄
// 约束：整年差；当前月日早于登记月日时减一；无法解析返回 false，调用方不输出车龄字段。
func VehicleAge(regDate string, now time.Time) (string, bool) {
	m := regDateRe.FindStringSubmatch(regDate)
	if m == nil {
		return "", false
	}
	day, _ := strconv.Atoi(m[1])
	mon, ok := months[strings.ToLower(m[2])]
	if !ok {
		return "", false
	}
	year, _ := strconv.Atoi(m[3])
	age := now.Year() - year
	if now.Month() < mon || (now.Month() == mon && now.Day() < day) {
		age--
	}
	return strconv.Itoa(age) + " years", true
}
