// Package extract pulls structured fields out of free-form posting text.
//
// Every function is total: it never panics and falls back to a documented
// default when none of its patterns match. Patterns are ordered from the
// most specific phrase to the most generic token and the first match wins.
package extract

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	DefaultSalary    = "未公开"
	DefaultHeadcount = "若干"
	DefaultEducation = "详见公告"
	DefaultDeadline  = "详见公告"
)

// Fields holds every extracted value for one posting.
type Fields struct {
	Salary    string
	Headcount string
	Education string
	Deadline  string
	Location  string
	Employer  string
}

// All runs every extractor over one posting.
func All(title, content string) Fields {
	return Fields{
		Salary:    Salary(content),
		Headcount: Headcount(content),
		Education: Education(content),
		Deadline:  Deadline(content),
		Location:  Location(title, content),
		Employer:  Employer(title, content),
	}
}

// normalize folds full-width punctuation and digits (：１２) to ASCII so
// patterns only need to spell one form.
func normalize(s string) string {
	return norm.NFKC.String(s)
}

// rule is one entry of an ordered pattern list. When format is set, the
// first capture group is substituted into it; otherwise group 1 (or the
// whole match when there is no group) is returned.
type rule struct {
	re     *regexp.Regexp
	format string
}

func (r rule) apply(text string) (string, bool) {
	m := r.re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	value := m[0]
	if len(m) > 1 && m[1] != "" {
		value = m[1]
	}
	if r.format != "" {
		value = strings.ReplaceAll(r.format, "{}", value)
	}
	value = strings.Join(strings.Fields(value), "")
	if value == "" {
		return "", false
	}
	return value, true
}

func firstMatch(text string, rules []rule, def string) string {
	text = normalize(text)
	for _, r := range rules {
		if v, ok := r.apply(text); ok {
			return v
		}
	}
	return def
}

var salaryRules = []rule{
	{re: regexp.MustCompile(`年薪\s*:?\s*(?:约|为)?\s*\d+(?:\.\d+)?(?:\s*[-~至–—]\s*\d+(?:\.\d+)?)?\s*(?:万元|万|元)`)},
	{re: regexp.MustCompile(`月薪\s*:?\s*(?:约|为)?\s*\d+(?:\.\d+)?(?:\s*[-~至–—]\s*\d+(?:\.\d+)?)?\s*(?:元|千|k|K)`)},
	{re: regexp.MustCompile(`\d+(?:\.\d+)?\s*[-~至–—]\s*\d+(?:\.\d+)?\s*(?:万元|万|元|千|k|K)(?:\s*/\s*(?:月|年))?`)},
	{re: regexp.MustCompile(`\d+(?:\.\d+)?\s*(?:万元|万|元|k|K)\s*/\s*(?:月|年)`)},
}

// Salary returns the first salary phrase: annual, then monthly, then a bare
// numeric range with a unit.
func Salary(content string) string {
	return firstMatch(content, salaryRules, DefaultSalary)
}

var headcountRules = []rule{
	{re: regexp.MustCompile(`招聘(?:人数|名额|计划)\s*[:为]?\s*(\d+)\s*(?:人|名)`), format: "{}人"},
	{re: regexp.MustCompile(`(?:共|拟|计划)?招(?:聘|录|募|收)\s*(\d+)\s*(?:人|名)`), format: "{}人"},
	{re: regexp.MustCompile(`(\d+)\s*个(?:岗位|职位)`), format: "{}个岗位"},
}

func Headcount(content string) string {
	return firstMatch(content, headcountRules, DefaultHeadcount)
}

var educationRules = []rule{
	{re: regexp.MustCompile(`学历(?:要求)?\s*:\s*([^\s,。;、)]{2,16})`)},
	{re: regexp.MustCompile(`博士(?:研究生)?(?:学历)?(?:及以上|以上)?`)},
	{re: regexp.MustCompile(`(?:硕士|研究生)(?:研究生)?(?:学历)?(?:及以上|以上)?`)},
	{re: regexp.MustCompile(`本科(?:学历)?(?:及以上|以上)?`)},
	{re: regexp.MustCompile(`(?:大专|专科)(?:学历)?(?:及以上|以上)?`)},
	{re: regexp.MustCompile(`(?:高中|中专)(?:学历)?(?:及以上|以上)?`)},
}

// postdocRe masks 博士后 (a postdoc post, not a degree) before the degree
// rules run.
var postdocRe = regexp.MustCompile(`博士后`)

func Education(content string) string {
	return firstMatch(postdocRe.ReplaceAllString(normalize(content), " "), educationRules, DefaultEducation)
}

const datePattern = `\d{4}年\d{1,2}月\d{1,2}日|\d{4}[-/.]\d{1,2}[-/.]\d{1,2}`

var deadlineRules = []rule{
	{re: regexp.MustCompile(`(?:报名|报考)(?:截止|结束)(?:时间|日期)?\s*[:为]?\s*(` + datePattern + `)`)},
	{re: regexp.MustCompile(`(?:报名|报考)(?:时间|日期)\s*[:为]?\s*(?:` + datePattern + `)[^\n]{0,20}?(?:至|到|~|-)\s*(` + datePattern + `)`)},
	{re: regexp.MustCompile(`截止(?:时间|日期)?\s*[:为至到]?\s*(` + datePattern + `)`)},
	{re: regexp.MustCompile(`(` + datePattern + `)`)},
}

// Deadline prefers an explicit registration deadline, then the end of a
// registration window, then any date in the text.
func Deadline(content string) string {
	return firstMatch(content, deadlineRules, DefaultDeadline)
}
