package extract

import (
	"regexp"
	"strings"

	"go-gongkao-sync/internal/textutil"
)

const minEmployerLen = 4

var (
	employerRules = []rule{
		{re: regexp.MustCompile(`(?:招聘单位|用人单位|招聘主体|主管单位|主管部门)\s*:\s*([^\s,。;、)]{2,40})`)},
	}
	leadingYearRe  = regexp.MustCompile(`^\s*\d{4}\s*年(?:度)?\s*`)
	trailingYearRe = regexp.MustCompile(`\s*\d{4}\s*年(?:度)?\s*$`)
	recruitKeyRe   = regexp.MustCompile(`(?:公开|面向社会|面向全国)?(?:招聘|招录|招募|选聘|招考|遴选|选调)`)
	leadingAboutRe = regexp.MustCompile(`^关于`)
)

// Employer prefers an explicit "招聘单位:" style phrase in the content and
// otherwise derives the unit from the title, between an optional leading
// year and the recruitment keyword. Returns "" when neither works.
func Employer(title, content string) string {
	if v := firstMatch(content, employerRules, ""); v != "" {
		return v
	}
	return employerFromTitle(title)
}

func employerFromTitle(title string) string {
	s := strings.TrimSpace(normalize(title))
	s = leadingAboutRe.ReplaceAllString(s, "")
	s = leadingYearRe.ReplaceAllString(s, "")
	loc := recruitKeyRe.FindStringIndex(s)
	if loc == nil {
		return ""
	}
	s = trailingYearRe.ReplaceAllString(s[:loc[0]], "")
	s = strings.TrimSpace(s)
	if textutil.RuneLen(s) < minEmployerLen {
		return ""
	}
	return s
}
