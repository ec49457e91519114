// Package pipeline joins listing stubs with their detail pages and turns
// them into canonical postings.
package pipeline

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"golang.org/x/text/unicode/norm"

	"go-gongkao-sync/internal/extract"
	"go-gongkao-sync/internal/models"
	"go-gongkao-sync/internal/textutil"
)

// DescriptionMax caps JobPosting.Description, matching the rich-text limit
// of the remote store.
const DescriptionMax = 2000

// DateLayout is the publish date format written to the remote date field.
const DateLayout = "2006-01-02"

// China Standard Time, fixed so no tzdata is needed.
var cst = time.FixedZone("CST", 8*60*60)

// Merge joins stubs and details by URL and runs every extractor. Output
// order follows stubs; stubs without a URL are dropped. A stub without a
// detail still yields a posting built from defaults.
func Merge(stubs []models.PostingStub, details []models.PostingDetail, sourceSite string, now time.Time) []models.JobPosting {
	byURL := make(map[string]models.PostingDetail, len(details))
	for _, d := range details {
		if _, ok := byURL[d.URL]; !ok && d.URL != "" {
			byURL[d.URL] = d
		}
	}

	postings := make([]models.JobPosting, 0, len(stubs))
	for _, s := range stubs {
		if strings.TrimSpace(s.URL) == "" {
			log.Printf("⚠️ Dropping stub without URL: %q", s.Title)
			continue
		}
		postings = append(postings, mergeOne(s, byURL[s.URL], sourceSite, now))
	}
	return postings
}

func mergeOne(s models.PostingStub, d models.PostingDetail, sourceSite string, now time.Time) models.JobPosting {
	title := textutil.CleanText(s.Title)
	if title == "" {
		title = textutil.CleanText(d.Title)
	}
	content := d.Content
	fields := extract.All(title, content)

	employer := textutil.CleanText(s.Source)
	if employer == "" {
		employer = fields.Employer
	}

	publishDate := now.In(cst).Format(DateLayout)
	for _, hint := range []string{s.DateHint, d.DateText} {
		if v, ok := NormalizeDate(hint); ok {
			publishDate = v
			break
		}
	}

	return models.JobPosting{
		PositionTitle:        title,
		Employer:             employer,
		SalaryRange:          fields.Salary,
		Location:             fields.Location,
		PublishDate:          publishDate,
		SourceSite:           sourceSite,
		OriginalURL:          s.URL,
		Description:          textutil.Ellipsize(content, DescriptionMax),
		Headcount:            fields.Headcount,
		EducationRequirement: fields.Education,
		ApplicationDeadline:  fields.Deadline,
		CollectedAt:          now,
		Status:               models.StatusNew,
	}
}

var (
	dateTokenRe  = regexp.MustCompile(`(\d{4})\s*[年\-/.]\s*(\d{1,2})\s*[月\-/.]\s*(\d{1,2})`)
	digitGroupRe = regexp.MustCompile(`\d+`)
	monthNameRe  = regexp.MustCompile(`(?i)\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\b`)
)

// minYear rejects parses that invented a year ("01/05" parses as year 0).
const minYear = 1990

// NormalizeDate finds the first date in free-form text ("发布时间：2026年1月5日",
// "2026/01/05 10:00", "Jan 5, 2026") and formats it as YYYY-MM-DD. Text
// without a year and a day ("01/05", "2026", "2025-12") is rejected.
func NormalizeDate(text string) (string, bool) {
	text = strings.TrimSpace(norm.NFKC.String(text))
	if text == "" {
		return "", false
	}
	if m := dateTokenRe.FindStringSubmatch(text); m != nil {
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if t, err := dateparse.ParseIn(fmt.Sprintf("%s-%02d-%02d", m[1], month, day), cst); err == nil && t.Year() >= minYear {
			return t.Format(DateLayout), true
		}
	}
	if !hasYearAndDay(text) {
		return "", false
	}
	t, err := dateparse.ParseIn(text, cst)
	if err != nil || t.Year() < minYear || !strings.Contains(text, strconv.Itoa(t.Year())) {
		return "", false
	}
	return t.Format(DateLayout), true
}

// hasYearAndDay needs a spelled-out month plus two numbers, or three
// separate numbers, so a lone year or timestamp never passes.
func hasYearAndDay(text string) bool {
	groups := len(digitGroupRe.FindAllString(text, -1))
	if monthNameRe.MatchString(text) {
		return groups >= 2
	}
	return groups >= 3
}
