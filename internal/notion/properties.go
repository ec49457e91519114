package notion

import (
	"strings"
	"time"

	"go-gongkao-sync/internal/models"
	"go-gongkao-sync/internal/textutil"
)

const (
	// MaxTextLen is the API limit for one rich-text content string.
	MaxTextLen = 2000
	// UntitledPosting replaces an empty title, which the API rejects.
	UntitledPosting = "未知职位"
)

// EncodePosting builds the typed property map for one posting.
func EncodePosting(p models.JobPosting) Properties {
	status := p.Status
	if !status.Valid() {
		status = models.StatusNew
	}
	return Properties{
		FieldTitle:       titleValue(p.PositionTitle),
		FieldEmployer:    richTextValue(p.Employer),
		FieldSalary:      richTextValue(p.SalaryRange),
		FieldLocation:    richTextValue(p.Location),
		FieldPublishDate: dateValue(p.PublishDate),
		FieldSource:      richTextValue(p.SourceSite),
		FieldURL:         urlValue(p.OriginalURL),
		FieldDescription: richTextValue(p.Description),
		FieldHeadcount:   richTextValue(p.Headcount),
		FieldEducation:   richTextValue(p.EducationRequirement),
		FieldDeadline:    richTextValue(p.ApplicationDeadline),
		FieldCollectedAt: dateValue(formatCollectedAt(p.CollectedAt)),
		FieldStatus:      map[string]any{"select": map[string]string{"name": string(status)}},
	}
}

// TitleProperties sets only the title.
func TitleProperties(title string) Properties {
	return Properties{FieldTitle: titleValue(title)}
}

func textItems(s string) []map[string]any {
	s = strings.TrimSpace(s)
	if s == "" || s == "N/A" {
		return []map[string]any{}
	}
	return []map[string]any{
		{"text": map[string]string{"content": textutil.Ellipsize(s, MaxTextLen)}},
	}
}

func titleValue(s string) map[string]any {
	if strings.TrimSpace(s) == "" {
		s = UntitledPosting
	}
	return map[string]any{"title": textItems(s)}
}

func richTextValue(s string) map[string]any {
	return map[string]any{"rich_text": textItems(s)}
}

func urlValue(s string) map[string]any {
	if s = strings.TrimSpace(s); s == "" {
		return map[string]any{"url": nil}
	}
	return map[string]any{"url": s}
}

func dateValue(s string) map[string]any {
	if s = strings.TrimSpace(s); s == "" {
		return map[string]any{"date": nil}
	}
	return map[string]any{"date": map[string]string{"start": s}}
}

func formatCollectedAt(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// PageURL reads the original-URL field of a queried page.
func PageURL(p Page) string {
	if v, ok := p.Properties[FieldURL]; ok && v.URL != nil {
		return strings.TrimSpace(*v.URL)
	}
	return ""
}

// PageTitle concatenates the plain text of the title field.
func PageTitle(p Page) string {
	return strings.TrimSpace(plainText(p.Properties[FieldTitle].Title))
}

func plainText(items []RichText) string {
	var b strings.Builder
	for _, it := range items {
		b.WriteString(it.PlainText)
	}
	return b.String()
}

// URLEquals filters pages whose original URL is exactly url.
func URLEquals(url string) map[string]any {
	return map[string]any{
		"property": FieldURL,
		"url":      map[string]string{"equals": url},
	}
}

// EmptyTitleWithURL filters pages that have a URL but no title.
func EmptyTitleWithURL() map[string]any {
	return map[string]any{
		"and": []map[string]any{
			{"property": FieldTitle, "title": map[string]bool{"is_empty": true}},
			{"property": FieldURL, "url": map[string]bool{"is_not_empty": true}},
		},
	}
}
