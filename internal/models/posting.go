package models

import (
	"time"
)

type Status string

const (
	StatusNew         Status = "新增"
	StatusViewed      Status = "已查看"
	StatusApplied     Status = "已申请"
	StatusExpired     Status = "已过期"
	StatusUnderReview Status = "公示中"
)

// Statuses lists every select option the remote status field carries.
var Statuses = []Status{StatusNew, StatusViewed, StatusApplied, StatusExpired, StatusUnderReview}

func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// PostingStub is one listing entry found by the crawler. URL is the
// natural key of the whole pipeline.
type PostingStub struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	DateHint string `json:"date_text,omitempty"`
	Source   string `json:"source,omitempty"`
}

// PostingDetail is the rendered detail page of one posting. A non-empty
// Error means extraction was attempted and failed.
type PostingDetail struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	DateText string `json:"date_text,omitempty"`
	Error    string `json:"error,omitempty"`
}

func (d PostingDetail) Failed() bool {
	return d.Error != ""
}

// JobPosting is the canonical record synchronized to the remote store.
type JobPosting struct {
	PositionTitle        string    `json:"position_title"`
	Employer             string    `json:"employer"`
	SalaryRange          string    `json:"salary_range"`
	Location             string    `json:"location"`
	PublishDate          string    `json:"publish_date"`
	SourceSite           string    `json:"source_site"`
	OriginalURL          string    `json:"original_url"`
	Description          string    `json:"description"`
	Headcount            string    `json:"headcount"`
	EducationRequirement string    `json:"education_requirement"`
	ApplicationDeadline  string    `json:"application_deadline"`
	CollectedAt          time.Time `json:"collected_at"`
	Status               Status    `json:"status"`
}
