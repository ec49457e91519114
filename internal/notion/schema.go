package notion

import (
	"fmt"
	"sort"
	"strings"
)

// Remote field names. They must match the database exactly.
const (
	FieldTitle       = "职位名称"
	FieldEmployer    = "招聘单位"
	FieldSalary      = "薪资范围"
	FieldLocation    = "工作地点"
	FieldPublishDate = "发布日期"
	FieldSource      = "来源网站"
	FieldURL         = "原文链接"
	FieldDescription = "职位描述"
	FieldHeadcount   = "招聘人数"
	FieldEducation   = "学历要求"
	FieldDeadline    = "报名截止"
	FieldCollectedAt = "采集时间"
	FieldStatus      = "状态"
)

// Property types as reported by the API.
const (
	TypeTitle    = "title"
	TypeRichText = "rich_text"
	TypeURL      = "url"
	TypeDate     = "date"
	TypeSelect   = "select"
)

// Schema maps every field the sync writes to its declared type.
var Schema = map[string]string{
	FieldTitle:       TypeTitle,
	FieldEmployer:    TypeRichText,
	FieldSalary:      TypeRichText,
	FieldLocation:    TypeRichText,
	FieldPublishDate: TypeDate,
	FieldSource:      TypeRichText,
	FieldURL:         TypeURL,
	FieldDescription: TypeRichText,
	FieldHeadcount:   TypeRichText,
	FieldEducation:   TypeRichText,
	FieldDeadline:    TypeRichText,
	FieldCollectedAt: TypeDate,
	FieldStatus:      TypeSelect,
}

// CheckSchema fails when a field is missing or has another type.
func CheckSchema(db *Database) error {
	var problems []string
	for name, want := range Schema {
		got, ok := db.Properties[name]
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("missing %q", name))
		case got.Type != want:
			problems = append(problems, fmt.Sprintf("%q is %s, want %s", name, got.Type, want))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return fmt.Errorf("database %s schema mismatch: %s", db.ID, strings.Join(problems, "; "))
}
