package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifierAccept(t *testing.T) {
	c := NewClassifier(nil, nil)

	tests := []struct {
		name     string
		title    string
		expected bool
	}{
		{
			name:     "recruitment announcement",
			title:    "2026年南京市XX局公开招聘工作人员公告",
			expected: true,
		},
		{
			name:     "selection announcement",
			title:    "江苏省2026年度考试遴选公务员公告",
			expected: true,
		},
		{
			name:     "exclusion wins over inclusion",
			title:    "2026年南京市XX局公开招聘拟录用人员名单公示",
			expected: false,
		},
		{
			name:     "interview notice",
			title:    "关于XX中心招聘面试安排的通知",
			expected: false,
		},
		{
			name:     "no keyword at all",
			title:    "南京市XX局2026年工作要点",
			expected: false,
		},
		{
			name:     "empty",
			title:    "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Accept(tt.title))
		})
	}
}

func TestClassifierCustomLists(t *testing.T) {
	c := NewClassifier([]string{"引进"}, []string{"结果"})

	assert.True(t, c.Accept("2026年XX大学人才引进公告"))
	assert.False(t, c.Accept("2026年XX大学人才引进结果"))
	assert.False(t, c.Accept("2026年XX大学公开招聘公告"))
}

func TestMonthMatcher(t *testing.T) {
	mm, err := NewMonthMatcher("2026-01")
	require.NoError(t, err)
	assert.Equal(t, "2026-01", mm.String())

	tests := []struct {
		text     string
		expected bool
	}{
		{"2026年1月XX局招聘公告", true},
		{"2026年01月发布", true},
		{"发布时间 2026-01-15", true},
		{"2026/01/15", true},
		{"2026-1-5", true},
		{"2026年10月XX局招聘公告", false},
		{"2026-10-01", false},
		{"2025年1月", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.expected, mm.Match(tt.text))
		})
	}
}

func TestMonthMatcherEmptyMatchesAll(t *testing.T) {
	mm, err := NewMonthMatcher("")
	require.NoError(t, err)
	assert.Nil(t, mm)
	assert.True(t, mm.Match("anything"))
	assert.Equal(t, "", mm.String())
}

func TestMonthMatcherInvalid(t *testing.T) {
	_, err := NewMonthMatcher("2026年1月")
	assert.Error(t, err)
}
