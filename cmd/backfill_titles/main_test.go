package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-gongkao-sync/internal/models"
)

func TestTitlesByURL(t *testing.T) {
	got := titlesByURL([]models.JobPosting{
		{OriginalURL: "https://x.com/1", PositionTitle: " 南京市XX局招聘公告 "},
		{OriginalURL: "https://x.com/1", PositionTitle: "later title"},
		{OriginalURL: "https://x.com/2", PositionTitle: ""},
		{OriginalURL: "", PositionTitle: "no url"},
	})

	assert.Equal(t, map[string]string{"https://x.com/1": "南京市XX局招聘公告"}, got)
}
