package gongkaoleida

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-gongkao-sync/internal/config"
)

var longBody = strings.Repeat("招聘公告正文内容。", 20)

func TestExtractDetail(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		content  string
		dateText string
	}{
		{
			name:     "first selector wins",
			html:     `<div class="article-content"><p>` + longBody + `</p></div><div id="content">other</div><span class="publish-time">2026-01-05 10:00</span>`,
			content:  longBody,
			dateText: "2026-01-05 10:00",
		},
		{
			name:    "short region falls through to the next selector",
			html:    `<div class="article-content">附件下载</div><div id="content"><p>第一段</p><p>` + longBody + `</p></div>`,
			content: "第一段\n" + longBody,
		},
		{
			name: "body fallback strips page chrome",
			html: `<html><body><header>站点导航</header><nav>首页</nav>
<div><p>正文第一段</p><p>正文第二段</p></div>
<script>var x = 1;</script><style>p{}</style><footer>版权所有</footer></body></html>`,
			content: "正文第一段\n正文第二段",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, dateText, err := extractDetail(tt.html)
			require.NoError(t, err)
			assert.Equal(t, tt.content, content)
			assert.Equal(t, tt.dateText, dateText)
		})
	}
}

func TestExtractDetailCapsContent(t *testing.T) {
	html := `<div class="article-content">` + strings.Repeat("长", 9000) + `</div>`
	content, _, err := extractDetail(html)
	require.NoError(t, err)
	assert.Equal(t, maxContentLen, utf8.RuneCountInString(content))
}

func TestFetchDetail(t *testing.T) {
	const url = "https://www.gongkaoleida.com/article/1001"
	r := &fakeRenderer{
		pages:  map[string]string{url: `<div class="article-content">` + longBody + `</div>`},
		titles: map[string]string{url: "  2026年南京市XX局公开招聘公告 "},
	}
	f := NewDetailFetcher(config.Default(), r)

	d := f.FetchDetail(context.Background(), url)

	assert.False(t, d.Failed())
	assert.Equal(t, url, d.URL)
	assert.Equal(t, "2026年南京市XX局公开招聘公告", d.Title)
	assert.Equal(t, longBody, d.Content)
}

func TestFetchDetailRenderFailure(t *testing.T) {
	f := NewDetailFetcher(config.Default(), &fakeRenderer{})

	d := f.FetchDetail(context.Background(), "https://www.gongkaoleida.com/article/404")

	assert.True(t, d.Failed())
	assert.Equal(t, "navigation timeout", d.Error)
	assert.Equal(t, "https://www.gongkaoleida.com/article/404", d.URL)
	assert.Empty(t, d.Content)
}
