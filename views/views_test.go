package views

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/ove9/seoblog/post"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return buf.String()
}

func TestBlockMapping(t *testing.T) {
	tests := []struct {
		block post.Block
		index int
		want  string
	}{
		{post.Block{Type: post.Subheading, Content: "소제목"}, 0, "<h2>소제목</h2>"},
		{post.Block{Type: post.Paragraph, Content: "문단 **강조**"}, 1, "<p>문단 <strong>강조</strong></p>"},
		{post.Block{Type: post.KeyMessageHeading, Content: "핵심"}, 2, `<h3 class="key">핵심</h3>`},
		{post.Block{Type: post.KeyMessageItem, Content: "요점"}, 3, "<li>요점</li>"},
		{post.Block{Type: post.ImageData, Content: "data:image/jpeg;base64,AAAA"}, 4,
			`<img src="data:image/jpeg;base64,AAAA" alt="Generated image 5" loading="lazy" decoding="async">`},
		{post.Block{Type: post.ImagePrompt, Content: "should not show"}, 5, ""},
		{post.Block{Type: "quote", Content: "unknown"}, 6, ""},
	}
	for _, tt := range tests {
		got := renderString(t, Block(tt.index, tt.block))
		if got != tt.want {
			t.Errorf("Block(%d, %s) = %q, want %q", tt.index, tt.block.Type, got, tt.want)
		}
	}
}

func TestBlockEscapesContent(t *testing.T) {
	got := renderString(t, Block(0, post.Block{Type: post.Paragraph, Content: "<b>x</b>"}))
	if strings.Contains(got, "<b>") {
		t.Errorf("content was not escaped: %q", got)
	}
	got = renderString(t, Block(0, post.Block{Type: post.ImageData, Content: `x" onerror="alert(1)`}))
	if strings.Contains(got, `" onerror="`) {
		t.Errorf("image src was not escaped: %q", got)
	}
}

func TestArticleWrapsKeyMessages(t *testing.T) {
	p := post.Post{
		Title: "제목 <1>",
		Blocks: []post.Block{
			{Type: post.Paragraph, Content: "본문"},
			{Type: post.KeyMessageHeading, Content: "핵심 메시지"},
			{Type: post.KeyMessageItem, Content: "하나"},
			{Type: post.KeyMessageItem, Content: "둘"},
		},
	}
	got := renderString(t, Article(p, "tok"))

	if !strings.Contains(got, "<h1>제목 &lt;1&gt;</h1>") {
		t.Errorf("title missing or unescaped: %s", got)
	}
	if !strings.Contains(got, "<ul><li>하나</li><li>둘</li></ul>") {
		t.Errorf("key message items not wrapped in one list: %s", got)
	}
	if strings.Count(got, "<ul>") != 1 {
		t.Errorf("expected exactly one list: %s", got)
	}
	if !strings.Contains(got, `action="/reset"`) || !strings.Contains(got, `value="tok"`) {
		t.Errorf("reset form with csrf token missing: %s", got)
	}
	if !strings.Contains(got, "새로운 글 생성하기") {
		t.Errorf("reset label missing: %s", got)
	}
}

func TestArticleKeepsBlockOrder(t *testing.T) {
	p := post.Post{
		Title: "t",
		Blocks: []post.Block{
			{Type: post.Subheading, Content: "A"},
			{Type: post.Paragraph, Content: "B"},
			{Type: post.Subheading, Content: "C"},
		},
	}
	got := renderString(t, Article(p, ""))
	a, b, c := strings.Index(got, ">A<"), strings.Index(got, ">B<"), strings.Index(got, ">C<")
	if !(a < b && b < c) {
		t.Errorf("blocks out of order: %s", got)
	}
}

func TestHomePage(t *testing.T) {
	got := renderString(t, Home(SiteConfig{Name: "AI SEO 블로그 생성기"}, "csrf123"))
	for _, want := range []string{
		"<title>AI SEO 블로그 생성기</title>",
		`action="/generate"`,
		`name="topic"`,
		`value="csrf123"`,
		"주제:",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("home page missing %q", want)
		}
	}
	if strings.Contains(got, `http-equiv="refresh"`) {
		t.Error("home page must not auto-refresh")
	}
}

func TestLoadingPageRefreshes(t *testing.T) {
	got := renderString(t, LoadingPage(SiteConfig{Name: "x"}, "1/2: 작성 중", 3))
	if !strings.Contains(got, `<meta http-equiv="refresh" content="3">`) {
		t.Errorf("loading page should refresh: %s", got)
	}
	if !strings.Contains(got, "1/2: 작성 중") {
		t.Errorf("stage message missing: %s", got)
	}
}

func TestFailurePage(t *testing.T) {
	got := renderString(t, FailurePage(SiteConfig{Name: "x"}, "quota <exceeded>", "tok"))
	if !strings.Contains(got, "quota &lt;exceeded&gt;") {
		t.Errorf("error message missing or unescaped: %s", got)
	}
	if !strings.Contains(got, "다시 시도") || !strings.Contains(got, `action="/reset"`) {
		t.Errorf("retry action missing: %s", got)
	}
}

func TestTopicFormBusy(t *testing.T) {
	got := renderString(t, TopicForm("", true))
	if strings.Count(got, " disabled") != 2 {
		t.Errorf("busy form should disable input and button: %s", got)
	}
	if !strings.Contains(got, "생성 중...") {
		t.Errorf("busy label missing: %s", got)
	}
}
