package web

import (
	"bytes"
	"html/template"
	"log"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/portfolio/backend/internal/models"
)

// Raw HTML in stored text is dropped by goldmark unless WithUnsafe is set.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

var titleCaser = cases.Title(language.English)

func renderMarkdown(src string) template.HTML {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		log.Printf("[Web] markdown render failed: %v", err)
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

func monthYear(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2006")
}

// endDate is the closing label of a timeline entry.
func endDate(e models.Experience) string {
	if e.Current || e.EndDate == nil {
		return "Present"
	}
	return monthYear(*e.EndDate)
}

func shortDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

func fileSize(n int64) string {
	if n <= 0 {
		return ""
	}
	return humanize.Bytes(uint64(n))
}

// label turns a category or status key into display text.
func label(s string) string {
	return titleCaser.String(strings.ReplaceAll(s, "-", " "))
}

// tabLabel keeps categories as entered and only titles the "all" tab.
func tabLabel(category string) string {
	if category == models.FilterAll {
		return label(category)
	}
	return category
}

func initials(name string) string {
	var out []rune
	for _, f := range strings.Fields(name) {
		out = append(out, []rune(f)[0])
		if len(out) == 2 {
			break
		}
	}
	return strings.ToUpper(string(out))
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"markdown":   renderMarkdown,
		"monthYear":  monthYear,
		"endDate":    endDate,
		"shortDate":  shortDate,
		"fileSize":   fileSize,
		"label":      label,
		"tabLabel":   tabLabel,
		"initials":   initials,
		"skillIcon":  models.SkillIcon,
		"socialIcon": models.SocialIcon,
		"year":       func() int { return time.Now().Year() },
	}
}
