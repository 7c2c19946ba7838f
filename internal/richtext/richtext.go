// Package richtext renders Portable Text block sequences to HTML.
package richtext

import (
	"html"
	"html/template"
	"net/url"
	"strings"

	"github.com/lajketz/site/internal/models"
)

var headingStyles = map[string]string{
	"h1": "h1",
	"h2": "h2",
	"h3": "h3",
	"h4": "h4",
}

var decorators = map[string]string{
	"strong":         "strong",
	"em":             "em",
	"code":           "code",
	"underline":      "u",
	"strike-through": "s",
}

var unsafeSchemes = map[string]bool{
	"javascript": true,
	"vbscript":   true,
	"data":       true,
}

type openList struct {
	tag   string
	level int
}

// Render converts blocks to HTML. Unknown block types and images without a
// resolvable asset are skipped. All text is escaped.
func Render(blocks []models.Block) template.HTML {
	var (
		b     strings.Builder
		lists []openList
	)

	closeLists := func(toLevel int) {
		for len(lists) > 0 && lists[len(lists)-1].level > toLevel {
			top := lists[len(lists)-1]
			b.WriteString("</li></" + top.tag + ">")
			lists = lists[:len(lists)-1]
		}
	}

	for _, block := range blocks {
		if block.Type == "block" && block.ListItem != "" {
			writeListItem(&b, &lists, block)
			continue
		}
		closeLists(0)

		switch block.Type {
		case "block":
			writeTextBlock(&b, block)
		case "image":
			writeImage(&b, block)
		}
	}
	closeLists(0)

	return template.HTML(b.String())
}

// IsEmpty reports whether blocks would render no visible content.
func IsEmpty(blocks []models.Block) bool {
	for _, block := range blocks {
		switch block.Type {
		case "block":
			for _, span := range block.Children {
				if strings.TrimSpace(span.Text) != "" {
					return false
				}
			}
		case "image":
			if imageURL(block) != "" {
				return false
			}
		}
	}
	return true
}

func writeListItem(b *strings.Builder, lists *[]openList, block models.Block) {
	tag := "ul"
	if block.ListItem == "number" {
		tag = "ol"
	}
	level := block.Level
	if level < 1 {
		level = 1
	}

	stack := *lists
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.level < level || (top.level == level && top.tag == tag) {
			break
		}
		b.WriteString("</li></" + top.tag + ">")
		stack = stack[:len(stack)-1]
	}

	if len(stack) > 0 && stack[len(stack)-1].level == level {
		b.WriteString("</li><li>")
	} else {
		// a deeper list nests inside the still open parent item
		b.WriteString("<" + tag + "><li>")
		stack = append(stack, openList{tag: tag, level: level})
	}
	writeSpans(b, block)
	*lists = stack
}

func writeTextBlock(b *strings.Builder, block models.Block) {
	tag := "p"
	switch {
	case headingStyles[block.Style] != "":
		tag = headingStyles[block.Style]
	case block.Style == "blockquote":
		tag = "blockquote"
	}
	b.WriteString("<" + tag + ">")
	writeSpans(b, block)
	b.WriteString("</" + tag + ">")
}

func writeImage(b *strings.Builder, block models.Block) {
	src := imageURL(block)
	if src == "" {
		return
	}
	b.WriteString(`<figure class="rt-image"><img src="`)
	b.WriteString(html.EscapeString(src))
	b.WriteString(`" alt="`)
	b.WriteString(html.EscapeString(block.Alt))
	b.WriteString(`" loading="lazy"></figure>`)
}

// imageURL returns the asset URL when the block carries both a reference and
// a dereferenced URL with a usable scheme.
func imageURL(block models.Block) string {
	if block.Asset == nil || block.Asset.Ref == "" || block.Asset.URL == "" {
		return ""
	}
	href, _ := SafeHref(block.Asset.URL)
	if href == "#" {
		return ""
	}
	return href
}

func writeSpans(b *strings.Builder, block models.Block) {
	defs := make(map[string]models.MarkDef, len(block.MarkDefs))
	for _, d := range block.MarkDefs {
		defs[d.Key] = d
	}

	for _, span := range block.Children {
		var closers []string
		for _, mark := range span.Marks {
			if tag, ok := decorators[mark]; ok {
				b.WriteString("<" + tag + ">")
				closers = append(closers, "</"+tag+">")
				continue
			}
			def, ok := defs[mark]
			if !ok || def.Type != "link" {
				continue
			}
			href, external := SafeHref(def.Href)
			b.WriteString(`<a href="` + html.EscapeString(href) + `"`)
			if external {
				b.WriteString(` target="_blank" rel="noopener noreferrer"`)
			}
			b.WriteString(">")
			closers = append(closers, "</a>")
		}

		lines := strings.Split(span.Text, "\n")
		for i, line := range lines {
			if i > 0 {
				b.WriteString("<br>")
			}
			b.WriteString(html.EscapeString(line))
		}

		for i := len(closers) - 1; i >= 0; i-- {
			b.WriteString(closers[i])
		}
	}
}

// SafeHref normalizes a link target. Missing or script-bearing targets become
// "#". external is true for absolute http(s) and protocol-relative URLs.
func SafeHref(raw string) (href string, external bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "#", false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "#", false
	}
	scheme := strings.ToLower(u.Scheme)
	if unsafeSchemes[scheme] {
		return "#", false
	}
	switch {
	case scheme == "http" || scheme == "https":
		return raw, true
	case scheme == "" && strings.HasPrefix(raw, "//"):
		return raw, true
	}
	return raw, false
}
