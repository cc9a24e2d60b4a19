// Package report renders markdown guidance and review text to HTML for the
// presentation layer. Filming guidance arrives as markdown from the external
// producer and is passed through this renderer unmodified otherwise.
package report

import (
	"fmt"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"sproutlens/domain/video"
)

// RenderMarkdown converts markdown text to HTML
func RenderMarkdown(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.NoEmptyLineBeforeBlock)
	doc := p.Parse([]byte(md))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(doc, renderer)
}

// RenderGuidance renders a filming request as an HTML fragment
func RenderGuidance(g video.FilmingGuidance) []byte {
	md := fmt.Sprintf("## What to film\n\n%s\n", g.WhatToFilm)
	if g.DurationSeconds > 0 {
		md += fmt.Sprintf("\n*Aim for about %d seconds of footage.*\n", g.DurationSeconds)
	}
	return RenderMarkdown(md)
}

// RenderValidationIssues renders a failed validation's issues as an HTML
// fragment for the retry prompt
func RenderValidationIssues(v video.Validation) []byte {
	md := "## Why this clip could not be used\n\n"
	for _, issue := range v.Issues {
		md += "- " + issue + "\n"
	}
	if v.WhatVideoShows != "" {
		md += "\nWhat the video shows instead: " + v.WhatVideoShows + "\n"
	}
	return RenderMarkdown(md)
}
