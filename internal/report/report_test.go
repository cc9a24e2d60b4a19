package report

import (
	"strings"
	"testing"

	"sproutlens/domain/video"
)

// TestRenderGuidance tests the markdown to HTML rendering of a filming
// request
func TestRenderGuidance(t *testing.T) {
	html := string(RenderGuidance(video.FilmingGuidance{
		WhatToFilm:      "Film a *stacking* session",
		DurationSeconds: 60,
	}))

	if !strings.Contains(html, "<h2") {
		t.Errorf("Expected a heading, got %q", html)
	}
	if !strings.Contains(html, "<em>stacking</em>") {
		t.Errorf("Expected markdown emphasis rendered, got %q", html)
	}
	if !strings.Contains(html, "60 seconds") {
		t.Errorf("Expected the duration hint, got %q", html)
	}
}

// TestRenderGuidanceWithoutDuration tests that the duration hint is optional
func TestRenderGuidanceWithoutDuration(t *testing.T) {
	html := string(RenderGuidance(video.FilmingGuidance{WhatToFilm: "Film breakfast"}))
	if strings.Contains(html, "seconds") {
		t.Errorf("Expected no duration hint, got %q", html)
	}
}

// TestRenderValidationIssues tests the retry prompt rendering
func TestRenderValidationIssues(t *testing.T) {
	html := string(RenderValidationIssues(video.Validation{
		IsUsable:       false,
		WhatVideoShows: "a mealtime",
		Issues:         []string{"too dark", "wrong activity"},
	}))

	for _, want := range []string{"<li>too dark</li>", "<li>wrong activity</li>", "a mealtime"} {
		if !strings.Contains(html, want) {
			t.Errorf("Expected %q in output, got %q", want, html)
		}
	}
}
