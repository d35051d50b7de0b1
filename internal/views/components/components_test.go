package components

import (
	"bytes"
	"context"
	"strings"
	"testing"

	sitetheme "mlsweb/internal/theme"
	themeview "mlsweb/internal/views/theme"
)

func TestLinkState(t *testing.T) {
	if got := linkState("/about", "/about"); got != "active" {
		t.Fatalf("expected active state when paths match, got %q", got)
	}
	if got := linkState("/", "/contact"); got != "inactive" {
		t.Fatalf("expected inactive state when paths differ, got %q", got)
	}
}

func TestNavigationMarksActiveLink(t *testing.T) {
	var buf bytes.Buffer
	data := NavData{Active: "/contact", Palette: themeview.Resolve(sitetheme.Dark)}
	if err := Navigation(data).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render navigation: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `href="/contact" data-state="active" aria-current="page"`) {
		t.Fatalf("expected contact link to be active: %s", out)
	}
	if strings.Count(out, `data-state="inactive"`) != 2 {
		t.Fatalf("expected two inactive links: %s", out)
	}
	if !strings.Contains(out, `action="/theme/toggle"`) {
		t.Fatalf("expected theme toggle form in navigation: %s", out)
	}
}

func TestThemeToggleDescribesOppositeMode(t *testing.T) {
	var buf bytes.Buffer
	if err := ThemeToggle(themeview.Resolve(sitetheme.Light), "/about").Render(context.Background(), &buf); err != nil {
		t.Fatalf("render toggle: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `aria-label="Switch to dark mode"`) {
		t.Fatalf("expected light palette toggle to offer dark mode: %s", out)
	}
	if !strings.Contains(out, `name="return" value="/about"`) {
		t.Fatalf("expected return path to be carried: %s", out)
	}
}

func TestFooterRendersYearAndLinks(t *testing.T) {
	var buf bytes.Buffer
	if err := footer(themeview.Resolve(sitetheme.Dark), 2026).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render footer: %v", err)
	}
	out := buf.String()
	for _, token := range []string{"© 2026", "All rights reserved.", `href="/about"`} {
		if !strings.Contains(out, token) {
			t.Fatalf("expected footer to contain %q: %s", token, out)
		}
	}
}

func TestThemeToggleEscapesReturnPath(t *testing.T) {
	var buf bytes.Buffer
	if err := ThemeToggle(themeview.Resolve(sitetheme.Dark), `/about"><script>`).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render toggle: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "<script>") {
		t.Fatalf("return path must be escaped: %s", out)
	}
	if !strings.Contains(out, `value="/about&#34;&gt;&lt;script&gt;"`) {
		t.Fatalf("expected escaped return path: %s", out)
	}
}
