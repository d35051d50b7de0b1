package layout

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"

	sitetheme "mlsweb/internal/theme"
	themeview "mlsweb/internal/views/theme"
)

func renderLayout(t *testing.T, page PageData) string {
	t.Helper()
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := w.Write([]byte("<section>content</section>"))
		return err
	})
	var buf bytes.Buffer
	if err := Layout(page, content).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render layout: %v", err)
	}
	return buf.String()
}

func TestLayoutRendersProvidedContent(t *testing.T) {
	out := renderLayout(t, PageData{Title: "About", Path: "/about", Palette: themeview.Resolve(sitetheme.Dark)})

	if !strings.Contains(out, "<title>About | MLS Sound &amp; Lighting</title>") {
		t.Fatalf("expected document title to be rendered: %s", out)
	}
	if !strings.Contains(out, "<section>content</section>") {
		t.Fatalf("expected page content in output: %s", out)
	}
	if !strings.Contains(out, "<nav") || !strings.Contains(out, "<footer") {
		t.Fatalf("expected navigation and footer chrome: %s", out)
	}
}

func TestLayoutAppliesLightModeClass(t *testing.T) {
	dark := renderLayout(t, PageData{Palette: themeview.Resolve(sitetheme.Dark)})
	light := renderLayout(t, PageData{Palette: themeview.Resolve(sitetheme.Light)})

	if strings.Contains(dark, "light-mode") {
		t.Fatal("dark layout must not carry the light-mode class")
	}
	if !strings.Contains(light, `<html lang="en" class="light-mode" data-theme="light">`) {
		t.Fatalf("expected light-mode class on html element: %s", light)
	}
	if !strings.Contains(dark, "<title>MLS Sound &amp; Lighting</title>") {
		t.Fatalf("expected site name as default title: %s", dark)
	}
}

func TestLayoutEscapesDescriptionAndOmitsEmptyMeta(t *testing.T) {
	out := renderLayout(t, PageData{Description: `Sound "and" <lights>`, Palette: themeview.Resolve(sitetheme.Dark)})

	if !strings.HasPrefix(out, "<!doctype html><html lang=\"en\" data-theme=\"dark\">") {
		t.Fatalf("expected doctype followed by dark html element: %s", out)
	}
	if !strings.Contains(out, `<meta name="description" content="Sound &#34;and&#34; &lt;lights&gt;">`) {
		t.Fatalf("expected escaped description meta: %s", out)
	}

	bare := renderLayout(t, PageData{Palette: themeview.Resolve(sitetheme.Dark)})
	if strings.Contains(bare, `name="description"`) {
		t.Fatalf("expected no description meta when empty: %s", bare)
	}
}
