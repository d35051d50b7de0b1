package theme

import (
	"strings"
	"testing"

	sitetheme "mlsweb/internal/theme"
)

func TestResolveFallsBackToDark(t *testing.T) {
	t.Parallel()

	if got := Resolve("sepia"); got.Setting != sitetheme.Dark {
		t.Fatalf("expected fallback to dark palette, got %s", got.Setting)
	}
	if got := Resolve(sitetheme.Light); got.Setting != sitetheme.Light || got.Dark {
		t.Fatalf("expected light palette, got %+v", got)
	}
}

func TestForDarkSelectsDistinctPalettes(t *testing.T) {
	t.Parallel()

	dark, light := ForDark(true), ForDark(false)
	if dark.BodyClass == light.BodyClass || dark.InputClass == light.InputClass {
		t.Fatal("expected class strings to differ between modes")
	}
	if dark.HTMLClass != "" || light.HTMLClass != "light-mode" {
		t.Fatalf("unexpected html classes: dark=%q light=%q", dark.HTMLClass, light.HTMLClass)
	}
	if dark.ToggleLabel() == light.ToggleLabel() {
		t.Fatal("expected toggle label to describe the opposite mode")
	}
}

func TestJoinCombinesClasses(t *testing.T) {
	t.Parallel()

	got := Join("text-2xl font-bold", "text-white")
	for _, class := range []string{"text-2xl", "font-bold", "text-white"} {
		if !strings.Contains(got, class) {
			t.Fatalf("Join() = %q, missing %q", got, class)
		}
	}
}
