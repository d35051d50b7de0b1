package theme

import (
	"github.com/a-h/templ"

	sitetheme "mlsweb/internal/theme"
)

// Palette contains the resolved class strings for one display mode.
type Palette struct {
	Setting sitetheme.Setting
	Dark    bool

	HTMLClass       string
	BodyClass       string
	NavClass        string
	NavLinkClass    string
	NavActiveClass  string
	ToggleClass     string
	HeadingClass    string
	TextClass       string
	MutedTextClass  string
	SubtleTextClass string
	CardClass       string
	FormPanelClass  string
	LabelClass      string
	InputClass      string
	OptionClass     string
	ErrorTextClass  string
	FooterClass     string
}

const inputBase = "w-full rounded-xl px-4 py-4 transition-all duration-300 focus:outline-none focus:ring-2 focus:ring-blue-500"

var palettes = map[sitetheme.Setting]Palette{
	sitetheme.Dark: {
		Setting:         sitetheme.Dark,
		Dark:            true,
		HTMLClass:       "",
		BodyClass:       "min-h-screen bg-[#0a0a0f] text-white overflow-x-hidden",
		NavClass:        "fixed top-0 inset-x-0 z-50 backdrop-blur-xl bg-black/40 border-b border-white/10",
		NavLinkClass:    "text-gray-400 hover:text-white",
		NavActiveClass:  "text-white",
		ToggleClass:     "p-2 rounded-full bg-white/10 text-yellow-300 hover:bg-white/20",
		HeadingClass:    "text-white",
		TextClass:       "text-gray-300",
		MutedTextClass:  "text-gray-400",
		SubtleTextClass: "text-gray-500",
		CardClass:       "rounded-2xl p-8 border bg-white/5 border-white/10",
		FormPanelClass:  "rounded-2xl p-8 border bg-[#0f0f16] border-white/10",
		LabelClass:      "text-sm font-medium text-gray-400",
		InputClass:      inputBase + " bg-white/5 border border-white/10 text-white placeholder-gray-500 focus:bg-white/10",
		OptionClass:     "bg-[#0f0f16]",
		ErrorTextClass:  "text-sm text-red-300",
		FooterClass:     "border-t border-white/10 bg-black/40 text-gray-400",
	},
	sitetheme.Light: {
		Setting:         sitetheme.Light,
		Dark:            false,
		HTMLClass:       "light-mode",
		BodyClass:       "min-h-screen bg-gray-50 text-gray-900 overflow-x-hidden",
		NavClass:        "fixed top-0 inset-x-0 z-50 backdrop-blur-xl bg-white/70 border-b border-gray-200",
		NavLinkClass:    "text-gray-600 hover:text-gray-900",
		NavActiveClass:  "text-gray-900",
		ToggleClass:     "p-2 rounded-full bg-gray-200 text-indigo-600 hover:bg-gray-300",
		HeadingClass:    "text-gray-900",
		TextClass:       "text-gray-700",
		MutedTextClass:  "text-gray-600",
		SubtleTextClass: "text-gray-500",
		CardClass:       "rounded-2xl p-8 border bg-white border-gray-200 shadow-lg",
		FormPanelClass:  "rounded-2xl p-8 border bg-white border-gray-200 shadow-xl",
		LabelClass:      "text-sm font-medium text-gray-600",
		InputClass:      inputBase + " bg-gray-50 border border-gray-200 text-gray-900 placeholder-gray-400 focus:bg-white",
		OptionClass:     "bg-white",
		ErrorTextClass:  "text-sm text-red-600",
		FooterClass:     "border-t border-gray-200 bg-white text-gray-600",
	},
}

// Resolve returns the palette for a setting, falling back to the default.
func Resolve(setting sitetheme.Setting) Palette {
	if p, ok := palettes[setting]; ok {
		return p
	}
	return palettes[sitetheme.Default]
}

// ForDark returns the palette for a boolean dark flag.
func ForDark(isDark bool) Palette {
	if isDark {
		return palettes[sitetheme.Dark]
	}
	return palettes[sitetheme.Light]
}

// Join combines a base class list with the palette-specific one.
func Join(base, themed string) string {
	return templ.Classes(base, themed).String()
}

// ToggleLabel describes what the theme toggle will switch to.
func (p Palette) ToggleLabel() string {
	if p.Dark {
		return "Switch to light mode"
	}
	return "Switch to dark mode"
}

// ToggleIcon is the glyph shown on the theme toggle.
func (p Palette) ToggleIcon() string {
	if p.Dark {
		return "☀"
	}
	return "☾"
}
