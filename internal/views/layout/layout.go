package layout

import themeview "mlsweb/internal/views/theme"

const siteName = "MLS Sound & Lighting"

// PageData describes the document shell around a page.
type PageData struct {
	Title       string
	Description string
	Path        string
	Palette     themeview.Palette
}

func documentTitle(title string) string {
	if title == "" {
		return siteName
	}
	return title + " | " + siteName
}
