package components

import themeview "mlsweb/internal/views/theme"

// NavLink is one entry in the site navigation.
type NavLink struct {
	Label string
	Path  string
}

// Links are the three site routes in navigation order.
var Links = []NavLink{
	{Label: "Services", Path: "/"},
	{Label: "About Us", Path: "/about"},
	{Label: "Contact", Path: "/contact"},
}

// NavData drives the navigation bar.
type NavData struct {
	Active  string
	Palette themeview.Palette
}

func linkState(path, active string) string {
	if path == active {
		return "active"
	}
	return "inactive"
}

func navLinkClass(p themeview.Palette, path, active string) string {
	if path == active {
		return p.NavActiveClass
	}
	return p.NavLinkClass
}
