package pages

import "strings"

func telHref(phone string) string {
	return "tel:" + strings.Join(strings.Fields(phone), "")
}
