package links

import "strings"

// ExportText renders the visible links as "title: url" lines.
func ExportText(ls []Link) string {
	lines := []string{}
	for _, l := range Visible(ls) {
		lines = append(lines, l.Title+": "+l.URL)
	}
	return strings.Join(lines, "\n")
}
