package links

import (
	"errors"
	"net/url"
	"sort"
	"strings"
)

// Link is a vanity link shown on the booth landing page.
type Link struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Icon     string `json:"icon"`
	IsActive bool   `json:"is_active"`
	Order    int    `json:"order"`
}

// DefaultIcon is used when a link has no icon.
const DefaultIcon = "Link"

// Validate requires a title and an absolute http(s) URL.
func Validate(l *Link) error {
	l.Title = strings.TrimSpace(l.Title)
	l.URL = strings.TrimSpace(l.URL)
	if l.Title == "" || l.URL == "" {
		return errors.New("title and url are required")
	}
	u, err := url.Parse(l.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("url must be an absolute http(s) URL")
	}
	if l.Icon == "" {
		l.Icon = DefaultIcon
	}
	return nil
}

// Sort orders links by Order, then Title.
func Sort(ls []Link) {
	sort.SliceStable(ls, func(i, j int) bool {
		if ls[i].Order != ls[j].Order {
			return ls[i].Order < ls[j].Order
		}
		return ls[i].Title < ls[j].Title
	})
}

// Visible returns the active links in display order.
func Visible(ls []Link) []Link {
	out := []Link{}
	for _, l := range ls {
		if l.IsActive {
			out = append(out, l)
		}
	}
	Sort(out)
	return out
}
