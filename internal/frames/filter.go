package frames

import "strings"

// FilterOptions narrows a frame list. Empty fields match everything.
type FilterOptions struct {
	Statuses  []string
	Styles    []string
	Rarities  []string
	Artists   []string
	FreeWords string
}

func equalsAny(v string, options []string) bool {
	for _, o := range options {
		if strings.EqualFold(v, o) {
			return true
		}
	}
	return false
}

// Filter returns the frames matching every set option, keeping input order.
func Filter(frames []Frame, opt FilterOptions) []Frame {
	var out []Frame
	for _, f := range frames {
		if len(opt.Statuses) > 0 && !equalsAny(f.Status, opt.Statuses) {
			continue
		}
		if len(opt.Styles) > 0 && !equalsAny(f.Style, opt.Styles) {
			continue
		}
		if len(opt.Rarities) > 0 && !equalsAny(f.Rarity, opt.Rarities) {
			continue
		}
		if len(opt.Artists) > 0 && !equalsAny(f.Artist, opt.Artists) {
			continue
		}
		if opt.FreeWords != "" {
			hay := strings.ToLower(f.Name + " " + f.Style + " " + f.Artist)
			ok := true
			for _, k := range strings.Fields(opt.FreeWords) {
				if !strings.Contains(hay, strings.ToLower(k)) {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
		}
		out = append(out, f)
	}
	return out
}
