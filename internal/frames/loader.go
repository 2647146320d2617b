package frames

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/youruser/boothapp/internal/strip"
)

// Presets is an immutable table of hand-tuned stacked layouts. Lookup is by
// exact key; Match finds the preset whose key appears in a frame name.
type Presets struct {
	byKey map[string]strip.Preset
	keys  []string
}

// NewPresets builds a table. Keys are case-insensitive; later duplicates win.
func NewPresets(list ...strip.Preset) Presets {
	p := Presets{byKey: map[string]strip.Preset{}}
	for _, v := range list {
		k := strings.ToLower(strings.TrimSpace(v.Key))
		if k == "" {
			continue
		}
		v.Key = k
		if _, dup := p.byKey[k]; !dup {
			p.keys = append(p.keys, k)
		}
		p.byKey[k] = v
	}
	sort.Strings(p.keys)
	return p
}

// DefaultPresets returns the official frame calibrations.
func DefaultPresets() Presets {
	return NewPresets(
		strip.Preset{Key: "perunggu", TopMargin: 0.100, BottomLimit: 0.71, SideMargin: 0.0, GapRatio: 0.015},
		strip.Preset{Key: "the1975", TopMargin: 0.15, BottomLimit: 0.85, SideMargin: 0.15, GapRatio: 0.04},
	)
}

// Lookup implements strip.PresetLookup.
func (p Presets) Lookup(key string) (strip.Preset, bool) {
	v, ok := p.byKey[strings.ToLower(key)]
	return v, ok
}

// Match returns the first key, in sorted order, contained in name.
func (p Presets) Match(name string) (string, bool) {
	n := strings.ToLower(name)
	if n == "" {
		return "", false
	}
	for _, k := range p.keys {
		if strings.Contains(n, k) {
			return k, true
		}
	}
	return "", false
}

// Keys returns the preset keys in sorted order.
func (p Presets) Keys() []string {
	return append([]string(nil), p.keys...)
}

// Len returns the number of presets.
func (p Presets) Len() int { return len(p.keys) }

// LoadPresets reads a preset CSV with the header
// key,top_margin,bottom_limit,side_margin,gap_ratio.
func LoadPresets(path string) (Presets, error) {
	fp, err := os.Open(path)
	if err != nil {
		return Presets{}, err
	}
	defer fp.Close()

	r := csv.NewReader(fp)
	r.FieldsPerRecord = -1
	r.Comment = '#'
	rows, err := r.ReadAll()
	if err != nil {
		return Presets{}, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) < 1 {
		return Presets{}, fmt.Errorf("csv %s has no header", path)
	}
	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[strings.TrimSpace(strings.ToLower(h))] = i
	}
	for _, name := range []string{"key", "top_margin", "bottom_limit", "side_margin", "gap_ratio"} {
		if _, ok := cols[name]; !ok {
			return Presets{}, fmt.Errorf("csv %s: missing column %q", path, name)
		}
	}

	get := func(row []string, name string) string {
		if idx, ok := cols[name]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}
	num := func(row []string, name string, line int) (float64, error) {
		v, err := strconv.ParseFloat(get(row, name), 64)
		if err != nil {
			return 0, fmt.Errorf("%s line %d: %s: %w", path, line, name, err)
		}
		return v, nil
	}

	var list []strip.Preset
	for i, row := range rows[1:] {
		line := i + 2
		p := strip.Preset{Key: get(row, "key")}
		if p.Key == "" {
			continue
		}
		if p.TopMargin, err = num(row, "top_margin", line); err != nil {
			return Presets{}, err
		}
		if p.BottomLimit, err = num(row, "bottom_limit", line); err != nil {
			return Presets{}, err
		}
		if p.SideMargin, err = num(row, "side_margin", line); err != nil {
			return Presets{}, err
		}
		if p.GapRatio, err = num(row, "gap_ratio", line); err != nil {
			return Presets{}, err
		}
		if err := checkPreset(p); err != nil {
			return Presets{}, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		list = append(list, p)
	}
	return NewPresets(list...), nil
}

func checkPreset(p strip.Preset) error {
	switch {
	case p.TopMargin < 0 || p.BottomLimit > 1 || p.TopMargin >= p.BottomLimit:
		return fmt.Errorf("preset %q: margins %g..%g out of range", p.Key, p.TopMargin, p.BottomLimit)
	case p.SideMargin < 0 || p.SideMargin >= 0.5:
		return fmt.Errorf("preset %q: side margin %g out of range", p.Key, p.SideMargin)
	case p.GapRatio < 0:
		return fmt.Errorf("preset %q: negative gap", p.Key)
	}
	return nil
}
