package styles

import (
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// DefaultSlug is used when the configured theme is unknown.
const DefaultSlug = "solarized-dark"

// Theme is a Base16 palette. Widgets pick colors by role: 00-07 are the
// background-to-foreground ramp, 08 red, 09 orange, 0A yellow, 0B green,
// 0C cyan, 0D blue, 0E magenta, 0F brown.
type Theme struct {
	Name string

	Base00, Base01, Base02, Base03 lipgloss.Color
	Base04, Base05, Base06, Base07 lipgloss.Color
	Base08, Base09, Base0A, Base0B lipgloss.Color
	Base0C, Base0D, Base0E, Base0F lipgloss.Color
}

var (
	DefaultTheme = Themes[DefaultSlug]
	slugs        = sortedSlugs()
)

func sortedSlugs() []string {
	out := make([]string, 0, len(Themes))
	for slug := range Themes {
		out = append(out, slug)
	}
	slices.Sort(out)
	return out
}

// Lookup returns the theme registered under slug.
func Lookup(slug string) (Theme, bool) {
	t, ok := Themes[slug]
	return t, ok
}

// Slugs returns every theme slug in sorted order.
func Slugs() []string {
	return slices.Clone(slugs)
}

// Position returns the 1-based position of slug in Slugs, or 0.
func Position(slug string) int {
	return slices.Index(slugs, slug) + 1
}

// Cycle steps through the sorted slugs, wrapping at either end. An unknown
// slug starts from the first theme going forward and the last going back.
func Cycle(slug string, step int) string {
	n := len(slugs)
	i := slices.Index(slugs, slug)
	if i < 0 {
		if step < 0 {
			return slugs[n-1]
		}
		return slugs[0]
	}
	return slugs[((i+step)%n+n)%n]
}

// NextTheme is Cycle(slug, 1).
func NextTheme(slug string) string {
	return Cycle(slug, 1)
}
