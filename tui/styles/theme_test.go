package styles

import "testing"

func TestLookup(t *testing.T) {
	theme, ok := Lookup("solarized-dark")
	if !ok || theme.Name != "Solarized Dark" {
		t.Fatalf("Lookup(solarized-dark) = %q, %v", theme.Name, ok)
	}
	if _, ok := Lookup("nonexistent"); ok {
		t.Error("expected unknown slug to miss")
	}
	if DefaultTheme.Name == "" {
		t.Error("default theme is not registered")
	}
}

func TestSlugsSortedAndCopied(t *testing.T) {
	got := Slugs()
	if len(got) != len(Themes) {
		t.Fatalf("expected %d slugs, got %d", len(Themes), len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Errorf("slugs not sorted: %q before %q", got[i-1], got[i])
		}
	}
	got[0] = "mutated"
	if Slugs()[0] == "mutated" {
		t.Error("Slugs exposes its backing array")
	}
}

func TestPosition(t *testing.T) {
	all := Slugs()
	if Position(all[0]) != 1 || Position(all[len(all)-1]) != len(all) {
		t.Error("positions are not 1-based")
	}
	if Position("missing") != 0 {
		t.Error("expected 0 for unknown slug")
	}
}

func TestCycleWraps(t *testing.T) {
	all := Slugs()
	first, last := all[0], all[len(all)-1]

	if got := NextTheme(last); got != first {
		t.Errorf("expected wrap to %q, got %q", first, got)
	}
	if got := Cycle(first, -1); got != last {
		t.Errorf("expected backward wrap to %q, got %q", last, got)
	}
	if got := Cycle("unknown", 1); got != first {
		t.Errorf("unknown forward = %q", got)
	}
	if got := Cycle("unknown", -1); got != last {
		t.Errorf("unknown backward = %q", got)
	}
}

func TestEveryThemeComplete(t *testing.T) {
	for slug, theme := range Themes {
		if theme.Name == "" || theme.Base00 == "" || theme.Base08 == "" || theme.Base0F == "" {
			t.Errorf("theme %q is incomplete", slug)
		}
	}
}
