package location

import "testing"

func TestNormalize_StripsPrefixAndAppendsPosition(t *testing.T) {
	t.Parallel()
	got := Normalize("https://example.com/app.js", "https://example.com", 10, 5)
	if got != "app.js:10:5" {
		t.Errorf("Normalize = %q, want app.js:10:5", got)
	}
}

func TestNormalize_LineWithoutColumn(t *testing.T) {
	t.Parallel()
	got := Normalize("https://example.com/app.js", "https://example.com", 10, 0)
	if got != "app.js:10" {
		t.Errorf("Normalize = %q, want app.js:10", got)
	}
}

func TestNormalize_NoMatchingPrefixPassesThrough(t *testing.T) {
	t.Parallel()
	got := Normalize("https://cdn.other.net/lib.js", "https://example.com", 0, 0)
	if got != "https://cdn.other.net/lib.js" {
		t.Errorf("Normalize = %q, want raw passthrough", got)
	}
}

func TestNormalize_EmptyRawYieldsEmpty(t *testing.T) {
	t.Parallel()
	if got := Normalize("", "https://example.com", 12, 3); got != "" {
		t.Errorf("Normalize = %q, want empty", got)
	}
}

func TestStripPrefix_SingleLeadingSeparator(t *testing.T) {
	t.Parallel()
	if got := StripPrefix("https://example.com//double.js", "https://example.com"); got != "/double.js" {
		t.Errorf("StripPrefix = %q, want /double.js (only one separator removed)", got)
	}
}

func TestDeriveBasePrefix(t *testing.T) {
	t.Parallel()
	cases := []struct {
		navURL string
		want   string
	}{
		{"https://example.com/app/index.html", "https://example.com/app"},
		{"https://example.com/app/", "https://example.com/app"},
		{"https://example.com/", "https://example.com"},
		{"https://example.com/app/index.html?q=1#top", "https://example.com/app"},
		{"file:///tmp/demo/page.html", "file:///tmp/demo"},
	}
	for _, c := range cases {
		if got := DeriveBasePrefix(c.navURL); got != c.want {
			t.Errorf("DeriveBasePrefix(%q) = %q, want %q", c.navURL, got, c.want)
		}
	}
}
