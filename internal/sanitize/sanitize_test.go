package sanitize

import "testing"

func TestHasMarkup(t *testing.T) {
	cases := map[string]bool{
		"":                                  false,
		"  ACME Corp ":                      false,
		"Tom & Jerry":                       false,
		"R&amp;D Labs":                      false,
		"&lt;b&gt;bold&lt;/b&gt;":           false,
		"a < b":                             false,
		"<b>bold</b> vendor":                true,
		"<script>alert(1)</script>agent":    true,
		"Acme <Labs>":                       true,
		`<a href="http://x">link</a> text `: true,
	}
	for input, want := range cases {
		if got := HasMarkup(input); got != want {
			t.Fatalf("HasMarkup(%q): want %v, got %v", input, want, got)
		}
	}
}

func TestTrimToEmpty(t *testing.T) {
	if got := TrimToEmpty("\t1.0.0\n"); got != "1.0.0" {
		t.Fatalf("got %q", got)
	}
	if got := TrimToEmpty("   "); got != "" {
		t.Fatalf("blank input: got %q", got)
	}
}
