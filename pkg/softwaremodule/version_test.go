package softwaremodule

import "testing"

func TestCompareVersions(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.2.0", "1.10.0", -1},
		{"v2.0.0", "1.9.9", 1},
		{"1.0.0", "nightly", -1},
		{"nightly", "1.0.0", 1},
		{"alpha", "beta", -1},
	}
	for _, tc := range cases {
		if got := CompareVersions(tc.a, tc.b); got != tc.want {
			t.Errorf("CompareVersions(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestIsSemanticVersion(t *testing.T) {
	for _, raw := range []string{"1.0.0", "v1.2.3", "1.2", "2.0.0-rc.1"} {
		if !IsSemanticVersion(raw) {
			t.Errorf("expected %q to be a semantic version", raw)
		}
	}
	for _, raw := range []string{"", "  ", "latest", "1.0.0.0.0"} {
		if IsSemanticVersion(raw) {
			t.Errorf("expected %q to be rejected", raw)
		}
	}
}

func TestSoftwareModuleClone(t *testing.T) {
	original := &SoftwareModule{Name: "os", Version: "1.0", Type: &ModuleType{Name: "OS"}}
	clone := original.Clone()
	clone.Type.Name = "Runtime"
	clone.Vendor = "acme"
	if original.Type.Name != "OS" || original.Vendor != "" {
		t.Fatalf("clone shares state with original: %+v", original)
	}
	if got := original.NameVersion(); got != "os:1.0" {
		t.Fatalf("NameVersion() = %q", got)
	}
}
