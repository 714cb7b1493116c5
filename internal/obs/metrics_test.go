package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                                  "/",
		"/metrics":                          "/metrics",
		"/site-inspections":                 "/site-inspections",
		"/site-inspections?limit=10":        "/site-inspections",
		"/site-inspections/abc":             "/site-inspections/:id",
		"/site-inspections/abc/status":      "/site-inspections/:id/status",
		"/site-inspections/abc/extra":       "/site-inspections/abc/extra",
		"/audit-trail":                      "/audit-trail",
		"/compliance-templates":             "/compliance-templates",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
