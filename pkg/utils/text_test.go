package utils

import "testing"

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"NATURE METHODS", "NATURE_METHODS"},
		{"Physics Today!", "Physics_Today_"},
		{"journal-of.chemistry", "journal_of_chemistry"},
		{"ABC123", "ABC123"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := SanitizeFilename(tc.in); got != tc.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello world", 5); got != "hello..." {
		t.Errorf("Truncate = %q, want %q", got, "hello...")
	}
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate should keep short strings intact, got %q", got)
	}
	if got := Truncate("中文摘要内容", 2); got != "中文..." {
		t.Errorf("Truncate should count runes, got %q", got)
	}
}

func TestStripJATSMarkup(t *testing.T) {
	in := `<jats:p>Cells divide under <jats:italic>stress</jats:italic>.</jats:p>`
	want := "Cells divide under stress."
	if got := StripJATSMarkup(in); got != want {
		t.Errorf("StripJATSMarkup = %q, want %q", got, want)
	}
}

func TestExtractJSONObject(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"clean object", `{"title":"x"}`, `{"title":"x"}`},
		{"markdown fence", "```json\n{\"title\":\"x\"}\n```", `{"title":"x"}`},
		{"leading prose", `Here is the result: {"a":1}`, `{"a":1}`},
		{"array", `noise [1,2,3] tail`, `[1,2,3]`},
		{"no json", "plain text answer", "plain text answer"},
		{"empty", "   ", ""},
		{"scalar with trailing prose falls back", "42 and more", "42 and more"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractJSONObject(tc.in); got != tc.want {
				t.Errorf("ExtractJSONObject(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
