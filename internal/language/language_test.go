package language

import "testing"

func TestToISO2(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"en", "en"},
		{"eng", "en"},
		{"English", "en"},
		{"fra", "fr"},
		{"french", "fr"},
		{"deu", "de"},
		{"pt-BR", "pt"},
		{" ja ", "ja"},
		{"", ""},
		{"xx", "xx"},
		{"klingon", ""},
	}
	for _, tc := range cases {
		if got := ToISO2(tc.in); got != tc.want {
			t.Fatalf("ToISO2(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"en", "English"},
		{"fr", "French"},
		{"", "Unknown"},
	}
	for _, tc := range cases {
		if got := DisplayName(tc.in); got != tc.want {
			t.Fatalf("DisplayName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
