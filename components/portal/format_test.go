package portal

import "testing"

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.0K"},
		{1250, "1.3K"},
		{1500, "1.5K"},
		{3250, "3.3K"},
		{12567, "12.6K"},
		{999999, "1000.0K"},
		{1250000, "1.3M"},
		{2500000, "2.5M"},
	}
	for _, tc := range cases {
		if got := FormatNumber(tc.in); got != tc.want {
			t.Fatalf("FormatNumber(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
