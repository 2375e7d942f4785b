package customers

import "testing"

func TestNormalizeKana(t *testing.T) {
	// Half-width katakana widens so the kana sort order is stable.
	cases := []struct {
		in   string
		want string
	}{
		{"ﾔﾏﾀﾞｼｮｳｼﾞ", "ヤマダショウジ"},
		{"スズキ", "スズキ"},
	}
	for _, c := range cases {
		if got := normalizeKana(c.in); got != c.want {
			t.Fatalf("normalizeKana(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
