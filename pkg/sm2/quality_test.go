package sm2

import "testing"

func TestQualityString(t *testing.T) {
	cases := []struct {
		q    Quality
		want string
	}{
		{QualityForgot, "forgot"},
		{QualityHard, "hard"},
		{QualityGood, "good"},
		{Quality(7), "Quality(7)"},
		{Quality(-1), "Quality(-1)"},
	}
	for _, tc := range cases {
		if got := tc.q.String(); got != tc.want {
			t.Errorf("Quality(%d).String() = %q, want %q", int(tc.q), got, tc.want)
		}
	}
}

func TestQualityIsValid(t *testing.T) {
	for q := QualityForgot; q <= QualityGood; q++ {
		if !q.IsValid() {
			t.Errorf("%v should be valid", q)
		}
	}
	for _, q := range []Quality{-1, 3, 100} {
		if q.IsValid() {
			t.Errorf("Quality(%d) should be invalid", int(q))
		}
	}
}

func TestQualityTextRoundTrip(t *testing.T) {
	for q := QualityForgot; q <= QualityGood; q++ {
		text, err := q.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", q, err)
		}
		var back Quality
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", text, err)
		}
		if back != q {
			t.Errorf("round trip of %v yielded %v", q, back)
		}
	}

	if _, err := Quality(9).MarshalText(); err == nil {
		t.Error("MarshalText should reject invalid quality")
	}
	var q Quality
	if err := q.UnmarshalText([]byte("excellent")); err == nil {
		t.Error("UnmarshalText should reject unknown name")
	}
}
