package entity

import "testing"

func TestAccuracyPct(t *testing.T) {
	cases := []struct {
		correct, studied int64
		want             float64
	}{
		{0, 0, 0},
		{5, 0, 0},
		{0, 4, 0},
		{4, 4, 100},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{7, 8, 87.5},
	}
	for _, tc := range cases {
		if got := AccuracyPct(tc.correct, tc.studied); got != tc.want {
			t.Errorf("AccuracyPct(%d, %d) = %v, want %v", tc.correct, tc.studied, got, tc.want)
		}
	}
}
