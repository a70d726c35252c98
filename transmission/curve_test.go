package transmission

import (
	"math"
	"testing"
)

func TestCurveDomain(t *testing.T) {
	c := Curve{Keys: []Key{{0, 250}, {30, 180}, {60, 90}}}

	lo, hi := c.Domain()
	if lo != 0 || hi != 60 {
		t.Errorf("expected domain [0, 60], got [%f, %f]", lo, hi)
	}

	empty := Curve{}
	lo, hi = empty.Domain()
	if lo != 0 || hi != 0 {
		t.Errorf("expected empty domain [0, 0], got [%f, %f]", lo, hi)
	}
}

func TestCurveContainsInclusiveBounds(t *testing.T) {
	c := Curve{Keys: []Key{{10, 200}, {40, 100}}}

	testCases := []struct {
		speed float64
		want  bool
	}{
		{10, true},  // lower bound
		{40, true},  // upper bound
		{25, true},  // interior
		{9.9, false},
		{40.1, false},
	}

	for _, tc := range testCases {
		if got := c.Contains(tc.speed); got != tc.want {
			t.Errorf("Contains(%f) = %v, want %v", tc.speed, got, tc.want)
		}
	}
}

func TestCurveContainsEmpty(t *testing.T) {
	if (Curve{}).Contains(0) {
		t.Error("empty curve should contain nothing")
	}
}

func TestCurveEvaluateInterpolates(t *testing.T) {
	c := Curve{Keys: []Key{{0, 400}, {50, 200}, {150, 0}}}

	testCases := []struct {
		speed float64
		want  float64
	}{
		{0, 400},
		{25, 300}, // midpoint of first segment
		{50, 200},
		{100, 100}, // midpoint of second segment
		{150, 0},
	}

	for _, tc := range testCases {
		got := c.Evaluate(tc.speed)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("Evaluate(%f) = %f, want %f", tc.speed, got, tc.want)
		}
	}
}

func TestCurveEvaluateClampsOutsideDomain(t *testing.T) {
	c := Curve{Keys: []Key{{10, 300}, {50, 100}}}

	if got := c.Evaluate(-5); got != 300 {
		t.Errorf("expected clamp to first key value 300, got %f", got)
	}
	if got := c.Evaluate(200); got != 100 {
		t.Errorf("expected clamp to last key value 100, got %f", got)
	}
}

func TestCurveEvaluateSingleKey(t *testing.T) {
	c := Curve{Keys: []Key{{20, 175}}}

	if got := c.Evaluate(20); got != 175 {
		t.Errorf("expected single-key value 175, got %f", got)
	}
}
