// Package transmission implements the data-driven gear torque model:
// a set of piecewise curves mapping road speed to engine torque, one
// curve per gear range.
package transmission

// Key is a single control point on a curve: Value at speed Time.
type Key struct {
	Time  float64
	Value float64
}

// Curve is an ordered list of control points evaluated by linear
// interpolation. Keys must be sorted by ascending Time.
type Curve struct {
	Name string
	Keys []Key
}

// Domain returns the inclusive speed range covered by the curve.
func (c Curve) Domain() (lo, hi float64) {
	if len(c.Keys) == 0 {
		return 0, 0
	}
	return c.Keys[0].Time, c.Keys[len(c.Keys)-1].Time
}

// Contains reports whether speed falls inside the curve's domain,
// bounds inclusive. An empty curve contains nothing.
func (c Curve) Contains(speed float64) bool {
	if len(c.Keys) == 0 {
		return false
	}
	lo, hi := c.Domain()
	return speed >= lo && speed <= hi
}

// Evaluate returns the interpolated value at speed. Speeds outside the
// domain clamp to the first or last key's value.
func (c Curve) Evaluate(speed float64) float64 {
	n := len(c.Keys)
	if n == 0 {
		return 0
	}
	if speed <= c.Keys[0].Time {
		return c.Keys[0].Value
	}
	if speed >= c.Keys[n-1].Time {
		return c.Keys[n-1].Value
	}

	for i := 0; i < n-1; i++ {
		lo := c.Keys[i]
		hi := c.Keys[i+1]
		if speed >= lo.Time && speed <= hi.Time {
			span := hi.Time - lo.Time
			if span == 0 {
				return lo.Value
			}
			frac := (speed - lo.Time) / span
			return lo.Value + (hi.Value-lo.Value)*frac
		}
	}

	return c.Keys[n-1].Value
}
