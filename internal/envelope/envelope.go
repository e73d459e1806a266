package envelope

import "github.com/cbegin/soundtype-go/internal/preset"

// PeakGain is the gain reached at the end of the attack stage.
const PeakGain = 0.7

// Point is a breakpoint: the curve reaches Gain at Time seconds after note
// start, ramping linearly from the previous point.
type Point struct {
	Time float64
	Gain float64
}

// Curve is a piecewise-linear gain trajectory. Points are ordered by
// non-decreasing Time; the first and last have zero gain.
type Curve struct {
	Points []Point
}

// Build lays out attack, decay, sustain and release breakpoints for env.
// Sustain is a level marker with no duration of its own. Stages of zero
// length become instantaneous jumps.
func Build(env preset.Envelope, peak float64) Curve {
	a := env.Attack
	d := a + env.Decay
	r := d + env.Release
	sus := env.Sustain * peak
	return Curve{Points: []Point{
		{Time: 0, Gain: 0},
		{Time: a, Gain: peak},
		{Time: d, Gain: sus},
		{Time: d, Gain: sus}, // sustain
		{Time: r, Gain: 0},
	}}
}

// Duration is the time of the last breakpoint.
func (c Curve) Duration() float64 {
	if len(c.Points) == 0 {
		return 0
	}
	return c.Points[len(c.Points)-1].Time
}

// Gain evaluates the curve at t seconds. At a jump the later value wins;
// outside the curve the nearest endpoint gain holds.
func (c Curve) Gain(t float64) float64 {
	pts := c.Points
	if len(pts) == 0 {
		return 0
	}
	if !(t >= pts[0].Time) {
		return pts[0].Gain
	}
	for i := 1; i < len(pts); i++ {
		b := pts[i]
		if t < b.Time {
			// t >= pts[i-1].Time here, so b.Time > a.Time.
			a := pts[i-1]
			return a.Gain + (b.Gain-a.Gain)*(t-a.Time)/(b.Time-a.Time)
		}
	}
	return pts[len(pts)-1].Gain
}
