package breath

import "math"

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// easeInOutCubic has zero derivative at both ends, so motion velocity is
// continuous across phase boundaries.
func easeInOutCubic(x float64) float64 {
	if x < 0.5 {
		return 4 * x * x * x
	}
	y := -2*x + 2
	return 1 - y*y*y/2
}

// waveEase is the rounded-wave transition: an arctangent ramp through [0,1]
// whose ends flatten as delta shrinks, emulating breath pauses without
// discrete hold segments. waveEase(0)=0 and waveEase(1)=1 exactly.
func waveEase(x, delta float64) float64 {
	k := 1 / delta
	return 0.5 * (1 + math.Atan(k*(2*x-1))/math.Atan(k))
}
