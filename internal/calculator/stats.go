package calculator

import "math"

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the population standard deviation of values, or 0 for an empty slice.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	sq := 0.0
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}

// CoefficientOfVariation returns stddev/mean with the denominator floored at 1.
func CoefficientOfVariation(values []float64) float64 {
	return StdDev(values) / Floor1(Mean(values))
}

// Floor1 returns max(|x|, 1). Used wherever a ratio's denominator may be zero or tiny.
func Floor1(x float64) float64 {
	return math.Max(math.Abs(x), 1)
}

// LinearRegression fits y against x = 0, 1, 2, ... and returns the slope and R².
// Fewer than two points give a flat fit.
func LinearRegression(points []float64) (slope, rSquared float64) {
	n := float64(len(points))
	if n < 2 {
		return 0, 0
	}
	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range points {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}
	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		return 0, 0
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssRes, ssTot float64
	for i, y := range points {
		predicted := slope*float64(i) + intercept
		ssRes += (y - predicted) * (y - predicted)
		ssTot += (y - meanY) * (y - meanY)
	}
	if ssTot == 0 {
		return slope, 1
	}
	return slope, 1 - ssRes/ssTot
}

// RelativeChanges returns (v[i]-v[i-1]) / max(|v[i-1]|, 1) for each consecutive pair.
func RelativeChanges(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	out := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		out = append(out, (values[i]-values[i-1])/Floor1(values[i-1]))
	}
	return out
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// IsFinite reports whether v is neither NaN nor ±Inf.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ClampAround bounds v to [base-k|base|, base+k|base|]. A non-finite v falls back to base.
// The second return value reports whether v was changed.
func ClampAround(v, base, k float64) (float64, bool) {
	if !IsFinite(v) {
		return base, true
	}
	span := math.Abs(base) * k
	c := Clamp(v, base-span, base+span)
	return c, c != v
}
