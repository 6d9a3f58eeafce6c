// Package evaluation implements component C5: the scalar rule-quality
// score, the negated absolute Pearson correlation between a candidate
// per-time-slot prediction vector and the ground-truth count vector.
package evaluation

import "math"

// Score computes overallQualityScore = -|pearson(predicted, groundTruth)|.
// ok is false when either sequence has zero variance, in which case the
// correlation is undefined and the caller must reject the candidate head
// rather than use the returned score.
func Score(predicted, groundTruth []uint32) (score float64, ok bool) {
	n := len(predicted)
	if n == 0 || n != len(groundTruth) {
		return 0, false
	}

	var sumX, sumY, sumXY, sumX2, sumY2 float64
	for i := 0; i < n; i++ {
		x := float64(predicted[i])
		y := float64(groundTruth[i])
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
		sumY2 += y * y
	}

	nf := float64(n)
	numerator := nf*sumXY - sumX*sumY
	varX := nf*sumX2 - sumX*sumX
	varY := nf*sumY2 - sumY*sumY
	if varX <= 0 || varY <= 0 {
		return 0, false
	}
	denominator := math.Sqrt(varX) * math.Sqrt(varY)
	if denominator == 0 {
		return 0, false
	}
	r := numerator / denominator
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return -math.Abs(r), true
}
