package placement

import "math"

// GaussianCDF weights every position by exp(-(target-pos)²/(2σ²)), normalizes
// the weights to sum to 1 and returns their running sum.
//
// Very small sigmas can underflow every weight to zero. A NaN or zero total
// yields a CDF of NaNs, which [Sample] treats as "no match", leaving the
// fallback to the caller.
func GaussianCDF(positions []float64, target, sigma float64) []float64 {
	if len(positions) == 0 {
		return nil
	}

	exps := make([]float64, len(positions))
	var total float64
	for i, pos := range positions {
		d := target - pos
		exps[i] = math.Exp(-(d * d) / (2 * sigma * sigma))
		total += exps[i]
	}

	cdf := exps
	var cum float64
	for i, w := range exps {
		cum += w / total
		cdf[i] = cum
	}
	return cdf
}

// Sample performs an inverse-CDF draw: it returns the first index whose
// cumulative weight reaches u. It reports false when no entry does, which
// happens for NaN distributions or when rounding leaves the last entry
// below u.
func Sample(cdf []float64, u float64) (int, bool) {
	for i, c := range cdf {
		if u <= c {
			return i, true
		}
	}
	return 0, false
}
