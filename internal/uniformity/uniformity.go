// Package uniformity tests samples for uniformity on [0,1).
//
// It is used as a statistical self-check of generator output: a
// chi-square test over equal-width bins and a one-sample
// Kolmogorov-Smirnov test against the uniform CDF.
package uniformity

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultBins is the number of chi-square bins used by Check.
const DefaultBins = 64

// Report summarises the uniformity statistics of a sample.
type Report struct {
	N        int
	Mean     float64 // Expected 1/2
	Variance float64 // Expected 1/12

	Bins       int
	ChiSquare  float64
	ChiSquareP float64

	KS  float64 // Kolmogorov-Smirnov statistic D
	KSP float64
}

// Pass reports whether both tests accept uniformity at significance
// level alpha.
func (r Report) Pass(alpha float64) bool {
	return r.ChiSquareP >= alpha && r.KSP >= alpha
}

// String formats the report on one line.
func (r Report) String() string {
	return fmt.Sprintf("n=%d mean=%.6f var=%.6f chi2(%d)=%.3f p=%.4f ks=%.6f p=%.4f",
		r.N, r.Mean, r.Variance, r.Bins-1, r.ChiSquare, r.ChiSquareP, r.KS, r.KSP)
}

// Check computes a Report with DefaultBins bins.
func Check(samples []float64) (Report, error) {
	return CheckBins(samples, DefaultBins)
}

// CheckBins computes a Report using the given number of chi-square bins.
// Every sample must lie in [0,1).
func CheckBins(samples []float64, bins int) (Report, error) {
	if len(samples) == 0 {
		return Report{}, errors.New("uniformity: no samples")
	}
	if bins < 2 {
		return Report{}, fmt.Errorf("uniformity: need at least 2 bins, got %d", bins)
	}
	for i, x := range samples {
		if !(x >= 0 && x < 1) {
			return Report{}, fmt.Errorf("uniformity: sample %d = %v outside [0,1)", i, x)
		}
	}

	r := Report{N: len(samples), Bins: bins}
	r.Mean, r.Variance = stat.MeanVariance(samples, nil)
	r.ChiSquare, r.ChiSquareP = chiSquare(samples, bins)
	r.KS, r.KSP = kolmogorovSmirnov(samples)
	return r, nil
}

func chiSquare(samples []float64, bins int) (chi, p float64) {
	observed := make([]float64, bins)
	for _, x := range samples {
		observed[int(x*float64(bins))]++
	}
	expected := make([]float64, bins)
	for i := range expected {
		expected[i] = float64(len(samples)) / float64(bins)
	}
	chi = stat.ChiSquare(observed, expected)
	p = distuv.ChiSquared{K: float64(bins - 1)}.Survival(chi)
	return chi, p
}

// kolmogorovSmirnov returns the one-sample statistic against U(0,1) and
// its asymptotic p-value.
func kolmogorovSmirnov(samples []float64) (d, p float64) {
	xs := append([]float64(nil), samples...)
	sort.Float64s(xs)
	n := float64(len(xs))
	for i, x := range xs {
		if v := float64(i+1)/n - x; v > d {
			d = v
		}
		if v := x - float64(i)/n; v > d {
			d = v
		}
	}
	sn := math.Sqrt(n)
	return d, kolmogorovSurvival((sn + 0.12 + 0.11/sn) * d)
}

// kolmogorovSurvival is P(K > lambda) for the Kolmogorov distribution.
func kolmogorovSurvival(lambda float64) float64 {
	if lambda < 0.2 {
		return 1
	}
	var sum float64
	sign := 1.0
	for k := 1; k <= 100; k++ {
		term := sign * math.Exp(-2*float64(k*k)*lambda*lambda)
		sum += term
		if math.Abs(term) < 1e-12 {
			break
		}
		sign = -sign
	}
	return math.Min(1, math.Max(0, 2*sum))
}
