package montecarlo

import (
	"fmt"
	"math"
	"slices"

	"github.com/fystack/megasena-analyzer/internal/analysis/numeric"
	"github.com/fystack/megasena-analyzer/pkg/lottery"
)

const (
	// ChiSquareCritical is the 5% critical value for 59 degrees of freedom.
	ChiSquareCritical = 77.93
	CVThreshold       = 0.1
	cvHigh            = 0.05
	cvMedium          = 0.15
)

type UniformityLevel string

const (
	UniformityHigh   UniformityLevel = "high"
	UniformityMedium UniformityLevel = "medium"
	UniformityLow    UniformityLevel = "low"
)

type UniformityVerdict struct {
	ChiSquareUniform bool            `json:"chi_square_uniform"`
	CVUniform        bool            `json:"cv_uniform"`
	Level            UniformityLevel `json:"level"`
	Conclusion       string          `json:"conclusion"`
}

type Uniformity struct {
	ChiSquare        float64           `json:"chi_square"`
	DegreesOfFreedom int               `json:"degrees_of_freedom"`
	PValue           float64           `json:"p_value"`
	CV               float64           `json:"cv"`
	KS               float64           `json:"ks"`
	Expected         float64           `json:"expected"`
	MinFrequency     int               `json:"min_frequency"`
	MaxFrequency     int               `json:"max_frequency"`
	StdDev           float64           `json:"std_dev"`
	Amplitude        int               `json:"amplitude"`
	Verdict          UniformityVerdict `json:"verdict"`
	// Observed[n-1] is the frequency of number n.
	Observed []int `json:"observed"`
}

// UniformityTest checks the number frequencies against a uniform spread with
// a chi-square test, the coefficient of variation and a simplified KS
// statistic (largest gap between sorted frequencies and the expected value).
func UniformityTest(history [][]int) (*Uniformity, error) {
	if len(history) == 0 {
		return nil, fmt.Errorf("uniformity test: %w", lottery.ErrInsufficientData)
	}
	freq := lottery.Frequencies(history)[1:]
	total := 0
	for _, f := range freq {
		total += f
	}
	expected := float64(total) / lottery.TotalNumbers

	u := &Uniformity{
		DegreesOfFreedom: lottery.TotalNumbers - 1,
		Expected:         expected,
		Observed:         slices.Clone(freq),
		MinFrequency:     slices.Min(freq),
		MaxFrequency:     slices.Max(freq),
	}
	u.Amplitude = u.MaxFrequency - u.MinFrequency
	values := numeric.Floats(freq)
	if expected > 0 {
		for _, o := range values {
			u.ChiSquare += (o - expected) * (o - expected) / expected
		}
	}
	u.PValue = numeric.ChiSquareSurvival(u.ChiSquare, u.DegreesOfFreedom)
	mean, std := numeric.MeanStd(values)
	u.StdDev = std
	if mean > 0 {
		u.CV = std / mean
	}
	slices.Sort(values)
	for _, o := range values {
		u.KS = math.Max(u.KS, math.Abs(o-expected))
	}
	u.Verdict = interpretUniformity(u.ChiSquare, u.CV)
	return u, nil
}

func interpretUniformity(chi, cv float64) UniformityVerdict {
	v := UniformityVerdict{
		ChiSquareUniform: chi < ChiSquareCritical,
		CVUniform:        cv < CVThreshold,
	}
	switch {
	case cv < cvHigh:
		v.Level = UniformityHigh
	case cv < cvMedium:
		v.Level = UniformityMedium
	default:
		v.Level = UniformityLow
	}
	switch {
	case v.ChiSquareUniform && v.CVUniform:
		v.Conclusion = "data is consistent with a uniform distribution"
	case v.ChiSquareUniform || v.CVUniform:
		v.Conclusion = "data shows moderate uniformity"
	default:
		v.Conclusion = "data does not look uniform"
	}
	return v
}
