// Package descriptive computes frequency, delay and pattern statistics over
// the draw history and renders the matching charts.
package descriptive

import (
	"fmt"

	"github.com/fystack/megasena-analyzer/internal/analysis/numeric"
	"github.com/fystack/megasena-analyzer/pkg/lottery"
)

const topN = 10

type NumberFrequency struct {
	Number       int     `json:"number"`
	Frequency    int     `json:"frequency"`
	Percentage   float64 `json:"percentage"`
	Deviation    float64 `json:"deviation"`
	Relative     float64 `json:"relative"`
	CurrentDelay int     `json:"current_delay"`
}

type FrequencySummary struct {
	TotalDraws    int                 `json:"total_draws"`
	Mean          float64             `json:"mean"`
	Median        float64             `json:"median"`
	StdDev        float64             `json:"std_dev"`
	CV            float64             `json:"cv"`
	Expected      float64             `json:"expected"`
	MostFrequent  lottery.NumberCount `json:"most_frequent"`
	LeastFrequent lottery.NumberCount `json:"least_frequent"`
	AboveMean     int                 `json:"above_mean"`
	BelowMean     int                 `json:"below_mean"`
}

type FrequencyAnalysis struct {
	Numbers  []NumberFrequency     `json:"numbers"`
	Summary  FrequencySummary      `json:"summary"`
	TopMost  []lottery.NumberCount `json:"top_most"`
	TopLeast []lottery.NumberCount `json:"top_least"`
}

// Frequency counts every number over the history. Summary moments are taken
// over all 60 numbers, including those never drawn.
func Frequency(history [][]int) (*FrequencyAnalysis, error) {
	if len(history) == 0 {
		return nil, fmt.Errorf("frequency analysis: %w", lottery.ErrInsufficientData)
	}

	freq := lottery.Frequencies(history)
	delays := lottery.CurrentDelays(history)
	draws := len(history)
	slots := float64(draws * lottery.NumbersPerDraw)
	expected := float64(draws*lottery.NumbersPerDraw) / lottery.TotalNumbers

	res := &FrequencyAnalysis{Numbers: make([]NumberFrequency, 0, lottery.TotalNumbers)}
	values := make([]float64, 0, lottery.TotalNumbers)
	for n := 1; n <= lottery.TotalNumbers; n++ {
		f := freq[n]
		values = append(values, float64(f))
		res.Numbers = append(res.Numbers, NumberFrequency{
			Number:       n,
			Frequency:    f,
			Percentage:   float64(f) / slots * 100,
			Deviation:    float64(f) - expected,
			Relative:     float64(f) / float64(draws),
			CurrentDelay: delays[n],
		})
	}

	mean, std := numeric.MeanStd(values)
	desc := lottery.RankByCount(freq, true)
	asc := lottery.RankByCount(freq, false)
	res.Summary = FrequencySummary{
		TotalDraws:    draws,
		Mean:          mean,
		Median:        numeric.Median(values),
		StdDev:        std,
		Expected:      expected,
		MostFrequent:  desc[0],
		LeastFrequent: asc[0],
	}
	if mean > 0 {
		res.Summary.CV = std / mean
	}
	for _, v := range values {
		switch {
		case v > mean:
			res.Summary.AboveMean++
		case v < mean:
			res.Summary.BelowMean++
		}
	}
	res.TopMost = desc[:topN]
	res.TopLeast = asc[:topN]
	return res, nil
}
