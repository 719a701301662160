package descriptive

import (
	"fmt"
	"slices"

	"github.com/fystack/megasena-analyzer/internal/analysis/numeric"
	"github.com/fystack/megasena-analyzer/pkg/lottery"
)

// NumberDelay describes the gaps between consecutive appearances of one
// number. Numbers seen fewer than twice have no gaps and zero gap stats.
type NumberDelay struct {
	Number      int     `json:"number"`
	Mean        float64 `json:"mean"`
	Max         int     `json:"max"`
	Min         int     `json:"min"`
	StdDev      float64 `json:"std_dev"`
	Current     int     `json:"current"`
	Appearances int     `json:"appearances"`
	Gaps        []int   `json:"gaps,omitempty"`
}

type DelayGeneral struct {
	MeanDelay     float64             `json:"mean_delay"`
	MaxHistorical int                 `json:"max_historical"`
	MeanCurrent   float64             `json:"mean_current"`
	HighDelay     int                 `json:"high_delay"`
	MostDelayed   lottery.NumberCount `json:"most_delayed"`
}

type DelayAnalysis struct {
	Numbers []NumberDelay         `json:"numbers"`
	General DelayGeneral          `json:"general"`
	Ranking []lottery.NumberCount `json:"ranking"`
}

// Delay walks the history oldest to newest. A gap is the number of draws
// between two appearances, so back-to-back appearances give 0.
func Delay(history [][]int) (*DelayAnalysis, error) {
	if len(history) == 0 {
		return nil, fmt.Errorf("delay analysis: %w", lottery.ErrInsufficientData)
	}

	gaps := make([][]int, lottery.TotalNumbers+1)
	last := make([]int, lottery.TotalNumbers+1)
	for n := range last {
		last[n] = -1
	}
	appearances := lottery.Frequencies(history)
	for i, draw := range history {
		for _, n := range draw {
			if n < 1 || n > lottery.TotalNumbers {
				continue
			}
			if last[n] >= 0 {
				gaps[n] = append(gaps[n], i-last[n]-1)
			}
			last[n] = i
		}
	}

	current := lottery.CurrentDelays(history)
	res := &DelayAnalysis{Numbers: make([]NumberDelay, 0, lottery.TotalNumbers)}
	var all []float64
	for n := 1; n <= lottery.TotalNumbers; n++ {
		nd := NumberDelay{
			Number:      n,
			Current:     current[n],
			Appearances: appearances[n],
			Gaps:        gaps[n],
		}
		if len(gaps[n]) > 0 {
			g := numeric.Floats(gaps[n])
			nd.Mean, nd.StdDev = numeric.MeanStd(g)
			nd.Min, nd.Max = slices.Min(gaps[n]), slices.Max(gaps[n])
			all = append(all, g...)
		}
		res.Numbers = append(res.Numbers, nd)
	}

	ranking := lottery.RankByCount(current, true)
	res.General = DelayGeneral{
		MeanDelay:   numeric.Mean(all),
		MeanCurrent: numeric.Mean(numeric.Floats(current[1:])),
		MostDelayed: ranking[0],
	}
	if len(all) > 0 {
		_, hi := numeric.MinMax(all)
		res.General.MaxHistorical = int(hi)
	}
	for _, c := range current[1:] {
		if float64(c) > res.General.MeanDelay {
			res.General.HighDelay++
		}
	}
	res.Ranking = ranking[:topN]
	return res, nil
}
