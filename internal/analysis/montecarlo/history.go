package montecarlo

import (
	"slices"

	"github.com/fystack/megasena-analyzer/pkg/lottery"
)

const mostPredictedLimit = 10

type CombinationCheck struct {
	Index   int   `json:"index"`
	Numbers []int `json:"numbers"`
	// AlreadyDrawn is set when some historical draw is fully contained in
	// the ticket, i.e. the ticket would have hit the sena.
	AlreadyDrawn     bool        `json:"already_drawn"`
	DrawnNumbers     []int       `json:"drawn_numbers"`
	NeverDrawn       []int       `json:"never_drawn"`
	Frequencies      map[int]int `json:"frequencies"`
	TotalFrequency   int         `json:"total_frequency"`
	AverageFrequency float64     `json:"average_frequency"`
}

type PredictedNumber struct {
	Number              int  `json:"number"`
	PredictedTimes      int  `json:"predicted_times"`
	HistoricalFrequency int  `json:"historical_frequency"`
	EverDrawn           bool `json:"ever_drawn"`
}

type PredictionSummary struct {
	AlreadyDrawn      int                   `json:"already_drawn"`
	NeverDrawn        int                   `json:"never_drawn"`
	MostPredicted     []lottery.NumberCount `json:"most_predicted"`
	NeverDrawnNumbers []int                 `json:"never_drawn_numbers"`
}

type PredictionCheck struct {
	Total        int                `json:"total"`
	Combinations []CombinationCheck `json:"combinations"`
	Numbers      []PredictedNumber  `json:"numbers"`
	Summary      PredictionSummary  `json:"summary"`
}

// PredictionHistory compares generated tickets with the history.
func PredictionHistory(history [][]int, predictions [][]int) *PredictionCheck {
	freq := lottery.Frequencies(history)
	check := &PredictionCheck{Total: len(predictions)}
	predicted := make([]int, lottery.TotalNumbers+1)

	for i, ticket := range predictions {
		c := CombinationCheck{
			Index:       i + 1,
			Numbers:     slices.Sorted(slices.Values(ticket)),
			Frequencies: make(map[int]int, len(ticket)),
		}
		for _, n := range c.Numbers {
			if n < 1 || n > lottery.TotalNumbers {
				continue
			}
			predicted[n]++
			c.Frequencies[n] = freq[n]
			c.TotalFrequency += freq[n]
			if freq[n] > 0 {
				c.DrawnNumbers = append(c.DrawnNumbers, n)
			} else {
				c.NeverDrawn = append(c.NeverDrawn, n)
			}
		}
		if len(c.Numbers) > 0 {
			c.AverageFrequency = float64(c.TotalFrequency) / float64(len(c.Numbers))
		}
		for _, d := range history {
			if lottery.Overlap(d, c.Numbers) == len(d) {
				c.AlreadyDrawn = true
				break
			}
		}
		if c.AlreadyDrawn {
			check.Summary.AlreadyDrawn++
		} else {
			check.Summary.NeverDrawn++
		}
		check.Combinations = append(check.Combinations, c)
	}

	for n := 1; n <= lottery.TotalNumbers; n++ {
		if predicted[n] == 0 {
			continue
		}
		check.Numbers = append(check.Numbers, PredictedNumber{
			Number:              n,
			PredictedTimes:      predicted[n],
			HistoricalFrequency: freq[n],
			EverDrawn:           freq[n] > 0,
		})
		if freq[n] == 0 {
			check.Summary.NeverDrawnNumbers = append(check.Summary.NeverDrawnNumbers, n)
		}
	}
	for _, nc := range lottery.RankByCount(predicted, true) {
		if nc.Count == 0 || len(check.Summary.MostPredicted) == mostPredictedLimit {
			break
		}
		check.Summary.MostPredicted = append(check.Summary.MostPredicted, nc)
	}
	return check
}
