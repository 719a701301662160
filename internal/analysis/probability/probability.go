// Package probability holds the combinatorial view of the 6/60 game and the
// comparison of theoretical odds against the draw history.
package probability

import (
	"fmt"

	"github.com/fystack/megasena-analyzer/pkg/lottery"
)

var ErrInsufficientData = lottery.ErrInsufficientData

func TotalCombinations() int64 {
	return lottery.BinomialInt(lottery.TotalNumbers, lottery.NumbersPerDraw)
}

func ProbabilitySpecificCombination() float64 {
	return 1 / float64(TotalCombinations())
}

// TheoreticalNumberProbability is the chance a given number is among the six
// drawn.
func TheoreticalNumberProbability() float64 {
	return float64(lottery.NumbersPerDraw) / float64(lottery.TotalNumbers)
}

type NumberProbability struct {
	Number      int     `json:"number"`
	Frequency   int     `json:"frequency"`
	Theoretical float64 `json:"theoretical"`
	Empirical   float64 `json:"empirical"`
	Difference  float64 `json:"difference"`
}

type NumberProbabilities struct {
	Theoretical   float64             `json:"theoretical"`
	DrawsAnalyzed int                 `json:"draws_analyzed"`
	Numbers       []NumberProbability `json:"numbers,omitempty"`
}

// Numbers compares each number's observed share with 6/60. Without history
// only the theoretical value is set.
func Numbers(history [][]int) NumberProbabilities {
	theoretical := TheoreticalNumberProbability()
	res := NumberProbabilities{Theoretical: theoretical, DrawsAnalyzed: len(history)}
	if len(history) == 0 {
		return res
	}

	freq := lottery.Frequencies(history)
	slots := float64(len(history) * lottery.NumbersPerDraw)
	res.Numbers = make([]NumberProbability, 0, lottery.TotalNumbers)
	for n := 1; n <= lottery.TotalNumbers; n++ {
		empirical := float64(freq[n]) / slots
		res.Numbers = append(res.Numbers, NumberProbability{
			Number:      n,
			Frequency:   freq[n],
			Theoretical: theoretical,
			Empirical:   empirical,
			Difference:  empirical - theoretical,
		})
	}
	return res
}

type Range struct {
	Name string `json:"name"`
	Min  int    `json:"min"`
	Max  int    `json:"max"`
}

var Ranges = []Range{
	{"low", 1, 30},
	{"high", 31, 60},
	{"decade_1", 1, 10},
	{"decade_2", 11, 20},
	{"decade_3", 21, 30},
	{"decade_4", 31, 40},
	{"decade_5", 41, 50},
	{"decade_6", 51, 60},
}

type RangeProbability struct {
	Range
	Size                  int     `json:"size"`
	TheoreticalAtLeastOne float64 `json:"theoretical_at_least_one"`
	EmpiricalAtLeastOne   float64 `json:"empirical_at_least_one"`
	MeanPerDraw           float64 `json:"mean_per_draw"`
	Occurrences           int     `json:"occurrences"`
}

// RangesProbabilities gives, per range, the chance that at least one drawn
// number falls inside it, plus the observed share when history is given.
func RangesProbabilities(history [][]int) []RangeProbability {
	total := lottery.BinomialFloat(lottery.TotalNumbers, lottery.NumbersPerDraw)
	out := make([]RangeProbability, 0, len(Ranges))
	for _, r := range Ranges {
		size := r.Max - r.Min + 1
		none := lottery.BinomialFloat(lottery.TotalNumbers-size, lottery.NumbersPerDraw) / total
		rp := RangeProbability{Range: r, Size: size, TheoreticalAtLeastOne: 1 - none}

		if len(history) > 0 {
			withRange := 0
			for _, draw := range history {
				in := 0
				for _, n := range draw {
					if n >= r.Min && n <= r.Max {
						in++
					}
				}
				if in > 0 {
					withRange++
				}
				rp.Occurrences += in
			}
			rp.EmpiricalAtLeastOne = float64(withRange) / float64(len(history))
			rp.MeanPerDraw = float64(rp.Occurrences) / float64(len(history))
		}
		out = append(out, rp)
	}
	return out
}

type EvenOddProbability struct {
	Even        int     `json:"even"`
	Odd         int     `json:"odd"`
	Theoretical float64 `json:"theoretical"`
	Empirical   float64 `json:"empirical"`
	Occurrences int     `json:"occurrences"`
}

func (e EvenOddProbability) Label() string {
	return fmt.Sprintf("%d even / %d odd", e.Even, e.Odd)
}

// EvenOdd lists the seven even/odd splits. Theoretical values sum to 1.
func EvenOdd(history [][]int) []EvenOddProbability {
	half := lottery.TotalNumbers / 2
	total := lottery.BinomialFloat(lottery.TotalNumbers, lottery.NumbersPerDraw)

	out := make([]EvenOddProbability, lottery.NumbersPerDraw+1)
	for e := 0; e <= lottery.NumbersPerDraw; e++ {
		odd := lottery.NumbersPerDraw - e
		out[e] = EvenOddProbability{
			Even:        e,
			Odd:         odd,
			Theoretical: lottery.BinomialFloat(half, e) * lottery.BinomialFloat(half, odd) / total,
		}
	}
	if len(history) == 0 {
		return out
	}
	for _, draw := range history {
		e := CountEven(draw)
		if e <= lottery.NumbersPerDraw {
			out[e].Occurrences++
		}
	}
	for i := range out {
		out[i].Empirical = float64(out[i].Occurrences) / float64(len(history))
	}
	return out
}

func CountEven(nums []int) int {
	even := 0
	for _, n := range nums {
		if n%2 == 0 {
			even++
		}
	}
	return even
}
