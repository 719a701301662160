package montecarlo

import (
	"cmp"
	"fmt"
	"maps"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/fystack/megasena-analyzer/internal/analysis/descriptive"
	"github.com/fystack/megasena-analyzer/internal/analysis/numeric"
	"github.com/fystack/megasena-analyzer/pkg/lottery"
)

const (
	runsZCritical        = 1.96
	independenceMaxCorr  = 0.1
	pokerMostCommonLimit = 3
)

// AutocorrelationLags are the lags checked over the flattened number series.
var AutocorrelationLags = []int{1, 2, 3, 5, 10}

type RunsTest struct {
	Observed int     `json:"observed"`
	Expected float64 `json:"expected"`
	Variance float64 `json:"variance"`
	Z        float64 `json:"z"`
	PValue   float64 `json:"p_value"`
	Random   bool    `json:"random"`
}

type LagCorrelation struct {
	Lag int     `json:"lag"`
	R   float64 `json:"r"`
}

type AutocorrelationTest struct {
	Lags        []LagCorrelation `json:"lags"`
	Max         float64          `json:"max"`
	Independent bool             `json:"independent"`
}

type GapStats struct {
	Number int     `json:"number"`
	Gaps   []int   `json:"gaps"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Max    int     `json:"max"`
	Min    int     `json:"min"`
}

type GapsTest struct {
	Numbers []GapStats `json:"numbers"`
	Mean    float64    `json:"mean"`
	StdDev  float64    `json:"std_dev"`
	Total   int        `json:"total"`
}

type PokerHand string

const (
	HandAllSame      PokerHand = "all_same"
	HandFive         PokerHand = "five_of_a_kind"
	HandFour         PokerHand = "four_of_a_kind"
	HandTwoTriples   PokerHand = "two_triples"
	HandThree        PokerHand = "three_of_a_kind"
	HandThreePairs   PokerHand = "three_pairs"
	HandPair         PokerHand = "pair"
	HandAllDifferent PokerHand = "all_different"
)

type HandCount struct {
	Hand  PokerHand `json:"hand"`
	Count int       `json:"count"`
}

type PokerTest struct {
	Observed      map[PokerHand]int     `json:"observed"`
	Probabilities map[PokerHand]float64 `json:"probabilities"`
	MostCommon    []HandCount           `json:"most_common"`
}

type Randomness struct {
	Runs            RunsTest            `json:"runs"`
	Autocorrelation AutocorrelationTest `json:"autocorrelation"`
	Gaps            GapsTest            `json:"gaps"`
	Poker           PokerTest           `json:"poker"`
}

func RandomnessTests(history [][]int) (*Randomness, error) {
	if len(history) == 0 {
		return nil, fmt.Errorf("randomness tests: %w", lottery.ErrInsufficientData)
	}
	var series []float64
	for _, d := range history {
		series = append(series, numeric.Floats(d)...)
	}
	gaps, err := gapsTest(history)
	if err != nil {
		return nil, err
	}
	return &Randomness{
		Runs:            runsTest(series),
		Autocorrelation: autocorrelationTest(series),
		Gaps:            gaps,
		Poker:           pokerTest(history),
	}, nil
}

// runsTest counts runs above/below the median of the flattened series and
// compares them with the Wald-Wolfowitz expectation.
func runsTest(series []float64) RunsTest {
	median := numeric.Median(series)
	var n0, n1 float64
	runs := 0
	prev := -1
	for _, v := range series {
		bit := 0
		if v > median {
			bit = 1
			n1++
		} else {
			n0++
		}
		if bit != prev {
			runs++
			prev = bit
		}
	}

	r := RunsTest{Observed: runs, PValue: 1}
	n := n0 + n1
	if n == 0 {
		return r
	}
	r.Expected = 2*n0*n1/n + 1
	if n > 1 {
		r.Variance = 2 * n0 * n1 * (2*n0*n1 - n) / (n * n * (n - 1))
	}
	if r.Variance > 0 {
		r.Z = (float64(runs) - r.Expected) / math.Sqrt(r.Variance)
		r.PValue = 2 * distuv.UnitNormal.Survival(math.Abs(r.Z))
	}
	r.Random = math.Abs(r.Z) < runsZCritical
	return r
}

func autocorrelationTest(series []float64) AutocorrelationTest {
	var a AutocorrelationTest
	for _, lag := range AutocorrelationLags {
		if len(series) <= lag {
			continue
		}
		r := numeric.Pearson(series[:len(series)-lag], series[lag:])
		a.Lags = append(a.Lags, LagCorrelation{Lag: lag, R: r})
		a.Max = math.Max(a.Max, math.Abs(r))
	}
	a.Independent = a.Max < independenceMaxCorr
	return a
}

func gapsTest(history [][]int) (GapsTest, error) {
	delay, err := descriptive.Delay(history)
	if err != nil {
		return GapsTest{}, err
	}
	var (
		g   GapsTest
		all []float64
	)
	for _, nd := range delay.Numbers {
		if len(nd.Gaps) == 0 {
			continue
		}
		g.Numbers = append(g.Numbers, GapStats{
			Number: nd.Number,
			Gaps:   nd.Gaps,
			Mean:   nd.Mean,
			StdDev: nd.StdDev,
			Max:    nd.Max,
			Min:    nd.Min,
		})
		all = append(all, numeric.Floats(nd.Gaps)...)
	}
	g.Mean, g.StdDev = numeric.MeanStd(all)
	g.Total = len(all)
	return g, nil
}

// ClassifyHand groups the last digits of a draw like a poker hand.
func ClassifyHand(draw []int) PokerHand {
	digits := make(map[int]int)
	for _, n := range draw {
		digits[n%10]++
	}
	counts := slices.Sorted(maps.Values(digits))
	slices.Reverse(counts)
	switch {
	case len(counts) == 1:
		return HandAllSame
	case counts[0] == 5:
		return HandFive
	case counts[0] == 4:
		return HandFour
	case len(counts) == 2 && counts[0] == 3 && counts[1] == 3:
		return HandTwoTriples
	case counts[0] == 3:
		return HandThree
	case len(counts) == 3 && counts[0] == 2 && counts[1] == 2 && counts[2] == 2:
		return HandThreePairs
	case counts[0] == 2:
		return HandPair
	default:
		return HandAllDifferent
	}
}

func pokerTest(history [][]int) PokerTest {
	p := PokerTest{
		Observed:      make(map[PokerHand]int),
		Probabilities: make(map[PokerHand]float64),
	}
	for _, d := range history {
		p.Observed[ClassifyHand(d)]++
	}
	for hand, c := range p.Observed {
		p.Probabilities[hand] = float64(c) / float64(len(history))
		p.MostCommon = append(p.MostCommon, HandCount{Hand: hand, Count: c})
	}
	slices.SortFunc(p.MostCommon, func(a, b HandCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Hand, b.Hand)
	})
	p.MostCommon = p.MostCommon[:min(pokerMostCommonLimit, len(p.MostCommon))]
	return p
}
