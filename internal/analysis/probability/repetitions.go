package probability

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/fystack/megasena-analyzer/pkg/lottery"
	"github.com/samber/lo"
)

var RepetitionIntervals = []int{2, 3, 5, 10}

type OverlapStats struct {
	Interval     int         `json:"interval"`
	Mean         float64     `json:"mean"`
	Max          int         `json:"max"`
	Min          int         `json:"min"`
	Distribution map[int]int `json:"distribution"`
}

type RepeatedCombination struct {
	Numbers []int `json:"numbers"`
	Count   int   `json:"count"`
}

type Repetitions struct {
	Consecutive          []int                 `json:"consecutive"`
	ConsecutiveStats     OverlapStats          `json:"consecutive_stats"`
	Intervals            []OverlapStats        `json:"intervals"`
	MostRepeated         []lottery.NumberCount `json:"most_repeated"`
	UniqueCombinations   int                   `json:"unique_combinations"`
	RepeatedCombinations []RepeatedCombination `json:"repeated_combinations"`
}

// AnalyzeRepetitions measures how many numbers a draw shares with the next
// one and with the draws 2, 3, 5 and 10 positions later.
func AnalyzeRepetitions(history [][]int) (*Repetitions, error) {
	if len(history) < 2 {
		return nil, fmt.Errorf("repetitions need at least 2 draws, got %d: %w", len(history), ErrInsufficientData)
	}

	res := &Repetitions{}
	repeatedCounts := make([]int, lottery.TotalNumbers+1)
	res.Consecutive = make([]int, 0, len(history)-1)
	for i := 0; i+1 < len(history); i++ {
		shared := lo.Intersect(history[i], history[i+1])
		res.Consecutive = append(res.Consecutive, len(shared))
		for _, n := range shared {
			repeatedCounts[n]++
		}
	}
	res.ConsecutiveStats = overlapStats(1, res.Consecutive)

	for _, interval := range RepetitionIntervals {
		overlaps := make([]int, 0, max(len(history)-interval, 0))
		for i := 0; i+interval < len(history); i++ {
			overlaps = append(overlaps, lottery.Overlap(history[i], history[i+interval]))
		}
		res.Intervals = append(res.Intervals, overlapStats(interval, overlaps))
	}

	res.MostRepeated = lo.Filter(lottery.RankByCount(repeatedCounts, true)[:10], func(nc lottery.NumberCount, _ int) bool {
		return nc.Count > 0
	})

	combos := make(map[string]int, len(history))
	for _, draw := range history {
		combos[comboKey(draw)]++
	}
	res.UniqueCombinations = len(combos)
	for key, count := range combos {
		if count > 1 {
			res.RepeatedCombinations = append(res.RepeatedCombinations, RepeatedCombination{
				Numbers: parseComboKey(key),
				Count:   count,
			})
		}
	}
	slices.SortFunc(res.RepeatedCombinations, func(a, b RepeatedCombination) int {
		return slices.Compare(a.Numbers, b.Numbers)
	})
	return res, nil
}

func overlapStats(interval int, overlaps []int) OverlapStats {
	st := OverlapStats{Interval: interval, Distribution: map[int]int{}}
	if len(overlaps) == 0 {
		return st
	}
	st.Min, st.Max = slices.Min(overlaps), slices.Max(overlaps)
	st.Mean = float64(lo.Sum(overlaps)) / float64(len(overlaps))
	for _, o := range overlaps {
		st.Distribution[o]++
	}
	return st
}

func comboKey(nums []int) string {
	sorted := slices.Clone(nums)
	slices.Sort(sorted)
	return strings.Join(lo.Map(sorted, func(n int, _ int) string { return strconv.Itoa(n) }), "-")
}

func parseComboKey(key string) []int {
	return lo.Map(strings.Split(key, "-"), func(s string, _ int) int {
		n, _ := strconv.Atoi(s)
		return n
	})
}
