package lottery

import (
	"cmp"
	"slices"
)

// Frequencies counts appearances per number. Index 0 is unused.
func Frequencies(draws [][]int) []int {
	freq := make([]int, TotalNumbers+1)
	for _, d := range draws {
		for _, n := range d {
			if n >= 1 && n <= TotalNumbers {
				freq[n]++
			}
		}
	}
	return freq
}

// CurrentDelays returns, per number, how many draws passed since it last
// appeared. Numbers never drawn get len(draws).
func CurrentDelays(draws [][]int) []int {
	delay := make([]int, TotalNumbers+1)
	for n := 1; n <= TotalNumbers; n++ {
		delay[n] = len(draws)
	}
	for i := len(draws) - 1; i >= 0; i-- {
		age := len(draws) - 1 - i
		for _, n := range draws[i] {
			if n >= 1 && n <= TotalNumbers && delay[n] == len(draws) {
				delay[n] = age
			}
		}
	}
	return delay
}

type NumberCount struct {
	Number int `json:"number"`
	Count  int `json:"count"`
}

// RankByCount orders numbers 1..60 by counts[n], descending when desc is set.
// Ties keep the lower number first.
func RankByCount(counts []int, desc bool) []NumberCount {
	out := make([]NumberCount, 0, TotalNumbers)
	for n := 1; n <= TotalNumbers && n < len(counts); n++ {
		out = append(out, NumberCount{Number: n, Count: counts[n]})
	}
	slices.SortStableFunc(out, func(a, b NumberCount) int {
		if desc {
			return cmp.Compare(b.Count, a.Count)
		}
		return cmp.Compare(a.Count, b.Count)
	})
	return out
}

// TopNumbers returns the first k numbers of RankByCount.
func TopNumbers(counts []int, k int, desc bool) []int {
	ranked := RankByCount(counts, desc)
	k = min(k, len(ranked))
	out := make([]int, k)
	for i := range k {
		out[i] = ranked[i].Number
	}
	return out
}
