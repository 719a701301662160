package lottery

import (
	"math/big"
)

// TotalCombinations is C(60,6).
const TotalCombinations = 50_063_860

// Binomial returns C(n,k) exactly.
func Binomial(n, k int) *big.Int {
	if k < 0 || n < 0 || k > n {
		return big.NewInt(0)
	}
	return new(big.Int).Binomial(int64(n), int64(k))
}

// BinomialInt is Binomial for results that fit in an int64.
func BinomialInt(n, k int) int64 {
	return Binomial(n, k).Int64()
}

// BinomialFloat is Binomial as a float64, for probability ratios.
func BinomialFloat(n, k int) float64 {
	f, _ := new(big.Float).SetInt(Binomial(n, k)).Float64()
	return f
}

// MatchProbability is the hypergeometric chance that a six-number ticket
// matches exactly k of the six drawn numbers.
func MatchProbability(k int) float64 {
	if k < 0 || k > NumbersPerDraw {
		return 0
	}
	hits := BinomialFloat(NumbersPerDraw, k) * BinomialFloat(TotalNumbers-NumbersPerDraw, NumbersPerDraw-k)
	return hits / BinomialFloat(TotalNumbers, NumbersPerDraw)
}

// BetMatchProbability generalises MatchProbability to a ticket of size
// numbers.
func BetMatchProbability(size, k int) float64 {
	if k < 0 || k > NumbersPerDraw || size < k {
		return 0
	}
	hits := BinomialFloat(size, k) * BinomialFloat(TotalNumbers-size, NumbersPerDraw-k)
	return hits / BinomialFloat(TotalNumbers, NumbersPerDraw)
}

// Overlap counts numbers present in both a and b.
func Overlap(a, b []int) int {
	var in [TotalNumbers + 1]bool
	for _, n := range a {
		if n >= 1 && n <= TotalNumbers {
			in[n] = true
		}
	}
	count := 0
	for _, n := range b {
		if n >= 1 && n <= TotalNumbers && in[n] {
			count++
		}
	}
	return count
}
