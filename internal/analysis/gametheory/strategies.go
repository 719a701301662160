package gametheory

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/fystack/megasena-analyzer/pkg/lottery"
)

const (
	StrategyMinCorrelation   = "min_correlation"
	StrategyMaxCoverage      = "max_coverage"
	StrategyFrequencyBalance = "frequency_balance"
)

// Strategy is a ticket found by minimizing an objective. Score is the
// objective value, except for max_coverage where it is the number of
// decades covered.
type Strategy struct {
	Name        string  `json:"name"`
	Numbers     []int   `json:"numbers"`
	Score       float64 `json:"score"`
	Description string  `json:"description"`
}

// OptimalSelection searches three tickets: the least correlated numbers,
// the widest decade coverage, and a trade-off between low correlation and
// low frequency.
func (a *Analyzer) OptimalSelection() ([]Strategy, error) {
	minCorr, minCorrScore, err := a.search(42, 200, 30, func(idx []int) float64 {
		mean, _ := a.pairStats(idx)
		return mean
	})
	if err != nil {
		return nil, err
	}
	coverage, coverageScore, err := a.search(43, 100, 15, func(idx []int) float64 {
		var decades [6]bool
		covered := 0
		for _, i := range idx {
			if d := decade(i + 1); !decades[d] {
				decades[d] = true
				covered++
			}
		}
		return -float64(covered)
	})
	if err != nil {
		return nil, err
	}
	balance, balanceScore, err := a.search(44, 100, 15, func(idx []int) float64 {
		mean, _ := a.pairStats(idx)
		return mean + 0.3*a.meanFreqNorm(idx)
	})
	if err != nil {
		return nil, err
	}
	return []Strategy{
		{Name: StrategyMinCorrelation, Numbers: minCorr, Score: minCorrScore, Description: "Numbers with the lowest mutual correlation"},
		{Name: StrategyMaxCoverage, Numbers: coverage, Score: -coverageScore, Description: "Widest coverage of decades"},
		{Name: StrategyFrequencyBalance, Numbers: balance, Score: balanceScore, Description: "Balance between frequency and correlation"},
	}, nil
}

type Player struct {
	Name       string  `json:"name"`
	FreqWeight float64 `json:"freq_weight"`
	CorrWeight float64 `json:"corr_weight"`
}

var Players = []Player{
	{Name: "conservative", FreqWeight: 0.8, CorrWeight: 0.2},
	{Name: "aggressive", FreqWeight: 0.2, CorrWeight: 0.8},
	{Name: "balanced", FreqWeight: 0.5, CorrWeight: 0.5},
}

type NashStrategy struct {
	Player
	Numbers []int   `json:"numbers"`
	Utility float64 `json:"utility"`
}

// NashEquilibrium gives each player the ticket that maximizes its utility
// FreqWeight*mean(normalized frequency) - CorrWeight*mean(|lift|).
func (a *Analyzer) NashEquilibrium() ([]NashStrategy, error) {
	out := make([]NashStrategy, 0, len(Players))
	for _, p := range Players {
		numbers, fun, err := a.search(playerSeed(p.Name), 100, 15, func(idx []int) float64 {
			mean, _ := a.pairStats(idx)
			return -(p.FreqWeight*a.meanFreqNorm(idx) - p.CorrWeight*mean)
		})
		if err != nil {
			return nil, err
		}
		out = append(out, NashStrategy{Player: p, Numbers: numbers, Utility: -fun})
	}
	return out, nil
}

type MinimaxStrategy struct {
	Numbers    []int     `json:"numbers"`
	MaxRisk    float64   `json:"max_risk"`
	RiskScores []float64 `json:"risk_scores"`
}

// RiskScores is |f - mean(f)| / mean(f) per number, index n-1.
func (a *Analyzer) RiskScores() []float64 {
	mean := stat.Mean(a.freq, nil)
	risk := make([]float64, lottery.TotalNumbers)
	for i, f := range a.freq {
		risk[i] = math.Abs(f-mean) / mean
	}
	return risk
}

// Minimax minimizes the worst risk score in the ticket plus half of its
// strongest pair correlation.
func (a *Analyzer) Minimax() (*MinimaxStrategy, error) {
	risk := a.RiskScores()
	numbers, fun, err := a.search(46, 100, 15, func(idx []int) float64 {
		worst := 0.0
		for _, i := range idx {
			worst = math.Max(worst, risk[i])
		}
		_, peak := a.pairStats(idx)
		return worst + 0.5*peak
	})
	if err != nil {
		return nil, err
	}
	scores := make([]float64, len(numbers))
	for i, n := range numbers {
		scores[i] = risk[n-1]
	}
	return &MinimaxStrategy{Numbers: numbers, MaxRisk: fun, RiskScores: scores}, nil
}

func decade(n int) int {
	return min((n-1)/10, 5)
}
