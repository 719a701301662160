package gametheory

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/fystack/megasena-analyzer/internal/analysis/probability"
	"github.com/fystack/megasena-analyzer/pkg/lottery"
)

const insightPairs = 5

type PairCorrelation struct {
	Pair        [2]int  `json:"pair"`
	Correlation float64 `json:"correlation"`
}

type CorrelationInsights struct {
	MostNegative []PairCorrelation `json:"most_negatively_correlated"`
	MostPositive []PairCorrelation `json:"most_positively_correlated"`
	Mean         float64           `json:"average_correlation"`
	StdDev       float64           `json:"correlation_std"`
}

// CorrelationInsights ranks the 1770 pairs by lift. MostPositive is ordered
// strongest first.
func (a *Analyzer) CorrelationInsights() CorrelationInsights {
	pairs := make([]PairCorrelation, 0, lottery.TotalNumbers*(lottery.TotalNumbers-1)/2)
	values := make([]float64, 0, cap(pairs))
	for i := range lottery.TotalNumbers {
		for j := i + 1; j < lottery.TotalNumbers; j++ {
			pairs = append(pairs, PairCorrelation{Pair: [2]int{i + 1, j + 1}, Correlation: a.lift[i][j]})
			values = append(values, a.lift[i][j])
		}
	}
	slices.SortStableFunc(pairs, func(x, y PairCorrelation) int {
		return cmp.Compare(x.Correlation, y.Correlation)
	})
	mean, std := stat.PopMeanStdDev(values, nil)
	positive := slices.Clone(pairs[len(pairs)-insightPairs:])
	slices.Reverse(positive)
	return CorrelationInsights{
		MostNegative: slices.Clone(pairs[:insightPairs]),
		MostPositive: positive,
		Mean:         mean,
		StdDev:       std,
	}
}

// NamedTicket is one candidate ticket in a strategy comparison.
type NamedTicket struct {
	Name    string `json:"name"`
	Numbers []int  `json:"numbers"`
}

// Candidates lists the tickets of every strategy in a fixed order: optimal
// strategies, Nash players, minimax, the best portfolio and the clusters.
func Candidates(optimal []Strategy, nash []NashStrategy, minimax *MinimaxStrategy, portfolios []Portfolio, cluster *ClusterStrategy) []NamedTicket {
	var out []NamedTicket
	for _, s := range optimal {
		out = append(out, NamedTicket{Name: "optimal_" + s.Name, Numbers: s.Numbers})
	}
	for _, s := range nash {
		out = append(out, NamedTicket{Name: "nash_" + s.Name, Numbers: s.Numbers})
	}
	if minimax != nil {
		out = append(out, NamedTicket{Name: "minimax", Numbers: minimax.Numbers})
	}
	if len(portfolios) > 0 {
		out = append(out, NamedTicket{Name: "portfolio_best", Numbers: portfolios[0].Numbers})
	}
	if cluster != nil {
		out = append(out, NamedTicket{Name: "cluster", Numbers: cluster.Numbers})
	}
	return out
}

type Diversity struct {
	A         string `json:"a"`
	B         string `json:"b"`
	Common    int    `json:"common_numbers"`
	Diversity int    `json:"diversity_score"`
}

type Comparison struct {
	Strategies     []NamedTicket   `json:"strategies"`
	Diversity      []Diversity     `json:"diversity_analysis"`
	UniqueNumbers  int             `json:"total_unique_numbers"`
	Recommendation *Recommendation `json:"recommendation,omitempty"`
}

// CompareStrategies measures the overlap of every pair of tickets. Diversity
// is the ticket size minus the numbers in common.
func (a *Analyzer) CompareStrategies(tickets []NamedTicket) Comparison {
	cmpRes := Comparison{Strategies: tickets}
	for i := range tickets {
		for j := i + 1; j < len(tickets); j++ {
			common := lottery.Overlap(tickets[i].Numbers, tickets[j].Numbers)
			cmpRes.Diversity = append(cmpRes.Diversity, Diversity{
				A:         tickets[i].Name,
				B:         tickets[j].Name,
				Common:    common,
				Diversity: a.target - common,
			})
		}
	}
	all := lo.FlatMap(tickets, func(t NamedTicket, _ int) []int { return t.Numbers })
	cmpRes.UniqueNumbers = len(lo.Uniq(all))
	if rec, err := a.Recommendation(tickets); err == nil {
		cmpRes.Recommendation = rec
	}
	return cmpRes
}

type Recommendation struct {
	Strategy  string             `json:"recommended_strategy"`
	Numbers   []int              `json:"recommended_numbers"`
	Score     float64            `json:"score"`
	MaxScore  float64            `json:"max_score"`
	AllScores map[string]float64 `json:"all_scores"`
	Reasoning string             `json:"reasoning"`
}

// Recommendation scores every ticket on decade spread, parity and sum and
// returns the best. The first ticket wins a tie.
func (a *Analyzer) Recommendation(tickets []NamedTicket) (*Recommendation, error) {
	if len(tickets) == 0 {
		return nil, fmt.Errorf("recommendation: no strategies to compare")
	}
	rec := &Recommendation{
		MaxScore:  MaxScore(a.target),
		AllScores: make(map[string]float64, len(tickets)),
		Reasoning: fmt.Sprintf("Based on decade spread, parity and sum for %d numbers", a.target),
	}
	best := -1.0
	for _, t := range tickets {
		s := TicketScore(t.Numbers, a.target)
		rec.AllScores[t.Name] = s
		if s > best {
			best = s
			rec.Strategy, rec.Numbers, rec.Score = t.Name, t.Numbers, s
		}
	}
	return rec, nil
}

// MaxScore is the best TicketScore for a ticket of target numbers.
func MaxScore(target int) float64 {
	return float64(min(6, target) + target + 5)
}

// TicketScore adds three criteria:
//   - decades: min(6, target) minus the largest count in one decade
//   - parity: target minus the distance of the even count from target/2
//   - sum: 5 within target*10 of target*30, decaying linearly past that
func TicketScore(numbers []int, target int) float64 {
	var decades [6]int
	for _, n := range numbers {
		decades[decade(n)]++
	}
	score := math.Max(0, float64(min(6, target)-slices.Max(decades[:])))

	even := probability.CountEven(numbers)
	score += math.Max(0, float64(target-abs(even-target/2)))

	sum := lo.Sum(numbers)
	ideal, tolerance := float64(target*30), float64(target*10)
	diff := math.Abs(float64(sum) - ideal)
	if diff <= tolerance {
		score += 5
	} else {
		score += math.Max(0, 5-diff/tolerance)
	}
	return score
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
