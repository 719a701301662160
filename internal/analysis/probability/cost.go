package probability

import (
	"fmt"
	"sync"

	"github.com/fystack/megasena-analyzer/pkg/lottery"
	"github.com/shopspring/decimal"
)

var DefaultCostPerGame = decimal.NewFromInt(6)

// Reference prize values used for expected-return estimates.
var (
	PrizeSena   = decimal.NewFromInt(30_000_000)
	PrizeQuina  = decimal.NewFromInt(50_000)
	PrizeQuadra = decimal.NewFromInt(1_000)
)

// Pricing holds the configurable price of a simple six-number game.
type Pricing struct {
	mu   sync.RWMutex
	cost decimal.Decimal
}

func NewPricing() *Pricing {
	return &Pricing{cost: DefaultCostPerGame}
}

func (p *Pricing) SetCostPerGame(cost decimal.Decimal) error {
	if !cost.IsPositive() {
		return fmt.Errorf("cost per game must be greater than zero, got %s", cost)
	}
	p.mu.Lock()
	p.cost = cost
	p.mu.Unlock()
	return nil
}

func (p *Pricing) CostPerGame() decimal.Decimal {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cost
}

type GameCost struct {
	Numbers      int             `json:"numbers"`
	Combinations int64           `json:"combinations"`
	CostPerGame  decimal.Decimal `json:"cost_per_game"`
	Total        decimal.Decimal `json:"total"`
	SenaOdds     float64         `json:"sena_odds"`
}

// GameCost prices a bet of n numbers (6..15), which plays C(n,6) simple games.
func (p *Pricing) GameCost(n int) (GameCost, error) {
	if n < lottery.MinBetSize || n > lottery.MaxBetSize {
		return GameCost{}, fmt.Errorf("bet size %d outside [%d,%d]", n, lottery.MinBetSize, lottery.MaxBetSize)
	}
	combos := lottery.BinomialInt(n, lottery.NumbersPerDraw)
	cost := p.CostPerGame()
	return GameCost{
		Numbers:      n,
		Combinations: combos,
		CostPerGame:  cost,
		Total:        cost.Mul(decimal.NewFromInt(combos)),
		SenaOdds:     float64(combos) / float64(TotalCombinations()),
	}, nil
}

// GameCostTable prices every allowed bet size.
func (p *Pricing) GameCostTable() []GameCost {
	out := make([]GameCost, 0, lottery.MaxBetSize-lottery.MinBetSize+1)
	for n := lottery.MinBetSize; n <= lottery.MaxBetSize; n++ {
		gc, _ := p.GameCost(n)
		out = append(out, gc)
	}
	return out
}

type PrizeOdds struct {
	Sena   float64 `json:"sena"`
	Quina  float64 `json:"quina"`
	Quadra float64 `json:"quadra"`
}

type ExpectedReturn struct {
	Sena   decimal.Decimal `json:"sena"`
	Quina  decimal.Decimal `json:"quina"`
	Quadra decimal.Decimal `json:"quadra"`
	Total  decimal.Decimal `json:"total"`
}

type Investment struct {
	Games                int             `json:"games"`
	CostPerGame          decimal.Decimal `json:"cost_per_game"`
	TotalCost            decimal.Decimal `json:"total_cost"`
	Probabilities        PrizeOdds       `json:"probabilities"`
	ExpectedReturn       ExpectedReturn  `json:"expected_return"`
	ROIPercent           float64         `json:"roi_percent"`
	BreakEvenProbability float64         `json:"break_even_probability"`
	GamesForSena         float64         `json:"games_for_sena"`
}

// InvestmentAnalysis estimates the return of playing games simple games at
// cost each. A zero cost falls back to the configured price.
func (p *Pricing) InvestmentAnalysis(games int, cost decimal.Decimal) (*Investment, error) {
	if games <= 0 {
		return nil, fmt.Errorf("number of games must be positive, got %d", games)
	}
	if cost.IsZero() {
		cost = p.CostPerGame()
	}
	if cost.IsNegative() {
		return nil, fmt.Errorf("cost per game must be greater than zero, got %s", cost)
	}

	odds := PrizeOdds{
		Sena:   lottery.MatchProbability(6),
		Quina:  lottery.MatchProbability(5),
		Quadra: lottery.MatchProbability(4),
	}
	g := decimal.NewFromInt(int64(games))
	expected := func(prob float64, prize decimal.Decimal) decimal.Decimal {
		return g.Mul(decimal.NewFromFloat(prob)).Mul(prize).Round(2)
	}
	ret := ExpectedReturn{
		Sena:   expected(odds.Sena, PrizeSena),
		Quina:  expected(odds.Quina, PrizeQuina),
		Quadra: expected(odds.Quadra, PrizeQuadra),
	}
	ret.Total = ret.Sena.Add(ret.Quina).Add(ret.Quadra)

	total := cost.Mul(g)
	roi, _ := ret.Total.Sub(total).Div(total).Mul(decimal.NewFromInt(100)).Float64()
	breakEven, _ := total.Div(PrizeSena).Float64()

	return &Investment{
		Games:                games,
		CostPerGame:          cost,
		TotalCost:            total,
		Probabilities:        odds,
		ExpectedReturn:       ret,
		ROIPercent:           roi,
		BreakEvenProbability: breakEven,
		GamesForSena:         1 / odds.Sena,
	}, nil
}
