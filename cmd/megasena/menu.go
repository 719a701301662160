package main

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/fystack/megasena-analyzer/pkg/common/enum"
	"github.com/fystack/megasena-analyzer/pkg/lottery"
)

var (
	simulationChoices = map[string]int{"1": 10_000, "2": 100_000, "3": 1_000_000}
	strategyChoices   = map[string]enum.Strategy{
		"1": enum.StrategyRandom,
		"2": enum.StrategyMostFrequent,
		"3": enum.StrategyLeastFrequent,
		"4": enum.StrategyBalanced,
	}
	methodChoices = map[string]enum.PredictionMethod{
		"1": enum.MethodWeightedRandom,
		"2": enum.MethodHotNumbers,
		"3": enum.MethodColdNumbers,
		"4": enum.MethodBalanced,
	}
)

type prompter struct {
	a  *app
	sc *bufio.Scanner
}

// ask prints the question and returns the trimmed answer. io.EOF means the
// input is closed.
func (p *prompter) ask(question string) (string, error) {
	p.a.printf("%s", question)
	if !p.sc.Scan() {
		if err := p.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.sc.Text()), nil
}

// askTarget loops until a bet size in 6..15 is given.
func (p *prompter) askTarget(question string) (int, error) {
	for {
		s, err := p.ask(question)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(s)
		if err == nil && n >= lottery.MinBetSize && n <= lottery.MaxBetSize {
			return n, nil
		}
		p.a.colored(colorRed, "❌ Enter a value between %d and %d", lottery.MinBetSize, lottery.MaxBetSize)
	}
}

func (a *app) printMenu() {
	a.header("MEGA-SENA ANALYZER")
	a.println("📊 MAIN MENU:")
	a.println("1. 📥 Update historical data")
	a.println("2. 📈 Probability analysis")
	a.println("3. 📊 Descriptive statistics")
	a.println("4. 🎯 Advanced probabilistic analysis")
	a.println("5. 🔮 Generate predictions")
	a.println("6. 🕒 Time series analysis")
	a.println("7. 🎲 Game theory and strategies")
	a.println("8. 📝 Complete report")
	a.println("9. ℹ️  Data information")
	a.println("10. 💰 Configure game price")
	a.println("0. 🚪 Exit")
	a.println()
}

func (a *app) runMenu(ctx context.Context, in io.Reader) error {
	p := &prompter{a: a, sc: bufio.NewScanner(in)}
	for {
		if ctx.Err() != nil {
			a.colored(colorYellow, "\n👋 Interrupted")
			return nil
		}
		a.printMenu()
		choice, err := p.ask("🎯 Choose an option: ")
		if errors.Is(err, io.EOF) || choice == "0" {
			a.colored(colorGreen, "\n👋 Thanks for using the Mega-Sena analyzer!")
			return nil
		}
		if err != nil {
			return err
		}

		if err := a.runChoice(ctx, p, choice); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			a.colored(colorRed, "❌ %v", err)
		}
		if _, err := p.ask("\n⏸️ Press ENTER to continue..."); err != nil {
			return nil
		}
	}
}

func (a *app) runChoice(ctx context.Context, p *prompter, choice string) error {
	switch choice {
	case "1":
		return a.sync(ctx)
	case "2":
		return a.probability()
	case "3":
		return a.stats()
	case "4":
		return a.menuAdvanced(ctx, p)
	case "5":
		return a.menuPredict(p)
	case "6":
		return a.timeSeries()
	case "7":
		target, err := p.askTarget("🎯 How many numbers would you like to play? (6-15): ")
		if err != nil {
			return err
		}
		return a.gameTheory(ctx, target, a.cfg.Simulation.Seed)
	case "8":
		return a.completeReport(ctx, 0)
	case "9":
		return a.info()
	case "10":
		input, err := p.ask("💸 New game price (ENTER keeps the current one): R$ ")
		if err != nil {
			return err
		}
		return a.configureCost(input)
	}
	a.colored(colorRed, "❌ Invalid option, try again")
	return nil
}

func (a *app) menuAdvanced(ctx context.Context, p *prompter) error {
	a.println("🎲 MONTE CARLO SIMULATION:")
	a.println("1. 10,000 (fast)")
	a.println("2. 100,000 (moderate)")
	a.println("3. 1,000,000 (slow, more precise)")
	choice, err := p.ask("Option (1-3): ")
	if err != nil {
		return err
	}
	a.println("Strategies:")
	a.println("1. Random")
	a.println("2. Most frequent numbers")
	a.println("3. Least frequent numbers")
	a.println("4. Balanced")
	strategy, err := p.ask("Strategy (1-4): ")
	if err != nil {
		return err
	}

	opts := advancedOptions{
		simulations: simulationChoices["1"],
		strategy:    enum.StrategyRandom,
		seed:        a.cfg.Simulation.Seed,
	}
	if n, ok := simulationChoices[choice]; ok {
		opts.simulations = n
	}
	if s, ok := strategyChoices[strategy]; ok {
		opts.strategy = s
	}
	return a.advanced(ctx, opts)
}

func (a *app) menuPredict(p *prompter) error {
	target, err := p.askTarget("🎯 How many numbers per ticket? (6-15): ")
	if err != nil {
		return err
	}
	a.println("🔮 PREDICTION METHODS:")
	a.println("1. 🎲 Weighted random (by frequency)")
	a.println("2. 🔥 Hot numbers (most frequent recently)")
	a.println("3. ❄️ Cold numbers (longest delay)")
	a.println("4. ⚖️ Balanced (mix of strategies)")
	method, err := p.ask("Method (1-4): ")
	if err != nil {
		return err
	}
	count, err := p.ask("How many tickets (1-10)? ")
	if err != nil {
		return err
	}

	opts := predictOptions{method: enum.MethodBalanced, count: 5, target: target, seed: a.cfg.Simulation.Seed}
	if m, ok := methodChoices[method]; ok {
		opts.method = m
	}
	if n, err := strconv.Atoi(count); err == nil {
		opts.count = n
	}
	return a.predict(opts)
}
