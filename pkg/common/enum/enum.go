package enum

type Strategy string

// Monte Carlo ticket strategies.
const (
	StrategyRandom        Strategy = "random"
	StrategyCustom        Strategy = "custom"
	StrategyMostFrequent  Strategy = "most_frequent"
	StrategyLeastFrequent Strategy = "least_frequent"
	StrategyBalanced      Strategy = "balanced"
)

type PredictionMethod string

const (
	MethodWeightedRandom PredictionMethod = "weighted_random"
	MethodHotNumbers     PredictionMethod = "hot_numbers"
	MethodColdNumbers    PredictionMethod = "cold_numbers"
	MethodBalanced       PredictionMethod = "balanced"
	MethodRandom         PredictionMethod = "random"
)

func (m PredictionMethod) Label() string {
	switch m {
	case MethodWeightedRandom:
		return "Weighted random"
	case MethodHotNumbers:
		return "Hot numbers"
	case MethodColdNumbers:
		return "Cold numbers"
	case MethodBalanced:
		return "Balanced"
	default:
		return "Random"
	}
}

type ExportFormat string

const (
	ExportCSV    ExportFormat = "csv"
	ExportJSON   ExportFormat = "json"
	ExportSQLite ExportFormat = "sqlite"
)
