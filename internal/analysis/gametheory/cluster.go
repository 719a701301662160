package gametheory

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/fystack/megasena-analyzer/internal/analysis/optimize"
	"github.com/fystack/megasena-analyzer/pkg/lottery"
)

const (
	clusterSeed     = 42
	clusterRestarts = 10
	maxClusters     = 6
)

type Cluster struct {
	ID       int     `json:"cluster"`
	Numbers  []int   `json:"numbers"`
	Selected int     `json:"selected"`
	Score    float64 `json:"score"`
}

type ClusterStrategy struct {
	Numbers  []int     `json:"numbers"`
	Clusters []Cluster `json:"clusters"`
	K        int       `json:"n_clusters"`
}

// ClusterStrategy groups the numbers by standardized frequency and total
// co-occurrence with k-means and picks from each cluster the number with the
// best 0.6*frequency + 0.4*co-occurrence score. Remaining slots take the most
// frequent unused numbers. k <= 0 uses min(target, 6).
func (a *Analyzer) ClusterStrategy(k int) (*ClusterStrategy, error) {
	if k <= 0 {
		k = min(a.target, maxClusters)
	}
	if k > lottery.TotalNumbers {
		return nil, fmt.Errorf("%w: %d clusters for %d numbers", optimize.ErrInvalidClusters, k, lottery.TotalNumbers)
	}

	features := make([][]float64, lottery.TotalNumbers)
	for i := range features {
		features[i] = []float64{a.freq[i], floats.Sum(a.cooc[i])}
	}
	res, err := optimize.KMeans(optimize.Standardize(features), k, clusterSeed, clusterRestarts)
	if err != nil {
		return nil, err
	}

	maxFreq := floats.Max(a.freq)
	out := &ClusterStrategy{K: k}
	picked := make([]int, 0, a.target)
	for c := range k {
		var members []int
		maxCooc := 0.0
		for i, l := range res.Labels {
			if l == c {
				members = append(members, i+1)
				maxCooc = max(maxCooc, features[i][1])
			}
		}
		if len(members) == 0 {
			continue
		}
		best, bestScore := members[0], -1.0
		for _, n := range members {
			score := 0.6 * features[n-1][0] / maxFreq
			if maxCooc > 0 {
				score += 0.4 * features[n-1][1] / maxCooc
			}
			if score > bestScore {
				best, bestScore = n, score
			}
		}
		picked = append(picked, best)
		out.Clusters = append(out.Clusters, Cluster{ID: c, Numbers: members, Selected: best, Score: bestScore})
	}

	for _, nc := range lottery.RankByCount(a.counts(), true) {
		if len(picked) >= a.target {
			break
		}
		if !slices.Contains(picked, nc.Number) {
			picked = append(picked, nc.Number)
		}
	}
	picked = picked[:min(len(picked), a.target)]
	slices.Sort(picked)
	out.Numbers = picked
	return out, nil
}

// counts is the frequency table in the 1-based layout of lottery.Frequencies.
func (a *Analyzer) counts() []int {
	out := make([]int, lottery.TotalNumbers+1)
	for i, f := range a.freq {
		out[i+1] = int(f)
	}
	return out
}
