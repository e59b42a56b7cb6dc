package learn

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"
	"slices"

	"github.com/huangsam/greenscore/core/predict"
	"github.com/huangsam/greenscore/schema"
	"golang.org/x/sync/errgroup"
)

// ForestVersion is the serialization version of a Forest.
const ForestVersion = 1

// ErrEmptyForest is returned when predicting with a forest that has no trees.
var ErrEmptyForest = errors.New("forest has no trees")

// ForestConfig controls how a random forest is grown.
type ForestConfig struct {
	Trees           int
	MaxDepth        int
	MinSamplesSplit int
	Seed            uint64
	Workers         int
}

// DefaultForestConfig is 100 trees of depth at most 10, seeded with 42.
var DefaultForestConfig = ForestConfig{
	Trees:           100,
	MaxDepth:        10,
	MinSamplesSplit: 2,
	Seed:            42,
	Workers:         runtime.GOMAXPROCS(0),
}

// Node is one node of a regression tree. Leaves have Left == -1.
type Node struct {
	Feature   int     `json:"f"`
	Threshold float64 `json:"t"`
	Left      int     `json:"l"`
	Right     int     `json:"r"`
	Value     float64 `json:"v"`
}

// Tree is a regression tree stored as a flat node list rooted at index 0.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

func (t Tree) predict(vec schema.FeatureVector) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Left < 0 {
			return n.Value
		}
		if vec[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// Forest is a bagged ensemble of regression trees.
type Forest struct {
	Version  int    `json:"version"`
	Features int    `json:"features"`
	Trees    []Tree `json:"trees"`
}

var _ predict.MetricRegressor = &Forest{} // Compile-time check

// Predict implements predict.MetricRegressor as the mean of the tree outputs.
func (f *Forest) Predict(vec schema.FeatureVector) (float64, error) {
	if len(f.Trees) == 0 {
		return 0, ErrEmptyForest
	}
	sum := 0.0
	for _, t := range f.Trees {
		sum += t.predict(vec)
	}
	return sum / float64(len(f.Trees)), nil
}

// Dimensions implements predict.MetricRegressor.
func (f *Forest) Dimensions() int {
	return f.Features
}

// validate checks that every node reference stays inside its tree.
func (f *Forest) validate() error {
	for ti, t := range f.Trees {
		if len(t.Nodes) == 0 {
			return fmt.Errorf("tree %d has no nodes", ti)
		}
		for ni, n := range t.Nodes {
			if n.Left < 0 {
				continue
			}
			if n.Left <= ni || n.Right <= ni || n.Left >= len(t.Nodes) || n.Right >= len(t.Nodes) {
				return fmt.Errorf("tree %d node %d has invalid children", ti, ni)
			}
			if n.Feature < 0 || n.Feature >= schema.FeatureLen {
				return fmt.Errorf("tree %d node %d splits on invalid feature %d", ti, ni, n.Feature)
			}
		}
	}
	return nil
}

// FitForest grows a random forest on bootstrap samples of x and y. Trees are
// grown concurrently; tree i draws from its own generator so the result does
// not depend on scheduling.
func FitForest(ctx context.Context, x []schema.FeatureVector, y []float64, cfg ForestConfig) (*Forest, error) {
	if len(x) == 0 || len(x) != len(y) {
		return nil, fmt.Errorf("cannot fit forest on %d samples and %d targets", len(x), len(y))
	}
	if cfg.Trees <= 0 {
		return nil, fmt.Errorf("forest needs at least one tree (received %d)", cfg.Trees)
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	trees := make([]Tree, cfg.Trees)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range trees {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewPCG(cfg.Seed, uint64(i)))
			idx := make([]int, len(x))
			for j := range idx {
				idx[j] = rng.IntN(len(x))
			}
			b := &treeBuilder{x: x, y: y, maxDepth: cfg.MaxDepth, minSplit: max(cfg.MinSamplesSplit, 2)}
			b.grow(idx, 0)
			trees[i] = Tree{Nodes: b.nodes}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Forest{Version: ForestVersion, Features: schema.FeatureLen, Trees: trees}, nil
}

// treeBuilder grows one tree by greedy variance reduction.
type treeBuilder struct {
	x        []schema.FeatureVector
	y        []float64
	maxDepth int
	minSplit int
	nodes    []Node
}

func (b *treeBuilder) grow(idx []int, depth int) int {
	id := len(b.nodes)
	b.nodes = append(b.nodes, Node{Left: -1, Right: -1, Value: b.mean(idx)})
	if depth >= b.maxDepth || len(idx) < b.minSplit {
		return id
	}
	feature, threshold, ok := b.bestSplit(idx)
	if !ok {
		return id
	}

	var left, right []int
	for _, i := range idx {
		if b.x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)
	b.nodes[id].Feature = feature
	b.nodes[id].Threshold = threshold
	b.nodes[id].Left = l
	b.nodes[id].Right = r
	return id
}

func (b *treeBuilder) mean(idx []int) float64 {
	sum := 0.0
	for _, i := range idx {
		sum += b.y[i]
	}
	return sum / float64(len(idx))
}

// bestSplit finds the feature and threshold with the lowest summed squared
// error of the two children. It reports false when no split improves on the parent.
func (b *treeBuilder) bestSplit(idx []int) (feature int, threshold float64, ok bool) {
	n := float64(len(idx))
	var total, totalSq float64
	for _, i := range idx {
		total += b.y[i]
		totalSq += b.y[i] * b.y[i]
	}
	best := totalSq - total*total/n - 1e-12

	sorted := slices.Clone(idx)
	for f := range schema.FeatureLen {
		slices.SortFunc(sorted, func(a, c int) int {
			switch {
			case b.x[a][f] < b.x[c][f]:
				return -1
			case b.x[a][f] > b.x[c][f]:
				return 1
			default:
				return 0
			}
		})
		var leftSum, leftSq float64
		for k := 1; k < len(sorted); k++ {
			prev := sorted[k-1]
			leftSum += b.y[prev]
			leftSq += b.y[prev] * b.y[prev]
			lo, hi := b.x[prev][f], b.x[sorted[k]][f]
			if lo == hi {
				continue
			}
			nl, nr := float64(k), n-float64(k)
			rightSum, rightSq := total-leftSum, totalSq-leftSq
			sse := leftSq - leftSum*leftSum/nl + rightSq - rightSum*rightSum/nr
			if sse < best {
				best, feature, threshold, ok = sse, f, (lo+hi)/2, true
			}
		}
	}
	return feature, threshold, ok
}
