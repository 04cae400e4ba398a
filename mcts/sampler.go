package mcts

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/lkingsford/mon2y-go/game"
)

// sampleOutcome draws a single chance outcome with probability proportional
// to its weight, by inverse-CDF sampling over the cumulative weight
// distribution (spec.md §4.3 "Simulation", grounded on original_source's
// weighted_random.rs). distuv.Categorical is gonum's implementation of
// exactly that scheme.
func sampleOutcome[A game.Action](outcomes []game.Outcome[A], rng *rand.Rand) A {
	weights := make([]float64, len(outcomes))
	for i, o := range outcomes {
		weights[i] = float64(o.Weight)
	}
	draw := distuv.NewCategorical(weights, rng)
	return outcomes[int(draw.Rand())].Action
}
