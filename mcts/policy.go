package mcts

import (
	"github.com/pkg/errors"

	"github.com/lkingsford/mon2y-go/game"
)

// finalAction applies the configured Policy to the root's children once
// the search budget has been spent (spec.md §4.4). Ties always break by
// child insertion order, since the root's ChildOrder preserves
// LegalActions()/Outcomes() order.
func finalAction[A game.Action](root *Node[A], policy Policy) (A, error) {
	order := root.ChildOrder()
	var zero A
	if len(order) == 0 {
		return zero, errors.New("mcts: contract violation: root has no children to choose from")
	}

	switch policy {
	case MeanValue:
		return meanValueMove(root, order)
	case MostVisits:
		fallthrough
	default:
		if win, ok := winningMove(root, order); ok {
			return win, nil
		}
		return mostVisitsMove(root, order)
	}
}

// winningMove implements the MostVisits short-circuit (spec.md §4.4): if
// any root child's state is terminal and its reward assigns the root
// actor's entry the maximum across the vector, that child is a proven win
// and is returned immediately regardless of visit counts. Scoped to
// MostVisits only — spec.md §4.4 defines MeanValue purely as greatest
// value_sum/visit_count, with no winning-move carve-out. Meaningless (and
// skipped) when the root's actor is Chance, since there is no "current
// player" to favor.
func winningMove[A game.Action](root *Node[A], order []A) (A, bool) {
	var zero A
	rootState, ok := root.State()
	if !ok {
		return zero, false
	}
	actor := rootState.Actor()
	if actor.Kind() != game.ActorPlayer {
		return zero, false
	}
	id := int(actor.PlayerID())

	for _, action := range order {
		child := root.Child(action)
		childState, ok := child.State()
		if !ok || !childState.IsTerminal() {
			continue
		}
		reward := childState.Reward()
		if id >= len(reward) {
			continue
		}
		isMax := true
		for _, r := range reward {
			if r > reward[id] {
				isMax = false
				break
			}
		}
		if isMax {
			return action, true
		}
	}
	return zero, false
}

func mostVisitsMove[A game.Action](root *Node[A], order []A) (A, error) {
	var best A
	bestVisits := int64(-1)
	for _, action := range order {
		visits := int64(root.Child(action).VisitCount())
		if visits > bestVisits {
			bestVisits = visits
			best = action
		}
	}
	return best, nil
}

func meanValueMove[A game.Action](root *Node[A], order []A) (A, error) {
	var best A
	found := false
	bestMean := 0.0
	for _, action := range order {
		child := root.Child(action)
		visits := child.VisitCount()
		if visits == 0 {
			continue
		}
		mean := child.ValueSum() / float64(visits)
		if !found || mean > bestMean {
			bestMean = mean
			best = action
			found = true
		}
	}
	if !found {
		// No child was ever visited (e.g. a single search iteration that
		// hit the fully-explored short-circuit). Fall back to insertion
		// order's first entry, matching MostVisits' own tie-break base
		// case.
		return order[0], nil
	}
	return best, nil
}
