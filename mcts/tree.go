package mcts

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"

	"github.com/lkingsford/mon2y-go/game"
)

// Tree holds the shared, lock-protected search tree rooted at a single
// initial state, plus the exploration constant every UCB computation in it
// uses (spec.md §4.3).
type Tree[A game.Action] struct {
	root                *Node[A]
	explorationConstant float64
}

// newTree expands the root eagerly, mirroring original_source's
// create_expanded_node(state) at tree construction — the root is never a
// Placeholder.
func newTree[A game.Action](initial game.State[A], explorationConstant float64) (*Tree[A], error) {
	root, err := newExpandedNode[A](initial, nil)
	if err != nil {
		return nil, errors.Wrap(err, "mcts: expanding root")
	}
	return &Tree[A]{root: root, explorationConstant: explorationConstant}, nil
}

// Root exposes the root node, e.g. for the final-move policy or the
// explorer package.
func (t *Tree[A]) Root() *Node[A] { return t.root }

// selectionOutcome is the result of descending the tree once (spec.md §4.3
// "Selection"). When fullyExplored is true, no iteration is possible: the
// caller should stop the search early.
type selectionOutcome[A game.Action] struct {
	fullyExplored bool
	path          []A
	nodes         []*Node[A] // nodes[0] is the root; nodes[i+1] is reached via path[i]
}

// selection descends from the root choosing the highest-UCB child at each
// Expanded node, skipping fully-explored children and backing off to a
// shallower ancestor when every child at the current depth is fully
// explored (spec.md §4.3, mirroring original_source tree.rs's
// result_stack-based pop-and-continue). It stops at the first Placeholder
// it reaches; a terminal Expanded node is fully explored and is therefore
// never chosen.
func (t *Tree[A]) selection(rng *rand.Rand) selectionOutcome[A] {
	if t.root.FullyExplored() {
		return selectionOutcome[A]{fullyExplored: true}
	}

	type frame struct {
		action A
		hasAct bool
		node   *Node[A]
	}
	stack := []frame{{node: t.root}}

	for {
		top := stack[len(stack)-1]
		if !top.node.Expanded() {
			break
		}

		best, ok := top.node.selectChild(t.explorationConstant, rng)
		if !ok {
			if len(stack) == 1 {
				return selectionOutcome[A]{fullyExplored: true}
			}
			stack = stack[:len(stack)-1]
			continue
		}

		child := top.node.Child(best)
		stack = append(stack, frame{action: best, hasAct: true, node: child})
	}

	path := make([]A, 0, len(stack)-1)
	nodes := make([]*Node[A], len(stack))
	for i, f := range stack {
		nodes[i] = f.node
		if f.hasAct {
			path = append(path, f.action)
		}
	}
	return selectionOutcome[A]{path: path, nodes: nodes}
}

// expansion installs Expanded nodes along the selection path wherever a
// Placeholder is still found (spec.md §4.3 "Expansion"). In the common case
// only the deepest node (nodes[len-1]) is a Placeholder; the loop handles
// the general case without assuming that.
func (t *Tree[A]) expansion(outcome selectionOutcome[A]) error {
	for i, action := range outcome.path {
		parent, child := outcome.nodes[i], outcome.nodes[i+1]
		if child.Expanded() {
			continue
		}
		parentState, ok := parent.State()
		if !ok {
			return errors.New("mcts: contract violation: expanding a child of an unexpanded parent")
		}
		if err := child.becomeExpanded(parentState.Apply(action)); err != nil {
			return err
		}
	}
	return nil
}

// playOut runs a uniform-random rollout from state to a terminal state and
// returns its reward vector (spec.md §4.3 "Simulation/Playout"). If state
// is already terminal, no steps are taken.
func (t *Tree[A]) playOut(state game.State[A], rng *rand.Rand) ([]float64, error) {
	cur := state.Clone()
	for !cur.IsTerminal() {
		actor := cur.Actor()
		switch actor.Kind() {
		case game.ActorPlayer:
			actions := cur.LegalActions()
			if len(actions) == 0 {
				return nil, errors.New("mcts: contract violation: non-terminal player state has no legal actions")
			}
			cur = cur.Apply(actions[rng.Intn(len(actions))])

		case game.ActorChance:
			outcomes := actor.Outcomes()
			if len(outcomes) == 0 {
				return nil, errors.New("mcts: contract violation: chance actor has no outcomes")
			}
			cur = cur.Apply(sampleOutcome(outcomes, rng))

		default:
			return nil, errors.Errorf("mcts: contract violation: unknown actor kind %v", actor.Kind())
		}
	}
	return cur.Reward(), nil
}

// backpropagate attributes reward along the path walked during selection
// (spec.md §4.3 "Backpropagation"). Only edges are visited: the root has
// no incoming edge, so its own visit_count is never incremented directly —
// it is, by construction, always the sum of its children's visit counts
// (spec.md §8's invariant). Every other node's reward is attributed from
// its parent's actor: a Player(id) parent credits reward[id] to the child,
// a Chance parent credits nothing (reward passes through the chance node
// uncounted).
func (t *Tree[A]) backpropagate(nodes []*Node[A], reward []float64) error {
	for i := 1; i < len(nodes); i++ {
		parent, child := nodes[i-1], nodes[i]
		parentState, ok := parent.State()
		if !ok {
			return errors.New("mcts: contract violation: backpropagating through an unexpanded node")
		}

		var delta float64
		if actor := parentState.Actor(); actor.Kind() == game.ActorPlayer {
			id := int(actor.PlayerID())
			if id < 0 || id >= len(reward) {
				return errors.Errorf("mcts: contract violation: reward vector has %d entries, player id %d out of range", len(reward), id)
			}
			delta = reward[id]
		}
		child.Visit(delta)
	}
	return nil
}

// iterate runs one full selection/expansion/simulation/backpropagation
// cycle. fullyExplored is true when the tree had nothing left to search
// before this call even began (the caller should stop iterating).
func (t *Tree[A]) iterate(rng *rand.Rand) (fullyExplored bool, err error) {
	outcome := t.selection(rng)
	if outcome.fullyExplored {
		return true, nil
	}

	if err := t.expansion(outcome); err != nil {
		return false, err
	}

	leaf := outcome.nodes[len(outcome.nodes)-1]
	leafState, ok := leaf.State()
	if !ok {
		return false, errors.New("mcts: contract violation: playout from an unexpanded leaf")
	}

	reward, err := t.playOut(leafState, rng)
	if err != nil {
		return false, err
	}

	if err := t.backpropagate(outcome.nodes, reward); err != nil {
		return false, err
	}
	return false, nil
}
