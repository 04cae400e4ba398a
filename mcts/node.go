package mcts

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"

	"github.com/lkingsford/mon2y-go/game"
)

// Node is the tagged union described in spec.md §3: a Placeholder (an
// unexplored child slot, carrying at most a chance weight) that transitions
// exactly once into an Expanded node (holding the game state, its children
// and accumulated statistics).
//
// A Node's identity never changes once allocated: expansion mutates a
// Placeholder's fields in place rather than replacing the slot, so every
// *Node captured during selection stays valid for the backpropagation pass
// that follows (spec.md §3 invariant 2).
type Node[A game.Action] struct {
	mu sync.RWMutex

	// weight is nil for non-chance slots, and the chance outcome's weight
	// otherwise. Set once at allocation time and never mutated.
	weight *uint32

	// The following fields are only meaningful once expanded is true; they
	// are guarded by mu because expansion populates them exactly once.
	expanded bool
	state    game.State[A]
	children map[A]*Node[A]
	order    []A // children in state.LegalActions()/Outcomes() order
	isChance bool

	// visitCount and valueSum are updated only during backpropagation
	// (spec.md §3 invariant 3), guarded by mu.
	visitCount uint32
	valueSum   float64

	// fullyExplored memoizes a *true* fully-explored result. False is never
	// cached (a node can only transition not-fully-explored -> fully
	// explored, never back), so recomputation is needed only until the
	// first true result, at which point it is permanent. This is the
	// "recomputation lazily checks children" alternative spec.md §3
	// invariant 4 explicitly permits in place of active invalidation.
	fullyExplored atomic.Bool

	ucb ucbCache
}

// ucbCache holds the most recently computed UCB for a node together with
// the statistics snapshot it was computed from (spec.md §4.2). Both read
// and write are try-acquire: under contention, callers simply recompute
// rather than blocking (spec.md §4.2, §5).
type ucbCache struct {
	mu           sync.Mutex
	valid        bool
	ucb          float64
	valueSum     float64
	visitCount   uint32
	parentVisits uint32
}

func (c *ucbCache) get(valueSum float64, visitCount, parentVisits uint32) (float64, bool) {
	if !c.mu.TryLock() {
		return 0, false
	}
	defer c.mu.Unlock()
	if c.valid && c.valueSum == valueSum && c.visitCount == visitCount && c.parentVisits == parentVisits {
		return c.ucb, true
	}
	return 0, false
}

func (c *ucbCache) put(ucb, valueSum float64, visitCount, parentVisits uint32) {
	if !c.mu.TryLock() {
		return
	}
	defer c.mu.Unlock()
	c.valid = true
	c.ucb = ucb
	c.valueSum = valueSum
	c.visitCount = visitCount
	c.parentVisits = parentVisits
}

// newPlaceholder creates an unexplored child slot. weight is nil unless the
// slot is a chance outcome.
func newPlaceholder[A game.Action](weight *uint32) *Node[A] {
	return &Node[A]{weight: weight}
}

// newExpandedNode builds a fully Expanded node from state, per spec.md
// §4.2 "Creation of an Expanded node from a state s". weight carries over
// any chance weight the slot had as a Placeholder.
func newExpandedNode[A game.Action](state game.State[A], weight *uint32) (*Node[A], error) {
	n := &Node[A]{weight: weight}
	if err := n.becomeExpanded(state); err != nil {
		return nil, err
	}
	return n, nil
}

// becomeExpanded is the in-place Placeholder -> Expanded transition (spec.md
// §4.2 "Expansion of a Placeholder"). It is idempotent: if another goroutine
// already won the race to expand this slot, this call is a silent no-op and
// the caller proceeds with whatever that goroutine installed.
func (n *Node[A]) becomeExpanded(state game.State[A]) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.expanded {
		return nil
	}

	children, order, isChance, err := buildChildren[A](state)
	if err != nil {
		return err
	}

	n.state = state
	n.children = children
	n.order = order
	n.isChance = isChance
	n.expanded = true
	return nil
}

// buildChildren enumerates one Placeholder child per legal action (Player
// actor) or per weighted outcome (Chance actor), per spec.md §4.2.
func buildChildren[A game.Action](state game.State[A]) (map[A]*Node[A], []A, bool, error) {
	terminal := state.IsTerminal()
	actor := state.Actor()

	switch actor.Kind() {
	case game.ActorPlayer:
		actions := state.LegalActions()
		if len(actions) == 0 && !terminal {
			return nil, nil, false, errors.New("mcts: contract violation: non-terminal player state reports no legal actions")
		}
		children := make(map[A]*Node[A], len(actions))
		order := make([]A, 0, len(actions))
		seen := make(map[A]struct{}, len(actions))
		for _, a := range actions {
			if _, dup := seen[a]; dup {
				return nil, nil, false, errors.Errorf("mcts: contract violation: duplicate legal action %v", a)
			}
			seen[a] = struct{}{}
			children[a] = newPlaceholder[A](nil)
			order = append(order, a)
		}
		return children, order, false, nil

	case game.ActorChance:
		// Outcomes is never empty and never carries a zero weight here:
		// game.Chance already enforces both at construction time, before
		// this state's Actor() could have returned it.
		outcomes := actor.Outcomes()
		children := make(map[A]*Node[A], len(outcomes))
		order := make([]A, 0, len(outcomes))
		seen := make(map[A]struct{}, len(outcomes))
		for _, o := range outcomes {
			if _, dup := seen[o.Action]; dup {
				return nil, nil, false, errors.Errorf("mcts: contract violation: duplicate chance outcome %v", o.Action)
			}
			seen[o.Action] = struct{}{}
			w := o.Weight
			children[o.Action] = newPlaceholder[A](&w)
			order = append(order, o.Action)
		}
		return children, order, true, nil

	default:
		return nil, nil, false, errors.Errorf("mcts: contract violation: unknown actor kind %v", actor.Kind())
	}
}

// Expanded reports whether this slot has been materialized.
func (n *Node[A]) Expanded() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.expanded
}

// State returns the node's state and true, or the zero value and false if
// this node is still a Placeholder.
func (n *Node[A]) State() (game.State[A], bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if !n.expanded {
		var zero game.State[A]
		return zero, false
	}
	return n.state, true
}

// IsChance reports whether this (Expanded) node's actor is Chance.
func (n *Node[A]) IsChance() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.isChance
}

// VisitCount returns the number of times this node has been backpropagated
// through.
func (n *Node[A]) VisitCount() uint32 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.visitCount
}

// ValueSum returns the accumulated reward attributed to this node.
func (n *Node[A]) ValueSum() float64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.valueSum
}

// Weight returns the chance weight this slot carries, defaulting to 1 for
// non-chance slots (spec.md §4.2: "w = weight(c) (defaults to 1)").
func (n *Node[A]) Weight() uint32 {
	if n.weight == nil {
		return 1
	}
	return *n.weight
}

// Child looks up a child by action. Panics if action is not a legal child
// of this node — that is a programming error (spec.md §4.5).
func (n *Node[A]) Child(a A) *Node[A] {
	n.mu.RLock()
	defer n.mu.RUnlock()
	c, ok := n.children[a]
	if !ok {
		panic(errors.Errorf("mcts: no such child action %v", a))
	}
	return c
}

// ChildOrder returns the node's children in the order they were created
// (state.LegalActions()/Outcomes() order), used for the MostVisits policy's
// insertion-order tie-break (spec.md §4.4) and for deterministic rendering.
func (n *Node[A]) ChildOrder() []A {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]A, len(n.order))
	copy(out, n.order)
	return out
}

// Visit updates this node's statistics during backpropagation (spec.md
// §4.3). delta is the reward attributed to this node for this iteration
// (zero when the parent edge is a Chance transition, per §4.3).
func (n *Node[A]) Visit(delta float64) {
	n.mu.Lock()
	n.visitCount++
	n.valueSum += delta
	n.mu.Unlock()
}

// FullyExplored reports whether no further information can be gained by
// searching beneath this node (spec.md §3 invariant 4, §8): true iff the
// node is terminal, or is Expanded with every child Expanded and fully
// explored.
func (n *Node[A]) FullyExplored() bool {
	if n.fullyExplored.Load() {
		return true
	}

	n.mu.RLock()
	if !n.expanded {
		n.mu.RUnlock()
		return false
	}
	state, children := n.state, n.children
	n.mu.RUnlock()

	result := state.IsTerminal()
	if !result {
		result = true
		for _, child := range children {
			if !child.Expanded() || !child.FullyExplored() {
				result = false
				break
			}
		}
	}

	if result {
		n.fullyExplored.Store(true)
	}
	return result
}

// selectChild picks the highest-UCB child that is not fully explored
// (spec.md §4.2 "UCB score", §4.3 "Selection"). ok is false when every
// child is fully explored (or there are no children at all), signalling
// the caller to back off to this node's own parent.
func (n *Node[A]) selectChild(explorationConstant float64, rng *rand.Rand) (best A, ok bool) {
	n.mu.RLock()
	parentVisits := n.visitCount
	isChance := n.isChance
	order := n.order
	children := n.children
	n.mu.RUnlock()

	if parentVisits < 1 {
		parentVisits = 1
	}

	bestUCB := math.Inf(-1)
	found := false
	for _, action := range order {
		child := children[action]
		if child.FullyExplored() {
			continue
		}

		ucb := computeUCB(child, parentVisits, isChance, explorationConstant, rng)
		if !found || ucb > bestUCB {
			bestUCB = ucb
			best = action
			found = true
		}
	}
	return best, found
}

func computeUCB[A game.Action](child *Node[A], parentVisits uint32, parentIsChance bool, explorationConstant float64, rng *rand.Rand) float64 {
	visits := child.VisitCount()
	if visits == 0 {
		return math.Inf(1)
	}
	valueSum := child.ValueSum()

	if cached, ok := child.ucb.get(valueSum, visits, parentVisits); ok {
		return cached
	}

	var q, u float64
	if parentIsChance {
		weight := child.Weight()
		q = 1
		u = math.Sqrt(math.Log(float64(parentVisits)) / (float64(visits) / float64(weight)))
	} else {
		q = valueSum / float64(visits)
		u = math.Sqrt(math.Log(float64(parentVisits)) / float64(visits))
	}
	eps := rng.Float64() * 1e-6
	ucb := q + explorationConstant*u + eps

	child.ucb.put(ucb, valueSum, visits, parentVisits)
	return ucb
}
