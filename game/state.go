// Package game defines the contract that any two-player-or-more, perfect-
// or imperfect-information game must satisfy to be searched by package mcts.
//
// The contract deliberately knows nothing about board representations, move
// generators or reward shaping: it is the seam between the search engine and
// whatever concrete game a caller plugs in.
package game

import "fmt"

// Action identifies a discrete move or chance outcome. Implementations must
// be comparable (usable as a map key) and cheap to copy; most games use a
// small struct or a named int type.
type Action interface {
	comparable
}

// ActorKind tags which of the two Actor variants is in play.
type ActorKind uint8

const (
	// ActorPlayer means a player chooses the next action.
	ActorPlayer ActorKind = iota
	// ActorChance means the next transition is stochastic.
	ActorChance
)

// Outcome pairs a chance action with its (unnormalized) weight. A weight of
// zero is a contract violation: every listed outcome must be reachable.
type Outcome[A Action] struct {
	Action A
	Weight uint32
}

// Actor is the tagged union described in spec.md §3: either a player id or a
// weighted set of chance outcomes.
type Actor[A Action] struct {
	kind     ActorKind
	playerID uint8
	outcomes []Outcome[A]
}

// Player constructs a Player(id) actor.
func Player[A Action](id uint8) Actor[A] {
	return Actor[A]{kind: ActorPlayer, playerID: id}
}

// Chance constructs a Chance(outcomes) actor. Panics if outcomes is empty or
// any weight is zero — both are contract violations (spec.md §3: "weight 0
// forbidden").
func Chance[A Action](outcomes []Outcome[A]) Actor[A] {
	if len(outcomes) == 0 {
		panic("game: Chance actor with no outcomes")
	}
	for _, o := range outcomes {
		if o.Weight == 0 {
			panic(fmt.Sprintf("game: chance outcome %v has zero weight", o.Action))
		}
	}
	return Actor[A]{kind: ActorChance, outcomes: outcomes}
}

// Kind reports whether this is a Player or Chance actor.
func (a Actor[A]) Kind() ActorKind { return a.kind }

// PlayerID returns the acting player's id. Only meaningful when Kind() ==
// ActorPlayer.
func (a Actor[A]) PlayerID() uint8 { return a.playerID }

// Outcomes returns the weighted chance outcomes. Only meaningful when
// Kind() == ActorChance. The returned slice must not be mutated.
func (a Actor[A]) Outcomes() []Outcome[A] { return a.outcomes }

// State is the opaque, cloneable game position the engine searches over.
//
// Implementations must satisfy:
//   - LegalActions is non-empty for any non-terminal state.
//   - Actor is consistent with LegalActions: a Player(id) state's legal
//     actions are exactly the playable moves; a Chance state's legal
//     actions are exactly its outcomes' actions.
//   - Reward returns one entry per player, final and stable once IsTerminal
//     is true.
type State[A Action] interface {
	// LegalActions enumerates the actions playable from this state. Empty
	// only when IsTerminal is true.
	LegalActions() []A

	// Actor reports who moves next from this state.
	Actor() Actor[A]

	// IsTerminal reports whether the game has ended at this state.
	IsTerminal() bool

	// Reward returns the per-player reward vector. Defined whenever
	// IsTerminal is true; may be a zero vector mid-game.
	Reward() []float64

	// Apply returns the state resulting from taking action a from this
	// state. Must not mutate the receiver.
	Apply(a A) State[A]

	// Clone returns an independent copy suitable for simulation.
	Clone() State[A]
}
