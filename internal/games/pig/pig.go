// Package pig implements the dice game Pig (roll-and-bank): on each turn a
// player repeatedly rolls a die, accumulating a turn total, until either
// they choose to bank it into their score (ending their turn) or they roll
// a 1 and lose the turn's unbanked total. First to reach the target score
// wins.
//
// Pig is this repository's collaborator for package mcts's Chance actor
// path: after a Roll decision, the die toss is modeled as its own Chance
// node, exercising both the weighted-sampling rollout step and the
// Chance-node UCB branch (spec.md §3 Actor, §4.2/§4.3).
package pig

import (
	"github.com/lkingsford/mon2y-go/game"
)

// Kind distinguishes a player's decision from a die face outcome.
type Kind uint8

const (
	// Roll continues the current turn by tossing the die.
	Roll Kind = iota
	// Bank ends the turn, adding the accumulated total to the player's score.
	Bank
	// Face is a chance outcome: the die came up showing this value (1-6).
	Face
)

// Action is either a player's Roll/Bank decision or a chance Face outcome.
type Action struct {
	Kind Kind
	Face uint8
}

// DieWeights assigns a relative weight to each face 1-6. A zero weight
// means that face cannot occur; at least one entry must be positive.
type DieWeights [6]uint32

// FairDie is a standard uniformly-weighted six-sided die.
var FairDie = DieWeights{1, 1, 1, 1, 1, 1}

// State is an immutable Pig position. The zero value is not valid; use New.
type State struct {
	scores        []int
	turnTotal     int
	currentPlayer uint8
	awaitingRoll  bool
	target        int
	die           DieWeights
	terminal      bool
	reward        []float64
}

// New starts a game for the given number of players (>= 2), played to
// target score, with a die weighted per die (FairDie for the standard
// rules).
func New(players int, target int, die DieWeights) *State {
	if players < 2 {
		panic("pig: at least two players are required")
	}
	return &State{
		scores: make([]int, players),
		target: target,
		die:    die,
	}
}

// LegalActions returns {Roll, Bank} when a player is deciding, or one Face
// action per positively-weighted die face when awaiting a roll.
func (s *State) LegalActions() []Action {
	if s.terminal {
		return nil
	}
	if s.awaitingRoll {
		actions := make([]Action, 0, 6)
		for face := 0; face < 6; face++ {
			if s.die[face] > 0 {
				actions = append(actions, Action{Kind: Face, Face: uint8(face + 1)})
			}
		}
		return actions
	}
	return []Action{{Kind: Roll}, {Kind: Bank}}
}

// Actor reports the current player when deciding, or the weighted die faces
// as a Chance actor when awaiting a roll.
func (s *State) Actor() game.Actor[Action] {
	if !s.awaitingRoll {
		return game.Player[Action](s.currentPlayer)
	}
	outcomes := make([]game.Outcome[Action], 0, 6)
	for face := 0; face < 6; face++ {
		if w := s.die[face]; w > 0 {
			outcomes = append(outcomes, game.Outcome[Action]{
				Action: Action{Kind: Face, Face: uint8(face + 1)},
				Weight: w,
			})
		}
	}
	return game.Chance(outcomes)
}

// IsTerminal reports whether some player has reached the target score.
func (s *State) IsTerminal() bool { return s.terminal }

// Reward gives the winner +1 and every other player -1, or a zero vector
// mid-game.
func (s *State) Reward() []float64 { return append([]float64(nil), s.reward...) }

// Apply executes a player's Roll/Bank decision or a chance die Face.
func (s *State) Apply(a Action) game.State[Action] {
	next := *s
	next.scores = append([]int(nil), s.scores...)
	next.reward = append([]float64(nil), s.reward...)

	switch {
	case !s.awaitingRoll && a.Kind == Roll:
		next.awaitingRoll = true

	case !s.awaitingRoll && a.Kind == Bank:
		next.scores[s.currentPlayer] += s.turnTotal
		next.turnTotal = 0
		next.awaitingRoll = false
		next.currentPlayer = (s.currentPlayer + 1) % uint8(len(s.scores))
		next.checkWin()

	case s.awaitingRoll && a.Kind == Face:
		next.awaitingRoll = false
		if a.Face == 1 {
			next.turnTotal = 0
			next.currentPlayer = (s.currentPlayer + 1) % uint8(len(s.scores))
		} else {
			next.turnTotal = s.turnTotal + int(a.Face)
		}

	default:
		panic("pig: contract violation: action does not match current actor")
	}

	return &next
}

func (s *State) checkWin() {
	for player, score := range s.scores {
		if score >= s.target {
			s.terminal = true
			s.reward = make([]float64, len(s.scores))
			for i := range s.reward {
				if i == player {
					s.reward[i] = 1
				} else {
					s.reward[i] = -1
				}
			}
			return
		}
	}
}

// Clone returns an independent copy.
func (s *State) Clone() game.State[Action] {
	c := *s
	c.scores = append([]int(nil), s.scores...)
	c.reward = append([]float64(nil), s.reward...)
	return &c
}

// Scores exposes the current banked scores, for CLI/tree-explorer display.
func (s *State) Scores() []int { return append([]int(nil), s.scores...) }
