// Package chess adapts github.com/notnil/chess's rules engine to the
// game.State contract, giving package mcts a third collaborator with a
// much larger branching factor than connectfour or pig, and no chance
// component — exercising the engine against a real, non-toy ruleset.
//
// This is a thin adapter only: it reuses notnil/chess's move generator and
// outcome detection directly rather than reimplementing them, the way the
// teacher's own game/chess.go wrapped the same library (minus that
// package's neural-network move encoding, which this repository has no use
// for).
package chess

import (
	"github.com/notnil/chess"

	"github.com/lkingsford/mon2y-go/game"
)

// Action identifies a legal move by its algebraic notation string, as
// produced by notnil/chess.
type Action string

// State wraps a *chess.Game position.
type State struct {
	g *chess.Game
}

// New returns the standard starting position.
func New() *State {
	return &State{g: chess.NewGame()}
}

// LegalActions enumerates every legal move from this position.
func (s *State) LegalActions() []Action {
	pos := s.g.Position()
	moves := s.g.ValidMoves()
	actions := make([]Action, len(moves))
	for i, m := range moves {
		actions[i] = Action(chess.AlgebraicNotation{}.Encode(pos, m))
	}
	return actions
}

// Actor reports White (player 0) or Black (player 1) to move. Chess has no
// chance events.
func (s *State) Actor() game.Actor[Action] {
	if s.g.Position().Turn() == chess.White {
		return game.Player[Action](0)
	}
	return game.Player[Action](1)
}

// IsTerminal reports whether the game has been decided (checkmate,
// stalemate or any other drawing condition notnil/chess recognizes).
func (s *State) IsTerminal() bool {
	return s.g.Outcome() != chess.NoOutcome
}

// Reward returns [1, -1] for a White win, [-1, 1] for a Black win, [0, 0]
// for a draw, or [0, 0] mid-game.
func (s *State) Reward() []float64 {
	switch s.g.Outcome() {
	case chess.WhiteWon:
		return []float64{1, -1}
	case chess.BlackWon:
		return []float64{-1, 1}
	default:
		return []float64{0, 0}
	}
}

// Apply plays the named move, panicking if it is not legal from this
// position — a contract violation, since LegalActions is the only source
// of actions package mcts ever applies.
func (s *State) Apply(a Action) game.State[Action] {
	next := s.g.Clone()
	if err := next.MoveStr(string(a)); err != nil {
		panic(err)
	}
	return &State{g: next}
}

// Clone returns an independent copy.
func (s *State) Clone() game.State[Action] {
	return &State{g: s.g.Clone()}
}

// String renders the board for debugging/CLI display.
func (s *State) String() string {
	return s.g.Position().Board().Draw()
}
