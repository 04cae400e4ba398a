// Package connectfour implements the classic two-player, no-chance
// Connect Four as a game.State, used as a deterministic collaborator for
// exercising package mcts's Player-only code paths.
package connectfour

import (
	"fmt"
	"strings"

	"github.com/lkingsford/mon2y-go/game"
)

const (
	// Width is the number of columns on the board.
	Width = 7
	// Height is the number of rows on the board.
	Height = 6
)

// Action drops a disc into a column.
type Action struct {
	Column uint8
}

type cell uint8

const (
	empty cell = iota
	filled0
	filled1
)

// State is an immutable Connect Four position. The zero value is not a
// valid state; use New.
type State struct {
	board      [Width * Height]cell
	nextPlayer uint8
	terminal   bool
	reward     []float64
}

// New returns the empty starting position with player 0 to move.
func New() *State {
	return &State{nextPlayer: 0, reward: []float64{0, 0}}
}

// FromBoard builds a State directly from a hand-written board, for tests
// that need to start from a specific position (e.g. a near-full endgame)
// without replaying an entire move history. rows is top row first, each
// exactly Width characters: 'x' for player 0, 'o' for player 1, '.' for
// empty. A column's filled cells must be contiguous from the bottom, same
// as Apply itself would produce.
func FromBoard(rows [Height]string, nextPlayer uint8) (*State, error) {
	s := &State{nextPlayer: nextPlayer, reward: []float64{0, 0}}
	for row, line := range rows {
		if len(line) != Width {
			return nil, fmt.Errorf("connectfour: row %d has length %d, want %d", row, len(line), Width)
		}
		for col, ch := range line {
			switch ch {
			case 'x':
				s.board[s.idx(col, row)] = filled0
			case 'o':
				s.board[s.idx(col, row)] = filled1
			case '.':
			default:
				return nil, fmt.Errorf("connectfour: row %d has invalid character %q", row, ch)
			}
		}
	}
	for col := 0; col < Width; col++ {
		seenEmpty := false
		for row := Height - 1; row >= 0; row-- {
			if s.board[s.idx(col, row)] == empty {
				seenEmpty = true
			} else if seenEmpty {
				return nil, fmt.Errorf("connectfour: column %d has a filled cell above an empty one", col)
			}
		}
	}
	switch checkWin(&s.board) {
	case winPlayer0:
		s.terminal = true
		s.reward = []float64{1, -1}
	case winPlayer1:
		s.terminal = true
		s.reward = []float64{-1, 1}
	case winStalemate:
		s.terminal = true
		s.reward = []float64{-0.5, -0.5}
	}
	return s, nil
}

func (s *State) idx(col, row int) int { return row*Width + col }

// LegalActions returns one Drop action per non-full column, in left-to-
// right order.
func (s *State) LegalActions() []Action {
	if s.terminal {
		return nil
	}
	actions := make([]Action, 0, Width)
	for col := 0; col < Width; col++ {
		if s.board[s.idx(col, 0)] == empty {
			actions = append(actions, Action{Column: uint8(col)})
		}
	}
	return actions
}

// Actor reports the player to move; Connect Four has no chance events.
func (s *State) Actor() game.Actor[Action] {
	return game.Player[Action](s.nextPlayer)
}

// IsTerminal reports whether the game has ended (a four-in-a-row or a full
// board).
func (s *State) IsTerminal() bool { return s.terminal }

// Reward returns [1, -1] for a player-0 win, [-1, 1] for a player-1 win,
// [-0.5, -0.5] for a stalemate (discouraging draws), or [0, 0] mid-game.
func (s *State) Reward() []float64 { return append([]float64(nil), s.reward...) }

// Apply drops a disc into a.Column, returning the resulting state.
func (s *State) Apply(a Action) game.State[Action] {
	next := *s
	next.board = s.board
	next.reward = append([]float64(nil), s.reward...)

	col := int(a.Column)
	for row := Height - 1; row >= 0; row-- {
		if next.board[next.idx(col, row)] == empty {
			if s.nextPlayer == 0 {
				next.board[next.idx(col, row)] = filled0
			} else {
				next.board[next.idx(col, row)] = filled1
			}
			break
		}
	}

	switch winner := checkWin(&next.board); winner {
	case winPlayer0:
		next.terminal = true
		next.reward = []float64{1, -1}
	case winPlayer1:
		next.terminal = true
		next.reward = []float64{-1, 1}
	case winStalemate:
		next.terminal = true
		next.reward = []float64{-0.5, -0.5}
	case winOngoing:
		next.terminal = false
	}
	next.nextPlayer = (s.nextPlayer + 1) % 2

	return &next
}

// Clone returns an independent copy (State is already immutable per-call,
// but Clone satisfies the game.State contract for rollout use).
func (s *State) Clone() game.State[Action] {
	c := *s
	c.reward = append([]float64(nil), s.reward...)
	return &c
}

// String renders the board for debugging/CLI display.
func (s *State) String() string {
	var b strings.Builder
	for row := 0; row < Height; row++ {
		for col := 0; col < Width; col++ {
			switch s.board[s.idx(col, row)] {
			case empty:
				b.WriteString(".")
			case filled0:
				b.WriteString("x")
			case filled1:
				b.WriteString("o")
			}
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "next: %d\n", s.nextPlayer)
	return b.String()
}

type winResult int

const (
	winOngoing winResult = iota
	winPlayer0
	winPlayer1
	winStalemate
)

func checkWin(board *[Width * Height]cell) winResult {
	full := true
	for _, c := range board {
		if c == empty {
			full = false
			break
		}
	}

	at := func(col, row int) cell { return board[row*Width+col] }
	lines := [][4][2]int{}
	// horizontal
	for row := 0; row < Height; row++ {
		for col := 0; col <= Width-4; col++ {
			lines = append(lines, [4][2]int{{col, row}, {col + 1, row}, {col + 2, row}, {col + 3, row}})
		}
	}
	// vertical
	for col := 0; col < Width; col++ {
		for row := 0; row <= Height-4; row++ {
			lines = append(lines, [4][2]int{{col, row}, {col, row + 1}, {col, row + 2}, {col, row + 3}})
		}
	}
	// diagonal \
	for col := 0; col <= Width-4; col++ {
		for row := 0; row <= Height-4; row++ {
			lines = append(lines, [4][2]int{{col, row}, {col + 1, row + 1}, {col + 2, row + 2}, {col + 3, row + 3}})
		}
	}
	// diagonal /
	for col := 0; col <= Width-4; col++ {
		for row := 3; row < Height; row++ {
			lines = append(lines, [4][2]int{{col, row}, {col + 1, row - 1}, {col + 2, row - 2}, {col + 3, row - 3}})
		}
	}

	for _, line := range lines {
		first := at(line[0][0], line[0][1])
		if first == empty {
			continue
		}
		match := true
		for _, p := range line[1:] {
			if at(p[0], p[1]) != first {
				match = false
				break
			}
		}
		if match {
			if first == filled0 {
				return winPlayer0
			}
			return winPlayer1
		}
	}

	if full {
		return winStalemate
	}
	return winOngoing
}
