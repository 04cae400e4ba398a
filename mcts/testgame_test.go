package mcts

import "github.com/lkingsford/mon2y-go/game"

// testGameAction and testGameState are a minimal synthetic single-path game
// used to exercise selection/expansion/playout/backpropagation in isolation,
// grounded directly on original_source's mon2y/tree.rs test fixtures
// (TestGameAction/TestGameState): NextTurnInjectActionCount(n) installs n
// sibling WinInXTurns branches, WinInXTurns(n) counts down to a terminal
// Win, and Win ends the game with reward 1 for player 0, whoever acts.
type testActionKind uint8

const (
	testActionNextTurnInject testActionKind = iota
	testActionWinInXTurns
	testActionWin
)

type testGameAction struct {
	kind testActionKind
	n    uint8
}

type testGameState struct {
	reward      []float64
	terminal    bool
	actions     []testGameAction
	playerCount uint8
	nextPlayer  uint8
}

func (s *testGameState) LegalActions() []testGameAction { return s.actions }

func (s *testGameState) Actor() game.Actor[testGameAction] {
	return game.Player[testGameAction](s.nextPlayer)
}

func (s *testGameState) IsTerminal() bool { return s.terminal }

func (s *testGameState) Reward() []float64 { return s.reward }

func (s *testGameState) Apply(a testGameAction) game.State[testGameAction] {
	nextPlayer := (s.nextPlayer + 1) % s.playerCount

	switch a.kind {
	case testActionNextTurnInject:
		actions := make([]testGameAction, a.n)
		for i := range actions {
			actions[i] = testGameAction{kind: testActionWinInXTurns, n: uint8(i)}
		}
		return &testGameState{
			reward: s.reward, terminal: false, actions: actions,
			playerCount: s.playerCount, nextPlayer: nextPlayer,
		}

	case testActionWinInXTurns:
		var actions []testGameAction
		if a.n > 0 {
			actions = []testGameAction{{kind: testActionWinInXTurns, n: a.n - 1}}
		} else {
			actions = []testGameAction{{kind: testActionWin}}
		}
		return &testGameState{
			reward: s.reward, terminal: false, actions: actions,
			playerCount: s.playerCount, nextPlayer: nextPlayer,
		}

	case testActionWin:
		reward := make([]float64, len(s.reward))
		copy(reward, s.reward)
		if len(reward) > 0 {
			reward[0] = 1.0
		}
		return &testGameState{
			reward: reward, terminal: true, actions: nil,
			playerCount: s.playerCount, nextPlayer: nextPlayer,
		}

	default:
		panic("mcts: test fixture: unknown action kind")
	}
}

func (s *testGameState) Clone() game.State[testGameAction] {
	c := *s
	c.reward = append([]float64(nil), s.reward...)
	c.actions = append([]testGameAction(nil), s.actions...)
	return &c
}
