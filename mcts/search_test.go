package mcts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSearchSkipsSearchWhenRootHasOneChild exercises the single-legal-move
// short circuit: Search must return that action without spending any
// iterations.
func TestSearchSkipsSearchWhenRootHasOneChild(t *testing.T) {
	rootState := &testGameState{
		reward:      []float64{0},
		terminal:    false,
		actions:     []testGameAction{{kind: testActionWin}},
		playerCount: 1,
	}

	action, stats, err := Search[testGameAction](context.Background(), rootState, SearchConfig{}, nil)
	require.NoError(t, err)
	assert.Equal(t, testGameAction{kind: testActionWin}, action)
	assert.Equal(t, uint64(0), stats.Iterations)
}

// TestSearchOnTerminalStatePanics exercises the contract violation spec.md
// §4.5 describes: Search must never be called on an already-terminal state.
func TestSearchOnTerminalStatePanics(t *testing.T) {
	terminal := terminalTestState([]float64{1})
	assert.Panics(t, func() {
		_, _, _ = Search[testGameAction](context.Background(), terminal, SearchConfig{}, nil)
	})
}

// TestSearchExhaustsADeterministicTree exercises a small but real search
// with real concurrency (multiple worker goroutines sharing the tree):
// every path in this fixture guarantees an eventual win, so the search
// must run to full exploration and return one of the root's two legal
// actions without error.
func TestSearchExhaustsADeterministicTree(t *testing.T) {
	rootState := &testGameState{
		reward:   []float64{0},
		terminal: false,
		actions: []testGameAction{
			{kind: testActionWinInXTurns, n: 0},
			{kind: testActionWinInXTurns, n: 3},
		},
		playerCount: 1,
	}

	seed := int64(123)
	cfg := SearchConfig{
		Iterations: 500,
		Threads:    4,
		Seed:       &seed,
	}
	action, stats, err := Search[testGameAction](context.Background(), rootState, cfg, nil)
	require.NoError(t, err)
	assert.Contains(t, rootState.actions, action)
	assert.True(t, stats.FullyExplored, "a finite, single-path-per-branch tree must fully explore well within 500 iterations")
}

func TestSearchRejectsNonPositiveThreads(t *testing.T) {
	rootState := &testGameState{
		reward:      []float64{0},
		terminal:    false,
		actions:     []testGameAction{{kind: testActionWin}, {kind: testActionWinInXTurns, n: 1}},
		playerCount: 1,
	}
	_, _, err := Search[testGameAction](context.Background(), rootState, SearchConfig{Threads: -1}, nil)
	assert.Error(t, err)
}
