package mcts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildRootWithTwoChildren(t *testing.T) (*Node[testGameAction], testGameAction, testGameAction) {
	t.Helper()
	rootState := &testGameState{
		reward:   []float64{0},
		terminal: false,
		actions: []testGameAction{
			{kind: testActionWinInXTurns, n: 2},
			{kind: testActionWinInXTurns, n: 3},
		},
		playerCount: 1,
	}
	root, err := newExpandedNode[testGameAction](rootState, nil)
	require.NoError(t, err)
	a2 := testGameAction{kind: testActionWinInXTurns, n: 2}
	a3 := testGameAction{kind: testActionWinInXTurns, n: 3}
	require.NoError(t, root.Child(a2).becomeExpanded(rootState.Apply(a2)))
	require.NoError(t, root.Child(a3).becomeExpanded(rootState.Apply(a3)))
	return root, a2, a3
}

func TestMostVisitsMovePicksHighestVisitCount(t *testing.T) {
	root, a2, a3 := buildRootWithTwoChildren(t)
	root.Child(a2).Visit(1)
	root.Child(a3).Visit(1)
	root.Child(a3).Visit(1)

	action, err := finalAction(root, MostVisits)
	require.NoError(t, err)
	assert.Equal(t, a3, action)
}

func TestMostVisitsMoveBreaksTiesByInsertionOrder(t *testing.T) {
	root, a2, a3 := buildRootWithTwoChildren(t)
	root.Child(a2).Visit(1)
	root.Child(a3).Visit(1)

	action, err := finalAction(root, MostVisits)
	require.NoError(t, err)
	assert.Equal(t, a2, action, "first-created child wins a visit-count tie")
}

func TestMeanValueMoveIgnoresNeverVisitedChildren(t *testing.T) {
	root, a2, a3 := buildRootWithTwoChildren(t)
	root.Child(a2).Visit(-5) // visited once, poor mean
	// a3 is never visited at all.

	action, err := finalAction(root, MeanValue)
	require.NoError(t, err)
	assert.Equal(t, a2, action, "the only visited child must win even with a negative mean")
}

func TestMeanValueMovePicksHighestMean(t *testing.T) {
	root, a2, a3 := buildRootWithTwoChildren(t)
	root.Child(a2).Visit(0) // mean 0
	root.Child(a3).Visit(1)
	root.Child(a3).Visit(1) // mean 1

	action, err := finalAction(root, MeanValue)
	require.NoError(t, err)
	assert.Equal(t, a3, action)
}

// TestWinningMoveShortCircuitsRegardlessOfVisitCount exercises spec.md
// §4.4's proven-win short circuit: a terminal child whose reward gives the
// root's acting player the maximum entry wins outright, even though a
// never-visited sibling would otherwise lose under either policy.
func TestWinningMoveShortCircuitsRegardlessOfVisitCount(t *testing.T) {
	rootState := &testGameState{
		reward:      []float64{0},
		terminal:    false,
		actions:     []testGameAction{{kind: testActionWinInXTurns, n: 0}, {kind: testActionWin}},
		playerCount: 1,
	}
	root, err := newExpandedNode[testGameAction](rootState, nil)
	require.NoError(t, err)

	losingAction := testGameAction{kind: testActionWinInXTurns, n: 0}
	require.NoError(t, root.Child(losingAction).becomeExpanded(rootState.Apply(losingAction)))
	root.Child(losingAction).Visit(10) // heavily visited, but not a proven win

	winAction := testGameAction{kind: testActionWin}
	require.NoError(t, root.Child(winAction).becomeExpanded(rootState.Apply(winAction)))
	// winAction's child is terminal with reward [1] for player 0 and is
	// never visited at all — the short circuit must still pick it.

	action, err := finalAction(root, MostVisits)
	require.NoError(t, err)
	assert.Equal(t, winAction, action)
}
