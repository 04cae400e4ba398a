package connectfour

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStateHasFullWidthOfLegalActions(t *testing.T) {
	s := New()
	assert.Len(t, s.LegalActions(), Width)
	assert.Equal(t, uint8(0), s.Actor().PlayerID())
}

func TestDropAlternatesPlayers(t *testing.T) {
	s := New()
	next := s.Apply(Action{Column: 0})
	assert.Equal(t, uint8(1), next.Actor().PlayerID())
}

func TestHorizontalWinIsDetected(t *testing.T) {
	s := New()
	var cur = s.Apply(Action{Column: 0}) // p0
	cur = cur.Apply(Action{Column: 0})   // p1
	cur = cur.Apply(Action{Column: 1})   // p0
	cur = cur.Apply(Action{Column: 1})   // p1
	cur = cur.Apply(Action{Column: 2})   // p0
	cur = cur.Apply(Action{Column: 2})   // p1
	require.False(t, cur.IsTerminal())
	cur = cur.Apply(Action{Column: 3}) // p0 completes 0,1,2,3 bottom row

	assert.True(t, cur.IsTerminal())
	assert.Equal(t, []float64{1, -1}, cur.Reward())
}

func TestFullColumnIsNotALegalAction(t *testing.T) {
	var cur = New().Apply(Action{Column: 0})
	for i := 0; i < Height-1; i++ {
		cur = cur.Apply(Action{Column: 0})
	}
	for _, a := range cur.LegalActions() {
		assert.NotEqual(t, uint8(0), a.Column)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := New()
	c := s.Clone()
	next := s.Apply(Action{Column: 0})
	assert.NotEqual(t, next, c)
	assert.Equal(t, uint8(0), c.Actor().PlayerID())
}
