// Package explore renders a finished mcts search tree to Graphviz DOT for
// offline inspection, the closest in-scope analogue to the kind of
// "explorer harness" a tournament-running binary would call to serialize
// search annotations.
package explore

import (
	"fmt"
	"strconv"

	"github.com/awalterschulze/gographviz"

	"github.com/lkingsford/mon2y-go/game"
	"github.com/lkingsford/mon2y-go/mcts"
)

// defaultMaxDepth bounds how deep Render descends when the caller passes no
// positive maxDepth, since a fully-explored tree can be far larger than
// anyone wants to look at in one image.
const defaultMaxDepth = 6

// Render walks root breadth-first down to maxDepth (0 means
// defaultMaxDepth) and returns a DOT-format graph labeling each node with
// its visit count, mean value and, for chance children, their weight.
func Render[A game.Action](root *mcts.Node[A], maxDepth int) (string, error) {
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}

	graph := gographviz.NewGraph()
	if err := graph.SetName("mcts"); err != nil {
		return "", err
	}
	if err := graph.SetDir(true); err != nil {
		return "", err
	}

	type queued struct {
		node  *mcts.Node[A]
		name  string
		depth int
	}

	rootName := "n0"
	if err := graph.AddNode("mcts", rootName, map[string]string{
		"label": strconv.Quote(nodeLabel(root, root.IsChance())),
	}); err != nil {
		return "", err
	}

	queue := []queued{{node: root, name: rootName, depth: 0}}
	next := 1
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.depth >= maxDepth || !cur.node.Expanded() {
			continue
		}

		parentIsChance := cur.node.IsChance()
		for _, action := range cur.node.ChildOrder() {
			child := cur.node.Child(action)
			childName := fmt.Sprintf("n%d", next)
			next++

			if err := graph.AddNode("mcts", childName, map[string]string{
				"label": strconv.Quote(nodeLabel(child, parentIsChance)),
			}); err != nil {
				return "", err
			}
			edgeLabel := fmt.Sprintf("%v", action)
			if err := graph.AddEdge(cur.name, childName, true, map[string]string{
				"label": strconv.Quote(edgeLabel),
			}); err != nil {
				return "", err
			}

			queue = append(queue, queued{node: child, name: childName, depth: cur.depth + 1})
		}
	}

	return graph.String(), nil
}

func nodeLabel[A game.Action](n *mcts.Node[A], parentIsChance bool) string {
	visits := n.VisitCount()
	if !n.Expanded() {
		if parentIsChance {
			return fmt.Sprintf("placeholder w=%d visits=%d", n.Weight(), visits)
		}
		return fmt.Sprintf("placeholder visits=%d", visits)
	}

	mean := 0.0
	if visits > 0 {
		mean = n.ValueSum() / float64(visits)
	}
	if parentIsChance {
		return fmt.Sprintf("visits=%d mean=%.3f w=%d", visits, mean, n.Weight())
	}
	return fmt.Sprintf("visits=%d mean=%.3f", visits, mean)
}
