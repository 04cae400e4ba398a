package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/lkingsford/mon2y-go/game"
	"github.com/lkingsford/mon2y-go/mcts"
)

// runEpisode plays initial to completion, letting each Player actor's
// configured agent choose its moves, and returns the final reward vector.
// Chance actors are resolved the same way package mcts's own rollout does:
// a pick among the listed outcomes weighted by each outcome's weight —
// config files never drive a
// chance event, only player ones (spec.md §3: chance transitions are the
// environment's, not a seat's).
func runEpisode[A game.Action](initial game.State[A], players []playerConfig, logger *log.Logger, rng *rand.Rand) ([]float64, error) {
	state := initial
	move := 0
	for !state.IsTerminal() {
		move++
		logger.SetPrefix(fmt.Sprintf("[move %d] ", move))
		actor := state.Actor()
		switch actor.Kind() {
		case game.ActorPlayer:
			id := int(actor.PlayerID())
			if id >= len(players) {
				return nil, errors.Errorf("episode: state actor is player %d but only %d players configured", id, len(players))
			}
			action, err := choosePlayerAction(state, players[id], logger)
			if err != nil {
				return nil, err
			}
			logger.Printf("player %d plays %v", id, action)
			state = state.Apply(action)

		case game.ActorChance:
			outcomes := actor.Outcomes()
			total := uint32(0)
			for _, o := range outcomes {
				total += o.Weight
			}
			pick := uint32(rng.Int63n(int64(total)))
			var chosen A
			for _, o := range outcomes {
				if pick < o.Weight {
					chosen = o.Action
					break
				}
				pick -= o.Weight
			}
			state = state.Apply(chosen)

		default:
			return nil, errors.Errorf("episode: unknown actor kind %v", actor.Kind())
		}
	}
	return state.Reward(), nil
}

func choosePlayerAction[A game.Action](state game.State[A], player playerConfig, logger *log.Logger) (A, error) {
	var zero A
	switch player.Type {
	case "random", "":
		actions := state.LegalActions()
		if len(actions) == 0 {
			return zero, errors.New("episode: non-terminal state has no legal actions")
		}
		return actions[rand.Intn(len(actions))], nil

	case "mcts":
		if player.MCTS == nil {
			return zero, errors.New("episode: player type mcts requires an mcts config block")
		}
		cfg := mcts.SearchConfig{
			Iterations:          player.MCTS.Iterations,
			Threads:             player.MCTS.Threads,
			ExplorationConstant: player.MCTS.ExplorationConstant,
		}
		if player.MCTS.TimeLimitSeconds > 0 {
			cfg.TimeLimit = time.Duration(player.MCTS.TimeLimitSeconds * float64(time.Second))
		}
		if player.MCTS.Policy == "mean-value" {
			cfg.Policy = mcts.MeanValue
		} else {
			cfg.Policy = mcts.MostVisits
		}
		action, stats, err := mcts.Search(context.Background(), state, cfg, logger)
		if err != nil {
			return zero, err
		}
		logger.Printf("mcts chose %v after %d iterations (%s, fully explored: %t)", action, stats.Iterations, stats.Elapsed, stats.FullyExplored)
		return action, nil

	default:
		return zero, errors.Errorf("episode: unknown player type %q", player.Type)
	}
}
