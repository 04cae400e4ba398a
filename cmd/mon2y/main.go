// Command mon2y runs episodes of a configured game, with each seat played
// by either a random agent or an MCTS search, and prints a summary table —
// the idiomatic-Go counterpart of the teacher's arena.go/cmd/* binaries and
// original_source's arena.rs CLI.
package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lkingsford/mon2y-go/internal/games/chess"
	"github.com/lkingsford/mon2y-go/internal/games/connectfour"
	"github.com/lkingsford/mon2y-go/internal/games/pig"
)

func main() {
	var verbose bool

	root := &cobra.Command{
		Use:   "mon2y [config files...]",
		Short: "Run episodes of a game against configured seats",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level := log.LstdFlags
			out := os.Stderr
			logger := log.New(out, "", level)
			if !verbose {
				logger.SetOutput(discardWriter{})
			}

			for _, path := range args {
				if err := runConfigFile(path, logger); err != nil {
					return err
				}
			}
			return nil
		},
	}
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "log per-move decisions to stderr")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func runConfigFile(path string, logger *log.Logger) error {
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	results := make([]playerResult, len(cfg.Players))

	for episode := 0; episode < cfg.Episodes; episode++ {
		reward, err := playOneEpisode(cfg.Game, cfg.Players, logger, rng)
		if err != nil {
			return errors.Wrapf(err, "config %s episode %d", path, episode)
		}
		if len(reward) != len(results) {
			return errors.Errorf("config %s: game returned a reward vector of length %d for %d players", path, len(reward), len(results))
		}

		best := reward[0]
		for _, r := range reward {
			if r > best {
				best = r
			}
		}
		for i, r := range reward {
			results[i].totalReward += r
			if r == best {
				results[i].wins++
			}
		}
	}

	printResults(cfg, results)
	return nil
}

func playOneEpisode(gameName string, players []playerConfig, logger *log.Logger, rng *rand.Rand) ([]float64, error) {
	switch gameName {
	case "connectfour":
		return runEpisode[connectfour.Action](connectfour.New(), players, logger, rng)
	case "pig":
		return runEpisode[pig.Action](pig.New(len(players), 30, pig.FairDie), players, logger, rng)
	case "chess":
		return runEpisode[chess.Action](chess.New(), players, logger, rng)
	default:
		return nil, errors.Errorf("unknown game %q (want connectfour, pig or chess)", gameName)
	}
}

type playerResult struct {
	totalReward float64
	wins        int
}

func printResults(cfg episodeConfig, results []playerResult) {
	total := 0.0
	for _, r := range results {
		total += r.totalReward
	}

	fmt.Printf("\ngame: %s, episodes: %d\n", cfg.Game, cfg.Episodes)
	fmt.Println("player\treward\t%\twins\t%")
	for i, r := range results {
		rewardPct := 0.0
		if total != 0 {
			rewardPct = 100 * r.totalReward / total
		}
		winPct := 100 * float64(r.wins) / float64(cfg.Episodes)
		fmt.Printf("%d\t%.2f\t%.2f%%\t%d\t%.2f%%\n", i+1, r.totalReward, rewardPct, r.wins, winPct)
	}
}
