// Package mcts implements a root-parallel Monte-Carlo Tree Search engine
// for turn-based games that mix player decisions with chance events.
//
// The engine has four phases, repeated by every worker until the search
// budget is spent or the tree is proven fully explored: selection (descend
// via UCB1), expansion (materialize one Placeholder), simulation (a
// uniform-random rollout to a terminal state) and backpropagation (credit
// the rollout's reward back along the path). See Search for the entry
// point.
package mcts

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"github.com/lkingsford/mon2y-go/game"
)

// Search runs MCTS from initial until cfg's budget (Iterations, TimeLimit
// or ctx's own deadline/cancellation — whichever arrives first) is spent,
// or the tree is proven fully explored, and returns the action cfg.Policy
// selects at the root.
//
// initial must be a non-terminal state; calling Search on a terminal state
// is a contract violation and panics, since there is no move to search
// for (spec.md §4.5).
func Search[A game.Action](ctx context.Context, initial game.State[A], cfg SearchConfig, logger *log.Logger) (A, SearchStats, error) {
	var zero A
	if logger == nil {
		logger = log.New(discardWriter{}, "", 0)
	}
	if initial.IsTerminal() {
		panic(errors.New("mcts: contract violation: Search called on a terminal state"))
	}

	cfg = cfg.withDefaults()
	if cfg.Threads < 1 {
		return zero, SearchStats{}, errors.New("mcts: SearchConfig.Threads must be positive")
	}
	if cfg.ExplorationConstant <= 0 {
		return zero, SearchStats{}, errors.New("mcts: SearchConfig.ExplorationConstant must be positive")
	}

	tree, err := newTree[A](initial, cfg.ExplorationConstant)
	if err != nil {
		return zero, SearchStats{}, err
	}

	if order := tree.Root().ChildOrder(); len(order) == 1 {
		logger.Printf("mcts: root has a single legal action, skipping search")
		return order[0], SearchStats{}, nil
	}

	// The search needs at least one bound: a zero Iterations is accepted only
	// when TimeLimit or a context deadline bounds the search instead. Without
	// this, a config that omits both Iterations and
	// TimeLimit (and runs under a non-deadlined context) would search an
	// unbounded or infinite tree forever instead of failing fast. Checked
	// only once the single-legal-action short circuit above has had its
	// chance, since that case never actually iterates at all.
	if _, hasDeadline := ctx.Deadline(); cfg.Iterations == 0 && cfg.TimeLimit <= 0 && !hasDeadline {
		return zero, SearchStats{}, errors.New("mcts: contract violation: SearchConfig.Iterations must be positive unless TimeLimit or a context deadline bounds the search")
	}

	if cfg.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.TimeLimit)
		defer cancel()
	}

	start := time.Now()
	var iterations uint64
	var fullyExplored atomic.Bool

	seed := uint64(time.Now().UnixNano())
	if cfg.Seed != nil {
		seed = uint64(*cfg.Seed)
	}

	var mu sync.Mutex
	var errs *multierror.Error

	group, gctx := errgroup.WithContext(ctx)
	for worker := 0; worker < cfg.Threads; worker++ {
		worker := worker
		group.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = errors.Errorf("mcts: worker %d panicked: %v", worker, r)
				}
				if err != nil {
					mu.Lock()
					errs = multierror.Append(errs, err)
					mu.Unlock()
				}
			}()

			rng := rand.New(rand.NewSource(seed + uint64(worker)))
			for {
				select {
				case <-gctx.Done():
					return nil
				default:
				}
				if cfg.Iterations > 0 && atomic.LoadUint64(&iterations) >= cfg.Iterations {
					return nil
				}
				if fullyExplored.Load() {
					return nil
				}

				done, iterErr := tree.iterate(rng)
				if iterErr != nil {
					return iterErr
				}
				if done {
					fullyExplored.Store(true)
					return nil
				}
				atomic.AddUint64(&iterations, 1)
			}
		})
	}

	// group.Wait's own return only ever surfaces the first worker error;
	// errs (built from every worker's deferred append above) is what we
	// actually report, coalescing any workers that failed concurrently
	// before the group's context cancellation reached the others.
	_ = group.Wait()
	if errs.ErrorOrNil() != nil {
		return zero, SearchStats{}, errs.ErrorOrNil()
	}

	stats := SearchStats{
		Iterations:    atomic.LoadUint64(&iterations),
		Elapsed:       time.Since(start),
		FullyExplored: fullyExplored.Load(),
	}
	if stats.FullyExplored {
		logger.Printf("mcts: tree fully explored after %d iterations", stats.Iterations)
	}

	action, err := finalAction(tree.Root(), cfg.Policy)
	if err != nil {
		return zero, stats, err
	}
	return action, stats, nil
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
