// Package runner drives a pool of independent simulation instances in
// parallel: each worker goroutine owns its own simulation and a pool-wide
// errgroup manages their lifetime, with completed episodes fanned into a
// single merged channel (channerics.Merge) purely for reporting. Instances
// never share state, so there is nothing for a consumer to update the way
// a shared accumulator would be — the merged channel exists only to
// surface episode outcomes for logging or a dashboard.
package runner

import (
	"context"

	channerics "github.com/niceyeti/channerics/channels"
	"golang.org/x/sync/errgroup"

	"gridcore/constants"
	"gridcore/sim"
	"gridcore/telemetry"
)

// Policy chooses the next action given the current simulation instance. The
// runner is action-agnostic — it knows nothing about learning, only about
// driving instances to completion — so callers supply their own policy
// (e.g. random, or a trained agent's inference call).
type Policy func(s *sim.State) int

// EpisodeReport summarizes one completed episode, emitted onto the runner's
// merged output channel for dashboards/loggers to consume.
type EpisodeReport struct {
	WorkerID   int
	Ticks      uint32
	Reward     float64
	Terminated bool
}

// Pool runs N independent simulation instances concurrently, each its own
// episode loop, and reports throughput via shared Stats counters.
type Pool struct {
	NumWorkers    int
	SpawnInterval int
	Stats         *telemetry.PoolStats
	Policy        Policy

	// SeedFor returns the seed for worker i's n-th episode, so a caller can
	// make the whole pool reproducible (e.g. SeedFor = func(i, episode int)
	// int64 { return baseSeed + int64(i)*1_000_000 + int64(episode) }) or
	// pass nil to seed every episode from OS entropy.
	SeedFor func(workerID, episode int) int64
}

// Run starts the pool and returns a channel of episode reports merged
// across all workers (channerics.Merge), closing it when ctx is canceled or
// any worker returns an error. Run returns at once; the workers keep running
// in the background until ctx is canceled.
func (p *Pool) Run(ctx context.Context) (<-chan EpisodeReport, error) {
	g, gctx := errgroup.WithContext(ctx)

	workers := make([]<-chan EpisodeReport, p.NumWorkers)
	for i := 0; i < p.NumWorkers; i++ {
		id := i
		reports := make(chan EpisodeReport)
		workers[id] = reports

		g.Go(func() error {
			defer close(reports)
			return p.runWorker(gctx, id, reports)
		})
	}

	merged := channerics.Merge(ctx.Done(), workers...)

	go func() {
		// Drain errgroup in the background so Run can return the live
		// channel immediately. The error from Wait is discarded.
		_ = g.Wait()
	}()

	return merged, nil
}

func (p *Pool) runWorker(ctx context.Context, id int, out chan<- EpisodeReport) error {
	episode := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		s := p.newInstance(id, episode)
		ticksThisEpisode := uint32(0)
		episodeReward := 0.0

		for {
			action := constants.NoOpAction
			if p.Policy != nil {
				action = p.Policy(s)
			}
			result := s.Step(action)
			ticksThisEpisode++
			episodeReward += result.Reward
			p.Stats.Steps.Add(1)

			if result.Terminated || result.Truncated {
				report := EpisodeReport{
					WorkerID:   id,
					Ticks:      ticksThisEpisode,
					Reward:     episodeReward,
					Terminated: result.Terminated,
				}
				p.Stats.Episodes.Add(1)

				select {
				case out <- report:
				case <-ctx.Done():
					return nil
				}
				break
			}
		}
		episode++
	}
}

func (p *Pool) newInstance(workerID, episode int) *sim.State {
	if p.SeedFor == nil {
		return sim.NewFromEntropy(p.SpawnInterval)
	}
	return sim.New(p.SpawnInterval, p.SeedFor(workerID, episode))
}
