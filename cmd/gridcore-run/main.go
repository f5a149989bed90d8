// gridcore-run starts a pool of parallel grid-defense simulation instances
// and, unless -headless, a live dashboard for watching them run.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"runtime"
	"time"

	"gridcore/config"
	"gridcore/constants"
	"gridcore/dashboard"
	"gridcore/runner"
	"gridcore/sim"
	"gridcore/telemetry"
)

var (
	configPath *string
	nworkers   *int
	headless   *bool
)

func init() {
	configPath = flag.String("config", "./config.yaml", "path to the runtime config file")
	nworkers = flag.Int("nworkers", 0, "number of parallel simulation instances (0 = config/default)")
	headless = flag.Bool("headless", false, "disable the live dashboard")
	flag.Parse()
}

func loadConfig() *config.Config {
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("no usable config at %s (%v), using defaults", *configPath, err)
		cfg = config.Default()
	}
	if *nworkers > 0 {
		cfg.Runner.NumWorkers = *nworkers
	}
	if cfg.Runner.NumWorkers <= 0 {
		cfg.Runner.NumWorkers = runtime.NumCPU()
	}
	return cfg
}

// randomPolicy picks a uniformly random legal action every tick, useful as
// a baseline driver until a trained policy is wired in.
func randomPolicy(rng *rand.Rand) runner.Policy {
	return func(s *sim.State) int {
		mask := s.ActionMask()
		legal := make([]int, 0, constants.NumActions)
		for a, ok := range mask {
			if ok {
				legal = append(legal, a)
			}
		}
		if len(legal) == 0 {
			return constants.NoOpAction
		}
		return legal[rng.Intn(len(legal))]
	}
}

func runApp() error {
	cfg := loadConfig()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	stats := &telemetry.PoolStats{}
	policySource := rand.New(rand.NewSource(cfg.Engine.Seed ^ 0x5bd1e995))

	pool := &runner.Pool{
		NumWorkers:    cfg.Runner.NumWorkers,
		SpawnInterval: cfg.Engine.SpawnInterval,
		Stats:         stats,
		Policy:        randomPolicy(policySource),
		SeedFor: func(workerID, episode int) int64 {
			return cfg.Engine.Seed + int64(workerID)*1_000_003 + int64(episode)
		},
	}

	reports, err := pool.Run(ctx)
	if err != nil {
		return fmt.Errorf("starting pool: %w", err)
	}

	if *headless {
		for range reports {
			// Drain silently; headless mode does not log throughput.
		}
		return nil
	}

	addr := cfg.Dashboard.Host + ":" + cfg.Dashboard.Port
	hub := dashboard.New(addr, reports)

	go logThroughput(ctx, stats)

	log.Printf("dashboard listening on %s", addr)
	return hub.Serve(ctx)
}

func logThroughput(ctx context.Context, stats *telemetry.PoolStats) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			log.Printf("steps=%.0f episodes=%.0f", stats.Steps.Read(), stats.Episodes.Read())
		}
	}
}

func main() {
	if err := runApp(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
