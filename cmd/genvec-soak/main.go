package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/outofforest/genvec/alloc"
	"github.com/outofforest/genvec/workload"
	"github.com/outofforest/logger"
	"github.com/outofforest/parallel"
)

type config struct {
	Workers  uint64
	Workload workload.Config
}

func main() {
	var (
		cfg    config
		policy string
	)

	flags := pflag.NewFlagSet("genvec-soak", pflag.ExitOnError)
	flags.Uint64Var(&cfg.Workers, "workers", uint64(runtime.NumCPU()), "number of workers, each owning its own arenas")
	flags.Uint64Var(&cfg.Workload.Operations, "operations", 1_000_000, "number of operations executed by each worker")
	flags.Uint64Var(&cfg.Workload.Components, "components", 4, "number of exposed arenas sharing one allocator")
	flags.Uint64Var(&cfg.Workload.Seed, "seed", 1, "seed of the first worker, next workers use subsequent seeds")
	flags.StringVar(&policy, "policy", "lifo", "free list policy: lifo or fifo")
	_ = flags.Parse(os.Args[1:])

	ctx, cancel := signal.NotifyContext(logger.WithLogger(context.Background(), logger.New(logger.DefaultConfig)),
		os.Interrupt)
	defer cancel()

	log := logger.Get(ctx)

	var err error
	cfg.Workload.Policy, err = parsePolicy(policy)
	if err == nil {
		err = run(ctx, cfg)
	}
	if err != nil {
		log.Error("Soak failed", zap.Error(err))
		cancel()
		os.Exit(1)
	}
}

func parsePolicy(policy string) (alloc.Policy, error) {
	switch strings.ToLower(policy) {
	case "lifo":
		return alloc.LIFO, nil
	case "fifo":
		return alloc.FIFO, nil
	default:
		return 0, errors.Errorf("unknown policy %q", policy)
	}
}

func run(ctx context.Context, cfg config) error {
	return parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
		for i := range cfg.Workers {
			spawn(fmt.Sprintf("worker-%02d", i), parallel.Continue, func(ctx context.Context) error {
				workloadConfig := cfg.Workload
				workloadConfig.Seed += i

				result, err := workload.Run(ctx, workloadConfig)
				if err != nil {
					return errors.Wrapf(err, "worker %d failed", i)
				}

				logger.Get(ctx).Info("Worker finished",
					zap.Uint64("worker", i),
					zap.Uint64("seed", workloadConfig.Seed),
					zap.Uint64("operations", result.Operations),
					zap.Uint64("inserted", result.Inserted),
					zap.Uint64("removed", result.Removed),
					zap.Uint64("staleProbes", result.StaleProbes),
					zap.Uint64("live", result.Live),
					zap.Uint64("maxGeneration", uint64(result.MaxGeneration)),
					zap.String("fingerprint", fmt.Sprintf("%016x", result.Fingerprint)))
				return nil
			})
		}
		return nil
	})
}
