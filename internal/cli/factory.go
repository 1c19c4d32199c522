package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/svgflat"
	"github.com/aretw0/svgflat/internal/adapters/file"
	redisAdapter "github.com/aretw0/svgflat/internal/adapters/redis"
	"github.com/aretw0/svgflat/internal/config"
	"github.com/aretw0/svgflat/internal/keylock"
	"github.com/aretw0/svgflat/internal/metrics"
	"github.com/aretw0/svgflat/pkg/adapters/memory"
	"github.com/aretw0/svgflat/pkg/adapters/process"
	"github.com/aretw0/svgflat/pkg/ports"
)

// LockPrefix namespaces the distributed conversion locks in Redis.
const LockPrefix = "svgflat:lock:"

// Stack bundles what a command needs to run conversions.
type Stack struct {
	Flattener *svgflat.Flattener
	Metrics   *metrics.Metrics
	Locks     *keylock.Manager
	Logger    *slog.Logger
	Config    config.Config

	closers []func() error
}

// NewStack builds a Flattener from cfg: tool commands, cache backend,
// metrics and debug hooks. extra options are applied last.
func NewStack(cfg config.Config, logger *slog.Logger, extra ...svgflat.Option) (*Stack, error) {
	s := &Stack{
		Metrics: metrics.New(),
		Logger:  logger,
		Config:  cfg,
	}

	if cfg.ToolsFile != "" {
		tools, err := process.LoadTools(cfg.ToolsFile)
		if err != nil {
			return nil, err
		}
		cfg.Normalizer, cfg.Exporter = tools.Normalizer, tools.Exporter
		s.Config = cfg
	}
	runOpts := []process.RunnerOption{process.WithLogger(logger)}
	if cfg.WorkDir != "" {
		runOpts = append(runOpts, process.WithBaseDir(cfg.WorkDir))
	}

	lockOpts := []keylock.Option{keylock.WithLogger(logger)}
	opts := []svgflat.Option{
		svgflat.WithLogger(logger),
		svgflat.WithMaxDepth(cfg.MaxDepth),
		svgflat.WithCycleDetection(!cfg.AllowCycles),
		svgflat.WithHooks(s.Metrics.Hooks()),
		svgflat.WithHooks(createDebugHooks(logger)),
		svgflat.WithNormalizer(process.NewNormalizer(cfg.Normalizer, runOpts...)),
		svgflat.WithExporter(process.NewExporter(cfg.Exporter, runOpts...)),
	}

	cache, err := s.newCache(cfg.Cache)
	if err != nil {
		return nil, err
	}
	if cache != nil {
		opts = append(opts,
			svgflat.WithCache(cache),
			svgflat.WithCacheObserver(s.Metrics.ObserveCache),
		)
		if rc, ok := cache.(*redisAdapter.Cache); ok {
			locker := redisAdapter.NewLocker(rc.Client(), LockPrefix)
			lockOpts = append(lockOpts, keylock.WithLocker(locker, keylock.DefaultTTL))
		}
		logger.Debug("Normalization cache enabled", "backend", cfg.Cache.Backend)
	}

	s.Locks = keylock.New(lockOpts...)
	s.Flattener = svgflat.New(append(opts, extra...)...)
	return s, nil
}

func (s *Stack) newCache(cfg config.CacheConfig) (ports.Cache, error) {
	switch cfg.Backend {
	case "", config.CacheNone:
		return nil, nil
	case config.CacheMemory:
		return memory.NewCache(), nil
	case config.CacheFile:
		return file.New(cfg.Dir), nil
	case config.CacheRedis:
		rc := redisAdapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redisAdapter.WithPrefix(cfg.Redis.Prefix),
			redisAdapter.WithTTL(cfg.Redis.TTL),
		)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rc.Client().Ping(ctx).Err(); err != nil {
			rc.Client().Close()
			return nil, fmt.Errorf("cannot reach redis at %s: %w", cfg.Redis.Addr, err)
		}
		s.closers = append(s.closers, rc.Client().Close)
		return rc, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// Preflight checks that input exists, then that the external tools are
// installed, so a bad path is reported as such even without Inkscape.
func (s *Stack) Preflight(input string) error {
	if err := svgflat.CheckInput(input); err != nil {
		return err
	}
	return s.CheckTools()
}

// CheckTools reports missing external tools with an install hint.
func (s *Stack) CheckTools() error {
	if s.Config.Normalizer.Command == s.Config.Exporter.Command {
		return process.Available(s.Config.Normalizer)
	}
	return errors.Join(
		process.Available(s.Config.Normalizer),
		process.Available(s.Config.Exporter),
	)
}

// Close releases backend connections and writes the metrics textfile when
// one is configured.
func (s *Stack) Close() error {
	var errs []error
	if s.Config.MetricsFile != "" {
		errs = append(errs, s.Metrics.WriteTextfile(s.Config.MetricsFile))
	}
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
