// Command pagesim replays a page reference string through
// an LRU page table, allocating random frames on each fault.
//
// Usage:
//
//	pagesim [-capacity 4] [-frames 1024] [-seed 0] [-variant auto] [page ...]
//
// Without pages, the reference string 7 0 1 2 0 3 0 4 2 3 0 3 2 is used.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/djdv/go-pagecache"
)

type config struct {
	capacity, frames int
	seed             uint64
	variant          string
	pages            []int
}

var errUsage = errors.New("usage")

func main() {
	logger := configureLogging(os.Stderr)
	if err := run(os.Args[1:], os.Stdout, logger); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		logger.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer, logger *slog.Logger) error {
	cfg, err := parseFlags(args)
	if err != nil {
		return err
	}
	table, err := newTable(cfg, logger)
	if err != nil {
		return err
	}
	var (
		rng      = rand.New(rand.NewPCG(cfg.seed, cfg.seed))
		allocate = func() (int, error) {
			return rng.IntN(cfg.frames), nil
		}
	)
	logger.Info("replaying reference string",
		"variant", fmt.Sprintf("%T", table),
		"capacity", cfg.capacity,
		"pages", len(cfg.pages),
	)
	for _, page := range cfg.pages {
		frame, err := table.Resolve(page, allocate)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "received frame %d. Page faults so far: %d\n",
			frame, table.Stats().Faults)
	}
	stats := table.Stats()
	fmt.Fprintf(out, "faults: %d hits: %d evictions: %d hit ratio: %.2f resident: %v\n",
		stats.Faults, stats.Hits, stats.Evictions,
		stats.HitRatio(), slices.Collect(table.Keys()))
	return nil
}

func parseFlags(args []string) (config, error) {
	var (
		cfg   config
		flags = flag.NewFlagSet("pagesim", flag.ContinueOnError)
	)
	flags.IntVar(&cfg.capacity, "capacity", 4, "number of page table entries")
	flags.IntVar(&cfg.frames, "frames", 1024, "number of physical frames to allocate from")
	flags.Uint64Var(&cfg.seed, "seed", 0, "frame allocation seed (0 picks one from the clock)")
	flags.StringVar(&cfg.variant, "variant", "auto", "page table implementation: indexed, linear or auto")
	if err := flags.Parse(args); err != nil {
		return cfg, err
	}
	if cfg.frames < 1 {
		return cfg, fmt.Errorf("%w: -frames must be positive, got %d", errUsage, cfg.frames)
	}
	if cfg.seed == 0 {
		cfg.seed = uint64(time.Now().UnixNano())
	}
	if flags.NArg() == 0 {
		cfg.pages = []int{7, 0, 1, 2, 0, 3, 0, 4, 2, 3, 0, 3, 2}
		return cfg, nil
	}
	cfg.pages = make([]int, flags.NArg())
	for i, arg := range flags.Args() {
		page, err := strconv.Atoi(arg)
		if err != nil {
			return cfg, fmt.Errorf("%w: page %q: %w", errUsage, arg, err)
		}
		cfg.pages[i] = page
	}
	return cfg, nil
}

func newTable(cfg config, logger *slog.Logger) (pagecache.Table[int, int], error) {
	var (
		options = []pagecache.Option[int, int]{
			pagecache.WithLogger[int, int](logger),
		}
		table pagecache.Table[int, int]
		err   error
	)
	switch cfg.variant {
	case "indexed":
		table, err = pagecache.New(cfg.capacity, options...)
	case "linear":
		table, err = pagecache.NewLinear(cfg.capacity, options...)
	case "auto":
		table, err = pagecache.NewTable(cfg.capacity, options...)
	default:
		return nil, fmt.Errorf("%w: unknown variant %q", errUsage, cfg.variant)
	}
	if err != nil {
		return nil, err
	}
	return table, nil
}
