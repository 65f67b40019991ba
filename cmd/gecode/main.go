// Command gecode solves the bundled constraint models with the parallel
// depth-first engine and reports solutions and search statistics.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Zalathar/gecode/internal/metrics"
	"github.com/Zalathar/gecode/pkg/fd"
	"github.com/Zalathar/gecode/pkg/search"
)

var (
	flagThreads  int
	flagCommit   int
	flagAdapt    int
	flagConfig   string
	flagAll      bool
	flagNodes    uint64
	flagFails    uint64
	flagTime     time.Duration
	flagMetrics  string
	flagLuby     uint64
	flagLogLevel string
)

func main() {
	root := &cobra.Command{
		Use:           "gecode",
		Short:         "Parallel depth-first constraint search",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(flagLogLevel)); err != nil {
				return fmt.Errorf("parse log level: %w", err)
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr,
				&slog.HandlerOptions{Level: level})))
			return nil
		},
	}
	pf := root.PersistentFlags()
	pf.IntVar(&flagThreads, "threads", 0, "worker count (0 = all cores)")
	pf.IntVar(&flagCommit, "commit-distance", 0, "cloning distance c_d")
	pf.IntVar(&flagAdapt, "adapt-distance", 0, "adaptive recomputation distance a_d")
	pf.StringVar(&flagConfig, "config", "", "YAML file with search options")
	pf.BoolVar(&flagAll, "all", false, "enumerate all solutions")
	pf.Uint64Var(&flagNodes, "node-limit", 0, "stop after this many nodes per worker")
	pf.Uint64Var(&flagFails, "fail-limit", 0, "stop after this many failures per worker")
	pf.DurationVar(&flagTime, "time-limit", 0, "stop after this wall-clock budget")
	pf.StringVar(&flagMetrics, "metrics", "", "serve Prometheus metrics on this address while solving")
	pf.Uint64Var(&flagLuby, "restart-luby", 0, "restart search with a Luby cutoff of this scale")
	pf.StringVar(&flagLogLevel, "log-level", "info", "slog level (debug, info, warn, error)")

	queens := &cobra.Command{
		Use:   "queens [n]",
		Short: "Solve n-queens",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := 8
			if len(args) == 1 {
				if _, err := fmt.Sscanf(args[0], "%d", &n); err != nil || n < 1 {
					return fmt.Errorf("invalid board size %q", args[0])
				}
			}
			m := fd.Queens(n)
			return solve(cmd.Context(), fmt.Sprintf("queens-%d", n), m)
		},
	}

	money := &cobra.Command{
		Use:   "money",
		Short: "Solve SEND+MORE=MONEY",
		RunE: func(cmd *cobra.Command, args []string) error {
			return solve(cmd.Context(), "send-more-money", fd.SendMoreMoney())
		},
	}

	root.AddCommand(queens, money)
	if err := root.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// options assembles search options from the config file and flags;
// flags win.
func options() (*search.Options, error) {
	opt := search.DefaultOptions()
	if flagConfig != "" {
		loaded, err := search.LoadOptions(flagConfig)
		if err != nil {
			return nil, err
		}
		opt = loaded
	}
	if flagThreads != 0 {
		opt.Threads = flagThreads
	}
	if flagCommit != 0 {
		opt.CommitDistance = flagCommit
	}
	if flagAdapt != 0 {
		opt.AdaptDistance = flagAdapt
	}
	var stops search.Or
	if flagNodes > 0 {
		stops = append(stops, search.NodeStop{Limit: flagNodes})
	}
	if flagFails > 0 {
		stops = append(stops, search.FailStop{Limit: flagFails})
	}
	if flagTime > 0 {
		stops = append(stops, search.NewTimeStop(flagTime))
	}
	if len(stops) > 0 {
		opt.Stop = stops
	}
	if flagLuby > 0 {
		opt.Cutoff = search.NewLubyCutoff(flagLuby)
	}
	return opt, nil
}

// solve runs the engine over the model, serving metrics alongside when
// requested.
func solve(ctx context.Context, name string, m *fd.Model) error {
	opt, err := options()
	if err != nil {
		return err
	}

	var eng search.Engine
	if opt.Cutoff != nil {
		eng, err = search.NewRBS(m.Space, opt)
	} else {
		eng, err = search.NewDFS(m.Space, opt)
	}
	if err != nil {
		return err
	}
	defer eng.Close()

	var g errgroup.Group
	var srv *http.Server
	if flagMetrics != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(metrics.NewCollector(eng.Statistics))
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv = &http.Server{Addr: flagMetrics, Handler: mux}
		g.Go(func() error {
			slog.Info("serving metrics", "addr", flagMetrics)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		defer func() {
			if srv != nil {
				sctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				_ = srv.Shutdown(sctx)
			}
		}()

		start := time.Now()
		found := 0
		for s := eng.Next(); s != nil; s = eng.Next() {
			found++
			fmt.Printf("%s #%d: %v\n", name, found, s.(*fd.Space).Assignment(m.Vars))
			if !flagAll {
				break
			}
		}
		stats := eng.Statistics()
		slog.Info("search finished",
			"model", name,
			"solutions", found,
			"stopped", eng.Stopped(),
			"nodes", stats.Node,
			"failures", stats.Fail,
			"propagations", stats.Propagate,
			"peak_depth", stats.Depth,
			"restarts", stats.Restart,
			"elapsed", time.Since(start).Round(time.Millisecond))
		return nil
	})

	return g.Wait()
}
