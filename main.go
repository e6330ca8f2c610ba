// Command simcore drives one simulation run: load bdm.toml, build the
// default population and operation registry, then run the scheduler
// for the requested number of steps (spec.md section 6).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"simcore/agent"
	"simcore/backup"
	"simcore/behavior"
	"simcore/config"
	"simcore/diffusion"
	"simcore/logx"
	"simcore/numa"
	"simcore/ops"
	"simcore/scheduler"
	"simcore/server"
	"simcore/spatial"
	"simcore/store"
)

var (
	backupFile  string
	restoreFile string
	verbosity   int
	steps       int
	seed        int64
	httpAddr    string
)

func main() {
	root := &cobra.Command{
		Use:           "simcore",
		Short:         "Agent-based tissue-scale simulation engine core",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	flags := root.Flags()
	flags.StringVarP(&backupFile, "backup", "b", "", "backup file (overrides config)")
	flags.StringVarP(&restoreFile, "restore", "r", "", "restore file (overrides config)")
	flags.CountVarP(&verbosity, "verbose", "v", "increase verbosity (stack up to 3 times)")
	flags.IntVarP(&steps, "steps", "n", 100, "number of steps to simulate")
	flags.Int64Var(&seed, "seed", 1, "RNG master seed")
	flags.StringVar(&httpAddr, "http", "", "serve live stats on this address (disabled if empty)")

	if err := root.Execute(); err != nil {
		logx.Recoverable("main", "%v", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logx.SetVerbosity(verbosity)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if backupFile != "" {
		cfg.Simulation.BackupFile = backupFile
	}
	if restoreFile != "" {
		cfg.Simulation.RestoreFile = restoreFile
	}

	topo := numa.Discover()
	st := store.NewStore(topo)
	st.Register(agent.KindCell)
	st.Register(agent.KindNeuriteElement)

	seedPopulation(st)

	idx := spatial.NewIndex()
	diffMgr := diffusion.NewManager()

	reg := ops.NewRegistry()
	reg.RegisterRow(ops.NewFirstOp())
	if cfg.Simulation.BoundSpace {
		min := agent.Vec3{cfg.Simulation.MinBound, cfg.Simulation.MinBound, cfg.Simulation.MinBound}
		max := agent.Vec3{cfg.Simulation.MaxBound, cfg.Simulation.MaxBound, cfg.Simulation.MaxBound}
		reg.RegisterRow(ops.NewBoundSpace(min, max))
	}
	reg.RegisterRow(ops.NewBehaviors())
	if cfg.Simulation.RunMechanicalInteractions {
		reg.RegisterRow(ops.NewDisplacement(cfg.Simulation.TimeStep, cfg.Simulation.MaxDisplacement))
	}
	reg.RegisterRow(ops.NewDiscretization())
	reg.RegisterColumn(ops.NewDiffusionOp())
	reg.RegisterRow(ops.NewLastOp())

	sched := scheduler.New(cfg, st, idx, diffMgr, reg, seed)

	if httpAddr != "" {
		srv := server.NewServer(httpAddr)
		sched.Publisher = publisherFunc(func(step, agentCount int, grids []scheduler.GridStats) {
			stats := server.SimStats{Step: step, AgentCount: agentCount}
			for _, g := range grids {
				stats.Grids = append(stats.Grids, server.GridStats{ID: g.ID, Name: g.Name, Sum: g.Sum})
			}
			srv.Publish(stats)
		})
		go func() {
			if err := srv.Serve(); err != nil {
				logx.Recoverable("main", "stats server stopped: %v", err)
			}
		}()
	}

	if cfg.Simulation.RestoreFile != "" {
		snap, err := backup.Load(cfg.Simulation.RestoreFile)
		if err != nil {
			logx.Recoverable("main", "restore failed, starting fresh: %v", err)
		} else {
			sched.LoadRestoreFile(snap)
		}
	}

	sched.Simulate(steps)
	return nil
}

// publisherFunc adapts a plain function to scheduler.Publisher.
type publisherFunc func(step, agentCount int, grids []scheduler.GridStats)

func (f publisherFunc) Publish(step, agentCount int, grids []scheduler.GridStats) {
	f(step, agentCount, grids)
}

// seedPopulation places a small starting population of cells so
// Simulate's "at least one agent" invariant holds (spec.md section
// 4.4, section 7). Each cell carries a GrowDivide behavior so the
// default run actually exercises growth and division, not just
// mechanical interaction. A real driver would load this from a
// model-specific setup function; this module ships the minimal
// reference population.
func seedPopulation(st *store.Store) {
	c := agent.NewCell(agent.Vec3{0, 0, 0}, 10)
	c.AddBehavior(behavior.NewGrowDivide(0.5, agent.VolumeOfDiameter(20)))
	st.PushCell(c)
}
