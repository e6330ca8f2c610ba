package ops

import (
	"simcore/agent"
	"simcore/config"
	"simcore/diffusion"
	"simcore/execctx"
	"simcore/rng"
	"simcore/spatial"
)

// Env bundles the shared, read-mostly state every operation consults.
// Row-wise operations additionally receive a per-worker *execctx.Context
// and *rng.Stream, neither of which is safe to share across goroutines.
type Env struct {
	Step      int
	Config    *config.Config
	Index     *spatial.Index
	Resolver  agent.Resolver
	Diffusion *diffusion.Manager
}

// Worker carries the per-goroutine state a row-wise operation may
// mutate without contention: its execution-context buffer and its
// random stream (spec.md section 5, "ExecutionContext buffers: strictly
// thread-local").
type Worker struct {
	Ctx *execctx.Context
	RNG *rng.Stream
}
