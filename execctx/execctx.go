// Package execctx implements ExecutionContext (spec.md section 3): a
// per-worker buffer that queues agent creations and removals during a
// row-wise operation so concurrent iteration never mutates AgentStore's
// shared slices directly. Buffers are fanned in and applied at the end
// of the iteration, mirroring how the teacher's reinforcement.Train
// fans in per-worker episode channels with channerics.Merge before a
// single estimator consumes them serially.
package execctx

import (
	channerics "github.com/niceyeti/channerics/channels"

	"simcore/agent"
	"simcore/uid"
)

// Mutation is one buffered store edit: either a new agent to create, or
// the Uid of an agent to remove. Exactly one of New or Remove is set.
type Mutation struct {
	New    agent.Agent
	Remove uid.Uid
}

// Context is the per-worker buffer a single goroutine writes to while
// running a row-wise operation over its chunk of agents. It is not safe
// for concurrent use by more than one goroutine.
type Context struct {
	worker int
	buf    []Mutation
}

// New returns an empty context for the given worker index (used only
// for diagnostics/ordering, not correctness).
func New(worker int) *Context {
	return &Context{worker: worker}
}

// CreateAgent queues a for insertion once this iteration's contexts are
// merged and applied.
func (c *Context) CreateAgent(a agent.Agent) {
	c.buf = append(c.buf, Mutation{New: a})
}

// RemoveAgent queues id for removal once this iteration's contexts are
// merged and applied.
func (c *Context) RemoveAgent(id uid.Uid) {
	c.buf = append(c.buf, Mutation{Remove: id})
}

// Drain returns and clears this context's buffered mutations.
func (c *Context) Drain() []Mutation {
	out := c.buf
	c.buf = nil
	return out
}

// Sink applies buffered agent creations and removals to a store.
// store.Store (the AgentStore) satisfies it.
type Sink interface {
	PushCell(c *agent.Cell) agent.Handle
	PushNeurite(n *agent.NeuriteElement) agent.Handle
	Remove(id uid.Uid)
}

// MergeAndApply fans every worker context's buffered mutations into one
// channel via channerics.Merge, then applies them to dst in the order
// received. done, if non-nil, allows early cancellation; nil means run
// to completion.
func MergeAndApply(done <-chan struct{}, dst Sink, contexts []*Context) {
	if len(contexts) == 0 {
		return
	}

	chans := make([]<-chan Mutation, 0, len(contexts))
	for _, c := range contexts {
		ch := make(chan Mutation, len(c.buf))
		for _, m := range c.Drain() {
			ch <- m
		}
		close(ch)
		chans = append(chans, ch)
	}

	merged := channerics.Merge(done, chans...)
	for m := range merged {
		applyOne(dst, m)
	}
}

func applyOne(dst Sink, m Mutation) {
	if m.New != nil {
		switch a := m.New.(type) {
		case *agent.Cell:
			dst.PushCell(a)
		case *agent.NeuriteElement:
			dst.PushNeurite(a)
		}
		return
	}
	dst.Remove(m.Remove)
}
