// Package numa models the NUMA topology the store partitions agents
// across (spec.md section 4.1, "NUMA balancing" and section 5). Actual
// OS-level topology discovery and CPU binding are platform syscalls this
// module does not shell out to (same boundary the teacher draws around
// OS-level websocket upgrade internals in server/server.go); Discover
// synthesizes a topology from GOMAXPROCS, and BindCurrentGoroutine is the
// seam a platform-specific build would replace, named the way
// SeleniaProject-Orizon's numa_optimizer.go names its NodeID/AffinityMask
// types.
package numa

import "runtime"

// NodeID identifies one NUMA domain.
type NodeID uint16

// Node is one NUMA domain's view of the topology: its id and the local
// thread ids (0..k-1) bound to it.
type Node struct {
	ID           NodeID
	LocalThreads int
}

// Topology is the discovered (or configured) NUMA layout.
type Topology struct {
	Nodes []Node
}

// NumNodes returns the number of NUMA domains.
func (t *Topology) NumNodes() int { return len(t.Nodes) }

// Discover builds a Topology. With no override it treats every 4 logical
// CPUs (OMP_PROC_BIND-style grouping) as one NUMA domain, with a floor of
// one domain, mirroring the coarse heuristic a container runtime without
// true NUMA visibility would use.
func Discover() *Topology {
	return DiscoverWithNodeCount(0)
}

// DiscoverWithNodeCount builds a Topology with an explicit node count,
// used by tests and by callers that already know the hardware layout.
// nodeCount <= 0 triggers the GOMAXPROCS/4 heuristic.
func DiscoverWithNodeCount(nodeCount int) *Topology {
	cpus := runtime.GOMAXPROCS(0)
	if cpus < 1 {
		cpus = 1
	}

	if nodeCount <= 0 {
		nodeCount = cpus / 4
		if nodeCount < 1 {
			nodeCount = 1
		}
	}

	base := cpus / nodeCount
	remainder := cpus % nodeCount

	nodes := make([]Node, nodeCount)
	for i := range nodes {
		threads := base
		if i < remainder {
			threads++
		}
		if threads < 1 {
			threads = 1
		}
		nodes[i] = Node{ID: NodeID(i), LocalThreads: threads}
	}
	return &Topology{Nodes: nodes}
}
