// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framegraph

import (
	"fmt"
	"time"
)

// ScheduleProfile selects how Schedule orders the tasks.
type ScheduleProfile int

const (
	// ProfileNoOptimization keeps the authoring order (falling back to a
	// stable topological sort if a dependency points backward).
	ProfileNoOptimization ScheduleProfile = iota

	// ProfileMaximizeAliasing reorders tasks to minimize the number of
	// dependency edges crossing each prefix of the order, which keeps
	// resource lifetimes short and maximizes aliasing opportunities.
	// Exponential in task count; see MaxAliasingTasks.
	ProfileMaximizeAliasing
)

// String returns the profile name.
func (p ScheduleProfile) String() string {
	switch p {
	case ProfileNoOptimization:
		return "NoOptimization"
	case ProfileMaximizeAliasing:
		return "MaximizeAliasing"
	default:
		return fmt.Sprintf("ScheduleProfile(%d)", int(p))
	}
}

// MaxAliasingTasks is the largest graph ProfileMaximizeAliasing accepts.
// The optimal ordering is the directed minimum linear arrangement, an
// NP-hard problem solved here exactly by dynamic programming over node
// subsets keyed by a 64-bit set; beyond a few dozen tasks the 2^N table is
// infeasible.
const MaxAliasingTasks = 24

// Schedule computes the submission order for the frame's tasks. The result
// is a permutation of all tasks in which every dependency's source precedes
// its destination, under either profile.
func (g *Graph) Schedule(profile ScheduleProfile) ([]TaskID, error) {
	start := time.Now()
	log := Logger()

	var (
		order []TaskID
		err   error
	)
	switch profile {
	case ProfileMaximizeAliasing:
		order, err = g.minimalLinearOrdering()
	default:
		order = g.authoringOrder()
	}
	if err != nil {
		return nil, err
	}

	log.Debug("framegraph: scheduling done",
		"profile", profile.String(),
		"tasks", len(order),
		"elapsed", time.Since(start))
	return order, nil
}

// authoringOrder returns the order tasks were created in when that order
// respects every edge, and a stable topological sort (smallest task first)
// otherwise. Dependencies are normally added from earlier tasks to later
// ones, so the fallback only triggers when a frame wires an edge backward.
func (g *Graph) authoringOrder() []TaskID {
	n := len(g.tasks)
	order := make([]TaskID, n)
	for i := range order {
		order[i] = TaskID(i)
	}
	for i := range g.edges {
		if g.edges[i].src > g.edges[i].dst {
			return g.topoSort()
		}
	}
	return order
}

// topoSort is Kahn's algorithm picking the smallest ready task first, so the
// result is deterministic and as close to authoring order as the edges
// allow. The graph is acyclic by construction (AddDependency rejects
// cycles), so every task is emitted.
func (g *Graph) topoSort() []TaskID {
	n := len(g.tasks)
	indeg := make([]int, n)
	for i := range g.edges {
		indeg[g.edges[i].dst]++
	}

	order := make([]TaskID, 0, n)
	emitted := make([]bool, n)
	for len(order) < n {
		for t := 0; t < n; t++ {
			if !emitted[t] && indeg[t] == 0 {
				emitted[t] = true
				order = append(order, TaskID(t))
				for _, eid := range g.out[t] {
					indeg[g.edges[eid].dst]--
				}
				break
			}
		}
	}
	return order
}

// partialOrdering is the DP table entry for one subset of tasks: the best
// known total cost, the cut of that arrangement (edges leaving the subset),
// and the task placed last to reach it.
type partialOrdering struct {
	cost  int
	cut   int
	right TaskID
}

// minimalLinearOrdering computes the exact directed minimum linear
// arrangement: the topological order minimizing the sum over all prefixes
// of the number of edges leaving the prefix. Subsets are keyed by a uint64
// bitset of task IDs.
//
// Only tasks on the "ready frontier" of a subset (all incoming edges from
// inside it) may extend it, so every arrangement read from the table is a
// valid topological order.
func (g *Graph) minimalLinearOrdering() ([]TaskID, error) {
	n := len(g.tasks)
	if n == 0 {
		return nil, nil
	}
	if n > MaxAliasingTasks {
		return nil, fmt.Errorf("%w: %d tasks, limit %d", ErrGraphTooLarge, n, MaxAliasingTasks)
	}
	log := Logger()

	table := make(map[uint64]partialOrdering)
	bySize := make([][]uint64, n+1)

	// Seed with the tasks that have no incoming edges.
	for t := 0; t < n; t++ {
		if len(g.in[t]) == 0 {
			mask := uint64(1) << t
			table[mask] = partialOrdering{
				cost:  0,
				cut:   len(g.out[t]),
				right: TaskID(t),
			}
			bySize[1] = append(bySize[1], mask)
		}
	}

	// Grow subsets one task at a time. Appending a ready task t changes the
	// cut by outdeg(t)-indeg(t): its incoming edges no longer leave the
	// subset, its outgoing edges now do.
	for size := 1; size < n; size++ {
		log.Debug("framegraph: scheduling partial orderings",
			"size", size, "subsets", len(bySize[size]))
		for _, mask := range bySize[size] {
			ord := table[mask]
			for t := 0; t < n; t++ {
				bit := uint64(1) << t
				if mask&bit != 0 || !g.readyInSubset(TaskID(t), mask) {
					continue
				}
				ncut := ord.cut - len(g.in[t]) + len(g.out[t])
				ncost := ord.cost + ncut
				nmask := mask | bit
				prev, ok := table[nmask]
				if !ok {
					bySize[size+1] = append(bySize[size+1], nmask)
				}
				if !ok || ncost < prev.cost {
					table[nmask] = partialOrdering{
						cost:  ncost,
						cut:   ncut,
						right: TaskID(t),
					}
				}
			}
		}
	}

	// Read the ordering back from the full set, rightmost task first.
	full := (uint64(1) << n) - 1
	log.Debug("framegraph: minimal arrangement found",
		"cost", table[full].cost, "subsets", len(table))

	order := make([]TaskID, 0, n)
	for mask := full; mask != 0; {
		ord, ok := table[mask]
		if !ok {
			// Unreachable for an acyclic graph: every subset built from
			// ready frontiers is recorded.
			return nil, fmt.Errorf("framegraph: no arrangement for subset %#x", mask)
		}
		order = append(order, ord.right)
		mask &^= uint64(1) << ord.right
	}
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}

// readyInSubset reports whether every incoming edge of t originates inside
// the subset, i.e. t may be appended without violating an edge.
func (g *Graph) readyInSubset(t TaskID, mask uint64) bool {
	for _, eid := range g.in[t] {
		if mask&(uint64(1)<<g.edges[eid].src) == 0 {
			return false
		}
	}
	return true
}
