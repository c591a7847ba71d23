// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framegraph

// CommandGroup is a maximal run of consecutive tasks in a computed order
// that target the same queue. Each group can be recorded into one command
// buffer; synchronization primitives are only needed at group boundaries.
type CommandGroup struct {
	// Queue is the queue every task in the group targets.
	Queue QueueID

	// Tasks are the group's tasks, in submission order.
	Tasks []TaskID
}

// CommandGroups partitions an ordering into maximal contiguous same-queue
// runs. The order is typically the result of Schedule; tasks not in the
// graph are skipped.
func (g *Graph) CommandGroups(order []TaskID) []CommandGroup {
	var groups []CommandGroup
	for _, t := range order {
		if !g.validTask(t) {
			continue
		}
		q := g.tasks[t].Queue
		if len(groups) == 0 || groups[len(groups)-1].Queue != q {
			groups = append(groups, CommandGroup{Queue: q})
		}
		last := &groups[len(groups)-1]
		last.Tasks = append(last.Tasks, t)
	}
	return groups
}

// CrossQueueSyncs returns the dependency edges that require a cross-queue
// synchronization primitive (a semaphore or timeline wait), one per edge,
// with redundant edges elided.
//
// A candidate edge b is redundant when some other retained candidate a
// already implies it: the source of b reaches the source of a, and the
// destination of a reaches the destination of b, so the transitive
// composition path(b.src -> a.src) -> sync(a) -> path(a.dst -> b.dst)
// orders b's endpoints without a primitive of its own.
func (g *Graph) CrossQueueSyncs() []DependencyID {
	var syncs []DependencyID
	for i := range g.edges {
		e := &g.edges[i]
		if g.tasks[e.src].Queue != g.tasks[e.dst].Queue {
			syncs = append(syncs, DependencyID(i))
		}
	}

	log := Logger()
	log.Debug("framegraph: cross-queue sync edges before simplification", "count", len(syncs))

	// Repeatedly drop implied candidates. Removing one candidate can only
	// be justified by candidates still in the list, so iterate in place.
	for i := 0; i < len(syncs); {
		b := &g.edges[syncs[i]]
		redundant := false
		for j, aid := range syncs {
			if j == i {
				continue
			}
			a := &g.edges[aid]
			if g.hasPath(b.src, a.src) && g.hasPath(a.dst, b.dst) {
				redundant = true
				break
			}
		}
		if redundant {
			syncs = append(syncs[:i], syncs[i+1:]...)
		} else {
			i++
		}
	}

	log.Debug("framegraph: cross-queue sync edges after simplification", "count", len(syncs))
	return syncs
}
