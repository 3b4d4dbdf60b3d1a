// Package synth provides best-first enumeration of derivation trees.
// This file implements the driver's priority queue. Entries are a tagged
// union over the two phases of the search: solver snapshots awaiting
// shape-branching, and uniform iterators awaiting their next filling.
package synth

import "container/heap"

type entryKind int

const (
	entrySnapshot entryKind = iota
	entryUniform
)

// queueEntry is one pending unit of search work.
type queueEntry struct {
	kind     entryKind
	state    *SolverState     // set when kind == entrySnapshot
	uniform  *UniformIterator // set when kind == entryUniform
	priority float64
	seq      uint64 // insertion order, breaks priority ties deterministically
}

// searchQueue is a min-heap over (priority, seq).
type searchQueue []*queueEntry

func (q searchQueue) Len() int { return len(q) }

func (q searchQueue) Less(i, j int) bool {
	if q[i].priority != q[j].priority {
		return q[i].priority < q[j].priority
	}
	return q[i].seq < q[j].seq
}

func (q searchQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *searchQueue) Push(x any) { *q = append(*q, x.(*queueEntry)) }

func (q *searchQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return e
}

var _ heap.Interface = (*searchQueue)(nil)
