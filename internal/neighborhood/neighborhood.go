// Package neighborhood builds the Nowicki–Smutnicki neighborhood of a
// resource order: critical blocks and the boundary swaps inside them.
package neighborhood

import (
	"fmt"

	"jobShop/internal/jobshop"
)

// Block is a maximal run of at least two consecutive critical operations on
// the same machine. First and Last are positions in that machine's sequence.
type Block struct {
	Machine int
	First   int
	Last    int
}

// Swap exchanges positions T1 and T2 of one machine sequence.
type Swap struct {
	Machine int
	T1      int
	T2      int
}

// Apply performs the swap in place. Applying it twice restores the order.
func (s Swap) Apply(order *jobshop.ResourceOrder) error {
	return order.ApplySwap(s.Machine, s.T1, s.T2)
}

func (s Swap) String() string {
	return fmt.Sprintf("m%d[%d<->%d]", s.Machine, s.T1, s.T2)
}

// Blocks splits a critical path into same-machine runs and returns those of
// length two or more, in path order.
func Blocks(path []jobshop.Operation, order *jobshop.ResourceOrder) []Block {
	inst := order.Instance()
	var blocks []Block

	emit := func(first, last int) {
		if last <= first {
			return
		}
		m := inst.Machine(path[first])
		blocks = append(blocks, Block{
			Machine: m,
			First:   order.IndexOf(m, path[first]),
			Last:    order.IndexOf(m, path[last]),
		})
	}

	runStart := 0
	for i := 1; i < len(path); i++ {
		if inst.Machine(path[i]) != inst.Machine(path[runStart]) {
			emit(runStart, i-1)
			runStart = i
		}
	}
	if len(path) > 0 {
		emit(runStart, len(path)-1)
	}
	return blocks
}

// Moves returns the swaps of the first two and of the last two operations of
// a block. A two-operation block yields a single swap.
func Moves(b Block) []Swap {
	moves := []Swap{{Machine: b.Machine, T1: b.First, T2: b.First + 1}}
	if b.Last-b.First > 1 {
		moves = append(moves, Swap{Machine: b.Machine, T1: b.Last - 1, T2: b.Last})
	}
	return moves
}

// Neighbors lists every candidate swap of order, whose simulated schedule is
// sched, in block then swap order.
func Neighbors(order *jobshop.ResourceOrder, sched *jobshop.Schedule) []Swap {
	var out []Swap
	for _, b := range Blocks(sched.CriticalPath(), order) {
		out = append(out, Moves(b)...)
	}
	return out
}

// Candidate is a neighbor of some order, fully evaluated.
type Candidate struct {
	Move     Swap
	Order    *jobshop.ResourceOrder
	Schedule *jobshop.Schedule
	Makespan int
}

// Evaluate applies move to a copy of order and simulates the result.
// order itself is not modified.
func Evaluate(order *jobshop.ResourceOrder, move Swap) (Candidate, error) {
	next := order.Copy()
	if err := move.Apply(next); err != nil {
		return Candidate{}, err
	}
	sched, err := next.ToSchedule()
	if err != nil {
		return Candidate{}, fmt.Errorf("move %v: %w", move, err)
	}
	return Candidate{Move: move, Order: next, Schedule: sched, Makespan: sched.Makespan()}, nil
}
