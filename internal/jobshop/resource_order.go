package jobshop

import (
	"fmt"
	"sort"
	"strings"
)

// ResourceOrder encodes a solution as the dispatch order of operations on
// every machine. Sequences have fixed length Jobs; nextFreeSlot counts the
// filled slots of each machine while the order is being built.
type ResourceOrder struct {
	inst         *Instance
	seqs         [][]Operation
	nextFreeSlot []int
}

// NewResourceOrder returns an empty order to be filled with Append.
func NewResourceOrder(inst *Instance) (*ResourceOrder, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	seqs := make([][]Operation, inst.Machines)
	backing := make([]Operation, inst.Machines*inst.Jobs)
	for m := range seqs {
		seqs[m] = backing[m*inst.Jobs : (m+1)*inst.Jobs]
	}
	return &ResourceOrder{inst: inst, seqs: seqs, nextFreeSlot: make([]int, inst.Machines)}, nil
}

// NewResourceOrderFromSequences builds a complete order from literal
// per-machine sequences. The sequences are copied and validated.
func NewResourceOrderFromSequences(inst *Instance, seqs [][]Operation) (*ResourceOrder, error) {
	ro, err := NewResourceOrder(inst)
	if err != nil {
		return nil, err
	}
	if len(seqs) != inst.Machines {
		return nil, fmt.Errorf("%w: expected %d machine sequences (got %d)", ErrMalformedEncoding, inst.Machines, len(seqs))
	}
	for m, seq := range seqs {
		if len(seq) != inst.Jobs {
			return nil, fmt.Errorf("%w: machine %d: expected %d operations (got %d)", ErrMalformedEncoding, m, inst.Jobs, len(seq))
		}
		copy(ro.seqs[m], seq)
		ro.nextFreeSlot[m] = inst.Jobs
	}
	if err := ro.Validate(); err != nil {
		return nil, err
	}
	return ro, nil
}

// ResourceOrderFromSchedule orders every machine's operations by start time.
// Equal start times keep job index order.
func ResourceOrderFromSchedule(s *Schedule) (*ResourceOrder, error) {
	inst := s.Instance()
	ro, err := NewResourceOrder(inst)
	if err != nil {
		return nil, err
	}
	for m := 0; m < inst.Machines; m++ {
		seq := ro.seqs[m]
		for j := 0; j < inst.Jobs; j++ {
			seq[j] = Operation{Job: j, Step: inst.StepOnMachine(j, m)}
		}
		sort.SliceStable(seq, func(a, b int) bool {
			return s.StartTime(seq[a]) < s.StartTime(seq[b])
		})
		ro.nextFreeSlot[m] = inst.Jobs
	}
	return ro, nil
}

func (ro *ResourceOrder) Instance() *Instance { return ro.inst }

// Append places op in the next free slot of its machine.
func (ro *ResourceOrder) Append(op Operation) error {
	if op.Job < 0 || op.Job >= ro.inst.Jobs || op.Step < 0 || op.Step >= ro.inst.Machines {
		return fmt.Errorf("%w: operation %v does not exist", ErrMalformedEncoding, op)
	}
	m := ro.inst.Machine(op)
	if ro.nextFreeSlot[m] >= ro.inst.Jobs {
		return fmt.Errorf("%w: machine %d is full", ErrSlotOutOfRange, m)
	}
	ro.seqs[m][ro.nextFreeSlot[m]] = op
	ro.nextFreeSlot[m]++
	return nil
}

// Machine returns a copy of the dispatch sequence of machine m.
func (ro *ResourceOrder) Machine(m int) []Operation {
	out := make([]Operation, len(ro.seqs[m]))
	copy(out, ro.seqs[m])
	return out
}

// At returns the operation at position i on machine m.
func (ro *ResourceOrder) At(m, i int) Operation {
	return ro.seqs[m][i]
}

// IndexOf returns the position of op in machine m's sequence, or -1.
func (ro *ResourceOrder) IndexOf(m int, op Operation) int {
	for i, o := range ro.seqs[m] {
		if o == op {
			return i
		}
	}
	return -1
}

// Validate checks that every machine sequence is complete and is a
// permutation of the operations requiring that machine.
func (ro *ResourceOrder) Validate() error {
	inst := ro.inst
	seen := make([]bool, inst.Jobs)
	for m, seq := range ro.seqs {
		if ro.nextFreeSlot[m] != inst.Jobs {
			return fmt.Errorf("%w: machine %d has %d of %d slots set", ErrMalformedEncoding, m, ro.nextFreeSlot[m], inst.Jobs)
		}
		for j := range seen {
			seen[j] = false
		}
		for i, op := range seq {
			if op.Job < 0 || op.Job >= inst.Jobs || op.Step < 0 || op.Step >= inst.Machines {
				return fmt.Errorf("%w: machine %d slot %d: operation %v does not exist", ErrMalformedEncoding, m, i, op)
			}
			if inst.Machine(op) != m {
				return fmt.Errorf("%w: machine %d slot %d: operation %v runs on machine %d", ErrMalformedEncoding, m, i, op, inst.Machine(op))
			}
			if seen[op.Job] {
				return fmt.Errorf("%w: machine %d: duplicate job %d", ErrMalformedEncoding, m, op.Job)
			}
			seen[op.Job] = true
		}
	}
	return nil
}

// ToSchedule runs list scheduling with the machine sequences as dispatch
// priority. Machines are scanned in index order and the first ready
// operation is placed at the earliest time allowed by its job predecessor
// and its machine.
func (ro *ResourceOrder) ToSchedule() (*Schedule, error) {
	if err := ro.Validate(); err != nil {
		return nil, err
	}
	inst := ro.inst

	start := make([]int, inst.Operations())
	machineFree := make([]int, inst.Machines)
	placedOnMachine := make([]int, inst.Machines)
	jobNextStep := make([]int, inst.Jobs)

	for placed := 0; placed < inst.Operations(); placed++ {
		progressed := false
		for m := 0; m < inst.Machines; m++ {
			if placedOnMachine[m] == inst.Jobs {
				continue
			}
			op := ro.seqs[m][placedOnMachine[m]]
			if op.Step != jobNextStep[op.Job] {
				continue
			}

			t := machineFree[m]
			if op.Step > 0 {
				prev := op.Job*inst.Machines + op.Step - 1
				if end := start[prev] + inst.Durations[prev]; end > t {
					t = end
				}
			}
			start[op.Job*inst.Machines+op.Step] = t

			placedOnMachine[m]++
			machineFree[m] = t + inst.Duration(op)
			jobNextStep[op.Job]++
			progressed = true
			break
		}
		if !progressed {
			return nil, fmt.Errorf("%w: %d of %d operations placed", ErrSimulationDeadlock, placed, inst.Operations())
		}
	}
	return &Schedule{inst: inst, start: start}, nil
}

// Copy returns an independent deep copy.
func (ro *ResourceOrder) Copy() *ResourceOrder {
	seqs := make([][]Operation, len(ro.seqs))
	backing := make([]Operation, ro.inst.Machines*ro.inst.Jobs)
	for m, seq := range ro.seqs {
		seqs[m] = backing[m*ro.inst.Jobs : (m+1)*ro.inst.Jobs]
		copy(seqs[m], seq)
	}
	next := make([]int, len(ro.nextFreeSlot))
	copy(next, ro.nextFreeSlot)
	return &ResourceOrder{inst: ro.inst, seqs: seqs, nextFreeSlot: next}
}

// ApplySwap exchanges positions i and j of machine m in place.
func (ro *ResourceOrder) ApplySwap(m, i, j int) error {
	if m < 0 || m >= ro.inst.Machines {
		return fmt.Errorf("%w: machine %d", ErrSlotOutOfRange, m)
	}
	if i < 0 || i >= ro.inst.Jobs || j < 0 || j >= ro.inst.Jobs {
		return fmt.Errorf("%w: machine %d positions %d,%d", ErrSlotOutOfRange, m, i, j)
	}
	ro.seqs[m][i], ro.seqs[m][j] = ro.seqs[m][j], ro.seqs[m][i]
	return nil
}

func (ro *ResourceOrder) Equal(other *ResourceOrder) bool {
	if other == nil || ro.inst != other.inst {
		return false
	}
	for m, seq := range ro.seqs {
		for i, op := range seq {
			if other.seqs[m][i] != op {
				return false
			}
		}
	}
	return true
}

func (ro *ResourceOrder) String() string {
	var b strings.Builder
	for m, seq := range ro.seqs {
		fmt.Fprintf(&b, "Machine %d :", m)
		for i := 0; i < ro.nextFreeSlot[m]; i++ {
			b.WriteByte(' ')
			b.WriteString(seq[i].String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}
