package jobshop

import (
	"fmt"
	"sort"
	"strings"
)

// Schedule holds concrete start times, one per operation. It is derived from
// a ResourceOrder and never modified after construction.
type Schedule struct {
	inst  *Instance
	start []int // job*Machines+step
}

// NewSchedule wraps start times given as start[job][step].
func NewSchedule(inst *Instance, start [][]int) (*Schedule, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	if len(start) != inst.Jobs {
		return nil, fmt.Errorf("start table must have %d jobs (got %d)", inst.Jobs, len(start))
	}
	flat := make([]int, inst.Operations())
	for j, row := range start {
		if len(row) != inst.Machines {
			return nil, fmt.Errorf("start table job %d must have %d steps (got %d)", j, inst.Machines, len(row))
		}
		copy(flat[j*inst.Machines:], row)
	}
	return &Schedule{inst: inst, start: flat}, nil
}

func (s *Schedule) Instance() *Instance { return s.inst }

func (s *Schedule) StartTime(op Operation) int {
	return s.start[op.Job*s.inst.Machines+op.Step]
}

func (s *Schedule) EndTime(op Operation) int {
	return s.StartTime(op) + s.inst.Duration(op)
}

// StartTimes returns a copy of the start table as [job][step].
func (s *Schedule) StartTimes() [][]int {
	out := make([][]int, s.inst.Jobs)
	for j := range out {
		out[j] = make([]int, s.inst.Machines)
		copy(out[j], s.start[j*s.inst.Machines:(j+1)*s.inst.Machines])
	}
	return out
}

func (s *Schedule) Makespan() int {
	ms := 0
	for j := 0; j < s.inst.Jobs; j++ {
		if end := s.EndTime(Operation{Job: j, Step: s.inst.Machines - 1}); end > ms {
			ms = end
		}
	}
	return ms
}

// IsValid reports whether start times are non-negative, job precedence holds
// and no two operations overlap on a machine.
func (s *Schedule) IsValid() bool {
	inst := s.inst
	for j := 0; j < inst.Jobs; j++ {
		for st := 0; st < inst.Machines; st++ {
			op := Operation{Job: j, Step: st}
			if s.StartTime(op) < 0 {
				return false
			}
			if st > 0 && s.EndTime(Operation{Job: j, Step: st - 1}) > s.StartTime(op) {
				return false
			}
		}
	}

	ops := make([]Operation, inst.Jobs)
	for m := 0; m < inst.Machines; m++ {
		for j := 0; j < inst.Jobs; j++ {
			ops[j] = Operation{Job: j, Step: inst.StepOnMachine(j, m)}
		}
		sort.SliceStable(ops, func(a, b int) bool {
			return s.StartTime(ops[a]) < s.StartTime(ops[b])
		})
		busyUntil := 0
		for _, op := range ops {
			if inst.Duration(op) == 0 {
				continue
			}
			if s.StartTime(op) < busyUntil {
				return false
			}
			busyUntil = s.EndTime(op)
		}
	}
	return true
}

// CriticalPath returns a chain of operations, in execution order, ending
// with the operation that determines the makespan. Without zero-length
// operations the chain starts at time 0. The walk starts from the operation
// that finishes last (lowest job index on ties) and repeatedly steps to a
// predecessor finishing exactly when the current operation starts,
// preferring the job predecessor over the machine predecessor.
func (s *Schedule) CriticalPath() []Operation {
	inst := s.inst
	last := Operation{Job: 0, Step: inst.Machines - 1}
	for j := 1; j < inst.Jobs; j++ {
		op := Operation{Job: j, Step: inst.Machines - 1}
		if s.EndTime(op) > s.EndTime(last) {
			last = op
		}
	}

	path := []Operation{last}
	cur := last
	for {
		start := s.StartTime(cur)
		if cur.Step > 0 {
			prev := Operation{Job: cur.Job, Step: cur.Step - 1}
			if s.EndTime(prev) == start {
				path = append(path, prev)
				cur = prev
				continue
			}
		}
		prev, ok := s.machinePredecessor(cur)
		if !ok {
			break
		}
		path = append(path, prev)
		cur = prev
	}

	for i, k := 0, len(path)-1; i < k; i, k = i+1, k-1 {
		path[i], path[k] = path[k], path[i]
	}
	return path
}

// machinePredecessor finds the operation on cur's machine that ends exactly
// when cur starts. Zero-length operations never bind.
func (s *Schedule) machinePredecessor(cur Operation) (Operation, bool) {
	m := s.inst.Machine(cur)
	start := s.StartTime(cur)
	for j := 0; j < s.inst.Jobs; j++ {
		if j == cur.Job {
			continue
		}
		op := Operation{Job: j, Step: s.inst.StepOnMachine(j, m)}
		if s.inst.Duration(op) > 0 && s.EndTime(op) == start {
			return op, true
		}
	}
	return Operation{}, false
}

func (s *Schedule) String() string {
	var b strings.Builder
	for j := 0; j < s.inst.Jobs; j++ {
		fmt.Fprintf(&b, "Job %d :", j)
		for st := 0; st < s.inst.Machines; st++ {
			op := Operation{Job: j, Step: st}
			fmt.Fprintf(&b, " [m%d %d-%d]", s.inst.Machine(op), s.StartTime(op), s.EndTime(op))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
