package jobshop

import (
	"fmt"
	"math/rand"
)

// Instance is an immutable job-shop problem. Every job visits every machine
// exactly once; step order is execution order within the job.
type Instance struct {
	Jobs     int
	Machines int
	// MachineOf and Durations are indexed by job*Machines+step.
	MachineOf []int
	Durations []int

	stepOnMachine []int // job*Machines+machine -> step
}

func NewInstance(jobs, machines int, machineOf, durations []int) (*Instance, error) {
	inst := &Instance{Jobs: jobs, Machines: machines, MachineOf: machineOf, Durations: durations}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}

func (inst *Instance) Validate() error {
	if inst == nil {
		return fmt.Errorf("%w: instance is nil", ErrInvalidInstance)
	}
	if inst.Jobs <= 0 {
		return fmt.Errorf("%w: jobs must be > 0 (got %d)", ErrInvalidInstance, inst.Jobs)
	}
	if inst.Machines <= 0 {
		return fmt.Errorf("%w: machines must be > 0 (got %d)", ErrInvalidInstance, inst.Machines)
	}
	n := inst.Jobs * inst.Machines
	if len(inst.MachineOf) != n {
		return fmt.Errorf("%w: machine table length must be jobs*machines=%d (got %d)", ErrInvalidInstance, n, len(inst.MachineOf))
	}
	if len(inst.Durations) != n {
		return fmt.Errorf("%w: duration table length must be jobs*machines=%d (got %d)", ErrInvalidInstance, n, len(inst.Durations))
	}
	if inst.stepOnMachine != nil {
		return nil
	}

	inverse := make([]int, n)
	for i := range inverse {
		inverse[i] = -1
	}
	for j := 0; j < inst.Jobs; j++ {
		for s := 0; s < inst.Machines; s++ {
			m := inst.MachineOf[j*inst.Machines+s]
			d := inst.Durations[j*inst.Machines+s]
			if m < 0 || m >= inst.Machines {
				return fmt.Errorf("%w: job %d step %d uses machine %d out of range [0,%d)", ErrInvalidInstance, j, s, m, inst.Machines)
			}
			if d < 0 {
				return fmt.Errorf("%w: job %d step %d duration must be >= 0 (got %d)", ErrInvalidInstance, j, s, d)
			}
			if inverse[j*inst.Machines+m] >= 0 {
				return fmt.Errorf("%w: job %d visits machine %d twice", ErrInvalidInstance, j, m)
			}
			inverse[j*inst.Machines+m] = s
		}
	}
	inst.stepOnMachine = inverse
	return nil
}

func (inst *Instance) Machine(op Operation) int {
	return inst.MachineOf[op.Job*inst.Machines+op.Step]
}

func (inst *Instance) Duration(op Operation) int {
	return inst.Durations[op.Job*inst.Machines+op.Step]
}

// StepOnMachine returns the step at which job uses machine, or -1.
func (inst *Instance) StepOnMachine(job, machine int) int {
	if inst.stepOnMachine != nil {
		return inst.stepOnMachine[job*inst.Machines+machine]
	}
	for s := 0; s < inst.Machines; s++ {
		if inst.MachineOf[job*inst.Machines+s] == machine {
			return s
		}
	}
	return -1
}

// Operations returns the total number of operations, Jobs*Machines.
func (inst *Instance) Operations() int {
	return inst.Jobs * inst.Machines
}

// RandomInstance draws a random machine route per job and uniform
// durations in [minTime, maxTime].
func RandomInstance(jobs, machines, minTime, maxTime int, rng *rand.Rand) *Instance {
	if rng == nil {
		panic("генератор случайных чисел не инициализирован (nil)")
	}
	if minTime < 0 || maxTime < 0 || maxTime < minTime {
		panic("invalid time bounds")
	}
	machineOf := make([]int, jobs*machines)
	durations := make([]int, jobs*machines)
	span := maxTime - minTime + 1
	for j := 0; j < jobs; j++ {
		route := rng.Perm(machines)
		for s := 0; s < machines; s++ {
			machineOf[j*machines+s] = route[s]
			durations[j*machines+s] = minTime
			if span > 1 {
				durations[j*machines+s] += rng.Intn(span)
			}
		}
	}
	inst, err := NewInstance(jobs, machines, machineOf, durations)
	if err != nil {
		panic(err)
	}
	return inst
}
