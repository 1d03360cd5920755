package greedy

import (
	"context"
	"fmt"
	"time"

	"jobShop/internal/jobshop"
	"jobShop/internal/opt"
)

// Rule - приоритетное правило диспетчеризации.
type Rule string

const (
	// SPT - кратчайшая длительность операции.
	SPT Rule = "SPT"
	// LRPT - наибольшее оставшееся время работы.
	LRPT Rule = "LRPT"
	// EST_SPT - сначала наиболее раннее начало, затем SPT.
	EST_SPT Rule = "EST_SPT"
	// EST_LRPT - сначала наиболее раннее начало, затем LRPT.
	EST_LRPT Rule = "EST_LRPT"
)

func (r Rule) Validate() error {
	switch r {
	case SPT, LRPT, EST_SPT, EST_LRPT:
		return nil
	default:
		return fmt.Errorf("неизвестное правило диспетчеризации %q", r)
	}
}

func (r Rule) earliestStart() bool { return r == EST_SPT || r == EST_LRPT }

func (r Rule) longestRemaining() bool { return r == LRPT || r == EST_LRPT }

// Build строит порядок на машинах, на каждом шаге выбирая одну из готовых
// операций (следующих по очереди в своих работах) по правилу r.
// При равенстве выбирается работа с меньшим номером.
func Build(inst *jobshop.Instance, r Rule) (*jobshop.ResourceOrder, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	order, err := jobshop.NewResourceOrder(inst)
	if err != nil {
		return nil, err
	}

	jobFree := make([]int, inst.Jobs)
	machineFree := make([]int, inst.Machines)
	nextStep := make([]int, inst.Jobs)

	// Оставшееся время работы начиная с шага s
	remaining := make([]int, inst.Jobs*(inst.Machines+1))
	for j := 0; j < inst.Jobs; j++ {
		for s := inst.Machines - 1; s >= 0; s-- {
			remaining[j*(inst.Machines+1)+s] = remaining[j*(inst.Machines+1)+s+1] +
				inst.Duration(jobshop.Operation{Job: j, Step: s})
		}
	}

	ready := make([]jobshop.Operation, 0, inst.Jobs)
	for n := 0; n < inst.Operations(); n++ {
		ready = ready[:0]
		for j := 0; j < inst.Jobs; j++ {
			if nextStep[j] < inst.Machines {
				ready = append(ready, jobshop.Operation{Job: j, Step: nextStep[j]})
			}
		}

		startOf := func(op jobshop.Operation) int {
			return max(jobFree[op.Job], machineFree[inst.Machine(op)])
		}

		// Фильтр по наиболее раннему началу
		if r.earliestStart() {
			est := startOf(ready[0])
			for _, op := range ready[1:] {
				est = min(est, startOf(op))
			}
			filtered := ready[:0]
			for _, op := range ready {
				if startOf(op) == est {
					filtered = append(filtered, op)
				}
			}
			ready = filtered
		}

		chosen := ready[0]
		for _, op := range ready[1:] {
			if r.longestRemaining() {
				if remaining[op.Job*(inst.Machines+1)+op.Step] > remaining[chosen.Job*(inst.Machines+1)+chosen.Step] {
					chosen = op
				}
			} else if inst.Duration(op) < inst.Duration(chosen) {
				chosen = op
			}
		}

		if err := order.Append(chosen); err != nil {
			return nil, err
		}
		end := startOf(chosen) + inst.Duration(chosen)
		jobFree[chosen.Job] = end
		machineFree[inst.Machine(chosen)] = end
		nextStep[chosen.Job]++
	}
	return order, nil
}

// Solver - конструктивная эвристика как самостоятельный оптимизатор.
type Solver struct {
	Rule Rule
}

func New(r Rule) (*Solver, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &Solver{Rule: r}, nil
}

// Solve строит одно решение; контекст не проверяется, построение занимает
// одну линейную развёртку.
func (s *Solver) Solve(_ context.Context, inst *jobshop.Instance) (opt.Result, error) {
	start := time.Now()
	order, err := Build(inst, s.Rule)
	if err != nil {
		return opt.Result{}, err
	}
	return opt.Finish(opt.Result{
		Evaluations: 1,
		Exit:        opt.ExitCompleted,
		Meta: map[string]any{
			"rule": string(s.Rule),
		},
	}, order, start)
}
