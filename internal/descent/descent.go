package descent

import (
	"context"
	"time"

	"jobShop/internal/greedy"
	"jobShop/internal/jobshop"
	"jobShop/internal/neighborhood"
	"jobShop/internal/opt"
)

// Solver - спуск по окрестности Новицкого-Смутницкого:
// на каждой итерации выбирается лучший строго улучшающий сосед.
type Solver struct {
	Cfg      Config
	Observer opt.Observer
}

// New возвращает новый солвер спуска с валидацией конфигурации.
func New(cfg Config) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Solver{Cfg: cfg}, nil
}

// Solve строит начальное решение правилом Cfg.Init и улучшает его.
func (s *Solver) Solve(ctx context.Context, inst *jobshop.Instance) (opt.Result, error) {
	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}
	init, err := greedy.Build(inst, s.Cfg.Init)
	if err != nil {
		return opt.Result{}, err
	}
	return s.Improve(ctx, init)
}

// Improve выполняет спуск из заданного порядка. Исходный порядок не изменяется.
func (s *Solver) Improve(ctx context.Context, init *jobshop.ResourceOrder) (opt.Result, error) {
	start := time.Now()

	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}

	curr := init.Copy()
	currSched, err := curr.ToSchedule()
	if err != nil {
		return opt.Result{}, err
	}
	currCost := currSched.Makespan()
	initCost := currCost
	evals := 1

	meta := map[string]any{
		"init":          string(s.Cfg.Init),
		"init_makespan": initCost,
	}

	for iter := 0; ; iter++ {
		if s.Cfg.MaxIterations > 0 && iter >= s.Cfg.MaxIterations {
			return opt.Finish(opt.Result{Evaluations: evals, Iterations: iter, Exit: opt.ExitIterations, Meta: meta}, curr, start)
		}
		// Для поддержки отмены через context; итерация не прерывается
		if ctx.Err() != nil {
			meta["stopped"] = "context"
			return opt.Finish(opt.Result{Evaluations: evals, Iterations: iter, Exit: opt.ExitTimeout, Meta: meta}, curr, start)
		}

		moves := neighborhood.Neighbors(curr, currSched)

		// Лучший строго улучшающий сосед; при равенстве - первый найденный
		var best *neighborhood.Candidate
		for _, mv := range moves {
			cand, err := neighborhood.Evaluate(curr, mv)
			if err != nil {
				return opt.Result{}, err
			}
			evals++
			if cand.Makespan < currCost && (best == nil || cand.Makespan < best.Makespan) {
				best = &cand
			}
		}

		// Нет улучшающего хода - локальный оптимум
		if best == nil {
			return opt.Finish(opt.Result{Evaluations: evals, Iterations: iter, Exit: opt.ExitBlocked, Meta: meta}, curr, start)
		}

		curr, currSched, currCost = best.Order, best.Schedule, best.Makespan

		s.Observer.Notify(opt.Progress{
			Iteration:    iter + 1,
			Current:      currCost,
			Best:         currCost,
			Evaluations:  evals,
			Neighborhood: len(moves),
		})
	}
}
