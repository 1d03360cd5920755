package tabu

import (
	"context"
	"time"

	"jobShop/internal/greedy"
	"jobShop/internal/jobshop"
	"jobShop/internal/neighborhood"
	"jobShop/internal/opt"
)

// Solver - табу-поиск по окрестности Новицкого-Смутницкого.
// Запрещёнными считаются соседи, чей критический путь уже есть в табу-списке.
type Solver struct {
	Cfg      Config
	Observer opt.Observer
}

// New возвращает новый TS-солвер с валидацией конфигурации.
// Используется в фабриках.
func New(cfg Config) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Solver{Cfg: cfg}, nil
}

// Solve строит начальное решение правилом Cfg.Init и запускает поиск.
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

// Improve - основной цикл алгоритма. Исходный порядок не изменяется.
func (s *Solver) Improve(ctx context.Context, init *jobshop.ResourceOrder) (opt.Result, error) {
	start := time.Now()

	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}

	// Текущее решение
	curr := init.Copy()
	currSched, err := curr.ToSchedule()
	if err != nil {
		return opt.Result{}, err
	}
	currCost := currSched.Makespan()
	evals := 1

	// Глобально лучшее решение
	best := curr
	bestCost := currCost

	tabu := newMemory(s.Cfg.Tenure)
	tabu.Add(currSched.CriticalPath())

	meta := map[string]any{
		"tabu_tenure":   s.Cfg.Tenure,
		"init":          string(s.Cfg.Init),
		"init_makespan": currCost,
	}

	finish := func(iter int, exit opt.ExitCause) (opt.Result, error) {
		return opt.Finish(opt.Result{Evaluations: evals, Iterations: iter, Exit: exit, Meta: meta}, best, start)
	}

	for iter := 0; iter < s.Cfg.MaxIterations; iter++ {
		// Для поддержки отмены через context
		if ctx.Err() != nil {
			meta["stopped"] = "context"
			return finish(iter, opt.ExitTimeout)
		}

		moves := neighborhood.Neighbors(curr, currSched)

		// Лучший допустимый (не табуированный) сосед, даже если он хуже текущего
		var chosen *neighborhood.Candidate
		var chosenPath []jobshop.Operation
		for _, mv := range moves {
			cand, err := neighborhood.Evaluate(curr, mv)
			if err != nil {
				return opt.Result{}, err
			}
			evals++
			if chosen != nil && cand.Makespan >= chosen.Makespan {
				continue
			}
			path := cand.Schedule.CriticalPath()
			if tabu.Contains(path) {
				continue
			}
			chosen, chosenPath = &cand, path
		}

		// Все соседи табуированы - завершаем поиск
		if chosen == nil {
			return finish(iter, opt.ExitBlocked)
		}

		tabu.Add(chosenPath)
		curr, currSched, currCost = chosen.Order, chosen.Schedule, chosen.Makespan

		// Обновление глобально лучшего решения
		if currCost < bestCost {
			best, bestCost = curr, currCost
		}

		s.Observer.Notify(opt.Progress{
			Iteration:    iter + 1,
			Current:      currCost,
			Best:         bestCost,
			Evaluations:  evals,
			Neighborhood: len(moves),
		})
	}

	return finish(s.Cfg.MaxIterations, opt.ExitIterations)
}
