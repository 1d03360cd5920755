package sa

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"jobShop/internal/greedy"
	"jobShop/internal/jobshop"
	"jobShop/internal/neighborhood"
	"jobShop/internal/opt"
)

// Solver - структура реализации алгоритма имитации отжига
type Solver struct {
	Cfg      Config
	Rng      *rand.Rand
	Observer opt.Observer
}

// New возвращает новый SA-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
// Используется в фабриках.
func New(cfg Config, rng *rand.Rand) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	return &Solver{Cfg: cfg, Rng: rng}, nil
}

// Solve строит начальное решение правилом Cfg.Init и запускает отжиг.
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

// Improve - реализация эвристики. Соседнее решение - случайный ход
// из окрестности критических блоков текущего решения.
func (s *Solver) Improve(ctx context.Context, init *jobshop.ResourceOrder) (opt.Result, error) {
	start := time.Now()

	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}
	if s.Rng == nil {
		return opt.Result{}, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}

	maxIter := s.Cfg.Iterations
	if maxIter <= 0 {
		maxIter = s.Cfg.IterationsPerJob * init.Instance().Jobs
	}

	curr := init.Copy()
	currSched, err := curr.ToSchedule()
	if err != nil {
		return opt.Result{}, err
	}
	currCost := currSched.Makespan()

	best := curr
	bestCost := currCost

	evals := 1
	T := s.Cfg.InitialTemp

	meta := map[string]any{
		"initial_temp": s.Cfg.InitialTemp,
		"final_temp":   s.Cfg.FinalTemp,
		"alpha":        s.Cfg.Alpha,
		"init":         string(s.Cfg.Init),
	}
	finish := func(iter int, exit opt.ExitCause) (opt.Result, error) {
		meta["T"] = T
		return opt.Finish(opt.Result{Evaluations: evals, Iterations: iter, Exit: exit, Meta: meta}, best, start)
	}

	iter := 0
	for ; iter < maxIter && T > s.Cfg.FinalTemp; iter++ {
		// Для поддержки отмены через context
		if ctx.Err() != nil {
			meta["stopped"] = "context"
			return finish(iter, opt.ExitTimeout)
		}

		moves := neighborhood.Neighbors(curr, currSched)
		if len(moves) == 0 {
			// Критический путь без блоков: решение оптимально для окрестности
			return finish(iter, opt.ExitBlocked)
		}

		cand, err := neighborhood.Evaluate(curr, moves[s.Rng.Intn(len(moves))])
		if err != nil {
			return opt.Result{}, err
		}
		evals++

		delta := cand.Makespan - currCost
		accept := false
		if delta <= 0 {
			// Улучшающее решение принимаем всегда
			accept = true
		} else {
			// Критерий Метрополиса:
			// допускает принятие ухудшающих решений
			p := math.Exp(-float64(delta) / T)
			if s.Rng.Float64() < p {
				accept = true
			}
		}

		if accept {
			curr, currSched, currCost = cand.Order, cand.Schedule, cand.Makespan

			// Обновление глобально лучшего решения
			if currCost < bestCost {
				best, bestCost = curr, currCost
			}
		}

		// Охлаждение температуры
		T *= s.Cfg.Alpha

		s.Observer.Notify(opt.Progress{
			Iteration:    iter + 1,
			Current:      currCost,
			Best:         bestCost,
			Evaluations:  evals,
			Neighborhood: len(moves),
		})
	}

	return finish(iter, opt.ExitIterations)
}
