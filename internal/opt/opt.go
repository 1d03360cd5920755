package opt

import (
	"context"
	"time"

	"jobShop/internal/jobshop"
)

type Optimizer interface {
	Solve(ctx context.Context, inst *jobshop.Instance) (Result, error)
}

// ExitCause tells why a search stopped.
type ExitCause string

const (
	// ExitBlocked: no improving (descent) or admissible (tabu) neighbor left.
	ExitBlocked ExitCause = "blocked"
	// ExitIterations: the iteration budget was spent.
	ExitIterations ExitCause = "iterations"
	// ExitTimeout: the context expired; the result is the best found so far.
	ExitTimeout ExitCause = "timeout"
	// ExitCompleted: a constructive method finished.
	ExitCompleted ExitCause = "completed"
)

type Result struct {
	Order       *jobshop.ResourceOrder
	Schedule    *jobshop.Schedule
	Makespan    int
	Evaluations int
	Iterations  int
	Exit        ExitCause
	Duration    time.Duration
	Meta        map[string]any
}

// Progress is reported to observers after every completed iteration.
type Progress struct {
	Iteration    int
	Current      int
	Best         int
	Evaluations  int
	Neighborhood int
}

// Observer receives search progress. A nil Observer is ignored.
type Observer func(Progress)

func (o Observer) Notify(p Progress) {
	if o != nil {
		o(p)
	}
}

// Finish fills the result from the final order.
func Finish(res Result, order *jobshop.ResourceOrder, start time.Time) (Result, error) {
	sched, err := order.ToSchedule()
	if err != nil {
		return Result{}, err
	}
	res.Order = order
	res.Schedule = sched
	res.Makespan = sched.Makespan()
	res.Duration = time.Since(start)
	return res, nil
}
