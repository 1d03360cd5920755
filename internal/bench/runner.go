package bench

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"jobShop/internal/jobshop"
	"jobShop/internal/opt"
)

type Algorithm struct {
	Name    string
	Factory func(seed int64) opt.Optimizer
}

// Case - экземпляр задачи для серии запусков: либо загруженный из файла,
// либо случайный размера Jobs x Machines.
type Case struct {
	Name         string
	Jobs         int
	Machines     int
	InstanceSeed int64
	Instance     *jobshop.Instance
}

// Resolve возвращает экземпляр задачи, генерируя его при необходимости.
func (c Case) Resolve() *jobshop.Instance {
	if c.Instance != nil {
		return c.Instance
	}
	rng := rand.New(rand.NewSource(c.InstanceSeed))
	return jobshop.RandomInstance(c.Jobs, c.Machines, 1, 99, rng)
}

type Record struct {
	RunID    string
	Algo     string
	Instance string
	Jobs     int
	Machines int
	Runs     int

	TimeBestMs float64
	TimeMeanMs float64
	TimeStdMs  float64

	MakespanBest  int
	MakespanWorst int
	MakespanMean  float64
	MakespanStd   float64

	// Число запусков, завершившихся по каждой причине
	Exits map[opt.ExitCause]int
}

type Runner struct {
	Runs          int
	BaseSeed      int64
	PerRunTimeout time.Duration // 0 = no timeout
}

func (r Runner) RunCase(ctx context.Context, c Case, algo Algorithm) (Record, error) {
	inst := c.Resolve()

	makespans := make([]int, 0, r.Runs)
	timesMs := make([]float64, 0, r.Runs)
	exits := make(map[opt.ExitCause]int)

	for i := 0; i < r.Runs; i++ {
		runSeed := r.BaseSeed + int64(i)

		op := algo.Factory(runSeed)

		runCtx := ctx
		cancel := func() {}
		if r.PerRunTimeout > 0 {
			runCtx, cancel = context.WithTimeout(ctx, r.PerRunTimeout)
		}
		start := time.Now()
		res, err := op.Solve(runCtx, inst)
		dur := time.Since(start)
		cancel()

		if err != nil {
			return Record{}, fmt.Errorf("run %d: solve error: %w", i, err)
		}
		if res.Schedule == nil || !res.Schedule.IsValid() {
			return Record{}, fmt.Errorf("run %d: invalid schedule", i)
		}

		makespans = append(makespans, res.Makespan)
		timesMs = append(timesMs, float64(dur.Microseconds())/1000.0)
		exits[res.Exit]++
	}

	msStats := CalcStats(makespans)
	tStats := CalcStats(timesMs)

	return Record{
		RunID:    uuid.NewString(),
		Algo:     algo.Name,
		Instance: c.Name,
		Jobs:     inst.Jobs,
		Machines: inst.Machines,
		Runs:     r.Runs,

		TimeBestMs: tStats.Best,
		TimeMeanMs: tStats.Mean,
		TimeStdMs:  tStats.Std,

		MakespanBest:  msStats.Best,
		MakespanWorst: msStats.Worst,
		MakespanMean:  msStats.Mean,
		MakespanStd:   msStats.Std,

		Exits: exits,
	}, nil
}

func WriteCSV(path string, records []Record) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"run_id", "algo", "instance", "jobs", "machines", "runs",
		"time_best_ms", "time_mean_ms", "time_std_ms",
		"makespan_best", "makespan_worst", "makespan_mean", "makespan_std",
		"exit_blocked", "exit_iterations", "exit_timeout",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	itoa := strconv.Itoa
	ftoa := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }

	for _, r := range records {
		row := []string{
			r.RunID,
			r.Algo,
			r.Instance,
			itoa(r.Jobs),
			itoa(r.Machines),
			itoa(r.Runs),

			ftoa(r.TimeBestMs),
			ftoa(r.TimeMeanMs),
			ftoa(r.TimeStdMs),

			itoa(r.MakespanBest),
			itoa(r.MakespanWorst),
			ftoa(r.MakespanMean),
			ftoa(r.MakespanStd),

			itoa(r.Exits[opt.ExitBlocked]),
			itoa(r.Exits[opt.ExitIterations]),
			itoa(r.Exits[opt.ExitTimeout]),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
