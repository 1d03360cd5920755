package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"jobShop/internal/bench"
	"jobShop/internal/config"
	"jobShop/internal/descent"
	"jobShop/internal/greedy"
	"jobShop/internal/jobshop"
	"jobShop/internal/opt"
	"jobShop/internal/sa"
	"jobShop/internal/tabu"
)

// Фабрики

func newGreedyFactory(rule greedy.Rule) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := greedy.New(rule)
		return solver
	}
}

func newDescentFactory(cfg descent.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := descent.New(cfg)
		return solver
	}
}

func newTSFactory(cfg tabu.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := tabu.New(cfg)
		return solver
	}
}

func newSAFactory(cfg sa.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := sa.New(cfg, rand.New(rand.NewSource(seed)))
		return solver
	}
}

func main() {
	logger := log.New(os.Stderr, "bench: ", log.LstdFlags)
	def := config.Default()

	// CLI флаги для настройки параметров алгоритмов и политики запуска.
	// Явно заданные флаги имеют приоритет над файлом -config.
	var (
		cfgPath      = flag.String("config", "", "YAML-файл с настройками (необязательно)")
		out          = flag.String("out", def.Out, "путь к выходному CSV-файлу")
		pairs        = flag.String("pairs", strings.Join(def.Pairs, ","), "случайные экземпляры: количество работ Х количество станков (через запятую)")
		instances    = flag.String("instances", "", "файлы экземпляров в классическом формате (через запятую)")
		algos        = flag.String("algos", strings.Join(def.Algos, ","), "список алгоритмов: GREEDY, DESCENT, TS, SA (через запятую)")
		runs         = flag.Int("runs", def.Runs, "количество запусков каждого алгоритма (с разными сидами)")
		baseSeed     = flag.Int64("seed", def.Seed, "базовый сид для запусков алгоритмов")
		instanceSeed = flag.Int64("instance_seed", def.InstanceSeed, "базовый сид для генерации экземпляров задачи")
		perRunTO     = flag.Duration("per_run_timeout", def.PerRunTimeout, "таймаут одного запуска; 0 - без ограничения")

		// --- Жадная эвристика ---
		greedyRule = flag.String("greedy_rule", def.Greedy.Rule, "правило: SPT | LRPT | EST_SPT | EST_LRPT")

		// --- Спуск ---
		dsIter = flag.Int("ds_iter", def.Descent.MaxIterations, "максимальное число улучшающих ходов (0 - до локального оптимума)")
		dsInit = flag.String("ds_init", def.Descent.Init, "правило начального решения")

		// --- Табу-поиск ---
		tsIter   = flag.Int("ts_iter", def.Tabu.MaxIterations, "максимальное число итераций")
		tsTenure = flag.Int("ts_tenure", def.Tabu.Tenure, "длина табу-списка (число критических путей)")
		tsInit   = flag.String("ts_init", def.Tabu.Init, "правило начального решения")

		// --- Алгоритм имитации отжига ---
		saIter       = flag.Int("sa_iter", def.SA.Iterations, "общее количество итераций (0 => sa_iter_per_job × nJobs)")
		saIterPerJob = flag.Int("sa_iter_per_job", def.SA.IterationsPerJob, "количество итераций на одну работу")
		saT0         = flag.Float64("sa_t0", def.SA.InitialTemp, "начальная температура")
		saTmin       = flag.Float64("sa_tmin", def.SA.FinalTemp, "конечная температура")
		saAlpha      = flag.Float64("sa_alpha", def.SA.Alpha, "коэффициент охлаждения (alpha)")
		saInit       = flag.String("sa_init", def.SA.Init, "правило начального решения")
	)
	flag.Parse()

	cfg := def
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			logger.Printf("Ошибка чтения конфигурации: %v", err)
			os.Exit(2)
		}
		cfg = loaded
	}

	overrides := map[string]func(){
		"out":             func() { cfg.Out = *out },
		"pairs":           func() { cfg.Pairs = splitCSV(*pairs) },
		"instances":       func() { cfg.Instances = splitCSV(*instances) },
		"algos":           func() { cfg.Algos = splitCSV(*algos) },
		"runs":            func() { cfg.Runs = *runs },
		"seed":            func() { cfg.Seed = *baseSeed },
		"instance_seed":   func() { cfg.InstanceSeed = *instanceSeed },
		"per_run_timeout": func() { cfg.PerRunTimeout = *perRunTO },
		"greedy_rule":     func() { cfg.Greedy.Rule = *greedyRule },
		"ds_iter":         func() { cfg.Descent.MaxIterations = *dsIter },
		"ds_init":         func() { cfg.Descent.Init = *dsInit },
		"ts_iter":         func() { cfg.Tabu.MaxIterations = *tsIter },
		"ts_tenure":       func() { cfg.Tabu.Tenure = *tsTenure },
		"ts_init":         func() { cfg.Tabu.Init = *tsInit },
		"sa_iter":         func() { cfg.SA.Iterations = *saIter },
		"sa_iter_per_job": func() { cfg.SA.IterationsPerJob = *saIterPerJob },
		"sa_t0":           func() { cfg.SA.InitialTemp = *saT0 },
		"sa_tmin":         func() { cfg.SA.FinalTemp = *saTmin },
		"sa_alpha":        func() { cfg.SA.Alpha = *saAlpha },
		"sa_init":         func() { cfg.SA.Init = *saInit },
	}
	flag.Visit(func(f *flag.Flag) {
		if apply, ok := overrides[f.Name]; ok {
			apply()
		}
	})

	if err := cfg.Validate(); err != nil {
		logger.Printf("Конфликт в конфигурации: %v", err)
		os.Exit(2)
	}

	cases, err := buildCases(cfg)
	if err != nil {
		logger.Printf("Конфликт: %v", err)
		os.Exit(2)
	}

	available := map[string]bench.Algorithm{
		"GREEDY":  {Name: "GREEDY", Factory: newGreedyFactory(greedy.Rule(cfg.Greedy.Rule))},
		"DESCENT": {Name: "DESCENT", Factory: newDescentFactory(cfg.DescentConfig())},
		"TS":      {Name: "TS", Factory: newTSFactory(cfg.TabuConfig())},
		"SA":      {Name: "SA", Factory: newSAFactory(cfg.SAConfig())},
	}

	var selected []bench.Algorithm
	for _, a := range cfg.Algos {
		al, ok := available[strings.ToUpper(a)]
		if !ok {
			logger.Printf("Алгоритм не предоставлен в программе %q; доступные: %v", a, keys(available))
			os.Exit(2)
		}
		selected = append(selected, al)
	}

	runner := bench.Runner{
		Runs:          cfg.Runs,
		BaseSeed:      cfg.Seed,
		PerRunTimeout: cfg.PerRunTimeout,
	}

	ctx := context.Background()
	started := time.Now()

	var records []bench.Record
	for _, c := range cases {
		for _, a := range selected {
			logger.Printf("Запущен алгоритм %s; экземпляр %s (общее кол-во запусков=%d)...", a.Name, c.Name, runner.Runs)

			rec, err := runner.RunCase(ctx, c, a)
			if err != nil {
				logger.Printf("Ошибка: %v", err)
				os.Exit(1)
			}
			records = append(records, rec)

			logger.Printf("  Makespan: лучшее=%d худшее=%d среднее=%.2f стандартное отклонение=%.2f | Время: среднее=%.2fms | остановки: %v",
				rec.MakespanBest, rec.MakespanWorst, rec.MakespanMean, rec.MakespanStd,
				rec.TimeMeanMs, rec.Exits,
			)
		}
	}

	if err := bench.WriteCSV(cfg.Out, records); err != nil {
		logger.Printf("Ошибка при записи в CSV: %v", err)
		os.Exit(1)
	}
	logger.Printf("Saved: %s (%s)", cfg.Out, time.Since(started).Round(time.Millisecond))
}

// helpers

func buildCases(cfg config.File) ([]bench.Case, error) {
	var cases []bench.Case
	for _, path := range cfg.Instances {
		inst, err := jobshop.LoadInstance(path)
		if err != nil {
			return nil, err
		}
		cases = append(cases, bench.Case{Name: filepath.Base(path), Instance: inst})
	}
	random, err := parsePairs(cfg.Pairs, cfg.InstanceSeed)
	if err != nil {
		return nil, err
	}
	return append(cases, random...), nil
}

func parsePairs(parts []string, baseInstanceSeed int64) ([]bench.Case, error) {
	cases := make([]bench.Case, 0, len(parts))

	for i, p := range parts {
		jm := strings.Split(p, "x")
		if len(jm) != 2 {
			return nil, fmt.Errorf("пара %q невалидной схемы, пример: 10x5", p)
		}
		jobs, err := atoiStrict(jm[0])
		if err != nil {
			return nil, fmt.Errorf("пара %q: ошибка парсинга количества работ: %w", p, err)
		}
		machines, err := atoiStrict(jm[1])
		if err != nil {
			return nil, fmt.Errorf("пара %q: ошибка парсинга количества машин: %w", p, err)
		}
		if jobs <= 0 || machines <= 0 {
			return nil, fmt.Errorf("пара %q: количество работ и машин должно быть > 0", p)
		}

		seed := baseInstanceSeed + int64(i)*10_000 + int64(jobs)*100 + int64(machines)

		cases = append(cases, bench.Case{
			Name:         p,
			Jobs:         jobs,
			Machines:     machines,
			InstanceSeed: seed,
		})
	}

	return cases, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func atoiStrict(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

func keys(m map[string]bench.Algorithm) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
