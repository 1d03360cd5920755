// Package config описывает файл настроек бенчмарка (YAML).
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"jobShop/internal/descent"
	"jobShop/internal/greedy"
	"jobShop/internal/sa"
	"jobShop/internal/tabu"
)

type File struct {
	Out           string        `yaml:"out"`
	Pairs         []string      `yaml:"pairs"`
	Instances     []string      `yaml:"instances"`
	Algos         []string      `yaml:"algos"`
	Runs          int           `yaml:"runs"`
	Seed          int64         `yaml:"seed"`
	InstanceSeed  int64         `yaml:"instance_seed"`
	PerRunTimeout time.Duration `yaml:"per_run_timeout"`

	Greedy  Greedy  `yaml:"greedy"`
	Descent Descent `yaml:"descent"`
	Tabu    Tabu    `yaml:"tabu"`
	SA      SA      `yaml:"sa"`
}

type Greedy struct {
	Rule string `yaml:"rule"`
}

type Descent struct {
	MaxIterations int    `yaml:"max_iterations"`
	Init          string `yaml:"init"`
}

type Tabu struct {
	MaxIterations int    `yaml:"max_iterations"`
	Tenure        int    `yaml:"tenure"`
	Init          string `yaml:"init"`
}

type SA struct {
	Iterations       int     `yaml:"iterations"`
	IterationsPerJob int     `yaml:"iterations_per_job"`
	InitialTemp      float64 `yaml:"initial_temp"`
	FinalTemp        float64 `yaml:"final_temp"`
	Alpha            float64 `yaml:"alpha"`
	Init             string  `yaml:"init"`
}

// Default возвращает настройки по умолчанию всех алгоритмов.
func Default() File {
	dc := descent.DefaultConfig()
	tc := tabu.DefaultConfig()
	sc := sa.DefaultConfig()
	return File{
		Out:          "artifacts/results.csv",
		Pairs:        []string{"6x6", "10x5", "15x10"},
		Algos:        []string{"GREEDY", "DESCENT", "TS", "SA"},
		Runs:         10,
		Seed:         1000,
		InstanceSeed: 777,

		Greedy:  Greedy{Rule: string(greedy.EST_SPT)},
		Descent: Descent{MaxIterations: dc.MaxIterations, Init: string(dc.Init)},
		Tabu:    Tabu{MaxIterations: tc.MaxIterations, Tenure: tc.Tenure, Init: string(tc.Init)},
		SA: SA{
			Iterations:       sc.Iterations,
			IterationsPerJob: sc.IterationsPerJob,
			InitialTemp:      sc.InitialTemp,
			FinalTemp:        sc.FinalTemp,
			Alpha:            sc.Alpha,
			Init:             string(sc.Init),
		},
	}
}

// Load читает YAML поверх значений по умолчанию: отсутствующие в файле
// поля сохраняют значения из Default.
func Load(path string) (File, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (f File) DescentConfig() descent.Config {
	return descent.Config{MaxIterations: f.Descent.MaxIterations, Init: greedy.Rule(f.Descent.Init)}
}

func (f File) TabuConfig() tabu.Config {
	return tabu.Config{MaxIterations: f.Tabu.MaxIterations, Tenure: f.Tabu.Tenure, Init: greedy.Rule(f.Tabu.Init)}
}

func (f File) SAConfig() sa.Config {
	return sa.Config{
		Iterations:       f.SA.Iterations,
		IterationsPerJob: f.SA.IterationsPerJob,
		InitialTemp:      f.SA.InitialTemp,
		FinalTemp:        f.SA.FinalTemp,
		Alpha:            f.SA.Alpha,
		Init:             greedy.Rule(f.SA.Init),
	}
}

// Validate проверяет все секции алгоритмов.
func (f File) Validate() error {
	if f.Runs <= 0 {
		return fmt.Errorf("runs должно быть > 0 (получено %d)", f.Runs)
	}
	if len(f.Pairs) == 0 && len(f.Instances) == 0 {
		return fmt.Errorf("не заданы ни pairs, ни instances")
	}
	if err := greedy.Rule(f.Greedy.Rule).Validate(); err != nil {
		return fmt.Errorf("greedy: %w", err)
	}
	if err := f.DescentConfig().Validate(); err != nil {
		return fmt.Errorf("descent: %w", err)
	}
	if err := f.TabuConfig().Validate(); err != nil {
		return fmt.Errorf("tabu: %w", err)
	}
	if err := f.SAConfig().Validate(); err != nil {
		return fmt.Errorf("sa: %w", err)
	}
	return nil
}
