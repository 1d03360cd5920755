package sa

import (
	"fmt"

	"jobShop/internal/greedy"
)

type Config struct {
	Iterations       int
	IterationsPerJob int

	InitialTemp float64
	FinalTemp   float64
	Alpha       float64

	// Init - правило построения начального решения.
	Init greedy.Rule
}

func DefaultConfig() Config {
	return Config{
		Iterations:       0,
		IterationsPerJob: 200,

		InitialTemp: 50.0,
		FinalTemp:   0.1,
		Alpha:       0.995,

		Init: greedy.EST_SPT,
	}
}

func (c Config) Validate() error {
	if c.Iterations <= 0 && c.IterationsPerJob <= 0 {
		return fmt.Errorf(
			"должно быть задано Iterations > 0 или IterationsPerJob > 0",
		)
	}
	if c.InitialTemp <= 0 {
		return fmt.Errorf(
			"InitialTemp должно быть > 0 (получено %f)",
			c.InitialTemp,
		)
	}
	if c.FinalTemp <= 0 {
		return fmt.Errorf(
			"FinalTemp должно быть > 0 (получено %f)",
			c.FinalTemp,
		)
	}
	if c.FinalTemp >= c.InitialTemp {
		return fmt.Errorf(
			"FinalTemp должно быть < InitialTemp (получено %f >= %f)",
			c.FinalTemp,
			c.InitialTemp,
		)
	}
	if c.Alpha <= 0 || c.Alpha >= 1 {
		return fmt.Errorf(
			"alpha должно лежать в интервале (0,1) (получено %f)",
			c.Alpha,
		)
	}
	if err := c.Init.Validate(); err != nil {
		return fmt.Errorf("начальное решение: %w", err)
	}
	return nil
}
