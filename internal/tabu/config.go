package tabu

import (
	"fmt"

	"jobShop/internal/greedy"
)

type Config struct {
	// MaxIterations - максимальное число ходов (K).
	MaxIterations int

	// Tenure - длина табу-списка (T): сколько последних критических путей
	// запрещено посещать повторно.
	Tenure int

	// Init - правило построения начального решения.
	Init greedy.Rule
}

func DefaultConfig() Config {
	return Config{
		MaxIterations: 500,
		Tenure:        8,
		Init:          greedy.EST_SPT,
	}
}

func (c Config) Validate() error {
	if c.MaxIterations <= 0 {
		return fmt.Errorf(
			"MaxIterations должно быть > 0 (получено %d)",
			c.MaxIterations,
		)
	}
	if c.Tenure <= 0 {
		return fmt.Errorf(
			"Tenure должно быть > 0 (получено %d)",
			c.Tenure,
		)
	}
	if err := c.Init.Validate(); err != nil {
		return fmt.Errorf("начальное решение: %w", err)
	}
	return nil
}
