package descent

import (
	"fmt"

	"jobShop/internal/greedy"
)

type Config struct {
	// MaxIterations ограничивает число улучшающих ходов; 0 - без ограничения.
	MaxIterations int

	// Init - правило построения начального решения.
	Init greedy.Rule
}

func DefaultConfig() Config {
	return Config{
		MaxIterations: 0,
		Init:          greedy.EST_SPT,
	}
}

func (c Config) Validate() error {
	if c.MaxIterations < 0 {
		return fmt.Errorf(
			"MaxIterations должно быть >= 0 (получено %d)",
			c.MaxIterations,
		)
	}
	if err := c.Init.Validate(); err != nil {
		return fmt.Errorf("начальное решение: %w", err)
	}
	return nil
}
