package astroenv_test

import (
	"fmt"
	"log"

	"github.com/Asteroidea-tn/asterombr/pkg/astroenv"
)

func ExampleLoad() {
	var cfg struct {
		Level string `env:"ASTROENV_EXAMPLE_LEVEL,info"`

		Batch struct {
			Workers int `env:"ASTROENV_EXAMPLE_WORKERS,4"`
		}
	}
	if err := astroenv.Load(&cfg); err != nil {
		log.Fatalf("load config: %v", err)
	}

	fmt.Println(cfg.Level, cfg.Batch.Workers)
	// Output: info 4
}
