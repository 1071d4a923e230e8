package config

import (
	"errors"
	"io/fs"

	"github.com/dmitrijs2005/travelmate/internal/flagx"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const defaultDotenv = ".env"

// loadDotenv exports variables from the file named by -e/-env-file, or
// from ./.env when no flag is given. Variables already set in the process
// environment win. A missing ./.env is fine; a missing named file panics.
func loadDotenv() {
	path := flagx.EnvFileFlag()
	if path == "" {
		if err := godotenv.Load(defaultDotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
		return
	}
	if err := godotenv.Load(path); err != nil {
		panic(err)
	}
}

// parseEnv overlays cfg with the TRAVELMATE_* variables that are set.
// Unset variables leave the current values alone.
func parseEnv(cfg *Config) {
	if err := cleanenv.ReadEnv(cfg); err != nil {
		panic(err)
	}
}
