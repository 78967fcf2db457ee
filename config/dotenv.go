package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// loadDotEnv loads the nearest ".env" from the working directory or one of
// its parents. Variables already set in the environment win.
func loadDotEnv(maxDepth int) {
	dir, err := os.Getwd()
	if err != nil {
		_ = godotenv.Load()
		return
	}
	for i := 0; i <= maxDepth; i++ {
		p := filepath.Join(dir, ".env")
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
