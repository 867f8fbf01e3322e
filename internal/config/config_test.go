package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"API_ADDRESS", "EXERCISES_PATH", "RULES_PATH", "DB_DRIVER", "DB_DSN", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, ":8080", cfg.Address)
	assert.Equal(t, "data/exercises.json", cfg.ExercisesPath)
	assert.Equal(t, "configs/rules.yaml", cfg.RulesPath)
	assert.Equal(t, "sqlite3", cfg.DBDriver)
	assert.Empty(t, cfg.DBDSN)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("API_ADDRESS", ":9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_DSN", "postgres://localhost/fitmatch?sslmode=disable")
	t.Setenv("LOG_FORMAT", "text")

	cfg := Load()
	assert.Equal(t, ":9090", cfg.Address)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "postgres://localhost/fitmatch?sslmode=disable", cfg.DBDSN)
	assert.Equal(t, "text", cfg.LogFormat)
}
