package config

import "os"

// Config is read from the environment; every field has a default.
type Config struct {
	Address       string
	ExercisesPath string
	RulesPath     string
	DBDriver      string
	DBDSN         string
	LogLevel      string
	LogFormat     string
}

func Load() Config {
	return Config{
		Address:       getEnv("API_ADDRESS", ":8080"),
		ExercisesPath: getEnv("EXERCISES_PATH", "data/exercises.json"),
		RulesPath:     getEnv("RULES_PATH", "configs/rules.yaml"),
		DBDriver:      getEnv("DB_DRIVER", "sqlite3"),
		DBDSN:         getEnv("DB_DSN", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
