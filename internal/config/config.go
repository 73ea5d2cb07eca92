package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	SessionTimeout time.Duration // окно простоя сессии
	SweepInterval  time.Duration // период фоновой зачистки
	MaxTaskListAge time.Duration // абсолютный максимум жизни списка

	MaxTasksPerList       int
	MaxListsPerSession    int
	MaxConcurrentSessions int
	TitleMaxLength        int
	CriteriaMaxLength     int
}

func Load() Config {
	return Config{
		Port:                  getEnv("PORT", "8080"),
		SessionTimeout:        getEnvDuration("SESSION_TIMEOUT", 5*time.Minute),
		SweepInterval:         getEnvDuration("SWEEP_INTERVAL", time.Hour),
		MaxTaskListAge:        getEnvDuration("MAX_TASKLIST_AGE", 24*time.Hour),
		MaxTasksPerList:       getEnvInt("MAX_TASKS_PER_LIST", 100),
		MaxListsPerSession:    getEnvInt("MAX_LISTS_PER_SESSION", 5),
		MaxConcurrentSessions: getEnvInt("MAX_CONCURRENT_SESSIONS", 1000),
		TitleMaxLength:        getEnvInt("TITLE_MAX_LENGTH", 255),
		CriteriaMaxLength:     getEnvInt("CRITERIA_MAX_LENGTH", 1000),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
