package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App   AppConfig
	DB    DBConfig
	Redis RedisConfig
	JWT   JWTConfig
	Queue QueueConfig
}

type AppConfig struct {
	Port string
	Env  string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

// QueueConfig carries the defaults used when a clinic has no
// ClinicQueueSettings row yet. Per-clinic values live in the database
// and override these once created.
type QueueConfig struct {
	BufferMinutes          int
	LateGraceMinutes       int
	AvgConsultationMinutes int
	SlotDurationMinutes    int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 12 * time.Hour
	}

	config := &Config{
		App: AppConfig{
			Port: viper.GetString("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:       viper.GetString("JWT_SECRET"),
			AccessExpiry: accessExpiry,
		},
		Queue: QueueConfig{
			BufferMinutes:          intOrDefault("QUEUE_BUFFER_MINUTES", 15),
			LateGraceMinutes:       intOrDefault("QUEUE_LATE_GRACE_MINUTES", 15),
			AvgConsultationMinutes: intOrDefault("QUEUE_AVG_CONSULTATION_MINUTES", 20),
			SlotDurationMinutes:    intOrDefault("QUEUE_SLOT_DURATION_MINUTES", 30),
		},
	}

	return config, nil
}

func intOrDefault(key string, fallback int) int {
	if !viper.IsSet(key) {
		return fallback
	}
	v := viper.GetInt(key)
	if v <= 0 {
		return fallback
	}
	return v
}
