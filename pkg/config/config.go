package config

import "time"

// Chat definition chat_service YAML structure
type Chat struct {
	Port       string
	MongoSQL   DatabaseConfig `mapstructure:"mongo"`
	Redis      RedisConfig    `mapstructure:"redis"`
	PostgreSQL DatabaseConfig `mapstructure:"pg"`
	KafKa      KafkaConfig    `mapstructure:"kafka"`
	RabbitMQ   RabbitMQConfig `mapstructure:"rabbit"`
	Session    SessionConfig  `mapstructure:"session"`
}

// SessionConfig definition chat session tuning
// 每位觀眾進場後 session engine 的參數，未設定時用 ApplyDefault 補上
type SessionConfig struct {
	PullInterval         time.Duration `mapstructure:"pull_interval"`
	AvailabilityInterval time.Duration `mapstructure:"availability_interval"`
	PushStaleAfter       time.Duration `mapstructure:"push_stale_after"`
	ActivityIdleAfter    time.Duration `mapstructure:"activity_idle_after"`
	BufferCapacity       int           `mapstructure:"buffer_capacity"`
	DedupCeiling         int           `mapstructure:"dedup_ceiling"`
	HistoryLimit         int           `mapstructure:"history_limit"`
}

// ApplyDefault 補上未設定的 session 參數
func (s *SessionConfig) ApplyDefault() {
	if s.PullInterval <= 0 {
		s.PullInterval = 2500 * time.Millisecond
	}
	if s.AvailabilityInterval <= 0 {
		s.AvailabilityInterval = 5 * time.Second
	}
	if s.PushStaleAfter <= 0 {
		s.PushStaleAfter = 10 * time.Second
	}
	if s.ActivityIdleAfter <= 0 {
		s.ActivityIdleAfter = 8 * time.Second
	}
	if s.BufferCapacity <= 0 {
		s.BufferCapacity = 100
	}
	if s.DedupCeiling < s.BufferCapacity {
		// 去重上限不能小於訊息緩衝，不然會重播已經顯示過的訊息
		s.DedupCeiling = s.BufferCapacity * 3
	}
	if s.HistoryLimit <= 0 {
		s.HistoryLimit = s.BufferCapacity
	}
}

// RedisConfig definition redis setting
type RedisConfig struct {
	RedisDB int `mapstructure:"redis_db"`
}

// DatabaseConfig definition db setting
type DatabaseConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Database      string `mapstructure:"database"`
	RetryInterval int    `mapstructure:"retry_interval"`
	RetryCount    int    `mapstructure:"retry_count"`
}

// KafkaConfig definition kafka setting
type KafkaConfig struct {
	Brokers       []string      `mapstructure:"brokers"`
	Topic         string        `mapstructure:"topic"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
	RetryCount    int           `mapstructure:"retry_count"`
}

// RabbitMQConfig definition rabbitmq setting
type RabbitMQConfig struct {
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	IP            string `mapstructure:"ip"`
	Port          string `mapstructure:"port"`
	Queue         string `mapstructure:"queue"`
	RetryInterval int    `mapstructure:"retry_interval"`
	RetryCount    int    `mapstructure:"retry_count"`
}
