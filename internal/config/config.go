package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	DatabasePath      string        `mapstructure:"database_path" yaml:"database_path"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	// HeartbeatInterval is the period of the server-to-client
	// keep_alive signal on persistent connections.
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval" yaml:"heartbeat_interval"`

	// WriteTimeout bounds every persistence call made by the message
	// pipeline.
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`

	// Durability selects the pipeline ordering policy:
	// "persist-first" or "broadcast-first".
	Durability string `mapstructure:"durability" yaml:"durability"`

	// MessageRateLimit caps accepted messages per minute per server.
	// Zero disables the limit.
	MessageRateLimit int `mapstructure:"message_rate_limit" yaml:"message_rate_limit"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		DatabasePath:      "steamchat.db",
		LogLevel:          "info",
		HeartbeatInterval: 30 * time.Second,
		WriteTimeout:      5 * time.Second,
		Durability:        "persist-first",
		MessageRateLimit:  0,
	}
}
