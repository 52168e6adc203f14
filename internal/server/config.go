package server

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the server configuration.
type Config struct {
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	DataDir string `mapstructure:"data_dir"`
}

// Addr returns the listen address as host:port.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(configPath string) (*viper.Viper, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.data_dir", "./data")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("database.dsn", "./data/gamepulse.db")

	// Plugin defaults
	v.SetDefault("plugins.probe.target", "8.8.8.8")
	v.SetDefault("plugins.probe.interval", "2s")
	v.SetDefault("plugins.probe.ping_count", 3)
	v.SetDefault("plugins.probe.ping_timeout", "1s")
	v.SetDefault("plugins.probe.history_keep", 10000)
	v.SetDefault("plugins.advisor.rules.cpu_threshold", 80.0)
	v.SetDefault("plugins.advisor.rules.gpu_threshold", 85.0)
	v.SetDefault("plugins.advisor.rules.memory_threshold", 80.0)
	v.SetDefault("plugins.advisor.rules.temperature_threshold", 80.0)
	v.SetDefault("plugins.advisor.rules.latency_threshold", 100.0)
	v.SetDefault("plugins.advisor.rules.packet_loss_threshold", 1.0)
	v.SetDefault("plugins.sentry.cooldown", "0s")
	v.SetDefault("plugins.sentry.retention", "168h")
	v.SetDefault("plugins.sentry.thresholds.cpu", 80.0)
	v.SetDefault("plugins.sentry.thresholds.gpu", 85.0)
	v.SetDefault("plugins.sentry.thresholds.memory", 80.0)
	v.SetDefault("plugins.sentry.thresholds.temperature", 80.0)
	v.SetDefault("plugins.sentry.thresholds.latency", 100.0)
	v.SetDefault("plugins.sentry.thresholds.packet_loss", 1.0)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("gamepulse")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/gamepulse")
	}

	// Environment variable support: GP_SERVER_PORT=9090
	v.SetEnvPrefix("GP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// No config file is fine, defaults apply.
	}

	return v, nil
}
