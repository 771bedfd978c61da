package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Game     GameConfig     `mapstructure:"game"`
	Database DatabaseConfig `mapstructure:"database"`
}

type ServerConfig struct {
	WSAddress      string `mapstructure:"ws_address"`
	RPCAddress     string `mapstructure:"rpc_address"`
	MetricsAddress string `mapstructure:"metrics_address"`
}

type GameConfig struct {
	TurnTimeoutSeconds int `mapstructure:"turn_timeout_seconds"`
}

// TurnTimeout 每回合的墙钟时长
func (g GameConfig) TurnTimeout() time.Duration {
	seconds := g.TurnTimeoutSeconds
	if seconds <= 0 {
		seconds = 30
	}
	return time.Duration(seconds) * time.Second
}

type DatabaseConfig struct {
	// Driver selects the directory store implementation: "gorm" or "pq".
	Driver   string         `mapstructure:"driver"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

func LoadConfig(path string) (config *Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
