package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultConfigPath = "configs/config.yaml"
	envPrefix         = "cryptoai"
)

type ServerConfig struct {
	Port      string `mapstructure:"port"`
	ChartPort string `mapstructure:"chart_port"`
	JWTSecret string `mapstructure:"jwt_secret"`
}

type DatabaseConfig struct {
	Path     string `mapstructure:"path"`
	InMemory bool   `mapstructure:"in_memory"`
}

type MarketConfig struct {
	Pairs        []string      `mapstructure:"pairs"`
	PrimaryPair  string        `mapstructure:"primary_pair"`
	Interval     string        `mapstructure:"interval"`
	WindowSize   int           `mapstructure:"window_size"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	LiveTicker   bool          `mapstructure:"live_ticker"`
}

type TraderConfig struct {
	RSIPeriod   int           `mapstructure:"rsi_period"`
	Oversold    float64       `mapstructure:"oversold"`
	Overbought  float64       `mapstructure:"overbought"`
	TradeAmount float64       `mapstructure:"trade_amount"`
	MinPosition float64       `mapstructure:"min_position"`
	Cooldown    time.Duration `mapstructure:"cooldown"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Market   MarketConfig   `mapstructure:"market"`
	Trader   TraderConfig   `mapstructure:"trader"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// Load reads the YAML config file and merges environment overrides
// (CRYPTOAI_SERVER_JWT_SECRET etc.).
func Load(path string) (*Config, error) {
	v := viper.New()

	if path == "" {
		path = defaultConfigPath
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
		// no file is fine, defaults + env carry the day
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.chart_port", "8080")

	v.SetDefault("database.path", "data/cryptoai.db")
	v.SetDefault("database.in_memory", false)

	v.SetDefault("market.pairs", []string{"BTCUSDT", "ETHUSDT"})
	v.SetDefault("market.primary_pair", "BTCUSDT")
	v.SetDefault("market.interval", "1m")
	v.SetDefault("market.window_size", 100)
	v.SetDefault("market.poll_interval", "60s")
	v.SetDefault("market.live_ticker", false)

	v.SetDefault("trader.rsi_period", 14)
	v.SetDefault("trader.oversold", 30.0)
	v.SetDefault("trader.overbought", 70.0)
	v.SetDefault("trader.trade_amount", 0.002)
	v.SetDefault("trader.min_position", 0.01)
	v.SetDefault("trader.cooldown", "45s")

	v.SetDefault("logging.level", "info")
}

func (c *Config) Validate() error {
	if c.Server.JWTSecret == "" {
		return errors.New("config: server.jwt_secret is required")
	}
	if c.Market.PollInterval <= 0 {
		return errors.New("config: market.poll_interval must be positive")
	}
	if c.Market.WindowSize < c.Trader.RSIPeriod+1 {
		return fmt.Errorf("config: market.window_size %d cannot feed RSI(%d)",
			c.Market.WindowSize, c.Trader.RSIPeriod)
	}
	if c.Trader.TradeAmount <= 0 {
		return errors.New("config: trader.trade_amount must be positive")
	}
	found := false
	for _, p := range c.Market.Pairs {
		if p == c.Market.PrimaryPair {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("config: primary_pair %s missing from market.pairs", c.Market.PrimaryPair)
	}
	return nil
}
