package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

var (
	cfg  *Config
	once sync.Once
)

// Init 依次读取 .env、config.yaml 与环境变量，后者覆盖前者
func Init() {
	once.Do(func() {
		c, err := Load()
		if err != nil {
			panic(err)
		}
		cfg = c
	})
}

// Load 不带缓存地加载一次配置
func Load() (*Config, error) {
	// .env 不存在时直接读环境变量
	_ = godotenv.Load()

	c := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	} else if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	if err := envconfig.Process("FEST", c); err != nil {
		return nil, fmt.Errorf("解析环境变量失败: %w", err)
	}
	return c, nil
}

// Default 返回本地开发用的默认配置
func Default() *Config {
	return &Config{
		Host:   "0.0.0.0",
		Port:   "8080",
		Prefix: "api",
		Mode:   ModeDebug,
		Mysql: Mysql{
			Host:   "127.0.0.1",
			Port:   "3306",
			DBName: "fest",
		},
		Redis: Redis{
			Host: "127.0.0.1",
			Port: "6379",
		},
		JWT: JWT{
			AccessSecret: "change-me",
			AccessExpire: 7 * 24 * 3600,
		},
		Log: Log{
			Level:      "info",
			MaxSize:    100,
			MaxBackups: 7,
			MaxAge:     30,
		},
		OTel: OTel{
			ServiceName: "fest-judging-system",
		},
		Leaderboard: Leaderboard{
			CacheTTLSeconds: 3600,
			ResultsLimit:    10,
		},
	}
}

// Get 获取全局配置，未初始化时自动加载
func Get() *Config {
	if cfg == nil {
		Init()
	}
	return cfg
}

// Set 替换全局配置，仅供测试与命令行覆盖使用
func Set(c *Config) {
	once.Do(func() {})
	cfg = c
}
